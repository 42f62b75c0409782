package entity

import "time"

// RFQStatus estado de una solicitud de cotización.
//
//	open --(cotización aceptada)--> quoted --(orden creada)--> closed
//
// open es inicial, closed es terminal; ninguna transición vuelve a open.
type RFQStatus string

// Estados válidos de RFQ.
const (
	RFQStatusOpen   RFQStatus = "open"
	RFQStatusQuoted RFQStatus = "quoted"
	RFQStatusClosed RFQStatus = "closed"
)

// Vigencia de una RFQ en días: por defecto y máxima admitida.
const (
	DefaultRFQExpiryDays = 7
	MaxRFQExpiryDays     = 365
)

// MaxRFQExpiry vigencia máxima como duración.
const MaxRFQExpiry = MaxRFQExpiryDays * 24 * time.Hour

var rfqTransitions = map[RFQStatus]RFQStatus{
	RFQStatusOpen:   RFQStatusQuoted,
	RFQStatusQuoted: RFQStatusClosed,
}

// CanTransition indica si from -> to es una arista válida de la máquina de estados.
func CanTransition(from, to RFQStatus) bool {
	next, ok := rfqTransitions[from]
	return ok && next == to
}

// RFQ solicitud de cotización creada por un comprador sobre un producto.
// Nunca se elimina; solo cambia de estado.
type RFQ struct {
	ID        string
	BuyerID   string
	ProductID string
	Quantity  int
	Message   string
	Status    RFQStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired true cuando now es posterior a ExpiresAt.
func (r *RFQ) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// AcceptsQuotes una RFQ admite cotización solo si está open y no ha vencido.
func (r *RFQ) AcceptsQuotes(now time.Time) bool {
	return r.Status == RFQStatusOpen && !r.IsExpired(now)
}
