package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo publicado por un proveedor.
// Para el flujo de cotización es de solo lectura: importa su existencia y su dueño (SupplierID).
type Product struct {
	ID               string
	Name             string
	Description      string
	CategoryID       string
	SupplierID       string
	Price            decimal.Decimal // precio de lista
	StockQuantity    int
	MinOrderQuantity int
	Specifications   json.RawMessage
	IsActive         bool
	CreatedAt        time.Time
}

// OwnedBy indica si el producto pertenece al proveedor.
func (p *Product) OwnedBy(supplierID string) bool {
	return p != nil && supplierID != "" && p.SupplierID == supplierID
}
