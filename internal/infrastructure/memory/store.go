// Package memory implementa los puertos de repository en memoria de proceso.
// Se usa con DB_DRIVER=memory (desarrollo) y en los tests de casos de uso.
//
// Las escrituras fuera de transacción se aplican de inmediato; dentro de TxRunner.Run
// se acumulan en un overlay y se aplican todas juntas al hacer commit.
package memory

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

type record[T any] struct {
	val T
	seq uint64
}

type collection[T any] map[string]record[T]

// Store contenedor de todas las colecciones. El cero no es válido; usar NewStore.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa transacciones
	seq  atomic.Uint64

	users      collection[entity.User]
	products   collection[entity.Product]
	categories collection[entity.Category]
	rfqs       collection[entity.RFQ]
	quotes     collection[entity.Quote]
	orders     collection[entity.Order]
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:      collection[entity.User]{},
		products:   collection[entity.Product]{},
		categories: collection[entity.Category]{},
		rfqs:       collection[entity.RFQ]{},
		quotes:     collection[entity.Quote]{},
		orders:     collection[entity.Order]{},
	}
}

func (s *Store) nextSeq() uint64 { return s.seq.Add(1) }

// sorted ordena más recientes primero (created_at DESC),
// con el orden de inserción como desempate.
func sorted[T any](recs []record[T], createdAt func(T) time.Time) []T {
	sort.SliceStable(recs, func(i, j int) bool {
		ti, tj := createdAt(recs[i].val), createdAt(recs[j].val)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return recs[i].seq > recs[j].seq
	})
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.val)
	}
	return out
}

// merge combina el store con el overlay de una tx (el overlay gana).
func merge[T any](base, overlay collection[T], keep func(T) bool) []record[T] {
	out := make([]record[T], 0, len(base)+len(overlay))
	for id, r := range base {
		if _, shadowed := overlay[id]; shadowed {
			continue
		}
		if keep(r.val) {
			out = append(out, r)
		}
	}
	for _, r := range overlay {
		if keep(r.val) {
			out = append(out, r)
		}
	}
	return out
}
