package memory

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// StatsRepo implementa repository.StatsRepository.
type StatsRepo struct {
	s *Store
}

// NewStatsRepo construye el repositorio.
func NewStatsRepo(s *Store) *StatsRepo { return &StatsRepo{s: s} }

var _ repository.StatsRepository = (*StatsRepo)(nil)

// CountUsers total de usuarios registrados.
func (r *StatsRepo) CountUsers(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

// CountProducts productos del proveedor, o todos si supplierID es vacío.
func (r *StatsRepo) CountProducts(_ context.Context, supplierID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, rec := range r.s.products {
		if supplierID == "" || rec.val.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}
