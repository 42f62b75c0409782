package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas agregadas read-only para el dashboard.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// CountUsers total de usuarios.
func (r *StatsRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountProducts productos del proveedor, o todos si supplierID es vacío.
func (r *StatsRepo) CountProducts(ctx context.Context, supplierID string) (int, error) {
	var w whereBuilder
	if supplierID != "" {
		if !validID(supplierID) {
			return 0, nil
		}
		w.add("supplier_id = ?", supplierID)
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
