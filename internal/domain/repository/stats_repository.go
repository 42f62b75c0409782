package repository

import "context"

// StatsRepository consultas agregadas read-only para el dashboard.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	// CountProducts supplierID vacío cuenta todos.
	CountProducts(ctx context.Context, supplierID string) (int, error)
}
