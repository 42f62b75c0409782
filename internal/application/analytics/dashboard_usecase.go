// Package analytics contiene el caso de uso del dashboard de estadísticas por rol.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// DashboardUseCase genera los contadores del dashboard según el rol del usuario.
//
// Fuente de datos: repositorios read-only. No modifica nada.
type DashboardUseCase struct {
	statsRepo   repository.StatsRepository
	rfqRepo     repository.RFQRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	statsRepo repository.StatsRepository,
	rfqRepo repository.RFQRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) *DashboardUseCase {
	return &DashboardUseCase{statsRepo: statsRepo, rfqRepo: rfqRepo, orderRepo: orderRepo, productRepo: productRepo}
}

type countResult struct {
	label string
	dst   **int
	n     int
	err   error
}

// GetStats construye el DashboardStatsDTO. Las consultas de cada rol corren en paralelo.
//
//	admin:    total_users, total_products, total_orders, total_rfqs
//	supplier: my_products, my_orders, pending_rfqs (open sobre sus productos)
//	buyer:    my_rfqs, my_orders
func (uc *DashboardUseCase) GetStats(ctx context.Context, user *entity.User) (*dto.DashboardStatsDTO, error) {
	if err := access.Authorize(user, access.OpViewDashboard); err != nil {
		return nil, err
	}
	out := &dto.DashboardStatsDTO{Role: string(user.Role)}

	type query struct {
		label string
		dst   **int
		run   func() (int, error)
	}
	var queries []query
	switch user.Role {
	case entity.RoleAdmin:
		queries = []query{
			{"usuarios", &out.TotalUsers, func() (int, error) { return uc.statsRepo.CountUsers(ctx) }},
			{"productos", &out.TotalProducts, func() (int, error) { return uc.statsRepo.CountProducts(ctx, "") }},
			{"órdenes", &out.TotalOrders, func() (int, error) { return uc.orderRepo.Count(ctx, repository.OrderFilter{}) }},
			{"rfqs", &out.TotalRFQs, func() (int, error) { return uc.rfqRepo.Count(ctx, repository.RFQFilter{}) }},
		}
	case entity.RoleSupplier:
		queries = []query{
			{"mis productos", &out.MyProducts, func() (int, error) { return uc.statsRepo.CountProducts(ctx, user.ID) }},
			{"mis órdenes", &out.MyOrders, func() (int, error) {
				return uc.orderRepo.Count(ctx, repository.OrderFilter{SupplierID: user.ID})
			}},
			{"rfqs pendientes", &out.PendingRFQs, func() (int, error) { return uc.pendingRFQs(ctx, user.ID) }},
		}
	case entity.RoleBuyer:
		queries = []query{
			{"mis rfqs", &out.MyRFQs, func() (int, error) { return uc.rfqRepo.Count(ctx, repository.RFQFilter{BuyerID: user.ID}) }},
			{"mis órdenes", &out.MyOrders, func() (int, error) {
				return uc.orderRepo.Count(ctx, repository.OrderFilter{BuyerID: user.ID})
			}},
		}
	}

	results := make(chan countResult, len(queries))
	for _, q := range queries {
		go func(q query) {
			n, err := q.run()
			results <- countResult{label: q.label, dst: q.dst, n: n, err: err}
		}(q)
	}

	var firstErr error
	for range queries {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("dashboard: %s: %w", r.label, r.err)
			}
			continue
		}
		n := r.n
		*r.dst = &n
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (uc *DashboardUseCase) pendingRFQs(ctx context.Context, supplierID string) (int, error) {
	ids, err := uc.productRepo.IDsBySupplier(ctx, supplierID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return uc.rfqRepo.Count(ctx, repository.RFQFilter{ProductIDs: ids, Status: entity.RFQStatusOpen})
}
