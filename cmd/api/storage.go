package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cotiza-api/pkg/config"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// repositories adaptadores de persistencia del driver elegido.
type repositories struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	rfqs       repository.RFQRepository
	quotes     repository.QuoteRepository
	orders     repository.OrderRepository
	stats      repository.StatsRepository
	txRunner   workflow.TxRunner
}

// openStorage conecta el driver configurado. La función devuelta libera la conexión.
func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repositories, func(), error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			users:      memory.NewUserRepo(store),
			products:   memory.NewProductRepo(store),
			categories: memory.NewCategoryRepo(store),
			rfqs:       memory.NewRFQRepo(store),
			quotes:     memory.NewQuoteRepo(store),
			orders:     memory.NewOrderRepo(store),
			stats:      memory.NewStatsRepo(store),
			txRunner:   memory.NewTxRunner(store),
		}, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &repositories{
		users:      postgres.NewUserRepository(pool),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		rfqs:       postgres.NewRFQRepository(pool),
		quotes:     postgres.NewQuoteRepository(pool),
		orders:     postgres.NewOrderRepository(pool),
		stats:      postgres.NewStatsRepository(pool),
		txRunner:   postgres.NewTxRunner(pool),
	}, pool.Close, nil
}
