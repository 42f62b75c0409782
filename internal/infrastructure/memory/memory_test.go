package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
)

func newRFQ(id, buyer, product string, created time.Time) *entity.RFQ {
	return &entity.RFQ{
		ID: id, BuyerID: buyer, ProductID: product, Quantity: 5,
		Status: entity.RFQStatusOpen, CreatedAt: created, ExpiresAt: created.Add(time.Hour),
	}
}

func TestTxRunner_RollbackDescartaEscrituras(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rfqs := memory.NewRFQRepo(store)
	require.NoError(t, rfqs.Create(ctx, newRFQ("r1", "b1", "p1", time.Now())))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, func(rfqRepo repository.RFQRepository, quoteRepo repository.QuoteRepository, _ repository.OrderRepository, _ repository.ProductRepository) error {
		ok, err := rfqRepo.TransitionStatus(ctx, "r1", entity.RFQStatusOpen, entity.RFQStatusQuoted)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, quoteRepo.Create(ctx, &entity.Quote{ID: "q1", RFQID: "r1"}))

		// dentro de la tx se ven las escrituras propias
		got, _ := rfqRepo.GetByID(ctx, "r1")
		assert.Equal(t, entity.RFQStatusQuoted, got.Status)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := rfqs.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.RFQStatusOpen, got.Status)
	q, err := memory.NewQuoteRepo(store).GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestTxRunner_CommitAplicaTodo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.NewRFQRepo(store).Create(ctx, newRFQ("r1", "b1", "p1", time.Now())))

	err := memory.NewTxRunner(store).Run(ctx, func(rfqRepo repository.RFQRepository, quoteRepo repository.QuoteRepository, _ repository.OrderRepository, _ repository.ProductRepository) error {
		if _, err := rfqRepo.TransitionStatus(ctx, "r1", entity.RFQStatusOpen, entity.RFQStatusQuoted); err != nil {
			return err
		}
		return quoteRepo.Create(ctx, &entity.Quote{ID: "q1", RFQID: "r1", PricePerUnit: decimal.NewFromInt(2)})
	})
	require.NoError(t, err)

	got, _ := memory.NewRFQRepo(store).GetByID(ctx, "r1")
	assert.Equal(t, entity.RFQStatusQuoted, got.Status)
	quotes, _ := memory.NewQuoteRepo(store).ListByRFQ(ctx, "r1")
	assert.Len(t, quotes, 1)
}

func TestTxRunner_ContextoCanceladoNoHaceCommit(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, memory.NewRFQRepo(store).Create(ctx, newRFQ("r1", "b1", "p1", time.Now())))

	err := memory.NewTxRunner(store).Run(ctx, func(rfqRepo repository.RFQRepository, _ repository.QuoteRepository, _ repository.OrderRepository, _ repository.ProductRepository) error {
		_, err := rfqRepo.TransitionStatus(ctx, "r1", entity.RFQStatusOpen, entity.RFQStatusQuoted)
		cancel()
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)

	got, _ := memory.NewRFQRepo(store).GetByID(context.Background(), "r1")
	assert.Equal(t, entity.RFQStatusOpen, got.Status)
}

func TestRFQRepo_TransitionStatusCAS(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRFQRepo(memory.NewStore())
	require.NoError(t, repo.Create(ctx, newRFQ("r1", "b1", "p1", time.Now())))

	ok, err := repo.TransitionStatus(ctx, "r1", entity.RFQStatusOpen, entity.RFQStatusQuoted)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(ctx, "r1", entity.RFQStatusOpen, entity.RFQStatusQuoted)
	require.NoError(t, err)
	assert.False(t, ok, "el estado ya no es open")

	ok, _ = repo.TransitionStatus(ctx, "missing", entity.RFQStatusOpen, entity.RFQStatusQuoted)
	assert.False(t, ok)

	// arista inexistente: ni siquiera compara el estado actual
	require.NoError(t, repo.Create(ctx, newRFQ("r2", "b1", "p1", time.Now())))
	ok, err = repo.TransitionStatus(ctx, "r2", entity.RFQStatusOpen, entity.RFQStatusClosed)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.False(t, ok)
	got, _ := repo.GetByID(ctx, "r2")
	assert.Equal(t, entity.RFQStatusOpen, got.Status)
}

func TestRFQRepo_ListFiltros(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRFQRepo(memory.NewStore())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newRFQ("r1", "b1", "p1", base)))
	require.NoError(t, repo.Create(ctx, newRFQ("r2", "b1", "p2", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newRFQ("r3", "b2", "p1", base.Add(2*time.Minute))))

	list, err := repo.List(ctx, repository.RFQFilter{BuyerID: "b1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID, "más recientes primero")

	list, _ = repo.List(ctx, repository.RFQFilter{ProductIDs: []string{"p1"}})
	assert.Len(t, list, 2)

	list, _ = repo.List(ctx, repository.RFQFilter{ProductIDs: []string{}})
	assert.Empty(t, list, "pertenencia a un conjunto vacío no devuelve nada")

	n, _ := repo.Count(ctx, repository.RFQFilter{})
	assert.Equal(t, 3, n)
}

func TestOrderRepo_UnaOrdenPorQuote(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepo(memory.NewStore())
	require.NoError(t, repo.Create(ctx, &entity.Order{ID: "o1", QuoteID: "q1", BuyerID: "b1", SupplierID: "s1"}))

	err := repo.Create(ctx, &entity.Order{ID: "o2", QuoteID: "q1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	mine, _ := repo.List(ctx, repository.OrderFilter{SupplierID: "s1"})
	assert.Len(t, mine, 1)
	other, _ := repo.List(ctx, repository.OrderFilter{BuyerID: "b2"})
	assert.NotNil(t, other)
	assert.Empty(t, other)
}

func TestUserRepo_EmailUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepo(memory.NewStore())
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "ana@acme.co", Role: entity.RoleBuyer}))

	err := repo.Create(ctx, &entity.User{ID: "u2", Email: "  ANA@acme.co"})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	u, err := repo.GetByEmail(ctx, "Ana@Acme.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	missing, err := repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
