package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/postgres"
)

var rfqCols = []string{"id", "buyer_id", "product_id", "quantity", "message", "status", "created_at", "expires_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRFQRepo_TransitionStatus(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewRFQRepository(mock)
	id := uuid.NewString()
	update := regexp.QuoteMeta(`UPDATE rfqs SET status = $3 WHERE id = $1 AND status = $2`)

	// Caso 1: la fila seguía en open
	mock.ExpectExec(update).WithArgs(id, "open", "quoted").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	ok, err := repo.TransitionStatus(context.Background(), id, entity.RFQStatusOpen, entity.RFQStatusQuoted)
	require.NoError(t, err)
	assert.True(t, ok)

	// Caso 2: otro proceso ganó la carrera
	mock.ExpectExec(update).WithArgs(id, "open", "quoted").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	ok, err = repo.TransitionStatus(context.Background(), id, entity.RFQStatusOpen, entity.RFQStatusQuoted)
	require.NoError(t, err)
	assert.False(t, ok)

	// Caso 3: ID que no es UUID no llega a la DB
	ok, err = repo.TransitionStatus(context.Background(), "nope", entity.RFQStatusOpen, entity.RFQStatusQuoted)
	require.NoError(t, err)
	assert.False(t, ok)

	// Caso 4: aristas fuera de la máquina de estados no llegan a la DB
	for _, edge := range [][2]entity.RFQStatus{
		{entity.RFQStatusOpen, entity.RFQStatusClosed},
		{entity.RFQStatusClosed, entity.RFQStatusOpen},
		{entity.RFQStatusQuoted, entity.RFQStatusOpen},
	} {
		ok, err = repo.TransitionStatus(context.Background(), id, edge[0], edge[1])
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.False(t, ok)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRFQRepo_GetForUpdateBloqueaFila(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewRFQRepository(mock)
	id := uuid.NewString()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM rfqs WHERE id = \$1 FOR UPDATE`).WithArgs(id).WillReturnRows(
		pgxmock.NewRows(rfqCols).AddRow(id, "b1", "p1", 50, "msg", "open", now, now.Add(time.Hour)),
	)
	rfq, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, rfq)
	assert.Equal(t, entity.RFQStatusOpen, rfq.Status)
	assert.Equal(t, 50, rfq.Quantity)

	mock.ExpectQuery(`FROM rfqs WHERE id = \$1$`).WithArgs(id).WillReturnRows(pgxmock.NewRows(rfqCols))
	missing, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRFQRepo_ListFiltroProductos(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewRFQRepository(mock)
	pid := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rfqs WHERE product_id = ANY($1::uuid[]) AND status = $2 ORDER BY created_at DESC`)).
		WithArgs([]string{pid}, "open").
		WillReturnRows(pgxmock.NewRows(rfqCols))
	list, err := repo.List(context.Background(), repository.RFQFilter{ProductIDs: []string{pid}, Status: entity.RFQStatusOpen})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	// conjunto vacío: no consulta
	list, err = repo.List(context.Background(), repository.RFQFilter{ProductIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_QuoteDuplicada(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock)

	mock.ExpectExec(`INSERT INTO orders`).WillReturnError(&pgconn.PgError{Code: "23505"})
	err := repo.Create(context.Background(), &entity.Order{
		ID: uuid.NewString(), QuoteID: uuid.NewString(), Quantity: 1,
		PricePerUnit: decimal.NewFromInt(1), TotalAmount: decimal.NewFromInt(1), Status: entity.OrderStatusPending,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)

	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pgconn.PgError{Code: "23505"})
	err := repo.Create(context.Background(), &entity.User{ID: uuid.NewString(), Email: "a@b.co", Role: entity.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(email) = $1`)).WithArgs("a@b.co").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	u, err := repo.GetByEmail(context.Background(), "  A@B.co")
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepo_DecimalExacto(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewQuoteRepository(mock)
	id := uuid.NewString()
	cols := []string{"id", "rfq_id", "supplier_id", "price_per_unit", "total_price", "delivery_time", "message", "created_at"}

	mock.ExpectQuery(`FROM quotes WHERE id = \$1`).WithArgs(id).WillReturnRows(
		pgxmock.NewRows(cols).AddRow(id, "r1", "s1", decimal.RequireFromString("10.00"), decimal.RequireFromString("500.00"), "5 días", "", time.Now()),
	)
	q, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("500").Equal(q.TotalPrice))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_CommitYRollback(t *testing.T) {
	id := uuid.NewString()
	update := regexp.QuoteMeta(`UPDATE rfqs SET status = $3 WHERE id = $1 AND status = $2`)

	t.Run("commit", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(update).WithArgs(id, "open", "quoted").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		err := postgres.NewTxRunner(mock).Run(context.Background(), func(rfqRepo repository.RFQRepository, _ repository.QuoteRepository, _ repository.OrderRepository, _ repository.ProductRepository) error {
			_, err := rfqRepo.TransitionStatus(context.Background(), id, entity.RFQStatusOpen, entity.RFQStatusQuoted)
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(update).WithArgs(id, "open", "quoted").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO quotes`).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := postgres.NewTxRunner(mock).Run(context.Background(), func(rfqRepo repository.RFQRepository, quoteRepo repository.QuoteRepository, _ repository.OrderRepository, _ repository.ProductRepository) error {
			if _, err := rfqRepo.TransitionStatus(context.Background(), id, entity.RFQStatusOpen, entity.RFQStatusQuoted); err != nil {
				return err
			}
			return quoteRepo.Create(context.Background(), &entity.Quote{ID: uuid.NewString(), RFQID: id})
		})
		assert.ErrorContains(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin falla", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin().WillReturnError(errors.New("sin conexión"))
		called := false
		err := postgres.NewTxRunner(mock).Run(context.Background(), func(repository.RFQRepository, repository.QuoteRepository, repository.OrderRepository, repository.ProductRepository) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestStatsRepo_CountProducts(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewStatsRepository(mock)
	sid := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products WHERE supplier_id = $1`)).WithArgs(sid).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	n, err := repo.CountProducts(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
