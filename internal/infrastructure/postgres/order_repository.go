package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, quote_id, rfq_id, buyer_id, supplier_id, product_id, quantity, price_per_unit, total_amount, status, shipping_address, created_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la orden. quote_id es UNIQUE: una segunda orden para la misma quote => domain.ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.QuoteID, o.RFQID, o.BuyerID, o.SupplierID, o.ProductID, o.Quantity,
		o.PricePerUnit, o.TotalAmount, string(o.Status), o.ShippingAddress, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List órdenes según el filtro, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	w, ok := orderWhere(f)
	if !ok {
		return []*entity.Order{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Count cantidad de órdenes que cumplen el filtro.
func (r *OrderRepo) Count(ctx context.Context, f repository.OrderFilter) (int, error) {
	w, ok := orderWhere(f)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func orderWhere(f repository.OrderFilter) (whereBuilder, bool) {
	var w whereBuilder
	if f.BuyerID != "" {
		if !validID(f.BuyerID) {
			return w, false
		}
		w.add("buyer_id = ?", f.BuyerID)
	}
	if f.SupplierID != "" {
		if !validID(f.SupplierID) {
			return w, false
		}
		w.add("supplier_id = ?", f.SupplierID)
	}
	return w, true
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	if err := row.Scan(
		&o.ID, &o.QuoteID, &o.RFQID, &o.BuyerID, &o.SupplierID, &o.ProductID, &o.Quantity,
		&o.PricePerUnit, &o.TotalAmount, &status, &o.ShippingAddress, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
