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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, category_id, supplier_id, price, stock_quantity, min_order_quantity, specifications, is_active, created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	var specs any
	if len(p.Specifications) > 0 {
		specs = []byte(p.Specifications)
	}
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.CategoryID, p.SupplierID, p.Price,
		p.StockQuantity, p.MinOrderQuantity, specs, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List productos según el filtro, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w whereBuilder
	if f.CategoryID != "" {
		if !validID(f.CategoryID) {
			return []*entity.Product{}, nil
		}
		w.add("category_id = ?", f.CategoryID)
	}
	if f.SupplierID != "" {
		if !validID(f.SupplierID) {
			return []*entity.Product{}, nil
		}
		w.add("supplier_id = ?", f.SupplierID)
	}
	if f.OnlyActive {
		w.add("is_active = ?", true)
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// IDsBySupplier IDs de los productos del proveedor.
func (r *ProductRepo) IDsBySupplier(ctx context.Context, supplierID string) ([]string, error) {
	if !validID(supplierID) {
		return []string{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id FROM products WHERE supplier_id = $1 ORDER BY id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan product ids: %w", err)
	}
	return ids, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var specs []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID, &p.Price,
		&p.StockQuantity, &p.MinOrderQuantity, &specs, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Specifications = specs
	return &p, nil
}
