package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	s  *Store
	tx *txState
}

// NewProductRepo construye el repositorio fuera de transacción.
func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

var _ repository.ProductRepository = (*ProductRepo)(nil)

// Create inserta el producto.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	rec := record[entity.Product]{val: *cloneProduct(*p), seq: r.s.nextSeq()}
	if r.tx != nil {
		r.tx.products[p.ID] = rec
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = rec
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if r.tx != nil {
		if rec, ok := r.tx.products[id]; ok {
			return cloneProduct(rec.val), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(rec.val), nil
}

// List productos que cumplen el filtro, más recientes primero.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	keep := func(p entity.Product) bool {
		return (f.CategoryID == "" || p.CategoryID == f.CategoryID) &&
			(f.SupplierID == "" || p.SupplierID == f.SupplierID) &&
			(!f.OnlyActive || p.IsActive)
	}
	r.s.mu.RLock()
	recs := merge(r.s.products, r.overlay(), keep)
	r.s.mu.RUnlock()

	vals := sorted(recs, func(p entity.Product) time.Time { return p.CreatedAt })
	out := make([]*entity.Product, 0, len(vals))
	for _, p := range vals {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

// IDsBySupplier IDs de los productos del proveedor.
func (r *ProductRepo) IDsBySupplier(ctx context.Context, supplierID string) ([]string, error) {
	list, err := r.List(ctx, repository.ProductFilter{SupplierID: supplierID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *ProductRepo) overlay() collection[entity.Product] {
	if r.tx == nil {
		return nil
	}
	return r.tx.products
}

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct {
	s *Store
}

// NewCategoryRepo construye el repositorio.
func NewCategoryRepo(s *Store) *CategoryRepo { return &CategoryRepo{s: s} }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// Create inserta la categoría.
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[c.ID] = record[entity.Category]{val: *c, seq: r.s.nextSeq()}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	c := rec.val
	return &c, nil
}

// List todas las categorías ordenadas por nombre.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, rec := range r.s.categories {
		c := rec.val
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *entity.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
