package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos. Solo el proveedor publica; la lectura es pública.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create publica un producto del proveedor autenticado. MinOrderQuantity por defecto 1.
func (uc *ProductUseCase) Create(ctx context.Context, supplier *entity.User, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Authorize(supplier, access.OpCreateProduct); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if !in.Price.IsPositive() || !in.Price.Equal(in.Price.Round(2)) {
		return nil, fmt.Errorf("%w: price debe ser > 0 con máximo 2 decimales", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	minQty := 1
	if in.MinOrderQuantity != nil {
		minQty = *in.MinOrderQuantity
	}
	if minQty < 1 {
		return nil, fmt.Errorf("%w: min_order_quantity debe ser >= 1", domain.ErrInvalidInput)
	}
	if len(in.Specifications) > 0 && !json.Valid(in.Specifications) {
		return nil, fmt.Errorf("%w: specifications no es JSON válido", domain.ErrInvalidInput)
	}

	category, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("obtener categoría: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidInput, in.CategoryID)
	}

	product := &entity.Product{
		ID:               uuid.New().String(),
		Name:             name,
		Description:      strings.TrimSpace(in.Description),
		CategoryID:       category.ID,
		SupplierID:       supplier.ID,
		Price:            in.Price,
		StockQuantity:    in.StockQuantity,
		MinOrderQuantity: minQty,
		Specifications:   in.Specifications,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(product), nil
}

// List productos activos, opcionalmente por categoría y/o proveedor.
func (uc *ProductUseCase) List(ctx context.Context, categoryID, supplierID string) ([]*dto.ProductResponse, error) {
	return uc.list(ctx, repository.ProductFilter{CategoryID: categoryID, SupplierID: supplierID, OnlyActive: true})
}

// ListMine todos los productos del proveedor autenticado (activos o no).
func (uc *ProductUseCase) ListMine(ctx context.Context, supplier *entity.User) ([]*dto.ProductResponse, error) {
	if err := access.Authorize(supplier, access.OpListMyProducts); err != nil {
		return nil, err
	}
	return uc.list(ctx, repository.ProductFilter{SupplierID: supplier.ID})
}

func (uc *ProductUseCase) list(ctx context.Context, f repository.ProductFilter) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return items, nil
}
