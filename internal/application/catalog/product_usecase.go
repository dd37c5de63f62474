package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y variantes.
// La cantidad de una variante nunca se escribe aquí: se maneja vía movimientos.
type ProductUseCase struct {
	products   repository.ProductRepository
	variants   repository.VariantRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, variants repository.VariantRepository, categories repository.CategoryRepository, suppliers repository.SupplierRepository) *ProductUseCase {
	return &ProductUseCase{products: products, variants: variants, categories: categories, suppliers: suppliers}
}

// CreateProduct crea un producto; categoría y proveedor deben existir si se envían.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CategoryID:  emptyToNil(in.CategoryID),
		SupplierID:  emptyToNil(in.SupplierID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetProduct obtiene un producto por ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// UpdateProduct actualiza los campos enviados. Un category_id o supplier_id vacío los desasocia.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		p.CategoryID = emptyToNil(in.CategoryID)
	}
	if in.SupplierID != nil {
		p.SupplierID = emptyToNil(in.SupplierID)
	}
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// ListProducts lista productos por nombre con paginación.
func (uc *ProductUseCase) ListProducts(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// CreateVariant crea una variante con cantidad cero; el stock inicial entra como movimiento ENTRY.
func (uc *ProductUseCase) CreateVariant(ctx context.Context, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if err := validatePrices(in.CostPrice, in.SalePrice); err != nil {
		return nil, err
	}
	if err := validateLevels(in.MinStock, in.IdealStock); err != nil {
		return nil, err
	}
	now := time.Now()
	v := &entity.ProductVariant{
		ID:         uuid.New().String(),
		ProductID:  p.ID,
		Attribute:  strings.TrimSpace(in.Attribute),
		CostPrice:  in.CostPrice,
		SalePrice:  in.SalePrice,
		MinStock:   in.MinStock,
		IdealStock: in.IdealStock,
		Barcode:    emptyToNil(in.Barcode),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.variants.Create(ctx, v); err != nil {
		return nil, err
	}
	return uc.GetVariant(ctx, v.ID)
}

// GetVariant obtiene una variante con los datos del producto.
func (uc *ProductUseCase) GetVariant(ctx context.Context, id string) (*dto.VariantResponse, error) {
	v, err := uc.variants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return ToVariantResponse(v), nil
}

// UpdateVariant modifica precios, niveles, atributo y código de barras.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	v, err := uc.variants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if in.Attribute != nil {
		v.Attribute = strings.TrimSpace(*in.Attribute)
	}
	if in.CostPrice != nil {
		v.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		v.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		v.MinStock = *in.MinStock
	}
	if in.IdealStock != nil {
		v.IdealStock = *in.IdealStock
	}
	if in.Barcode != nil {
		v.Barcode = emptyToNil(in.Barcode)
	}
	if err := validatePrices(v.CostPrice, v.SalePrice); err != nil {
		return nil, err
	}
	if err := validateLevels(v.MinStock, v.IdealStock); err != nil {
		return nil, err
	}
	v.UpdatedAt = time.Now()
	if err := uc.variants.Update(ctx, v); err != nil {
		return nil, err
	}
	return uc.GetVariant(ctx, id)
}

// ListVariants lista variantes filtrando por producto y estado de stock.
func (uc *ProductUseCase) ListVariants(ctx context.Context, productID, status string, page dto.PageRequest) (*dto.VariantListResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "", "DANGER", "WARNING", "OK":
	default:
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	page.DefaultPage()
	list, err := uc.variants.List(ctx, repository.VariantFilter{
		ProductID: productID,
		Status:    status,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.VariantResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *ToVariantResponse(v))
	}
	return &dto.VariantListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID *string) error {
	if id := emptyToNil(categoryID); id != nil {
		c, err := uc.categories.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, *id)
		}
	}
	if id := emptyToNil(supplierID); id != nil {
		s, err := uc.suppliers.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *id)
		}
	}
	return nil
}

func validatePrices(cost, sale decimal.Decimal) error {
	if cost.IsNegative() || sale.IsNegative() {
		return fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

func validateLevels(minStock, idealStock int64) error {
	if minStock < 0 || idealStock < 0 {
		return fmt.Errorf("%w: los niveles de stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	if idealStock < minStock {
		return fmt.Errorf("%w: el stock ideal debe ser mayor o igual al mínimo", domain.ErrInvalidInput)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToVariantResponse convierte la entidad en su DTO de salida.
func ToVariantResponse(v *entity.ProductVariant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		ProductName:    v.ProductName,
		Attribute:      v.Attribute,
		Label:          v.Label(),
		CostPrice:      v.CostPrice,
		SalePrice:      v.SalePrice,
		Quantity:       v.Quantity,
		MinStock:       v.MinStock,
		IdealStock:     v.IdealStock,
		Barcode:        v.Barcode,
		Status:         string(v.Status()),
		InventoryValue: v.InventoryValue(),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
