package crm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/domain"
	domaincrm "github.com/jhoicas/suestoque-api/internal/domain/crm"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

const (
	searchLimit    = 10
	favoritesLimit = 5
	rankingLimit   = 10
)

// CustomerUseCase casos de uso del CRM: clientes, ficha con métricas y rankings.
type CustomerUseCase struct {
	repo    repository.CustomerRepository
	reports repository.ReportRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, reports repository.ReportRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, reports: reports}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Document:  strings.TrimSpace(in.Document),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// Update modifica los campos enviados.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Document != nil {
		c.Document = strings.TrimSpace(*in.Document)
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina el cliente; sus compras quedan en el ledger sin cliente asociado.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista clientes por nombre.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Search busca por nombre, teléfono o email (máx. 10).
func (uc *CustomerUseCase) Search(ctx context.Context, q string) ([]dto.CustomerResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.CustomerResponse{}, nil
	}
	list, err := uc.repo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// Detail ficha del cliente: historial, gasto, ganancia, ticket promedio, frecuencia y favoritos.
func (uc *CustomerUseCase) Detail(ctx context.Context, id string) (*dto.CustomerDetailResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	purchases, err := uc.reports.CustomerPurchases(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &dto.CustomerDetailResponse{
		Customer:       *toCustomerResponse(c),
		Purchases:      make([]dto.CustomerPurchaseDTO, 0, len(purchases)),
		TotalSpent:     decimal.Zero,
		TotalProfit:    decimal.Zero,
		AverageTicket:  decimal.Zero,
		FrequencyLabel: "-",
		Favorites:      []dto.FavoriteVariantDTO{},
	}
	dates := make([]time.Time, 0, len(purchases))
	favorites := map[string]*dto.FavoriteVariantDTO{}
	for _, p := range purchases {
		qty := decimal.NewFromInt(p.Quantity)
		total := p.UnitPrice.Mul(qty)
		label := variantLabel(p.ProductName, p.Attribute)
		res.Purchases = append(res.Purchases, dto.CustomerPurchaseDTO{
			MovementID: p.MovementID,
			VariantID:  p.VariantID,
			Label:      label,
			Quantity:   p.Quantity,
			Total:      total,
			Date:       p.Date,
		})
		res.TotalSpent = res.TotalSpent.Add(total)
		res.TotalProfit = res.TotalProfit.Add(p.UnitPrice.Sub(p.UnitCost).Mul(qty))
		dates = append(dates, p.Date)

		fav, ok := favorites[p.VariantID]
		if !ok {
			fav = &dto.FavoriteVariantDTO{VariantID: p.VariantID, Label: label}
			favorites[p.VariantID] = fav
		}
		fav.Quantity += p.Quantity
	}
	res.PurchaseCount = len(purchases)
	if res.PurchaseCount > 0 {
		res.AverageTicket = res.TotalSpent.Div(decimal.NewFromInt(int64(res.PurchaseCount))).Round(2)
	}
	if days, ok := domaincrm.PurchaseFrequencyDays(dates); ok {
		rounded := decimal.NewFromFloat(days).Round(1).InexactFloat64()
		res.FrequencyDays = &rounded
		res.FrequencyLabel = domaincrm.FrequencyLabel(days)
	}

	for _, f := range favorites {
		res.Favorites = append(res.Favorites, *f)
	}
	sort.Slice(res.Favorites, func(i, j int) bool {
		if res.Favorites[i].Quantity != res.Favorites[j].Quantity {
			return res.Favorites[i].Quantity > res.Favorites[j].Quantity
		}
		return res.Favorites[i].Label < res.Favorites[j].Label
	})
	if len(res.Favorites) > favoritesLimit {
		res.Favorites = res.Favorites[:favoritesLimit]
	}
	return res, nil
}

// Rankings top 10 clientes por gasto y por días distintos de compra en el período.
func (uc *CustomerUseCase) Rankings(ctx context.Context, from, to *time.Time) (*dto.CustomerRankingsResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: rango de fechas inválido", domain.ErrInvalidInput)
	}
	bySpend, err := uc.reports.TopCustomersBySpend(ctx, from, to, rankingLimit)
	if err != nil {
		return nil, err
	}
	byFreq, err := uc.reports.TopCustomersByFrequency(ctx, from, to, rankingLimit)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerRankingsResponse{
		BySpend:     toRankDTOs(bySpend),
		ByFrequency: toRankDTOs(byFreq),
	}, nil
}

func toRankDTOs(list []repository.CustomerRank) []dto.CustomerRankDTO {
	out := make([]dto.CustomerRankDTO, 0, len(list))
	for _, r := range list {
		out = append(out, dto.CustomerRankDTO{
			CustomerID:    r.CustomerID,
			Name:          r.Name,
			TotalSpent:    r.TotalSpent,
			PurchaseDays:  r.PurchaseDays,
			PurchaseCount: r.PurchaseCount,
		})
	}
	return out
}

func variantLabel(product, attribute string) string {
	if attribute == "" {
		return product
	}
	return product + " - " + attribute
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Document:  c.Document,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
