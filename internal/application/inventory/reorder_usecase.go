package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

// ReorderSheetWriter puerto de salida para exportar sugerencias de reposición a hoja de cálculo.
type ReorderSheetWriter interface {
	ReorderXLSX(report *dto.ReorderReportDTO) ([]byte, error)
}

// ReorderConfig parámetros del asesor.
type ReorderConfig struct {
	WindowDays      int
	DefaultLeadDays int
}

// ReorderUseCase asesor de reposición (solo lectura).
type ReorderUseCase struct {
	repo   repository.ReorderRepository
	cfg    ReorderConfig
	sheets ReorderSheetWriter
	now    func() time.Time
}

// NewReorderUseCase construye el asesor. Valores no positivos toman los por defecto (30 y 7 días).
func NewReorderUseCase(repo repository.ReorderRepository, cfg ReorderConfig, sheets ReorderSheetWriter) *ReorderUseCase {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = stock.DefaultWindowDays
	}
	if cfg.DefaultLeadDays <= 0 {
		cfg.DefaultLeadDays = stock.DefaultLeadTimeDays
	}
	return &ReorderUseCase{repo: repo, cfg: cfg, sheets: sheets, now: time.Now}
}

// Suggestions evalúa las variantes sin orden de compra abierta. Con includeAll=false solo
// devuelve las marcadas para reponer. Orden: días restantes ascendente (sin ventas al final), luego nombre.
func (uc *ReorderUseCase) Suggestions(ctx context.Context, includeAll bool) (*dto.ReorderReportDTO, error) {
	now := uc.now()
	since := now.AddDate(0, 0, -uc.cfg.WindowDays)
	candidates, err := uc.repo.ListReorderCandidates(ctx, since)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReorderSuggestionDTO, 0, len(candidates))
	for _, c := range candidates {
		lead := uc.cfg.DefaultLeadDays
		if c.LeadTimeDays != nil && *c.LeadTimeDays > 0 {
			lead = *c.LeadTimeDays
		}
		res := stock.EvaluateReorder(stock.ReorderInput{
			OnHand:        c.OnHand,
			MinStock:      c.MinStock,
			IdealStock:    c.IdealStock,
			ExitsInWindow: c.ExitsInWindow,
			WindowDays:    uc.cfg.WindowDays,
			LeadTimeDays:  lead,
		})
		if !res.Flagged && !includeAll {
			continue
		}
		items = append(items, dto.ReorderSuggestionDTO{
			VariantID:     c.VariantID,
			ProductName:   c.ProductName,
			Attribute:     c.Attribute,
			SupplierID:    c.SupplierID,
			SupplierName:  c.SupplierName,
			OnHand:        c.OnHand,
			MinStock:      c.MinStock,
			IdealStock:    c.IdealStock,
			ExitsInWindow: c.ExitsInWindow,
			DailyVelocity: res.DailyVelocity.Round(4),
			LeadTimeDays:  res.LeadTimeDays,
			ReorderPoint:  res.ReorderPoint.Round(2),
			SuggestedQty:  res.SuggestedQty,
			DaysRemaining: res.DaysRemaining,
			EstimatedCost: c.CostPrice.Mul(decimal.NewFromInt(res.SuggestedQty)),
		})
	}
	sortSuggestions(items)

	return &dto.ReorderReportDTO{
		WindowDays:  uc.cfg.WindowDays,
		GeneratedAt: now,
		Items:       items,
	}, nil
}

// ExportXLSX genera la hoja de cálculo de las sugerencias marcadas.
func (uc *ReorderUseCase) ExportXLSX(ctx context.Context) ([]byte, error) {
	if uc.sheets == nil {
		return nil, domain.ErrInvalidInput
	}
	report, err := uc.Suggestions(ctx, false)
	if err != nil {
		return nil, err
	}
	return uc.sheets.ReorderXLSX(report)
}

func sortSuggestions(items []dto.ReorderSuggestionDTO) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DaysRemaining, items[j].DaysRemaining
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a < *b
		}
		if items[i].ProductName != items[j].ProductName {
			return items[i].ProductName < items[j].ProductName
		}
		return items[i].Attribute < items[j].Attribute
	})
}
