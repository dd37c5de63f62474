package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/domain/stock"
)

const rankingSize = 5

// Períodos predefinidos del reporte de ventas.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// SalesPDFRenderer genera el PDF del reporte de ventas.
type SalesPDFRenderer interface {
	SalesPDF(report *dto.SalesReportResponse) ([]byte, error)
}

// SalesSheetWriter genera el XLSX del reporte de ventas.
type SalesSheetWriter interface {
	SalesXLSX(report *dto.SalesReportResponse) ([]byte, error)
}

// ReportUseCase dashboard, reporte de ventas por período y alertas de stock bajo.
type ReportUseCase struct {
	reports  repository.ReportRepository
	variants repository.VariantRepository
	pdf      SalesPDFRenderer
	sheets   SalesSheetWriter
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf y sheets pueden ser nil si no se exporta.
func NewReportUseCase(reports repository.ReportRepository, variants repository.VariantRepository, pdf SalesPDFRenderer, sheets SalesSheetWriter) *ReportUseCase {
	return &ReportUseCase{reports: reports, variants: variants, pdf: pdf, sheets: sheets, now: time.Now}
}

// PeriodRange devuelve [inicio, now] para today, week (desde el lunes) o month (desde el día 1).
func PeriodRange(period string, now time.Time) (from, to time.Time, err error) {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch strings.ToLower(strings.TrimSpace(period)) {
	case PeriodToday:
		return startOfDay, now, nil
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7 // lunes = 0
		return startOfDay.AddDate(0, 0, -offset), now, nil
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: período %q no soportado", domain.ErrInvalidInput, period)
	}
}

// Dashboard métricas globales del inventario y de ventas.
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	variants, err := uc.variants.List(ctx, repository.VariantFilter{})
	if err != nil {
		return nil, err
	}
	res := &dto.DashboardResponse{
		VariantCount:   len(variants),
		InventoryValue: decimal.Zero,
		StatusDistribution: map[string]int{
			string(stock.StatusDanger):  0,
			string(stock.StatusWarning): 0,
			string(stock.StatusOK):      0,
		},
	}
	for _, v := range variants {
		res.InventoryValue = res.InventoryValue.Add(v.InventoryValue())
		st := v.Status()
		res.StatusDistribution[string(st)]++
		if st == stock.StatusDanger {
			res.DangerCount++
		}
	}

	all, err := uc.reports.SalesTotals(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	res.TotalRevenue = all.Revenue
	res.TotalProfit = all.Profit()

	now := uc.now()
	for _, p := range []struct {
		name string
		dst  *dto.PeriodMetricsDTO
	}{
		{PeriodToday, &res.Today},
		{PeriodWeek, &res.Week},
		{PeriodMonth, &res.Month},
	} {
		from, to, _ := PeriodRange(p.name, now)
		t, err := uc.reports.SalesTotals(ctx, &from, &to)
		if err != nil {
			return nil, err
		}
		*p.dst = dto.PeriodMetricsDTO{Revenue: t.Revenue, Profit: t.Profit(), Units: t.Units}
	}

	sales, err := uc.reports.SalesByVariant(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	res.TopProfit, res.BottomProfit, res.TopSellers = rankSales(sales)

	cats, err := uc.reports.InventoryByCategory(ctx)
	if err != nil {
		return nil, err
	}
	res.ValueByCategory = make([]dto.CategoryValueDTO, 0, len(cats))
	for _, c := range cats {
		res.ValueByCategory = append(res.ValueByCategory, dto.CategoryValueDTO{Category: c.CategoryName, Value: c.Value, Units: c.Units})
	}
	return res, nil
}

func rankSales(sales []repository.VariantSales) (top, bottom, sellers []dto.VariantSalesDTO) {
	byProfit := make([]dto.VariantSalesDTO, 0, len(sales))
	for _, s := range sales {
		byProfit = append(byProfit, toVariantSalesDTO(s))
	}
	sort.SliceStable(byProfit, func(i, j int) bool { return byProfit[i].Profit.GreaterThan(byProfit[j].Profit) })
	top = firstN(byProfit, rankingSize)

	asc := make([]dto.VariantSalesDTO, len(byProfit))
	copy(asc, byProfit)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Profit.LessThan(asc[j].Profit) })
	bottom = firstN(asc, rankingSize)

	byUnits := make([]dto.VariantSalesDTO, len(byProfit))
	copy(byUnits, byProfit)
	sort.SliceStable(byUnits, func(i, j int) bool { return byUnits[i].Units > byUnits[j].Units })
	sellers = firstN(byUnits, rankingSize)
	return top, bottom, sellers
}

func firstN(items []dto.VariantSalesDTO, n int) []dto.VariantSalesDTO {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]dto.VariantSalesDTO, len(items))
	copy(out, items)
	return out
}

// SalesReport ventas por variante y totales. Si period no está vacío tiene prioridad sobre from/to.
func (uc *ReportUseCase) SalesReport(ctx context.Context, period string, from, to *time.Time) (*dto.SalesReportResponse, error) {
	if period != "" {
		f, t, err := PeriodRange(period, uc.now())
		if err != nil {
			return nil, err
		}
		from, to = &f, &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: rango de fechas inválido", domain.ErrInvalidInput)
	}
	sales, err := uc.reports.SalesByVariant(ctx, from, to)
	if err != nil {
		return nil, err
	}
	res := &dto.SalesReportResponse{
		Period:       period,
		From:         from,
		To:           to,
		Items:        make([]dto.VariantSalesDTO, 0, len(sales)),
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	for _, s := range sales {
		item := toVariantSalesDTO(s)
		res.Items = append(res.Items, item)
		res.TotalUnits += item.Units
		res.TotalRevenue = res.TotalRevenue.Add(item.Revenue)
		res.TotalProfit = res.TotalProfit.Add(item.Profit)
	}
	return res, nil
}

// SalesPDF reporte de ventas en PDF.
func (uc *ReportUseCase) SalesPDF(ctx context.Context, period string, from, to *time.Time) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	report, err := uc.SalesReport(ctx, period, from, to)
	if err != nil {
		return nil, err
	}
	return uc.pdf.SalesPDF(report)
}

// SalesXLSX reporte de ventas en Excel.
func (uc *ReportUseCase) SalesXLSX(ctx context.Context, period string, from, to *time.Time) ([]byte, error) {
	if uc.sheets == nil {
		return nil, fmt.Errorf("exportación XLSX no configurada")
	}
	report, err := uc.SalesReport(ctx, period, from, to)
	if err != nil {
		return nil, err
	}
	return uc.sheets.SalesXLSX(report)
}

// LowStockAlerts variantes en estado DANGER, para el feed de notificaciones.
func (uc *ReportUseCase) LowStockAlerts(ctx context.Context) ([]dto.StockAlertDTO, error) {
	list, err := uc.variants.List(ctx, repository.VariantFilter{Status: string(stock.StatusDanger)})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertDTO, 0, len(list))
	for _, v := range list {
		out = append(out, dto.StockAlertDTO{
			VariantID: v.ID,
			Label:     v.Label(),
			OnHand:    v.Quantity,
			MinStock:  v.MinStock,
			Message:   fmt.Sprintf("Stock bajo: %s (%d de %d mínimo)", v.Label(), v.Quantity, v.MinStock),
		})
	}
	return out, nil
}

func toVariantSalesDTO(s repository.VariantSales) dto.VariantSalesDTO {
	label := s.ProductName
	if s.Attribute != "" {
		label += " - " + s.Attribute
	}
	return dto.VariantSalesDTO{
		VariantID: s.VariantID,
		Label:     label,
		Units:     s.Units,
		Revenue:   s.Revenue,
		Profit:    s.Profit(),
	}
}
