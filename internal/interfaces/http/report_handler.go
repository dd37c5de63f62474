package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suestoque-api/internal/application/reports"
)

// ReportHandler dashboard y reportes de ventas (protegido, admin).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Conteos por estado de stock, valor de inventario, ventas de hoy, semana y mes,
// @Description  rankings por ganancia y unidades, valor por categoría.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Reporte de ventas por variante
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "today, week o month (tiene prioridad sobre from/to)"
// @Param        from    query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return validation(c, err.Error())
	}
	out, err := h.uc.SalesReport(c.Context(), c.Query("period"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesPDF godoc
// @Summary      Reporte de ventas en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        period  query  string  false  "today, week o month"
// @Param        from    query  string  false  "Desde"
// @Param        to      query  string  false  "Hasta"
// @Success      200  {file}  file
// @Router       /api/reports/sales.pdf [get]
func (h *ReportHandler) SalesPDF(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return validation(c, err.Error())
	}
	data, err := h.uc.SalesPDF(c.Context(), c.Query("period"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ventas.pdf"`)
	return c.Send(data)
}

// SalesXLSX godoc
// @Summary      Reporte de ventas en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        period  query  string  false  "today, week o month"
// @Param        from    query  string  false  "Desde"
// @Param        to      query  string  false  "Hasta"
// @Success      200  {file}  file
// @Router       /api/reports/sales.xlsx [get]
func (h *ReportHandler) SalesXLSX(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return validation(c, err.Error())
	}
	data, err := h.uc.SalesXLSX(c.Context(), c.Query("period"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ventas.xlsx"`)
	return c.Send(data)
}
