package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler ledger de movimientos, recálculo, reposición y alertas (protegido).
type InventoryHandler struct {
	ledger    *inventory.LedgerUseCase
	projector *inventory.ProjectorUseCase
	reorder   *inventory.ReorderUseCase
	reports   *reports.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.LedgerUseCase,
	projector *inventory.ProjectorUseCase,
	reorder *inventory.ReorderUseCase,
	reports *reports.ReportUseCase,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, projector: projector, reorder: reorder, reports: reports}
}

// CommitMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRY y EXIT exigen cantidad positiva; ADJUSTMENT acepta cantidad con signo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitMovementRequest  true  "variant_id, type, quantity, reason, customer_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) CommitMovement(c *fiber.Ctx) error {
	var in dto.CommitMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.CommitMovement(c.Context(), inventory.CommitMovementInput{
		VariantID:  in.VariantID,
		Type:       strings.ToUpper(strings.TrimSpace(in.Type)),
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		CustomerID: in.CustomerID,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id   query  string  false  "Filtrar por variante"
// @Param        type         query  string  false  "ENTRY, EXIT o ADJUSTMENT"
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Param        from         query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to           query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := rangeQuery(c)
	if err != nil {
		return validation(c, err.Error())
	}
	page := pageFromQuery(c)
	out, err := h.ledger.ListMovements(c.Context(), repository.MovementFilter{
		VariantID:  c.Query("variant_id"),
		Type:       strings.ToUpper(c.Query("type")),
		CustomerID: c.Query("customer_id"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateMovement godoc
// @Summary      Corregir cantidad o motivo de un movimiento
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "quantity, reason"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [patch]
func (h *InventoryHandler) UpdateMovement(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.UpdateMovement(c.Context(), c.Params("id"), inventory.UpdateMovementInput{
		Quantity: in.Quantity,
		Reason:   in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento
// @Description  Revierte exactamente su contribución al stock de la variante.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  map[string]int64
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	onHand, err := h.ledger.DeleteMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"on_hand": onHand})
}

// Recalculate godoc
// @Summary      Recalcular el stock de todas las variantes desde el ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        dry_run  query  bool  false  "Solo informar, sin escribir"
// @Success      200  {object}  dto.RepairReportDTO
// @Router       /api/inventory/recalculate [post]
func (h *InventoryHandler) Recalculate(c *fiber.Ctx) error {
	out, err := h.projector.RecalculateAll(c.Context(), c.QueryBool("dry_run", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reorder godoc
// @Summary      Sugerencias de reposición
// @Description  Velocidad de salida en la ventana, punto de pedido y cantidad sugerida.
// @Description  Excluye variantes con orden de compra abierta.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        all  query  bool  false  "Incluir variantes que no requieren reposición"
// @Success      200  {object}  dto.ReorderReportDTO
// @Router       /api/inventory/reorder [get]
func (h *InventoryHandler) Reorder(c *fiber.Ctx) error {
	out, err := h.reorder.Suggestions(c.Context(), c.QueryBool("all", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReorderXLSX godoc
// @Summary      Sugerencias de reposición en Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/inventory/reorder.xlsx [get]
func (h *InventoryHandler) ReorderXLSX(c *fiber.Ctx) error {
	data, err := h.reorder.ExportXLSX(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reposicion.xlsx"`)
	return c.Send(data)
}

// Alerts godoc
// @Summary      Variantes en estado DANGER
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.reports.LowStockAlerts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}
