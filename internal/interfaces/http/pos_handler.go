package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/pos"
)

// POSHandler punto de venta (protegido).
type POSHandler struct {
	uc *pos.CheckoutUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.CheckoutUseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

// Checkout godoc
// @Summary      Cerrar venta
// @Description  Valida todo el carrito contra el stock y registra una salida por línea.
// @Description  Si una línea no alcanza no se registra ninguna.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "lines, customer_id"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Checkout(c.Context(), pos.CheckoutInput{
		Lines:      in.Lines,
		CustomerID: in.CustomerID,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SearchVariants godoc
// @Summary      Buscar variantes por nombre, atributo o código de barras
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "Texto o código de barras"
// @Success      200  {array}  dto.POSVariantDTO
// @Router       /api/pos/variants [get]
func (h *POSHandler) SearchVariants(c *fiber.Ctx) error {
	out, err := h.uc.SearchVariants(c.Context(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SearchCustomers godoc
// @Summary      Buscar clientes para asociar a la venta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "Nombre, teléfono o email"
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/pos/customers [get]
func (h *POSHandler) SearchCustomers(c *fiber.Ctx) error {
	out, err := h.uc.SearchCustomers(c.Context(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
