package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
)

// WorkOrderHandler órdenes de trabajo del taller (protegido).
type WorkOrderHandler struct {
	uc *workorder.UseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorder.UseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Create POST /api/work-orders
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/work-orders/{id}
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/work-orders?status=OPEN,IN_PROGRESS&clientId=
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, strings.ToUpper(s))
			}
		}
	}
	out, err := h.uc.List(c.Context(), statuses, c.Query("clientId"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddProductLine godoc
// @Summary      Agregar línea de producto
// @Description  Congela precio estándar, descuento y total de la línea y recalcula el total de la orden.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.AddProductLineRequest  true  "productId, quantity, discountPercent"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/product-lines [post]
func (h *WorkOrderHandler) AddProductLine(c *fiber.Ctx) error {
	var in dto.AddProductLineRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddProductLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddServiceLine POST /api/work-orders/{id}/service-lines
func (h *WorkOrderHandler) AddServiceLine(c *fiber.Ctx) error {
	var in dto.AddServiceLineRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddServiceLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteLine DELETE /api/work-orders/{id}/lines/{lineId}
func (h *WorkOrderHandler) DeleteLine(c *fiber.Ctx) error {
	out, err := h.uc.DeleteLine(c.Context(), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Totals GET /api/work-orders/{id}/totals
func (h *WorkOrderHandler) Totals(c *fiber.Ctx) error {
	out, err := h.uc.GetTotals(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus PATCH /api/work-orders/{id}/status
func (h *WorkOrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ChangeStatus(c.Context(), GetUserID(c), c.Params("id"), strings.ToUpper(in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateInvoice POST /api/work-orders/{id}/invoice
func (h *WorkOrderHandler) CreateInvoice(c *fiber.Ctx) error {
	out, err := h.uc.CreateInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
