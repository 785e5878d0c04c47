package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler ledger de stock, reconciliación, reposición y pedidos a proveedor (protegido).
type InventoryHandler struct {
	ledger    *inventory.StockLedgerUseCase
	orders    *inventory.SupplierOrderUseCase
	replenish *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedgerUseCase, orders *inventory.SupplierOrderUseCase, replenish *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, orders: orders, replenish: replenish}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "productId, quantityDelta, type, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.ledger.RecordMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements GET /api/stock-movements?productId=&type=&from=&to=&sourceType=&sourceId=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.ledger.ListMovements(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportMovements descarga los movimientos filtrados en XLSX.
// GET /api/stock-movements/export
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := h.ledger.ExportMovements(c.Context(), q, &buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, mimeXLSX)
	c.Attachment(fmt.Sprintf("movimientos-%s.xlsx", time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}

// ReverseMovement DELETE /api/stock-movements/{id}
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	if err := h.ledger.ReverseMovement(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ComputedStock GET /api/products/{id}/computed-stock
func (h *InventoryHandler) ComputedStock(c *fiber.Ctx) error {
	out, err := h.ledger.ComputeCurrentStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile POST /api/stock/reconcile
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.ledger.ReconcileAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReorderSuggestions GET /api/stock/reorder-suggestions
func (h *InventoryHandler) ReorderSuggestions(c *fiber.Ctx) error {
	out, err := h.replenish.Suggest(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateSupplierOrder POST /api/supplier-orders
func (h *InventoryHandler) CreateSupplierOrder(c *fiber.Ctx) error {
	var in dto.CreateSupplierOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.orders.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSupplierOrder GET /api/supplier-orders/{id}
func (h *InventoryHandler) GetSupplierOrder(c *fiber.Ctx) error {
	out, err := h.orders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReceiveSupplierOrder godoc
// @Summary      Recepcionar pedido a proveedor
// @Description  Registra un movimiento PURCHASE por línea y marca el pedido RECEIVED.
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.SupplierOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id}/receive [post]
func (h *InventoryHandler) ReceiveSupplierOrder(c *fiber.Ctx) error {
	out, err := h.orders.Receive(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CancelSupplierOrder POST /api/supplier-orders/{id}/cancel
func (h *InventoryHandler) CancelSupplierOrder(c *fiber.Ctx) error {
	out, err := h.orders.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
