package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// ExpenseHandler gastos operativos del taller.
type ExpenseHandler struct {
	uc *usecase.ExpenseUseCase
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *usecase.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// Create POST /api/expenses
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/expenses?from=&to=&category=
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	var q dto.ExpenseListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/expenses/export
func (h *ExpenseHandler) Export(c *fiber.Ctx) error {
	var q dto.ExpenseListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := h.uc.Export(c.Context(), q, &buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, mimeXLSX)
	c.Attachment(fmt.Sprintf("gastos-%s.xlsx", time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}
