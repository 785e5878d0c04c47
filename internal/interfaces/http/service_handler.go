package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ServiceHandler servicios de catálogo (mano de obra) y su historial de precios.
type ServiceHandler struct {
	uc     *catalog.ServiceUseCase
	prices *catalog.PriceLedgerUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *catalog.ServiceUseCase, prices *catalog.PriceLedgerUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc, prices: prices}
}

// Create POST /api/services
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/services/{id}
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/services?active=true
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), c.QueryBool("active", false), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordPrice POST /api/services/{id}/prices
func (h *ServiceHandler) RecordPrice(c *fiber.Ctx) error {
	return recordPrice(c, h.prices, entity.LedgerServiceSelling)
}

// Prices GET /api/services/{id}/prices
func (h *ServiceHandler) Prices(c *fiber.Ctx) error {
	return priceHistory(c, h.prices, entity.LedgerServiceSelling)
}

// CurrentPrice GET /api/services/{id}/current-price?date=YYYY-MM-DD
func (h *ServiceHandler) CurrentPrice(c *fiber.Ctx) error {
	return currentPrice(c, h.prices, entity.LedgerServiceSelling)
}
