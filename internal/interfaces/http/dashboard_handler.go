package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los indicadores del taller.
// GET /api/dashboard/summary
//
// Respuesta: DashboardResponse (openWorkOrders, outstandingAmount, lowStockCount,
// lowStockProducts[10], monthlyExpenses, month).
// El resultado puede venir de la caché Redis; cualquier escritura en ledgers o facturación la invalida.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
