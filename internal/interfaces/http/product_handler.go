package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ProductHandler maneja el catálogo de productos y sus historiales de precio (protegido).
type ProductHandler struct {
	uc     *catalog.ProductUseCase
	prices *catalog.PriceLedgerUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, prices *catalog.PriceLedgerUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, prices: prices}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Código, nombre o código de barras"
// @Param        category  query  string  false  "Categoría"
// @Param        active    query  bool    false  "Sólo activos"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), c.Query("search"), c.Query("category"), c.QueryBool("active", false), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos descriptivos del producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock productos activos en o bajo su stock mínimo.
// GET /api/products/low-stock
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.LowStock(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordSellingPrice godoc
// @Summary      Registrar nuevo precio de venta
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.RecordPriceRequest  true  "price, startDate"
// @Success      201   {object}  dto.PriceEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/selling-prices [post]
func (h *ProductHandler) RecordSellingPrice(c *fiber.Ctx) error {
	return recordPrice(c, h.prices, entity.LedgerProductSelling)
}

// RecordBuyingPrice registra un nuevo precio de compra.
// POST /api/products/{id}/buying-prices
func (h *ProductHandler) RecordBuyingPrice(c *fiber.Ctx) error {
	return recordPrice(c, h.prices, entity.LedgerProductBuying)
}

// SellingPrices historial de precios de venta.
// GET /api/products/{id}/selling-prices
func (h *ProductHandler) SellingPrices(c *fiber.Ctx) error {
	return priceHistory(c, h.prices, entity.LedgerProductSelling)
}

// BuyingPrices historial de precios de compra.
// GET /api/products/{id}/buying-prices
func (h *ProductHandler) BuyingPrices(c *fiber.Ctx) error {
	return priceHistory(c, h.prices, entity.LedgerProductBuying)
}

// CurrentPrice precio de venta (o de compra con ?ledger=buying) vigente a ?date.
// GET /api/products/{id}/current-price
func (h *ProductHandler) CurrentPrice(c *fiber.Ctx) error {
	ledger := entity.LedgerProductSelling
	if c.Query("ledger") == "buying" {
		ledger = entity.LedgerProductBuying
	}
	return currentPrice(c, h.prices, ledger)
}

func recordPrice(c *fiber.Ctx, uc *catalog.PriceLedgerUseCase, ledger entity.PriceLedger) error {
	var in dto.RecordPriceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	var start *time.Time
	if in.StartDate != "" {
		d, err := entity.ParseDate(in.StartDate)
		if err != nil {
			return respondError(c, domain.Invalid("startDate", "fecha inválida, formato YYYY-MM-DD"))
		}
		start = &d
	}
	out, err := uc.RecordNewPrice(c.Context(), ledger, c.Params("id"), in.Price, start)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func priceHistory(c *fiber.Ctx, uc *catalog.PriceLedgerUseCase, ledger entity.PriceLedger) error {
	out, err := uc.History(c.Context(), ledger, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func currentPrice(c *fiber.Ctx, uc *catalog.PriceLedgerUseCase, ledger entity.PriceLedger) error {
	asOf, err := optionalDate(c, "date")
	if err != nil {
		return respondError(c, err)
	}
	out, err := uc.GetCurrentPrice(c.Context(), ledger, c.Params("id"), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
