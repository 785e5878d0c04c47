package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// optionalDate lee un parámetro de query "YYYY-MM-DD"; nil si no viene.
func optionalDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(raw)
	if err != nil {
		return nil, domain.Invalid(name, "fecha inválida, formato YYYY-MM-DD")
	}
	return &d, nil
}

// pageQuery limit/offset de la query string, con los valores por defecto aplicados.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}
