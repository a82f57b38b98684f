package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"megastore/internal/log"
	"megastore/internal/services"
	"megastore/internal/validate"
)

type ProductHandler struct {
	View    *View
	Catalog *services.CatalogService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("documentId"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return h.View.notFound(c, "This item is no longer available")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return h.View.notFound(c, "This item is no longer available")
	case err != nil:
		log.Error(c, "product.load", err, map[string]any{"product": id})
		return h.View.render(c, fiber.StatusBadGateway, "notfound", fiber.Map{
			"Message": "Could not load this product. Please try again.",
		})
	}
	return h.View.render(c, fiber.StatusOK, "product", fiber.Map{
		"P":     p,
		"Specs": p.SpecRows(),
		"Desc":  p.Description.Paragraphs(),
	})
}
