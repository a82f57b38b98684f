package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"megastore/internal/catalog"
	"megastore/internal/log"
	"megastore/internal/services"
	"megastore/internal/validate"
)

type SearchHandler struct {
	View    *View
	Catalog *services.CatalogService
}

// Search submits the header search box: it moves the listing to search
// results for the term. An empty term goes back to the full catalog.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return c.Redirect("/")
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		data := homeData(c, h.Catalog.Browse(catalog.DefaultState()))
		data["Err"] = "Enter a valid keyword"
		return h.View.render(c, fiber.StatusBadRequest, "home", data)
	}
	return c.Redirect(catalog.DefaultState().WithSearch(q).URL("/"))
}

type previewItem struct {
	DocumentID string   `json:"documentId"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Image      string   `json:"image,omitempty"`
	URL        string   `json:"url"`
}

// Preview answers the search-as-you-type dropdown.
func (h *SearchHandler) Preview(c *fiber.Ctx) error {
	items := []previewItem{}
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return c.JSON(fiber.Map{"term": "", "products": items})
	}
	for _, p := range h.Catalog.Preview(q) {
		items = append(items, previewItem{
			DocumentID: p.DocumentID,
			Name:       p.Name,
			Price:      p.Price,
			Image:      p.Image,
			URL:        "/product/" + p.DocumentID,
		})
	}
	return c.JSON(fiber.Map{"term": q, "products": items})
}
