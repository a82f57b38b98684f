package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"megastore/internal/domain"
	"megastore/internal/log"
	"megastore/internal/services"
	"megastore/internal/validate"
)

type CartHandler struct {
	View    *View
	Catalog *services.CatalogService
	Cart    *services.CartService
}

// localPath accepts only same-site paths as redirect targets.
func localPath(s, fallback string) string {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.Contains(s, `\`) {
		return fallback
	}
	return s
}

func (h *CartHandler) lookup(c *fiber.Ctx, id string) (domain.Product, bool) {
	if p, ok := h.Catalog.Find(id); ok {
		return p, true
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	return p, err == nil
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("documentId"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "documentId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing documentId")
	}
	p, ok := h.lookup(c, id)
	if !ok {
		return h.View.notFound(c, "This item is no longer available")
	}
	cart, err := h.Cart.Add(sid, p)
	if err != nil {
		return err
	}
	log.Audit(c, "cart.add", map[string]any{"product": p.DocumentID, "lines": cart.Len()})
	return c.Redirect(localPath(c.FormValue("back"), "/cart"), fiber.StatusSeeOther)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	i, ok := validate.Index(c.FormValue("index"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "index"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid index")
	}
	removed, err := h.Cart.RemoveAt(sid, i)
	if err != nil {
		return err
	}
	if removed {
		log.Audit(c, "cart.remove", map[string]any{"index": i})
	}
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

func (h *CartHandler) Show(c *fiber.Ctx) error {
	ensureSID(c)
	return h.View.cartPage(c, fiber.StatusOK, validate.Checkout{}, "")
}
