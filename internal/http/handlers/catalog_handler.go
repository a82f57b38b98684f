package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"megastore/internal/catalog"
	"megastore/internal/log"
	"megastore/internal/services"
	"megastore/internal/validate"
)

type CatalogHandler struct {
	View    *View
	Catalog *services.CatalogService
}

var notices = map[string]string{
	"order-sent": "Thank you! Your order has been placed. We will call you shortly.",
}

// parseState reads the browse state from q, category, brand and sort,
// rejecting values that could not have come from the storefront's own links.
// bad names the rejected parameter.
func parseState(c *fiber.Ctx) (st catalog.FilterState, bad string) {
	vals := map[string]string{}
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return catalog.DefaultState(), "q"
		}
		vals["q"] = q
	}
	if raw := c.Query("category"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return catalog.DefaultState(), "category"
		}
		if _, known := catalog.LookupCategory(id); !known && id != catalog.CategorySearchResults {
			return catalog.DefaultState(), "category"
		}
		vals["category"] = id
	}
	if raw := c.Query("brand"); raw != "" {
		b, ok := validate.Brand(raw)
		if !ok {
			return catalog.DefaultState(), "brand"
		}
		vals["brand"] = b
	}
	if raw := c.Query("sort"); raw != "" {
		if _, ok := catalog.ParseSortOption(raw); !ok {
			return catalog.DefaultState(), "sort"
		}
		vals["sort"] = raw
	}
	return catalog.StateFromQuery(func(k string) string { return vals[k] }), ""
}

type sortChoice struct {
	Value  catalog.SortOption
	Label  string
	Active bool
}

var sortLabels = []struct {
	opt   catalog.SortOption
	label string
}{
	{catalog.SortDefault, "Default"},
	{catalog.SortPriceAsc, "Price: low to high"},
	{catalog.SortPriceDesc, "Price: high to low"},
	{catalog.SortRating, "Rating"},
}

func sortChoices(st catalog.FilterState) []sortChoice {
	out := make([]sortChoice, len(sortLabels))
	for i, s := range sortLabels {
		out[i] = sortChoice{Value: s.opt, Label: s.label, Active: st.Sort == s.opt}
	}
	return out
}

func homeData(c *fiber.Ctx, l services.Listing) fiber.Map {
	return fiber.Map{
		"Listing":  l,
		"State":    l.State,
		"Search":   l.State.Term(),
		"Loading":  l.Status == services.StatusLoading,
		"Failed":   l.Status == services.StatusFailed,
		"Sorts":    sortChoices(l.State),
		"ResetURL": l.State.ResetFacets().URL("/"),
		"Notice":   notices[c.Query("notice")],
	}
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	st, bad := parseState(c)
	if bad != "" {
		log.Security(c, "validation.fail", map[string]any{"field": bad})
		data := homeData(c, h.Catalog.Browse(catalog.DefaultState()))
		data["Err"] = "That filter is not available."
		return h.View.render(c, fiber.StatusBadRequest, "home", data)
	}
	return h.View.render(c, fiber.StatusOK, "home", homeData(c, h.Catalog.Browse(st)))
}

// Category switches to a category from a menu link.
func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if ok {
		_, ok = catalog.LookupCategory(id)
	}
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return h.View.notFound(c, "This category does not exist")
	}
	return c.Redirect(catalog.DefaultState().WithCategory(id).URL("/"))
}

// Reload refetches the catalog after a failed load.
func (h *CatalogHandler) Reload(c *fiber.Ctx) error {
	if err := h.Catalog.Reload(c.UserContext()); err != nil {
		log.Error(c, "catalog.reload", err, nil)
	} else {
		_, products := h.Catalog.Snapshot()
		log.Audit(c, "catalog.reload", map[string]any{"products": len(products)})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Products is the JSON twin of Home.
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	st, bad := parseState(c)
	if bad != "" {
		log.Security(c, "validation.fail", map[string]any{"field": bad})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + bad})
	}
	l := h.Catalog.Browse(st)
	if l.Brands == nil {
		l.Brands = []string{}
	}
	status := fiber.StatusOK
	if l.Status == services.StatusFailed {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(l)
}
