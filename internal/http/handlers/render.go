package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"megastore/internal/catalog"
	"megastore/internal/domain"
	"megastore/internal/services"
	"megastore/internal/validate"
)

const headerPreviewSize = 3

// View renders pages with the chrome every page shares: category menu,
// header previews, cart badge and the CSRF token.
type View struct {
	Catalog *services.CatalogService
	Carts   *services.CartService
}

type headerEntry struct {
	Category catalog.Category
	URL      string
	Preview  []domain.Product
}

func (v *View) render(c *fiber.Ctx, status int, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	tok, _ := c.Locals(csrfContextKey).(string)
	if tok == "" {
		tok = c.Cookies(csrfCookieName)
	}
	data["CSRFToken"] = tok
	data["Categories"] = v.categoryLinks()
	data["Header"] = v.header()
	data["CartCount"] = v.cartCount(c)
	if _, ok := data["Search"]; !ok {
		data["Search"] = ""
	}
	return c.Status(status).Render(tmpl, data)
}

func (v *View) notFound(c *fiber.Ctx, msg string) error {
	return v.render(c, fiber.StatusNotFound, "notfound", fiber.Map{"Message": msg})
}

type categoryLink struct {
	catalog.Category
	URL string
}

func (v *View) categoryLinks() []categoryLink {
	cats := catalog.Categories()
	out := make([]categoryLink, len(cats))
	for i, cat := range cats {
		out[i] = categoryLink{Category: cat, URL: catalog.DefaultState().WithCategory(cat.ID).URL("/")}
	}
	return out
}

func (v *View) header() []headerEntry {
	cats := catalog.HeaderCategories()
	out := make([]headerEntry, 0, len(cats))
	for _, cat := range cats {
		out = append(out, headerEntry{
			Category: cat,
			URL:      catalog.DefaultState().WithCategory(cat.ID).URL("/"),
			Preview:  v.Catalog.CategoryPreview(cat.ID, headerPreviewSize),
		})
	}
	return out
}

func (v *View) cartCount(c *fiber.Ctx) int {
	sid := c.Cookies(sidCookieName)
	if sid == "" {
		return 0
	}
	cart, err := v.Carts.View(sid)
	if err != nil {
		return 0
	}
	return cart.Len()
}

// cartPage renders the cart with the checkout form. Submit is enabled only
// for a valid form and a non-empty cart.
func (v *View) cartPage(c *fiber.Ctx, status int, form validate.Checkout, msg string) error {
	var cart *domain.Cart
	if sid := c.Cookies(sidCookieName); sid != "" {
		var err error
		if cart, err = v.Carts.View(sid); err != nil {
			return err
		}
	} else {
		cart = domain.NewCart()
	}
	return v.render(c, status, "cart", fiber.Map{
		"Cart":      cart,
		"Form":      form,
		"Invalid":   form.Fields(),
		"CanSubmit": form.Valid() && !cart.Empty(),
		"PhoneMask": validate.PhoneMask,
		"Err":       msg,
	})
}

// money formats a price the way the storefront shows it: "1299.5 ₴".
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " ₴"
}
