package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "megastore/internal/log"
	"megastore/internal/services"
	"megastore/internal/validate"
)

type OrderHandler struct {
	View  *View
	Order *services.OrderService
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	form := validate.Checkout{Name: c.FormValue("name"), Phone: c.FormValue("phone")}

	entry, err := h.Order.Place(c.UserContext(), sid, form)
	switch {
	case err == nil:
		applog.Audit(c, "order.place", map[string]any{
			"order_id": entry.ID,
			"total":    entry.Total,
		})
		return c.Redirect("/?notice=order-sent", fiber.StatusSeeOther)
	case errors.Is(err, services.ErrInvalidCheckout):
		applog.Security(c, "validation.fail", map[string]any{"fields": form.Fields()})
		return h.View.cartPage(c, fiber.StatusBadRequest, form, "Please enter your name and a complete phone number.")
	case errors.Is(err, services.ErrCartEmpty):
		return h.View.cartPage(c, fiber.StatusBadRequest, form, "Your cart is empty.")
	case errors.Is(err, services.ErrSubmitInFlight):
		return h.View.cartPage(c, fiber.StatusConflict, form, "Your order is already being sent.")
	case errors.Is(err, services.ErrSubmitFailed):
		applog.Error(c, "order.place", err, map[string]any{"order_id": entry.ID})
		return h.View.cartPage(c, fiber.StatusBadGateway, form, "We could not send your order. Your cart is saved, please try again.")
	}
	return err
}

// Validity lets the page enable the submit control while the user types.
func (h *OrderHandler) Validity(c *fiber.Ctx) error {
	form := validate.Checkout{Name: c.Query("name"), Phone: c.Query("phone")}
	invalid := form.Fields()
	if invalid == nil {
		invalid = []string{}
	}
	return c.JSON(fiber.Map{"valid": len(invalid) == 0, "invalid": invalid})
}

// Journal lists this session's checkout attempts.
func (h *OrderHandler) Journal(c *fiber.Ctx) error {
	sid := c.Cookies(sidCookieName)
	if sid == "" {
		return c.JSON(fiber.Map{"orders": []any{}})
	}
	entries, err := h.Order.Journal(sid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": entries})
}
