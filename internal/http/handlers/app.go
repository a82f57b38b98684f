package handlers

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	applog "megastore/internal/log"
)

const (
	csrfCookieName = "csrf_"
	csrfContextKey = "csrf"
)

type Options struct {
	TemplatesDir string
	StaticDir    string
	// RateLimit is requests per minute per client; 0 disables limiting.
	RateLimit int
	// AccessLog receives one line per request; nil disables it.
	AccessLog       io.Writer
	ReloadTemplates bool
}

func NewViews(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("money", money)
	engine.AddFunc("inc", func(i int) int { return i + 1 })
	return engine
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"code": code})
	// Avoid leaking internals; best-effort render
	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(code).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// NewApp builds the storefront: middleware, static assets, pages and the JSON API.
func NewApp(opts Options, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(opts.TemplatesDir, opts.ReloadTemplates),
		ErrorHandler: errorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: opts.AccessLog}))
	}
	app.Use(helmet.New(helmet.Config{
		// product images are served by the CMS
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/static/")
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests. Please slow down.")
			},
		}))
	}
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     csrfContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	if opts.StaticDir != "" {
		app.Static("/static", opts.StaticDir)
	}

	// Pages
	app.Get("/", d.CatalogHandler.Home)
	app.Get("/search", d.SearchHandler.Search)
	app.Get("/category/:id", d.CatalogHandler.Category)
	app.Post("/catalog/reload", d.CatalogHandler.Reload)
	app.Get("/product", func(c *fiber.Ctx) error {
		return d.ProductHandler.View.notFound(c, "This item is no longer available")
	})
	app.Get("/product/:documentId", d.ProductHandler.Detail)

	// Cart & Orders
	app.Get("/cart", d.CartHandler.Show)
	app.Post("/cart", d.CartHandler.Add)
	app.Post("/cart/remove", d.CartHandler.Remove)
	app.Post("/orders", d.OrderHandler.Place)

	// API
	api := app.Group("/api/v1")
	api.Get("/products", d.CatalogHandler.Products)
	previewHandlers := []fiber.Handler{d.SearchHandler.Preview}
	if opts.RateLimit > 0 {
		previewHandlers = append([]fiber.Handler{limiter.New(limiter.Config{
			Max:        opts.RateLimit / 2,
			Expiration: 10 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|preview"
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.preview.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		})}, previewHandlers...)
	}
	api.Get("/search/preview", previewHandlers...)
	api.Get("/checkout/validity", d.OrderHandler.Validity)
	api.Get("/orders", d.OrderHandler.Journal)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "catalog": d.Catalog.Status()})
	})
	app.Use(func(c *fiber.Ctx) error {
		return d.ProductHandler.View.notFound(c, "Page not found")
	})

	return app
}
