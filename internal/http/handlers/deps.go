package handlers

import (
	"github.com/jmoiron/sqlx"

	"megastore/internal/config"
	"megastore/internal/repos"
	"megastore/internal/services"
)

// CMS is everything the storefront needs from the headless CMS.
type CMS interface {
	services.ProductSource
	services.OrderSubmitter
}

type Deps struct {
	Catalog *services.CatalogService
	Carts   *services.CartService
	Orders  *services.OrderService

	CatalogHandler *CatalogHandler
	SearchHandler  *SearchHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
}

func NewDeps(db *sqlx.DB, cms CMS, cfg config.Config) *Deps {
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(cms, cfg.CatalogAttempts)
	cartSvc := services.NewCartService(cartRepo)
	orderSvc := services.NewOrderService(cartSvc, orderRepo, cms)

	view := &View{Catalog: catalogSvc, Carts: cartSvc}

	return &Deps{
		Catalog: catalogSvc,
		Carts:   cartSvc,
		Orders:  orderSvc,

		CatalogHandler: &CatalogHandler{View: view, Catalog: catalogSvc},
		SearchHandler:  &SearchHandler{View: view, Catalog: catalogSvc},
		ProductHandler: &ProductHandler{View: view, Catalog: catalogSvc},
		CartHandler:    &CartHandler{View: view, Catalog: catalogSvc, Cart: cartSvc},
		OrderHandler:   &OrderHandler{View: view, Order: orderSvc},
	}
}
