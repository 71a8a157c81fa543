// Package routes registers the shop's JSON API.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/controllers"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
	"github.com/shashiranjanraj/bazar/pkg/router"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

// Deps are the services the API is built on. Registering routes does not
// touch them, so route:list can pass zero values.
type Deps struct {
	DB        *gorm.DB
	Settings  config.Settings
	Discounts contracts.DiscountRepository
	Disk      storage.Disk
}

func RegisterAPI(r *router.Router, d Deps) {
	orderService := services.NewOrderService(d.DB, d.Discounts, d.Settings)
	mediaService := services.NewMediaService(d.DB, d.Disk, d.Settings.MediaMaxBytes)

	products := controllers.NewProductController(d.DB, d.Settings, d.Discounts)
	orders := controllers.NewOrderController(d.DB, d.Settings, orderService)
	media := controllers.NewMediaController(d.DB, d.Settings, mediaService)
	catalog := controllers.NewCatalogController(d.DB, d.Settings)
	discounts := controllers.NewDiscountController(d.Discounts)

	api := r.Group("/api")

	api.Get("/products", "products.index", ctx.Wrap(products.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	api.Get("/variants", "variants.index", ctx.Wrap(products.Variants))
	api.Get("/variants/{id}", "variants.show", ctx.Wrap(products.ShowVariant))

	api.Get("/orders", "orders.index", ctx.Wrap(orders.Index))
	api.Get("/orders/statuses", "orders.statuses", ctx.Wrap(orders.Statuses))
	api.Get("/orders/{id}", "orders.show", ctx.Wrap(orders.Show))
	api.Post("/orders/{id}/discount", "orders.discount", ctx.Wrap(orders.Discount))

	api.Get("/media", "media.index", ctx.Wrap(media.Index))
	api.Post("/media", "media.store", ctx.Wrap(media.Store))
	api.Get("/media/{id}", "media.show", ctx.Wrap(media.Show))
	api.Delete("/media/{id}", "media.destroy", ctx.Wrap(media.Destroy))

	api.Get("/categories", "categories.index", ctx.Wrap(catalog.Categories))
	api.Get("/categories/{id}", "categories.show", ctx.Wrap(catalog.ShowCategory))
	api.Get("/addresses", "addresses.index", ctx.Wrap(catalog.Addresses))
	api.Get("/users", "users.index", ctx.Wrap(catalog.Users))
	api.Get("/users/{id}", "users.show", ctx.Wrap(catalog.ShowUser))

	api.Get("/discounts", "discounts.index", ctx.Wrap(discounts.Index))
}
