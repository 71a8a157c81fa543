// Package repositories loads listable models through their request filters.
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/filters"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/orm"
)

// Repository lists and finds rows of T.
type Repository[T any] struct {
	db       *gorm.DB
	filter   filters.Definition
	preloads []string
	settings config.Settings
}

// New returns a repository over db. Relations named in preloads are loaded
// with every row.
func New[T any](db *gorm.DB, filter filters.Definition, settings config.Settings, preloads ...string) *Repository[T] {
	return &Repository[T]{db: db, filter: filter, preloads: preloads, settings: settings}
}

func (r *Repository[T]) query() *orm.Query {
	q := orm.New(r.db).Model(new(T))
	for _, rel := range r.preloads {
		q = q.Preload(rel)
	}
	return q
}

// List returns one filtered page. per_page falls back to the configured
// default and is capped at the configured maximum.
func (r *Repository[T]) List(ctx context.Context, p filters.Params) ([]T, orm.Pagination, error) {
	items := make([]T, 0)
	page, err := r.filter.Apply(r.query(), p).Paginate(ctx, &items, p.Page, r.perPage(p.PerPage))
	return items, page, err
}

// All returns every filtered row without paginating.
func (r *Repository[T]) All(ctx context.Context, p filters.Params) ([]T, error) {
	items := make([]T, 0)
	err := r.filter.Apply(r.query(), p).Get(ctx, &items)
	return items, err
}

// Find loads one row by id. Missing rows yield orm.ErrRecordNotFound.
func (r *Repository[T]) Find(ctx context.Context, id uint) (T, error) {
	var item T
	err := r.query().Find(ctx, &item, id)
	return item, err
}

func (r *Repository[T]) perPage(requested int) int {
	switch {
	case requested <= 0:
		return r.settings.PerPage
	case requested > r.settings.MaxPerPage:
		return r.settings.MaxPerPage
	}
	return requested
}

// Products lists products with their categories.
func Products(db *gorm.DB, s config.Settings) *Repository[models.Product] {
	return New[models.Product](db, filters.Products, s, "Categories")
}

// Orders lists orders with everything their totals need.
func Orders(db *gorm.DB, s config.Settings) *Repository[models.Order] {
	return New[models.Order](db, filters.Orders, s, "Items", "Shipping", "Address", "User")
}

func Media(db *gorm.DB, s config.Settings) *Repository[models.Medium] {
	return New[models.Medium](db, filters.Media, s)
}

func Addresses(db *gorm.DB, s config.Settings) *Repository[models.Address] {
	return New[models.Address](db, filters.Addresses, s)
}

func Categories(db *gorm.DB, s config.Settings) *Repository[models.Category] {
	return New[models.Category](db, filters.Categories, s)
}

func Users(db *gorm.DB, s config.Settings) *Repository[models.User] {
	return New[models.User](db, filters.Users, s)
}

// Variants lists variants with their product, for price fallback.
func Variants(db *gorm.DB, s config.Settings) *Repository[models.Variant] {
	return New[models.Variant](db, filters.Variants, s, "Product")
}
