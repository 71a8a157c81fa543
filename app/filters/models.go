package filters

import (
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/orm"
)

var timestamps = []string{"id", "created_at", "updated_at"}

func sortable(columns ...string) []string {
	return append(append([]string(nil), timestamps...), columns...)
}

func col(table, column string) string { return table + "." + column }

// Products filters bazar_products.
var Products = Definition{
	Name:        "product",
	Table:       models.ProductsTable,
	SoftDeletes: true,
	Search: likeAny(
		col(models.ProductsTable, "name"),
		col(models.ProductsTable, "inventory_sku"),
	),
	Sortable: sortable("name", "slug", "price", "inventory_sku", "inventory_quantity"),
	Facets: []Facet{{
		Param: "category",
		Set:   func(p Params) bool { return p.Category != 0 },
		Apply: func(q *orm.Query, p Params) *orm.Query {
			return q.WhereHas(models.ProductCategories, func(c *orm.Query) *orm.Query {
				return c.Where(col(models.CategoriesTable, "id")+" = ?", p.Category)
			})
		},
	}},
}

// Orders filters bazar_orders. Search matches the billing address name.
var Orders = Definition{
	Name:        "order",
	Table:       models.OrdersTable,
	SoftDeletes: true,
	Search: func(q *orm.Query, pattern string) *orm.Query {
		return q.WhereHas(models.OrderAddress, func(a *orm.Query) *orm.Query {
			return likeAny(
				col(models.AddressesTable, "first_name"),
				col(models.AddressesTable, "last_name"),
			)(a, pattern)
		})
	},
	Sortable: sortable("status", "currency", "discount"),
	Facets: []Facet{
		{
			Param: "status",
			Set:   func(p Params) bool { return p.Status != "" },
			Apply: func(q *orm.Query, p Params) *orm.Query {
				return q.Where(col(models.OrdersTable, "status")+" = ?", p.Status)
			},
		},
		{
			Param: "user",
			Set:   func(p Params) bool { return p.User != 0 },
			Apply: func(q *orm.Query, p Params) *orm.Query {
				return q.WhereHas(models.OrderUser, func(u *orm.Query) *orm.Query {
					return u.Where(col(models.UsersTable, "id")+" = ?", p.User)
				})
			},
		},
	},
}

// Media filters bazar_media.
var Media = Definition{
	Name:     "medium",
	Table:    models.MediaTable,
	Search:   like(col(models.MediaTable, "name")),
	Sortable: sortable("name", "file_name", "mime_type", "size"),
	Facets: []Facet{{
		Param: "type",
		Set:   func(p Params) bool { return p.Type != "" },
		Apply: func(q *orm.Query, p Params) *orm.Query {
			return q.Where(col(models.MediaTable, "mime_type")+" LIKE ?", p.Type+"%")
		},
	}},
}

// Addresses filters bazar_addresses.
var Addresses = Definition{
	Name:     "address",
	Table:    models.AddressesTable,
	Search:   like(col(models.AddressesTable, "alias")),
	Sortable: sortable("alias", "first_name", "last_name", "city", "country"),
}

// Categories filters bazar_categories.
var Categories = Definition{
	Name:        "category",
	Table:       models.CategoriesTable,
	SoftDeletes: true,
	Search:      like(col(models.CategoriesTable, "name")),
	Sortable:    sortable("name", "slug"),
}

// Users filters users.
var Users = Definition{
	Name:        "user",
	Table:       models.UsersTable,
	SoftDeletes: true,
	Search: likeAny(
		col(models.UsersTable, "name"),
		col(models.UsersTable, "email"),
	),
	Sortable: sortable("name", "email"),
}

// Variants filters bazar_variants.
var Variants = Definition{
	Name:        "variant",
	Table:       models.VariantsTable,
	SoftDeletes: true,
	Search:      like(col(models.VariantsTable, "alias")),
	Sortable:    sortable("alias", "price", "product_id"),
	Facets: []Facet{{
		Param: "product",
		Set:   func(p Params) bool { return p.Product != 0 },
		Apply: func(q *orm.Query, p Params) *orm.Query {
			return q.Where(col(models.VariantsTable, "product_id")+" = ?", p.Product)
		},
	}},
}
