// Package models holds the gorm models of the shop.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Table names. Filters qualify every column with these.
const (
	ProductsTable        = "bazar_products"
	VariantsTable        = "bazar_variants"
	CategoriesTable      = "bazar_categories"
	CategoryProductTable = "bazar_category_product"
	OrdersTable          = "bazar_orders"
	ItemsTable           = "bazar_items"
	ShippingsTable       = "bazar_shippings"
	AddressesTable       = "bazar_addresses"
	MediaTable           = "bazar_media"
	UsersTable           = "users"
)

// Model carries the primary key and timestamps shared by every table.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SoftDeletes marks a model as trashable.
type SoftDeletes struct {
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Trashed reports whether the row has been soft deleted.
func (s SoftDeletes) Trashed() bool { return s.DeletedAt.Valid }

// Inventory is embedded into products and variants.
type Inventory struct {
	SKU      string  `gorm:"size:64;index" json:"sku"`
	Quantity int     `gorm:"not null;default:0" json:"quantity"`
	Weight   float64 `gorm:"not null;default:0" json:"weight"`
	Virtual  bool    `gorm:"not null;default:false" json:"virtual"`
}

// Available reports whether qty units can be sold.
func (i Inventory) Available(qty int) bool {
	return i.Virtual || i.Quantity >= qty
}
