package models

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazar/pkg/orm"
)

// Product is a sellable catalogue entry.
type Product struct {
	Model
	SoftDeletes
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Slug        string          `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Inventory   Inventory       `gorm:"embedded;embeddedPrefix:inventory_" json:"inventory"`
	Categories  []Category      `gorm:"many2many:bazar_category_product;" json:"categories,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
}

func (Product) TableName() string { return ProductsTable }

// Total is the gross price a discount is calculated from.
func (p Product) Total() decimal.Decimal { return p.Price }

// ProductCategories relates products to categories through the pivot table.
var ProductCategories = orm.Relation{
	Model: &Category{},
	Join:  "JOIN " + CategoryProductTable + " ON " + CategoryProductTable + ".category_id = " + CategoriesTable + ".id",
	On:    CategoryProductTable + ".product_id = " + ProductsTable + ".id",
}

// Variant is a purchasable option of a product.
type Variant struct {
	Model
	SoftDeletes
	ProductID uint              `gorm:"not null;index" json:"product_id"`
	Product   *Product          `json:"product,omitempty"`
	Alias     string            `gorm:"size:255" json:"alias"`
	Price     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Option    map[string]string `gorm:"serializer:json;type:text" json:"option"`
	Inventory Inventory         `gorm:"embedded;embeddedPrefix:inventory_" json:"inventory"`
}

func (Variant) TableName() string { return VariantsTable }

// Total falls back to the parent product's price when the variant has none.
func (v Variant) Total() decimal.Decimal {
	if v.Price.IsZero() && v.Product != nil {
		return v.Product.Price
	}
	return v.Price
}

// Category groups products.
type Category struct {
	Model
	SoftDeletes
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Products    []Product `gorm:"many2many:bazar_category_product;" json:"products,omitempty"`
}

func (Category) TableName() string { return CategoriesTable }
