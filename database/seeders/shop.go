package seeders

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/hash"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "secret"

func init() {
	Register("users", seedUsers)
	Register("catalogue", seedCatalogue)
	Register("orders", seedOrders)
}

func seedUsers(_ context.Context, db *gorm.DB) error {
	password, err := hash.Make(DemoPassword)
	if err != nil {
		return err
	}
	users := []models.User{
		{Name: "Admin", Email: "admin@bazar.test", Password: password},
		{Name: "Jane Doe", Email: "jane@bazar.test", Password: password, Addresses: []models.Address{{
			Alias: "Home", FirstName: "Jane", LastName: "Doe", Country: "HU",
			City: "Budapest", Postcode: "1051", Address: "Nador u. 9", Default: true,
		}}},
	}
	return db.Create(&users).Error
}

func seedCatalogue(_ context.Context, db *gorm.DB) error {
	categories := []models.Category{
		{Name: "Clothing", Slug: "clothing"},
		{Name: "Books", Slug: "books"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name: "Linen Shirt", Slug: "linen-shirt", Price: decimal.RequireFromString("39.90"),
			Inventory:  models.Inventory{SKU: "SHIRT", Quantity: 20, Weight: 0.3},
			Categories: categories[:1],
			Variants: []models.Variant{
				{Alias: "Small", Option: map[string]string{"size": "S"}, Inventory: models.Inventory{SKU: "SHIRT-S", Quantity: 5}},
				{Alias: "Large", Option: map[string]string{"size": "L"}, Price: decimal.RequireFromString("42.90"), Inventory: models.Inventory{SKU: "SHIRT-L", Quantity: 5}},
			},
		},
		{
			Name: "Wool Scarf", Slug: "wool-scarf", Price: decimal.RequireFromString("19.00"),
			Inventory:  models.Inventory{SKU: "SCARF", Quantity: 8, Weight: 0.2},
			Categories: categories[:1],
		},
		{
			Name: "Go in Practice", Slug: "go-in-practice", Price: decimal.RequireFromString("29.99"),
			Inventory:  models.Inventory{SKU: "EBOOK", Virtual: true},
			Categories: categories[1:],
		},
	}
	return db.Create(&products).Error
}

func seedOrders(_ context.Context, db *gorm.DB) error {
	var user models.User
	if err := db.Where("email = ?", "jane@bazar.test").First(&user).Error; err != nil {
		return fmt.Errorf("customer: %w", err)
	}
	var products []models.Product
	if err := db.Order("id").Find(&products).Error; err != nil {
		return err
	}

	statuses := []string{models.StatusPending, models.StatusInProgress, models.StatusCompleted}
	orders := lo.Map(statuses, func(status string, i int) models.Order {
		p := products[i%len(products)]
		return models.Order{
			UserID: &user.ID,
			Status: status,
			Items: []models.Item{{
				ProductID: &p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Tax:       p.Price.Mul(decimal.RequireFromString("0.27")).Round(2),
				Quantity:  i + 1,
			}},
			Shipping: &models.Shipping{Cost: decimal.NewFromInt(5)},
			Address: &models.Address{
				FirstName: "Jane", LastName: "Doe", Country: "HU", City: "Budapest",
				Postcode: "1051", Address: "Nador u. 9",
			},
		}
	})
	return db.Create(&orders).Error
}
