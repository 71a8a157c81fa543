// Package migrations registers the shop's schema migrations. Importing it
// for side effects makes them available to the migrate commands.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/migration"
	"github.com/shashiranjanraj/bazar/pkg/queue"
)

func init() {
	for _, e := range All() {
		migration.Register(e.Name, e.Migration)
	}
}

// All lists the migrations in the order they run.
func All() []migration.Entry {
	return []migration.Entry{
		{Name: "2026_01_01_000000_create_users_table", Migration: tables{&models.User{}}},
		{Name: "2026_01_01_000001_create_bazar_categories_table", Migration: tables{&models.Category{}}},
		{Name: "2026_01_01_000002_create_bazar_products_table", Migration: products{}},
		{Name: "2026_01_01_000003_create_bazar_variants_table", Migration: tables{&models.Variant{}}},
		{Name: "2026_01_01_000004_create_bazar_orders_table", Migration: tables{&models.Order{}, &models.Item{}, &models.Shipping{}}},
		{Name: "2026_01_01_000005_create_bazar_addresses_table", Migration: tables{&models.Address{}}},
		{Name: "2026_01_01_000006_create_bazar_media_table", Migration: tables{&models.Medium{}}},
		{Name: "2026_01_01_000007_create_bazar_failed_jobs_table", Migration: tables{&queue.FailedJobRecord{}}},
	}
}

// tables creates its models on Up and drops them in reverse on Down.
type tables []interface{}

func (t tables) Up(db *gorm.DB) error {
	return db.AutoMigrate(t...)
}

func (t tables) Down(db *gorm.DB) error {
	for i := len(t) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(t[i]); err != nil {
			return err
		}
	}
	return nil
}

// products also owns the category pivot, which AutoMigrate creates from
// the many2many relation.
type products struct{}

func (products) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (products) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(models.CategoryProductTable, &models.Product{})
}
