package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/filters"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/orm"
)

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=bazar dbname=bazar sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

var common = filters.Params{
	Search:    "test",
	Exclude:   []uint{1, 2},
	SortBy:    "created_at",
	SortOrder: "desc",
}

func with(mutate func(*filters.Params)) filters.Params {
	p := common
	mutate(&p)
	return p
}

func TestProductFilter(t *testing.T) {
	db := dryRun(t)
	p := with(func(p *filters.Params) {
		p.State = filters.StateAll
		p.Category = 1
	})

	want := orm.New(db).Model(&models.Product{}).
		WhereGroup(func(g *orm.Query) *orm.Query {
			return g.Where("bazar_products.name LIKE ?", "test%").
				OrWhere("bazar_products.inventory_sku LIKE ?", "test%")
		}).
		WithTrashed().
		WhereNotIn("bazar_products.id", []uint{1, 2}).
		OrderBy("bazar_products.created_at", "desc").
		WhereHas(models.ProductCategories, func(c *orm.Query) *orm.Query {
			return c.Where("bazar_categories.id = ?", 1)
		}).
		ToSQL(&[]models.Product{})

	got := filters.Products.Apply(orm.New(db).Model(&models.Product{}), p).ToSQL(&[]models.Product{})

	assert.Equal(t, want, got)
	assert.Contains(t, got, "(bazar_products.name LIKE 'test%' OR bazar_products.inventory_sku LIKE 'test%')")
	assert.Contains(t, got, "bazar_products.id NOT IN (1,2)")
	assert.Contains(t, got, "JOIN bazar_category_product ON bazar_category_product.category_id = bazar_categories.id")
	assert.Contains(t, got, "bazar_categories.id = 1")
	assert.Contains(t, got, `ORDER BY "bazar_products"."created_at" DESC`)
	assert.NotContains(t, got, `"bazar_products"."deleted_at" IS NULL`)
}

func TestOrderFilter(t *testing.T) {
	db := dryRun(t)
	p := with(func(p *filters.Params) {
		p.State = filters.StateAll
		p.Status = models.StatusInProgress
		p.User = 1
	})

	want := orm.New(db).Model(&models.Order{}).
		WhereHas(models.OrderAddress, func(a *orm.Query) *orm.Query {
			return a.WhereGroup(func(g *orm.Query) *orm.Query {
				return g.Where("bazar_addresses.first_name LIKE ?", "test%").
					OrWhere("bazar_addresses.last_name LIKE ?", "test%")
			})
		}).
		WithTrashed().
		WhereNotIn("bazar_orders.id", []uint{1, 2}).
		OrderBy("bazar_orders.created_at", "desc").
		Where("bazar_orders.status = ?", "in_progress").
		WhereHas(models.OrderUser, func(u *orm.Query) *orm.Query {
			return u.Where("users.id = ?", 1)
		}).
		ToSQL(&[]models.Order{})

	got := filters.Orders.Apply(orm.New(db).Model(&models.Order{}), p).ToSQL(&[]models.Order{})

	assert.Equal(t, want, got)
	assert.Contains(t, got, "bazar_addresses.addressable_type = 'order'")
	assert.Contains(t, got, "(bazar_addresses.first_name LIKE 'test%' OR bazar_addresses.last_name LIKE 'test%')")
	assert.Contains(t, got, "bazar_orders.status = 'in_progress'")
	assert.Contains(t, got, "users.id = bazar_orders.user_id")
}

func TestMediumFilterIgnoresState(t *testing.T) {
	db := dryRun(t)
	p := with(func(p *filters.Params) {
		p.State = "fake"
		p.Type = "image"
	})

	want := orm.New(db).Model(&models.Medium{}).
		Where("bazar_media.name LIKE ?", "test%").
		WhereNotIn("bazar_media.id", []uint{1, 2}).
		OrderBy("bazar_media.created_at", "desc").
		Where("bazar_media.mime_type LIKE ?", "image%").
		ToSQL(&[]models.Medium{})

	got := filters.Media.Apply(orm.New(db).Model(&models.Medium{}), p).ToSQL(&[]models.Medium{})

	assert.Equal(t, want, got)
	assert.Contains(t, got, "bazar_media.mime_type LIKE 'image%'")
}

func TestAddressFilter(t *testing.T) {
	db := dryRun(t)

	want := orm.New(db).Model(&models.Address{}).
		Where("bazar_addresses.alias LIKE ?", "test%").
		WhereNotIn("bazar_addresses.id", []uint{1, 2}).
		OrderBy("bazar_addresses.created_at", "desc").
		ToSQL(&[]models.Address{})

	got := filters.Addresses.Apply(orm.New(db).Model(&models.Address{}), common).ToSQL(&[]models.Address{})
	assert.Equal(t, want, got)
}

func TestCategoryFilter(t *testing.T) {
	db := dryRun(t)

	want := orm.New(db).Model(&models.Category{}).
		Where("bazar_categories.name LIKE ?", "test%").
		WhereNotIn("bazar_categories.id", []uint{1, 2}).
		OrderBy("bazar_categories.created_at", "desc").
		ToSQL(&[]models.Category{})

	got := filters.Categories.Apply(orm.New(db).Model(&models.Category{}), common).ToSQL(&[]models.Category{})
	assert.Equal(t, want, got)
	assert.Contains(t, got, `"bazar_categories"."deleted_at" IS NULL`)
}

func TestUserFilterIgnoresUnknownState(t *testing.T) {
	db := dryRun(t)
	p := with(func(p *filters.Params) { p.State = "fake" })

	want := orm.New(db).Model(&models.User{}).
		WhereGroup(func(g *orm.Query) *orm.Query {
			return g.Where("users.name LIKE ?", "test%").OrWhere("users.email LIKE ?", "test%")
		}).
		WhereNotIn("users.id", []uint{1, 2}).
		OrderBy("users.created_at", "desc").
		ToSQL(&[]models.User{})

	got := filters.Users.Apply(orm.New(db).Model(&models.User{}), p).ToSQL(&[]models.User{})
	assert.Equal(t, want, got)
	assert.Contains(t, got, `"users"."deleted_at" IS NULL`)
}

func TestVariantFilterOnlyTrashed(t *testing.T) {
	db := dryRun(t)
	p := with(func(p *filters.Params) { p.State = filters.StateTrashed })

	want := orm.New(db).Model(&models.Variant{}).
		Where("bazar_variants.alias LIKE ?", "test%").
		OnlyTrashed("bazar_variants").
		WhereNotIn("bazar_variants.id", []uint{1, 2}).
		OrderBy("bazar_variants.created_at", "desc").
		ToSQL(&[]models.Variant{})

	got := filters.Variants.Apply(orm.New(db).Model(&models.Variant{}), p).ToSQL(&[]models.Variant{})
	assert.Equal(t, want, got)
	assert.Contains(t, got, "bazar_variants.deleted_at IS NOT NULL")
}

func TestVariantProductFacet(t *testing.T) {
	db := dryRun(t)
	got := filters.Variants.Apply(orm.New(db).Model(&models.Variant{}), filters.Params{Product: 4}).
		ToSQL(&[]models.Variant{})

	assert.Contains(t, got, "bazar_variants.product_id = 4")
}

func TestEmptyParamsLeaveDefaultScope(t *testing.T) {
	db := dryRun(t)

	want := orm.New(db).Model(&models.Product{}).ToSQL(&[]models.Product{})
	got := filters.Products.Apply(orm.New(db).Model(&models.Product{}), filters.Params{}).ToSQL(&[]models.Product{})
	assert.Equal(t, want, got)
}

func TestUnknownSortColumnIsIgnored(t *testing.T) {
	db := dryRun(t)
	p := filters.Params{SortBy: "password; DROP TABLE users", SortOrder: "desc"}

	got := filters.Users.Apply(orm.New(db).Model(&models.User{}), p).ToSQL(&[]models.User{})
	assert.NotContains(t, got, "ORDER BY")
}

func TestSortDefaultsToAscending(t *testing.T) {
	db := dryRun(t)
	got := filters.Categories.Apply(orm.New(db).Model(&models.Category{}), filters.Params{SortBy: "name"}).
		ToSQL(&[]models.Category{})

	assert.Contains(t, got, `ORDER BY "bazar_categories"."name"`)
	assert.NotContains(t, got, "DESC")
}

func TestBlankSearchAndDuplicateExcludes(t *testing.T) {
	db := dryRun(t)
	got := filters.Addresses.Apply(orm.New(db).Model(&models.Address{}), filters.Params{
		Search:  "   ",
		Exclude: []uint{3, 3, 4},
	}).ToSQL(&[]models.Address{})

	assert.NotContains(t, got, "LIKE")
	assert.Contains(t, got, "bazar_addresses.id NOT IN (3,4)")
}
