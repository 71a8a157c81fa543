package controllers

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/repositories"
	"github.com/shashiranjanraj/bazar/app/resources"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/cache"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
	"github.com/shashiranjanraj/bazar/pkg/orm"
	"github.com/shashiranjanraj/bazar/pkg/resource"
)

// CatalogController serves the supporting listings: categories, addresses
// and users.
type CatalogController struct {
	categories *repositories.Repository[models.Category]
	addresses  *repositories.Repository[models.Address]
	users      *repositories.Repository[models.User]
	ttl        time.Duration
}

func NewCatalogController(db *gorm.DB, s config.Settings) *CatalogController {
	return &CatalogController{
		categories: repositories.Categories(db, s),
		addresses:  repositories.Addresses(db, s),
		users:      repositories.Users(db, s),
		ttl:        s.CategoryCacheTTL,
	}
}

type cachedPage struct {
	Items []resource.Map `json:"items"`
	Page  orm.Pagination `json:"page"`
}

// Categories is cached per distinct query string.
func (cc *CatalogController) Categories(c *ctx.Context) {
	p, ok := params(c)
	if !ok {
		return
	}

	var out cachedPage
	key := "bazar:categories:" + c.R.URL.Query().Encode()
	err := cache.Remember(c.Context(), key, cc.ttl, &out, func() error {
		items, page, err := cc.categories.List(c.Context(), p)
		if err != nil {
			return err
		}
		out = cachedPage{Items: resource.Collection(items, resources.Category), Page: page}
		return nil
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(out.Items, out.Page)
}

func (cc *CatalogController) ShowCategory(c *ctx.Context) {
	show(c, cc.categories, resources.Category)
}

func (cc *CatalogController) Addresses(c *ctx.Context) { index(c, cc.addresses, resources.Address) }
func (cc *CatalogController) Users(c *ctx.Context)     { index(c, cc.users, resources.User) }
func (cc *CatalogController) ShowUser(c *ctx.Context)  { show(c, cc.users, resources.User) }
