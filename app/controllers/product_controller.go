package controllers

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/repositories"
	"github.com/shashiranjanraj/bazar/app/resources"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
	"github.com/shashiranjanraj/bazar/pkg/resource"
)

type ProductController struct {
	products  *repositories.Repository[models.Product]
	variants  *repositories.Repository[models.Variant]
	transform resource.Transformer[models.Product]
}

func NewProductController(db *gorm.DB, s config.Settings, discounts contracts.DiscountRepository) *ProductController {
	return &ProductController{
		products:  repositories.Products(db, s),
		variants:  repositories.Variants(db, s),
		transform: resources.Product(discounts),
	}
}

func (pc *ProductController) Index(c *ctx.Context) { index(c, pc.products, pc.transform) }
func (pc *ProductController) Show(c *ctx.Context)  { show(c, pc.products, pc.transform) }

func (pc *ProductController) Variants(c *ctx.Context)    { index(c, pc.variants, resources.Variant) }
func (pc *ProductController) ShowVariant(c *ctx.Context) { show(c, pc.variants, resources.Variant) }
