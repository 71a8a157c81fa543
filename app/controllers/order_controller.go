package controllers

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/repositories"
	"github.com/shashiranjanraj/bazar/app/resources"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
)

type OrderController struct {
	orders  *repositories.Repository[models.Order]
	service *services.OrderService
}

func NewOrderController(db *gorm.DB, s config.Settings, service *services.OrderService) *OrderController {
	return &OrderController{orders: repositories.Orders(db, s), service: service}
}

func (oc *OrderController) Index(c *ctx.Context) { index(c, oc.orders, resources.Order) }
func (oc *OrderController) Show(c *ctx.Context)  { show(c, oc.orders, resources.Order) }

// Statuses lists the order statuses with their labels.
func (oc *OrderController) Statuses(c *ctx.Context) { c.Success(models.Statuses()) }

type discountRequest struct {
	Save *bool `json:"save"`
}

// Discount recalculates the order's discount and stores it. A body of
// {"save": false} returns the recalculated order without writing it.
func (oc *OrderController) Discount(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	var in discountRequest
	if c.R.ContentLength > 0 && !c.BindJSON(&in) {
		return
	}
	save := in.Save == nil || *in.Save
	order, err := oc.service.Load(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if _, err := oc.service.CalculateDiscount(c.Context(), order, save); err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Order(*order))
}
