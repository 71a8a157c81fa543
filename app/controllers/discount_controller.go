package controllers

import (
	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/pkg/ctx"
	"github.com/shashiranjanraj/bazar/pkg/resource"
)

type DiscountController struct {
	discounts contracts.DiscountRepository
}

func NewDiscountController(discounts contracts.DiscountRepository) *DiscountController {
	return &DiscountController{discounts: discounts}
}

// Index lists the registered discounts in calculation order.
func (dc *DiscountController) Index(c *ctx.Context) {
	c.Success(resource.Map{
		"enabled": dc.discounts.Enabled(),
		"names":   dc.discounts.Names(),
	})
}
