package discount

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazar/app/contracts"
)

var hundred = decimal.NewFromInt(100)

// Rule computes the discount amount for a model.
type Rule interface {
	Amount(model contracts.Discountable) decimal.Decimal
}

// Fixed is a constant amount.
type Fixed decimal.Decimal

func (f Fixed) Amount(contracts.Discountable) decimal.Decimal { return decimal.Decimal(f) }

// Func adapts a calculation function to Rule.
type Func func(contracts.Discountable) decimal.Decimal

func (f Func) Amount(model contracts.Discountable) decimal.Decimal { return f(model) }

// Percent takes a percentage of the model's total.
func Percent(p float64) Rule {
	return PercentOf(decimal.NewFromFloat(p))
}

// PercentOf is Percent for a decimal rate.
func PercentOf(rate decimal.Decimal) Rule {
	return Func(func(m contracts.Discountable) decimal.Decimal {
		return m.Total().Mul(rate).Div(hundred)
	})
}
