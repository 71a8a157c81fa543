package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOrderTotals(t *testing.T) {
	o := Order{
		Items: []Item{
			{Price: dec("10.00"), Tax: dec("1.00"), Quantity: 2},
			{Price: dec("5.50"), Quantity: 1},
		},
		Shipping: &Shipping{Cost: dec("4.00"), Tax: dec("0.50")},
		Discount: dec("3"),
	}

	assert.True(t, dec("32.00").Equal(o.Total()), o.Total().String())
	assert.True(t, dec("2.50").Equal(o.Tax()), o.Tax().String())
	assert.True(t, dec("29.00").Equal(o.NetTotal()), o.NetTotal().String())
}

func TestNetTotalNeverNegative(t *testing.T) {
	o := Order{Items: []Item{{Price: dec("1"), Quantity: 1}}, Discount: dec("5")}
	assert.True(t, o.NetTotal().IsZero())
}

func TestVariantFallsBackToProductPrice(t *testing.T) {
	v := Variant{Product: &Product{Price: dec("12.5")}}
	assert.True(t, dec("12.5").Equal(v.Total()))

	v.Price = dec("9")
	assert.True(t, dec("9").Equal(v.Total()))
}

func TestStatuses(t *testing.T) {
	assert.Len(t, Statuses(), 6)
	assert.True(t, ValidStatus(StatusOnHold))
	assert.False(t, ValidStatus("shipped"))
}

func TestMedium(t *testing.T) {
	m := Medium{MimeType: "image/png", Path: "abc", FileName: "a.png"}
	assert.Equal(t, "image", m.Type())
	assert.True(t, m.IsImage())
	assert.Equal(t, "abc/a.png", m.Key())

	assert.False(t, Medium{MimeType: "image/svg+xml"}.IsImage())
}

func TestInventoryAvailable(t *testing.T) {
	assert.True(t, Inventory{Quantity: 3}.Available(3))
	assert.False(t, Inventory{Quantity: 3}.Available(4))
	assert.True(t, Inventory{Virtual: true}.Available(100))
}

func TestOrderTokenAssignedOnCreate(t *testing.T) {
	o := &Order{}
	assert.NoError(t, o.BeforeCreate(nil))
	assert.Len(t, o.Token, 36)

	o.Token = "fixed"
	assert.NoError(t, o.BeforeCreate(nil))
	assert.Equal(t, "fixed", o.Token)
}
