package discount_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/app/discount"
)

func TestLoadRegistersEntriesInOrder(t *testing.T) {
	r := discount.New()
	require.NoError(t, discount.Load(r, []string{"welcome:5", " summer : 10% ", ""}))

	assert.Equal(t, []string{"welcome", "summer"}, r.Names())
	got := r.Calculate(model("200"))
	assert.True(t, decimal.NewFromInt(25).Equal(got), got.String())
}

func TestLoadRejectsMalformedEntries(t *testing.T) {
	for _, entries := range [][]string{
		{"welcome"},
		{":5"},
		{"welcome:five"},
		{"summer:ten%"},
	} {
		r := discount.New()
		err := discount.Load(r, entries)
		assert.ErrorIs(t, err, discount.ErrInvalidDiscount, "%v", entries)
	}
}
