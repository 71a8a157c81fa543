package discount_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/discount"
	"github.com/shashiranjanraj/bazar/pkg/container"
)

type priced decimal.Decimal

func (p priced) Total() decimal.Decimal { return decimal.Decimal(p) }

func model(s string) contracts.Discountable { return priced(decimal.RequireFromString(s)) }

func TestCalculateSumsEveryKind(t *testing.T) {
	r := discount.New()
	require.NoError(t, r.Register("int", 5))
	require.NoError(t, r.Register("float", 2.5))
	require.NoError(t, r.Register("string", "1.25"))
	require.NoError(t, r.Register("decimal", decimal.NewFromInt(1)))
	require.NoError(t, r.Register("tenth", func(m contracts.Discountable) decimal.Decimal {
		return m.Total().Div(decimal.NewFromInt(10))
	}))
	require.NoError(t, r.Register("legacy", func(contracts.Discountable) float64 { return 0.25 }))
	require.NoError(t, r.Register("percent", discount.Percent(10)))

	got := r.Calculate(model("100"))
	assert.True(t, decimal.RequireFromString("30").Equal(got), got.String())
}

func TestRegisterRejectsUnsupportedValues(t *testing.T) {
	r := discount.New()

	for _, v := range []interface{}{nil, "ten", []int{1}, struct{}{}} {
		err := r.Register("bad", v)
		assert.ErrorIs(t, err, discount.ErrInvalidDiscount, "%#v", v)
	}
	assert.Empty(t, r.Names())
}

func TestReRegisterKeepsPosition(t *testing.T) {
	r := discount.New()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 10))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.True(t, decimal.NewFromInt(12).Equal(r.Calculate(model("0"))))
}

func TestRemove(t *testing.T) {
	r := discount.New()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	r.Remove("a")
	r.Remove("missing")

	assert.Equal(t, []string{"b"}, r.Names())
	assert.True(t, decimal.NewFromInt(2).Equal(r.Calculate(model("0"))))
}

func TestDisabledReturnsZero(t *testing.T) {
	r := discount.New()
	require.NoError(t, r.Register("a", 7))

	r.Disable()
	assert.False(t, r.Enabled())
	assert.True(t, r.Calculate(model("50")).IsZero())

	r.Enable()
	assert.True(t, decimal.NewFromInt(7).Equal(r.Calculate(model("50"))))
}

func TestEmptyRegistryIsZero(t *testing.T) {
	assert.True(t, discount.New().Calculate(model("99")).IsZero())
}

func TestSumIsNotClampedOrRounded(t *testing.T) {
	r := discount.New()
	require.NoError(t, r.Register("big", "150.005"))

	assert.Equal(t, "150.005", r.Calculate(model("100")).String())
}

func TestConcurrentUse(t *testing.T) {
	r := discount.New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register("a", 1)
			r.Disable()
			r.Enable()
		}()
		go func() {
			defer wg.Done()
			_ = r.Calculate(model("10"))
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"a"}, r.Names())
}

func TestRegistryResolvesContainerBinding(t *testing.T) {
	repo := discount.New()
	container.Instance(contracts.DiscountRepositoryKey, contracts.DiscountRepository(repo))
	t.Cleanup(func() { container.Forget(contracts.DiscountRepositoryKey) })

	assert.Same(t, repo, discount.Registry())
}

func TestRegisterRejectsNilCalculations(t *testing.T) {
	r := discount.New()

	for _, v := range []interface{}{
		(func(contracts.Discountable) decimal.Decimal)(nil),
		(func(contracts.Discountable) float64)(nil),
		discount.Func(nil),
	} {
		assert.ErrorIs(t, r.Register("nil", v), discount.ErrInvalidDiscount, "%T", v)
	}
	assert.Empty(t, r.Names())
	assert.NotPanics(t, func() { r.Calculate(model("10")) })
}

func TestRegisterAcceptsEveryIntegerKind(t *testing.T) {
	r := discount.New()
	for i, v := range []interface{}{
		int(1), int8(1), int16(1), int32(1), int64(1),
		uint(1), uint8(1), uint16(1), uint32(1), uint64(1),
	} {
		require.NoError(t, r.Register(fmt.Sprintf("%T-%d", v, i), v))
	}
	assert.True(t, decimal.NewFromInt(10).Equal(r.Calculate(model("0"))))
}

func TestRegisterKeepsLargeUnsignedValues(t *testing.T) {
	r := discount.New()
	require.NoError(t, r.Register("max", ^uint64(0)))

	got := r.Calculate(model("0"))
	assert.True(t, got.IsPositive(), got.String())
	assert.Equal(t, "18446744073709551615", got.String())
}
