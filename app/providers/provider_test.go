package providers_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/discount"
	"github.com/shashiranjanraj/bazar/app/jobs"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/providers"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/internal/testdb"
	"github.com/shashiranjanraj/bazar/pkg/container"
	"github.com/shashiranjanraj/bazar/pkg/event"
	"github.com/shashiranjanraj/bazar/pkg/queue"
)

func TestRegisterBindsOneRegistry(t *testing.T) {
	t.Cleanup(func() { container.Forget(contracts.DiscountRepositoryKey) })

	require.NoError(t, providers.Register(config.Settings{DiscountsEnabled: true}))
	first := discount.Registry()
	assert.True(t, first.Enabled())
	assert.Same(t, first, discount.Registry())
}

func TestRegisterHonoursDisabledSetting(t *testing.T) {
	t.Cleanup(func() { container.Forget(contracts.DiscountRepositoryKey) })

	require.NoError(t, providers.Register(config.Settings{DiscountsEnabled: false}))
	assert.False(t, discount.Registry().Enabled())
}

func TestRegisterLoadsConfiguredDiscounts(t *testing.T) {
	t.Cleanup(func() { container.Forget(contracts.DiscountRepositoryKey) })
	t.Setenv("BAZAR_DISCOUNTS", "welcome:5,summer:10%")

	s, err := config.Bazar()
	require.NoError(t, err)
	require.NoError(t, providers.Register(s))

	r := discount.Registry()
	assert.Equal(t, []string{"welcome", "summer"}, r.Names())

	order := &models.Order{Items: []models.Item{{Price: decimal.NewFromInt(50), Quantity: 2}}}
	got := r.Calculate(order)
	assert.True(t, decimal.NewFromInt(15).Equal(got), got.String())
}

func TestRegisterFailsOnInvalidDiscount(t *testing.T) {
	t.Cleanup(func() { container.Forget(contracts.DiscountRepositoryKey) })

	err := providers.Register(config.Settings{DiscountsEnabled: true, Discounts: []string{"welcome:lots"}})
	assert.ErrorIs(t, err, discount.ErrInvalidDiscount)
	assert.False(t, container.Has(contracts.DiscountRepositoryKey))
}

func TestBootWiresMediaEventsToTheQueue(t *testing.T) {
	t.Cleanup(event.Flush)
	db := testdb.Open(t)
	driver := queue.NewMemoryDriver(4)
	q := queue.New(driver)

	providers.Boot(q, db)
	require.True(t, event.HasListeners(services.EventMediumStored))
	require.True(t, event.HasListeners(services.EventDiscountCalculated))

	m := &models.Medium{Model: models.Model{ID: 3}, MimeType: "image/jpeg"}
	require.NoError(t, event.Fire(context.Background(), services.EventMediumStored, m))
	assert.Equal(t, 1, driver.Len())

	raw, err := driver.Pop(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(raw), jobs.MediaPropertiesName)
}
