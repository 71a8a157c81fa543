package listeners_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/app/jobs"
	"github.com/shashiranjanraj/bazar/app/listeners"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/pkg/event"
	"github.com/shashiranjanraj/bazar/pkg/queue"
)

func TestStoredImagesQueueTheirProperties(t *testing.T) {
	t.Cleanup(event.Flush)
	driver := queue.NewMemoryDriver(4)
	listeners.Register(queue.New(driver))

	ctx := context.Background()
	image := &models.Medium{Model: models.Model{ID: 7}, MimeType: "image/png"}
	require.NoError(t, event.Fire(ctx, services.EventMediumStored, image))
	require.Equal(t, 1, driver.Len())

	raw, err := driver.Pop(ctx)
	require.NoError(t, err)
	var env struct {
		Type    string               `json:"type"`
		Payload jobs.MediaProperties `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, jobs.MediaPropertiesName, env.Type)
	assert.EqualValues(t, 7, env.Payload.MediumID)

	pdf := &models.Medium{Model: models.Model{ID: 8}, MimeType: "application/pdf"}
	require.NoError(t, event.Fire(ctx, services.EventMediumStored, pdf))
	assert.Zero(t, driver.Len())
}

func TestListenersRejectUnexpectedPayloads(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, listeners.LogDiscount(ctx, "nope"))
	assert.Error(t, listeners.QueueMediaProperties(queue.New(queue.NewMemoryDriver(1)))(ctx, models.Medium{}))
}

func TestLogDiscount(t *testing.T) {
	e := services.DiscountCalculated{
		Order:    &models.Order{Model: models.Model{ID: 1}},
		Previous: decimal.Zero,
		Amount:   decimal.NewFromInt(3),
	}
	assert.NoError(t, listeners.LogDiscount(context.Background(), e))
}
