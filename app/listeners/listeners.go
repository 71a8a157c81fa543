// Package listeners reacts to the shop's domain events.
package listeners

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bazar/app/jobs"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/pkg/event"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/queue"
)

// Register subscribes the listeners. Jobs are dispatched on q.
func Register(q *queue.Manager) {
	event.Listen(services.EventDiscountCalculated, LogDiscount)
	event.Listen(services.EventMediumStored, QueueMediaProperties(q))
}

// LogDiscount records every changed discount.
func LogDiscount(ctx context.Context, payload interface{}) error {
	e, ok := payload.(services.DiscountCalculated)
	if !ok {
		return fmt.Errorf("listeners: unexpected payload %T", payload)
	}
	if e.Previous.Equal(e.Amount) {
		return nil
	}
	logger.WithCtx(ctx).Info("order discount changed",
		"order_id", e.Order.ID,
		"from", e.Previous.String(),
		"to", e.Amount.String(),
		"saved", e.Saved,
	)
	return nil
}

// QueueMediaProperties dispatches a size lookup for every stored image.
func QueueMediaProperties(q *queue.Manager) event.Handler {
	return func(ctx context.Context, payload interface{}) error {
		m, ok := payload.(*models.Medium)
		if !ok {
			return fmt.Errorf("listeners: unexpected payload %T", payload)
		}
		if !m.IsImage() {
			return nil
		}
		return q.Dispatch(ctx, jobs.NewMediaProperties(m.ID))
	}
}
