// Package services holds the shop's use cases on top of the models.
package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/event"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/orm"
	"github.com/shashiranjanraj/bazar/pkg/workerpool"
)

// EventDiscountCalculated is fired with a DiscountCalculated payload.
const EventDiscountCalculated = "order.discount.calculated"

// DiscountCalculated describes a fresh discount calculation.
type DiscountCalculated struct {
	Order    *models.Order
	Previous decimal.Decimal
	Amount   decimal.Decimal
	Saved    bool
}

// OpenStatuses are the statuses whose discount may still change.
var OpenStatuses = []string{models.StatusPending, models.StatusOnHold, models.StatusInProgress}

// OrderService applies the discount registry to orders.
type OrderService struct {
	db        *gorm.DB
	discounts contracts.DiscountRepository
	workers   int
}

func NewOrderService(db *gorm.DB, discounts contracts.DiscountRepository, s config.Settings) *OrderService {
	return &OrderService{db: db, discounts: discounts, workers: s.RecalculateWorkers}
}

// Load fetches an order with the relations its totals need.
func (s *OrderService) Load(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := orm.New(s.db).
		Preload("Items").
		Preload("Shipping").
		Preload("Address").
		Preload("User").
		Find(ctx, &order, id)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CalculateDiscount sets order.Discount from the registry. With update the
// amount is also written to the order's row.
func (s *OrderService) CalculateDiscount(ctx context.Context, order *models.Order, update bool) (decimal.Decimal, error) {
	previous := order.Discount
	amount := s.discounts.Calculate(order)
	order.Discount = amount

	if update && order.ID != 0 {
		err := orm.New(s.db).
			Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update(ctx, "discount", amount)
		if err != nil {
			order.Discount = previous
			return previous, fmt.Errorf("services: save discount of order %d: %w", order.ID, err)
		}
	}

	payload := DiscountCalculated{Order: order, Previous: previous, Amount: amount, Saved: update && order.ID != 0}
	if err := event.Fire(ctx, EventDiscountCalculated, payload); err != nil {
		logger.WithCtx(ctx).Warn("discount listeners failed", "order_id", order.ID, "error", err)
	}
	return amount, nil
}

// RecalculateOpen recalculates and stores the discount of every open order
// on a bounded worker pool. It returns how many orders were updated and the
// joined errors of the ones that failed.
func (s *OrderService) RecalculateOpen(ctx context.Context) (int, error) {
	var ids []uint
	err := orm.New(s.db).
		Model(&models.Order{}).
		WhereIn("status", OpenStatuses).
		OrderBy("id", "asc").
		Pluck(ctx, "id", &ids)
	if err != nil {
		return 0, fmt.Errorf("services: list open orders: %w", err)
	}

	var updated atomic.Int64
	pool := workerpool.New(ctx, s.workers)
	for _, id := range ids {
		id := id
		err := pool.SubmitWait(ctx, func(ctx context.Context) error {
			order, err := s.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("order %d: %w", id, err)
			}
			if _, err := s.CalculateDiscount(ctx, order, true); err != nil {
				return err
			}
			updated.Add(1)
			return nil
		})
		if err != nil {
			break
		}
	}
	err = pool.Shutdown()
	if ctx.Err() != nil && err == nil {
		err = ctx.Err()
	}

	logger.WithCtx(ctx).Info("discounts recalculated", "orders", len(ids), "updated", updated.Load())
	return int(updated.Load()), err
}
