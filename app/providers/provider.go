// Package providers binds the shop's services into the container and wires
// its events and jobs at boot.
package providers

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/discount"
	"github.com/shashiranjanraj/bazar/app/jobs"
	"github.com/shashiranjanraj/bazar/app/listeners"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/cache"
	"github.com/shashiranjanraj/bazar/pkg/container"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/queue"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

// Register binds the discount registry as a shared instance holding the
// BAZAR_DISCOUNTS entries. It starts enabled unless BAZAR_DISCOUNTS_ENABLED
// is false. Nothing is bound when an entry is invalid.
func Register(s config.Settings) error {
	r := discount.New()
	if err := discount.Load(r, s.Discounts); err != nil {
		return err
	}
	if !s.DiscountsEnabled {
		r.Disable()
	}
	container.Instance(contracts.DiscountRepositoryKey, contracts.DiscountRepository(r))
	return nil
}

// Queue returns the manager for the configured driver. The redis driver
// needs cache.Connect to have succeeded and falls back to memory otherwise.
func Queue(s config.Settings, db *gorm.DB) *queue.Manager {
	m := queue.Default()
	if s.QueueDriver == "redis" {
		if cache.RDB != nil {
			m.SetDriver(queue.NewRedisDriver(cache.RDB))
		} else {
			logger.Warn("queue: redis is not connected, using the memory driver")
		}
	}
	if db != nil {
		m.UseStore(queue.DBStore{DB: db})
	}
	return m
}

// Boot registers the jobs and event listeners.
func Boot(q *queue.Manager, db *gorm.DB) {
	jobs.Register(q, db, storage.Use)
	listeners.Register(q)
}
