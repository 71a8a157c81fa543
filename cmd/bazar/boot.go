package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/app/discount"
	"github.com/shashiranjanraj/bazar/app/providers"
	"github.com/shashiranjanraj/bazar/app/routes"
	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/cache"
	"github.com/shashiranjanraj/bazar/pkg/database"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/queue"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

// kernel is everything a long-running command needs.
type kernel struct {
	settings  config.Settings
	db        *gorm.DB
	discounts contracts.DiscountRepository
	queue     *queue.Manager
	disk      storage.Disk
}

// bootDB loads the configuration and opens the database.
func bootDB() (config.Settings, error) {
	s, err := config.Bazar()
	if err != nil {
		return s, err
	}
	if err := logger.Setup(); err != nil {
		return s, err
	}
	if err := database.Connect(); err != nil {
		return s, err
	}
	return s, nil
}

// boot brings up the database, cache, disks, container bindings, queue and
// listeners. Redis is optional: without it the in-memory cache is used.
func boot(ctx context.Context) (*kernel, error) {
	s, err := bootDB()
	if err != nil {
		return nil, err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: using the in-memory store", "error", err)
	}
	storage.Connect(ctx)

	disk, err := storage.Use(s.MediaDisk)
	if err != nil {
		return nil, fmt.Errorf("media disk: %w", err)
	}

	if err := providers.Register(s); err != nil {
		return nil, fmt.Errorf("discounts: %w", err)
	}
	q := providers.Queue(s, database.DB)
	providers.Boot(q, database.DB)

	return &kernel{
		settings:  s,
		db:        database.DB,
		discounts: discount.Registry(),
		queue:     q,
		disk:      disk,
	}, nil
}

func (k *kernel) deps() routes.Deps {
	return routes.Deps{DB: k.db, Settings: k.settings, Discounts: k.discounts, Disk: k.disk}
}
