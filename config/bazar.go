package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds the typed BAZAR_* options of the shop itself.
type Settings struct {
	DiscountsEnabled bool `envconfig:"DISCOUNTS_ENABLED" default:"true"`
	// Discounts are registered at boot in order, e.g. "welcome:5,summer:10%".
	Discounts          []string      `envconfig:"DISCOUNTS"`
	Currency           string        `envconfig:"CURRENCY" default:"usd"`
	PerPage            int           `envconfig:"PER_PAGE" default:"25"`
	MaxPerPage         int           `envconfig:"MAX_PER_PAGE" default:"100"`
	MediaDisk          string        `envconfig:"MEDIA_DISK" default:"local"`
	MediaMaxBytes      int64         `envconfig:"MEDIA_MAX_BYTES" default:"10485760"`
	CategoryCacheTTL   time.Duration `envconfig:"CATEGORY_CACHE_TTL" default:"10m"`
	RecalculateWorkers int           `envconfig:"RECALCULATE_WORKERS" default:"4"`
	QueueDriver        string        `envconfig:"QUEUE_DRIVER" default:"memory"`
	// RecalculateSchedule is the cron expression of the discount refresh run
	// by schedule:run.
	RecalculateSchedule string `envconfig:"RECALCULATE_SCHEDULE" default:"@hourly"`
}

// Bazar loads Settings from the environment (including exported .env values).
func Bazar() (Settings, error) {
	_ = Load()

	var s Settings
	if err := envconfig.Process("bazar", &s); err != nil {
		return Settings{}, fmt.Errorf("config: bazar settings: %w", err)
	}
	if s.PerPage <= 0 {
		s.PerPage = 25
	}
	if s.MaxPerPage < s.PerPage {
		s.MaxPerPage = s.PerPage
	}
	if s.RecalculateWorkers <= 0 {
		s.RecalculateWorkers = 1
	}
	return s, nil
}

// MustBazar is Bazar for boot code that cannot continue without settings.
func MustBazar() Settings {
	s, err := Bazar()
	if err != nil {
		panic(err)
	}
	return s
}
