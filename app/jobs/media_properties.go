// Package jobs holds the shop's queued background jobs.
package jobs

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/queue"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

// MediaPropertiesName is the queue name of MediaProperties.
const MediaPropertiesName = "media.properties"

// MediaProperties reads the pixel size of an uploaded image and stores it on
// the medium.
type MediaProperties struct {
	MediumID uint `json:"medium_id"`

	db    *gorm.DB
	disks func(name string) (storage.Disk, error)
}

func (MediaProperties) Name() string { return MediaPropertiesName }

func (j *MediaProperties) Handle(ctx context.Context) error {
	var medium models.Medium
	if err := j.db.WithContext(ctx).First(&medium, j.MediumID).Error; err != nil {
		return fmt.Errorf("jobs: load medium %d: %w", j.MediumID, err)
	}
	if !medium.IsImage() {
		return nil
	}

	disk, err := j.disks(medium.Disk)
	if err != nil {
		return err
	}
	rc, err := disk.Get(ctx, medium.Key())
	if err != nil {
		return err
	}
	defer rc.Close()

	cfg, format, err := image.DecodeConfig(rc)
	if err != nil {
		logger.WithCtx(ctx).Info("jobs: image size unknown", "medium_id", medium.ID, "mime", medium.MimeType, "error", err)
		return nil
	}

	err = j.db.WithContext(ctx).Model(&medium).Updates(map[string]interface{}{
		"width":  cfg.Width,
		"height": cfg.Height,
	}).Error
	if err != nil {
		return fmt.Errorf("jobs: save size of medium %d: %w", medium.ID, err)
	}
	logger.WithCtx(ctx).Info("jobs: media properties stored", "medium_id", medium.ID, "format", format, "width", cfg.Width, "height", cfg.Height)
	return nil
}

// NewMediaProperties builds a dispatchable job for one medium.
func NewMediaProperties(mediumID uint) *MediaProperties {
	return &MediaProperties{MediumID: mediumID}
}

// Register makes the shop's jobs known to m. Jobs run against db and read
// files through disks.
func Register(m *queue.Manager, db *gorm.DB, disks func(name string) (storage.Disk, error)) {
	m.Register(MediaPropertiesName, func() queue.Job {
		return &MediaProperties{db: db, disks: disks}
	})
}
