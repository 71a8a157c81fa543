package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/pkg/event"
	"github.com/shashiranjanraj/bazar/pkg/logger"
	"github.com/shashiranjanraj/bazar/pkg/metrics"
	"github.com/shashiranjanraj/bazar/pkg/orm"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

// EventMediumStored is fired with the new *models.Medium after an upload.
const EventMediumStored = "media.stored"

// sniffLen is how much of a file mimetype needs to recognise it.
const sniffLen = 3072

// MediaService stores uploads on a disk and records them as media.
type MediaService struct {
	db       *gorm.DB
	disk     storage.Disk
	maxBytes int64
}

func NewMediaService(db *gorm.DB, disk storage.Disk, maxBytes int64) *MediaService {
	return &MediaService{db: db, disk: disk, maxBytes: maxBytes}
}

// Store writes r to the disk under a fresh directory and creates its
// Medium. The mime type is sniffed from the content, not trusted from the
// client.
func (s *MediaService) Store(ctx context.Context, name string, r io.Reader) (*models.Medium, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("services: read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	head = head[:n]
	mime := mimetype.Detect(head)

	medium := &models.Medium{
		Name:     displayName(name),
		FileName: fileName(name, mime.Extension()),
		MimeType: mime.String(),
		Disk:     s.disk.Name(),
		Path:     uuid.NewString(),
	}
	if i := strings.IndexByte(medium.MimeType, ';'); i >= 0 {
		medium.MimeType = medium.MimeType[:i]
	}

	body := &countingReader{r: io.MultiReader(bytes.NewReader(head), r), limit: s.maxBytes}
	if err := s.disk.Put(ctx, medium.Key(), body); err != nil {
		s.discard(ctx, medium)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("services: store %s: %w", medium.Key(), err)
	}
	medium.Size = body.n

	if err := orm.New(s.db).Create(ctx, medium); err != nil {
		s.discard(ctx, medium)
		return nil, fmt.Errorf("services: create medium: %w", err)
	}

	metrics.MediaUploads.WithLabelValues(medium.Disk, medium.Type()).Inc()
	if err := event.Fire(ctx, EventMediumStored, medium); err != nil {
		logger.WithCtx(ctx).Warn("media listeners failed", "medium_id", medium.ID, "error", err)
	}
	return medium, nil
}

// Delete removes the medium's row and its file.
func (s *MediaService) Delete(ctx context.Context, id uint) error {
	var medium models.Medium
	if err := orm.New(s.db).Find(ctx, &medium, id); err != nil {
		return err
	}
	if err := orm.New(s.db).Delete(ctx, &medium); err != nil {
		return fmt.Errorf("services: delete medium %d: %w", id, err)
	}
	s.discard(ctx, &medium)
	return nil
}

func (s *MediaService) discard(ctx context.Context, m *models.Medium) {
	if err := s.disk.Delete(context.WithoutCancel(ctx), m.Key()); err != nil {
		logger.WithCtx(ctx).Warn("could not remove stored file", "key", m.Key(), "error", err)
	}
}

// countingReader counts bytes read and fails once limit is passed.
type countingReader struct {
	r     io.Reader
	n     int64
	limit int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit > 0 && c.n > c.limit {
		return n, ErrFileTooLarge
	}
	return n, err
}

func displayName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return "upload"
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// fileName keeps the client's base name, sanitised, and makes sure it ends
// with an extension.
func fileName(name, ext string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, base)
	clean = strings.Trim(clean, ".")
	if clean == "" {
		clean = "upload"
	}
	if path.Ext(clean) == "" {
		clean += ext
	}
	return clean
}
