package services_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazar/app/models"
	"github.com/shashiranjanraj/bazar/app/services"
	"github.com/shashiranjanraj/bazar/internal/testdb"
	"github.com/shashiranjanraj/bazar/pkg/event"
	"github.com/shashiranjanraj/bazar/pkg/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestStoreSniffsAndSaves(t *testing.T) {
	t.Cleanup(event.Flush)
	db := testdb.Open(t)
	disk := storage.NewLocalDisk(t.TempDir(), "/storage")

	var fired *models.Medium
	event.Listen(services.EventMediumStored, func(_ context.Context, p interface{}) error {
		fired = p.(*models.Medium)
		return nil
	})

	data := pngBytes(t, 4, 3)
	svc := services.NewMediaService(db, disk, 1<<20)
	m, err := svc.Store(context.Background(), "My Photo.txt", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, "My Photo", m.Name)
	assert.Equal(t, "My-Photo.txt", m.FileName)
	assert.Equal(t, "local", m.Disk)
	assert.EqualValues(t, len(data), m.Size)
	assert.Same(t, m, fired)

	stored, err := storage.ReadAll(context.Background(), disk, m.Key())
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	var count int64
	db.Model(&models.Medium{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestStoreAddsExtension(t *testing.T) {
	db := testdb.Open(t)
	svc := services.NewMediaService(db, storage.NewLocalDisk(t.TempDir(), ""), 0)

	m, err := svc.Store(context.Background(), "scan", bytes.NewReader(pngBytes(t, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, "scan.png", m.FileName)
}

func TestStoreRejectsLargeFiles(t *testing.T) {
	db := testdb.Open(t)
	disk := storage.NewLocalDisk(t.TempDir(), "")
	svc := services.NewMediaService(db, disk, 10)

	_, err := svc.Store(context.Background(), "notes.txt", strings.NewReader(strings.Repeat("a", 64)))
	assert.ErrorIs(t, err, services.ErrFileTooLarge)

	var count int64
	db.Model(&models.Medium{}).Count(&count)
	assert.Zero(t, count)
}

func TestStoreRejectsEmptyFiles(t *testing.T) {
	db := testdb.Open(t)
	svc := services.NewMediaService(db, storage.NewLocalDisk(t.TempDir(), ""), 0)

	_, err := svc.Store(context.Background(), "empty.txt", strings.NewReader(""))
	assert.ErrorIs(t, err, services.ErrEmptyFile)
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	db := testdb.Open(t)
	disk := storage.NewLocalDisk(t.TempDir(), "")
	svc := services.NewMediaService(db, disk, 0)
	ctx := context.Background()

	m, err := svc.Store(ctx, "a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", m.MimeType)

	require.NoError(t, svc.Delete(ctx, m.ID))
	ok, err := disk.Exists(ctx, m.Key())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, svc.Delete(ctx, m.ID))
}
