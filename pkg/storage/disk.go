// Package storage stores uploaded files on named disks.
//
// Two drivers ship with the shop: "local" (a directory on the host) and
// "s3" (AWS S3 or any S3-compatible service such as MinIO or R2).
//
//	storage.Connect(ctx)
//	disk, _ := storage.Use("local")
//	disk.Put(ctx, "media/3f1c/photo.png", file)
//	url := disk.URL("media/3f1c/photo.png")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrFileNotFound is returned when a path does not exist on a disk.
var ErrFileNotFound = errors.New("storage: file not found")

// Disk is implemented by every driver. Paths are slash separated and
// relative to the disk root.
type Disk interface {
	Name() string
	Put(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Size(ctx context.Context, path string) (int64, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// ReadAll reads a whole file from d.
func ReadAll(ctx context.Context, d Disk, path string) ([]byte, error) {
	rc, err := d.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
