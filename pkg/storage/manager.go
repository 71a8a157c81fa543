package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/bazar/config"
	"github.com/shashiranjanraj/bazar/pkg/logger"
)

var (
	mu    sync.RWMutex
	disks = map[string]Disk{}
)

// Connect registers the local disk and, when S3_BUCKET is set, the s3 disk.
func Connect(ctx context.Context) {
	RegisterDisk("local", NewLocalDisk(
		config.Get("STORAGE_LOCAL_ROOT", "storage"),
		config.Get("STORAGE_URL", "http://localhost:8080/storage"),
	))

	if config.Get("S3_BUCKET", "") == "" {
		return
	}
	d, err := NewS3Disk(ctx, S3Config{
		Bucket:   config.Get("S3_BUCKET", ""),
		Region:   config.Get("S3_REGION", "us-east-1"),
		Key:      config.Get("S3_KEY", ""),
		Secret:   config.Get("S3_SECRET", ""),
		Endpoint: config.Get("S3_ENDPOINT", ""),
		URL:      config.Get("S3_URL", ""),
	})
	if err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
		return
	}
	RegisterDisk("s3", d)
}

// RegisterDisk installs d under name, replacing any previous disk.
func RegisterDisk(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}
