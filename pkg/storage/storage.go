// Package storage stores uploaded files on a "disk": the local filesystem
// (default) or S3-compatible object storage (AWS S3, MinIO, R2, Spaces).
//
//	disk, err := storage.Open(ctx, storage.ConfigFromEnv())
//	err = disk.Put(ctx, "images/dal.jpg", file, "image/jpeg")
//	url := disk.URL("images/dal.jpg")
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/hostelmania/server/config"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
	Name() string
}

// Config selects and configures a disk.
type Config struct {
	Disk string // "local" or "s3"

	LocalRoot string
	LocalURL  string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string // empty for AWS
	S3URL      string
}

// ConfigFromEnv reads the STORAGE_* and S3_* settings.
func ConfigFromEnv() Config {
	return Config{
		Disk:       config.StorageDisk(),
		LocalRoot:  config.StorageLocalRoot(),
		LocalURL:   config.StorageURL(),
		S3Bucket:   config.StorageS3Bucket(),
		S3Region:   config.StorageS3Region(),
		S3Key:      config.StorageS3Key(),
		S3Secret:   config.StorageS3Secret(),
		S3Endpoint: config.StorageS3Endpoint(),
		S3URL:      config.StorageS3URL(),
	}
}

// Open builds the disk named by cfg.Disk.
func Open(ctx context.Context, cfg Config) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.LocalURL)
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", cfg.Disk)
	}
}
