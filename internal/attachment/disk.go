package attachment

import (
	"complaintdesk/backend/internal/config"
	"context"
	"fmt"
	"io"
)

// Disk stores attachment files by path.
type Disk interface {
	Name() string
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, path string) error
}

// NewDisk returns the disk selected by cfg.StorageDisk.
func NewDisk(ctx context.Context, cfg *config.Config) (Disk, error) {
	switch cfg.StorageDisk {
	case "local", "":
		return &LocalDisk{Root: cfg.StorageRoot}, nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 disk requires S3_BUCKET")
		}
		return NewS3Disk(ctx, cfg.AWSRegion, cfg.AWSEndpointURL, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unsupported storage disk %q", cfg.StorageDisk)
	}
}
