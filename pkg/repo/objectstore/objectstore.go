package objectstore

import (
	"context"
	"fmt"

	"github.com/scienceol/chemdb/internal/config"
	"github.com/scienceol/chemdb/pkg/repo"
)

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, conf *config.Storage) (repo.ObjectStore, error) {
	switch conf.Driver {
	case config.StorageMemory:
		return NewMemory(conf.Bucket), nil
	case config.StorageS3, "":
		return NewS3(ctx, &S3Config{
			Endpoint:  conf.Endpoint,
			Region:    conf.Region,
			Bucket:    conf.Bucket,
			AccessKey: conf.AccessKey,
			SecretKey: conf.SecretKey,
			PathStyle: conf.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Driver)
	}
}
