package blob

import (
	"context"
	"fmt"

	"github.com/linmei/hearthside/pkg/config"
)

// Backend selects the blob store implementation.
type Backend string

const (
	BackendS3  Backend = "s3"
	BackendGCS Backend = "gcs"
)

// NewStore creates a blob store for the configured bucket.
//
// cfg.Backend selects the implementation: "s3" (default, also covers R2
// and MinIO via the custom endpoint) or "gcs" (requires the gcp build
// tag). The value comes from the config loaded once at startup, not
// from the ambient environment.
func NewStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	backend := Backend(cfg.Backend)
	if backend == "" {
		backend = BackendS3
	}

	switch backend {
	case BackendS3:
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	case BackendGCS:
		return newGCSStore(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unsupported blob store backend: %s", backend)
	}
}
