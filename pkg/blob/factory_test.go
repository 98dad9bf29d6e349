package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linmei/hearthside/pkg/config"
)

func TestNewStore_UnsupportedBackend(t *testing.T) {
	_, err := NewStore(context.Background(), config.StoreConfig{
		Backend: "ftp",
		Bucket:  "content",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestNewStore_DefaultBackendRequiresBucket(t *testing.T) {
	// Backend unset defaults to s3, which rejects a missing bucket
	// before touching any network.
	_, err := NewStore(context.Background(), config.StoreConfig{})
	assert.Error(t, err)
}
