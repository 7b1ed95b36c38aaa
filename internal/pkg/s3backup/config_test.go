package s3backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresCredentialsWhenEnabled(t *testing.T) {
	t.Setenv("S3_BACKUP_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY_ID", "")

	_, err := LoadConfig()
	assert.EqualError(t, err, "S3_ACCESS_KEY_ID is required when S3 backup is enabled")
}

func TestDisabledBackup(t *testing.T) {
	t.Setenv("S3_BACKUP_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Nil(t, Setup(context.Background()))

	_, err = NewClient(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestObjectKey(t *testing.T) {
	cfg := &Config{Prefix: "media"}
	assert.Equal(t, "media/house_images/a.jpg", cfg.ObjectKey("house_images/a.jpg"))
	assert.Equal(t, "media/houses/b.png", cfg.ObjectKey("/houses/b.png"))

	cfg.Prefix = ""
	assert.Equal(t, "houses/b.png", cfg.ObjectKey("houses/b.png"))
	assert.Equal(t, "image/webp", getContentType(".WEBP"))
}
