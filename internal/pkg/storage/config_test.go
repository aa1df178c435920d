package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarObjectKey(t *testing.T) {
	cfg := &Config{BucketName: "study-assets"}
	assert.Equal(t, "avatars/42.jpg", cfg.AvatarObjectKey(42))
}

func TestPublicURL(t *testing.T) {
	cfg := &Config{BucketName: "study-assets", Region: "ap-south-1"}
	assert.Equal(t,
		"https://study-assets.s3.ap-south-1.amazonaws.com/avatars/1.jpg",
		cfg.PublicURL("avatars/1.jpg"))

	cfg.EndpointURL = "https://minio.local:9000"
	assert.Equal(t,
		"https://minio.local:9000/study-assets/avatars/1.jpg",
		cfg.PublicURL("avatars/1.jpg"))

	cfg.PublicBaseURL = "https://cdn.example.com"
	assert.Equal(t,
		"https://cdn.example.com/avatars/1.jpg",
		cfg.PublicURL("avatars/1.jpg"))
}

func TestLoadConfigValidation(t *testing.T) {
	cfg := &Config{Enabled: false}
	assert.False(t, cfg.IsEnabled())
}
