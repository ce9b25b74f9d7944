package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	a := GenerateKey("contacts/pictures", "Portrait.JPG", now)
	b := GenerateKey("contacts/pictures", "Portrait.JPG", now)

	assert.True(t, strings.HasPrefix(a, "contacts/pictures/2024/03/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws", S3Config{Bucket: "prm-media", Region: "us-east-1"}, "https://prm-media.s3.amazonaws.com/a/b.png"},
		{"cdn", S3Config{Bucket: "prm-media", Region: "us-east-1", CDNURL: "https://cdn.example.com/"}, "https://cdn.example.com/a/b.png"},
		{"minio", S3Config{Bucket: "prm-media", Region: "us-east-1", Endpoint: "http://localhost:9000/", ForcePathStyle: true}, "http://localhost:9000/prm-media/a/b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewS3Client(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.PublicURL("a/b.png"))
		})
	}

	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	c, err := NewS3Client(S3Config{Bucket: "prm-media", Region: "us-east-1", CDNURL: "https://cdn.example.com", BasePath: "/pictures/"})
	require.NoError(t, err)

	key, ok := c.KeyFromURL(c.PublicURL(c.fullKey("users/pictures/2024/03/x.png")))
	require.True(t, ok)
	assert.Equal(t, "pictures/users/pictures/2024/03/x.png", key)

	for _, foreign := range []string{
		"",
		"https://elsewhere.example.com/pictures/x.png",
		"https://cdn.example.com/other/x.png",
		"https://cdn.example.com/",
	} {
		_, ok := c.KeyFromURL(foreign)
		assert.False(t, ok, foreign)
	}
}
