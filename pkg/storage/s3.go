// Package storage puts user pictures in S3 compatible object storage (AWS S3, R2, MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
)

// Uploader stores and removes public objects
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL returned by Upload back to its object key
	KeyFromURL(rawURL string) (string, bool)
}

// S3Client is an Uploader backed by an S3 compatible bucket
type S3Client struct {
	client    *s3.Client
	bucket    string
	publicURL string // base URL objects are served from, without trailing slash
	basePath  string // prefix for every object key, without slashes at either end
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	BasePath        string
	ForcePathStyle  bool // true for MinIO/R2
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.ForcePathStyle,
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	c := &S3Client{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg),
		basePath:  strings.Trim(cfg.BasePath, "/"),
	}

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Str("public_url", c.publicURL).
		Msg("picture storage ready")
	return c, nil
}

// publicBase picks where objects are served from: CDN, then custom endpoint, then AWS
func publicBase(cfg S3Config) string {
	switch {
	case cfg.CDNURL != "":
		return strings.TrimRight(cfg.CDNURL, "/")
	case cfg.Endpoint != "" && cfg.ForcePathStyle:
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
}

// UploadResult contains the result of a file upload
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func (c *S3Client) fullKey(key string) string {
	if c.basePath == "" {
		return key
	}
	return c.basePath + "/" + key
}

// Upload stores body under key as a publicly cacheable object
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	fullKey := c.fullKey(key)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(fullKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", fullKey, err)
	}

	return &UploadResult{
		Key:         fullKey,
		URL:         c.PublicURL(fullKey),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Delete removes the object at key. Deleting a missing object is not an error.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL an object key is served from
func (c *S3Client) PublicURL(key string) string {
	return c.publicURL + "/" + key
}

// KeyFromURL reports the object key of a URL produced by PublicURL.
// URLs pointing anywhere else are rejected so foreign objects are never deleted.
func (c *S3Client) KeyFromURL(rawURL string) (string, bool) {
	prefix := c.publicURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, prefix))
	if err != nil || key == "" {
		return "", false
	}
	if c.basePath != "" && !strings.HasPrefix(key, c.basePath+"/") {
		return "", false
	}
	return key, true
}

// GenerateKey creates a unique storage key under prefix, keeping the file extension
func GenerateKey(prefix, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d/%02d/%s%s",
		prefix, now.Year(), now.Month(), uuid.NewString(), ext)
}
