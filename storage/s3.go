package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"simpleTwitter/domain"
)

// S3Config configures an S3-compatible object store.
// PublicURL is the base under which stored objects are reachable by clients.
// If it is empty, objects are addressed through the endpoint itself.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

// S3Host stores images in a bucket of an S3-compatible object store, such as MinIO.
// It implements the domain.ImageHost interface.
type S3Host struct {
	cfg    S3Config
	client *minio.Client
}

var _ domain.ImageHost = &S3Host{}

// NewS3Host returns an S3Host connected to the configured endpoint.
func NewS3Host(cfg S3Config) (*S3Host, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	cfg.Endpoint = endpoint
	return &S3Host{cfg: cfg, client: client}, nil
}

// EnsureBucket creates the configured bucket unless it already exists.
func (h *S3Host) EnsureBucket(ctx context.Context) error {
	exists, err := h.client.BucketExists(ctx, h.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", h.cfg.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := h.client.MakeBucket(ctx, h.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", h.cfg.Bucket, err)
	}
	return nil
}

// Put uploads the object and returns its public URL.
func (h *S3Host) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	_, err := h.client.PutObject(ctx, h.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return h.cfg.URL(key), nil
}

// Remove deletes the object. Removing a missing object is not an error.
func (h *S3Host) Remove(ctx context.Context, key string) error {
	return h.client.RemoveObject(ctx, h.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// URL returns the public URL of the object stored under key.
func (c S3Config) URL(key string) string {
	base := strings.TrimRight(c.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if c.UseSSL {
			scheme = "https"
		}
		endpoint := strings.TrimPrefix(strings.TrimPrefix(c.Endpoint, "http://"), "https://")
		base = fmt.Sprintf("%s://%s/%s", scheme, endpoint, c.Bucket)
	}
	return base + "/" + strings.TrimLeft(key, "/")
}
