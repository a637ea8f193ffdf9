package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotPrefix is the object key prefix for primary store snapshots
const SnapshotPrefix = "turismo/"

// SnapshotService copies primary store snapshots to S3-compatible storage
type SnapshotService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// UploadResult contains information about an uploaded snapshot
type UploadResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
	ETag   string `json:"etag"`
}

// NewSnapshotService creates a new S3 snapshot service
func NewSnapshotService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*SnapshotService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &SnapshotService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// SnapshotKey names a snapshot taken at t
func SnapshotKey(t time.Time) string {
	return SnapshotPrefix + t.UTC().Format("20060102T150405.000000000Z") + ".json"
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *SnapshotService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores a snapshot under key
func (s *SnapshotService) Upload(ctx context.Context, key string, reader io.Reader, size int64) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return &UploadResult{
		Bucket: info.Bucket,
		Key:    info.Key,
		Size:   info.Size,
		ETag:   info.ETag,
	}, nil
}

// List returns snapshot keys under prefix, oldest first
func (s *SnapshotService) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetPresignedURL generates a presigned URL for downloading a snapshot
func (s *SnapshotService) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// GetBucketName returns the bucket name
func (s *SnapshotService) GetBucketName() string {
	return s.bucketName
}
