package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveService keeps a copy of every uploaded import sheet in
// S3-compatible storage so a committed batch can be audited against the file
// it came from.
type ArchiveService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// NewArchiveService creates an archive backed by an S3-compatible endpoint
func NewArchiveService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &ArchiveService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the archive bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
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

// StoreImportFile uploads a raw import sheet and returns its archive key.
// Keys are grouped by upload date so old batches are easy to expire.
func (s *ArchiveService) StoreImportFile(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	key := path.Join(
		"imports",
		time.Now().UTC().Format("2006/01/02"),
		uuid.NewString()+"_"+path.Base(filename),
	)

	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive import file: %w", err)
	}

	return key, nil
}

// GetPresignedURL generates a presigned URL for downloading an archived file
func (s *ArchiveService) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// Delete removes an archived file
func (s *ArchiveService) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete archived file: %w", err)
	}

	return nil
}
