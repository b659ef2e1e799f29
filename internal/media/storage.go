package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Store uploads processed photos to an S3 compatible bucket.
type Store struct {
	client    S3API
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewStore(client S3API, bucket, publicURL string) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// NewS3Client builds a path-style client with static credentials, which
// works for AWS as well as MinIO/R2 style endpoints.
func NewS3Client(cfg StorageConfig) *s3.Client {
	return s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		BaseEndpoint: endpoint(cfg.Endpoint),
		UsePathStyle: cfg.Endpoint != "",
	})
}

func endpoint(ep string) *string {
	if ep == "" {
		return nil
	}
	return aws.String(ep)
}

// PhotoKey is versioned by upload time so clients never see a cached old photo.
func (s *Store) PhotoKey(profileID uint) string {
	return fmt.Sprintf("profiles/%d/photo-%d.webp", profileID, s.now().Unix())
}

// PutPhoto stores a WebP photo and returns its public URL.
func (s *Store) PutPhoto(ctx context.Context, profileID uint, data []byte) (string, error) {
	key := s.PhotoKey(profileID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 put %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}
