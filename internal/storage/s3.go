package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultS3Key is the object name used when none is configured.
const DefaultS3Key = "data.md"

// S3Config locates the document in an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	UseSSL    bool
}

// objectClient is the slice of the minio client the store uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// minioClient adapts *minio.Client to objectClient.
type minioClient struct {
	*minio.Client
}

// ReadObject downloads a whole object. minio resolves GetObject lazily, so
// a missing key only surfaces on the first read.
func (c minioClient) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := c.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// S3Store keeps the document as one object. The bucket is created on
// first use when missing.
type S3Store struct {
	client objectClient
	bucket string
	key    string
	region string

	initOnce sync.Once
	initErr  error
}

// NewS3Store validates cfg and creates the minio client.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: s3 endpoint is required", ErrInvalidConfig)
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("%w: s3 access key and secret key are required", ErrInvalidConfig)
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", ErrInvalidConfig)
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: init s3 client: %v", ErrInvalidConfig, err)
	}
	return newS3Store(minioClient{client}, bucket, cfg.Key, region), nil
}

func newS3Store(client objectClient, bucket, key, region string) *S3Store {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		key = DefaultS3Key
	}
	return &S3Store{client: client, bucket: bucket, key: key, region: region}
}

// Location returns "bucket/key".
func (s *S3Store) Location() string { return s.bucket + "/" + s.key }

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// ReadText implements Store.
func (s *S3Store) ReadText(ctx context.Context) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("%w: ensure bucket: %v", ErrIO, err)
	}
	data, err := s.client.ReadObject(ctx, s.bucket, s.key)
	if err != nil {
		return "", mapS3Error(err, s.Location())
	}
	return string(data), nil
}

// WriteText implements Store.
func (s *S3Store) WriteText(ctx context.Context, text string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("%w: ensure bucket: %v", ErrIO, err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader([]byte(text)), int64(len(text)), minio.PutObjectOptions{
		ContentType: "text/markdown; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrIO, s.Location(), err)
	}
	return nil
}

// mapS3Error turns missing-object responses into ErrNotFound.
func mapS3Error(err error, location string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return fmt.Errorf("%w: get %s: %v", ErrIO, location, err)
}
