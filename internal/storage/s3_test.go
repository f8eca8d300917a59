package storage

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
)

type fakeObjects struct {
	mu         sync.Mutex
	buckets    map[string]bool
	objects    map[string][]byte
	existsErr  error
	putErr     error
	readErr    error
	madeBucket int
	putType    string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeObjects) BucketExists(_ context.Context, bucket string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[bucket], f.existsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucket] = true
	f.madeBucket++
	return nil
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = data
	f.putType = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeObjects) ReadObject(_ context.Context, bucket, key string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return data, nil
}

func TestNewS3Store_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  S3Config
	}{
		{"missing endpoint", S3Config{AccessKey: "a", SecretKey: "b", Bucket: "c"}},
		{"missing keys", S3Config{Endpoint: "localhost:9000", Bucket: "c"}},
		{"missing bucket", S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewS3Store(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewS3Store() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewS3Store_Defaults(t *testing.T) {
	t.Parallel()

	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "profiles"})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}
	if s.Location() != "profiles/"+DefaultS3Key {
		t.Errorf("Location() = %q", s.Location())
	}
	if s.region != "us-east-1" {
		t.Errorf("region = %q, want us-east-1", s.region)
	}
}

func TestS3Store_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeObjects()
	s := newS3Store(fake, "profiles", "/acme/data.md", "eu-west-1")

	if _, err := s.ReadText(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadText() before write error = %v, want ErrNotFound", err)
	}
	if err := s.WriteText(ctx, "# acme\n"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	got, err := s.ReadText(ctx)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "# acme\n" {
		t.Errorf("ReadText() = %q", got)
	}
	if _, ok := fake.objects["profiles/acme/data.md"]; !ok {
		t.Errorf("object key not normalized: %v", fake.objects)
	}
	if fake.madeBucket != 1 {
		t.Errorf("MakeBucket called %d times, want 1", fake.madeBucket)
	}
	if fake.putType != "text/markdown; charset=utf-8" {
		t.Errorf("content type = %q", fake.putType)
	}
}

func TestS3Store_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("bucket check failure", func(t *testing.T) {
		t.Parallel()
		fake := newFakeObjects()
		fake.existsErr = errors.New("connection refused")
		s := newS3Store(fake, "b", "", "")
		if _, err := s.ReadText(ctx); !errors.Is(err, ErrIO) {
			t.Errorf("ReadText() error = %v, want ErrIO", err)
		}
	})

	t.Run("put failure", func(t *testing.T) {
		t.Parallel()
		fake := newFakeObjects()
		fake.putErr = errors.New("access denied")
		s := newS3Store(fake, "b", "", "")
		if err := s.WriteText(ctx, "x"); !errors.Is(err, ErrIO) {
			t.Errorf("WriteText() error = %v, want ErrIO", err)
		}
	})

	t.Run("missing bucket maps to not found", func(t *testing.T) {
		t.Parallel()
		fake := newFakeObjects()
		fake.readErr = minio.ErrorResponse{Code: "NoSuchBucket"}
		s := newS3Store(fake, "b", "", "")
		if _, err := s.ReadText(ctx); !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadText() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("other read failure", func(t *testing.T) {
		t.Parallel()
		fake := newFakeObjects()
		fake.readErr = minio.ErrorResponse{Code: "AccessDenied"}
		s := newS3Store(fake, "b", "", "")
		if _, err := s.ReadText(ctx); !errors.Is(err, ErrIO) {
			t.Errorf("ReadText() error = %v, want ErrIO", err)
		}
	})
}
