// Package photos stores original and enhanced listing photos per tenant.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store persists image bytes under tenant-scoped keys.
type Store interface {
	Save(ctx context.Context, tenantID, label string, img []byte, contentType string) (key string, err error)
	Load(ctx context.Context, key string) ([]byte, error)
}

func objectKey(tenantID, label string) string {
	return fmt.Sprintf("photos/%s/%s-%s", tenantID, label, uuid.NewString())
}

// Minio stores photos in an S3-compatible bucket.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio connects to the object store and ensures the bucket exists.
func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &Minio{client: client, bucket: bucket}, nil
}

func (m *Minio) Save(ctx context.Context, tenantID, label string, img []byte, contentType string) (string, error) {
	key := objectKey(tenantID, label)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(img), int64(len(img)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store photo %s: %w", key, err)
	}
	return key, nil
}

func (m *Minio) Load(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("load photo %s: %w", key, err)
	}
	defer obj.Close()

	img, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read photo %s: %w", key, err)
	}
	return img, nil
}

// Memory keeps photos in process memory, for tests and deployments without
// an object store.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory photo store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, tenantID, label string, img []byte, _ string) (string, error) {
	key := objectKey(tenantID, label)
	cp := make([]byte, len(img))
	copy(cp, img)

	m.mu.Lock()
	m.data[key] = cp
	m.mu.Unlock()
	return key, nil
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("photo %s not found", key)
	}
	return img, nil
}
