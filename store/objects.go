package store

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
)

// ObjectStore is the slice of object storage the generation workflow needs:
// a single write of an immutable cover image under a caller-chosen key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type minioObjectStore struct {
	client *minio.Client
	bucket string
}

func NewMinioObjectStore(client *minio.Client, bucket string) ObjectStore {
	return &minioObjectStore{
		client: client,
		bucket: bucket,
	}
}

func (os *minioObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := os.client.PutObject(ctx, os.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})

	return err
}
