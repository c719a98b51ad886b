package gallery

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// MinIOStore adapts minio.Client to the objectGateway interface. All keys are
// stored inside a single backing bucket; the per-account namespace lives in
// the key prefix, not in bucket topology.
type MinIOStore struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

// NewMinIOStore constructs an adapter over the given backing bucket.
func NewMinIOStore(client *minio.Client, bucket string, urlTTL time.Duration) *MinIOStore {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &MinIOStore{client: client, bucket: bucket, urlTTL: urlTTL}
}

// ListKeys enumerates every object key under the prefix. A prefix with no
// objects yields an empty slice, not an error.
func (s *MinIOStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects under %q: %w", prefix, translateMinIOError(object.Err))
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

// Put stores the object contents under the key.
func (s *MinIOStore) Put(ctx context.Context, key string, reader io.Reader, size int64, meta ObjectMetadata) error {
	opts := minio.PutObjectOptions{
		ContentType: meta.ContentType,
		UserMetadata: map[string]string{
			"uploaded-by":   meta.UploadedBy,
			"original-name": meta.OriginalName,
		},
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		return translateMinIOError(err)
	}
	return nil
}

// Stat fetches size and content type for the key.
func (s *MinIOStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, translateMinIOError(err)
	}
	return ObjectInfo{
		SizeBytes:    info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// AccessURL resolves a time-limited presigned GET URL for the key.
func (s *MinIOStore) AccessURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, nil)
	if err != nil {
		return "", translateMinIOError(err)
	}
	return u.String(), nil
}

// Remove deletes the object under the key.
func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return translateMinIOError(err)
	}
	return nil
}

func translateMinIOError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchObject", "NoSuchBucket":
		return fmt.Errorf("%w: %s", ErrObjectNotFound, resp.Key)
	case "AccessDenied":
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Key)
	default:
		return err
	}
}
