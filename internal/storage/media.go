package storage

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStore removes media objects when their owning story or publication is
// deleted. Backed by a MinIO/S3 bucket; a nil client makes removal a no-op so
// environments without object storage still work.
type MediaStore struct {
	client *minio.Client
	bucket string
}

// NewMediaStore connects to MinIO with the given static credentials. Returns
// a disabled store when endpoint is empty.
func NewMediaStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MediaStore, error) {
	if endpoint == "" {
		log.Println("Media store disabled: no MINIO_ENDPOINT set")
		return &MediaStore{}, nil
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MediaStore{client: client, bucket: bucket}, nil
}

// Remove deletes the object referenced by a stored media URL. Removal is
// best-effort cleanup; callers log failures and move on.
func (s *MediaStore) Remove(ctx context.Context, mediaURL string) error {
	if s.client == nil || mediaURL == "" {
		return nil
	}
	object := objectName(mediaURL, s.bucket)
	if object == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{})
}

// objectName extracts the bucket-relative object key from a media URL.
func objectName(mediaURL, bucket string) string {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	// URLs are either bucket-prefixed (host/bucket/key) or plain keys.
	if rest, ok := strings.CutPrefix(path, bucket+"/"); ok {
		return rest
	}
	return path
}
