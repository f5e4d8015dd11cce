package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

// GCSStore keeps images as objects in a Cloud Storage bucket. Object names
// match the public image path, so /images/<name> can redirect to PublicURL.
type GCSStore struct {
	client *gcs.Client
	bucket string
	now    func() time.Time
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, now: time.Now}
}

func (s *GCSStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	objectPath := path.Join(PathPrefix, objectName(s.now(), filename))
	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *GCSStore) Delete(ctx context.Context, filePath string) error {
	if filePath == "" {
		return nil
	}
	name, err := nameFromPath(filePath)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(path.Join(PathPrefix, name)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

// PublicURL returns the public URL of a stored image path.
func (s *GCSStore) PublicURL(filePath string) (string, error) {
	name, err := nameFromPath(filePath)
	if err != nil {
		return "", err
	}
	return helpers.PublicURL(s.bucket, path.Join(PathPrefix, name)), nil
}

var _ ImageStore = (*GCSStore)(nil)
