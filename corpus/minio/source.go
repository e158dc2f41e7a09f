package minio

import (
	"context"
	"io"
	"path"

	"github.com/hupe1980/vecsim/corpus"
	"github.com/minio/minio-go/v7"
)

// Source implements corpus.Source for MinIO and S3-compatible storage.
type Source struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ corpus.Source = (*Source)(nil)

// NewSource creates a new MinIO corpus source.
// rootPrefix is prepended to all keys (e.g. "corpora/").
func NewSource(client *minio.Client, bucket, rootPrefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open streams the object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	// Stat first so a missing key fails here instead of on the first Read.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, mapError(err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	return obj, nil
}

func mapError(err error) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
		return corpus.ErrNotFound
	}
	return err
}
