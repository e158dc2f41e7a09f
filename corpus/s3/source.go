package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/vecsim/corpus"
)

// Client is the subset of the S3 API the source needs.
type Client interface {
	manager.DownloadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// DownloadConfig tunes the parallel downloader.
type DownloadConfig struct {
	// PartSize is the byte range fetched per request.
	// Default: 8MB
	PartSize int64

	// Concurrency is the number of parallel range requests.
	// Default: 5 (matches SDK default)
	Concurrency int
}

// DefaultDownloadConfig returns the default downloader settings.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		PartSize:    8 * 1024 * 1024,
		Concurrency: 5,
	}
}

// Source implements corpus.Source for S3.
type Source struct {
	client     Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

var _ corpus.Source = (*Source)(nil)

// NewSource creates a new S3 corpus source.
// rootPrefix is prepended to all keys (e.g. "corpora/").
func NewSource(client Client, bucket, rootPrefix string, optFns ...func(c *DownloadConfig)) *Source {
	cfg := DefaultDownloadConfig()
	for _, fn := range optFns {
		fn(&cfg)
	}

	return &Source{
		client: client,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.PartSize = cfg.PartSize
			d.Concurrency = cfg.Concurrency
		}),
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open downloads the object into memory and returns a reader over it.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, aws.ToInt64(head.ContentLength)))
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, mapError(err)
	}

	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

func mapError(err error) error {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return corpus.ErrNotFound
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return corpus.ErrNotFound
	}
	return err
}
