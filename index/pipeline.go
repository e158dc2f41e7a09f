package index

import (
	"context"
	"fmt"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/embed"
	"github.com/hupe1980/vecsim/internal/resource"
	"golang.org/x/sync/errgroup"
)

// Pipeline embeds texts for a backend. Load batches are split and embedded
// concurrently under the configured concurrency and rate limits.
type Pipeline struct {
	embedder  embed.Embedder
	batchSize int
	rc        *resource.Controller
}

// NewPipeline creates a pipeline around e.
func NewPipeline(e embed.Embedder, opts Options) *Pipeline {
	return &Pipeline{
		embedder:  e,
		batchSize: max(opts.EmbedBatchSize, 1),
		rc: resource.NewController(resource.Config{
			MaxConcurrent:     int64(max(opts.EmbedConcurrency, 1)),
			RequestsPerSecond: opts.EmbedRate,
		}),
	}
}

// Texts embeds every text exactly once and checks that all vectors share one
// non-zero length. Embedder failures wrap ErrEmbedding.
func (p *Pipeline) Texts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.rc.MaxConcurrent())

	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))

		eg.Go(func() error {
			if err := p.rc.Acquire(egCtx); err != nil {
				return err
			}
			defer p.rc.Release()

			vecs, err := p.embedder.EmbedBatch(egCtx, texts[start:end])
			if err != nil {
				return fmt.Errorf("%w: %w", ErrEmbedding, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbedding, len(vecs), end-start)
			}
			copy(out[start:end], vecs)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if len(out) > 0 {
		dim := len(out[0])
		if dim == 0 {
			return nil, fmt.Errorf("%w: empty embedding", ErrEmbedding)
		}
		for i, v := range out {
			if len(v) != dim {
				return nil, fmt.Errorf("text %d: %w", i, &distance.DimensionError{Expected: dim, Actual: len(v)})
			}
		}
	}

	return out, nil
}

// Query embeds a single query text. Embedder failures wrap ErrEmbedding.
func (p *Pipeline) Query(ctx context.Context, text string) ([]float32, error) {
	if err := p.rc.Acquire(ctx); err != nil {
		return nil, err
	}
	defer p.rc.Release()

	v, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	return v, nil
}
