package vecsim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/vecsim/corpus"
	"github.com/hupe1980/vecsim/embed"
	"github.com/hupe1980/vecsim/hnsw"
	"github.com/hupe1980/vecsim/index"
	"github.com/hupe1980/vecsim/index/flat"
	hnswidx "github.com/hupe1980/vecsim/index/hnsw"
	"github.com/hupe1980/vecsim/index/lsh"
)

// Document is a stored text with its embedding. Score is set on query
// results.
type Document = index.Document

// Kind identifies a backend variant.
type Kind = index.Kind

// Backend variants.
const (
	KindCosine     = index.KindCosine
	KindEuclidean  = index.KindEuclidean
	KindHnswL2     = index.KindHnswL2
	KindHnswCosine = index.KindHnswCosine
	KindHnswDot    = index.KindHnswDot
	KindHnswL1     = index.KindHnswL1
	KindLSH        = index.KindLSH
)

// Index is a similarity index over one backend variant.
type Index struct {
	id      uuid.UUID
	kind    Kind
	backend index.Backend

	logger  *Logger
	metrics MetricsCollector
}

// New creates an index for selector. Unknown selectors fall back to Cosine
// with a warning, or fail with ErrUnknownBackend under WithStrictBackend.
func New(selector string, e embed.Embedder, optFns ...Option) (*Index, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil embedder", ErrInvalidParameter)
	}

	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	kind, ok := index.ParseKind(selector)
	if !ok {
		if o.strict {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, selector)
		}
		o.logger.LogFallback(context.Background(), selector, kind.String())
	}

	id := uuid.New()
	logger := o.logger.WithIndex(id.String(), kind.String())

	backend, err := newBackend(kind, e, &o, logger)
	if err != nil {
		return nil, translateError(err)
	}

	return &Index{
		id:      id,
		kind:    kind,
		backend: backend,
		logger:  logger,
		metrics: o.metricsCollector,
	}, nil
}

// newBackend constructs the state for kind. Every Kind must have a case.
func newBackend(kind Kind, e embed.Embedder, o *options, l *Logger) (index.Backend, error) {
	base := o.indexOptions(l)

	switch kind {
	case KindCosine, KindEuclidean:
		return flat.New(kind, e, func(fo *index.Options) { *fo = base })
	case KindHnswL2, KindHnswCosine, KindHnswDot, KindHnswL1:
		fns := append([]func(*hnswidx.Options){func(ho *hnswidx.Options) { ho.Options = base }}, o.hnswOptions...)
		return hnswidx.New(kind, e, fns...)
	case KindLSH:
		fns := append([]func(*lsh.Options){func(lo *lsh.Options) { lo.Options = base }}, o.lshOptions...)
		return lsh.New(e, fns...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}
}

// ID identifies this index instance in logs.
func (x *Index) ID() uuid.UUID {
	return x.id
}

// Kind returns the backend variant in use.
func (x *Index) Kind() Kind {
	return x.kind
}

// Len returns the number of stored documents.
func (x *Index) Len() int {
	return x.backend.Len()
}

// Load embeds texts and adds them to the index. On error the index is
// unchanged.
func (x *Index) Load(ctx context.Context, texts []string) error {
	start := time.Now()
	err := translateError(x.backend.Load(ctx, texts))
	elapsed := time.Since(start)

	x.metrics.RecordLoad(len(texts), elapsed, err)
	x.logger.LogLoad(ctx, len(texts), x.backend.Len(), elapsed, err)

	return err
}

// LoadCorpus reads name from src one document per line and loads it.
func (x *Index) LoadCorpus(ctx context.Context, src corpus.Source, name string) error {
	texts, err := corpus.ReadLines(ctx, src, name)
	if err != nil {
		return err
	}
	return x.Load(ctx, texts)
}

// Query returns up to n documents closest to text, closest first. Asking
// for more documents than are stored returns all of them. An empty index
// returns an empty slice.
func (x *Index) Query(ctx context.Context, text string, n int) ([]Document, error) {
	start := time.Now()
	docs, err := x.backend.Query(ctx, text, n)
	err = translateError(err)
	elapsed := time.Since(start)

	x.metrics.RecordQuery(n, elapsed, err)
	x.logger.LogQuery(ctx, n, len(docs), elapsed, err)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// GraphStats describes the HNSW graph of a graph-backed index. ok is false
// for other backends.
func (x *Index) GraphStats() (stats hnsw.Stats, ok bool) {
	g, ok := x.backend.(*hnswidx.Index)
	if !ok {
		return hnsw.Stats{}, false
	}
	return g.Stats(), true
}

// Backends returns the selector strings New recognises.
func Backends() []string {
	kinds := index.Kinds()
	out := make([]string, 0, len(kinds)+len(index.Aliases()))
	for _, k := range kinds {
		out = append(out, k.String())
	}
	return append(out, index.Aliases()...)
}
