package vecsim

import (
	"github.com/hupe1980/vecsim/index"
	hnswidx "github.com/hupe1980/vecsim/index/hnsw"
	"github.com/hupe1980/vecsim/index/lsh"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	trace            index.TraceFunc
	strict           bool
	hnswOptions      []func(*hnswidx.Options)
	lshOptions       []func(*lsh.Options)
	embedBatchSize   int
	embedConcurrency int
	embedRate        float64
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		embedBatchSize:   index.DefaultOptions.EmbedBatchSize,
		embedConcurrency: index.DefaultOptions.EmbedConcurrency,
	}
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger. Nil restores the no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink. Nil restores the no-op
// collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithTrace installs a hook that sees every score a backend computes.
func WithTrace(fn index.TraceFunc) Option {
	return func(o *options) {
		o.trace = fn
	}
}

// WithStrictBackend makes New fail with ErrUnknownBackend instead of
// falling back to Cosine.
func WithStrictBackend() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithHNSWOptions tunes the graph backends.
//
// Example:
//
//	vecsim.New("Hnsw_Cosine", e, vecsim.WithHNSWOptions(func(o *hnsw.Options) {
//	    o.M = 32
//	    o.EFSearch = 128
//	}))
func WithHNSWOptions(fns ...func(*hnswidx.Options)) Option {
	return func(o *options) {
		o.hnswOptions = append(o.hnswOptions, fns...)
	}
}

// WithLSHOptions tunes the LSH backend.
func WithLSHOptions(fns ...func(*lsh.Options)) Option {
	return func(o *options) {
		o.lshOptions = append(o.lshOptions, fns...)
	}
}

// WithEmbedBatchSize sets the number of texts per embedder call during Load.
func WithEmbedBatchSize(n int) Option {
	return func(o *options) {
		o.embedBatchSize = n
	}
}

// WithEmbedConcurrency bounds the number of in-flight embedder calls.
func WithEmbedConcurrency(n int) Option {
	return func(o *options) {
		o.embedConcurrency = n
	}
}

// WithEmbedRate limits embedder calls per second. Zero means unlimited.
func WithEmbedRate(rps float64) Option {
	return func(o *options) {
		o.embedRate = rps
	}
}

func (o *options) indexOptions(l *Logger) index.Options {
	return index.ApplyOptions(func(opts *index.Options) {
		opts.Logger = l.Logger
		opts.Trace = o.trace
		opts.EmbedBatchSize = o.embedBatchSize
		opts.EmbedConcurrency = o.embedConcurrency
		opts.EmbedRate = o.embedRate
	})
}
