package index

import (
	"context"
	"log/slog"
)

// Options configures the behaviour shared by all backends.
type Options struct {
	// Logger receives load and query diagnostics. Nil discards them.
	Logger *slog.Logger

	// Trace, if set, is called for every score a backend computes.
	Trace TraceFunc

	// EmbedBatchSize is the number of texts per embedder call during Load.
	EmbedBatchSize int

	// EmbedConcurrency bounds the number of in-flight embedder calls.
	EmbedConcurrency int

	// EmbedRate limits embedder calls per second. Zero means unlimited.
	EmbedRate float64
}

// DefaultOptions contains the default configuration.
var DefaultOptions = Options{
	EmbedBatchSize:   64,
	EmbedConcurrency: 4,
}

// ApplyOptions returns DefaultOptions with optFns applied and defaults
// restored for unset fields.
func ApplyOptions(optFns ...func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.EmbedBatchSize <= 0 {
		opts.EmbedBatchSize = DefaultOptions.EmbedBatchSize
	}
	if opts.EmbedConcurrency <= 0 {
		opts.EmbedConcurrency = DefaultOptions.EmbedConcurrency
	}

	return opts
}

// Emit sends ev to the trace hook if one is configured.
func (o *Options) Emit(ctx context.Context, ev TraceEvent) {
	if o.Trace != nil {
		o.Trace(ctx, ev)
	}
}
