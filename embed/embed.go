// Package embed converts text into dense vectors.
//
// The indexes never compute embeddings themselves; they consume an
// [Embedder]. Three implementations are provided:
//
//   - [OpenAI] calls an OpenAI-compatible embeddings endpoint
//   - [Hashing] is a deterministic offline feature-hashing embedder
//   - [Cached] memoises any Embedder in an LRU
//
// # Quick Start
//
//	e := embed.NewOpenAI(os.Getenv("OPENAI_API_KEY"), embed.WithModel(embed.ModelOpenAI3Small))
//	vec, err := e.Embed(ctx, "hello world")
//
//	vecs, err := e.EmbedBatch(ctx, []string{"hello", "world"})
package embed

import (
	"context"
	"errors"
)

// Embedder converts text into dense float32 vectors.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for multiple texts, in order.
	// Implementations may split large batches into smaller calls.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

// Common errors.
var (
	// ErrEmptyInput is returned when the input text is empty.
	ErrEmptyInput = errors.New("embed: empty input")

	// ErrVectorCount is returned when a wrapped embedder returns a different
	// number of vectors than it was given texts.
	ErrVectorCount = errors.New("embed: vector count mismatch")
)
