package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
)

// ErrNoVector is returned by MapEmbedder for unknown texts.
var ErrNoVector = errors.New("testutil: no vector for text")

// MapEmbedder returns fixed vectors from a lookup table.
type MapEmbedder struct {
	vectors map[string][]float32
	dim     int
	calls   atomic.Int64

	// Err, if set, is returned by every call.
	Err error
}

// NewMapEmbedder creates an embedder serving vectors. The dimension is taken
// from an arbitrary entry.
func NewMapEmbedder(vectors map[string][]float32) *MapEmbedder {
	e := &MapEmbedder{vectors: make(map[string][]float32, len(vectors))}
	for k, v := range vectors {
		e.vectors[k] = slices.Clone(v)
		e.dim = len(v)
	}
	return e
}

// Set adds or replaces the vector for text. Not safe for use concurrently
// with embedding calls.
func (e *MapEmbedder) Set(text string, v []float32) {
	e.vectors[text] = slices.Clone(v)
}

// Calls returns the number of Embed and EmbedBatch calls made.
func (e *MapEmbedder) Calls() int64 {
	return e.calls.Load()
}

func (e *MapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	return e.lookup(text)
}

func (e *MapEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)

	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := e.lookup(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *MapEmbedder) Dimension() int {
	return e.dim
}

func (e *MapEmbedder) lookup(text string) ([]float32, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	v, ok := e.vectors[text]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoVector, text)
	}
	return slices.Clone(v), nil
}

// VectorTexts names vecs as "doc-0", "doc-1", ... and returns the names
// together with a table mapping each name to its vector.
func VectorTexts(vecs [][]float32) ([]string, map[string][]float32) {
	texts := make([]string, len(vecs))
	table := make(map[string][]float32, len(vecs))
	for i, v := range vecs {
		texts[i] = fmt.Sprintf("doc-%d", i)
		table[texts[i]] = v
	}
	return texts, table
}
