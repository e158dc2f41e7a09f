package index

import (
	"fmt"
	"slices"

	"github.com/hupe1980/vecsim/distance"
)

// Corpus is an immutable snapshot of a backend's documents. Backends build
// the next snapshot off to the side and swap it in only when everything
// succeeded.
type Corpus struct {
	Docs []Document
	Dim  int
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.Docs)
}

// Append returns a new corpus holding c's documents followed by texts. All
// vectors must match the corpus dimension; an empty corpus adopts the
// dimension of the first vector.
func (c *Corpus) Append(texts []string, vecs [][]float32) (*Corpus, error) {
	if len(texts) != len(vecs) {
		return nil, fmt.Errorf("%w: %d texts but %d vectors", ErrInvalidParameter, len(texts), len(vecs))
	}

	dim := c.Dim
	if len(c.Docs) == 0 && len(vecs) > 0 {
		dim = len(vecs[0])
	}
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("text %d: %w", i, &distance.DimensionError{Expected: dim, Actual: len(v)})
		}
	}

	docs := make([]Document, 0, len(c.Docs)+len(texts))
	docs = append(docs, c.Docs...)
	for i, t := range texts {
		docs = append(docs, Document{Text: t, Embedding: vecs[i]})
	}

	return &Corpus{Docs: docs, Dim: dim}, nil
}

// Embeddings returns the document vectors in order.
func (c *Corpus) Embeddings() [][]float32 {
	out := make([][]float32, len(c.Docs))
	for i, d := range c.Docs {
		out[i] = d.Embedding
	}
	return out
}

// Result returns a copy of document i carrying score.
func (c *Corpus) Result(i int, score float32) Document {
	d := c.Docs[i]
	return Document{Text: d.Text, Embedding: slices.Clone(d.Embedding), Score: score}
}

// CheckQuery validates the length of a query vector.
func (c *Corpus) CheckQuery(q []float32) error {
	if len(q) != c.Dim {
		return &distance.DimensionError{Expected: c.Dim, Actual: len(q)}
	}
	return nil
}

// CheckN validates a result count.
func CheckN(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidParameter, n)
	}
	return nil
}

// Scored pairs a document position with its score.
type Scored struct {
	Pos   int
	Score float32
}

// TopN orders scored by ascending score and returns the first n as
// documents. Equal scores keep insertion order.
func (c *Corpus) TopN(scored []Scored, n int) []Document {
	slices.SortStableFunc(scored, func(a, b Scored) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		default:
			return a.Pos - b.Pos
		}
	})

	scored = scored[:min(n, len(scored))]
	out := make([]Document, len(scored))
	for i, s := range scored {
		out[i] = c.Result(s.Pos, s.Score)
	}
	return out
}
