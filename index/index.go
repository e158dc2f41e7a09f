package index

import (
	"context"
	"errors"
	"strings"

	"github.com/hupe1980/vecsim/distance"
)

// Document is a stored text and its embedding. Score is only set on query
// results.
type Document struct {
	Text      string
	Embedding []float32
	Score     float32
}

// Backend is a searchable document store.
//
// Load is exclusive; Query may run concurrently with other queries.
type Backend interface {
	// Load embeds texts and adds them to the backend.
	Load(ctx context.Context, texts []string) error

	// Query returns up to n documents closest to text, best first.
	Query(ctx context.Context, text string, n int) ([]Document, error)

	// Len returns the number of stored documents.
	Len() int

	// Kind identifies the backend variant.
	Kind() Kind
}

var (
	// ErrInvalidParameter is returned for out-of-range arguments.
	ErrInvalidParameter = errors.New("index: invalid parameter")

	// ErrEmbedding wraps failures reported by the embedder.
	ErrEmbedding = errors.New("index: embedding failed")

	// ErrUnknownBackend is returned for a selector that names no backend.
	ErrUnknownBackend = errors.New("index: unknown backend")

	// ErrDimensionMismatch is matched by dimension errors from every backend.
	ErrDimensionMismatch = distance.ErrDimensionMismatch
)

// Kind enumerates the backend variants.
type Kind int

const (
	KindCosine Kind = iota
	KindEuclidean
	KindHnswL2
	KindHnswCosine
	KindHnswDot
	KindHnswL1
	KindLSH
)

var kindNames = [...]string{
	KindCosine:     "Cosine",
	KindEuclidean:  "Euclidean",
	KindHnswL2:     "Hnsw_L2",
	KindHnswCosine: "Hnsw_Cosine",
	KindHnswDot:    "Hnsw_Dot",
	KindHnswL1:     "Hnsw_L1",
	KindLSH:        "LSH",
}

// Kinds returns every backend variant.
func Kinds() []Kind {
	return []Kind{KindCosine, KindEuclidean, KindHnswL2, KindHnswCosine, KindHnswDot, KindHnswL1, KindLSH}
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsGraph reports whether k is one of the HNSW variants.
func (k Kind) IsGraph() bool {
	switch k {
	case KindHnswL2, KindHnswCosine, KindHnswDot, KindHnswL1:
		return true
	default:
		return false
	}
}

// Metric returns the distance metric k scores with.
func (k Kind) Metric() distance.Metric {
	switch k {
	case KindEuclidean, KindHnswL2:
		return distance.MetricL2
	case KindHnswDot:
		return distance.MetricDot
	case KindHnswL1:
		return distance.MetricL1
	default:
		return distance.MetricCosine
	}
}

// kindAliases are extra selector names accepted by ParseKind.
var kindAliases = []struct {
	name string
	kind Kind
}{
	{"Hnsw", KindHnswL2},
	{"Hnsw_Euclidean", KindHnswL2},
}

// Aliases returns the alias selector names in a stable order.
func Aliases() []string {
	out := make([]string, len(kindAliases))
	for i, a := range kindAliases {
		out[i] = a.name
	}
	return out
}

// ParseKind maps a selector string to a Kind. "Hnsw" and "Hnsw_Euclidean"
// are aliases for "Hnsw_L2". Unknown selectors return (KindCosine, false).
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, a := range kindAliases {
		if a.name == s {
			return a.kind, true
		}
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindCosine, false
}

// TraceEvent describes one computed score.
type TraceEvent struct {
	Backend Kind
	Text    string
	Score   float32
}

// TraceFunc observes scores as they are computed. It must be safe for
// concurrent use.
type TraceFunc func(ctx context.Context, ev TraceEvent)
