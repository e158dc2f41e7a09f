package embed

import (
	"context"
	"strings"
	"unicode"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/internal/hash"
)

const hashingDefaultDim = 768

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// Hashing is a deterministic, dependency-free embedder. Each text is reduced
// to lower-cased word unigrams and character trigrams, every feature is
// hashed into a signed bucket, and the result is L2-normalised.
//
// It captures lexical overlap only. It is meant for tests, demos and
// offline use where calling a model is not an option.
type Hashing struct {
	dim int
}

var _ Embedder = (*Hashing)(nil)

// NewHashing creates a feature-hashing embedder. Only WithDimension applies.
func NewHashing(opts ...Option) *Hashing {
	cfg := config{dim: hashingDefaultDim}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.dim <= 0 {
		cfg.dim = hashingDefaultDim
	}
	return &Hashing{dim: cfg.dim}
}

// Embed returns the embedding for a single text. A text without any word
// characters maps to the zero vector.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, h.dim)
	for _, word := range tokenize(text) {
		h.add(vec, "w:"+word, wordWeight)

		padded := []rune("#" + word + "#")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(vec, "c:"+string(padded[i:i+3]), trigramWeight)
		}
	}

	distance.NormalizeL2InPlace(vec)
	return vec, nil
}

// EmbedBatch embeds each text in turn.
func (h *Hashing) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := h.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimension returns the configured vector dimensionality.
func (h *Hashing) Dimension() int {
	return h.dim
}

func (h *Hashing) add(vec []float32, feature string, weight float32) {
	idx, sign := hash.Bucket(feature, h.dim)
	vec[idx] += sign * weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
