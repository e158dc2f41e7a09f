package embed_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/vecsim/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbeddingResponse builds a minimal OpenAI-compatible embedding response.
func fakeEmbeddingResponse(dim int, texts []string) []byte {
	type embItem struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	}
	type usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	}
	type resp struct {
		Object string    `json:"object"`
		Model  string    `json:"model"`
		Data   []embItem `json:"data"`
		Usage  usage     `json:"usage"`
	}

	data := make([]embItem, len(texts))
	for i := range texts {
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64(i+1) * 0.01 * float64(j+1)
		}
		data[i] = embItem{Object: "embedding", Index: i, Embedding: vec}
	}

	b, _ := json.Marshal(resp{
		Object: "list",
		Model:  "test-model",
		Data:   data,
		Usage:  usage{PromptTokens: 10, TotalTokens: 10},
	})
	return b
}

// newFakeServer creates a test HTTP server that returns fake embeddings and
// counts the requests it served.
func newFakeServer(t *testing.T, dim int, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if requests != nil {
			requests.Add(1)
		}

		var req struct {
			Input any `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var texts []string
		switch v := req.Input.(type) {
		case string:
			texts = []string{v}
		case []any:
			for _, item := range v {
				texts = append(texts, fmt.Sprint(item))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fakeEmbeddingResponse(dim, texts))
	}))
}

func TestOpenAI_Embed(t *testing.T) {
	const dim = 8
	srv := newFakeServer(t, dim, nil)
	defer srv.Close()

	e := embed.NewOpenAI("test-key",
		embed.WithBaseURL(srv.URL),
		embed.WithDimension(dim),
	)
	assert.Equal(t, dim, e.Dimension())
	assert.Equal(t, embed.ModelOpenAI3Small, e.Model())

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, dim)
	assert.InDelta(t, 0.01, vec[0], 1e-6)
}

func TestOpenAI_EmbedBatch(t *testing.T) {
	const dim = 8
	srv := newFakeServer(t, dim, nil)
	defer srv.Close()

	e := embed.NewOpenAI("test-key",
		embed.WithBaseURL(srv.URL),
		embed.WithDimension(dim),
	)

	texts := []string{"a", "b", "c", "d"}
	vecs, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, vec := range vecs {
		assert.Len(t, vec, dim, "vecs[%d]", i)
	}
	// Results keep input order.
	assert.InDelta(t, 0.04, vecs[3][0], 1e-6)
}

func TestOpenAI_EmbedBatch_Split(t *testing.T) {
	const dim = 2
	var requests atomic.Int64
	srv := newFakeServer(t, dim, &requests)
	defer srv.Close()

	e := embed.NewOpenAI("test-key",
		embed.WithBaseURL(srv.URL),
		embed.WithDimension(dim),
		embed.WithBatchSize(10),
	)

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}

	vecs, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vecs, 25)
	assert.Equal(t, int64(3), requests.Load())
}

func TestOpenAI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := embed.NewOpenAI("test-key", embed.WithBaseURL(srv.URL), embed.WithDimension(4))

	_, err := e.Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOpenAI_DimensionMismatch(t *testing.T) {
	srv := newFakeServer(t, 3, nil)
	defer srv.Close()

	e := embed.NewOpenAI("test-key", embed.WithBaseURL(srv.URL), embed.WithDimension(4))

	_, err := e.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "dimension 3")
}

func TestEmbed_EmptyInput(t *testing.T) {
	embedders := map[string]embed.Embedder{
		"openai":  embed.NewOpenAI("test-key", embed.WithBaseURL("http://127.0.0.1:0")),
		"hashing": embed.NewHashing(),
		"cached":  embed.NewCached(embed.NewHashing(), 4),
	}

	for name, e := range embedders {
		t.Run(name, func(t *testing.T) {
			_, err := e.Embed(context.Background(), "")
			assert.ErrorIs(t, err, embed.ErrEmptyInput)

			_, err = e.EmbedBatch(context.Background(), nil)
			assert.ErrorIs(t, err, embed.ErrEmptyInput)

			_, err = e.EmbedBatch(context.Background(), []string{})
			assert.ErrorIs(t, err, embed.ErrEmptyInput)
		})
	}
}

func TestEmbedder_Interface(t *testing.T) {
	var _ embed.Embedder = (*embed.OpenAI)(nil)
	var _ embed.Embedder = (*embed.Hashing)(nil)
	var _ embed.Embedder = (*embed.Cached)(nil)
}
