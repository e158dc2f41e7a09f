package lsh

import (
	"context"
	"testing"

	"github.com/hupe1980/vecsim/index"
	"github.com/hupe1980/vecsim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())

	tests := []struct {
		name string
		fn   func(o *Options)
	}{
		{"ZeroProjections", func(o *Options) { o.Projections = 0 }},
		{"WideProjections", func(o *Options) { o.Projections = 33 }},
		{"ZeroTables", func(o *Options) { o.Tables = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(e, tc.fn)
			assert.ErrorIs(t, err, index.ErrInvalidParameter)
		})
	}

	_, err := New(nil)
	assert.ErrorIs(t, err, index.ErrInvalidParameter)
}

func TestPoemRegression(t *testing.T) {
	x, err := New(testutil.NewMapEmbedder(testutil.Poems()))
	require.NoError(t, err)
	require.NoError(t, x.Load(context.Background(), testutil.PoemTexts))
	assert.Equal(t, index.KindLSH, x.Kind())

	docs, err := x.Query(context.Background(), testutil.PoemQuery, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, testutil.PoemTexts[0], docs[0].Text)
}

func TestSelfFindAndClamp(t *testing.T) {
	rng := testutil.NewRNG(21)
	texts, table := testutil.VectorTexts(rng.UnitVectors(100, 16))

	ctx := context.Background()
	x, err := New(testutil.NewMapEmbedder(table))
	require.NoError(t, err)
	require.NoError(t, x.Load(ctx, texts))

	for _, text := range texts[:20] {
		docs, err := x.Query(ctx, text, 1)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, text, docs[0].Text)
		assert.InDelta(t, 0, docs[0].Score, 1e-5)
	}

	docs, err := x.Query(ctx, texts[0], 1000)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(docs), 100)
	for i := 1; i < len(docs); i++ {
		assert.LessOrEqual(t, docs[i-1].Score, docs[i].Score)
	}
}

func TestNoCandidates(t *testing.T) {
	e := testutil.NewMapEmbedder(map[string][]float32{
		"a": {1, 0},
		"q": {-1, 0},
	})

	x, err := New(e, func(o *Options) {
		o.Tables = 1
		o.Projections = 1
	})
	require.NoError(t, err)
	require.NoError(t, x.Load(context.Background(), []string{"a"}))

	// One hyperplane through the origin always separates v from -v unless
	// v lies on it.
	docs, err := x.Query(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestSignature(t *testing.T) {
	planes := [][]float32{{1, 0}, {0, 1}, {-1, 0}}

	assert.Equal(t, uint32(0b011), signature(planes, []float32{1, 1}))
	assert.Equal(t, uint32(0b110), signature(planes, []float32{-1, 1}))
	assert.Equal(t, uint32(0b111), signature(planes, []float32{0, 0}))
}

func TestPlanesAreSeeded(t *testing.T) {
	a := newPlanes(7, 2, 3, 4)
	b := newPlanes(7, 2, 3, 4)
	c := newPlanes(8, 2, 3, 4)

	assert.Equal(t, a[1].planes, b[1].planes)
	assert.NotEqual(t, a[1].planes, c[1].planes)
}

func TestLoadRebuildsTables(t *testing.T) {
	ctx := context.Background()
	e := testutil.NewMapEmbedder(testutil.Poems())
	x, err := New(e)
	require.NoError(t, err)

	require.NoError(t, x.Load(ctx, testutil.PoemTexts[:1]))
	planes := x.tables[0].planes

	require.NoError(t, x.Load(ctx, testutil.PoemTexts[1:]))
	assert.Equal(t, 3, x.Len())
	assert.Equal(t, planes, x.tables[0].planes)

	var total uint64
	for _, b := range x.tables[0].buckets {
		total += b.GetCardinality()
	}
	assert.Equal(t, uint64(3), total)
}

func TestFailedLoadPreservesState(t *testing.T) {
	ctx := context.Background()
	e := testutil.NewMapEmbedder(testutil.Poems())
	x, err := New(e)
	require.NoError(t, err)
	require.NoError(t, x.Load(ctx, testutil.PoemTexts))

	e.Set("wide", []float32{1, 2, 3})
	assert.ErrorIs(t, x.Load(ctx, []string{"wide"}), index.ErrDimensionMismatch)
	assert.ErrorIs(t, x.Load(ctx, []string{"missing"}), index.ErrEmbedding)
	assert.Equal(t, 3, x.Len())
}

func TestQueryBeforeLoad(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())
	x, err := New(e)
	require.NoError(t, err)

	docs, err := x.Query(context.Background(), testutil.PoemQuery, 1)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, e.Calls())

	_, err = x.Query(context.Background(), testutil.PoemQuery, -1)
	assert.ErrorIs(t, err, index.ErrInvalidParameter)
}
