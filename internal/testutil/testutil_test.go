package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformRangeVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformRangeVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	for _, vec := range v {
		for _, x := range vec {
			assert.GreaterOrEqual(t, x, float32(-1.0))
			assert.Less(t, x, float32(1.0))
		}
	}
}

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	assert.Equal(t, 8, len(v))
	for _, vec := range v {
		var sum float32
		for _, val := range vec {
			sum += val * val
		}
		assert.InDelta(t, float32(1.0), sum, 1e-5)
	}
}

func TestClusteredVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.ClusteredVectors(100, 32, 5, 0.1)

	assert.Equal(t, 100, len(v))
	assert.Equal(t, 32, len(v[0]))
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformRangeVectors(1, 10)

	rng.Reset()
	v2 := rng.UniformRangeVectors(1, 10)

	assert.Equal(t, v1, v2)
}

func TestComputeRecall(t *testing.T) {
	assert.Equal(t, 1.0, ComputeRecall(nil, nil))
	assert.Equal(t, 0.0, ComputeRecall([]uint32{1}, nil))
	assert.Equal(t, 0.5, ComputeRecall([]uint32{1, 2}, []uint32{2, 3}))
	assert.Equal(t, 1.0, ComputeRecall([]uint32{1, 2}, []uint32{2, 1}))
}

func TestMapEmbedder(t *testing.T) {
	ctx := context.Background()
	e := NewMapEmbedder(Poems())

	assert.Equal(t, 4, e.Dimension())

	v, err := e.Embed(ctx, PoemQuery)
	require.NoError(t, err)
	v[0] = 42

	again, err := e.Embed(ctx, PoemQuery)
	require.NoError(t, err)
	assert.NotEqual(t, float32(42), again[0])

	_, err = e.EmbedBatch(ctx, []string{PoemTexts[0], "unknown"})
	assert.ErrorIs(t, err, ErrNoVector)

	boom := errors.New("boom")
	e.Err = boom
	_, err = e.Embed(ctx, PoemQuery)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int64(4), e.Calls())
}

func TestVectorTexts(t *testing.T) {
	texts, table := VectorTexts([][]float32{{1}, {2}})

	assert.Equal(t, []string{"doc-0", "doc-1"}, texts)
	assert.Equal(t, []float32{2}, table["doc-1"])
}
