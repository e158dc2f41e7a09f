package flat_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/index"
	"github.com/hupe1980/vecsim/index/flat"
	"github.com/hupe1980/vecsim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPoems(t *testing.T, kind index.Kind, optFns ...func(o *index.Options)) *flat.Flat {
	t.Helper()

	f, err := flat.New(kind, testutil.NewMapEmbedder(testutil.Poems()), optFns...)
	require.NoError(t, err)
	require.NoError(t, f.Load(context.Background(), testutil.PoemTexts))
	return f
}

func TestNewRejectsOtherKinds(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())

	_, err := flat.New(index.KindHnswL2, e)
	assert.ErrorIs(t, err, index.ErrUnknownBackend)

	_, err = flat.New(index.KindCosine, nil)
	assert.ErrorIs(t, err, index.ErrInvalidParameter)
}

func TestPoemRegression(t *testing.T) {
	for _, kind := range []index.Kind{index.KindCosine, index.KindEuclidean} {
		t.Run(kind.String(), func(t *testing.T) {
			f := loadPoems(t, kind)

			docs, err := f.Query(context.Background(), testutil.PoemQuery, 1)
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, testutil.PoemTexts[0], docs[0].Text)
		})
	}
}

func TestQueryOrdersAscending(t *testing.T) {
	f := loadPoems(t, index.KindCosine)

	docs, err := f.Query(context.Background(), testutil.PoemQuery, 3)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for i := 1; i < len(docs); i++ {
		assert.LessOrEqual(t, docs[i-1].Score, docs[i].Score)
	}
}

func TestCosineScores(t *testing.T) {
	poems := testutil.Poems()
	f := loadPoems(t, index.KindCosine)

	docs, err := f.Query(context.Background(), testutil.PoemQuery, 3)
	require.NoError(t, err)

	for _, d := range docs {
		want := distance.Cosine[float32]{}.Eval(poems[testutil.PoemQuery], poems[d.Text])
		assert.InDelta(t, want, d.Score, 1e-6)
		assert.Equal(t, poems[d.Text], d.Embedding)
	}
}

func TestQueryClampsToLen(t *testing.T) {
	f := loadPoems(t, index.KindEuclidean)

	docs, err := f.Query(context.Background(), testutil.PoemQuery, 10)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestQueryBeforeLoad(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())
	f, err := flat.NewCosine(e)
	require.NoError(t, err)

	docs, err := f.Query(context.Background(), testutil.PoemQuery, 3)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.Zero(t, e.Calls())
}

func TestQueryInvalidN(t *testing.T) {
	f := loadPoems(t, index.KindCosine)

	for _, n := range []int{0, -1} {
		_, err := f.Query(context.Background(), testutil.PoemQuery, n)
		assert.ErrorIs(t, err, index.ErrInvalidParameter)
	}
}

func TestLoadEmptyIsNoop(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())
	f, err := flat.NewEuclidean(e)
	require.NoError(t, err)

	require.NoError(t, f.Load(context.Background(), nil))
	assert.Zero(t, f.Len())
	assert.Zero(t, e.Calls())
}

func TestFailedLoadPreservesState(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())
	f, err := flat.NewCosine(e)
	require.NoError(t, err)
	require.NoError(t, f.Load(context.Background(), testutil.PoemTexts[:2]))

	err = f.Load(context.Background(), []string{testutil.PoemTexts[2], "not embedded"})
	require.Error(t, err)
	assert.ErrorIs(t, err, index.ErrEmbedding)
	assert.Equal(t, 2, f.Len())

	e.Set("wide", []float32{1, 2, 3, 4, 5})
	err = f.Load(context.Background(), []string{"wide"})
	assert.ErrorIs(t, err, index.ErrDimensionMismatch)
	assert.Equal(t, 2, f.Len())

	docs, err := f.Query(context.Background(), testutil.PoemQuery, 5)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestQueryDimensionMismatch(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())
	f, err := flat.NewCosine(e)
	require.NoError(t, err)
	require.NoError(t, f.Load(context.Background(), testutil.PoemTexts))

	e.Set("short", []float32{1, 0})
	_, err = f.Query(context.Background(), "short", 1)

	var dimErr *distance.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Actual)
	assert.ErrorIs(t, err, index.ErrDimensionMismatch)
}

func TestQueryEmbeddingError(t *testing.T) {
	e := testutil.NewMapEmbedder(testutil.Poems())
	f, err := flat.NewCosine(e)
	require.NoError(t, err)
	require.NoError(t, f.Load(context.Background(), testutil.PoemTexts))

	boom := errors.New("boom")
	e.Err = boom

	_, err = f.Query(context.Background(), testutil.PoemQuery, 1)
	assert.ErrorIs(t, err, index.ErrEmbedding)
	assert.ErrorIs(t, err, boom)
}

func TestTraceSeesEveryScore(t *testing.T) {
	var (
		mu     sync.Mutex
		events []index.TraceEvent
	)
	f := loadPoems(t, index.KindCosine, func(o *index.Options) {
		o.Trace = func(_ context.Context, ev index.TraceEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, ev)
		}
	})

	_, err := f.Query(context.Background(), testutil.PoemQuery, 1)
	require.NoError(t, err)

	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, index.KindCosine, ev.Backend)
	}
}

func TestResultsDoNotAlias(t *testing.T) {
	f := loadPoems(t, index.KindCosine)

	docs, err := f.Query(context.Background(), testutil.PoemQuery, 1)
	require.NoError(t, err)
	docs[0].Embedding[0] = 42

	again, err := f.Query(context.Background(), testutil.PoemQuery, 1)
	require.NoError(t, err)
	assert.NotEqual(t, float32(42), again[0].Embedding[0])
}

func TestConcurrentQueries(t *testing.T) {
	f := loadPoems(t, index.KindEuclidean)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs, err := f.Query(context.Background(), testutil.PoemQuery, 2)
			assert.NoError(t, err)
			assert.Len(t, docs, 2)
		}()
	}
	wg.Wait()
}

func TestLoadAppends(t *testing.T) {
	f, err := flat.NewCosine(testutil.NewMapEmbedder(testutil.Poems()))
	require.NoError(t, err)

	for _, text := range testutil.PoemTexts {
		require.NoError(t, f.Load(context.Background(), []string{text}))
	}
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, index.KindCosine, f.Kind())
}
