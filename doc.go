// Package vecsim answers "which stored texts are most similar to this one"
// over pluggable index backends.
//
// Texts are turned into vectors by an [embed.Embedder]. An [Index] stores
// the texts with their embeddings in one of several backends, picked by a
// selector string:
//
//	Cosine       exact, cosine distance
//	Euclidean    exact, L2 distance
//	Hnsw_L2      HNSW graph, L2 distance ("Hnsw" is an alias)
//	Hnsw_Cosine  HNSW graph, cosine distance
//	Hnsw_Dot     HNSW graph, dot product over L2-normalised vectors
//	Hnsw_L1      HNSW graph, L1 distance
//	LSH          sign random projections, cosine re-rank
//
// Unknown selectors fall back to Cosine unless [WithStrictBackend] is set.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, _ := vecsim.New("Hnsw_Cosine", embed.NewHashing())
//	_ = idx.Load(ctx, []string{"Do not go gentle into that good night", "What happens to a dream deferred?"})
//	docs, _ := idx.Query(ctx, "stay strong as you grow older", 1)
//
// # Scores
//
// Every backend reports a distance: lower is closer, and results are
// ordered ascending.
//
// # Concurrency
//
// Load is exclusive; any number of Query calls may run concurrently. A
// failed Load leaves the index unchanged.
package vecsim
