// Package testutil provides helpers for tests and benchmarks.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UnitVectors(1000, 32)
//
// # Stub Embedders
//
//	e := testutil.NewMapEmbedder(testutil.Poems())
//	vec, _ := e.Embed(ctx, testutil.PoemQuery)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(exactIDs, approxIDs)
package testutil
