// Package hnsw implements a Hierarchical Navigable Small World graph that is
// generic over the element type and the distance metric.
//
// # Construction
//
// Vectors are appended in batches. Each batch is linked by a pool of workers;
// every node carries its own lock and no worker ever holds two node locks at
// once. The entry point is published through an atomic pointer and promoted
// by compare-and-swap when a node with a higher level finishes linking.
//
// # Search
//
// Search descends greedily from the entry point through the upper layers and
// runs a best-first search of width max(ef, k) on layer 0. When k is at least
// the number of stored vectors the graph falls back to an exact scan, so a
// request for "everything" always returns everything.
//
// # Usage
//
//	g, err := hnsw.Build(ctx, distance.L2[float32]{}, vectors, func(o *hnsw.Options) {
//		o.M = 16
//	})
//	res, err := g.Search(ctx, query, 10)
package hnsw
