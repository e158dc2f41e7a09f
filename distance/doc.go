// Package distance defines the metric abstraction the indexes are generic over.
//
// A metric is any value implementing [Distance] for an element type T. The
// package ships the usual built-ins and two extension points: [Func] wraps a
// Go closure and [Foreign] wraps a C function pointer (cgo builds only).
//
// # Supported Metrics
//
//   - L1, L2, Cosine: any numeric element type
//   - Dot: unit-norm float vectors, 1 - a·b
//   - Hellinger, Jeffreys, JensenShannon: probability distributions
//   - Jaccard: unsigned weights
//   - Hamming, Levenshtein: any comparable element type
//
// For []float32 inputs L1, L2, Cosine and Dot run on the kernels in
// internal/simd, which pick a wide implementation at startup when the CPU
// supports it.
//
// # Usage
//
//	var d distance.Distance[float32] = distance.Cosine[float32]{}
//	score := d.Eval(a, b)
//
//	score, err := distance.Compute(d, a, b) // checks lengths
//
// Eval assumes len(a) == len(b). Use [Compute] when the inputs come from an
// untrusted source.
package distance
