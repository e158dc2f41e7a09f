// Package simd provides the float32 kernels behind the distance package.
//
// # Implementations
//
//   - generic: one accumulator per kernel, the reference implementation
//   - wide: eight independent accumulators, unrolled so the compiler can keep
//     the lanes in vector registers on AVX2, AVX-512 and NEON capable CPUs
//
// Runtime CPU feature detection selects the implementation. Set VECSIM_SIMD
// to "generic", "avx2", "avx512" or "neon" to override the choice; values the
// CPU does not support are ignored.
//
// # Operations
//
//   - Dot, SquaredL2, L1
//   - DotNorms: dot product and both squared norms in one pass (cosine)
//   - ScaleInPlace
package simd
