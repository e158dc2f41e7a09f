package distance

import (
	"math"

	"github.com/hupe1980/vecsim/internal/simd"
)

// epsilon guards the logarithms of the divergence metrics.
const epsilon = 1e-30

// dotClamp bounds the dot product of two unit vectors. Normalised float32
// inputs routinely land a few ulps above 1.
const dotClamp = 1.000002

// L1 is the Manhattan distance Σ|a-b|.
type L1[T Number] struct{}

func (L1[T]) Eval(a, b []T) float32 {
	if x, ok := any(a).([]float32); ok {
		return simd.L1(x, any(b).([]float32))
	}

	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return float32(sum)
}

// L2 is the Euclidean distance √Σ(a-b)².
type L2[T Number] struct{}

func (L2[T]) Eval(a, b []T) float32 {
	if x, ok := any(a).([]float32); ok {
		return float32(math.Sqrt(float64(simd.SquaredL2(x, any(b).([]float32)))))
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// Cosine is 1 - a·b/(‖a‖‖b‖). A zero vector on either side yields 0 and the
// result never drops below 0.
type Cosine[T Number] struct{}

func (Cosine[T]) Eval(a, b []T) float32 {
	var dot, normA, normB float64
	if x, ok := any(a).([]float32); ok {
		d, na, nb := simd.DotNorms(x, any(b).([]float32))
		dot, normA, normB = float64(d), float64(na), float64(nb)
	} else {
		for i := range a {
			fa, fb := float64(a[i]), float64(b[i])
			dot += fa * fb
			normA += fa * fa
			normB += fb * fb
		}
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(max(0, 1-dot/math.Sqrt(normA*normB)))
}

// Dot is 1 - a·b for unit-norm vectors. Callers normalise the inputs; see
// NormalizeL2InPlace.
type Dot[T Float] struct{}

func (Dot[T]) Eval(a, b []T) float32 {
	var dot float64
	if x, ok := any(a).([]float32); ok {
		dot = float64(simd.Dot(x, any(b).([]float32)))
	} else {
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
	}

	dot = min(dot, dotClamp)
	return float32(max(0, 1-dot))
}

// Hamming counts the positions at which a and b differ.
type Hamming[T comparable] struct{}

func (Hamming[T]) Eval(a, b []T) float32 {
	var n int
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return float32(n)
}

// Jaccard is the weighted Jaccard distance 1 - Σmin/Σmax. Two all-zero
// vectors are at distance 0.
type Jaccard[T Unsigned] struct{}

func (Jaccard[T]) Eval(a, b []T) float32 {
	var lo, hi float64
	for i := range a {
		lo += float64(min(a[i], b[i]))
		hi += float64(max(a[i], b[i]))
	}
	if hi == 0 {
		return 0
	}
	return float32(1 - lo/hi)
}

// Hellinger is √(1 - Σ√(a·b)) over probability distributions.
type Hellinger[T Float] struct{}

func (Hellinger[T]) Eval(a, b []T) float32 {
	var bc float64
	for i := range a {
		bc += math.Sqrt(float64(a[i]) * float64(b[i]))
	}
	return float32(math.Sqrt(max(0, 1-bc)))
}

// Jeffreys is the symmetrised Kullback-Leibler divergence
// Σ(a-b)·ln(a/b), with both arguments of the logarithm floored at 1e-30.
type Jeffreys[T Float] struct{}

func (Jeffreys[T]) Eval(a, b []T) float32 {
	var sum float64
	for i := range a {
		fa, fb := float64(a[i]), float64(b[i])
		sum += (fa - fb) * math.Log(max(fa, epsilon)/max(fb, epsilon))
	}
	return float32(max(0, sum))
}

// JensenShannon is the square root of the Jensen-Shannon divergence.
type JensenShannon[T Float] struct{}

func (JensenShannon[T]) Eval(a, b []T) float32 {
	var sum float64
	for i := range a {
		fa, fb := float64(a[i]), float64(b[i])
		m := (fa + fb) / 2
		if fa > 0 {
			sum += fa * math.Log(fa/m)
		}
		if fb > 0 {
			sum += fb * math.Log(fb/m)
		}
	}
	return float32(math.Sqrt(max(0, sum/2)))
}

// Levenshtein is the edit distance between two sequences.
//
// Unlike the other metrics it accepts inputs of different lengths.
type Levenshtein[T comparable] struct{}

func (Levenshtein[T]) unequalLengths() {}

func (Levenshtein[T]) Eval(a, b []T) float32 {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return float32(len(a))
	}

	// row[j] holds the distance between a[:i] and b[:j].
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}

	return float32(row[len(b)])
}
