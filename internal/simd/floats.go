package simd

var (
	dotImpl       = dotGeneric
	squaredL2Impl = squaredL2Generic
	l1Impl        = l1Generic
	dotNormsImpl  = dotNormsGeneric
)

// Dot calculates the dot product of two vectors.
//
// SAFETY: This function assumes len(a) == len(b).
// Callers MUST check lengths; the distance package does.
func Dot(a, b []float32) float32 {
	return dotImpl(a, b)
}

// SquaredL2 calculates the squared L2 distance.
//
// SAFETY: This function assumes len(a) == len(b).
func SquaredL2(a, b []float32) float32 {
	return squaredL2Impl(a, b)
}

// L1 calculates the Manhattan distance.
//
// SAFETY: This function assumes len(a) == len(b).
func L1(a, b []float32) float32 {
	return l1Impl(a, b)
}

// DotNorms returns a·b, ‖a‖² and ‖b‖² computed in a single pass.
//
// SAFETY: This function assumes len(a) == len(b).
func DotNorms(a, b []float32) (dot, normA, normB float32) {
	return dotNormsImpl(a, b)
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}

	return distance
}

func l1Generic(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}

	return sum
}

func dotNormsGeneric(a, b []float32) (dot, normA, normB float32) {
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return dot, normA, normB
}
