package simd

// The wide kernels keep eight independent accumulators so consecutive
// iterations carry no dependency. Bounds checks are hoisted by re-slicing
// both inputs to the same length once per block.

func dotWide(a, b []float32) float32 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= n; i += 8 {
		x := a[i : i+8 : i+8]
		y := b[i : i+8 : i+8]
		s0 += x[0] * y[0]
		s1 += x[1] * y[1]
		s2 += x[2] * y[2]
		s3 += x[3] * y[3]
		s4 += x[4] * y[4]
		s5 += x[5] * y[5]
		s6 += x[6] * y[6]
		s7 += x[7] * y[7]
	}

	sum := ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

func squaredL2Wide(a, b []float32) float32 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= n; i += 8 {
		x := a[i : i+8 : i+8]
		y := b[i : i+8 : i+8]
		d0 := x[0] - y[0]
		d1 := x[1] - y[1]
		d2 := x[2] - y[2]
		d3 := x[3] - y[3]
		d4 := x[4] - y[4]
		d5 := x[5] - y[5]
		d6 := x[6] - y[6]
		d7 := x[7] - y[7]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
		s4 += d4 * d4
		s5 += d5 * d5
		s6 += d6 * d6
		s7 += d7 * d7
	}

	sum := ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
	for ; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}

	return sum
}

func l1Wide(a, b []float32) float32 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	i := 0
	for ; i+8 <= n; i += 8 {
		x := a[i : i+8 : i+8]
		y := b[i : i+8 : i+8]
		s0 += abs32(x[0] - y[0])
		s1 += abs32(x[1] - y[1])
		s2 += abs32(x[2] - y[2])
		s3 += abs32(x[3] - y[3])
		s4 += abs32(x[4] - y[4])
		s5 += abs32(x[5] - y[5])
		s6 += abs32(x[6] - y[6])
		s7 += abs32(x[7] - y[7])
	}

	sum := ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
	for ; i < n; i++ {
		sum += abs32(a[i] - b[i])
	}

	return sum
}

func dotNormsWide(a, b []float32) (dot, normA, normB float32) {
	n := len(a)
	b = b[:n]

	var d [4]float32
	var na [4]float32
	var nb [4]float32
	i := 0
	for ; i+4 <= n; i += 4 {
		x := a[i : i+4 : i+4]
		y := b[i : i+4 : i+4]
		for l := range 4 {
			d[l] += x[l] * y[l]
			na[l] += x[l] * x[l]
			nb[l] += y[l] * y[l]
		}
	}

	dot = (d[0] + d[1]) + (d[2] + d[3])
	normA = (na[0] + na[1]) + (na[2] + na[3])
	normB = (nb[0] + nb[1]) + (nb[2] + nb[3])
	for ; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return dot, normA, normB
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
