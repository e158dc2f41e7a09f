//go:build cgo

// Package cref exports C reference metrics as raw function pointers so the
// foreign distance wrapper can be exercised from Go tests.
package cref

/*
static float vecsim_ref_l1(const float *a, const float *b, unsigned long long n) {
	float s = 0;
	for (unsigned long long i = 0; i < n; i++) {
		float d = a[i] - b[i];
		s += d < 0 ? -d : d;
	}
	return s;
}

static void *vecsim_ref_l1_ptr(void) {
	return (void *)&vecsim_ref_l1;
}
*/
import "C"

import "unsafe"

// L1Float32 returns a pointer to a C implementation of the L1 distance over
// float arrays.
func L1Float32() unsafe.Pointer {
	return C.vecsim_ref_l1_ptr()
}
