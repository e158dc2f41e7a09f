//go:build cgo

package distance

/*
typedef float (*vecsim_dist_fn)(const void *, const void *, unsigned long long);

static float vecsim_call_dist(void *fn, const void *a, const void *b, unsigned long long n) {
	return ((vecsim_dist_fn)fn)(a, b, n);
}
*/
import "C"

import "unsafe"

const foreignSupported = true

func callForeign(fn, a, b unsafe.Pointer, n int) float32 {
	return float32(C.vecsim_call_dist(fn, a, b, C.ulonglong(n)))
}
