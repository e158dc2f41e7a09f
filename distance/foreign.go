package distance

import (
	"errors"
	"unsafe"
)

var (
	// ErrNilFunction is returned by NewForeign for a nil function pointer.
	ErrNilFunction = errors.New("distance: nil foreign function")

	// ErrForeignUnsupported is returned by NewForeign in builds without cgo.
	ErrForeignUnsupported = errors.New("distance: foreign functions require cgo")
)

// Foreign wraps a C function with the signature
//
//	float fn(const T *a, const T *b, unsigned long long len);
//
// The function must be pure and safe to call from several threads at once.
type Foreign[T Number] struct {
	fn unsafe.Pointer
}

// NewForeign wraps the C function pointer fn.
func NewForeign[T Number](fn unsafe.Pointer) (*Foreign[T], error) {
	if fn == nil {
		return nil, ErrNilFunction
	}
	if !foreignSupported {
		return nil, ErrForeignUnsupported
	}
	return &Foreign[T]{fn: fn}, nil
}

// Eval calls the wrapped function with pointers to the first elements of a
// and b. Empty inputs are passed as null pointers with length 0.
func (f *Foreign[T]) Eval(a, b []T) float32 {
	return callForeign(f.fn, unsafe.Pointer(unsafe.SliceData(a)), unsafe.Pointer(unsafe.SliceData(b)), len(a))
}
