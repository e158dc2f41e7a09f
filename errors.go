package vecsim

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecsim/distance"
	"github.com/hupe1980/vecsim/hnsw"
	"github.com/hupe1980/vecsim/index"
)

var (
	// ErrInvalidParameter is returned for out-of-range arguments or options.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmbedding is returned when the embedder fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrUnknownBackend is returned for an unrecognised selector in strict
	// mode.
	ErrUnknownBackend = errors.New("unknown backend")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *distance.DimensionError
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	if errors.Is(err, index.ErrEmbedding) {
		return fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if errors.Is(err, index.ErrInvalidParameter) || errors.Is(err, hnsw.ErrInvalidParameter) {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	if errors.Is(err, index.ErrUnknownBackend) {
		return fmt.Errorf("%w: %w", ErrUnknownBackend, err)
	}

	return err
}
