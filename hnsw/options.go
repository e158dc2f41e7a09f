package hnsw

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// AutoMaxLayer derives the layer cap from Options.Capacity.
const AutoMaxLayer = -1

// maxLayerLimit bounds the derived layer cap.
const maxLayerLimit = 16

// ErrInvalidParameter is returned for out-of-range options or search arguments.
var ErrInvalidParameter = errors.New("hnsw: invalid parameter")

// Options represents the options for configuring HNSW.
type Options struct {
	// M is the maximum number of links per node on layers above 0. Layer 0
	// allows 2*M.
	M int

	// EFConstruction is the size of the candidate list used while linking.
	EFConstruction int

	// EFSearch is the default candidate list size for Search. Zero means 2*M.
	EFSearch int

	// MaxLayer caps node levels. AutoMaxLayer derives min(16, ln(Capacity)).
	MaxLayer int

	// Capacity is the expected number of vectors.
	Capacity int

	// Workers bounds insertion parallelism. Zero means GOMAXPROCS.
	Workers int

	// Heuristic selects neighbours with the diversity heuristic instead of
	// keeping the M closest candidates.
	Heuristic bool

	// Seed makes level assignment reproducible. Nil seeds from the clock.
	Seed *uint64

	Logger *slog.Logger
}

// DefaultOptions contains the default configuration.
var DefaultOptions = Options{
	M:              15,
	EFConstruction: 200,
	EFSearch:       0,
	MaxLayer:       AutoMaxLayer,
	Capacity:       1,
	Workers:        0,
	Heuristic:      true,
}

func (o *Options) validate() error {
	if o.M <= 0 {
		return fmt.Errorf("%w: M must be positive, got %d", ErrInvalidParameter, o.M)
	}
	if o.EFConstruction <= 0 {
		return fmt.Errorf("%w: EFConstruction must be positive, got %d", ErrInvalidParameter, o.EFConstruction)
	}
	if o.EFSearch < 0 {
		return fmt.Errorf("%w: EFSearch must not be negative, got %d", ErrInvalidParameter, o.EFSearch)
	}
	if o.MaxLayer < AutoMaxLayer {
		return fmt.Errorf("%w: MaxLayer must be >= %d, got %d", ErrInvalidParameter, AutoMaxLayer, o.MaxLayer)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: Workers must not be negative, got %d", ErrInvalidParameter, o.Workers)
	}
	return nil
}

// LayerCapFor returns min(16, floor(ln(n))), never negative.
func LayerCapFor(n int) int {
	if n <= 1 {
		return 0
	}
	return min(maxLayerLimit, int(math.Floor(math.Log(float64(n)))))
}
