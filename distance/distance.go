package distance

import (
	"errors"
	"fmt"
	"strings"
)

// Distance computes a non-negative dissimilarity between two equal-length
// vectors. Implementations are immutable and safe for concurrent use.
//
// Eval does not check lengths: a longer b is read only up to len(a) and a
// shorter b panics. Callers holding unchecked input go through Compute.
type Distance[T any] interface {
	Eval(a, b []T) float32
}

// sequenceDistance is implemented by metrics defined over sequences of
// different lengths.
type sequenceDistance interface {
	unequalLengths()
}

// Float is the set of floating point element types.
type Float interface {
	~float32 | ~float64
}

// Signed is the set of signed integer element types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer element types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is the set of integer element types.
type Integer interface {
	Signed | Unsigned
}

// Number is the set of numeric element types.
type Number interface {
	Integer | Float
}

var (
	// ErrDimensionMismatch is matched by every *DimensionError.
	ErrDimensionMismatch = errors.New("distance: dimension mismatch")

	// ErrUnsupportedMetric is returned when a metric is not defined for the
	// requested element type.
	ErrUnsupportedMetric = errors.New("distance: unsupported metric")
)

// DimensionError reports two vectors of different lengths.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("distance: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// Compute evaluates d after checking that a and b have the same length.
// Mismatched inputs are never truncated or padded. Levenshtein is exempt
// from the check.
func Compute[T any](d Distance[T], a, b []T) (float32, error) {
	if _, ok := d.(sequenceDistance); !ok && len(a) != len(b) {
		return 0, &DimensionError{Expected: len(a), Actual: len(b)}
	}
	return d.Eval(a, b), nil
}

// Func adapts an ordinary function to the Distance interface.
type Func[T any] func(a, b []T) float32

// Eval calls f(a, b).
func (f Func[T]) Eval(a, b []T) float32 {
	return f(a, b)
}

// Metric names a built-in metric.
type Metric int

const (
	MetricL1 Metric = iota
	MetricL2
	MetricCosine
	MetricDot
	MetricHamming
	MetricJaccard
	MetricHellinger
	MetricJeffreys
	MetricJensenShannon
	MetricLevenshtein
)

var metricNames = [...]string{
	MetricL1:            "L1",
	MetricL2:            "L2",
	MetricCosine:        "Cosine",
	MetricDot:           "Dot",
	MetricHamming:       "Hamming",
	MetricJaccard:       "Jaccard",
	MetricHellinger:     "Hellinger",
	MetricJeffreys:      "Jeffreys",
	MetricJensenShannon: "JensenShannon",
	MetricLevenshtein:   "Levenshtein",
}

func (m Metric) String() string {
	if m >= 0 && int(m) < len(metricNames) {
		return metricNames[m]
	}
	return fmt.Sprintf("Unknown(%d)", m)
}

// ParseMetric resolves a metric name case-insensitively.
func ParseMetric(s string) (Metric, bool) {
	s = strings.TrimSpace(s)
	for i, name := range metricNames {
		if strings.EqualFold(name, s) {
			return Metric(i), true
		}
	}
	return 0, false
}

// Float32 returns the built-in implementation of m for float32 vectors.
func Float32(m Metric) (Distance[float32], error) {
	switch m {
	case MetricL1:
		return L1[float32]{}, nil
	case MetricL2:
		return L2[float32]{}, nil
	case MetricCosine:
		return Cosine[float32]{}, nil
	case MetricDot:
		return Dot[float32]{}, nil
	case MetricHamming:
		return Hamming[float32]{}, nil
	case MetricHellinger:
		return Hellinger[float32]{}, nil
	case MetricJeffreys:
		return Jeffreys[float32]{}, nil
	case MetricJensenShannon:
		return JensenShannon[float32]{}, nil
	case MetricLevenshtein:
		return Levenshtein[float32]{}, nil
	default:
		return nil, fmt.Errorf("%w: %v for float32", ErrUnsupportedMetric, m)
	}
}
