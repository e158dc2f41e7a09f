package hnsw

import (
	"math"
	"sync/atomic"
	"time"
)

// levelGenerator draws node levels from a lock-free xorshift64* stream.
type levelGenerator struct {
	state atomic.Uint64
	ml    float64
	limit int
}

func newLevelGenerator(seed *uint64, m, layerCap int) *levelGenerator {
	s := uint64(time.Now().UnixNano())
	if seed != nil {
		s = *seed
	}
	if s == 0 {
		s = 0x9E3779B97F4A7C15
	}

	lg := &levelGenerator{
		ml:    1 / math.Log(float64(max(m, 2))),
		limit: layerCap,
	}
	lg.state.Store(s)
	return lg
}

func (lg *levelGenerator) next() uint64 {
	for {
		old := lg.state.Load()
		x := old
		x ^= x >> 12
		x ^= x << 25
		x ^= x >> 27
		if lg.state.CompareAndSwap(old, x) {
			return x * 0x2545F4914F6CDD1D
		}
	}
}

// level returns floor(-ln(U) * mL) capped at the layer cap, U in (0, 1].
func (lg *levelGenerator) level() int {
	u := float64(lg.next()>>11+1) / (1 << 53)
	l := int(math.Floor(-math.Log(u) * lg.ml))
	return min(l, lg.limit)
}
