package pairs

import (
	"math"

	"cgreplay/internal/stream"
)

// Sample draws min(count, len(universe)) pairs without replacement. Each draw
// takes the next stream value r and pops pool[floor(r*len(pool))] from the
// current pool. universe is not modified.
func Sample(universe []Pair, count int, seed uint32) []Pair {
	if count <= 0 || len(universe) == 0 {
		return nil
	}
	count = min(count, len(universe))

	pool := make([]Pair, len(universe))
	copy(pool, universe)

	rng := stream.New(seed)
	selected := make([]Pair, 0, count)
	for range count {
		idx := DrawIndex(rng.Next(), len(pool))
		selected = append(selected, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return selected
}

// DrawIndex maps r in [0,1) onto [0, size). A product that lands on size
// through rounding is clamped to size-1.
func DrawIndex(r float64, size int) int {
	if size <= 0 {
		return 0
	}
	idx := int(math.Floor(r * float64(size)))
	if idx >= size {
		return size - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}
