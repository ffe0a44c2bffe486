package stream

import "iter"

const (
	// Multiplier is the LCG multiplier.
	Multiplier uint32 = 1664525
	// Increment is the LCG increment.
	Increment uint32 = 1013904223

	scale = 1 << 32
)

// Stream is a restartable LCG stream. The zero value is a stream seeded with 0.
type Stream struct {
	seed  uint32
	state uint32
	drawn int
}

// New returns a stream positioned before its first draw.
func New(seed uint32) *Stream {
	return &Stream{seed: seed, state: seed}
}

// Seed reports the seed the stream was created from.
func (s *Stream) Seed() uint32 {
	return s.seed
}

// Drawn reports how many values have been taken since the last reset.
func (s *Stream) Drawn() int {
	return s.drawn
}

// Next advances the generator one step and returns state / 2^32. The raw seed
// is never returned.
func (s *Stream) Next() float64 {
	s.state = s.state*Multiplier + Increment
	s.drawn++
	return float64(s.state) / scale
}

// NextState advances the generator and returns the raw 32-bit state.
func (s *Stream) NextState() uint32 {
	s.state = s.state*Multiplier + Increment
	s.drawn++
	return s.state
}

// Take draws k values. Non-positive k returns nil.
func (s *Stream) Take(k int) []float64 {
	if k <= 0 {
		return nil
	}
	out := make([]float64, k)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}

// Reset rewinds the stream to its seed.
func (s *Stream) Reset() {
	s.state = s.seed
	s.drawn = 0
}

// All returns the stream as an unbounded lazy sequence. Values are drawn from
// s, so ranging over All advances the same state Next does.
func (s *Stream) All() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

// First returns the first value a fresh stream from seed would yield.
func First(seed uint32) float64 {
	return New(seed).Next()
}
