package pairs

import "fmt"

// Pair is one unordered catalog index pair. Left < Right at creation.
type Pair struct {
	Ordinal int
	Left    int
	Right   int
}

// Label is the scene label the web client records for the pair.
func (p Pair) Label() string {
	return Label(p.Ordinal)
}

// Label renders an ordinal as "Pair N".
func Label(ordinal int) string {
	return fmt.Sprintf("Pair %d", ordinal)
}

// Total reports n*(n-1)/2, the universe size for a catalog of n entries.
func Total(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// BuildUniverse enumerates all i<j pairs over a catalog of n entries, i outer
// and j inner, with ordinals counting from 1 in that order.
func BuildUniverse(n int) []Pair {
	out := make([]Pair, 0, Total(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Pair{Ordinal: len(out) + 1, Left: i, Right: j})
		}
	}
	return out
}
