package pairs_test

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"cgreplay/internal/pairs"
	"cgreplay/internal/seed"
	"cgreplay/internal/testsupport"
)

func TestBuildUniverseRowMajor(t *testing.T) {
	got := pairs.BuildUniverse(4)
	want := []pairs.Pair{
		{Ordinal: 1, Left: 0, Right: 1},
		{Ordinal: 2, Left: 0, Right: 2},
		{Ordinal: 3, Left: 0, Right: 3},
		{Ordinal: 4, Left: 1, Right: 2},
		{Ordinal: 5, Left: 1, Right: 3},
		{Ordinal: 6, Left: 2, Right: 3},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestBuildUniverseSizes(t *testing.T) {
	for n := 0; n <= 12; n++ {
		u := pairs.BuildUniverse(n)
		if len(u) != pairs.Total(n) {
			t.Fatalf("n=%d: got %d pairs want %d", n, len(u), pairs.Total(n))
		}
		for i, p := range u {
			if p.Ordinal != i+1 || p.Left >= p.Right {
				t.Fatalf("n=%d: bad pair %+v at %d", n, p, i)
			}
		}
	}
}

func TestReferenceCatalogKnownSession(t *testing.T) {
	videos := testsupport.ReferenceCatalog()
	session, err := pairs.Reproduce(testsupport.ReferenceUserID, videos, pairs.DefaultCount)
	if err != nil {
		t.Fatalf("Reproduce: %v", err)
	}
	if session.Seed != 1432047003 {
		t.Fatalf("unexpected seed: %d", session.Seed)
	}
	if got, want := session.Ordinals(), []int{15, 10, 4, 17, 13}; !slices.Equal(got, want) {
		t.Fatalf("ordinals: got %v want %v", got, want)
	}
	first := session.Pairs[0]
	if first.Scene != "Pair 15" || first.VideoA != "videos/original_video.mp4" || first.VideoB != "videos/interpolated_video_addWeighted.mp4" || !first.Swapped {
		t.Fatalf("unexpected first pair: %+v", first)
	}
}

func TestReproduceUnswappedSession(t *testing.T) {
	session, err := pairs.Reproduce("", testsupport.ReferenceCatalog(), pairs.DefaultCount)
	if err != nil {
		t.Fatalf("Reproduce: %v", err)
	}
	if got, want := session.Ordinals(), []int{10, 11, 7, 25, 19}; !slices.Equal(got, want) {
		t.Fatalf("ordinals: got %v want %v", got, want)
	}
	for _, p := range session.Pairs {
		if p.Swapped {
			t.Fatalf("expected no swaps, got %+v", p)
		}
	}
	if p := session.Pairs[0]; p.VideoA != "videos/interpolated_rife_1280_720_30fps.mp4" || p.VideoB != "videos/original_video.mp4" {
		t.Fatalf("unexpected first pair: %+v", p)
	}
}

func TestReproduceSmallCatalog(t *testing.T) {
	session, err := pairs.Reproduce("alice", []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"}, pairs.DefaultCount)
	if err != nil {
		t.Fatalf("Reproduce: %v", err)
	}
	want := []pairs.OrientedPair{
		{Ordinal: 6, Scene: "Pair 6", VideoA: "d.mp4", VideoB: "c.mp4", Swapped: true},
		{Ordinal: 1, Scene: "Pair 1", VideoA: "b.mp4", VideoB: "a.mp4", Swapped: true},
		{Ordinal: 5, Scene: "Pair 5", VideoA: "d.mp4", VideoB: "b.mp4", Swapped: true},
		{Ordinal: 4, Scene: "Pair 4", VideoA: "c.mp4", VideoB: "b.mp4", Swapped: true},
		{Ordinal: 2, Scene: "Pair 2", VideoA: "c.mp4", VideoB: "a.mp4", Swapped: true},
	}
	if !slices.Equal(session.Pairs, want) {
		t.Fatalf("got %+v want %+v", session.Pairs, want)
	}
}

func TestReproduceIsDeterministic(t *testing.T) {
	videos := testsupport.ReferenceCatalog()
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("user-%03d", i)
		a, err := pairs.Reproduce(id, videos, pairs.DefaultCount)
		if err != nil {
			t.Fatalf("Reproduce: %v", err)
		}
		b, err := pairs.Reproduce(id, slices.Clone(videos), pairs.DefaultCount)
		if err != nil {
			t.Fatalf("Reproduce: %v", err)
		}
		if !slices.Equal(a.Pairs, b.Pairs) {
			t.Fatalf("%s: sessions differ", id)
		}
	}
}

func TestCatalogOrderChangesSession(t *testing.T) {
	videos := testsupport.ReferenceCatalog()
	reversed := slices.Clone(videos)
	slices.Reverse(reversed)

	a, _ := pairs.Reproduce(testsupport.ReferenceUserID, videos, pairs.DefaultCount)
	b, _ := pairs.Reproduce(testsupport.ReferenceUserID, reversed, pairs.DefaultCount)
	if slices.Equal(a.Pairs, b.Pairs) {
		t.Fatal("expected permuted catalog to change the session")
	}
	if p := b.Pairs[0]; p.VideoA != "videos/interpolated_video_film.mp4" || p.VideoB != "videos/original_video_1280_720.mp4" {
		t.Fatalf("unexpected first pair for reversed catalog: %+v", p)
	}
}

func TestSessionHasNoRepeatsAndBoundedLength(t *testing.T) {
	for n := 2; n <= 9; n++ {
		videos := make([]string, n)
		for i := range videos {
			videos[i] = fmt.Sprintf("v%d.mp4", i)
		}
		for _, id := range []string{"a", "b", "ADBKIeixrc", "user@example.com"} {
			session, err := pairs.Reproduce(id, videos, pairs.DefaultCount)
			if err != nil {
				t.Fatalf("Reproduce: %v", err)
			}
			if want := min(pairs.DefaultCount, pairs.Total(n)); len(session.Pairs) != want {
				t.Fatalf("n=%d id=%s: got %d pairs want %d", n, id, len(session.Pairs), want)
			}
			seen := map[int]bool{}
			for _, p := range session.Pairs {
				if seen[p.Ordinal] {
					t.Fatalf("n=%d id=%s: repeated ordinal %d", n, id, p.Ordinal)
				}
				seen[p.Ordinal] = true
			}
		}
	}
}

func TestReproduceInsufficientCatalog(t *testing.T) {
	for _, videos := range [][]string{nil, {"only.mp4"}} {
		_, err := pairs.Reproduce("alice", videos, pairs.DefaultCount)
		if !errors.Is(err, pairs.ErrInsufficientCatalog) {
			t.Fatalf("expected ErrInsufficientCatalog, got %v", err)
		}
	}
}

func TestReproduceNonPositiveCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		session, err := pairs.Reproduce("alice", testsupport.ReferenceCatalog(), count)
		if err != nil {
			t.Fatalf("count %d: %v", count, err)
		}
		if session.Pairs == nil || len(session.Pairs) != 0 {
			t.Fatalf("count %d: expected empty non-nil pairs, got %v", count, session.Pairs)
		}
	}
}

func TestSampleDoesNotMutateUniverse(t *testing.T) {
	universe := pairs.BuildUniverse(8)
	before := slices.Clone(universe)
	pairs.Sample(universe, 5, 1432047003)
	if !slices.Equal(universe, before) {
		t.Fatal("universe modified by Sample")
	}
}

func TestSampleExhaustsSmallUniverse(t *testing.T) {
	got := pairs.Sample(pairs.BuildUniverse(3), 10, seed.FromString("alice"))
	ordinals := make([]int, len(got))
	for i, p := range got {
		ordinals[i] = p.Ordinal
	}
	if want := []int{3, 1, 2}; !slices.Equal(ordinals, want) {
		t.Fatalf("got %v want %v", ordinals, want)
	}
}

func TestDrawIndexClampsAtBoundary(t *testing.T) {
	tests := []struct {
		r    float64
		size int
		want int
	}{
		{0, 5, 0},
		{0.5, 5, 2},
		{0.9999999, 5, 4},
		{1, 5, 4},
		{math.Nextafter(1, 0), 28, 27},
		{0.3, 0, 0},
	}
	for _, tc := range tests {
		if got := pairs.DrawIndex(tc.r, tc.size); got != tc.want {
			t.Fatalf("DrawIndex(%v, %d): got %d want %d", tc.r, tc.size, got, tc.want)
		}
	}
}

func TestOrientUsesSelectionIndexOffset(t *testing.T) {
	videos := []string{"left.mp4", "right.mp4"}
	p := pairs.Pair{Ordinal: 1, Left: 0, Right: 1}

	// Seed "a" + 0 draws below the threshold; "test" draws above it.
	plain := pairs.Orient(videos, p, 0, seed.FromString("a"))
	if plain.Swapped || plain.VideoA != "left.mp4" || plain.VideoB != "right.mp4" {
		t.Fatalf("unexpected orientation: %+v", plain)
	}
	swapped := pairs.Orient(videos, p, 0, seed.FromString("test"))
	if !swapped.Swapped || swapped.VideoA != "right.mp4" || swapped.VideoB != "left.mp4" {
		t.Fatalf("unexpected orientation: %+v", swapped)
	}
}

func TestSessionsAreIndependentAcrossGoroutines(t *testing.T) {
	videos := testsupport.ReferenceCatalog()
	want, _ := pairs.Reproduce(testsupport.ReferenceUserID, videos, pairs.DefaultCount)

	results := make(chan pairs.Session, 16)
	for range 16 {
		go func() {
			s, _ := pairs.Reproduce(testsupport.ReferenceUserID, videos, pairs.DefaultCount)
			results <- s
		}()
	}
	for range 16 {
		if got := <-results; !slices.Equal(got.Pairs, want.Pairs) {
			t.Fatal("concurrent session differs")
		}
	}
}
