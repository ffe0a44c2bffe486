package pairs

import (
	"cgreplay/internal/seed"
	"cgreplay/internal/stream"
)

// SwapThreshold is the draw at or above which a pair is displayed swapped.
const SwapThreshold = 0.5

// OrientedPair is a pair as displayed. When Swapped, VideoA is the catalog
// entry at the pair's Right index and VideoB the one at Left.
type OrientedPair struct {
	Ordinal int    `json:"ordinal"`
	Scene   string `json:"scene"`
	VideoA  string `json:"video_a"`
	VideoB  string `json:"video_b"`
	Swapped bool   `json:"swapped"`
}

// Orient resolves the display orientation of the pair drawn at selectionIndex
// (0-based position in the sampler's output) for a session seeded with
// userSeed.
func Orient(videos []string, p Pair, selectionIndex int, userSeed uint32) OrientedPair {
	r := stream.First(seed.Offset(userSeed, selectionIndex))
	swapped := r >= SwapThreshold

	out := OrientedPair{
		Ordinal: p.Ordinal,
		Scene:   p.Label(),
		VideoA:  videos[p.Left],
		VideoB:  videos[p.Right],
		Swapped: swapped,
	}
	if swapped {
		out.VideoA, out.VideoB = out.VideoB, out.VideoA
	}
	return out
}
