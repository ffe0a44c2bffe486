package pairs

import (
	"errors"
	"fmt"

	"cgreplay/internal/seed"
)

// DefaultCount is the number of pairs shown per session.
const DefaultCount = 5

// ErrInsufficientCatalog indicates a catalog too small to form a single pair.
var ErrInsufficientCatalog = errors.New("insufficient catalog")

// Session is the ordered, oriented set of pairs assigned to one user.
type Session struct {
	UserID string         `json:"user_id"`
	Seed   uint32         `json:"seed"`
	Pairs  []OrientedPair `json:"pairs"`
}

// Ordinals lists the selected pair ordinals in selection order.
func (s Session) Ordinals() []int {
	out := make([]int, len(s.Pairs))
	for i, p := range s.Pairs {
		out[i] = p.Ordinal
	}
	return out
}

// Reproduce rebuilds the session a user was shown for the given catalog.
func Reproduce(userID string, videos []string, count int) (Session, error) {
	return FromSeed(userID, seed.FromString(userID), videos, count)
}

// FromSeed builds a session from an explicit user seed. userID is carried
// through for reporting only.
func FromSeed(userID string, userSeed uint32, videos []string, count int) (Session, error) {
	if len(videos) < 2 {
		return Session{}, fmt.Errorf("%w: %d videos, need at least 2", ErrInsufficientCatalog, len(videos))
	}

	selected := Sample(BuildUniverse(len(videos)), count, userSeed)
	oriented := make([]OrientedPair, len(selected))
	for i, p := range selected {
		oriented[i] = Orient(videos, p, i, userSeed)
	}
	return Session{UserID: userID, Seed: userSeed, Pairs: oriented}, nil
}
