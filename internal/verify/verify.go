package verify

import (
	"fmt"
	"slices"
	"strconv"

	"cgreplay/internal/catalog"
	"cgreplay/internal/pairs"
	"cgreplay/internal/reference"
	"cgreplay/internal/seed"
)

// Kind classifies a single mismatch.
type Kind string

const (
	KindLabel       Kind = "label"
	KindVideos      Kind = "videos"
	KindOrientation Kind = "orientation"
	KindMissing     Kind = "missing"
	KindExtra       Kind = "extra"
)

// Cause is the overall explanation attached to a report.
type Cause string

const (
	CauseNone         Cause = ""
	CauseCatalogOrder Cause = "catalog_order"
	CauseSelection    Cause = "selection"
	CauseOrientation  Cause = "orientation"
	CauseLegacySeed   Cause = "legacy_seed"
)

// Mismatch describes one position where the logged and reproduced pairs
// differ. Position is 1-based.
type Mismatch struct {
	Position      int    `json:"position"`
	Kind          Kind   `json:"kind"`
	ExpectedLabel string `json:"expected_label,omitempty"`
	ActualLabel   string `json:"actual_label,omitempty"`
	ExpectedA     string `json:"expected_a,omitempty"`
	ActualA       string `json:"actual_a,omitempty"`
	ExpectedB     string `json:"expected_b,omitempty"`
	ActualB       string `json:"actual_b,omitempty"`
}

func (m Mismatch) String() string {
	switch m.Kind {
	case KindMissing:
		return fmt.Sprintf("#%d missing: expected %s - %s vs %s", m.Position, m.ExpectedLabel, m.ExpectedA, m.ExpectedB)
	case KindExtra:
		return fmt.Sprintf("#%d extra: generated %s - %s vs %s", m.Position, m.ActualLabel, m.ActualA, m.ActualB)
	default:
		return fmt.Sprintf("#%d %s: generated %s - %s vs %s; expected %s - %s vs %s",
			m.Position, m.Kind, m.ActualLabel, m.ActualA, m.ActualB, m.ExpectedLabel, m.ExpectedA, m.ExpectedB)
	}
}

// Report is the outcome of checking one user.
type Report struct {
	UserID       string               `json:"user_id"`
	Seed         uint32               `json:"seed"`
	Expected     []reference.Entry    `json:"expected"`
	Actual       []pairs.OrientedPair `json:"actual"`
	Mismatches   []Mismatch           `json:"mismatches"`
	Cause        Cause                `json:"cause,omitempty"`
	HashMismatch bool                 `json:"hash_mismatch,omitempty"`
}

// Matched reports whether the reproduced session agrees with the log.
func (r Report) Matched() bool {
	return len(r.Mismatches) == 0
}

// Compare diffs a logged record against a reproduced session position by
// position. The swap flag is compared only when the log recorded it.
func Compare(record reference.Record, session pairs.Session) Report {
	report := Report{
		UserID:     record.UserID,
		Seed:       session.Seed,
		Expected:   record.Entries,
		Actual:     session.Pairs,
		Mismatches: []Mismatch{},
	}

	shared := min(len(record.Entries), len(session.Pairs))
	for i := 0; i < shared; i++ {
		exp, act := record.Entries[i], session.Pairs[i]
		kind, ok := comparePair(exp, act)
		if ok {
			continue
		}
		report.Mismatches = append(report.Mismatches, Mismatch{
			Position:      i + 1,
			Kind:          kind,
			ExpectedLabel: exp.Label,
			ActualLabel:   act.Scene,
			ExpectedA:     exp.VideoA,
			ActualA:       act.VideoA,
			ExpectedB:     exp.VideoB,
			ActualB:       act.VideoB,
		})
	}
	for i := shared; i < len(record.Entries); i++ {
		exp := record.Entries[i]
		report.Mismatches = append(report.Mismatches, Mismatch{
			Position:      i + 1,
			Kind:          KindMissing,
			ExpectedLabel: exp.Label,
			ExpectedA:     exp.VideoA,
			ExpectedB:     exp.VideoB,
		})
	}
	for i := shared; i < len(session.Pairs); i++ {
		act := session.Pairs[i]
		report.Mismatches = append(report.Mismatches, Mismatch{
			Position:    i + 1,
			Kind:        KindExtra,
			ActualLabel: act.Scene,
			ActualA:     act.VideoA,
			ActualB:     act.VideoB,
		})
	}
	report.Cause = classify(report.Mismatches)
	return report
}

func comparePair(exp reference.Entry, act pairs.OrientedPair) (Kind, bool) {
	if !sameLabel(exp, act) {
		return KindLabel, false
	}
	if exp.VideoA == act.VideoA && exp.VideoB == act.VideoB {
		if exp.Swapped != nil && *exp.Swapped != act.Swapped {
			return KindOrientation, false
		}
		return "", true
	}
	if exp.VideoA == act.VideoB && exp.VideoB == act.VideoA {
		return KindOrientation, false
	}
	return KindVideos, false
}

func sameLabel(exp reference.Entry, act pairs.OrientedPair) bool {
	if exp.Label == act.Scene {
		return true
	}
	n, ok := exp.Ordinal()
	return ok && n == act.Ordinal
}

func classify(mismatches []Mismatch) Cause {
	if len(mismatches) == 0 {
		return CauseNone
	}
	var videos, orientation bool
	for _, m := range mismatches {
		switch m.Kind {
		case KindLabel, KindMissing, KindExtra:
			return CauseSelection
		case KindVideos:
			videos = true
		case KindOrientation:
			orientation = true
		}
	}
	switch {
	case videos:
		return CauseCatalogOrder
	case orientation:
		return CauseOrientation
	default:
		return CauseNone
	}
}

// Check reproduces the user's session from videos and compares it with the
// record. When the selection differs and the legacy seed variant reproduces
// the logged labels, the cause is reported as legacy_seed.
func Check(record reference.Record, videos []string, count int) (Report, error) {
	session, err := pairs.Reproduce(record.UserID, videos, count)
	if err != nil {
		return Report{}, err
	}
	report := Compare(record, session)

	if report.Cause == CauseSelection && seed.Diverges(record.UserID) {
		legacy, err := pairs.FromSeed(record.UserID, seed.FromStringLegacy(record.UserID), videos, count)
		if err == nil && labelsMatch(record, legacy) {
			report.Cause = CauseLegacySeed
		}
	}
	if record.ListHash != "" {
		report.HashMismatch = record.ListHash != strconv.FormatUint(uint64(catalog.ListHash(videos)), 10)
	}
	return report, nil
}

func labelsMatch(record reference.Record, session pairs.Session) bool {
	if len(record.Entries) != len(session.Pairs) {
		return false
	}
	return slices.EqualFunc(record.Entries, session.Pairs, sameLabel)
}

// Summary counts reports by outcome.
type Summary struct {
	Users      int           `json:"users"`
	Matched    int           `json:"matched"`
	Mismatched int           `json:"mismatched"`
	ByCause    map[Cause]int `json:"by_cause,omitempty"`
}

// Summarize aggregates reports.
func Summarize(reports []Report) Summary {
	s := Summary{Users: len(reports), ByCause: map[Cause]int{}}
	for _, r := range reports {
		if r.Matched() {
			s.Matched++
			continue
		}
		s.Mismatched++
		s.ByCause[r.Cause]++
	}
	return s
}
