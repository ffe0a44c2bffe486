package reference

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoRecords indicates a source contained no usable rows.
var ErrNoRecords = errors.New("no reference records")

// Entry is one logged pair. Swapped is nil when the log predates the swap
// flag.
type Entry struct {
	Label   string `json:"scene"`
	VideoA  string `json:"videoA"`
	VideoB  string `json:"videoB"`
	Swapped *bool  `json:"swapped,omitempty"`
}

// Ordinal parses the entry label ("Pair N" or "N"). It returns false for
// labels in any other form.
func (e Entry) Ordinal() (int, bool) {
	label := strings.TrimSpace(e.Label)
	if rest, ok := strings.CutPrefix(label, "Pair"); ok {
		label = strings.TrimSpace(rest)
	}
	n, err := strconv.Atoi(label)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Record is the logged session of one user.
type Record struct {
	UserID   string  `json:"user_id"`
	Entries  []Entry `json:"entries"`
	ListHash string  `json:"list_hash,omitempty"`
}

// Labels returns the entry labels in logged order.
func (r Record) Labels() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Label
	}
	return out
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
