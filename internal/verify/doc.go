// Package verify compares reproduced sessions with what participants were
// logged as seeing.
//
// A Report lists every position where the two disagree and classifies the
// most likely cause: a drifted catalog order, a divergent selection, an
// orientation difference, or a seed computed with the legacy hash variant.
// Mismatches are data; nothing here corrects either side.
package verify
