// Package pairs rebuilds the ordered, oriented video pairs a participant was
// shown.
//
// The pipeline is pure: BuildUniverse enumerates every i<j index pair of the
// catalog in row-major order, Sample pops pairs from a shrinking pool using
// one seeded stream, and Orient decides each pair's left/right placement from
// a fresh stream seeded with the user seed plus the selection index.
// Reproduce chains the three from a user identifier.
//
// Each call owns its pool and streams, so sessions for different users may be
// computed concurrently without coordination.
package pairs
