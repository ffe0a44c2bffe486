// Package stream produces the seeded pseudo-random sequence that drives pair
// selection and orientation.
//
// A Stream is a 32-bit linear congruential generator (multiplier 1664525,
// increment 1013904223) whose outputs are scaled into [0,1). Every Stream owns
// its state; two streams built from the same seed yield the same values in the
// same order, and nothing in this package touches a shared random source.
package stream
