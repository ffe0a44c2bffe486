// Package seed derives the 32-bit session seed from a participant identifier.
//
// The derivation is a djb2-style rolling hash over Unicode code points with
// unsigned 32-bit wraparound after every step. It must stay bit-identical to
// the web client that drew the pairs, so the arithmetic here is frozen: any
// change silently reassigns sessions.
//
// FromStringLegacy reproduces an older variant that accumulated in signed
// 32-bit integers and took the absolute value at the end. It exists only to
// flag identifiers whose seed differs between the two; sessions are always
// built from FromString.
package seed
