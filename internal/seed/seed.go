package seed

import "golang.org/x/text/unicode/norm"

// Initial is the djb2 starting accumulator.
const Initial uint32 = 5381

// FromString hashes s into a session seed. Each code point updates the
// accumulator as acc = acc*33 + code modulo 2^32.
func FromString(s string) uint32 {
	acc := Initial
	for _, r := range s {
		acc = (acc << 5) + acc + uint32(r)
	}
	return acc
}

// FromStringLegacy hashes s the way the historical variant did: signed
// 32-bit accumulation with abs() applied once at the end.
func FromStringLegacy(s string) uint32 {
	acc := int32(Initial)
	for _, r := range s {
		acc = (acc << 5) + acc + int32(r)
	}
	if acc < 0 {
		// abs(math.MinInt32) overflows int32; the uint32 conversion keeps 2^31.
		return uint32(-int64(acc))
	}
	return uint32(acc)
}

// Diverges reports whether the legacy variant yields a different seed for s.
func Diverges(s string) bool {
	return FromString(s) != FromStringLegacy(s)
}

// Offset adds n to base with 32-bit wraparound.
func Offset(base uint32, n int) uint32 {
	return base + uint32(n)
}

// IsNormalized reports whether s is already in Unicode NFC form. Identifiers
// that are not may have been typed or transmitted with a different
// normalization than the browser hashed, which changes the seed.
func IsNormalized(s string) bool {
	return norm.NFC.IsNormalString(s)
}
