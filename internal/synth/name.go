package synth

import (
	"strconv"
	"strings"
)

const variantMarker = "_v"

// Canonical strips a trailing "_v<N>" suffix from name and reports N.
// Names without a well-formed suffix are returned unchanged with variant 0,
// so "x_v0" and "x" canonicalize identically.
func Canonical(name string) (string, uint32) {
	idx := strings.LastIndex(name, variantMarker)
	if idx < 0 {
		return name, 0
	}
	digits := name[idx+len(variantMarker):]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return name, 0
	}
	variant, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return name, 0
	}
	return name[:idx], uint32(variant)
}

// SeedFunc derives the numeric tool seed from a canonical tool name.
type SeedFunc func(canonical string) uint32

// TrailingDigitsSeed reads the last width characters of the name as a decimal
// number. Names that are too short or whose tail is not numeric seed to 0.
func TrailingDigitsSeed(width int) SeedFunc {
	return func(canonical string) uint32 {
		if width <= 0 || len(canonical) < width {
			return 0
		}
		n, err := strconv.ParseUint(canonical[len(canonical)-width:], 10, 32)
		if err != nil {
			return 0
		}
		return uint32(n)
	}
}

// ComponentSumSeed sums the byte values of every underscore-separated
// component of the name.
func ComponentSumSeed(canonical string) uint32 {
	var sum uint32
	for _, part := range strings.Split(canonical, "_") {
		for i := 0; i < len(part); i++ {
			sum += uint32(part[i])
		}
	}
	return sum
}
