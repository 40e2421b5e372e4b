package render

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// intText prints an integer literal in base 10, whatever base the source
// used. Digit separators go first: in math mode "_" would start a subscript.
func intText(src string) string {
	digits := strings.ReplaceAll(src, "_", "")
	base := 10
	if len(digits) > 1 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1])) {
		base = 0
	}
	var v big.Int
	if _, ok := v.SetString(digits, base); ok {
		return v.String()
	}
	return digits
}

// floatText prints a float literal the way Python's str() does: shortest
// round-trip digits, fixed notation for decimal exponents in [-4, 16) with a
// trailing ".0" when integral, scientific notation otherwise.
func floatText(src string) string {
	digits := strings.ReplaceAll(src, "_", "")
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil && !math.IsInf(f, 0) {
		return digits
	}
	if math.IsInf(f, 0) {
		return "inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	_, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	if exp < -4 || exp >= 16 {
		return sci
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}
