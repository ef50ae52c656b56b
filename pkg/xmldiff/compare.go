package xmldiff

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Compare reports whether gold and test are equal under the given
// tolerances.
//
// Both values are whitespace-normalized first. When both parse as numbers,
// they are equal if |gold-test| <= absZero or
// |gold-test| <= relTol*max(|gold|,|test|). When both are whitespace-separated
// lists of the same number of numbers, each pair is compared that way.
// Otherwise the normalized strings must be identical.
func Compare(gold, test string, absZero, relTol float64) bool {
	return compareLeaf(gold, test, absZero, relTol).equal
}

// CompareValues compares two leaf values using cfg's tolerances. When the
// values differ it also returns the mismatch kind: KindNumeric for numbers
// outside tolerance, KindText for anything else.
func CompareValues(gold, test string, cfg Config) (bool, MismatchKind) {
	res := compareLeaf(gold, test, cfg.AbsZero, cfg.RelTol)
	if res.equal {
		return true, ""
	}
	if res.numeric {
		return false, KindNumeric
	}
	return false, KindText
}

// FloatsEqual applies the tolerance rule to two numbers.
// NaN is never equal to anything, including NaN. Infinities are equal only
// to an infinity of the same sign.
func FloatsEqual(gold, test, absZero, relTol float64) bool {
	if math.IsNaN(gold) || math.IsNaN(test) {
		return false
	}
	if math.IsInf(gold, 0) || math.IsInf(test, 0) {
		return gold == test
	}
	diff := math.Abs(gold - test)
	if diff <= absZero {
		return true
	}
	return diff <= relTol*math.Max(math.Abs(gold), math.Abs(test))
}

// NormalizeSpace trims s and collapses internal whitespace runs to a single
// space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type leafResult struct {
	equal   bool
	numeric bool
	// detail describes the first differing token of a numeric list.
	detail string
}

func compareLeaf(gold, test string, absZero, relTol float64) leafResult {
	g := NormalizeSpace(gold)
	t := NormalizeSpace(test)

	gf, gok := parseNumber(g)
	tf, tok := parseNumber(t)
	if gok && tok {
		return leafResult{equal: FloatsEqual(gf, tf, absZero, relTol), numeric: true}
	}

	if res, ok := compareNumberLists(g, t, absZero, relTol); ok {
		return res
	}

	return leafResult{equal: g == t}
}

// compareNumberLists handles array payloads such as "0 0.5 1". The second
// result is false when either side is not a list of numbers of equal length.
func compareNumberLists(gold, test string, absZero, relTol float64) (leafResult, bool) {
	gTokens := strings.Split(gold, " ")
	tTokens := strings.Split(test, " ")
	if len(gTokens) < 2 || len(gTokens) != len(tTokens) {
		return leafResult{}, false
	}

	gVals, ok := parseNumbers(gTokens)
	if !ok {
		return leafResult{}, false
	}
	tVals, ok := parseNumbers(tTokens)
	if !ok {
		return leafResult{}, false
	}

	for i := range gVals {
		if !FloatsEqual(gVals[i], tVals[i], absZero, relTol) {
			return leafResult{
				numeric: true,
				detail:  fmt.Sprintf("value %d of %d: %s vs %s", i+1, len(gVals), gTokens[i], tTokens[i]),
			}, true
		}
	}
	return leafResult{equal: true, numeric: true}, true
}

func parseNumbers(tokens []string) ([]float64, bool) {
	vals := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, ok := parseNumber(tok)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// parseNumber parses a normalized value. Literals beyond the float64 range
// parse as the infinity of their sign.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}
