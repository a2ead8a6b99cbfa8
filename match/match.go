// Package match provides the pluggable predicates used to compare a
// field's current value against a query target.
//
// Every predicate is pure: inputs are never mutated and an unset/empty
// field value never matches a non-empty target.
package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Method names a comparison strategy, selected at query time.
type Method string

const (
	// Exact is case-sensitive string equality, with numeric coercion when
	// both sides parse as numbers (exact floating comparison, no tolerance).
	Exact Method = "exact"

	// Words matches when every whitespace-delimited token of the target
	// appears as a substring of the value, case-insensitively, in any order.
	Words Method = "words"

	// Substring matches when the target is a case-insensitive substring of
	// the value.
	Substring Method = "substring"

	// Regexp matches the value against the target interpreted as a regular
	// expression.
	Regexp Method = "regexp"

	// Range matches numeric values against a "min..max" target; either
	// bound may be omitted.
	Range Method = "range"

	// All matches unconditionally and is used to select every record of a
	// type with no field filter.
	All Method = "all"
)

// ErrUnknownMethod indicates a match method name with no registered
// predicate.
type ErrUnknownMethod struct {
	Method Method
}

func (e *ErrUnknownMethod) Error() string {
	return fmt.Sprintf("unknown match method: %q", e.Method)
}

// Predicate compares a field value against a target value.
type Predicate func(fieldValue, targetValue string) bool

// For returns the predicate registered under the given method name.
func For(m Method) (Predicate, error) {
	switch m {
	case Exact:
		return matchExact, nil
	case Words, "word":
		return matchWords, nil
	case Substring:
		return matchSubstring, nil
	case Regexp:
		return matchRegexp, nil
	case Range:
		return matchRange, nil
	case All:
		return matchAll, nil
	default:
		return nil, &ErrUnknownMethod{Method: m}
	}
}

func matchExact(fieldValue, targetValue string) bool {
	if fieldValue == targetValue {
		return true
	}
	// Numeric coercion: "1.0" and "1" compare equal, exact float compare.
	fv, err1 := strconv.ParseFloat(fieldValue, 64)
	tv, err2 := strconv.ParseFloat(targetValue, 64)
	return err1 == nil && err2 == nil && fv == tv
}

func matchWords(fieldValue, targetValue string) bool {
	if fieldValue == "" {
		return targetValue == ""
	}
	haystack := strings.ToUpper(fieldValue)
	for _, word := range strings.Fields(strings.ToUpper(targetValue)) {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}

func matchSubstring(fieldValue, targetValue string) bool {
	if fieldValue == "" {
		return targetValue == ""
	}
	return strings.Contains(strings.ToUpper(fieldValue), strings.ToUpper(targetValue))
}

func matchRegexp(fieldValue, targetValue string) bool {
	if fieldValue == "" && targetValue != "" {
		return false
	}
	re, err := regexp.Compile(targetValue)
	if err != nil {
		return false
	}
	return re.MatchString(fieldValue)
}

// matchRange parses the target as "min..max". A missing bound is open:
// "..10" matches anything at most 10, "5.." anything at least 5.
func matchRange(fieldValue, targetValue string) bool {
	v, err := strconv.ParseFloat(fieldValue, 64)
	if err != nil {
		return false
	}

	lo, hi, found := strings.Cut(targetValue, "..")
	if !found {
		return false
	}
	if lo != "" {
		min, err := strconv.ParseFloat(lo, 64)
		if err != nil || v < min {
			return false
		}
	}
	if hi != "" {
		max, err := strconv.ParseFloat(hi, 64)
		if err != nil || v > max {
			return false
		}
	}
	return true
}

func matchAll(_, _ string) bool { return true }
