package operators

import (
	"cmp"
	"regexp"
	"strings"
	"time"
)

func registerComparison[T cmp.Ordered](reg *OperatorRegistry) {
	RegisterBinary[T, T](reg, OperatorEq, func(a, b T) (any, error) { return a == b, nil })
	RegisterBinary[T, T](reg, OperatorNe, func(a, b T) (any, error) { return a != b, nil })
	RegisterBinary[T, T](reg, OperatorGt, func(a, b T) (any, error) { return a > b, nil })
	RegisterBinary[T, T](reg, OperatorGte, func(a, b T) (any, error) { return a >= b, nil })
	RegisterBinary[T, T](reg, OperatorLt, func(a, b T) (any, error) { return a < b, nil })
	RegisterBinary[T, T](reg, OperatorLte, func(a, b T) (any, error) { return a <= b, nil })
}

// NewDefaultRegistry creates a registry with PostgreSQL-compatible operators
// for the Go types query parameters coerce to.
func NewDefaultRegistry() *OperatorRegistry {
	reg := NewOperatorRegistry()

	// bool
	RegisterBinary[bool, bool](reg, OperatorEq, func(a, b bool) (any, error) { return a == b, nil })
	RegisterBinary[bool, bool](reg, OperatorNe, func(a, b bool) (any, error) { return a != b, nil })
	RegisterBinary[bool, bool](reg, OperatorIs, func(a, b bool) (any, error) { return a == b, nil })
	RegisterUnary[bool](reg, OperatorNot, func(a bool) (any, error) { return !a, nil })

	registerComparison[int](reg)
	registerComparison[int64](reg)
	registerComparison[float64](reg)
	registerComparison[string](reg)

	// string pattern matching
	RegisterBinary[string, string](reg, OperatorLike, func(s, pattern string) (any, error) {
		return likeMatch(s, pattern, false)
	})
	RegisterBinary[string, string](reg, OperatorILike, func(s, pattern string) (any, error) {
		return likeMatch(s, pattern, true)
	})
	RegisterBinary[string, string](reg, OperatorRegex, func(s, pattern string) (any, error) {
		return regexMatch(s, pattern, false)
	})
	RegisterBinary[string, string](reg, OperatorRegexCI, func(s, pattern string) (any, error) {
		return regexMatch(s, pattern, true)
	})

	// time.Time (timestamp)
	RegisterBinary[time.Time, time.Time](reg, OperatorEq, func(a, b time.Time) (any, error) { return a.Equal(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorNe, func(a, b time.Time) (any, error) { return !a.Equal(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorGt, func(a, b time.Time) (any, error) { return a.After(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorGte, func(a, b time.Time) (any, error) { return !a.Before(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorLt, func(a, b time.Time) (any, error) { return a.Before(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorLte, func(a, b time.Time) (any, error) { return !a.After(b), nil })

	return reg
}

// likeMatch evaluates a SQL LIKE pattern (% and _ wildcards) by
// translating it to an anchored regular expression.
func likeMatch(s, pattern string, caseInsensitive bool) (bool, error) {
	var sb strings.Builder
	sb.WriteString("^")
	if caseInsensitive {
		sb.WriteString("(?i)")
	}
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

func regexMatch(s, pattern string, caseInsensitive bool) (bool, error) {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}
