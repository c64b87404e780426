package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression limits. Content is validated before it reaches the engine, so
// these are safety rails against pathological expressions, not tuning knobs.
const (
	// MaxCount is the largest number of dice a single expression may roll.
	MaxCount = 100
	// MaxSides is the largest number of faces a single die may have.
	MaxSides = 1000
)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: 1 <= Count <= MaxCount and 1 <= Sides <= MaxSides after successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a dice expression string into an Expression.
// Supported grammar: (\d*)d(\d+)([+-]\d+)?, e.g. "d20", "2d6", "2d6+3", "3d8-2".
// The count defaults to 1 when omitted.
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or an error wrapping ErrInvalidExpression.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}

	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("%w: missing 'd' in %q", ErrInvalidExpression, raw)
	}

	// Parse count (the part before 'd'); defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: bad die count in %q", ErrInvalidExpression, raw)
		}
	}
	if count < 1 {
		return Expression{}, fmt.Errorf("%w: die count must be >= 1 in %q", ErrInvalidExpression, raw)
	}
	if count > MaxCount {
		return Expression{}, fmt.Errorf("%w: die count %d exceeds %d in %q", ErrInvalidExpression, count, MaxCount, raw)
	}

	// Split sides and optional modifier. The first '+' or '-' after the 'd'
	// starts the modifier; a leading sign on the sides themselves is malformed.
	rest := s[dIdx+1:]
	modOffset := strings.IndexAny(rest, "+-")
	if modOffset == 0 {
		return Expression{}, fmt.Errorf("%w: bad die sides in %q", ErrInvalidExpression, raw)
	}

	sidesStr := rest
	modStr := ""
	if modOffset > 0 {
		sidesStr = rest[:modOffset]
		modStr = rest[modOffset:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: bad die sides in %q", ErrInvalidExpression, raw)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("%w: die sides must be >= 1 in %q", ErrInvalidExpression, raw)
	}
	if sides > MaxSides {
		return Expression{}, fmt.Errorf("%w: die sides %d exceeds %d in %q", ErrInvalidExpression, sides, MaxSides, raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: bad modifier in %q", ErrInvalidExpression, raw)
		}
	}

	return Expression{
		Raw:      raw,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}, nil
}
