// Package dice provides the core randomness abstraction and roll-result types
// for the Riftwood combat engine.
package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidDie is returned when a die is requested with fewer than one side.
var ErrInvalidDie = errors.New("dice: invalid die")

// ErrInvalidExpression is returned when a dice expression string is malformed
// or falls outside the supported count/sides ranges.
var ErrInvalidExpression = errors.New("dice: invalid expression")

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie rolls a single die with the given number of sides.
//
// Precondition: src must be non-nil.
// Postcondition: on success the result is a uniform integer in [1, sides];
// returns ErrInvalidDie when sides < 1.
func RollDie(sides int, src Source) (int, error) {
	if sides < 1 {
		return 0, fmt.Errorf("%w: sides must be >= 1, got %d", ErrInvalidDie, sides)
	}
	return src.Intn(sides) + 1, nil
}

// RollWithAdvantage rolls a die with the given sides twice and keeps the
// higher result. The two draws are independent, not a resample of one draw.
//
// Postcondition: returns ErrInvalidDie when sides < 1.
func RollWithAdvantage(sides int, src Source) (int, error) {
	first, err := RollDie(sides, src)
	if err != nil {
		return 0, err
	}
	second, err := RollDie(sides, src)
	if err != nil {
		return 0, err
	}
	return max(first, second), nil
}

// RollWithDisadvantage rolls a die with the given sides twice and keeps the
// lower result. The two draws are independent, not a resample of one draw.
//
// Postcondition: returns ErrInvalidDie when sides < 1.
func RollWithDisadvantage(sides int, src Source) (int, error) {
	first, err := RollDie(sides, src)
	if err != nil {
		return 0, err
	}
	second, err := RollDie(sides, src)
	if err != nil {
		return 0, err
	}
	return min(first, second), nil
}
