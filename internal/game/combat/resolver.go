package combat

import (
	"math"

	"github.com/jcalloway/riftwood/internal/game/dice"
)

// Formula describes how one damaging hit is computed. Skills and items supply
// their own formulas; the basic attack uses a fixed 1d6 with full attack
// scaling. AttackerScale carries an explicit value; content loading defaults
// a missing scaling factor to 1, and items pass 0.
type Formula struct {
	// DiceExpression is rolled for the variable component; empty rolls nothing.
	DiceExpression string
	// FlatPower is added to the roll unconditionally.
	FlatPower int
	// AttackerScale multiplies the attacker's attack stat (floored).
	AttackerScale float64
	// IgnoreArmor skips mitigation entirely: true piercing damage.
	IgnoreArmor bool
	// MinimumDamage floors the final damage after mitigation.
	MinimumDamage int
}

// DamageResult is the full audit of one damage resolution.
//
// Invariant: FinalDamage >= 0 and Blocked >= 0.
type DamageResult struct {
	// RollTotal is the evaluated dice expression, 0 when no dice were rolled.
	RollTotal int
	// RawDamage is the pre-mitigation damage: roll + flat power + scaled attack.
	RawDamage int
	// FinalDamage is what the target actually takes.
	FinalDamage int
	// Blocked is the amount absorbed by armor.
	Blocked int
}

// ResolveDamage computes the damage of one hit from attacker against target.
// It is pure: it reads combatant stats and the guard flag but mutates nothing,
// so it can be exercised independently of the Engine.
//
// Guarding doubles the target's effective armor for this resolution only.
//
// Precondition: attacker, target, and src must be non-nil.
// Postcondition: Blocked == min(RawDamage, effective armor) when armor is not
// ignored; FinalDamage == max(MinimumDamage, RawDamage - Blocked) >= 0.
// Returns an error (wrapping dice.ErrInvalidExpression) only for a malformed
// dice expression, which is a programmer error, not a runtime condition.
func ResolveDamage(attacker, target *Combatant, f Formula, src dice.Source) (DamageResult, error) {
	rollTotal := 0
	if f.DiceExpression != "" {
		roll, err := dice.RollExpr(f.DiceExpression, src)
		if err != nil {
			return DamageResult{}, err
		}
		rollTotal = roll.Total()
	}

	scaled := int(math.Floor(float64(attacker.Attack) * f.AttackerScale))
	raw := rollTotal + f.FlatPower + scaled
	if raw < 0 {
		raw = 0
	}

	if f.IgnoreArmor {
		return DamageResult{
			RollTotal:   rollTotal,
			RawDamage:   raw,
			FinalDamage: max(f.MinimumDamage, raw),
			Blocked:     0,
		}, nil
	}

	armor := target.Armor
	if target.Guarding {
		armor *= 2
	}
	blocked := min(raw, armor)

	return DamageResult{
		RollTotal:   rollTotal,
		RawDamage:   raw,
		FinalDamage: max(f.MinimumDamage, raw-blocked),
		Blocked:     blocked,
	}, nil
}
