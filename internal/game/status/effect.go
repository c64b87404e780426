// Package status implements timed status effects and the per-combatant ledger
// that applies, stacks, and ticks them.
package status

// Type identifies a status effect. The set is closed at the content layer;
// the ledger itself treats types opaquely except for the named constants the
// combat engine inspects directly.
type Type string

// Effect types the engine and AI policies reference by name.
const (
	Stunned  Type = "stunned"
	Poisoned Type = "poisoned"
	Buffed   Type = "buffed"
	Guarding Type = "guarding"
	Weakened Type = "weakened"
	Burning  Type = "burning"
	Regen    Type = "regen"
)

// Window declares the turn phase at which an effect's periodic tick fires.
type Window string

const (
	TurnStart Window = "turnStart"
	TurnEnd   Window = "turnEnd"
)

// Rule is the resolution policy when an effect of the same Type is reapplied.
type Rule string

const (
	// Replace discards the existing effect and keeps the new one.
	Replace Rule = "replace"
	// StackDuration adds the new duration onto the existing effect.
	StackDuration Rule = "stackDuration"
	// StackIntensity increments the stack count and keeps the longer duration.
	StackIntensity Rule = "stackIntensity"
)

// Effect is one timed modifier attached to a combatant.
//
// Invariant: Duration >= 0; Stacks >= 1 once held by a Ledger.
type Effect struct {
	Type     Type
	Duration int // remaining ticks
	Value    int // magnitude, e.g. damage per tick; 0 = no periodic damage
	Stacks   int
	Window   Window
	Rule     Rule
}

// Restorative reports whether this effect's periodic value restores HP
// instead of draining it. Regeneration is the only restorative type.
func (e Effect) Restorative() bool {
	return e.Type == Regen
}

// TickDamage returns the periodic damage this effect deals on one tick.
// Stack-by-intensity effects scale their per-tick value by the stack count.
//
// Postcondition: Returns >= 0; zero for restorative effects.
func (e Effect) TickDamage() int {
	if e.Restorative() || e.Value <= 0 {
		return 0
	}
	return e.Value * e.stackCount()
}

// TickHealing returns the periodic healing this effect grants on one tick.
//
// Postcondition: Returns >= 0; zero for non-restorative effects.
func (e Effect) TickHealing() int {
	if !e.Restorative() || e.Value <= 0 {
		return 0
	}
	return e.Value * e.stackCount()
}

func (e Effect) stackCount() int {
	if e.Stacks < 1 {
		return 1
	}
	return e.Stacks
}
