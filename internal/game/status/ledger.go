package status

// TickResult reports the outcome of ticking one effect during a phase.
type TickResult struct {
	// Effect is a copy of the effect after the tick was applied.
	Effect Effect
	// Damage is the periodic damage the holder should take; 0 for no damage.
	Damage int
	// Healing is the periodic healing the holder should receive; 0 for none.
	// At most one of Damage and Healing is non-zero.
	Healing int
	// Expired is true when the effect's duration reached zero and it was removed.
	Expired bool
}

// Ledger tracks all status effects currently applied to one combatant,
// in application order. It is not safe for concurrent use; the combat
// engine serialises access.
//
// Invariant: at most one effect of a given Type is present at any time.
type Ledger struct {
	effects []Effect
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add applies an effect, resolving collisions with any existing effect of the
// same Type under the incoming effect's Rule:
//
//   - Replace (and the zero-value Rule): the existing effect is removed and the
//     new one appended.
//   - StackDuration: the new duration is added onto the existing effect; other
//     fields of the existing effect are kept.
//   - StackIntensity: the existing effect's stack count grows by the incoming
//     stacks, and its duration becomes the longer of the two.
//
// A zero or negative Stacks on the incoming effect is normalised to 1.
//
// Precondition: e.Duration >= 0.
// Postcondition: exactly one effect of e.Type is present.
func (l *Ledger) Add(e Effect) {
	if e.Stacks < 1 {
		e.Stacks = 1
	}
	if e.Rule == "" {
		e.Rule = Replace
	}

	idx := l.indexOf(e.Type)
	if idx < 0 {
		l.effects = append(l.effects, e)
		return
	}

	switch e.Rule {
	case StackDuration:
		l.effects[idx].Duration += e.Duration
	case StackIntensity:
		l.effects[idx].Stacks += e.Stacks
		if e.Duration > l.effects[idx].Duration {
			l.effects[idx].Duration = e.Duration
		}
	default: // Replace
		l.effects = append(l.effects[:idx], l.effects[idx+1:]...)
		l.effects = append(l.effects, e)
	}
}

// Has reports whether an effect of the given type is currently active.
func (l *Ledger) Has(t Type) bool {
	return l.indexOf(t) >= 0
}

// Get returns a copy of the active effect of the given type.
//
// Postcondition: Returns (effect, true) if present, or (zero, false) otherwise.
func (l *Ledger) Get(t Type) (Effect, bool) {
	if idx := l.indexOf(t); idx >= 0 {
		return l.effects[idx], true
	}
	return Effect{}, false
}

// Remove deletes the effect of the given type. No-op when absent.
//
// Postcondition: Has(t) is false.
func (l *Ledger) Remove(t Type) {
	if idx := l.indexOf(t); idx >= 0 {
		l.effects = append(l.effects[:idx], l.effects[idx+1:]...)
	}
}

// Clear removes all effects.
func (l *Ledger) Clear() {
	l.effects = nil
}

// All returns a copy of the active effects in application order.
func (l *Ledger) All() []Effect {
	out := make([]Effect, len(l.effects))
	copy(out, l.effects)
	return out
}

// TickPhase advances every effect whose Window matches phase by one tick:
// the duration drops by 1, periodic damage or healing (if any) is reported,
// and effects reaching zero duration are removed and reported as expired.
//
// Must be called exactly once per combatant per phase per turn; calling twice
// double-ticks, and skipping a call freezes effects indefinitely. The caller
// is responsible for applying each TickResult's Damage or Healing to the
// holder's HP.
//
// Postcondition: Returns results in application order; for every result with
// Expired == true, Has(result.Effect.Type) is false.
func (l *Ledger) TickPhase(phase Window) []TickResult {
	var results []TickResult
	kept := l.effects[:0]
	for _, e := range l.effects {
		if e.Window != phase {
			kept = append(kept, e)
			continue
		}
		e.Duration--
		if e.Duration < 0 {
			e.Duration = 0
		}
		expired := e.Duration == 0
		results = append(results, TickResult{
			Effect:  e,
			Damage:  e.TickDamage(),
			Healing: e.TickHealing(),
			Expired: expired,
		})
		if !expired {
			kept = append(kept, e)
		}
	}
	l.effects = kept
	return results
}

// indexOf returns the position of the effect with type t, or -1.
func (l *Ledger) indexOf(t Type) int {
	for i, e := range l.effects {
		if e.Type == t {
			return i
		}
	}
	return -1
}
