package ai

import (
	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/dice"
)

// living filters a combatant list down to those still standing, preserving
// order so tie-breaks are deterministic.
func living(combatants []*combat.Combatant) []*combat.Combatant {
	var out []*combat.Combatant
	for _, c := range combatants {
		if c != nil && !c.IsDefeated() {
			out = append(out, c)
		}
	}
	return out
}

// randomTarget picks uniformly among candidates.
//
// Precondition: candidates must be non-empty.
func randomTarget(candidates []*combat.Combatant, src dice.Source) *combat.Combatant {
	return candidates[src.Intn(len(candidates))]
}

// weakestTarget picks the candidate with the lowest current HP; earlier
// candidates win ties.
//
// Precondition: candidates must be non-empty.
func weakestTarget(candidates []*combat.Combatant) *combat.Combatant {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.HP < best.HP {
			best = c
		}
	}
	return best
}

// softestTarget picks the candidate with the lowest armor; earlier candidates
// win ties.
//
// Precondition: candidates must be non-empty.
func softestTarget(candidates []*combat.Combatant) *combat.Combatant {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Armor < best.Armor {
			best = c
		}
	}
	return best
}

// woundedAlly returns the living ally with the lowest HP percentage, provided
// it sits below the given threshold.
func woundedAlly(allies []*combat.Combatant, threshold float64) *combat.Combatant {
	var worst *combat.Combatant
	for _, a := range living(allies) {
		if a.HPPercent() >= threshold {
			continue
		}
		if worst == nil || a.HPPercent() < worst.HPPercent() {
			worst = a
		}
	}
	return worst
}

// chance reports a percent-probability draw from src.
//
// Precondition: pct in [0, 100].
func chance(pct int, src dice.Source) bool {
	return src.Intn(100) < pct
}
