// Package leveling applies experience awards and class stat growth to party
// characters after a victorious encounter.
package leveling

import (
	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
)

// Curve maps a character level to the XP required to reach the next one.
// Injectable so campaigns can tune pacing; DefaultCurve is quadratic.
type Curve func(level int) int

// DefaultCurve is the standard pacing: 10, 40, 90, 160 XP for levels 1-4
// and so on.
func DefaultCurve(level int) int {
	return level * level * 10
}

// ClassProvider resolves a character's class template for growth deltas and
// learnable skills. The content registry satisfies this interface.
type ClassProvider interface {
	Class(id string) (*content.ClassTemplate, bool)
}

// StatDeltas reports the per-stat gains of one level-up.
type StatDeltas struct {
	HP     int
	MP     int
	Attack int
	Armor  int
	Speed  int
}

// LevelUpResult describes one level gained by one character, for UI
// reporting.
type LevelUpResult struct {
	CombatantID   string
	Name          string
	FromLevel     int
	ToLevel       int
	Gains         StatDeltas
	SkillsLearned []string
}

// AwardXP splits totalXP evenly among the living party members (integer
// floor; the remainder is discarded) and levels each up zero or more times.
// Multi-level-ups from a single award are supported: the loop repeats while
// accumulated XP covers the current threshold, deducting the threshold each
// time.
//
// Growth is additive to both current and maximum stats: characters gain the
// HP and MP immediately, not just capacity. Skills gated at exactly the
// reached level are granted unless already known. Characters whose class
// cannot be resolved keep their XP but do not level.
//
// Postcondition: one LevelUpResult per level gained, in party order.
func AwardXP(party []*combat.Combatant, totalXP int, classes ClassProvider, curve Curve) []LevelUpResult {
	if curve == nil {
		curve = DefaultCurve
	}

	var living []*combat.Combatant
	for _, c := range party {
		if c != nil && !c.IsDefeated() {
			living = append(living, c)
		}
	}
	if len(living) == 0 || totalXP <= 0 {
		return nil
	}
	share := totalXP / len(living)

	var results []LevelUpResult
	for _, c := range living {
		c.XP += share
		if c.XPToNext <= 0 {
			c.XPToNext = curve(c.Level)
		}

		class, ok := classes.Class(c.ClassID)
		if !ok {
			continue
		}
		for c.XP >= c.XPToNext {
			c.XP -= c.XPToNext
			results = append(results, levelUp(c, class, curve))
		}
	}
	return results
}

// levelUp advances c one level, applying class growth and granting any
// skills learnable at the new level.
func levelUp(c *combat.Combatant, class *content.ClassTemplate, curve Curve) LevelUpResult {
	from := c.Level
	c.Level++
	c.XPToNext = curve(c.Level)

	g := class.Growth
	c.MaxHP += g.HP
	c.HP += g.HP
	c.MaxMP += g.MP
	c.MP += g.MP
	c.Attack += g.Attack
	c.Armor += g.Armor
	c.Speed += g.Speed

	var learned []string
	for _, ls := range class.LearnableSkills {
		if ls.Level == c.Level && !c.KnowsSkill(ls.SkillID) {
			c.SkillIDs = append(c.SkillIDs, ls.SkillID)
			learned = append(learned, ls.SkillID)
		}
	}

	return LevelUpResult{
		CombatantID:   c.ID,
		Name:          c.Name,
		FromLevel:     from,
		ToLevel:       c.Level,
		Gains:         StatDeltas{HP: g.HP, MP: g.MP, Attack: g.Attack, Armor: g.Armor, Speed: g.Speed},
		SkillsLearned: learned,
	}
}
