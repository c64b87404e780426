package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/status"
)

type fakeClasses map[string]*content.ClassTemplate

func (f fakeClasses) Class(id string) (*content.ClassTemplate, bool) {
	c, ok := f[id]
	return c, ok
}

func newCharacter(id string, level, xpToNext int) *combat.Combatant {
	return &combat.Combatant{
		ID: id, Name: id, Kind: combat.KindCharacter,
		HP: 20, MaxHP: 20, MP: 10, MaxMP: 10,
		Attack: 5, Armor: 2, Speed: 4,
		Level: level, XPToNext: xpToNext,
		ClassID:  "warden",
		Statuses: status.NewLedger(),
	}
}

func wardenClass() *content.ClassTemplate {
	return &content.ClassTemplate{
		ID: "warden", Name: "Warden",
		Growth: content.StatGrowth{HP: 5, MP: 2, Attack: 1, Armor: 1, Speed: 1},
		LearnableSkills: []content.LearnableSkill{
			{Level: 2, SkillID: "bulwark"},
			{Level: 3, SkillID: "retribution"},
		},
	}
}

func TestAwardXPSplitsEvenlyAmongLiving(t *testing.T) {
	a := newCharacter("a", 1, 100)
	b := newCharacter("b", 1, 100)
	down := newCharacter("down", 1, 100)
	down.HP = 0
	classes := fakeClasses{"warden": wardenClass()}

	results := AwardXP([]*combat.Combatant{a, b, down}, 25, classes, nil)

	assert.Empty(t, results, "nobody should level yet")
	assert.Equal(t, 12, a.XP, "25 XP splits as floor(25/2) per living member")
	assert.Equal(t, 12, b.XP)
	assert.Zero(t, down.XP, "the defeated earn nothing")
}

func TestAwardXPSingleLevelUp(t *testing.T) {
	a := newCharacter("a", 1, 10)
	classes := fakeClasses{"warden": wardenClass()}

	results := AwardXP([]*combat.Combatant{a}, 12, classes, DefaultCurve)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 1, r.FromLevel)
	assert.Equal(t, 2, r.ToLevel)
	assert.Equal(t, StatDeltas{HP: 5, MP: 2, Attack: 1, Armor: 1, Speed: 1}, r.Gains)
	assert.Equal(t, []string{"bulwark"}, r.SkillsLearned)

	assert.Equal(t, 2, a.Level)
	assert.Equal(t, 2, a.XP, "leftover XP carries toward the next level")
	assert.Equal(t, DefaultCurve(2), a.XPToNext)
	assert.Equal(t, 25, a.MaxHP)
	assert.Equal(t, 25, a.HP, "growth applies to current HP too")
	assert.True(t, a.KnowsSkill("bulwark"))
}

func TestAwardXPMultiLevelUp(t *testing.T) {
	// Steep award with a flat curve: 10 XP per level, 35 XP in hand.
	flat := func(int) int { return 10 }
	a := newCharacter("a", 1, 10)
	classes := fakeClasses{"warden": wardenClass()}

	results := AwardXP([]*combat.Combatant{a}, 35, classes, flat)

	require.Len(t, results, 3, "35 XP over a flat 10 curve is three levels")
	assert.Equal(t, 4, a.Level)
	assert.Equal(t, 5, a.XP)
	assert.Equal(t, 35, a.MaxHP, "max HP should grow by 5 per level gained")
	for i, r := range results {
		assert.Equal(t, i+1, r.FromLevel)
		assert.Equal(t, i+2, r.ToLevel)
	}
	assert.True(t, a.KnowsSkill("bulwark"))
	assert.True(t, a.KnowsSkill("retribution"))
}

func TestAwardXPDoesNotRelearnKnownSkills(t *testing.T) {
	a := newCharacter("a", 1, 10)
	a.SkillIDs = []string{"bulwark"}
	classes := fakeClasses{"warden": wardenClass()}

	results := AwardXP([]*combat.Combatant{a}, 10, classes, DefaultCurve)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].SkillsLearned)
	assert.Equal(t, []string{"bulwark"}, a.SkillIDs, "no duplicate grant")
}

func TestAwardXPUnknownClassKeepsXP(t *testing.T) {
	a := newCharacter("a", 1, 10)
	a.ClassID = "ghost"

	results := AwardXP([]*combat.Combatant{a}, 50, fakeClasses{}, DefaultCurve)

	assert.Empty(t, results)
	assert.Equal(t, 50, a.XP, "XP accrues even when the class cannot be resolved")
	assert.Equal(t, 1, a.Level)
}

func TestAwardXPNoLivingOrNoXP(t *testing.T) {
	down := newCharacter("down", 1, 10)
	down.HP = 0
	classes := fakeClasses{"warden": wardenClass()}

	assert.Empty(t, AwardXP([]*combat.Combatant{down}, 100, classes, nil))
	alive := newCharacter("a", 1, 10)
	assert.Empty(t, AwardXP([]*combat.Combatant{alive}, 0, classes, nil))
	assert.Zero(t, alive.XP)
}
