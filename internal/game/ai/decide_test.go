package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/dice"
	"github.com/jcalloway/riftwood/internal/game/status"
)

// seqSrc yields a fixed sequence of Intn results, wrapping around.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

type fakeSkills struct {
	skills  map[string]*content.SkillTemplate
	basicID string
}

func (f *fakeSkills) Skill(id string) (*content.SkillTemplate, bool) {
	s, ok := f.skills[id]
	return s, ok
}

func (f *fakeSkills) BasicAttackID() string { return f.basicID }

func newEnemy(role string, skillIDs ...string) *combat.Combatant {
	return &combat.Combatant{
		ID: "enemy", Name: "Gloom Stalker", Kind: combat.KindEnemy,
		HP: 30, MaxHP: 30, MP: 10, MaxMP: 10,
		Attack: 4, Armor: 2,
		Role:      role,
		Statuses:  status.NewLedger(),
		Resources: combat.TurnResources{ActionPoints: 3, MaxActionPoints: 3},
		SkillIDs:  skillIDs,
	}
}

func newFoe(id string, hp, armor int) *combat.Combatant {
	return &combat.Combatant{
		ID: id, Name: id, Kind: combat.KindCharacter,
		HP: hp, MaxHP: 20, Armor: armor,
		Statuses:  status.NewLedger(),
		Resources: combat.TurnResources{ActionPoints: 3, MaxActionPoints: 3},
	}
}

func damageSkill(id string, scale float64) *content.SkillTemplate {
	return &content.SkillTemplate{
		ID: id, Name: id, MPCost: 2,
		Targeting:      content.TargetSingleEnemy,
		Effect:         content.SkillEffect{Type: "damage"},
		DiceExpression: "1d6",
		ScalingFactor:  &scale,
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"basic", "tank", "bruiser", "caster", "healer", "sniper", "boss"} {
		role, ok := ParseRole(s)
		assert.True(t, ok, "role %q should parse", s)
		assert.Equal(t, Role(s), role)
	}
	role, ok := ParseRole("berserker")
	assert.False(t, ok)
	assert.Equal(t, RoleBasic, role, "unknown roles fall back to basic")
}

func TestDecideGuardsWhenNoLivingParty(t *testing.T) {
	enemy := newEnemy("boss")
	dead := newFoe("hero", 0, 0)

	action := Decide(enemy, RoleBoss, []*combat.Combatant{dead}, nil, &fakeSkills{}, &seqSrc{vals: []int{0}})

	assert.Equal(t, combat.ActionGuard, action.Type)
	assert.Equal(t, "enemy", action.ActorID)
}

func TestDecideBasicFallsBackToAttack(t *testing.T) {
	enemy := newEnemy("basic")
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}
	// First draw fails the 30% skill check.
	src := &seqSrc{vals: []int{99, 0}}

	action := Decide(enemy, RoleBasic, foes, nil, &fakeSkills{}, src)

	assert.Equal(t, combat.ActionAttack, action.Type)
	assert.Equal(t, "hero", action.TargetID)
}

func TestDecideBasicUsesDamageSkillOnChance(t *testing.T) {
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"ember": damageSkill("ember", 1),
	}}
	enemy := newEnemy("basic", "ember")
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}
	src := &seqSrc{vals: []int{0}}

	action := Decide(enemy, RoleBasic, foes, nil, provider, src)

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "ember", action.SkillID)
	assert.Equal(t, "hero", action.TargetID)
}

func TestDecideExcludesUnaffordableAndBasicAttack(t *testing.T) {
	expensive := damageSkill("meteor", 2)
	expensive.MPCost = 99
	provider := &fakeSkills{
		skills: map[string]*content.SkillTemplate{
			"meteor": expensive,
			"strike": damageSkill("strike", 1),
		},
		basicID: "strike",
	}
	enemy := newEnemy("basic", "meteor", "strike")
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}
	// A draw of 0 would pass the skill chance if any candidate survived.
	src := &seqSrc{vals: []int{0}}

	action := Decide(enemy, RoleBasic, foes, nil, provider, src)

	assert.Equal(t, combat.ActionAttack, action.Type, "no affordable non-basic skill should remain")
}

func TestDecideTankBracesWhenHurt(t *testing.T) {
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"shell": {
			ID: "shell", Name: "Iron Shell", MPCost: 1,
			Targeting: content.TargetSelf,
			Effect: content.SkillEffect{
				Type:   "status",
				Status: &content.StatusPayload{Type: status.Buffed, Duration: 2},
			},
		},
	}}
	enemy := newEnemy("tank", "shell")
	enemy.HP = 8 // under 30%
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}

	action := Decide(enemy, RoleTank, foes, nil, provider, &seqSrc{vals: []int{0}})

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "shell", action.SkillID)
	assert.Empty(t, action.TargetID, "self skills resolve in the engine")
}

func TestDecideTankNeverGuardsWithoutBraceSkill(t *testing.T) {
	enemy := newEnemy("tank")
	enemy.HP = 5
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}

	// The policy is re-evaluated each call: with no brace skill the tank
	// keeps attacking, never guarding, no matter the draws.
	for seed := int64(0); seed < 50; seed++ {
		action := Decide(enemy, RoleTank, foes, nil, &fakeSkills{}, dice.NewSeededSource(seed))
		assert.Equal(t, combat.ActionAttack, action.Type)
	}
}

func TestDecideBruiserBurstsWeakest(t *testing.T) {
	weakSkill := damageSkill("jab", 0.5)
	strongSkill := damageSkill("haymaker", 2)
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"jab": weakSkill, "haymaker": strongSkill,
	}}
	enemy := newEnemy("bruiser", "jab", "haymaker")
	healthy := newFoe("healthy", 20, 1)
	bloodied := newFoe("bloodied", 4, 1)
	src := &seqSrc{vals: []int{0}}

	action := Decide(enemy, RoleBruiser, []*combat.Combatant{healthy, bloodied}, nil, provider, src)

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "haymaker", action.SkillID, "the highest-scaling skill should win")
	assert.Equal(t, "bloodied", action.TargetID)
}

func TestDecideCasterPrefersAoEAgainstGroups(t *testing.T) {
	aoe := damageSkill("gale", 1)
	aoe.Targeting = content.TargetAllEnemies
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"gale": aoe, "bolt": damageSkill("bolt", 1),
	}}
	enemy := newEnemy("caster", "gale", "bolt")
	foes := []*combat.Combatant{newFoe("a", 20, 1), newFoe("b", 20, 1)}
	src := &seqSrc{vals: []int{0}}

	action := Decide(enemy, RoleCaster, foes, nil, provider, src)

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "gale", action.SkillID)
	assert.Empty(t, action.TargetID, "AoE skills carry no single target")
}

func TestDecideCasterSingleTargetAgainstLoneFoe(t *testing.T) {
	aoe := damageSkill("gale", 1)
	aoe.Targeting = content.TargetAllEnemies
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"gale": aoe, "bolt": damageSkill("bolt", 1),
	}}
	enemy := newEnemy("caster", "gale", "bolt")
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}
	// Draw 1 selects "bolt" from the two damage candidates.
	src := &seqSrc{vals: []int{1, 0}}

	action := Decide(enemy, RoleCaster, foes, nil, provider, src)

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "bolt", action.SkillID)
	assert.Equal(t, "hero", action.TargetID)
}

func TestDecideHealerMendsWoundedAlly(t *testing.T) {
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"mend": {
			ID: "mend", Name: "Mend", MPCost: 2,
			Targeting: content.TargetSingleAlly,
			Effect: content.SkillEffect{
				Type:   "status",
				Status: &content.StatusPayload{Type: status.Regen, Duration: 3, Value: 2, Window: status.TurnStart},
			},
		},
	}}
	enemy := newEnemy("healer", "mend")
	hurt := newEnemy("basic")
	hurt.ID = "hurt"
	hurt.HP = 10 // under 60% of 30
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}

	action := Decide(enemy, RoleHealer, foes, []*combat.Combatant{hurt}, provider, &seqSrc{vals: []int{0}})

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "mend", action.SkillID)
	assert.Equal(t, "hurt", action.TargetID)
}

func TestDecideHealerDebuffsUnafflictedFoe(t *testing.T) {
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"hex": {
			ID: "hex", Name: "Hex", MPCost: 2,
			Targeting: content.TargetSingleEnemy,
			Effect: content.SkillEffect{
				Type:   "status",
				Status: &content.StatusPayload{Type: status.Weakened, Duration: 2},
			},
		},
	}}
	enemy := newEnemy("healer", "hex")
	cursed := newFoe("cursed", 20, 1)
	cursed.Statuses.Add(status.Effect{Type: status.Weakened, Duration: 2, Window: status.TurnEnd, Rule: status.Replace})
	fresh := newFoe("fresh", 20, 1)

	action := Decide(enemy, RoleHealer, []*combat.Combatant{cursed, fresh}, nil, provider, &seqSrc{vals: []int{0}})

	require.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "fresh", action.TargetID, "already-afflicted foes should be skipped")
}

func TestDecideSniperPiercesWeakest(t *testing.T) {
	pierce := damageSkill("deadeye", 1)
	pierce.IgnoreArmor = true
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{"deadeye": pierce}}
	enemy := newEnemy("sniper", "deadeye")
	tanky := newFoe("tanky", 20, 5)
	frail := newFoe("frail", 6, 0)
	src := &seqSrc{vals: []int{0}}

	action := Decide(enemy, RoleSniper, []*combat.Combatant{tanky, frail}, nil, provider, src)

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "deadeye", action.SkillID)
	assert.Equal(t, "frail", action.TargetID)
}

func TestDecideSniperFallsBackToSoftestTarget(t *testing.T) {
	enemy := newEnemy("sniper")
	armored := newFoe("armored", 10, 5)
	exposed := newFoe("exposed", 20, 0)

	action := Decide(enemy, RoleSniper, []*combat.Combatant{armored, exposed}, nil, &fakeSkills{}, &seqSrc{vals: []int{99}})

	assert.Equal(t, combat.ActionAttack, action.Type)
	assert.Equal(t, "exposed", action.TargetID, "the sniper fallback picks the lowest armor")
}

func TestDecideBossEnrageOverridesChance(t *testing.T) {
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"stomp":     damageSkill("stomp", 1),
		"cataclysm": damageSkill("cataclysm", 3),
	}}
	enemy := newEnemy("boss", "stomp", "cataclysm")
	enemy.HP = 10 // under 40%
	foes := []*combat.Combatant{newFoe("hero", 20, 1)}
	// Draws that would fail every probability gate; enrage ignores them.
	src := &seqSrc{vals: []int{99, 0}}

	action := Decide(enemy, RoleBoss, foes, nil, provider, src)

	assert.Equal(t, combat.ActionSkill, action.Type)
	assert.Equal(t, "cataclysm", action.SkillID, "enrage should pick the strongest damage skill")
}

func TestDecideBossCalmFallsBackToWeakest(t *testing.T) {
	enemy := newEnemy("boss")
	healthy := newFoe("healthy", 20, 1)
	bloodied := newFoe("bloodied", 3, 1)

	action := Decide(enemy, RoleBoss, []*combat.Combatant{healthy, bloodied}, nil, &fakeSkills{}, &seqSrc{vals: []int{99}})

	assert.Equal(t, combat.ActionAttack, action.Type)
	assert.Equal(t, "bloodied", action.TargetID)
}

func TestDecideIsDeterministicUnderFixedSeed(t *testing.T) {
	provider := &fakeSkills{skills: map[string]*content.SkillTemplate{
		"ember": damageSkill("ember", 1),
	}}
	enemy := newEnemy("basic", "ember")
	foes := []*combat.Combatant{newFoe("a", 20, 1), newFoe("b", 12, 1)}

	first := Decide(enemy, RoleBasic, foes, nil, provider, dice.NewSeededSource(42))
	second := Decide(enemy, RoleBasic, foes, nil, provider, dice.NewSeededSource(42))

	assert.Equal(t, first, second)
}
