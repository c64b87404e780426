// Package ai implements the enemy decision policies for Riftwood encounters.
// Each role maps battlefield state to one combat action through fixed
// probability thresholds and intent filters over skill templates; all
// randomness flows through an injected dice source so decisions are
// reproducible under a fixed seed.
package ai

// Role tags an enemy with its behavioral policy. Policies decide on skill
// shape (effect type, damage type, targeting), never on skill identity.
type Role string

const (
	RoleBasic   Role = "basic"
	RoleTank    Role = "tank"
	RoleBruiser Role = "bruiser"
	RoleCaster  Role = "caster"
	RoleHealer  Role = "healer"
	RoleSniper  Role = "sniper"
	RoleBoss    Role = "boss"
)

// ParseRole maps a template role string to a Role.
//
// Postcondition: ok is false for unrecognized strings; callers fall back to
// RoleBasic.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBasic, RoleTank, RoleBruiser, RoleCaster, RoleHealer, RoleSniper, RoleBoss:
		return Role(s), true
	}
	return RoleBasic, false
}

// Policy thresholds. These are fixed constants of each role's behavior, not
// runtime-tunable knobs.
const (
	tankBraceHPThreshold  = 30.0
	healerAllyHPThreshold = 60.0
	bossEnrageHPThreshold = 40.0

	basicSkillChance   = 30
	bruiserSkillChance = 60
	casterAoEChance    = 60
	healerDebuffChance = 50
	sniperPierceChance = 70
	bossSkillChance    = 50
)
