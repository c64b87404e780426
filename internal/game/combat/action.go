package combat

// ActionType identifies what a combatant intends to do on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack                    // basic attack, costs 1 AP
	ActionGuard                     // enter guard stance, costs 1 AP
	ActionSkill                     // use a known skill, costs the skill's AP
	ActionItem                      // consume a held item, costs the item's AP
	ActionWait                      // forfeit the action, costs nothing
)

// String returns the human-readable name of the ActionType.
//
// Postcondition: returns "attack", "guard", "skill", "item", "wait", or "unknown".
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionGuard:
		return "guard"
	case ActionSkill:
		return "skill"
	case ActionItem:
		return "item"
	case ActionWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Action is one immutable combat instruction, produced either by external UI
// input (party) or by the enemy AI, and consumed exactly once by the Engine.
type Action struct {
	Type    ActionType
	ActorID string
	// TargetID names the intended target; may be empty for self-routed or
	// untargeted actions.
	TargetID string
	// SkillID is set for ActionSkill.
	SkillID string
	// ItemID is set for ActionItem.
	ItemID string
}
