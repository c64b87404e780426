// Package combat implements the turn-based encounter engine for Riftwood:
// combatant state, the damage resolver, and the action state machine.
package combat

import "github.com/jcalloway/riftwood/internal/game/status"

// Kind distinguishes party characters from enemies.
type Kind int

const (
	KindCharacter Kind = iota
	KindEnemy
)

// Side identifies the winning side of a finished encounter.
type Side string

const (
	SideNone  Side = ""
	SideParty Side = "party"
	SideEnemy Side = "enemy"
)

// TurnResources tracks a combatant's per-turn action economy.
type TurnResources struct {
	ActionPoints    int
	MaxActionPoints int
	Initiative      int
}

// ItemStack is a held consumable with its remaining quantity.
// Quantity is decremented on use and never replenished during an encounter.
type ItemStack struct {
	TemplateID string
	Quantity   int
}

// Combatant represents one participant in an encounter: a party character or
// an enemy. The two variants share one struct with a Kind discriminant:
// MP and Items are meaningful for characters, Role and RewardXP for enemies.
//
// Invariant: 0 <= HP <= MaxHP. HP == 0 means defeated: the combatant is
// excluded from all future targeting and turn resolution.
//
// A Combatant is constructed once per encounter from a template, mutated in
// place by the Engine for the encounter's duration, and then discarded.
type Combatant struct {
	ID   string
	Name string
	Kind Kind

	HP     int
	MaxHP  int
	MP     int
	MaxMP  int
	Attack int
	Armor  int
	Speed  int

	Level    int
	XP       int
	XPToNext int
	ClassID  string // character only
	Role     string // enemy only
	RewardXP int    // enemy only

	// Guarding doubles effective armor against incoming hits until the guard
	// is broken by taking damage.
	Guarding bool

	Statuses  *status.Ledger
	Resources TurnResources
	SkillIDs  []string
	Items     []ItemStack
}

// IsDefeated reports whether this combatant is out of the fight.
//
// Postcondition: Returns true iff HP <= 0.
func (c *Combatant) IsDefeated() bool { return c.HP <= 0 }

// IsCharacter reports whether this combatant is a party character.
func (c *Combatant) IsCharacter() bool { return c.Kind == KindCharacter }

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *Combatant) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// Heal restores amount HP, capped at MaxHP.
//
// Precondition: amount >= 0.
// Postcondition: HP <= MaxHP.
func (c *Combatant) Heal(amount int) {
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// KnowsSkill reports whether id is among this combatant's known skills.
func (c *Combatant) KnowsSkill(id string) bool {
	for _, sid := range c.SkillIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// FindItem returns the held stack for the given item template id, or nil.
func (c *Combatant) FindItem(id string) *ItemStack {
	for i := range c.Items {
		if c.Items[i].TemplateID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// SpendAP deducts cost action points if available.
//
// Precondition: cost >= 0.
// Postcondition: Returns true and deducts iff ActionPoints >= cost; on false
// the resources are unchanged.
func (c *Combatant) SpendAP(cost int) bool {
	if c.Resources.ActionPoints < cost {
		return false
	}
	c.Resources.ActionPoints -= cost
	return true
}

// RefundAP returns cost action points, capped at MaxActionPoints.
//
// Precondition: cost >= 0.
func (c *Combatant) RefundAP(cost int) {
	c.Resources.ActionPoints += cost
	if c.Resources.ActionPoints > c.Resources.MaxActionPoints {
		c.Resources.ActionPoints = c.Resources.MaxActionPoints
	}
}
