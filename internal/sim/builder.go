package sim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/status"
)

// NewCharacter builds a level-1 party character from a class template.
// Instance ids are fresh UUIDs so repeated encounters never collide.
func NewCharacter(name string, class *content.ClassTemplate) *combat.Combatant {
	c := &combat.Combatant{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     combat.KindCharacter,
		HP:       class.BaseHP,
		MaxHP:    class.BaseHP,
		MP:       class.BaseMP,
		MaxMP:    class.BaseMP,
		Attack:   class.BaseAttack,
		Armor:    class.BaseArmor,
		Speed:    class.BaseSpeed,
		Level:    1,
		ClassID:  class.ID,
		Statuses: status.NewLedger(),
		Resources: combat.TurnResources{
			ActionPoints:    class.MaxActionPoints,
			MaxActionPoints: class.MaxActionPoints,
		},
	}
	c.SkillIDs = append(c.SkillIDs, class.StartingSkills...)
	for _, si := range class.StartingItems {
		c.Items = append(c.Items, combat.ItemStack{TemplateID: si.ItemID, Quantity: si.Quantity})
	}
	return c
}

// NewEnemy builds an enemy combatant from its template.
func NewEnemy(tmpl *content.EnemyTemplate) *combat.Combatant {
	e := &combat.Combatant{
		ID:       uuid.NewString(),
		Name:     tmpl.Name,
		Kind:     combat.KindEnemy,
		HP:       tmpl.MaxHP,
		MaxHP:    tmpl.MaxHP,
		MP:       tmpl.MaxMP,
		MaxMP:    tmpl.MaxMP,
		Attack:   tmpl.Attack,
		Armor:    tmpl.Armor,
		Speed:    tmpl.Speed,
		Level:    tmpl.Level,
		Role:     tmpl.Role,
		RewardXP: tmpl.RewardXP,
		Statuses: status.NewLedger(),
		Resources: combat.TurnResources{
			ActionPoints:    tmpl.MaxActionPoints,
			MaxActionPoints: tmpl.MaxActionPoints,
		},
	}
	e.SkillIDs = append(e.SkillIDs, tmpl.SkillIDs...)
	return e
}

// BuildParty instantiates one character per class id, naming them after the
// class when no explicit name is given.
func BuildParty(registry *content.Registry, classIDs []string) ([]*combat.Combatant, error) {
	var party []*combat.Combatant
	for _, id := range classIDs {
		class, ok := registry.Class(id)
		if !ok {
			return nil, fmt.Errorf("building party: unknown class %q", id)
		}
		party = append(party, NewCharacter(class.Name, class))
	}
	return party, nil
}
