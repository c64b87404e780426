// Package content defines the static game content templates (skills, items,
// enemies, classes) and the registry the combat core consumes. Templates are
// loaded from YAML and validated once; the core never mutates them.
package content

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jcalloway/riftwood/internal/game/status"
)

// validate is the shared validator instance for template struct tags.
var validate = validator.New()

// Targeting declares which combatants a skill or item may legally affect.
type Targeting string

const (
	TargetSingleEnemy Targeting = "single_enemy"
	TargetAllEnemies  Targeting = "all_enemies"
	TargetSingleAlly  Targeting = "single_ally"
	TargetAllAllies   Targeting = "all_allies"
	TargetSelf        Targeting = "self"
)

// TargetsOwnSide reports whether the targeting rule routes to the actor's side.
func (t Targeting) TargetsOwnSide() bool {
	return t == TargetSelf || t == TargetSingleAlly || t == TargetAllAllies
}

// StatusPayload is the status effect a skill or item applies on use.
type StatusPayload struct {
	Type     status.Type   `yaml:"type" validate:"required"`
	Duration int           `yaml:"duration" validate:"min=1"`
	Value    int           `yaml:"value" validate:"min=0"`
	Window   status.Window `yaml:"window" validate:"omitempty,oneof=turnStart turnEnd"`
	Rule     status.Rule   `yaml:"rule" validate:"omitempty,oneof=replace stackDuration stackIntensity"`
}

// Effect builds the runtime status effect this payload describes.
// An unset window defaults to turnEnd; an unset rule defaults to replace.
func (p StatusPayload) Effect() status.Effect {
	w := p.Window
	if w == "" {
		w = status.TurnEnd
	}
	r := p.Rule
	if r == "" {
		r = status.Replace
	}
	return status.Effect{
		Type:     p.Type,
		Duration: p.Duration,
		Value:    p.Value,
		Window:   w,
		Rule:     r,
	}
}

// SkillEffect is the declared effect shape of a skill. AI policies decide on
// this shape (type, damage type, status applied), never on skill identity.
type SkillEffect struct {
	Type       string         `yaml:"type" validate:"required,oneof=damage status utility"`
	DamageType string         `yaml:"damage_type" validate:"omitempty"`
	Status     *StatusPayload `yaml:"status"`
}

// SkillTemplate is the static definition of one skill.
type SkillTemplate struct {
	ID             string      `yaml:"id" validate:"required"`
	Name           string      `yaml:"name" validate:"required"`
	Description    string      `yaml:"description"`
	APCost         int         `yaml:"ap_cost" validate:"min=0"`
	MPCost         int         `yaml:"mp_cost" validate:"min=0"`
	Targeting      Targeting   `yaml:"targeting" validate:"required,oneof=single_enemy all_enemies single_ally all_allies self"`
	Effect         SkillEffect `yaml:"effect"`
	DiceExpression string      `yaml:"dice"`
	FlatPower      int         `yaml:"flat_power"`
	ScalingFactor  *float64    `yaml:"scaling_factor"`
	MinimumDamage  int         `yaml:"minimum_damage" validate:"min=0"`
	IgnoreArmor    bool        `yaml:"ignore_armor"`
	// BasicAttack marks the generic attack skill AI policies exclude from
	// weighted selection; the basic attack action covers it.
	BasicAttack bool `yaml:"basic_attack"`
}

// Scale returns the attacker stat scaling factor, defaulting to 1 when the
// template omits it.
func (s *SkillTemplate) Scale() float64 {
	if s.ScalingFactor == nil {
		return 1
	}
	return *s.ScalingFactor
}

// Validate checks struct tags and cross-field constraints.
//
// Postcondition: nil return guarantees a damage skill carries dice or flat
// power, and a status skill carries a status payload.
func (s *SkillTemplate) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("skill %q: %w", s.ID, err)
	}
	switch s.Effect.Type {
	case "damage":
		if s.DiceExpression == "" && s.FlatPower == 0 {
			return fmt.Errorf("skill %q: damage effect requires dice or flat_power", s.ID)
		}
	case "status":
		if s.Effect.Status == nil {
			return fmt.Errorf("skill %q: status effect requires a status payload", s.ID)
		}
	}
	if s.Effect.Status != nil {
		if err := validate.Struct(s.Effect.Status); err != nil {
			return fmt.Errorf("skill %q status payload: %w", s.ID, err)
		}
	}
	return nil
}

// ItemTemplate is the static definition of one consumable item.
// Items never scale off the user's attack stat.
type ItemTemplate struct {
	ID             string    `yaml:"id" validate:"required"`
	Name           string    `yaml:"name" validate:"required"`
	Description    string    `yaml:"description"`
	APCost         int       `yaml:"ap_cost" validate:"min=0"`
	Targeting      Targeting `yaml:"targeting" validate:"required,oneof=single_enemy self"`
	DiceExpression string    `yaml:"dice"`
	// FlatPower is healing when self-targeted and positive, damage otherwise.
	FlatPower     int `yaml:"flat_power"`
	MinimumDamage int `yaml:"minimum_damage" validate:"min=0"`
}

// Validate checks struct tags.
func (i *ItemTemplate) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("item %q: %w", i.ID, err)
	}
	return nil
}

// EnemyTemplate is the static definition of one enemy archetype.
type EnemyTemplate struct {
	ID              string   `yaml:"id" validate:"required"`
	Name            string   `yaml:"name" validate:"required"`
	Description     string   `yaml:"description"`
	Level           int      `yaml:"level" validate:"min=1"`
	MaxHP           int      `yaml:"max_hp" validate:"min=1"`
	MaxMP           int      `yaml:"max_mp" validate:"min=0"`
	Attack          int      `yaml:"attack" validate:"min=0"`
	Armor           int      `yaml:"armor" validate:"min=0"`
	Speed           int      `yaml:"speed" validate:"min=0"`
	MaxActionPoints int      `yaml:"max_action_points" validate:"min=1"`
	Role            string   `yaml:"role" validate:"required,oneof=basic tank bruiser caster healer sniper boss"`
	SkillIDs        []string `yaml:"skills"`
	RewardXP        int      `yaml:"reward_xp" validate:"min=0"`
}

// Validate checks struct tags.
func (e *EnemyTemplate) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("enemy %q: %w", e.ID, err)
	}
	return nil
}

// StatGrowth holds the flat per-level stat deltas a class grants on level-up.
// Growth is additive to both current and max values.
type StatGrowth struct {
	HP     int `yaml:"hp" validate:"min=0"`
	MP     int `yaml:"mp" validate:"min=0"`
	Attack int `yaml:"attack" validate:"min=0"`
	Armor  int `yaml:"armor" validate:"min=0"`
	Speed  int `yaml:"speed" validate:"min=0"`
}

// LearnableSkill grants a skill when the character reaches the given level.
type LearnableSkill struct {
	Level   int    `yaml:"level" validate:"min=2"`
	SkillID string `yaml:"skill" validate:"required"`
}

// StartingItem seeds a character's consumable inventory.
type StartingItem struct {
	ItemID   string `yaml:"item" validate:"required"`
	Quantity int    `yaml:"quantity" validate:"min=1"`
}

// ClassTemplate defines a playable character class.
type ClassTemplate struct {
	ID              string           `yaml:"id" validate:"required"`
	Name            string           `yaml:"name" validate:"required"`
	Description     string           `yaml:"description"`
	BaseHP          int              `yaml:"base_hp" validate:"min=1"`
	BaseMP          int              `yaml:"base_mp" validate:"min=0"`
	BaseAttack      int              `yaml:"base_attack" validate:"min=0"`
	BaseArmor       int              `yaml:"base_armor" validate:"min=0"`
	BaseSpeed       int              `yaml:"base_speed" validate:"min=0"`
	MaxActionPoints int              `yaml:"max_action_points" validate:"min=1"`
	Growth          StatGrowth       `yaml:"growth"`
	StartingSkills  []string         `yaml:"starting_skills"`
	StartingItems   []StartingItem   `yaml:"starting_items"`
	LearnableSkills []LearnableSkill `yaml:"learnable_skills"`
}

// Validate checks struct tags and nested entries.
func (c *ClassTemplate) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("class %q: %w", c.ID, err)
	}
	return nil
}
