package ai

import (
	"sort"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/dice"
	"github.com/jcalloway/riftwood/internal/game/status"
)

// SkillProvider resolves an enemy's known skill ids and designates the
// generic basic-attack skill that policies exclude from weighted selection.
// The content registry satisfies this interface.
type SkillProvider interface {
	Skill(id string) (*content.SkillTemplate, bool)
	BasicAttackID() string
}

// Decide produces the enemy's next action from battlefield state. It is a
// pure decision function: it never mutates any combatant, and identical
// inputs with an identical source yield identical actions. The policy is
// re-evaluated on every call, never cached.
//
// If the party has no living members it returns guard as a defensive
// terminal case; combat should already have ended by then.
//
// Precondition: enemy, provider, and src must be non-nil.
func Decide(enemy *combat.Combatant, role Role, party, allies []*combat.Combatant, provider SkillProvider, src dice.Source) combat.Action {
	foes := living(party)
	if len(foes) == 0 {
		return combat.Action{Type: combat.ActionGuard, ActorID: enemy.ID}
	}

	skills := affordableSkills(enemy, provider)

	switch role {
	case RoleTank:
		return decideTank(enemy, skills, foes, src)
	case RoleBruiser:
		return decideBruiser(enemy, skills, foes, src)
	case RoleCaster:
		return decideCaster(enemy, skills, foes, src)
	case RoleHealer:
		return decideHealer(enemy, skills, foes, allies, src)
	case RoleSniper:
		return decideSniper(enemy, skills, foes, src)
	case RoleBoss:
		return decideBoss(enemy, skills, foes, src)
	default:
		return decideBasic(enemy, skills, foes, src)
	}
}

// decideBasic occasionally reaches for a damage skill, otherwise swings at a
// random foe.
func decideBasic(enemy *combat.Combatant, skills []*content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	if ds := damageSkills(skills); len(ds) > 0 && chance(basicSkillChance, src) {
		return skillAction(enemy, ds[src.Intn(len(ds))], foes, src)
	}
	return attackAction(enemy, randomTarget(foes, src))
}

// decideTank braces behind a self buff when badly hurt, otherwise holds the
// line with plain attacks. With no brace skill available the tank keeps
// attacking even below the threshold.
func decideTank(enemy *combat.Combatant, skills []*content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	if enemy.HPPercent() < tankBraceHPThreshold {
		if braces := selfSupportSkills(skills); len(braces) > 0 {
			return skillAction(enemy, braces[src.Intn(len(braces))], foes, src)
		}
	}
	return attackAction(enemy, randomTarget(foes, src))
}

// decideBruiser bursts the weakest foe with its hardest-hitting skill.
func decideBruiser(enemy *combat.Combatant, skills []*content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	if ds := damageSkills(skills); len(ds) > 0 && chance(bruiserSkillChance, src) {
		return targetedSkillAction(enemy, strongestFirst(ds)[0], weakestTarget(foes))
	}
	return attackAction(enemy, weakestTarget(foes))
}

// decideCaster prefers AoE when several foes stand, falling back to a random
// single-target damage skill.
func decideCaster(enemy *combat.Combatant, skills []*content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	ds := damageSkills(skills)
	if len(foes) >= 2 {
		if aoe := aoeSkills(ds); len(aoe) > 0 && chance(casterAoEChance, src) {
			return skillAction(enemy, aoe[src.Intn(len(aoe))], foes, src)
		}
	}
	if len(ds) > 0 {
		return skillAction(enemy, ds[src.Intn(len(ds))], foes, src)
	}
	return attackAction(enemy, randomTarget(foes, src))
}

// decideHealer mends the most wounded ally below the HP threshold, otherwise
// spreads debuffs onto unafflicted foes.
func decideHealer(enemy *combat.Combatant, skills []*content.SkillTemplate, foes, allies []*combat.Combatant, src dice.Source) combat.Action {
	if wounded := woundedAlly(allies, healerAllyHPThreshold); wounded != nil {
		if heals := healSkills(skills); len(heals) > 0 {
			return targetedSkillAction(enemy, heals[src.Intn(len(heals))], wounded)
		}
	}
	if debuffs := debuffSkills(skills); len(debuffs) > 0 && chance(healerDebuffChance, src) {
		tmpl := debuffs[src.Intn(len(debuffs))]
		if target := unafflictedFoe(tmpl, foes); target != nil {
			return targetedSkillAction(enemy, tmpl, target)
		}
	}
	return attackAction(enemy, randomTarget(foes, src))
}

// decideSniper punches through armor at the weakest foe, otherwise picks off
// whoever wears the least.
func decideSniper(enemy *combat.Combatant, skills []*content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	if pierce := pierceSkills(skills); len(pierce) > 0 && chance(sniperPierceChance, src) {
		return targetedSkillAction(enemy, pierce[src.Intn(len(pierce))], weakestTarget(foes))
	}
	return attackAction(enemy, softestTarget(foes))
}

// decideBoss enrages below the HP threshold, unconditionally unloading its
// strongest damage skill; above it the boss behaves like a tempered bruiser.
func decideBoss(enemy *combat.Combatant, skills []*content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	ds := damageSkills(skills)
	if enemy.HPPercent() < bossEnrageHPThreshold && len(ds) > 0 {
		return skillAction(enemy, strongestFirst(ds)[0], foes, src)
	}
	if len(skills) > 0 && chance(bossSkillChance, src) {
		tmpl := skills[src.Intn(len(skills))]
		return skillAction(enemy, tmpl, foes, src)
	}
	return attackAction(enemy, weakestTarget(foes))
}

// affordableSkills resolves the enemy's skill ids against the provider and
// keeps those payable from current MP and AP, excluding the generic basic
// attack. Unresolvable ids are skipped; content validation makes them a
// non-event here.
func affordableSkills(enemy *combat.Combatant, provider SkillProvider) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	basic := provider.BasicAttackID()
	for _, id := range enemy.SkillIDs {
		if id == basic {
			continue
		}
		tmpl, ok := provider.Skill(id)
		if !ok {
			continue
		}
		if tmpl.MPCost > enemy.MP || tmpl.APCost > enemy.Resources.ActionPoints {
			continue
		}
		out = append(out, tmpl)
	}
	return out
}

func damageSkills(skills []*content.SkillTemplate) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	for _, s := range skills {
		if s.Effect.Type == "damage" {
			out = append(out, s)
		}
	}
	return out
}

func aoeSkills(skills []*content.SkillTemplate) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	for _, s := range skills {
		if s.Targeting == content.TargetAllEnemies {
			out = append(out, s)
		}
	}
	return out
}

func pierceSkills(skills []*content.SkillTemplate) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	for _, s := range skills {
		if s.Effect.Type == "damage" && s.IgnoreArmor {
			out = append(out, s)
		}
	}
	return out
}

// selfSupportSkills keeps status and utility skills routed to the caster's
// own side.
func selfSupportSkills(skills []*content.SkillTemplate) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	for _, s := range skills {
		if !s.Targeting.TargetsOwnSide() {
			continue
		}
		if s.Effect.Type == "status" || s.Effect.Type == "utility" {
			out = append(out, s)
		}
	}
	return out
}

// healSkills keeps own-side skills whose shape restores allies: utility
// effects and regeneration statuses.
func healSkills(skills []*content.SkillTemplate) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	for _, s := range skills {
		if !s.Targeting.TargetsOwnSide() {
			continue
		}
		if s.Effect.Type == "utility" {
			out = append(out, s)
			continue
		}
		if s.Effect.Type == "status" && s.Effect.Status != nil && s.Effect.Status.Type == status.Regen {
			out = append(out, s)
		}
	}
	return out
}

// debuffSkills keeps status skills routed at the opposing side.
func debuffSkills(skills []*content.SkillTemplate) []*content.SkillTemplate {
	var out []*content.SkillTemplate
	for _, s := range skills {
		if s.Effect.Type == "status" && s.Effect.Status != nil && !s.Targeting.TargetsOwnSide() {
			out = append(out, s)
		}
	}
	return out
}

// unafflictedFoe returns the first foe not already carrying the skill's
// status payload.
func unafflictedFoe(tmpl *content.SkillTemplate, foes []*combat.Combatant) *combat.Combatant {
	for _, f := range foes {
		if !f.Statuses.Has(tmpl.Effect.Status.Type) {
			return f
		}
	}
	return nil
}

// strongestFirst sorts damage skills by descending scaling factor, then
// descending flat power. The sort is stable so equal skills keep their
// declaration order.
func strongestFirst(skills []*content.SkillTemplate) []*content.SkillTemplate {
	out := make([]*content.SkillTemplate, len(skills))
	copy(out, skills)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scale() != out[j].Scale() {
			return out[i].Scale() > out[j].Scale()
		}
		return out[i].FlatPower > out[j].FlatPower
	})
	return out
}

// skillAction routes a chosen skill to a target per its targeting rule:
// single-enemy skills pick a random foe, everything else resolves inside the
// engine.
func skillAction(enemy *combat.Combatant, tmpl *content.SkillTemplate, foes []*combat.Combatant, src dice.Source) combat.Action {
	a := combat.Action{Type: combat.ActionSkill, ActorID: enemy.ID, SkillID: tmpl.ID}
	if tmpl.Targeting == content.TargetSingleEnemy {
		a.TargetID = randomTarget(foes, src).ID
	}
	return a
}

// targetedSkillAction routes a chosen skill at a specific combatant.
func targetedSkillAction(enemy *combat.Combatant, tmpl *content.SkillTemplate, target *combat.Combatant) combat.Action {
	return combat.Action{Type: combat.ActionSkill, ActorID: enemy.ID, SkillID: tmpl.ID, TargetID: target.ID}
}

func attackAction(enemy, target *combat.Combatant) combat.Action {
	return combat.Action{Type: combat.ActionAttack, ActorID: enemy.ID, TargetID: target.ID}
}
