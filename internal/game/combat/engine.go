package combat

import (
	"fmt"

	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/dice"
	"github.com/jcalloway/riftwood/internal/game/status"
)

// ContentProvider resolves skill and item ids accepted into a combatant's
// lists. Ids are validated at content-load time, so a failed lookup here is a
// content integrity error, recovered like any other invalid action.
type ContentProvider interface {
	Skill(id string) (*content.SkillTemplate, bool)
	Item(id string) (*content.ItemTemplate, bool)
}

// basicAttackFormula is the fixed formula for the generic attack action:
// 1d6 plus the attacker's full attack stat.
var basicAttackFormula = Formula{DiceExpression: "1d6", AttackerScale: 1}

// Engine is the turn/action state machine for one encounter. It exclusively
// owns and mutates its State; every validation failure (missing actor or
// target, insufficient AP, dead target, friendly fire, unknown skill or item)
// is recovered locally: logged as a human-readable message, action becomes a
// no-op, combat continues. Engine methods never return errors for bad actions.
//
// Execution is single-threaded and synchronous: ExecuteAction fully resolves
// before returning, and callers serialise all calls.
type Engine struct {
	state    *State
	provider ContentProvider
	log      Log
	src      dice.Source
}

// NewEngine creates an Engine over state.
//
// Precondition: state, provider, and src must be non-nil. A nil log is
// replaced with NopLog.
func NewEngine(state *State, provider ContentProvider, log Log, src dice.Source) *Engine {
	if state == nil {
		panic("combat.NewEngine: precondition violated: state must be non-nil")
	}
	if provider == nil {
		panic("combat.NewEngine: precondition violated: provider must be non-nil")
	}
	if src == nil {
		panic("combat.NewEngine: precondition violated: src must be non-nil")
	}
	if log == nil {
		log = NopLog{}
	}
	return &Engine{state: state, provider: provider, log: log, src: src}
}

// State returns the engine's battlefield state. Callers must treat it as
// read-only; all mutation goes through ExecuteAction and the turn lifecycle.
func (e *Engine) State() *State {
	return e.state
}

// StartTurn begins a new combat round: increments the turn number, restores
// every living combatant's action points to maximum, and ticks turnStart
// statuses. Must be called exactly once per round.
//
// Postcondition: every living combatant has full AP; turnStart effects have
// ticked exactly once.
func (e *Engine) StartTurn() {
	if !e.state.Active {
		return
	}
	e.state.TurnNumber++
	e.logf("Turn %d begins.", e.state.TurnNumber)
	for _, c := range e.state.Combatants() {
		if c.IsDefeated() {
			continue
		}
		c.Resources.ActionPoints = c.Resources.MaxActionPoints
		e.tickStatuses(c, status.TurnStart)
	}
	e.evaluateOutcome()
}

// EndTurn closes the current round by ticking turnEnd statuses for every
// living combatant. Must be called exactly once per round.
func (e *Engine) EndTurn() {
	if !e.state.Active {
		return
	}
	for _, c := range e.state.Combatants() {
		if c.IsDefeated() {
			continue
		}
		e.tickStatuses(c, status.TurnEnd)
	}
	e.evaluateOutcome()
}

// ExecuteAction validates and resolves one combat action. Defeated or stunned
// actors consume the action without effect: the actor loses their turn.
func (e *Engine) ExecuteAction(a Action) {
	if !e.state.Active {
		e.logf("The battle is already over.")
		return
	}
	actor := e.state.Find(a.ActorID)
	if actor == nil {
		e.logf("No combatant %q is present to act.", a.ActorID)
		return
	}
	if actor.IsDefeated() {
		e.logf("%s is down and cannot act.", actor.Name)
		return
	}
	if actor.Statuses.Has(status.Stunned) {
		e.logf("%s is stunned and loses their turn.", actor.Name)
		return
	}

	switch a.Type {
	case ActionAttack:
		e.executeAttack(actor, a)
	case ActionGuard:
		e.executeGuard(actor)
	case ActionSkill:
		e.executeSkill(actor, a)
	case ActionItem:
		e.executeItem(actor, a)
	case ActionWait:
		e.logf("%s waits.", actor.Name)
	default:
		e.logf("%s hesitates, unsure what to do.", actor.Name)
	}
	e.evaluateOutcome()
}

// IsOver reports whether one side has no living members. Once true, the
// state's Active flag is frozen false and further actions are no-ops.
func (e *Engine) IsOver() bool {
	e.evaluateOutcome()
	return !e.state.Active
}

// Victor returns the winning side, or SideNone while combat is still live.
func (e *Engine) Victor() Side {
	if !e.IsOver() {
		return SideNone
	}
	if !e.state.HasLivingParty() {
		return SideEnemy
	}
	return SideParty
}

func (e *Engine) executeAttack(actor *Combatant, a Action) {
	if actor.Resources.ActionPoints < 1 {
		e.logf("%s has no action points left to attack.", actor.Name)
		return
	}
	target := e.validateOpposingTarget(actor, a.TargetID)
	if target == nil {
		return
	}
	actor.SpendAP(1)
	result, err := ResolveDamage(actor, target, basicAttackFormula, e.src)
	if err != nil {
		e.logf("%s's attack fizzles: %v", actor.Name, err)
		return
	}
	e.logf("%s attacks %s.", actor.Name, target.Name)
	e.applyDamage(target, result)
}

// executeGuard enters the guard stance. Guarding while already guarding is a
// state no-op but still costs 1 AP.
func (e *Engine) executeGuard(actor *Combatant) {
	if !actor.SpendAP(1) {
		e.logf("%s has no action points left to guard.", actor.Name)
		return
	}
	if actor.Guarding {
		e.logf("%s is already guarding.", actor.Name)
		return
	}
	actor.Guarding = true
	e.logf("%s raises their guard.", actor.Name)
}

func (e *Engine) executeSkill(actor *Combatant, a Action) {
	if !actor.KnowsSkill(a.SkillID) {
		e.logf("%s does not know %q.", actor.Name, a.SkillID)
		return
	}
	skill, ok := e.provider.Skill(a.SkillID)
	if !ok {
		e.logf("Skill %q is missing from the content registry.", a.SkillID)
		return
	}
	if actor.Resources.ActionPoints < skill.APCost {
		e.logf("%s needs %d AP to use %s.", actor.Name, skill.APCost, skill.Name)
		return
	}
	if actor.MP < skill.MPCost {
		e.logf("%s needs %d MP to use %s.", actor.Name, skill.MPCost, skill.Name)
		return
	}

	// Costs are spent before target resolution and refunded if the target
	// turns out to be invalid.
	actor.SpendAP(skill.APCost)
	actor.MP -= skill.MPCost

	targets := e.resolveTargets(actor, skill.Targeting, a.TargetID)
	if len(targets) == 0 {
		actor.RefundAP(skill.APCost)
		actor.MP += skill.MPCost
		return
	}

	switch skill.Effect.Type {
	case "damage":
		formula := Formula{
			DiceExpression: skill.DiceExpression,
			FlatPower:      skill.FlatPower,
			AttackerScale:  skill.Scale(),
			IgnoreArmor:    skill.IgnoreArmor,
			MinimumDamage:  skill.MinimumDamage,
		}
		for _, target := range targets {
			result, err := ResolveDamage(actor, target, formula, e.src)
			if err != nil {
				e.logf("%s's %s fizzles: %v", actor.Name, skill.Name, err)
				continue
			}
			e.logf("%s uses %s on %s.", actor.Name, skill.Name, target.Name)
			e.applyDamage(target, result)
		}
	case "status":
		effect := skill.Effect.Status.Effect()
		for _, target := range targets {
			target.Statuses.Add(effect)
			e.logf("%s uses %s: %s is now %s.", actor.Name, skill.Name, target.Name, effect.Type)
		}
	default:
		e.logf("%s uses %s, but nothing happens.", actor.Name, skill.Name)
	}
}

func (e *Engine) executeItem(actor *Combatant, a Action) {
	stack := actor.FindItem(a.ItemID)
	if stack == nil || stack.Quantity <= 0 {
		e.logf("%s has no %q left.", actor.Name, a.ItemID)
		return
	}
	item, ok := e.provider.Item(a.ItemID)
	if !ok {
		e.logf("Item %q is missing from the content registry.", a.ItemID)
		return
	}
	if actor.Resources.ActionPoints < item.APCost {
		e.logf("%s needs %d AP to use %s.", actor.Name, item.APCost, item.Name)
		return
	}
	actor.SpendAP(item.APCost)

	var target *Combatant
	if item.Targeting.TargetsOwnSide() {
		target = actor
	} else {
		target = e.validateOpposingTarget(actor, a.TargetID)
		if target == nil {
			actor.RefundAP(item.APCost)
			return
		}
	}

	stack.Quantity--

	// Self-use with positive flat power is a heal; everything else resolves
	// as damage that does not scale off the user's attack stat.
	if target == actor && item.FlatPower > 0 {
		target.Heal(item.FlatPower)
		e.logf("%s uses %s and recovers %d HP (%d/%d).",
			actor.Name, item.Name, item.FlatPower, target.HP, target.MaxHP)
		return
	}

	formula := Formula{
		DiceExpression: item.DiceExpression,
		FlatPower:      item.FlatPower,
		AttackerScale:  0,
		MinimumDamage:  item.MinimumDamage,
	}
	result, err := ResolveDamage(actor, target, formula, e.src)
	if err != nil {
		e.logf("%s's %s fizzles: %v", actor.Name, item.Name, err)
		return
	}
	e.logf("%s uses %s on %s.", actor.Name, item.Name, target.Name)
	e.applyDamage(target, result)
}

// validateOpposingTarget resolves targetID to a living combatant on the side
// opposing actor. The side check is symmetric set membership: neither side
// may target its own. Failures are logged and yield nil.
func (e *Engine) validateOpposingTarget(actor *Combatant, targetID string) *Combatant {
	target := e.state.Find(targetID)
	if target == nil {
		e.logf("%s finds no target %q.", actor.Name, targetID)
		return nil
	}
	if target.IsDefeated() {
		e.logf("%s is already down.", target.Name)
		return nil
	}
	if !e.state.Opposed(actor, target) {
		e.logf("%s cannot target their own side.", actor.Name)
		return nil
	}
	return target
}

// resolveTargets resolves a skill targeting rule into zero or more living
// combatants. An empty result means the action should abort (already logged).
func (e *Engine) resolveTargets(actor *Combatant, t content.Targeting, targetID string) []*Combatant {
	switch t {
	case content.TargetSelf:
		return []*Combatant{actor}
	case content.TargetSingleAlly:
		if targetID == "" || targetID == actor.ID {
			return []*Combatant{actor}
		}
		ally := e.state.Find(targetID)
		if ally == nil || ally.IsDefeated() || e.state.Opposed(actor, ally) {
			e.logf("%s has no such ally %q.", actor.Name, targetID)
			return nil
		}
		return []*Combatant{ally}
	case content.TargetAllAllies:
		var out []*Combatant
		for _, c := range e.state.Combatants() {
			if !c.IsDefeated() && !e.state.Opposed(actor, c) {
				out = append(out, c)
			}
		}
		return out
	case content.TargetAllEnemies:
		var out []*Combatant
		for _, c := range e.state.Combatants() {
			if !c.IsDefeated() && e.state.Opposed(actor, c) {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			e.logf("%s finds no targets.", actor.Name)
		}
		return out
	default: // single_enemy
		target := e.validateOpposingTarget(actor, targetID)
		if target == nil {
			return nil
		}
		return []*Combatant{target}
	}
}

// applyDamage is the single point of HP mutation from combat actions (status
// ticks mutate HP separately). A damaging hit breaks the target's guard.
func (e *Engine) applyDamage(target *Combatant, r DamageResult) {
	target.HP -= r.FinalDamage
	if target.HP < 0 {
		target.HP = 0
	}
	e.logf("%s takes %d damage (raw %d, blocked %d), %d/%d HP remaining.",
		target.Name, r.FinalDamage, r.RawDamage, r.Blocked, target.HP, target.MaxHP)
	if target.Guarding && r.FinalDamage > 0 {
		target.Guarding = false
		e.logf("%s's guard is broken!", target.Name)
	}
	if target.IsDefeated() {
		e.logf("%s is defeated!", target.Name)
	}
}

// tickStatuses runs one phase tick on c's ledger, applying reported periodic
// damage and healing to HP and narrating each result.
func (e *Engine) tickStatuses(c *Combatant, phase status.Window) {
	for _, r := range c.Statuses.TickPhase(phase) {
		if r.Healing > 0 && !c.IsDefeated() {
			c.Heal(r.Healing)
			e.logf("%s recovers %d HP from %s, %d/%d HP remaining.",
				c.Name, r.Healing, r.Effect.Type, c.HP, c.MaxHP)
		}
		if r.Damage > 0 {
			c.HP -= r.Damage
			if c.HP < 0 {
				c.HP = 0
			}
			e.logf("%s suffers %d %s damage, %d/%d HP remaining.",
				c.Name, r.Damage, r.Effect.Type, c.HP, c.MaxHP)
			if c.IsDefeated() {
				e.logf("%s is defeated!", c.Name)
			}
		}
		if r.Expired {
			e.logf("%s is no longer %s.", c.Name, r.Effect.Type)
		}
	}
}

// evaluateOutcome freezes the encounter once either side has no living
// members.
func (e *Engine) evaluateOutcome() {
	if !e.state.Active {
		return
	}
	switch {
	case !e.state.HasLivingParty():
		e.state.Active = false
		e.logf("The party has fallen.")
	case !e.state.HasLivingEnemy():
		e.state.Active = false
		e.logf("The enemy is vanquished!")
	}
}

func (e *Engine) logf(format string, args ...any) {
	e.log.Add(fmt.Sprintf(format, args...))
}
