// Package sim orchestrates full encounters: it builds combatants from content
// templates, drives the turn loop with party policy and enemy AI, awards
// experience on victory, and optionally snapshots state between turns.
package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jcalloway/riftwood/internal/game/ai"
	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/dice"
	"github.com/jcalloway/riftwood/internal/game/leveling"
)

// SnapshotStore persists encounter state between turns. Optional; a nil
// store disables snapshotting.
type SnapshotStore interface {
	Save(ctx context.Context, encounterID uuid.UUID, state *combat.State) error
}

// Result summarizes one finished encounter.
type Result struct {
	EncounterID uuid.UUID
	Victor      combat.Side
	Turns       int
	LevelUps    []leveling.LevelUpResult
	Narration   []string
}

// Runner drives encounters from start to outcome.
type Runner struct {
	registry *content.Registry
	logger   *zap.Logger
	src      dice.Source
	pacer    *Pacer
	store    SnapshotStore
	maxTurns int
}

// NewRunner creates a Runner.
//
// Precondition: registry, logger, src, and pacer must be non-nil; maxTurns >= 1.
func NewRunner(registry *content.Registry, logger *zap.Logger, src dice.Source, pacer *Pacer, store SnapshotStore, maxTurns int) *Runner {
	if registry == nil || logger == nil || src == nil || pacer == nil {
		panic("sim.NewRunner: precondition violated: registry, logger, src, and pacer must be non-nil")
	}
	if maxTurns < 1 {
		panic("sim.NewRunner: precondition violated: maxTurns must be >= 1")
	}
	return &Runner{
		registry: registry,
		logger:   logger,
		src:      src,
		pacer:    pacer,
		store:    store,
		maxTurns: maxTurns,
	}
}

// Run simulates one encounter between a party built from classIDs and the
// enemy template named by enemyID. The encounter ends on victory, defeat, or
// the turn cap; a capped encounter reports no victor.
//
// Postcondition: the returned Result carries the full ordered narration and
// any level-ups awarded from the enemy's XP reward.
func (r *Runner) Run(ctx context.Context, classIDs []string, enemyID string) (Result, error) {
	party, err := BuildParty(r.registry, classIDs)
	if err != nil {
		return Result{}, err
	}
	enemyTmpl, ok := r.registry.Enemy(enemyID)
	if !ok {
		return Result{}, fmt.Errorf("running encounter: unknown enemy %q", enemyID)
	}
	enemy := NewEnemy(enemyTmpl)
	role, _ := ai.ParseRole(enemy.Role)

	encounterID := uuid.New()
	log := combat.NewMemoryLog()
	state := combat.NewState(party, enemy)
	engine := combat.NewEngine(state, r.registry, log, r.src)

	rollInitiative(state.Combatants(), dice.NewLoggedRoller(r.src, r.logger))

	r.logger.Info("encounter started",
		zap.String("encounter_id", encounterID.String()),
		zap.String("enemy", enemy.Name),
		zap.Int("party_size", len(party)),
	)

	for !engine.IsOver() && state.TurnNumber < r.maxTurns {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("encounter %s cancelled: %w", encounterID, err)
		}

		engine.StartTurn()

		for _, member := range byInitiative(state.LivingParty()) {
			if engine.IsOver() {
				break
			}
			engine.ExecuteAction(r.partyAction(member, state))
		}

		if !engine.IsOver() {
			if err := r.pacer.Wait(ctx); err != nil {
				return Result{}, fmt.Errorf("encounter %s cancelled: %w", encounterID, err)
			}
			action := ai.Decide(enemy, role, state.Party, []*combat.Combatant{enemy}, r.registry, r.src)
			engine.ExecuteAction(action)
		}

		engine.EndTurn()

		if r.store != nil {
			if err := r.store.Save(ctx, encounterID, state); err != nil {
				r.logger.Warn("snapshot failed",
					zap.String("encounter_id", encounterID.String()),
					zap.Error(err),
				)
			}
		}
	}

	result := Result{
		EncounterID: encounterID,
		Victor:      engine.Victor(),
		Turns:       state.TurnNumber,
		Narration:   log.Messages(),
	}

	if result.Victor == combat.SideParty {
		result.LevelUps = leveling.AwardXP(party, enemy.RewardXP, r.registry, nil)
	}

	r.logger.Info("encounter finished",
		zap.String("encounter_id", encounterID.String()),
		zap.String("victor", string(result.Victor)),
		zap.Int("turns", result.Turns),
		zap.Int("level_ups", len(result.LevelUps)),
	)
	return result, nil
}

// rollInitiative seeds each combatant's initiative with 1d20 plus speed.
// Party members act in descending initiative order within a turn.
func rollInitiative(combatants []*combat.Combatant, roller *dice.Roller) {
	for _, c := range combatants {
		result, err := roller.RollExpr("1d20")
		if err != nil {
			c.Resources.Initiative = c.Speed
			continue
		}
		c.Resources.Initiative = result.Total() + c.Speed
	}
}

// byInitiative returns members sorted by descending initiative; the sort is
// stable so equal rolls keep party order.
func byInitiative(members []*combat.Combatant) []*combat.Combatant {
	out := make([]*combat.Combatant, len(members))
	copy(out, members)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Resources.Initiative > out[j].Resources.Initiative
	})
	return out
}

// partyAction is the scripted party policy: drink a restorative when badly
// hurt, otherwise attack. It stands in for player input in unattended runs.
func (r *Runner) partyAction(member *combat.Combatant, state *combat.State) combat.Action {
	if member.HPPercent() < 30 {
		for _, stack := range member.Items {
			if stack.Quantity <= 0 {
				continue
			}
			item, ok := r.registry.Item(stack.TemplateID)
			if !ok || !item.Targeting.TargetsOwnSide() || item.FlatPower <= 0 {
				continue
			}
			return combat.Action{Type: combat.ActionItem, ActorID: member.ID, ItemID: item.ID}
		}
	}
	if state.Enemy != nil {
		return combat.Action{Type: combat.ActionAttack, ActorID: member.ID, TargetID: state.Enemy.ID}
	}
	return combat.Action{Type: combat.ActionWait, ActorID: member.ID}
}
