package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/content"
	"github.com/jcalloway/riftwood/internal/game/dice"
)

func testRegistry() *content.Registry {
	r := content.NewRegistry()
	r.RegisterSkill(&content.SkillTemplate{
		ID: "strike", Name: "Strike", APCost: 1,
		Targeting:      content.TargetSingleEnemy,
		Effect:         content.SkillEffect{Type: "damage"},
		DiceExpression: "1d6",
		BasicAttack:    true,
	})
	r.RegisterItem(&content.ItemTemplate{
		ID: "tonic", Name: "Tonic", APCost: 1,
		Targeting: content.TargetSelf, FlatPower: 8,
	})
	r.RegisterEnemy(&content.EnemyTemplate{
		ID: "wisp", Name: "Marsh Wisp", Level: 1,
		MaxHP: 12, Attack: 2, Armor: 0, Speed: 3,
		MaxActionPoints: 1, Role: "basic", RewardXP: 30,
	})
	r.RegisterClass(&content.ClassTemplate{
		ID: "warden", Name: "Warden",
		BaseHP: 30, BaseMP: 10, BaseAttack: 6, BaseArmor: 2, BaseSpeed: 5,
		MaxActionPoints: 2,
		Growth:          content.StatGrowth{HP: 5, Attack: 1},
		StartingSkills:  []string{"strike"},
		StartingItems:   []content.StartingItem{{ItemID: "tonic", Quantity: 2}},
	})
	return r
}

func newTestRunner(t *testing.T, registry *content.Registry, seed int64, maxTurns int) *Runner {
	t.Helper()
	return NewRunner(registry, zap.NewNop(), dice.NewSeededSource(seed), NewPacer(0), nil, maxTurns)
}

func TestRunnerPartyWins(t *testing.T) {
	registry := testRegistry()
	runner := newTestRunner(t, registry, 7, 50)

	result, err := runner.Run(context.Background(), []string{"warden", "warden"}, "wisp")
	require.NoError(t, err)

	assert.Equal(t, combat.SideParty, result.Victor,
		"two level-1 wardens should beat one wisp")
	assert.Greater(t, result.Turns, 0)
	assert.NotEmpty(t, result.Narration)
	assert.NotEqual(t, result.EncounterID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestRunnerAwardsXPOnVictory(t *testing.T) {
	registry := testRegistry()
	runner := newTestRunner(t, registry, 7, 50)

	result, err := runner.Run(context.Background(), []string{"warden"}, "wisp")
	require.NoError(t, err)
	require.Equal(t, combat.SideParty, result.Victor)

	// 30 XP against a 10-XP first threshold is at least one level.
	require.NotEmpty(t, result.LevelUps)
	assert.Equal(t, 2, result.LevelUps[0].ToLevel)
}

func TestRunnerTurnCapYieldsNoVictor(t *testing.T) {
	registry := testRegistry()
	// An unkillable wall: neither side can land meaningful damage.
	registry.RegisterEnemy(&content.EnemyTemplate{
		ID: "wall", Name: "Stone Wall", Level: 1,
		MaxHP: 9999, Attack: 0, Armor: 9999, Speed: 1,
		MaxActionPoints: 1, Role: "tank", RewardXP: 0,
	})
	runner := newTestRunner(t, registry, 7, 5)

	result, err := runner.Run(context.Background(), []string{"warden"}, "wall")
	require.NoError(t, err)

	assert.Equal(t, combat.SideNone, result.Victor)
	assert.Equal(t, 5, result.Turns, "the loop should stop at the turn cap")
}

func TestRunnerUnknownContent(t *testing.T) {
	registry := testRegistry()
	runner := newTestRunner(t, registry, 7, 50)

	_, err := runner.Run(context.Background(), []string{"bard"}, "wisp")
	assert.Error(t, err, "unknown class should fail fast")

	_, err = runner.Run(context.Background(), []string{"warden"}, "dragon")
	assert.Error(t, err, "unknown enemy should fail fast")
}

func TestRunnerHonorsCancellation(t *testing.T) {
	registry := testRegistry()
	runner := newTestRunner(t, registry, 7, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, []string{"warden"}, "wisp")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerIsDeterministicUnderSeed(t *testing.T) {
	first, err := newTestRunner(t, testRegistry(), 99, 50).Run(context.Background(), []string{"warden"}, "wisp")
	require.NoError(t, err)
	second, err := newTestRunner(t, testRegistry(), 99, 50).Run(context.Background(), []string{"warden"}, "wisp")
	require.NoError(t, err)

	assert.Equal(t, first.Victor, second.Victor)
	assert.Equal(t, first.Turns, second.Turns)
	assert.Equal(t, first.Narration, second.Narration)
}

func TestNewCharacterFromClass(t *testing.T) {
	registry := testRegistry()
	class, ok := registry.Class("warden")
	require.True(t, ok)

	c := NewCharacter("Rella", class)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Rella", c.Name)
	assert.Equal(t, combat.KindCharacter, c.Kind)
	assert.Equal(t, 30, c.HP)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, []string{"strike"}, c.SkillIDs)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)

	other := NewCharacter("Rella", class)
	assert.NotEqual(t, c.ID, other.ID, "instance ids must be unique")
}

func TestNewEnemyFromTemplate(t *testing.T) {
	registry := testRegistry()
	tmpl, ok := registry.Enemy("wisp")
	require.True(t, ok)

	e := NewEnemy(tmpl)

	assert.Equal(t, combat.KindEnemy, e.Kind)
	assert.Equal(t, 12, e.HP)
	assert.Equal(t, "basic", e.Role)
	assert.Equal(t, 30, e.RewardXP)
	assert.Equal(t, 1, e.Resources.MaxActionPoints)
}

func TestInitiativeOrdering(t *testing.T) {
	registry := testRegistry()
	class, ok := registry.Class("warden")
	require.True(t, ok)

	fast := NewCharacter("Fast", class)
	slow := NewCharacter("Slow", class)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())

	rollInitiative([]*combat.Combatant{fast, slow}, roller)
	assert.Greater(t, fast.Resources.Initiative, 0, "initiative should include the roll")
	assert.Greater(t, slow.Resources.Initiative, 0)

	fast.Resources.Initiative = 20
	slow.Resources.Initiative = 5
	ordered := byInitiative([]*combat.Combatant{slow, fast})
	require.Len(t, ordered, 2)
	assert.Same(t, fast, ordered[0], "higher initiative acts first")
}

func TestPacerWait(t *testing.T) {
	p := NewPacer(10 * time.Millisecond)
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	assert.NoError(t, NewPacer(0).Wait(context.Background()), "zero delay returns immediately")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewPacer(time.Hour).Wait(ctx), context.Canceled)
}
