package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/status"
	"github.com/jcalloway/riftwood/internal/storage/postgres"
	"github.com/jcalloway/riftwood/internal/testutil"
)

func testState() *combat.State {
	hero := &combat.Combatant{
		ID: "hero", Name: "Rella", Kind: combat.KindCharacter,
		HP: 13, MaxHP: 20, MP: 7, MaxMP: 10,
		Attack: 5, Armor: 1, Speed: 5,
		Level: 2, XP: 4, XPToNext: 40, ClassID: "warden",
		Statuses:  status.NewLedger(),
		Resources: combat.TurnResources{ActionPoints: 1, MaxActionPoints: 3},
		SkillIDs:  []string{"ember"},
		Items:     []combat.ItemStack{{TemplateID: "tonic", Quantity: 2}},
	}
	hero.Statuses.Add(status.Effect{
		Type: status.Poisoned, Duration: 2, Value: 2,
		Window: status.TurnEnd, Rule: status.Replace,
	})
	enemy := &combat.Combatant{
		ID: "wisp", Name: "Marsh Wisp", Kind: combat.KindEnemy,
		HP: 9, MaxHP: 20, Attack: 4, Armor: 2,
		Role: "caster", RewardXP: 30, Guarding: true,
		Statuses:  status.NewLedger(),
		Resources: combat.TurnResources{ActionPoints: 2, MaxActionPoints: 2},
		SkillIDs:  []string{"gale"},
	}
	return &combat.State{Party: []*combat.Combatant{hero}, Enemy: enemy, TurnNumber: 3, Active: true}
}

func TestSnapshotRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewSnapshotRepository(pc.Pool)
	ctx := context.Background()

	id := uuid.New()
	original := testState()
	require.NoError(t, repo.Save(ctx, id, original))

	restored, err := repo.Load(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, 3, restored.TurnNumber)
	assert.True(t, restored.Active)
	require.Len(t, restored.Party, 1)

	hero := restored.Party[0]
	assert.Equal(t, "Rella", hero.Name)
	assert.Equal(t, 13, hero.HP)
	assert.Equal(t, 1, hero.Resources.ActionPoints)
	assert.Equal(t, []string{"ember"}, hero.SkillIDs)
	assert.Equal(t, 2, hero.Items[0].Quantity)
	effect, ok := hero.Statuses.Get(status.Poisoned)
	require.True(t, ok, "status effects should survive the round trip")
	assert.Equal(t, 2, effect.Duration)

	require.NotNil(t, restored.Enemy)
	assert.Equal(t, "caster", restored.Enemy.Role)
	assert.True(t, restored.Enemy.Guarding)
	assert.Equal(t, 30, restored.Enemy.RewardXP)
}

func TestSnapshotUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewSnapshotRepository(pc.Pool)
	ctx := context.Background()

	id := uuid.New()
	state := testState()
	require.NoError(t, repo.Save(ctx, id, state))

	state.TurnNumber = 7
	state.Party[0].HP = 2
	require.NoError(t, repo.Save(ctx, id, state))

	restored, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7, restored.TurnNumber, "saving twice should overwrite")
	assert.Equal(t, 2, restored.Party[0].HP)
}

func TestSnapshotNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewSnapshotRepository(pc.Pool)

	_, err := repo.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postgres.ErrSnapshotNotFound)
}

func TestSnapshotUnknownVersionIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewSnapshotRepository(pc.Pool)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, repo.Save(ctx, id, testState()))

	_, err := pc.RawPool.Exec(ctx, `UPDATE encounter_snapshots SET version = 999 WHERE encounter_id = $1`, id)
	require.NoError(t, err)

	_, err = repo.Load(ctx, id)
	assert.ErrorIs(t, err, postgres.ErrVersionUnknown, "future-version snapshots are discarded, not trusted")
}

func TestSnapshotDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewSnapshotRepository(pc.Pool)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, repo.Save(ctx, id, testState()))
	require.NoError(t, repo.Delete(ctx, id))

	_, err := repo.Load(ctx, id)
	assert.ErrorIs(t, err, postgres.ErrSnapshotNotFound)

	assert.NoError(t, repo.Delete(ctx, id), "deleting a missing snapshot is not an error")
}
