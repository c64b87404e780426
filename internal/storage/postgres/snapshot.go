package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jcalloway/riftwood/internal/game/combat"
	"github.com/jcalloway/riftwood/internal/game/status"
)

// snapshotVersion tags the serialized encounter layout. Bump it whenever the
// record shapes below change incompatibly.
const snapshotVersion = 1

var (
	// ErrVersionUnknown marks a stored snapshot written by an unrecognized
	// layout version. Callers discard such snapshots; they never crash on them.
	ErrVersionUnknown = errors.New("snapshot version unknown")
	// ErrSnapshotNotFound marks a missing encounter id.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// effectRecord is the JSON shape of one active status effect.
type effectRecord struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Value    int    `json:"value,omitempty"`
	Stacks   int    `json:"stacks"`
	Window   string `json:"window"`
	Rule     string `json:"rule"`
}

// itemRecord is the JSON shape of one held item stack.
type itemRecord struct {
	TemplateID string `json:"template_id"`
	Quantity   int    `json:"quantity"`
}

// combatantRecord is the JSON shape of one combatant.
type combatantRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Kind     int            `json:"kind"`
	HP       int            `json:"hp"`
	MaxHP    int            `json:"max_hp"`
	MP       int            `json:"mp"`
	MaxMP    int            `json:"max_mp"`
	Attack   int            `json:"attack"`
	Armor    int            `json:"armor"`
	Speed    int            `json:"speed"`
	Level    int            `json:"level"`
	XP       int            `json:"xp"`
	XPToNext int            `json:"xp_to_next"`
	ClassID  string         `json:"class_id,omitempty"`
	Role     string         `json:"role,omitempty"`
	RewardXP int            `json:"reward_xp,omitempty"`
	Guarding bool           `json:"guarding"`
	AP       int            `json:"ap"`
	MaxAP    int            `json:"max_ap"`
	Effects  []effectRecord `json:"effects,omitempty"`
	SkillIDs []string       `json:"skills,omitempty"`
	Items    []itemRecord   `json:"items,omitempty"`
}

// stateRecord is the JSON shape of one encounter state.
type stateRecord struct {
	Party      []combatantRecord `json:"party"`
	Enemy      *combatantRecord  `json:"enemy,omitempty"`
	TurnNumber int               `json:"turn_number"`
	Active     bool              `json:"active"`
}

// SnapshotRepository persists encounter states as versioned JSON documents.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a repository backed by the given pool.
//
// Precondition: pool must be non-nil and connected.
func NewSnapshotRepository(pool *Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool.DB()}
}

// Save upserts the encounter's current state.
//
// Postcondition: a subsequent Load with the same id returns an equivalent state.
func (r *SnapshotRepository) Save(ctx context.Context, encounterID uuid.UUID, state *combat.State) error {
	payload, err := json.Marshal(encodeState(state))
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO encounter_snapshots (encounter_id, version, state, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (encounter_id)
		DO UPDATE SET version = EXCLUDED.version, state = EXCLUDED.state, updated_at = NOW()
	`, encounterID, snapshotVersion, payload)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", encounterID, err)
	}
	return nil
}

// Load restores a previously saved encounter state.
//
// Postcondition: returns ErrSnapshotNotFound for unknown ids and
// ErrVersionUnknown for snapshots written under an unrecognized version;
// neither is fatal to the caller.
func (r *SnapshotRepository) Load(ctx context.Context, encounterID uuid.UUID) (*combat.State, error) {
	var (
		version int
		payload []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT version, state FROM encounter_snapshots WHERE encounter_id = $1
	`, encounterID).Scan(&version, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", encounterID, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", encounterID, err)
	}

	if version != snapshotVersion {
		return nil, fmt.Errorf("snapshot %s has version %d: %w", encounterID, version, ErrVersionUnknown)
	}

	var record stateRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", encounterID, err)
	}
	return decodeState(record), nil
}

// Delete removes a snapshot; deleting a missing id is not an error.
func (r *SnapshotRepository) Delete(ctx context.Context, encounterID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM encounter_snapshots WHERE encounter_id = $1
	`, encounterID)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", encounterID, err)
	}
	return nil
}

func encodeState(state *combat.State) stateRecord {
	record := stateRecord{
		TurnNumber: state.TurnNumber,
		Active:     state.Active,
	}
	for _, c := range state.Party {
		record.Party = append(record.Party, encodeCombatant(c))
	}
	if state.Enemy != nil {
		enemy := encodeCombatant(state.Enemy)
		record.Enemy = &enemy
	}
	return record
}

func encodeCombatant(c *combat.Combatant) combatantRecord {
	record := combatantRecord{
		ID: c.ID, Name: c.Name, Kind: int(c.Kind),
		HP: c.HP, MaxHP: c.MaxHP, MP: c.MP, MaxMP: c.MaxMP,
		Attack: c.Attack, Armor: c.Armor, Speed: c.Speed,
		Level: c.Level, XP: c.XP, XPToNext: c.XPToNext,
		ClassID: c.ClassID, Role: c.Role, RewardXP: c.RewardXP,
		Guarding: c.Guarding,
		AP:       c.Resources.ActionPoints,
		MaxAP:    c.Resources.MaxActionPoints,
		SkillIDs: c.SkillIDs,
	}
	for _, e := range c.Statuses.All() {
		record.Effects = append(record.Effects, effectRecord{
			Type:     string(e.Type),
			Duration: e.Duration,
			Value:    e.Value,
			Stacks:   e.Stacks,
			Window:   string(e.Window),
			Rule:     string(e.Rule),
		})
	}
	for _, i := range c.Items {
		record.Items = append(record.Items, itemRecord{TemplateID: i.TemplateID, Quantity: i.Quantity})
	}
	return record
}

func decodeState(record stateRecord) *combat.State {
	state := &combat.State{
		TurnNumber: record.TurnNumber,
		Active:     record.Active,
	}
	for _, cr := range record.Party {
		state.Party = append(state.Party, decodeCombatant(cr))
	}
	if record.Enemy != nil {
		state.Enemy = decodeCombatant(*record.Enemy)
	}
	return state
}

func decodeCombatant(record combatantRecord) *combat.Combatant {
	c := &combat.Combatant{
		ID: record.ID, Name: record.Name, Kind: combat.Kind(record.Kind),
		HP: record.HP, MaxHP: record.MaxHP, MP: record.MP, MaxMP: record.MaxMP,
		Attack: record.Attack, Armor: record.Armor, Speed: record.Speed,
		Level: record.Level, XP: record.XP, XPToNext: record.XPToNext,
		ClassID: record.ClassID, Role: record.Role, RewardXP: record.RewardXP,
		Guarding: record.Guarding,
		Statuses: status.NewLedger(),
		Resources: combat.TurnResources{
			ActionPoints:    record.AP,
			MaxActionPoints: record.MaxAP,
		},
		SkillIDs: record.SkillIDs,
	}
	for _, e := range record.Effects {
		c.Statuses.Add(status.Effect{
			Type:     status.Type(e.Type),
			Duration: e.Duration,
			Value:    e.Value,
			Stacks:   e.Stacks,
			Window:   status.Window(e.Window),
			Rule:     status.Rule(e.Rule),
		})
	}
	for _, i := range record.Items {
		c.Items = append(c.Items, combat.ItemStack{TemplateID: i.TemplateID, Quantity: i.Quantity})
	}
	return c
}
