package combat

// State is the aggregate battlefield state for one encounter: the party, the
// single enemy, and the turn counter. It is the single source of truth: the
// Engine exclusively owns and mutates it; all other components receive
// read-only views.
type State struct {
	Party      []*Combatant
	Enemy      *Combatant
	TurnNumber int
	Active     bool
}

// NewState creates an active encounter state.
//
// Precondition: every party member and the enemy (if present) must be non-nil.
func NewState(party []*Combatant, enemy *Combatant) *State {
	return &State{
		Party:  party,
		Enemy:  enemy,
		Active: true,
	}
}

// Find returns the combatant with the given id, or nil.
func (s *State) Find(id string) *Combatant {
	for _, c := range s.Party {
		if c.ID == id {
			return c
		}
	}
	if s.Enemy != nil && s.Enemy.ID == id {
		return s.Enemy
	}
	return nil
}

// Combatants returns all participants, party first, then the enemy.
func (s *State) Combatants() []*Combatant {
	out := make([]*Combatant, 0, len(s.Party)+1)
	out = append(out, s.Party...)
	if s.Enemy != nil {
		out = append(out, s.Enemy)
	}
	return out
}

// LivingParty returns the party members with HP > 0.
//
// Postcondition: no returned combatant is defeated.
func (s *State) LivingParty() []*Combatant {
	var alive []*Combatant
	for _, c := range s.Party {
		if !c.IsDefeated() {
			alive = append(alive, c)
		}
	}
	return alive
}

// HasLivingParty reports whether any party member is still standing.
func (s *State) HasLivingParty() bool {
	return len(s.LivingParty()) > 0
}

// HasLivingEnemy reports whether the enemy is still standing.
func (s *State) HasLivingEnemy() bool {
	return s.Enemy != nil && !s.Enemy.IsDefeated()
}

// SideOf returns the side a combatant belongs to, determined by set
// membership rather than fixed roles.
//
// Postcondition: Returns SideNone for combatants not in this encounter.
func (s *State) SideOf(c *Combatant) Side {
	for _, p := range s.Party {
		if p == c {
			return SideParty
		}
	}
	if s.Enemy != nil && s.Enemy == c {
		return SideEnemy
	}
	return SideNone
}

// Opposed reports whether a and b are on opposing sides of this encounter.
func (s *State) Opposed(a, b *Combatant) bool {
	sa, sb := s.SideOf(a), s.SideOf(b)
	return sa != SideNone && sb != SideNone && sa != sb
}
