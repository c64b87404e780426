package content

import "fmt"

// Registry holds all loaded templates keyed by id. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	skills        map[string]*SkillTemplate
	items         map[string]*ItemTemplate
	enemies       map[string]*EnemyTemplate
	classes       map[string]*ClassTemplate
	basicAttackID string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		skills:  make(map[string]*SkillTemplate),
		items:   make(map[string]*ItemTemplate),
		enemies: make(map[string]*EnemyTemplate),
		classes: make(map[string]*ClassTemplate),
	}
}

// RegisterSkill adds a skill template; the last registration for an id wins.
// A template flagged BasicAttack becomes the registry's basic attack id.
//
// Precondition: tmpl must be non-nil with a non-empty ID.
func (r *Registry) RegisterSkill(tmpl *SkillTemplate) {
	if tmpl == nil || tmpl.ID == "" {
		panic("content.Registry.RegisterSkill: precondition violated: template must be non-nil with an ID")
	}
	r.skills[tmpl.ID] = tmpl
	if tmpl.BasicAttack {
		r.basicAttackID = tmpl.ID
	}
}

// RegisterItem adds an item template; the last registration for an id wins.
func (r *Registry) RegisterItem(tmpl *ItemTemplate) {
	if tmpl == nil || tmpl.ID == "" {
		panic("content.Registry.RegisterItem: precondition violated: template must be non-nil with an ID")
	}
	r.items[tmpl.ID] = tmpl
}

// RegisterEnemy adds an enemy template; the last registration for an id wins.
func (r *Registry) RegisterEnemy(tmpl *EnemyTemplate) {
	if tmpl == nil || tmpl.ID == "" {
		panic("content.Registry.RegisterEnemy: precondition violated: template must be non-nil with an ID")
	}
	r.enemies[tmpl.ID] = tmpl
}

// RegisterClass adds a class template; the last registration for an id wins.
func (r *Registry) RegisterClass(tmpl *ClassTemplate) {
	if tmpl == nil || tmpl.ID == "" {
		panic("content.Registry.RegisterClass: precondition violated: template must be non-nil with an ID")
	}
	r.classes[tmpl.ID] = tmpl
}

// Skill returns the skill template for id, or (nil, false) if not found.
func (r *Registry) Skill(id string) (*SkillTemplate, bool) {
	t, ok := r.skills[id]
	return t, ok
}

// Item returns the item template for id, or (nil, false) if not found.
func (r *Registry) Item(id string) (*ItemTemplate, bool) {
	t, ok := r.items[id]
	return t, ok
}

// Enemy returns the enemy template for id, or (nil, false) if not found.
func (r *Registry) Enemy(id string) (*EnemyTemplate, bool) {
	t, ok := r.enemies[id]
	return t, ok
}

// Class returns the class template for id, or (nil, false) if not found.
func (r *Registry) Class(id string) (*ClassTemplate, bool) {
	t, ok := r.classes[id]
	return t, ok
}

// BasicAttackID returns the id of the skill designated as the generic basic
// attack, or "" when no loaded skill carries the flag.
func (r *Registry) BasicAttackID() string {
	return r.basicAttackID
}

// Validate checks cross-template references: every skill id referenced by an
// enemy or class must resolve, as must every class starting item.
//
// Postcondition: nil return guarantees all referenced ids resolve.
func (r *Registry) Validate() error {
	for _, e := range r.enemies {
		for _, sid := range e.SkillIDs {
			if _, ok := r.skills[sid]; !ok {
				return fmt.Errorf("enemy %q references unknown skill %q", e.ID, sid)
			}
		}
	}
	for _, c := range r.classes {
		for _, sid := range c.StartingSkills {
			if _, ok := r.skills[sid]; !ok {
				return fmt.Errorf("class %q references unknown skill %q", c.ID, sid)
			}
		}
		for _, ls := range c.LearnableSkills {
			if _, ok := r.skills[ls.SkillID]; !ok {
				return fmt.Errorf("class %q references unknown learnable skill %q", c.ID, ls.SkillID)
			}
		}
		for _, si := range c.StartingItems {
			if _, ok := r.items[si.ItemID]; !ok {
				return fmt.Errorf("class %q references unknown item %q", c.ID, si.ItemID)
			}
		}
	}
	return nil
}

// LoadRegistry loads all four template directories into a validated Registry.
//
// Precondition: all four directories must be readable.
// Postcondition: Returns a Registry whose cross-references have passed Validate.
func LoadRegistry(skillsDir, itemsDir, enemiesDir, classesDir string) (*Registry, error) {
	reg := NewRegistry()

	skills, err := LoadSkills(skillsDir)
	if err != nil {
		return nil, err
	}
	for _, s := range skills {
		reg.RegisterSkill(s)
	}

	items, err := LoadItems(itemsDir)
	if err != nil {
		return nil, err
	}
	for _, i := range items {
		reg.RegisterItem(i)
	}

	enemies, err := LoadEnemies(enemiesDir)
	if err != nil {
		return nil, err
	}
	for _, e := range enemies {
		reg.RegisterEnemy(e)
	}

	classes, err := LoadClasses(classesDir)
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		reg.RegisterClass(c)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
