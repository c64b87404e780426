package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlFiles returns the sorted paths of all *.yaml files directly in dir.
//
// Precondition: dir must be a readable directory.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// decodeStrict parses data into out, rejecting unknown fields.
func decodeStrict(path string, data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}

// LoadSkills reads every *.yaml file in dir as a SkillTemplate.
//
// Postcondition: all returned templates have passed Validate; on error the
// partial result is discarded.
func LoadSkills(dir string) ([]*SkillTemplate, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var out []*SkillTemplate
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var tmpl SkillTemplate
		if err := decodeStrict(path, data, &tmpl); err != nil {
			return nil, err
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, &tmpl)
	}
	return out, nil
}

// LoadItems reads every *.yaml file in dir as an ItemTemplate.
//
// Postcondition: all returned templates have passed Validate.
func LoadItems(dir string) ([]*ItemTemplate, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var out []*ItemTemplate
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var tmpl ItemTemplate
		if err := decodeStrict(path, data, &tmpl); err != nil {
			return nil, err
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, &tmpl)
	}
	return out, nil
}

// LoadEnemies reads every *.yaml file in dir as an EnemyTemplate.
//
// Postcondition: all returned templates have passed Validate.
func LoadEnemies(dir string) ([]*EnemyTemplate, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var out []*EnemyTemplate
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var tmpl EnemyTemplate
		if err := decodeStrict(path, data, &tmpl); err != nil {
			return nil, err
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, &tmpl)
	}
	return out, nil
}

// LoadClasses reads every *.yaml file in dir as a ClassTemplate.
//
// Postcondition: all returned templates have passed Validate.
func LoadClasses(dir string) ([]*ClassTemplate, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var out []*ClassTemplate
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var tmpl ClassTemplate
		if err := decodeStrict(path, data, &tmpl); err != nil {
			return nil, err
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, &tmpl)
	}
	return out, nil
}
