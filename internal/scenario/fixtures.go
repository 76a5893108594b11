package scenario

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"whodunit/internal/clue"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Fixture is a hand-written clue feed with the deductions it must yield.
type Fixture struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Feed        clue.Feed `yaml:"feed"`
	Expect      Expect    `yaml:"expect"`
}

// Expect lists what the solver must prove for a fixture. Statements not
// listed may go either way; Unknown pins the ones that must stay open.
type Expect struct {
	Contradiction bool        `yaml:"contradiction,omitempty"`
	Lying         []Statement `yaml:"lying,omitempty"`
	Truthful      []Statement `yaml:"truthful,omitempty"`
	Unknown       []Statement `yaml:"unknown,omitempty"`
}

// Statement identifies one witness statement. Room, when set, is the
// proven real location.
type Statement struct {
	Name string `yaml:"name"`
	Time string `yaml:"time"`
	Room string `yaml:"room,omitempty"`
}

// LoadFixture reads a fixture by name from the embedded YAML files.
func LoadFixture(name string) (*Fixture, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("fixture %q not found (available: %s): %w",
			name, strings.Join(ListFixtures(), ", "), err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %q: %w", name, err)
	}
	if err := f.Feed.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	return &f, nil
}

// ListFixtures returns the names of all embedded fixtures, sorted.
func ListFixtures() []string {
	entries, _ := fixtureFS.ReadDir("fixtures")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
