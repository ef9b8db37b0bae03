// Package rules holds the static classification data the pipeline loads
// once at startup: the garbage-pattern list and the theme taxonomy. A
// malformed rule set is the one error class that aborts a run before any
// record is processed.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embedded []byte

// Theme is one taxonomy entry: a label plus its trigger phrases.
type Theme struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
}

type file struct {
	Version         int      `yaml:"version"`
	GarbagePatterns []string `yaml:"garbage_patterns"`
	Themes          []Theme  `yaml:"themes"`
}

// Rules is the immutable, validated rule set.
type Rules struct {
	Version int
	Garbage []*regexp.Regexp
	Themes  []Theme
}

// Load parses and validates the embedded rule set.
func Load() (*Rules, error) {
	return Parse(embedded)
}

// Parse builds a Rules from YAML. Every pattern must compile, every theme
// must carry a unique name and at least one trigger.
func Parse(b []byte) (*Rules, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("rules: parse: %w", err)
	}
	if len(f.GarbagePatterns) == 0 {
		return nil, fmt.Errorf("rules: no garbage patterns defined")
	}
	if len(f.Themes) == 0 {
		return nil, fmt.Errorf("rules: no themes defined")
	}

	r := &Rules{Version: f.Version}
	for _, p := range f.GarbagePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("rules: garbage pattern %q: %w", p, err)
		}
		r.Garbage = append(r.Garbage, re)
	}

	seen := make(map[string]struct{}, len(f.Themes))
	for _, th := range f.Themes {
		name := strings.TrimSpace(th.Name)
		if name == "" {
			return nil, fmt.Errorf("rules: theme with empty name")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("rules: duplicate theme %q", name)
		}
		seen[name] = struct{}{}
		if len(th.Triggers) == 0 {
			return nil, fmt.Errorf("rules: theme %q has no triggers", name)
		}
		triggers := make([]string, 0, len(th.Triggers))
		for _, t := range th.Triggers {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				return nil, fmt.Errorf("rules: theme %q has an empty trigger", name)
			}
			triggers = append(triggers, t)
		}
		r.Themes = append(r.Themes, Theme{Name: name, Triggers: triggers})
	}
	return r, nil
}

// ThemeNames returns taxonomy labels in declaration order.
func (r *Rules) ThemeNames() []string {
	out := make([]string, len(r.Themes))
	for i, th := range r.Themes {
		out[i] = th.Name
	}
	return out
}
