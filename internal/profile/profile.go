// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile provides keyword profiles: named sets of lowercase
// trigger terms. Built-in industry profiles cover common specification
// vocabularies; user profiles load from YAML files.
package profile

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// builtins are the shipped industry profiles. Terms are lowercase; the
// matcher applies whole-token semantics.
var builtins = map[string]types.KeywordProfile{
	"general": {
		Name:  "general",
		Terms: []string{"shall", "must", "should", "will", "required", "mandatory"},
	},
	"aerospace": {
		Name: "aerospace",
		Terms: []string{
			"shall", "must", "will", "margin", "redundant", "fail-safe",
			"tolerance", "qualification", "verification",
		},
	},
	"automotive": {
		Name: "automotive",
		Terms: []string{
			"shall", "must", "should", "asil", "diagnostic", "calibration",
			"functional safety",
		},
	},
	"medical": {
		Name: "medical",
		Terms: []string{
			"shall", "must", "required", "sterile", "biocompatible",
			"risk control", "labeling",
		},
	},
}

// Builtin returns the named built-in profile.
func Builtin(name string) (types.KeywordProfile, error) {
	p, ok := builtins[name]
	if !ok {
		return types.KeywordProfile{}, fmt.Errorf("unknown profile %q (have: %v)", name, Names())
	}
	return p, nil
}

// Names lists the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads a user profile from a YAML file with `name` and `terms`
// keys. A profile with no terms is rejected here rather than surfacing
// later as an engine configuration error.
func LoadFile(path string) (types.KeywordProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.KeywordProfile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	var p types.KeywordProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return types.KeywordProfile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if len(p.Terms) == 0 {
		return types.KeywordProfile{}, fmt.Errorf("profile %s has no terms", path)
	}
	return p, nil
}

// Resolve maps profile references to profiles: each ref is either a
// built-in name or a path to a YAML profile file (distinguished by a file
// existing at that path).
func Resolve(refs []string) ([]types.KeywordProfile, error) {
	var profiles []types.KeywordProfile
	for _, ref := range refs {
		if _, err := os.Stat(ref); err == nil {
			p, err := LoadFile(ref)
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, p)
			continue
		}
		p, err := Builtin(ref)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
