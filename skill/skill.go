// Package skill provides the building blocks for assembling skills: a basic
// Skill implementation that bundles routines under a name, and a YAML manifest
// loader for declaring a skill's routines and their parameter schemas.
package skill

import (
	"fmt"

	"github.com/hupe1980/skillmesh/core"
)

// Skill is a straightforward core.Skill implementation holding a fixed set of
// routines. It is immutable after construction and safe for concurrent use
// across runs.
type Skill struct {
	name        string
	description string
	routines    []core.Routine
}

var _ core.Skill = (*Skill)(nil)

// New constructs a Skill from a name, description and routines. Routine names
// must be unique within the skill.
func New(name, description string, routines ...core.Routine) (*Skill, error) {
	if name == "" {
		return nil, fmt.Errorf("skill name must not be empty")
	}
	seen := make(map[string]struct{}, len(routines))
	for _, r := range routines {
		if _, dup := seen[r.Name()]; dup {
			return nil, fmt.Errorf("duplicate routine %q in skill %q", r.Name(), name)
		}
		seen[r.Name()] = struct{}{}
	}
	return &Skill{name: name, description: description, routines: routines}, nil
}

// MustNew is like New but panics on error. Intended for package-level skill
// definitions where the routine set is static.
func MustNew(name, description string, routines ...core.Routine) *Skill {
	s, err := New(name, description, routines...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the skill name.
func (s *Skill) Name() string { return s.name }

// Description returns the human-readable skill description.
func (s *Skill) Description() string { return s.description }

// Routines returns the skill's routines. The slice is a snapshot and safe for
// caller mutation.
func (s *Skill) Routines() []core.Routine {
	out := make([]core.Routine, len(s.routines))
	copy(out, s.routines)
	return out
}
