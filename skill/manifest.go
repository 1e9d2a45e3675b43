package skill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/skillmesh/routine"
)

// Manifest declares a skill and its routines in YAML, separating the routine
// catalog (names, descriptions, parameter schemas) from the Go implementations
// bound at build time. Declaring parameters in the manifest moves schema
// checking to registration time instead of leaving argument shapes dynamic.
//
// Example:
//
//	name: common
//	description: General purpose helpers
//	routines:
//	  - name: summarize
//	    description: Summarize a piece of content
//	    parameters:
//	      type: object
//	      properties:
//	        content: {type: string}
//	        aspect: {type: string}
//	      required: [content]
type Manifest struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Routines    []RoutineManifest `yaml:"routines"`
}

// RoutineManifest declares a single routine within a skill manifest.
type RoutineManifest struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse skill manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// Validate checks structural requirements: a non-empty skill name, at least
// one routine, unique routine names, and object-typed parameter schemas.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("skill manifest: name is required")
	}
	if len(m.Routines) == 0 {
		return fmt.Errorf("skill manifest %q: at least one routine is required", m.Name)
	}
	seen := make(map[string]struct{}, len(m.Routines))
	for _, r := range m.Routines {
		if r.Name == "" {
			return fmt.Errorf("skill manifest %q: routine name is required", m.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("skill manifest %q: duplicate routine %q", m.Name, r.Name)
		}
		seen[r.Name] = struct{}{}
		if r.Parameters != nil {
			if typ, _ := r.Parameters["type"].(string); typ != "object" {
				return fmt.Errorf("skill manifest %q: routine %q parameters must be an object schema", m.Name, r.Name)
			}
		}
	}
	return nil
}

// Build binds the manifest's routine declarations to Go implementations,
// producing a ready-to-register Skill. Every declared routine must have a
// matching implementation; extra implementations are rejected so the manifest
// stays the single source of truth for the routine catalog.
func (m *Manifest) Build(impls map[string]routine.Func) (*Skill, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	routines := make([]*routine.FunctionRoutine, 0, len(m.Routines))
	for _, rm := range m.Routines {
		fn, ok := impls[rm.Name]
		if !ok {
			return nil, fmt.Errorf("skill manifest %q: no implementation for routine %q", m.Name, rm.Name)
		}
		routines = append(routines, routine.NewFunctionRoutine(rm.Name, rm.Description, rm.Parameters, fn))
	}
	for name := range impls {
		if !m.declares(name) {
			return nil, fmt.Errorf("skill manifest %q: implementation %q is not declared", m.Name, name)
		}
	}

	s, err := New(m.Name, m.Description)
	if err != nil {
		return nil, err
	}
	for _, r := range routines {
		s.routines = append(s.routines, r)
	}
	return s, nil
}

func (m *Manifest) declares(routineName string) bool {
	for _, r := range m.Routines {
		if r.Name == routineName {
			return true
		}
	}
	return false
}
