// Package store provides a skill exposing the run's drive to routine bodies,
// for state that must outlive a single invocation or run.
package store

import (
	"fmt"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/routine"
	"github.com/hupe1980/skillmesh/skill"
)

type writeArgs struct {
	Path  string `json:"path" description:"Drive path to write"`
	Value any    `json:"value,omitempty" description:"Serializable value to store"`
}

type readArgs struct {
	Path string `json:"path" description:"Drive path to read"`
}

type listArgs struct {
	Prefix *string `json:"prefix,omitempty" description:"Path prefix to list under"`
}

// New builds the store skill. All routines operate on the drive handle of the
// invoking run's context, so values are scoped to that session/run pairing.
func New() (*skill.Skill, error) {
	return skill.New("store", "Scoped key/value persistence",
		routine.NewFunctionRoutineFromStruct("write", "Store a value on the drive", writeArgs{}, write),
		routine.NewFunctionRoutineFromStruct("read", "Read a value from the drive", readArgs{}, read),
		routine.NewFunctionRoutineFromStruct("list", "List drive paths under a prefix", listArgs{}, list),
	)
}

func write(
	rc *core.RunContext,
	_ *core.StateFrame,
	_ core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	path, _ := args["path"].(string)
	if err := rc.Drive.Write(path, args["value"]); err != nil {
		return nil, fmt.Errorf("store.write: %w", err)
	}
	return path, nil
}

func read(
	rc *core.RunContext,
	_ *core.StateFrame,
	_ core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	path, _ := args["path"].(string)
	value, err := rc.Drive.Read(path)
	if err != nil {
		return nil, fmt.Errorf("store.read: %w", err)
	}
	return value, nil
}

func list(
	rc *core.RunContext,
	_ *core.StateFrame,
	_ core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	prefix := ""
	if s, ok := args["prefix"].(string); ok {
		prefix = s
	}
	paths, err := rc.Drive.List(prefix)
	if err != nil {
		return nil, fmt.Errorf("store.list: %w", err)
	}
	return paths, nil
}
