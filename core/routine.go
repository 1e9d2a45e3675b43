package core

import "strings"

// EmitFn delivers a typed user-facing event to whatever external surface
// consumes it. Emission is fire-and-forget: no acknowledgement is returned and
// events within a run are delivered FIFO relative to the emitting routine's
// execution order.
type EmitFn func(Event)

// RunRoutineFn invokes another routine by designation, growing the routine
// stack for the duration of the nested call. The nested routine executes
// synchronously to completion or failure before control returns.
type RunRoutineFn func(designation string, args map[string]any) (any, error)

// AskUserFn suspends the current routine until an external actor supplies a
// response to the prompt. It is the single explicit suspension point in the
// execution model. If the run is cancelled while suspended the call returns
// ErrCancelled and the stack unwinds.
type AskUserFn func(prompt string) (string, error)

// Routine is a named, invocable procedure belonging to a skill. Beyond the
// fixed execution contract (run context, local state frame, emit, nested run,
// ask_user) a routine declares a schema for its routine-specific arguments,
// validated before the body executes.
//
// Implementations must:
//   - Confine invocation-scoped mutable state to the provided StateFrame
//   - Use the RunContext's Drive for state that must outlive the run
//   - Return errors rather than retrying internally; retry policy belongs to
//     the caller
type Routine interface {
	// Name returns the routine name unique within its skill (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this routine does.
	Description() string

	// Parameters returns a JSON-Schema-like map describing the routine-specific
	// arguments accepted in addition to the fixed execution contract.
	Parameters() map[string]any

	// Run executes the routine body. The frame handle is valid only for the
	// duration of this invocation.
	Run(
		rc *RunContext,
		frame *StateFrame,
		emit EmitFn,
		run RunRoutineFn,
		askUser AskUserFn,
		args map[string]any,
	) (any, error)
}

// Skill is a named bundle of routines and shared configuration (for example a
// model client) made available to an engine. A skill instance must be safe for
// concurrent use across runs.
type Skill interface {
	Name() string
	Description() string
	Routines() []Routine
}

// Designation joins a skill and routine name into the flat two-part
// `<skill>.<routine>` designation syntax.
func Designation(skillName, routineName string) string {
	return skillName + "." + routineName
}

// ParseDesignation splits a `<skill>.<routine>` designation. ok is false when
// the string is not exactly two non-empty dot-separated parts.
func ParseDesignation(designation string) (skillName, routineName string, ok bool) {
	skillName, routineName, found := strings.Cut(designation, ".")
	if !found || skillName == "" || routineName == "" || strings.Contains(routineName, ".") {
		return "", "", false
	}
	return skillName, routineName, true
}
