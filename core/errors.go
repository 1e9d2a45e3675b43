package core

import "errors"

var (
	// ErrRoutineNotFound is returned when a designation does not resolve to a
	// registered routine, either because it is malformed or because the named
	// skill does not contain a routine with that name.
	ErrRoutineNotFound = errors.New("routine not found")

	// ErrInvalidSkill is returned when a designation references a skill that is
	// not configured into the engine.
	ErrInvalidSkill = errors.New("invalid skill")

	// ErrCancelled is returned when a run is terminated while a routine is
	// suspended (typically on ask_user). The routine stack is fully unwound
	// before the error surfaces to the top-level caller.
	ErrCancelled = errors.New("run cancelled")

	// ErrMaxDepth is returned when a nested invocation would exceed the
	// configured routine stack depth ceiling.
	ErrMaxDepth = errors.New("routine stack depth exceeded")
)
