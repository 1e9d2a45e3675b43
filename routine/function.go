package routine

import (
	"errors"
	"time"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/internal/util"
)

// Func is the implementation signature every routine body satisfies. The fixed
// execution contract is delivered positionally; routine-specific arguments
// arrive pre-validated in args.
type Func func(
	rc *core.RunContext,
	frame *core.StateFrame,
	emit core.EmitFn,
	run core.RunRoutineFn,
	askUser core.AskUserFn,
	args map[string]any,
) (any, error)

// FunctionRoutine is a generic adapter that exposes a plain Go function as a
// SkillMesh routine.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification
//   - Validates caller supplied arguments against that schema before execution
//   - Normalizes error handling so callers receive *Error with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-Error)
//     (custom codes preserved if the function returns *Error directly)
//
// A FunctionRoutine has no internal mutable state after construction and is
// safe for concurrent use by multiple runs; all invocation-scoped state lives
// in the StateFrame handed to each call.
type FunctionRoutine struct {
	name        string
	description string
	parameters  map[string]any
	fn          Func
}

var _ core.Routine = (*FunctionRoutine)(nil)

// NewFunctionRoutine constructs a FunctionRoutine from explicit schema and function.
//
// Example:
//
//	greet := NewFunctionRoutine(
//	  "greet",
//	  "Greet a person by name",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "name": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"name"},
//	  },
//	  func(rc *core.RunContext, frame *core.StateFrame, emit core.EmitFn, run core.RunRoutineFn, askUser core.AskUserFn, args map[string]any) (any, error) {
//	    return "Hello, " + args["name"].(string), nil
//	  },
//	)
func NewFunctionRoutine(name, description string, parameters map[string]any, fn Func) *FunctionRoutine {
	if parameters == nil {
		parameters = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return &FunctionRoutine{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewFunctionRoutineFromStruct derives the parameter schema from a struct
// using reflection. It is a convenience for simple argument containers.
//
// Example:
//
//	type GreetArgs struct {
//	  Name string `json:"name" description:"Person to greet"`
//	}
//
//	greet := NewFunctionRoutineFromStruct("greet", "Greet a person by name", GreetArgs{}, fn)
func NewFunctionRoutineFromStruct(name, description string, structType any, fn Func) *FunctionRoutine {
	return NewFunctionRoutine(name, description, util.CreateSchema(structType), fn)
}

// Name returns the routine name unique within its skill.
func (r *FunctionRoutine) Name() string { return r.name }

// Description returns the short natural language description of the routine.
func (r *FunctionRoutine) Description() string { return r.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (r *FunctionRoutine) Parameters() map[string]any { return r.parameters }

// Run validates the provided args against the declared schema then invokes the
// underlying function. Validation or execution failures are wrapped (or passed
// through) as *Error for uniform downstream handling.
//
// Error Semantics:
//
//	*Error (returned directly)  -> forwarded unchanged
//	validation failure          -> *Error{Code: "VALIDATION_ERROR"}
//	other error                 -> *Error{Code: "EXECUTION_ERROR"}
func (r *FunctionRoutine) Run(
	rc *core.RunContext,
	frame *core.StateFrame,
	emit core.EmitFn,
	run core.RunRoutineFn,
	askUser core.AskUserFn,
	args map[string]any,
) (any, error) {
	logger := rc.Logger
	start := time.Now()

	logger.Debug("routine.call.start", "designation", frame.Designation)

	if err := util.ValidateArguments(args, r.parameters); err != nil {
		logger.Warn("routine.call.validation_failed", "designation", frame.Designation, "error", err.Error())

		return nil, &Error{
			Designation: frame.Designation,
			Message:     err.Error(),
			Code:        "VALIDATION_ERROR",
			Details:     err,
		}
	}

	result, err := r.fn(rc, frame, emit, run, askUser, args)
	if err != nil {
		if rErr, ok := err.(*Error); ok { // Already a routine Error -> just log and forward
			logger.Error("routine.call.error", "designation", frame.Designation, "error", rErr.Message)

			return nil, rErr
		}

		logger.Error("routine.call.error", "designation", frame.Designation, "error", err.Error())

		// Cancellation and resolution sentinels propagate unchanged so callers
		// can match them with errors.Is at any nesting depth.
		if errors.Is(err, core.ErrCancelled) ||
			errors.Is(err, core.ErrRoutineNotFound) ||
			errors.Is(err, core.ErrInvalidSkill) ||
			errors.Is(err, core.ErrMaxDepth) {
			return nil, err
		}

		return nil, &Error{
			Designation: frame.Designation,
			Message:     err.Error(),
			Code:        "EXECUTION_ERROR",
			cause:       err,
		}
	}

	logger.Info("routine.call.success", "designation", frame.Designation, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
