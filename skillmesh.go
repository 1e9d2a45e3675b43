// Package skillmesh provides a high-level façade over the core Engine and
// service abstractions (drive & logging) enabling rapid construction of
// routine-driven assistant systems. Most applications interact with this
// package by:
//  1. Creating a SkillMesh via New() (optionally overriding default services)
//  2. Registering one or more skills (common, posix, store, custom)
//  3. Invoking routines asynchronously (Run) or synchronously (RunSync)
//
// The façade delegates orchestration to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a durable drive
// implementation and a structured logger.
package skillmesh

import (
	"context"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/drive"
	"github.com/hupe1980/skillmesh/engine"
	"github.com/hupe1980/skillmesh/logging"
)

// Options configures the SkillMesh instance.
type Options struct {
	// Engine configuration (concurrency, buffers, stack depth, ask timeout)
	EngineConfig engine.Config

	// Drive (defaults to an in-memory implementation if not provided)
	Drive core.Drive

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// SkillMesh is the high-level façade aggregating the underlying engine and services.
type SkillMesh struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new SkillMesh instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *SkillMesh {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Drive:        drive.NewInMemoryDrive(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Drive = opts.Drive
		o.Logger = opts.Logger
	})

	return &SkillMesh{opts: opts, engine: e}
}

// RegisterSkill adds a skill to the underlying engine.
func (m *SkillMesh) RegisterSkill(s core.Skill) { m.engine.RegisterSkill(s) }

// Run starts an asynchronous routine invocation returning event, ask and
// result channels.
func (m *SkillMesh) Run(
	ctx context.Context,
	sessionID string,
	designation string,
	args map[string]any,
) (string, <-chan core.Event, <-chan *engine.AskRequest, <-chan engine.Result, error) {
	return m.engine.Run(ctx, sessionID, designation, args)
}

// RunSync is a synchronous helper that drains the async channels, answers
// ask_user suspensions via respond, accumulates events and returns the result.
func (m *SkillMesh) RunSync(
	ctx context.Context,
	sessionID string,
	designation string,
	args map[string]any,
	respond func(prompt string) (string, error),
) (string, any, []core.Event, error) {
	return m.engine.RunSync(ctx, sessionID, designation, args, respond)
}

// Cancel forcibly terminates a run by its ID.
func (m *SkillMesh) Cancel(runID string) error { return m.engine.Cancel(runID) }

// Engine exposes the underlying engine for advanced use cases (resolution,
// routine discovery).
func (m *SkillMesh) Engine() *engine.Engine { return m.engine }
