package engine

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/drive"
	"github.com/hupe1980/skillmesh/logging"
)

// Config defines tuning parameters for the Engine's operational behavior.
type Config struct {
	// MaxConcurrentRuns limits the number of runs that can execute
	// simultaneously. This prevents resource exhaustion and provides
	// backpressure. Set to 0 for unlimited (not recommended).
	MaxConcurrentRuns int

	// EventBufferSize sets the channel buffer size for event delivery. Larger
	// buffers reduce blocking but increase memory usage.
	EventBufferSize int

	// MaxStackDepth bounds nested routine invocations per run. Recursion is
	// otherwise limited only by host resources, so a ceiling guards against
	// unbounded recursion. Set to 0 for unlimited.
	MaxStackDepth int

	// AskTimeout bounds how long a routine may remain suspended on ask_user
	// before the run is treated as cancelled. Zero means no timeout.
	AskTimeout time.Duration
}

// DefaultConfig provides production-ready default configuration values:
// conservative concurrency, a modest event buffer, a stack depth ceiling that
// catches runaway recursion long before memory pressure, and no ask timeout.
var DefaultConfig = Config{
	MaxConcurrentRuns: 10,
	EventBufferSize:   100,
	MaxStackDepth:     64,
	AskTimeout:        0,
}

// Options configures an Engine instance using the functional options pattern.
type Options struct {
	// Config contains operational parameters for the engine behavior.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Drive is the persistence surface shared by all runs. Each run receives a
	// handle scoped to its session/run pairing. Defaults to an in-memory
	// implementation if not provided.
	Drive core.Drive

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// Engine coordinates routine execution for one skill library. It provides:
//
//   - Skill Registry: thread-safe registration and designation resolution
//   - Run Management: per-run routine stacks, cancellation and cleanup
//   - Event Delivery: FIFO streaming of typed events to external consumers
//   - ask_user Brokering: suspend/resume handshakes with external actors
//
// Run state is strictly per-run; the only resource runs share is the drive.
// All public methods are safe for concurrent use.
type Engine struct {
	config Config
	drive  core.Drive
	logger logging.Logger

	skills map[string]core.Skill
	mu     sync.RWMutex

	activeRuns map[string]context.CancelFunc
	runsMu     sync.RWMutex

	limiter *runLimiter
}

// New creates an Engine with sensible defaults and optional configuration.
//
// Example:
//
//	eng := engine.New(func(o *engine.Options) {
//	    o.Config.MaxStackDepth = 16
//	    o.Logger = logging.NewDefaultSlogLogger()
//	})
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Drive:  drive.NewInMemoryDrive(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		config:     opts.Config,
		drive:      opts.Drive,
		logger:     opts.Logger,
		skills:     make(map[string]core.Skill),
		activeRuns: make(map[string]context.CancelFunc),
		limiter:    newRunLimiter(opts.Config.MaxConcurrentRuns),
	}
}

// RegisterSkill adds a skill to the engine's registry, making its routines
// available for invocation. A skill with the same name replaces the previous
// registration. Complete registration before starting runs; replacing skills
// mid-run is safe but the run keeps its original snapshot.
func (e *Engine) RegisterSkill(s core.Skill) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.skills[s.Name()] = s
}

// Skill retrieves a registered skill by name.
func (e *Engine) Skill(name string) (core.Skill, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.skills[name]
	return s, ok
}

// Resolve maps a `<skill>.<routine>` designation to a routine.
//
// Failure modes:
//   - malformed designation          -> ErrRoutineNotFound
//   - skill not configured           -> ErrInvalidSkill
//   - routine missing from the skill -> ErrRoutineNotFound
func (e *Engine) Resolve(designation string) (core.Routine, error) {
	return resolveFrom(e.Skill, designation)
}

// resolveFrom applies the resolution taxonomy against an arbitrary skill
// lookup. The engine resolves against its live registry; a run resolves
// against its RunContext snapshot so in-flight runs are unaffected by
// registry mutation.
func resolveFrom(lookup func(name string) (core.Skill, bool), designation string) (core.Routine, error) {
	skillName, routineName, ok := core.ParseDesignation(designation)
	if !ok {
		return nil, fmt.Errorf("%w: malformed designation %q", core.ErrRoutineNotFound, designation)
	}

	s, ok := lookup(skillName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidSkill, skillName)
	}

	for _, r := range s.Routines() {
		if r.Name() == routineName {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q has no routine %q", core.ErrRoutineNotFound, skillName, routineName)
}

// Routines returns a lazy, restartable enumeration of all registered
// designations in sorted order. The registry is snapshotted when iteration
// starts, so ranging twice over the same sequence is safe.
func (e *Engine) Routines() iter.Seq[string] {
	return func(yield func(string) bool) {
		e.mu.RLock()
		skills := make([]core.Skill, 0, len(e.skills))
		for _, s := range e.skills {
			skills = append(skills, s)
		}
		e.mu.RUnlock()

		var designations []string
		for _, s := range skills {
			for _, r := range s.Routines() {
				designations = append(designations, core.Designation(s.Name(), r.Name()))
			}
		}
		sort.Strings(designations)

		for _, d := range designations {
			if !yield(d) {
				return
			}
		}
	}
}

// Cancel forcibly terminates a specific run by its ID. If the run is suspended
// on ask_user, the routine stack unwinds and the run's result carries
// ErrCancelled. Returns an error if the run ID is not active.
func (e *Engine) Cancel(runID string) error {
	e.runsMu.Lock()
	cancel, exists := e.activeRuns[runID]
	e.runsMu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()
	return nil
}

// ActiveRuns returns the number of currently executing runs.
func (e *Engine) ActiveRuns() int { return e.limiter.active() }

// skillSnapshot captures the registry at run start so in-flight runs are not
// affected by later registrations.
func (e *Engine) skillSnapshot() map[string]core.Skill {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snapshot := make(map[string]core.Skill, len(e.skills))
	for name, s := range e.skills {
		snapshot[name] = s
	}
	return snapshot
}
