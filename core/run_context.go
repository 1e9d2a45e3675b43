package core

import (
	"context"

	"github.com/hupe1980/skillmesh/logging"
)

// RunContext carries the immutable per-run execution scope shared by every
// routine invocation within a single top-level run. It aggregates:
//
//   - The ambient cancellation Context
//   - Identifiers (SessionID, RunID)
//   - The Drive handle scoped to this session/run pairing
//   - A fixed snapshot of the skills configured at run start
//   - The structured logging sink
//
// A RunContext is created once when a top-level invocation begins and is never
// mutated afterwards; it is passed by reference to every nested invocation.
// Any need for mutable shared state goes either into a StateFrame (if
// invocation-scoped) or into the Drive (if it must outlive the run).
type RunContext struct {
	Context   context.Context
	SessionID string
	RunID     string
	Drive     Drive
	Logger    logging.Logger

	skills map[string]Skill
}

// NewRunContext constructs a RunContext with a defensive copy of the skills
// snapshot. A nil logger is substituted with a NoOpLogger.
func NewRunContext(
	ctx context.Context,
	sessionID, runID string,
	drive Drive,
	skills map[string]Skill,
	logger logging.Logger,
) *RunContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	snapshot := make(map[string]Skill, len(skills))
	for name, s := range skills {
		snapshot[name] = s
	}
	return &RunContext{
		Context:   ctx,
		SessionID: sessionID,
		RunID:     runID,
		Drive:     drive,
		Logger:    logger,
		skills:    snapshot,
	}
}

// Skill returns the configured skill with the given name, if present.
func (rc *RunContext) Skill(name string) (Skill, bool) {
	s, ok := rc.skills[name]
	return s, ok
}

// SkillNames returns the names of all configured skills. The slice is a
// snapshot and safe for caller mutation.
func (rc *RunContext) SkillNames() []string {
	names := make([]string, 0, len(rc.skills))
	for name := range rc.skills {
		names = append(names, name)
	}
	return names
}

// Log appends arbitrary structured metadata to the run's logging sink. It is
// append-only and returns nothing; delivery failures are the sink's concern.
func (rc *RunContext) Log(metadata map[string]any) {
	args := make([]any, 0, (len(metadata)+2)*2)
	args = append(args, "session_id", rc.SessionID, "run_id", rc.RunID)
	for k, v := range metadata {
		args = append(args, k, v)
	}
	rc.Logger.Info("run.metadata", args...)
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }
