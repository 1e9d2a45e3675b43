package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/logging"
)

// Result is the terminal outcome of a run: the top-level routine's return
// value or the failure that unwound the stack.
type Result struct {
	Value any
	Err   error
}

// Run starts an asynchronous top-level routine invocation.
//
// Returns:
//   - runID: unique identifier for this run (for cancellation / tracking)
//   - eventsCh: typed events streamed FIFO as routines emit them
//   - asksCh: ask_user suspension requests awaiting an external response
//   - resultCh: terminal result channel (buffered size 1, closed after delivery)
//   - err: immediate error starting the run
//
// The events and asks channels are closed once the routine stack has fully
// unwound; the result is delivered afterwards, so when resultCh yields, every
// event of the run has already been sent. Failures inside routine bodies
// propagate to resultCh after their frames are popped; the engine performs no
// retry.
//
// Immediate errors:
//   - unresolvable designation (ErrRoutineNotFound / ErrInvalidSkill)
//   - concurrent run limit reached
func (e *Engine) Run(
	ctx context.Context,
	sessionID string,
	designation string,
	args map[string]any,
) (string, <-chan core.Event, <-chan *AskRequest, <-chan Result, error) {
	// Validate the designation resolves before spending a run slot.
	if _, err := e.Resolve(designation); err != nil {
		return "", nil, nil, nil, err
	}

	if err := e.limiter.acquire(); err != nil {
		return "", nil, nil, nil, err
	}

	runID := core.NewID()

	eventsCh := make(chan core.Event, e.config.EventBufferSize)
	asksCh := make(chan *AskRequest, 1)
	resultCh := make(chan Result, 1)

	runCtx, cancel := context.WithCancel(ctx)

	e.runsMu.Lock()
	e.activeRuns[runID] = cancel
	e.runsMu.Unlock()

	logger := e.logger
	var runLog *logging.RunLogger
	if rl, ok := e.logger.(*logging.RunLogger); ok {
		runLog = rl.WithRun(sessionID, runID)
		logger = runLog
	}

	rc := core.NewRunContext(
		runCtx,
		sessionID,
		runID,
		e.drive.Scope("sessions", sessionID, "runs", runID),
		e.skillSnapshot(),
		logger,
	)

	r := &runner{
		engine: e,
		ctx:    runCtx,
		rc:     rc,
		runLog: runLog,
		stack:  core.NewRoutineStack(),
		events: eventsCh,
		asks:   asksCh,
	}

	go func() {
		defer func() {
			e.runsMu.Lock()
			delete(e.activeRuns, runID)
			e.runsMu.Unlock()
			e.limiter.release()
			cancel()
		}()

		e.logger.Debug("run.start", "session_id", sessionID, "run_id", runID, "designation", designation)
		if runLog != nil {
			defer runLog.StartTimer("run")()
		}

		value, err := r.invoke(designation, args)

		// Routine bodies execute on this goroutine, so nothing else writes to
		// these channels; closing here is the end of the event stream.
		close(asksCh)
		close(eventsCh)

		if err != nil && !errors.Is(err, core.ErrCancelled) && errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %v", core.ErrCancelled, err)
		}

		e.logger.Debug("run.end", "session_id", sessionID, "run_id", runID, "success", err == nil)

		resultCh <- Result{Value: value, Err: err}
		close(resultCh)
	}()

	return runID, eventsCh, asksCh, resultCh, nil
}

// RunSync executes a top-level routine to completion, collecting all emitted
// events. Convenience wrapper that drains Run's channels.
//
// The respond callback answers ask_user suspensions; a nil respond (or a
// respond error) cancels the run, which surfaces as ErrCancelled.
func (e *Engine) RunSync(
	ctx context.Context,
	sessionID string,
	designation string,
	args map[string]any,
	respond func(prompt string) (string, error),
) (string, any, []core.Event, error) {
	runID, eventsCh, asksCh, resultCh, err := e.Run(ctx, sessionID, designation, args)
	if err != nil {
		return "", nil, nil, err
	}

	var events []core.Event
	for {
		select {
		case <-ctx.Done():
			// The caller abandoned the run; surface it like every other
			// abandonment so errors.Is(err, core.ErrCancelled) holds.
			return runID, nil, events, fmt.Errorf("%w: %v", core.ErrCancelled, ctx.Err())

		case ev, ok := <-eventsCh:
			if !ok {
				eventsCh = nil
				continue
			}
			events = append(events, ev)

		case ask, ok := <-asksCh:
			if !ok {
				asksCh = nil
				continue
			}
			if respond == nil {
				_ = e.Cancel(runID)
				continue
			}
			answer, respondErr := respond(ask.Prompt)
			if respondErr != nil {
				_ = e.Cancel(runID)
				continue
			}
			_ = ask.Respond(answer)

		case res, ok := <-resultCh:
			if !ok {
				return runID, nil, events, fmt.Errorf("run %s terminated without result", runID)
			}
			// The events channel is closed before the result is delivered, so
			// draining here observes every remaining event.
			if eventsCh != nil {
				for ev := range eventsCh {
					events = append(events, ev)
				}
			}
			return runID, res.Value, events, res.Err
		}
	}
}

// runner drives a single run: it owns the run's routine stack and provides the
// bound invoke / emit / ask_user functions handed to routine bodies. All of
// its methods execute on the run's goroutine; routines within a run are
// strictly nested, so no locking is needed.
type runner struct {
	engine *Engine
	ctx    context.Context
	rc     *core.RunContext
	runLog *logging.RunLogger // non-nil when the engine logger is a RunLogger
	stack  *core.RoutineStack
	events chan<- core.Event
	asks   chan<- *AskRequest
}

// invoke resolves and executes a routine, pushing a fresh StateFrame before
// the body runs and popping it after the body returns or fails. The deferred
// pop guarantees frame balance on every exit path, including panics; errors
// re-raise to the caller untouched.
//
// Resolution goes through the RunContext snapshot: registry mutation after
// the run started is invisible to nested invocations.
func (r *runner) invoke(designation string, args map[string]any) (value any, err error) {
	rt, err := resolveFrom(r.rc.Skill, designation)
	if err != nil {
		return nil, err
	}

	if max := r.engine.config.MaxStackDepth; max > 0 && r.stack.Depth() >= max {
		return nil, fmt.Errorf("%w: limit %d reached invoking %q", core.ErrMaxDepth, max, designation)
	}

	frame := core.NewStateFrame(designation)
	r.stack.Push(frame)
	depth := r.stack.Depth()

	start := time.Now()
	r.engine.logger.Debug("routine.enter",
		"run_id", r.rc.RunID, "designation", designation, "stack_depth", depth)

	defer func() {
		r.stack.Pop()
		if r.runLog != nil {
			r.runLog.LogRoutineCall(designation, depth, time.Since(start), err)
			return
		}
		r.engine.logger.Debug("routine.exit",
			"run_id", r.rc.RunID, "designation", designation,
			"stack_depth", r.stack.Depth(), "duration", time.Since(start))
	}()

	return rt.Run(r.rc, frame, r.emit, r.invoke, r.askUser, args)
}

// emit delivers an event in FIFO order relative to the emitting routine. It is
// fire-and-forget: no acknowledgement, and once the run is cancelled events
// are silently dropped.
func (r *runner) emit(ev core.Event) {
	select {
	case <-r.ctx.Done():
	case r.events <- ev:
	}
}

// askUser suspends the current routine until an external actor answers, the
// run is cancelled, or the configured ask timeout elapses. Cancellation and
// timeout both surface as ErrCancelled so the stack unwinds identically.
func (r *runner) askUser(prompt string) (string, error) {
	req := newAskRequest(r.rc.RunID, prompt)

	select {
	case <-r.ctx.Done():
		return "", fmt.Errorf("%w: run terminated before user input was requested", core.ErrCancelled)
	case r.asks <- req:
	}

	var timeout <-chan time.Time
	if d := r.engine.config.AskTimeout; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case answer := <-req.reply:
		return answer, nil
	case <-timeout:
		return "", fmt.Errorf("%w: ask_user timed out after %s", core.ErrCancelled, r.engine.config.AskTimeout)
	case <-r.ctx.Done():
		return "", fmt.Errorf("%w: run terminated while awaiting user input", core.ErrCancelled)
	}
}
