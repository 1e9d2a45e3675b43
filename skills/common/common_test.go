package common

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/engine"
	"github.com/hupe1980/skillmesh/logging"
	"github.com/hupe1980/skillmesh/model"
	"github.com/hupe1980/skillmesh/routine"
)

// recordingModel captures the last request and returns a canned completion.
type recordingModel struct {
	lastReq model.Request
	text    string
	err     error
}

func (m *recordingModel) Generate(_ context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	m.lastReq = req
	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	if m.err != nil {
		errCh <- m.err
	} else {
		respCh <- model.Response{Text: m.text, FinishReason: "stop"}
	}
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (m *recordingModel) Info() model.Info {
	return model.Info{Name: "recording", Provider: "mock"}
}

func newTestEngine(t *testing.T, m model.Model) *engine.Engine {
	t.Helper()
	s, err := New(m)
	require.NoError(t, err)
	e := engine.New()
	e.RegisterSkill(s)
	return e
}

func TestNew_RequiresModel(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_RoutineCatalog(t *testing.T) {
	s, err := New(model.NewMockModel("m"))
	require.NoError(t, err)

	assert.Equal(t, "common", s.Name())
	names := make([]string, 0, 2)
	for _, r := range s.Routines() {
		names = append(names, r.Name())
	}
	assert.ElementsMatch(t, []string{"summarize", "gather_context"}, names)
}

func TestSummarize(t *testing.T) {
	rec := &recordingModel{text: "A short summary."}
	e := newTestEngine(t, rec)

	_, value, events, err := e.RunSync(context.Background(), "s1", "common.summarize",
		map[string]any{"content": "A very long document about fish."}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", value)

	// The summary derives from the content only: the content travels as the
	// user message and without an aspect the instructions stay generic.
	require.Len(t, rec.lastReq.Messages, 1)
	assert.Equal(t, "A very long document about fish.", rec.lastReq.Messages[0].Text)
	assert.NotContains(t, rec.lastReq.Instructions, "Focus specifically")

	require.NotEmpty(t, events)
	assert.Equal(t, core.EventStatusUpdated, events[0].Type)
	assert.Equal(t, "Summarizing content...", events[0].Message)
}

func TestSummarize_WithAspect(t *testing.T) {
	rec := &recordingModel{text: "Decisions only."}
	e := newTestEngine(t, rec)

	_, value, _, err := e.RunSync(context.Background(), "s1", "common.summarize",
		map[string]any{"content": "Meeting notes.", "aspect": "key decisions"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Decisions only.", value)

	assert.Contains(t, rec.lastReq.Instructions, "Focus specifically on this aspect: key decisions.")
}

func TestSummarize_MissingContent(t *testing.T) {
	e := newTestEngine(t, &recordingModel{text: "unused"})

	_, _, _, err := e.RunSync(context.Background(), "s1", "common.summarize", nil, nil)
	require.Error(t, err)

	var re *routine.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "VALIDATION_ERROR", re.Code)
}

func TestSummarize_ModelFailure(t *testing.T) {
	e := newTestEngine(t, &recordingModel{err: errors.New("rate limited")})

	_, _, _, err := e.RunSync(context.Background(), "s1", "common.summarize",
		map[string]any{"content": "doc"}, nil)
	require.Error(t, err)

	var re *routine.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "EXECUTION_ERROR", re.Code)
	assert.Contains(t, re.Message, "summarize failed")
}

func TestSummarize_LogsModelCall(t *testing.T) {
	var buf bytes.Buffer
	rec := &recordingModel{text: "ok"}
	s, err := New(rec)
	require.NoError(t, err)

	e := engine.New(func(o *engine.Options) {
		o.Logger = logging.NewLogger(&logging.LoggerConfig{
			Level:  logging.LogLevelInfo,
			Format: "json",
			Output: &buf,
		})
	})
	e.RegisterSkill(s)

	_, _, _, err = e.RunSync(context.Background(), "s1", "common.summarize",
		map[string]any{"content": "doc"}, nil)
	require.NoError(t, err)

	// All writes are finished once the run slot is released.
	require.Eventually(t, func() bool { return e.ActiveRuns() == 0 },
		time.Second, 10*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Model call completed")
	assert.Contains(t, out, `"model":"recording"`)
}

func TestGatherContext(t *testing.T) {
	e := newTestEngine(t, &recordingModel{text: "unused"})

	var prompt string
	_, value, events, err := e.RunSync(context.Background(), "s1", "common.gather_context",
		map[string]any{"question": "What color?"},
		func(p string) (string, error) {
			prompt = p
			return "blue", nil
		})
	require.NoError(t, err)

	assert.Equal(t, "What color?", prompt)
	assert.Equal(t, "blue", value)

	require.NotEmpty(t, events)
	assert.Equal(t, core.EventInformation, events[len(events)-1].Type)
}

func TestGatherContext_CancelledWhileSuspended(t *testing.T) {
	e := newTestEngine(t, &recordingModel{text: "unused"})

	_, _, _, err := e.RunSync(context.Background(), "s1", "common.gather_context",
		map[string]any{"question": "What color?"}, nil)
	assert.ErrorIs(t, err, core.ErrCancelled)
}
