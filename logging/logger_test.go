package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*RunLogger)(nil)
	_ Logger = NoOpLogger{}
)

func newBufferedLogger(level LogLevel) (*RunLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: buf, Component: "engine"})
	return l, buf
}

func TestRunLogger_WithRun(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.WithRun("sess-1", "run-1").Info("run.start", "designation", "common.summarize")

	out := buf.String()
	for _, want := range []string{
		`"component":"engine"`,
		`"session_id":"sess-1"`,
		`"run_id":"run-1"`,
		`"designation":"common.summarize"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s, got %s", want, out)
		}
	}
}

func TestRunLogger_WithRunDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	_ = l.WithRun("sess-1", "run-1")
	l.Info("plain")

	if strings.Contains(buf.String(), "run-1") {
		t.Errorf("parent logger should not carry run context, got %s", buf.String())
	}
}

func TestRunLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output should be filtered at info level, got %s", buf.String())
	}
	l.Warn("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("warn output missing, got %s", buf.String())
	}
}

func TestRunLogger_LogRoutineCall(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.LogRoutineCall("common.summarize", 2, 5*time.Millisecond, nil)
	out := buf.String()
	if !strings.Contains(out, "Routine completed") {
		t.Errorf("expected success message, got %s", out)
	}
	if !strings.Contains(out, `"stack_depth":2`) {
		t.Errorf("expected stack depth, got %s", out)
	}

	buf.Reset()
	l.LogRoutineCall("common.summarize", 2, 5*time.Millisecond, errors.New("boom"))
	out = buf.String()
	if !strings.Contains(out, "Routine failed") || !strings.Contains(out, "boom") {
		t.Errorf("expected failure message with error, got %s", out)
	}
}

func TestRunLogger_LogModelCall(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.LogModelCall("gpt-4o", 10*time.Millisecond, nil)
	if !strings.Contains(buf.String(), "Model call completed") {
		t.Errorf("expected success message, got %s", buf.String())
	}

	buf.Reset()
	l.LogModelCall("gpt-4o", 10*time.Millisecond, errors.New("rate limited"))
	out := buf.String()
	if !strings.Contains(out, "Model call failed") || !strings.Contains(out, "rate limited") {
		t.Errorf("expected failure message with error, got %s", out)
	}
}

func TestRunLogger_StartTimer(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	done := l.StartTimer("run")
	done()

	out := buf.String()
	if !strings.Contains(out, "Operation completed") || !strings.Contains(out, `"operation":"run"`) {
		t.Errorf("expected timer output, got %s", out)
	}
}
