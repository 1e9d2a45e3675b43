package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/routine"
	"github.com/hupe1980/skillmesh/skill"
)

func noop(_ *core.RunContext, _ *core.StateFrame, _ core.EmitFn, _ core.RunRoutineFn, _ core.AskUserFn, _ map[string]any) (any, error) {
	return nil, nil
}

func newTestEngine(t *testing.T, skills ...core.Skill) *Engine {
	t.Helper()
	e := New()
	for _, s := range skills {
		e.RegisterSkill(s)
	}
	return e
}

func TestEngine_Resolve(t *testing.T) {
	e := newTestEngine(t, skill.MustNew("common", "",
		routine.NewFunctionRoutine("summarize", "", nil, noop),
	))

	r, err := e.Resolve("common.summarize")
	require.NoError(t, err)
	assert.Equal(t, "summarize", r.Name())
}

func TestEngine_Resolve_ErrorTaxonomy(t *testing.T) {
	e := newTestEngine(t, skill.MustNew("common", "",
		routine.NewFunctionRoutine("summarize", "", nil, noop),
	))

	// Malformed designations fail with ErrRoutineNotFound.
	for _, bad := range []string{"summarize", ".summarize", "common.", "a.b.c", ""} {
		_, err := e.Resolve(bad)
		assert.ErrorIs(t, err, core.ErrRoutineNotFound, bad)
	}

	// An unconfigured skill fails with ErrInvalidSkill, never ErrRoutineNotFound.
	_, err := e.Resolve("missing.summarize")
	assert.ErrorIs(t, err, core.ErrInvalidSkill)
	assert.NotErrorIs(t, err, core.ErrRoutineNotFound)

	// A configured skill without the routine fails with ErrRoutineNotFound.
	_, err = e.Resolve("common.translate")
	assert.ErrorIs(t, err, core.ErrRoutineNotFound)
	assert.NotErrorIs(t, err, core.ErrInvalidSkill)
}

func TestEngine_RegisterSkill_Replaces(t *testing.T) {
	e := newTestEngine(t, skill.MustNew("common", "",
		routine.NewFunctionRoutine("summarize", "", nil, noop),
	))
	e.RegisterSkill(skill.MustNew("common", "",
		routine.NewFunctionRoutine("translate", "", nil, noop),
	))

	_, err := e.Resolve("common.summarize")
	assert.ErrorIs(t, err, core.ErrRoutineNotFound)
	_, err = e.Resolve("common.translate")
	assert.NoError(t, err)
}

func TestEngine_Routines_SortedAndRestartable(t *testing.T) {
	e := newTestEngine(t,
		skill.MustNew("zeta", "",
			routine.NewFunctionRoutine("b", "", nil, noop),
			routine.NewFunctionRoutine("a", "", nil, noop),
		),
		skill.MustNew("alpha", "",
			routine.NewFunctionRoutine("x", "", nil, noop),
		),
	)

	seq := e.Routines()

	collect := func() []string {
		var out []string
		for d := range seq {
			out = append(out, d)
		}
		return out
	}

	want := []string{"alpha.x", "zeta.a", "zeta.b"}
	assert.Equal(t, want, collect())
	// The sequence is restartable: a second full pass yields the same result.
	assert.Equal(t, want, collect())

	// Early termination is supported.
	for d := range seq {
		assert.Equal(t, "alpha.x", d)
		break
	}
}
