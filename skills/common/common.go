// Package common provides the general purpose, model-backed skill every
// engine typically registers: summarization and simple user context gathering.
package common

import (
	"fmt"
	"time"

	"github.com/hupe1980/skillmesh/core"
	"github.com/hupe1980/skillmesh/internal/util"
	"github.com/hupe1980/skillmesh/logging"
	"github.com/hupe1980/skillmesh/model"
	"github.com/hupe1980/skillmesh/routine"
	"github.com/hupe1980/skillmesh/skill"
)

// manifest declares the routine catalog; implementations are bound in New so
// argument schemas are checked at registration time.
const manifest = `
name: common
description: General purpose helpers backed by a language model
routines:
  - name: summarize
    description: Summarize a piece of content, optionally focused on one aspect
    parameters:
      type: object
      properties:
        content:
          type: string
        aspect:
          type: string
      required: [content]
  - name: gather_context
    description: Ask the user a question and return the answer
    parameters:
      type: object
      properties:
        question:
          type: string
      required: [question]
`

const summarizeInstructions = `You are a summarization assistant. Provide a ` +
	`concise summary of the content supplied by the user.` +
	`{{if .aspect}} Focus specifically on this aspect: {{.aspect}}.{{end}}`

type commonSkill struct {
	model model.Model
}

// New builds the common skill around the given model client. The model is the
// skill's shared configuration; it is used by every model-backed routine and
// must be safe for concurrent use.
func New(m model.Model) (*skill.Skill, error) {
	if m == nil {
		return nil, fmt.Errorf("common skill requires a model")
	}
	cs := &commonSkill{model: m}

	man, err := skill.ParseManifest([]byte(manifest))
	if err != nil {
		return nil, err
	}
	return man.Build(map[string]routine.Func{
		"summarize":      cs.summarize,
		"gather_context": cs.gatherContext,
	})
}

// summarize produces a model completion derived solely from the supplied
// content; an aspect argument narrows the instructions to that aspect.
func (c *commonSkill) summarize(
	rc *core.RunContext,
	frame *core.StateFrame,
	emit core.EmitFn,
	_ core.RunRoutineFn,
	_ core.AskUserFn,
	args map[string]any,
) (any, error) {
	content, _ := args["content"].(string)
	aspect, _ := args["aspect"].(string)

	emit(core.NewStatusUpdatedEvent(rc.RunID, "Summarizing content..."))

	instructions, err := util.RenderTemplate(summarizeInstructions, map[string]any{"aspect": aspect})
	if err != nil {
		return nil, fmt.Errorf("failed to render summarize instructions: %w", err)
	}

	start := time.Now()
	summary, err := model.Complete(rc.Context, c.model, model.Request{
		Instructions: instructions,
		Messages:     []model.Message{{Role: "user", Text: content}},
	})
	if rl, ok := rc.Logger.(*logging.RunLogger); ok {
		rl.LogModelCall(c.model.Info().Name, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("summarize failed: %w", err)
	}

	rc.Log(map[string]any{
		"routine":       frame.Designation,
		"model":         c.model.Info().Name,
		"content_chars": len(content),
		"aspect":        aspect,
	})

	return summary, nil
}

// gatherContext suspends on ask_user and records the answer in the frame's
// local state before returning it.
func (c *commonSkill) gatherContext(
	rc *core.RunContext,
	frame *core.StateFrame,
	emit core.EmitFn,
	_ core.RunRoutineFn,
	askUser core.AskUserFn,
	args map[string]any,
) (any, error) {
	question, _ := args["question"].(string)

	answer, err := askUser(question)
	if err != nil {
		return nil, err
	}
	frame.Set("answer", answer)

	emit(core.NewInformationEvent(rc.RunID, "Context gathered."))

	return answer, nil
}
