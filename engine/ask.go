package engine

import (
	"fmt"
	"sync"
)

// AskRequest is the request half of the ask_user handshake. The engine
// delivers one on the run's asks channel whenever a routine suspends awaiting
// external input; whoever consumes it supplies the answer via Respond, at
// which point the suspended routine resumes with that answer as its return
// value.
type AskRequest struct {
	// RunID identifies the run whose routine is suspended.
	RunID string
	// Prompt is the question posed to the external actor.
	Prompt string

	reply chan string
	once  sync.Once
}

func newAskRequest(runID, prompt string) *AskRequest {
	return &AskRequest{
		RunID:  runID,
		Prompt: prompt,
		reply:  make(chan string, 1),
	}
}

// Respond delivers the answer and resumes the suspended routine. A request
// accepts exactly one response; subsequent calls return an error.
func (a *AskRequest) Respond(answer string) error {
	delivered := false
	a.once.Do(func() {
		a.reply <- answer
		delivered = true
	})
	if !delivered {
		return fmt.Errorf("ask request for run %s already answered", a.RunID)
	}
	return nil
}
