package agent

import (
	"fmt"

	"github.com/nbenliogludev/postwatch/internal/llm"
)

// StepRecord is one executed (or attempted) step. The telemetry analyzer
// consumes these instead of re-parsing log text, so counters don't depend
// on prompt wording.
type StepRecord struct {
	Step    int        `json:"step"`
	URL     string     `json:"url"`
	Action  llm.Action `json:"action"`
	Thought string     `json:"thought,omitempty"`
	Err     string     `json:"error,omitempty"`
}

// History is the full trace of one run plus the final result text the
// model returned with its finish action.
type History struct {
	Records []StepRecord
	Result  string
}

func (h *History) Add(rec StepRecord) {
	h.Records = append(h.Records, rec)
}

// Lines renders the trace for prompts and the run summary.
func (h *History) Lines() []string {
	if h == nil {
		return nil
	}
	out := make([]string, 0, len(h.Records))
	for _, r := range h.Records {
		line := fmt.Sprintf("step=%d url=%s action=%s target=%d text=%q",
			r.Step, r.URL, r.Action.Type, r.Action.TargetID, r.Action.Text)
		if r.Err != "" {
			line += " error=" + r.Err
		}
		out = append(out, line)
	}
	return out
}
