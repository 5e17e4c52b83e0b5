package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbenliogludev/postwatch/internal/agent"
	"github.com/nbenliogludev/postwatch/internal/llm"
)

func historyWith(actions ...llm.ActionType) *agent.History {
	h := &agent.History{}
	for i, a := range actions {
		h.Add(agent.StepRecord{Step: i + 1, URL: "https://example.com", Action: llm.Action{Type: a, TargetID: i + 1}})
	}
	return h
}

func TestFromHistoryCounts(t *testing.T) {
	h := historyWith(llm.ActionNavigate, llm.ActionClick, llm.ActionClick, llm.ActionTypeInput, llm.ActionScroll, llm.ActionWait)

	stats := FromHistory(h)

	assert.Equal(t, 1, stats.Navigates)
	assert.Equal(t, 2, stats.Clicks)
	assert.Equal(t, 1, stats.Types)
	assert.Equal(t, 1, stats.Scrolls)
	assert.Equal(t, 1, stats.Waits)
	assert.Equal(t, 0, stats.Errors)
	assert.False(t, stats.NoOp())
}

func TestFromHistoryFailedStepsCountAsErrors(t *testing.T) {
	h := &agent.History{}
	h.Add(agent.StepRecord{Step: 1, Action: llm.Action{Type: llm.ActionClick, TargetID: 3}, Err: "click failed: element not found"})

	stats := FromHistory(h)

	// A failed click is an error, not a click.
	assert.Equal(t, 0, stats.Clicks)
	assert.Equal(t, 1, stats.Errors)
	assert.True(t, stats.NoOp())
}

func TestFromHistoryLoginClaimed(t *testing.T) {
	h := historyWith(llm.ActionClick, llm.ActionTypeInput)
	h.Result = "Logged in. Found 'Logout' in the header. Posts: ..."

	assert.True(t, FromHistory(h).LoginClaimed)

	h.Result = "Login failed: password field not found"
	assert.False(t, FromHistory(h).LoginClaimed)
}

func TestFromHistoryIndependentPerRun(t *testing.T) {
	first := FromHistory(historyWith(llm.ActionClick, llm.ActionClick))
	second := FromHistory(historyWith(llm.ActionNavigate))

	assert.Equal(t, 2, first.Clicks)
	assert.Equal(t, 0, second.Clicks)
	assert.Equal(t, 1, second.Navigates)
}

func TestFromHistoryNilAndEmpty(t *testing.T) {
	assert.True(t, FromHistory(nil).NoOp())

	stats := FromHistory(&agent.History{})
	assert.True(t, stats.NoOp())
	assert.GreaterOrEqual(t, stats.Clicks, 0)
	assert.GreaterOrEqual(t, stats.Errors, 0)
}

func TestScanKeywords(t *testing.T) {
	text := "step 1: navigate to login page\n" +
		"step 2: click the Log in button\n" +
		"step 3: fill the username field\n" +
		"step 4: error: websocket closed\n"

	stats := Scan(text)

	assert.Equal(t, 1, stats.Navigates)
	assert.Equal(t, 1, stats.Clicks)
	assert.Equal(t, 1, stats.Types)
	assert.Equal(t, 1, stats.Errors)
}

func TestScanEmpty(t *testing.T) {
	stats := Scan("")
	assert.True(t, stats.NoOp())
	assert.Equal(t, 0, stats.Errors)
}

func TestStatusGrading(t *testing.T) {
	tests := []struct {
		name   string
		stats  Stats
		status Status
		marker string
	}{
		{"two inputs is strong", Stats{Clicks: 3, Types: 2}, StatusStrong, "OK+"},
		{"clicks only is ok", Stats{Clicks: 1}, StatusOK, "OK"},
		{"nothing is weak", Stats{}, StatusWeak, "WARN"},
		{"only errors is weak", Stats{Errors: 1}, StatusWeak, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.stats.Status())
			assert.Equal(t, tt.marker, tt.stats.Status().Marker())
		})
	}
}

func TestRenderMentionsAllCounters(t *testing.T) {
	out := Stats{Navigates: 1, Clicks: 2, Types: 3, Errors: 4}.Render()

	assert.Contains(t, out, "Navigates: 1")
	assert.Contains(t, out, "Clicks: 2")
	assert.Contains(t, out, "Inputs: 3")
	assert.Contains(t, out, "Errors: 4")
}
