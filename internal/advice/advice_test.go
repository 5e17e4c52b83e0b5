package advice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbenliogludev/postwatch/internal/report"
	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

func sampleReport() *report.Report {
	return &report.Report{
		TS:     1700000000,
		RunID:  "run-1",
		Result: "Logged in, found 3 posts.",
		Telemetry: telemetry.Stats{
			Navigates: 1, Clicks: 4, Types: 2, LoginClaimed: true,
		},
		Extra: map[string]string{"attempts": "1"},
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	rep := sampleReport()

	first := Build(rep)
	second := Build(rep)

	assert.Equal(t, first, second)
}

func TestBuildCarriesHardRulesAndSignals(t *testing.T) {
	out := Build(sampleReport())

	assert.Contains(t, out, "Hard rules")
	assert.Contains(t, out, "browser not connected")
	assert.Contains(t, out, "clicks=4 inputs=2")
	assert.Contains(t, out, "Extra attempts: 1")
	assert.Contains(t, out, "Logged in, found 3 posts.")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestBuildNoOpRunChangesStrategy(t *testing.T) {
	rep := sampleReport()
	rep.Telemetry = telemetry.Stats{Scrolls: 2}

	out := Build(rep)

	assert.Contains(t, out, "no clicks and no inputs")
}

func TestBuildFailedBeforeInteraction(t *testing.T) {
	rep := sampleReport()
	rep.Telemetry = telemetry.Stats{Errors: 1}
	rep.Result = "System crash: websocket closed"

	out := Build(rep)

	assert.Contains(t, out, "failed before interacting")
}

func TestBuildCapsResultExcerpt(t *testing.T) {
	rep := sampleReport()
	rep.Result = strings.Repeat("x", 5000)

	out := Build(rep)

	assert.Less(t, len(out), 4000)
}

func TestBuildHandlesStubReport(t *testing.T) {
	rep := &report.Report{Extra: map[string]string{"error": "worker_report.json not found"}}

	out := Build(rep)

	assert.Contains(t, out, "worker_report.json not found")
	assert.Contains(t, out, "(no result text)")
}

func TestBuildSocialPost(t *testing.T) {
	rep := sampleReport()

	out := BuildSocialPost(rep)

	assert.Contains(t, out, "**Timestamp:** 1700000000")
	assert.Contains(t, out, "- Clicks: 4")
	assert.Contains(t, out, "Logged in, found 3 posts.")

	// Same determinism contract as Build.
	assert.Equal(t, out, BuildSocialPost(rep))
}
