package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	JSONName      = "worker_report.json"
	ResultName    = "result.txt"
	TelemetryName = "telemetry.txt"
)

// Report is the per-run artifact the advisor consumes. Written exactly
// once per run, read at most once afterwards.
type Report struct {
	TS            int64             `json:"ts"`
	RunID         string            `json:"run_id"`
	Result        string            `json:"result"`
	TelemetryText string            `json:"telemetry_text"`
	Telemetry     telemetry.Stats   `json:"telemetry"`
	Extra         map[string]string `json:"extra"`
}

// New builds a report with a fresh run ID and timestamp.
func New(result string, stats telemetry.Stats, extra map[string]string) *Report {
	if extra == nil {
		extra = map[string]string{}
	}
	return &Report{
		TS:            time.Now().Unix(),
		RunID:         uuid.NewString(),
		Result:        result,
		TelemetryText: stats.Render(),
		Telemetry:     stats,
		Extra:         extra,
	}
}

// Write persists the JSON report plus the plain-text result and telemetry
// files under dir. All files are newline-terminated UTF-8.
func Write(dir string, rep *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	payload, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	files := map[string]string{
		JSONName:      string(payload),
		ResultName:    rep.Result,
		TelemetryName: rep.TelemetryText,
	}
	for name, content := range files {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Marshal renders the report as indented JSON, the same form Write puts
// on disk.
func Marshal(rep *Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// Read loads a report JSON. A missing or unparsable file yields a stub
// report carrying the problem in Extra["error"], so the advisor always has
// something to work with.
func Read(path string) *Report {
	stub := func(problem string) *Report {
		return &Report{
			TS:    time.Now().Unix(),
			Extra: map[string]string{"error": problem},
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return stub(fmt.Sprintf("%s not found: %v", filepath.Base(path), err))
	}

	var rep Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return stub(fmt.Sprintf("failed to parse %s: %v", filepath.Base(path), err))
	}
	if rep.Extra == nil {
		rep.Extra = map[string]string{}
	}
	return &rep
}
