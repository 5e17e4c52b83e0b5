package advice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nbenliogludev/postwatch/internal/report"
)

const (
	adviceExcerptLimit = 1500
	socialExcerptLimit = 1200
)

// Build derives the advice markdown for the next worker run from a run
// report. Pure function of the report: the same input always produces the
// same advice.
func Build(rep *report.Report) string {
	var lines []string

	lines = append(lines,
		"# Advice for next worker run",
		"",
		"## Hard rules (MANDATORY)",
		"- If you see 'browser not connected' / 'websocket closed' / 'session corrupted': STOP and EXIT (do not retry clicks).",
		"- Never click the same element repeatedly; max 1 click per page for the same target.",
		"- After login: prefer extraction (read the DOM) over navigation loops.",
		"- If a click opens a new tab or detaches focus: stop further actions and return an error summary.",
		"",
		"## Next attempt strategy",
	)

	switch {
	case rep.Telemetry.Errors > 0 && rep.Telemetry.NoOp():
		lines = append(lines,
			"- The last run failed before interacting with the page. Re-check the login entry point before anything else.",
			"- Keep the first actions minimal: one click to the login form, fill, submit.")
	case rep.Telemetry.NoOp():
		lines = append(lines,
			"- The last run recorded no clicks and no inputs. Do not finish before at least attempting the login click.",
			"- If the login control is not visible, scroll once before concluding it is absent.")
	default:
		lines = append(lines,
			"- After a successful login, wait 2s, then locate a single stable content area.",
			"- If a 'Today's Posts' link exists: click once; then extract titles and dates from the DOM.",
			"- Avoid anything that opens a new tab or window; prefer same-tab navigation.")
	}

	lines = append(lines, "", "## Signals from last run")
	lines = append(lines, fmt.Sprintf("- Telemetry: clicks=%d inputs=%d navigates=%d scrolls=%d waits=%d errors=%d login_claimed=%v",
		rep.Telemetry.Clicks, rep.Telemetry.Types, rep.Telemetry.Navigates,
		rep.Telemetry.Scrolls, rep.Telemetry.Waits, rep.Telemetry.Errors, rep.Telemetry.LoginClaimed))
	for _, k := range sortedKeys(rep.Extra) {
		lines = append(lines, fmt.Sprintf("- Extra %s: %s", k, rep.Extra[k]))
	}

	lines = append(lines, "", "## Last result excerpt", excerpt(rep.Result, adviceExcerptLimit))

	return strings.Join(lines, "\n") + "\n"
}

// BuildSocialPost renders the run as a short status post for the agent
// exchange feed.
func BuildSocialPost(rep *report.Report) string {
	var sb strings.Builder
	sb.WriteString("# Worker update\n\n")
	fmt.Fprintf(&sb, "**Timestamp:** %d\n\n", rep.TS)
	sb.WriteString("## Telemetry\n")
	fmt.Fprintf(&sb, "- Clicks: %d\n", rep.Telemetry.Clicks)
	fmt.Fprintf(&sb, "- Inputs: %d\n", rep.Telemetry.Types)
	fmt.Fprintf(&sb, "- Waits: %d\n", rep.Telemetry.Waits)
	fmt.Fprintf(&sb, "- Scrolls: %d\n", rep.Telemetry.Scrolls)
	fmt.Fprintf(&sb, "- Navigates: %d\n", rep.Telemetry.Navigates)
	fmt.Fprintf(&sb, "- Errors: %d\n", rep.Telemetry.Errors)
	sb.WriteString("\n## Result (short)\n")
	sb.WriteString(excerpt(rep.Result, socialExcerptLimit))
	sb.WriteString("\n")
	return sb.String()
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "(no result text)"
	}
	if len(text) > limit {
		return text[:limit]
	}
	return text
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable order keeps Build deterministic for identical reports.
	sort.Strings(keys)
	return keys
}
