package telemetry

import (
	"fmt"
	"strings"

	"github.com/nbenliogludev/postwatch/internal/agent"
	"github.com/nbenliogludev/postwatch/internal/llm"
)

// Stats is a flat counter snapshot of one run. Produced fresh per attempt;
// nothing leaks between runs.
type Stats struct {
	Navigates    int  `json:"navigates"`
	Clicks       int  `json:"clicks"`
	Types        int  `json:"types"`
	Scrolls      int  `json:"scrolls"`
	Waits        int  `json:"waits"`
	Errors       int  `json:"errors"`
	LoginClaimed bool `json:"login_claimed"`
}

// loginMarkers are the post-login phrases the task instructs the model to
// check for. Matching them in the result is approximate on purpose.
var loginMarkers = []string{"logout", "sign out", "abmelden", "logged in", "login successful"}

// FromHistory derives counters from the structured step trace. This is the
// primary producer; the keyword Scan below only covers opaque text.
func FromHistory(h *agent.History) Stats {
	var s Stats
	if h == nil {
		return s
	}

	for _, rec := range h.Records {
		if rec.Err != "" {
			s.Errors++
			continue
		}
		switch rec.Action.Type {
		case llm.ActionNavigate:
			s.Navigates++
		case llm.ActionClick:
			s.Clicks++
		case llm.ActionTypeInput:
			s.Types++
		case llm.ActionScroll:
			s.Scrolls++
		case llm.ActionWait:
			s.Waits++
		}
	}

	result := strings.ToLower(h.Result)
	for _, marker := range loginMarkers {
		if strings.Contains(result, marker) {
			s.LoginClaimed = true
			break
		}
	}

	return s
}

// Scan counts action keywords in opaque log text, one hit per line per
// counter. It is a fallback for text we didn't produce ourselves and is
// known to be approximate.
func Scan(text string) Stats {
	var s Stats
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		if strings.Contains(line, "error") {
			s.Errors++
		}
		if strings.Contains(line, "click") {
			s.Clicks++
		}
		if strings.Contains(line, "type") || strings.Contains(line, "fill") || strings.Contains(line, `"input"`) {
			s.Types++
		}
		if strings.Contains(line, "scroll") {
			s.Scrolls++
		}
		if strings.Contains(line, "wait") {
			s.Waits++
		}
		if strings.Contains(line, "navigate") || strings.Contains(line, "goto") {
			s.Navigates++
		}
	}
	return s
}

// NoOp reports whether the run produced no real interaction: nothing was
// clicked and nothing was typed.
func (s Stats) NoOp() bool {
	return s.Clicks == 0 && s.Types == 0
}

// Render produces the plain-text telemetry block used in artifacts and in
// the email body.
func (s Stats) Render() string {
	var sb strings.Builder
	sb.WriteString("TELEMETRY\n")
	fmt.Fprintf(&sb, "- Navigates: %d\n", s.Navigates)
	fmt.Fprintf(&sb, "- Waits: %d\n", s.Waits)
	fmt.Fprintf(&sb, "- Scrolls: %d\n", s.Scrolls)
	fmt.Fprintf(&sb, "- Clicks: %d\n", s.Clicks)
	fmt.Fprintf(&sb, "- Inputs: %d\n", s.Types)
	fmt.Fprintf(&sb, "- Errors: %d\n", s.Errors)
	fmt.Fprintf(&sb, "- Login claimed: %v\n", s.LoginClaimed)
	return sb.String()
}

// Status grades a run for the email subject line.
type Status int

const (
	// StatusWeak: no real interaction, or nothing beyond errors.
	StatusWeak Status = iota
	// StatusOK: at least one click landed.
	StatusOK
	// StatusStrong: form interaction happened (two or more inputs).
	StatusStrong
)

func (s Stats) Status() Status {
	switch {
	case s.Types >= 2:
		return StatusStrong
	case s.Clicks > 0:
		return StatusOK
	default:
		return StatusWeak
	}
}

func (st Status) Marker() string {
	switch st {
	case StatusStrong:
		return "OK+"
	case StatusOK:
		return "OK"
	default:
		return "WARN"
	}
}
