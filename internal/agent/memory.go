package agent

import (
	"fmt"
	"strings"

	"github.com/nbenliogludev/postwatch/internal/llm"
)

// StepMemory keeps a short action history for the prompt and detects
// loops: the same action repeated back to back, and short A->B patterns
// that already occurred.
type StepMemory struct {
	lines    []string
	maxLines int

	lastActionKey string
	repeatCount   int
	loopThreshold int

	recentKeys    []string
	maxRecent     int
	patternLen    int
	patternCounts map[string]int

	loopTriggered bool
}

func NewStepMemory(maxLines, loopThreshold int) *StepMemory {
	if maxLines <= 0 {
		maxLines = 5
	}
	if loopThreshold <= 1 {
		loopThreshold = 2
	}
	return &StepMemory{
		maxLines:      maxLines,
		loopThreshold: loopThreshold,
		maxRecent:     10,
		patternLen:    2,
		patternCounts: make(map[string]int),
	}
}

// type + URL + target is enough to tell "same button on the same page".
func (m *StepMemory) makeKey(url string, action llm.Action) string {
	return fmt.Sprintf("%s|%s|%d", action.Type, url, action.TargetID)
}

// Add records a successfully executed action.
func (m *StepMemory) Add(step int, url string, action llm.Action) {
	line := fmt.Sprintf("step=%d url=%s action=%s target=%d text=%q",
		step, url, action.Type, action.TargetID, action.Text)
	m.appendLine(line)

	key := m.makeKey(url, action)

	if key == m.lastActionKey {
		m.repeatCount++
	} else {
		m.lastActionKey = key
		m.repeatCount = 1
	}

	m.recentKeys = append(m.recentKeys, key)
	if len(m.recentKeys) > m.maxRecent {
		m.recentKeys = m.recentKeys[len(m.recentKeys)-m.maxRecent:]
	}

	if m.patternLen > 1 && len(m.recentKeys) >= m.patternLen {
		seq := m.recentKeys[len(m.recentKeys)-m.patternLen:]
		m.patternCounts[strings.Join(seq, "->")]++
	}
}

// ShouldBlock reports whether the proposed action would repeat a loop,
// with a system note to feed back to the model.
func (m *StepMemory) ShouldBlock(url string, action llm.Action) (bool, string) {
	key := m.makeKey(url, action)

	if key == m.lastActionKey && m.repeatCount >= m.loopThreshold {
		return true, fmt.Sprintf(
			"SYSTEM NOTE: The same action (%s) has already been executed %d times in a row. "+
				"Do NOT repeat it. Choose a different action or finish if the goal is achieved.",
			key, m.repeatCount)
	}

	if m.patternLen > 1 && len(m.recentKeys) >= m.patternLen-1 {
		start := len(m.recentKeys) - (m.patternLen - 1)
		seq := append([]string{}, m.recentKeys[start:]...)
		seq = append(seq, key)
		// Pure repetition of one key is the repeat rule's job; the pattern
		// rule only catches alternating sequences.
		pure := true
		for _, k := range seq {
			if k != key {
				pure = false
				break
			}
		}
		pattern := strings.Join(seq, "->")
		if count := m.patternCounts[pattern]; !pure && count >= 1 {
			return true, fmt.Sprintf(
				"SYSTEM NOTE: The action sequence (%s) has already occurred. "+
					"Do NOT repeat this pattern. Try a different action or finish.",
				pattern)
		}
	}

	return false, ""
}

// AddSystemNote injects a note into the prompt history.
func (m *StepMemory) AddSystemNote(note string) {
	if strings.TrimSpace(note) == "" {
		return
	}
	m.appendLine(note)
}

func (m *StepMemory) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
}

// HistoryString renders the short window for the decision prompt.
func (m *StepMemory) HistoryString() string {
	return strings.Join(m.lines, "\n")
}

func (m *StepMemory) MarkLoopTriggered() { m.loopTriggered = true }
func (m *StepMemory) LoopTriggered() bool { return m.loopTriggered }
