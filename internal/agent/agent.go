package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nbenliogludev/postwatch/internal/browser"
	"github.com/nbenliogludev/postwatch/internal/llm"
)

var (
	ErrMaxSteps     = errors.New("max steps reached")
	ErrSnapshotFail = errors.New("snapshot error")
	ErrLLMFail      = errors.New("llm error")
)

// Agent runs the decision loop: snapshot the page, ask the model for the
// next action, guard against loops, execute, repeat.
type Agent struct {
	session   browser.Session
	llm       llm.Client
	log       *zap.Logger
	maxSteps  int
	stepPause time.Duration
}

func New(session browser.Session, client llm.Client, log *zap.Logger, maxSteps int) *Agent {
	if maxSteps <= 0 {
		maxSteps = 15
	}
	return &Agent{
		session:   session,
		llm:       client,
		log:       log.Named("agent"),
		maxSteps:  maxSteps,
		stepPause: 2 * time.Second,
	}
}

// Run executes the task and returns the step history. The history is
// valid (possibly partial) even when an error is returned, so telemetry
// can still be derived from a failed attempt.
func (a *Agent) Run(ctx context.Context, task string) (*History, error) {
	history := &History{}
	mem := NewStepMemory(10, 3)

	var prevTree string

	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}

		snap, err := browser.Snapshot(ctx, a.session)
		if err != nil {
			return history, fmt.Errorf("%w: %v", ErrSnapshotFail, err)
		}

		if prevTree != "" && snap.Tree == prevTree {
			mem.AddSystemNote("SYSTEM ALERT: Last action had NO VISIBLE EFFECT.")
		}
		prevTree = snap.Tree

		decision, err := a.llm.DecideAction(ctx, llm.DecisionInput{
			Task:       task,
			DOMTree:    snap.Tree,
			CurrentURL: snap.URL,
			History:    mem.HistoryString(),
		})
		if err != nil {
			return history, fmt.Errorf("%w: %v", ErrLLMFail, err)
		}

		a.log.Info("step decided",
			zap.Int("step", step),
			zap.String("url", snap.URL),
			zap.String("action", string(decision.Action.Type)),
			zap.Int("target", decision.Action.TargetID),
			zap.String("thought", decision.Thought),
		)

		if blocked, reason := mem.ShouldBlock(snap.URL, decision.Action); blocked {
			a.log.Warn("loop guard suppressed action",
				zap.String("action", string(decision.Action.Type)),
				zap.Int("target", decision.Action.TargetID),
			)
			mem.AddSystemNote(reason)
			mem.MarkLoopTriggered()
			// Nudge the page so the next snapshot differs.
			_, _ = a.session.Evaluate(ctx, scrollScript)
			if err := sleepCtx(ctx, a.stepPause); err != nil {
				return history, err
			}
			continue
		}

		if decision.Action.Type == llm.ActionFinish {
			history.Result = decision.Action.Text
			history.Add(StepRecord{
				Step:    step,
				URL:     snap.URL,
				Action:  decision.Action,
				Thought: decision.Thought,
			})
			return history, nil
		}

		rec := StepRecord{
			Step:    step,
			URL:     snap.URL,
			Action:  decision.Action,
			Thought: decision.Thought,
		}
		if execErr := a.executeAction(ctx, decision.Action, snap.URL); execErr != nil {
			rec.Err = execErr.Error()
			mem.AddSystemNote(fmt.Sprintf("SYSTEM ERROR: %v", execErr))
			a.log.Warn("action failed", zap.Error(execErr))
		} else {
			mem.Add(step, snap.URL, decision.Action)
		}
		history.Add(rec)

		if err := sleepCtx(ctx, a.stepPause); err != nil {
			return history, err
		}
	}

	return history, ErrMaxSteps
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
