package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

// Class is the outcome classification of a single attempt.
type Class int

const (
	ClassSuccess Class = iota
	// ClassNoOp: the attempt finished without error but recorded no real
	// interaction (zero clicks and zero inputs).
	ClassNoOp
	// ClassTransient: the error text matches a known disconnect phrase or
	// the attempt hit its deadline.
	ClassTransient
	ClassFailed
)

// disconnectMarkers is the substring list for transient infrastructure
// failures. Matching stringified errors is approximate and will need
// revisiting once the browser layer reports structured errors.
var disconnectMarkers = []string{
	"browser not connected",
	"websocket closed",
	"session corrupted",
	"target_id=none",
	"cdp",
}

// Policy shapes the bounded retry loop.
type Policy struct {
	// MaxAttempts bounds the number of runs, first attempt included.
	MaxAttempts int
	// BaseDelay scales the linear backoff: wait BaseDelay * attempt.
	BaseDelay time.Duration
	// AttemptTimeout is the wall-clock budget of a single attempt.
	AttemptTimeout time.Duration
	// OnRetry is invoked before each backoff wait.
	OnRetry func(attempt int, reason string, delay time.Duration)
}

// RunFunc is one full attempt: drive the agent, return its telemetry and
// result text. Stats must be valid even when err != nil.
type RunFunc func(ctx context.Context) (telemetry.Stats, string, error)

// RunResult is the surfaced outcome of the last attempt.
type RunResult struct {
	Stats    telemetry.Stats
	Result   string
	Reason   string // "", "noop", "disconnect", "timeout", "crash"
	Attempts int
}

// Controller repeats a bounded operation until it succeeds or the attempt
// budget runs out. One operation is in flight at a time.
type Controller struct {
	policy Policy
	log    *zap.Logger
}

func New(policy Policy, log *zap.Logger) *Controller {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 3
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 5 * time.Second
	}
	return &Controller{policy: policy, log: log.Named("retry")}
}

// Do runs fn up to MaxAttempts times. A successful attempt stops the loop
// immediately; a no-op or failed attempt is retried after a linear backoff
// delay. After exhaustion the last result is surfaced, with the last error
// wrapped when the final attempt failed. RunResult is always non-nil.
func (c *Controller) Do(ctx context.Context, fn RunFunc) (*RunResult, error) {
	res := &RunResult{}
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		res.Attempts = attempt

		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if c.policy.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.policy.AttemptTimeout)
		}
		stats, result, err := fn(attemptCtx)
		cancel()

		class, reason := Classify(stats, err)
		res.Stats = stats
		res.Result = result
		res.Reason = reason
		lastErr = err

		if class == ClassSuccess {
			if attempt > 1 {
				c.log.Info("attempt succeeded after retries", zap.Int("attempt", attempt))
			}
			return res, nil
		}

		c.log.Warn("attempt did not succeed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.policy.MaxAttempts),
			zap.String("reason", reason),
			zap.Error(err),
		)

		if attempt == c.policy.MaxAttempts {
			break
		}
		// Parent cancellation ends the loop; an attempt deadline does not.
		// Keep the attempt's own error as the root cause.
		if ctx.Err() != nil {
			if lastErr != nil {
				lastErr = fmt.Errorf("%w (cancelled: %v)", lastErr, ctx.Err())
			} else {
				lastErr = ctx.Err()
			}
			break
		}

		delay := time.Duration(attempt) * c.policy.BaseDelay
		if c.policy.OnRetry != nil {
			c.policy.OnRetry(attempt, reason, delay)
		}
		select {
		case <-ctx.Done():
			return res, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	if lastErr != nil {
		return res, fmt.Errorf("failed after %d attempts: %w", res.Attempts, lastErr)
	}
	// Exhausted on no-ops: surface the last result rather than an error.
	return res, nil
}

// Classify maps an attempt outcome onto the retry taxonomy.
func Classify(stats telemetry.Stats, err error) (Class, string) {
	if err == nil {
		if stats.NoOp() {
			return ClassNoOp, "noop"
		}
		return ClassSuccess, ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient, "timeout"
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline") {
		return ClassTransient, "timeout"
	}
	for _, marker := range disconnectMarkers {
		if strings.Contains(msg, marker) {
			return ClassTransient, "disconnect"
		}
	}

	return ClassFailed, "crash"
}
