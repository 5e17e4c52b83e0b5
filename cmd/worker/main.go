package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nbenliogludev/postwatch/internal/agent"
	"github.com/nbenliogludev/postwatch/internal/browser"
	"github.com/nbenliogludev/postwatch/internal/config"
	"github.com/nbenliogludev/postwatch/internal/llm"
	"github.com/nbenliogludev/postwatch/internal/mailer"
	"github.com/nbenliogludev/postwatch/internal/observability"
	"github.com/nbenliogludev/postwatch/internal/report"
	"github.com/nbenliogludev/postwatch/internal/retry"
	"github.com/nbenliogludev/postwatch/internal/task"
	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		observability.GetLogger().Error("worker failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	observability.Initialize(observability.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		ServiceName: "postwatch",
	})
	log := observability.GetLogger()

	ctx, stop := agent.WithInterrupt(context.Background())
	defer stop()

	adviceText := task.LoadAdvice(cfg.AdviceFile)
	if adviceText != "" {
		log.Info("advice loaded", zap.String("file", cfg.AdviceFile))
	}

	taskText := task.Build(task.Params{
		TargetURL: cfg.TargetURL,
		Username:  cfg.TargetUser,
		Password:  cfg.TargetPassword,
		Advice:    adviceText,
	})

	llmClient, err := llm.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	if err != nil {
		return err
	}

	ctrl := retry.New(retry.Policy{
		MaxAttempts:    cfg.MaxAttempts,
		BaseDelay:      cfg.BackoffBase,
		AttemptTimeout: cfg.AttemptTimeout,
		OnRetry: func(attempt int, reason string, delay time.Duration) {
			log.Info("retrying run",
				zap.Int("attempt", attempt),
				zap.String("reason", reason),
				zap.Duration("delay", delay),
			)
		},
	}, log)

	// One attempt: fresh browser session, full agent run, telemetry.
	// Reopening the session per attempt is what makes disconnects retryable.
	attempt := func(ctx context.Context) (telemetry.Stats, string, error) {
		session, err := browser.Open(ctx, browser.Options{
			RemoteWSURL: cfg.BrowserWSURL,
			Headless:    cfg.BrowserHeadless,
		})
		if err != nil {
			return telemetry.Stats{Errors: 1}, "", err
		}
		defer session.Close()

		if err := session.Navigate(ctx, cfg.TargetURL); err != nil {
			return telemetry.Stats{Errors: 1}, "", err
		}

		ag := agent.New(session, llmClient, log, cfg.MaxSteps)
		start := time.Now()
		history, runErr := ag.Run(ctx, taskText)

		stats := telemetry.FromHistory(history)
		if runErr != nil {
			stats.Errors++
			return stats, "", runErr
		}

		result := history.Result
		if result == "" {
			result = "No result text."
		}

		// Best effort run summary; the raw result stands on its own.
		if summary, sumErr := llmClient.SummarizeRun(ctx, llm.SummaryInput{
			Task:       taskText,
			ExitReason: "task finished",
			Duration:   time.Since(start).Truncate(time.Millisecond).String(),
			Steps:      history.Lines(),
		}); sumErr == nil && summary != "" {
			result += "\n\nSUMMARY:\n" + summary
		}

		return stats, result, nil
	}

	res, runErr := ctrl.Do(ctx, attempt)

	extra := map[string]string{}
	if res.Reason != "" {
		extra["reason"] = res.Reason
	}
	extra["attempts"] = fmt.Sprintf("%d", res.Attempts)

	result := res.Result
	if runErr != nil {
		result = fmt.Sprintf("System crash: %v", runErr)
	}

	rep := report.New(result, res.Stats, extra)
	if err := report.Write(cfg.ReportDir, rep); err != nil {
		log.Error("failed to write report", zap.Error(err))
	} else {
		log.Info("report written", zap.String("dir", cfg.ReportDir), zap.String("run_id", rep.RunID))
	}

	sendMail(cfg, log, res.Stats, result)

	if runErr != nil {
		return runErr
	}

	log.Info("worker done",
		zap.Int("attempts", res.Attempts),
		zap.Int("clicks", res.Stats.Clicks),
		zap.Int("inputs", res.Stats.Types),
		zap.Int("errors", res.Stats.Errors),
	)
	return nil
}

// sendMail is best effort: a failed notification is logged and swallowed.
func sendMail(cfg *config.Config, log *zap.Logger, stats telemetry.Stats, result string) {
	m, err := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword, cfg.EmailReceiver)
	if err != nil {
		log.Warn("mailer not configured, skipping email", zap.Error(err))
		return
	}

	// Deliberately detached from the run context: the failure email must
	// still go out after a cancelled or timed-out run.
	mailCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := m.Send(mailCtx, mailer.Subject(stats), mailer.Body(stats, result)); err != nil {
		log.Warn("failed to send summary email", zap.Error(err))
	}
}
