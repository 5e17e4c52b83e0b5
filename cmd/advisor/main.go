package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nbenliogludev/postwatch/internal/advice"
	"github.com/nbenliogludev/postwatch/internal/config"
	"github.com/nbenliogludev/postwatch/internal/llm"
	"github.com/nbenliogludev/postwatch/internal/observability"
	"github.com/nbenliogludev/postwatch/internal/report"
)

// The advisor is the second stage of the exchange: it reads the worker's
// report and produces the advice the next run injects into its prompt.
func main() {
	if err := run(); err != nil {
		observability.GetLogger().Error("advisor failed", zap.Error(err))
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
		ServiceName: "postwatch-advisor",
	})
	log := observability.GetLogger()

	reportPath := filepath.Join(cfg.ReportDir, report.JSONName)
	rep := report.Read(reportPath)
	if problem, ok := rep.Extra["error"]; ok {
		log.Warn("report unavailable, building advice from stub", zap.String("problem", problem))
	}

	adviceText := advice.Build(rep)

	if cfg.AdviceUseLLM {
		adviceText = refine(log, cfg, rep, adviceText)
	}

	socialText := advice.BuildSocialPost(rep)

	if err := writeText(cfg.AdviceFile, adviceText); err != nil {
		return err
	}
	socialPath := filepath.Join(filepath.Dir(cfg.AdviceFile), "social_post.md")
	if err := writeText(socialPath, socialText); err != nil {
		return err
	}

	log.Info("advisor artifacts written",
		zap.String("advice", cfg.AdviceFile),
		zap.String("social_post", socialPath),
	)
	return nil
}

// refine runs the optional LLM pass; any failure falls back to the
// deterministic draft.
func refine(log *zap.Logger, cfg *config.Config, rep *report.Report, draft string) string {
	client, err := llm.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	if err != nil {
		log.Warn("llm unavailable, keeping rule-based advice", zap.Error(err))
		return draft
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	raw, err := report.Marshal(rep)
	if err != nil {
		log.Warn("could not marshal report for refinement", zap.Error(err))
		return draft
	}

	refined, err := client.RefineAdvice(ctx, draft, string(raw))
	if err != nil {
		log.Warn("advice refinement failed, keeping rule-based advice", zap.Error(err))
		return draft
	}
	return refined
}

func writeText(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
