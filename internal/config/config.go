package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the worker and the advisor read from the
// environment. A .env file is honored when present so local runs don't
// need a wall of exports.
type Config struct {
	// Target site
	TargetURL      string
	TargetUser     string
	TargetPassword string

	// LLM endpoint (OpenAI-compatible; Groq by default)
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string

	// Browser session. Empty BrowserWSURL means "launch a local browser".
	BrowserWSURL    string
	BrowserHeadless bool

	// Run shape
	AttemptTimeout time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	MaxSteps       int

	// Artifact exchange
	ReportDir  string
	AdviceFile string

	// Email
	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string
	EmailReceiver string

	// Logging
	LogFile  string
	LogLevel string

	// Advisor: refine the rule-based advice with an LLM pass.
	AdviceUseLLM bool
}

// Load reads configuration from the environment, after loading a .env
// file if one exists next to the binary.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env is fine; plain environment variables still apply.
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
		}
	}

	cfg := &Config{
		TargetURL:      os.Getenv("TARGET_URL"),
		TargetUser:     os.Getenv("TARGET_USER"),
		TargetPassword: os.Getenv("TARGET_PW"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   getEnvOrDefault("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMBaseURL: getEnvOrDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1"),

		BrowserWSURL:    os.Getenv("BROWSER_WS_URL"),
		BrowserHeadless: getEnvBool("BROWSER_HEADLESS", true),

		AttemptTimeout: getEnvSeconds("WORKER_TIMEOUT_SEC", 240),
		MaxAttempts:    getEnvInt("MAX_ATTEMPTS", 3),
		BackoffBase:    getEnvSeconds("RETRY_BACKOFF_SEC", 5),
		MaxSteps:       getEnvInt("MAX_STEPS", 20),

		ReportDir:  getEnvOrDefault("REPORT_DIR", "worker-report"),
		AdviceFile: getEnvOrDefault("ADVICE_FILE", "advice.md"),

		SMTPHost:      getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 465),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_APP_PASSWORD"),
		EmailReceiver: os.Getenv("EMAIL_RECEIVER"),

		LogFile:  os.Getenv("LOG_FILE"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),

		AdviceUseLLM: getEnvBool("ADVICE_USE_LLM", false),
	}

	if cfg.TargetURL == "" {
		return nil, fmt.Errorf("TARGET_URL is required but not set")
	}
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required but not set")
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxSteps < 1 {
		cfg.MaxSteps = 1
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvSeconds(key string, defaultSec int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSec)) * time.Second
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}
