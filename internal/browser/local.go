package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultPageTimeoutMs = 60000

// remainingBudgetMs clamps the default page timeout to the attempt
// deadline, so a driver call cannot outlive the run that issued it.
func remainingBudgetMs(ctx context.Context) float64 {
	dl, ok := ctx.Deadline()
	if !ok {
		return defaultPageTimeoutMs
	}
	rem := time.Until(dl)
	if rem <= 0 {
		return 1
	}
	if ms := float64(rem.Milliseconds()); ms < defaultPageTimeoutMs {
		return ms
	}
	return defaultPageTimeoutMs
}

// localSession launches a browser on this machine. Used for development
// runs when no remote CDP endpoint is configured.
type localSession struct {
	pw      *playwright.Playwright
	context playwright.BrowserContext
	page    playwright.Page
}

func newLocalSession(headless bool) (*localSession, error) {
	if err := playwright.Install(); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	userDataDir, _ := os.Getwd()
	userDataDir = filepath.Join(userDataDir, ".playwright_data")

	bctx, err := pw.Chromium.LaunchPersistentContext(
		userDataDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(headless),
			Viewport: &playwright.Size{Width: 1280, Height: 720},
			Args: []string{
				"--disable-blink-features=AutomationControlled",
			},
		},
	)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	var page playwright.Page
	pages := bctx.Pages()
	if len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = bctx.NewPage()
		if err != nil {
			_ = bctx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	page.SetDefaultTimeout(60000)
	page.SetDefaultNavigationTimeout(60000)

	return &localSession{pw: pw, context: bctx, page: page}, nil
}

func (s *localSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(remainingBudgetMs(ctx)),
	})
	return err
}

func (s *localSession) Evaluate(ctx context.Context, js string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Evaluate has no per-call timeout in the driver, so race it against
	// the attempt deadline. An abandoned call finishes into the buffered
	// channel and is dropped.
	type evalResult struct {
		value any
		err   error
	}
	done := make(chan evalResult, 1)
	go func() {
		v, err := s.page.Evaluate(js)
		done <- evalResult{value: v, err: err}
	}()

	var result any
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("js evaluation failed: %w", r.err)
		}
		result = r.value
	}

	if result == nil {
		return "", nil
	}
	str, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("expected string from js, got %T", result)
	}
	return str, nil
}

func (s *localSession) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.URL(), nil
}

func (s *localSession) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Title()
}

func (s *localSession) Close() error {
	if s.context != nil {
		_ = s.context.Close()
	}
	if s.pw != nil {
		return s.pw.Stop()
	}
	return nil
}
