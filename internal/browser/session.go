package browser

import "context"

// Session is the minimal surface the agent needs from a browser, whether
// it lives in a remote CDP endpoint or a locally launched instance. All
// DOM interaction goes through Evaluate so both backends behave the same.
type Session interface {
	Navigate(ctx context.Context, url string) error
	// Evaluate runs a JS expression in the page and returns its string
	// result ("" when the expression yields null/undefined).
	Evaluate(ctx context.Context, js string) (string, error)
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Close() error
}

// Options selects and configures the backend.
type Options struct {
	// RemoteWSURL is a CDP websocket endpoint (e.g. a Steel session).
	// Empty means "launch a local browser".
	RemoteWSURL string
	Headless    bool
}

// Open connects to the remote endpoint when one is configured, otherwise
// starts a local browser.
func Open(ctx context.Context, opts Options) (Session, error) {
	if opts.RemoteWSURL != "" {
		return newRemoteSession(ctx, opts.RemoteWSURL)
	}
	return newLocalSession(opts.Headless)
}
