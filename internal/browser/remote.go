package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// remoteSession drives a remotely hosted browser over CDP.
type remoteSession struct {
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc
	ctx         context.Context
}

func newRemoteSession(parent context.Context, wsURL string) (*remoteSession, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(parent, wsURL)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	// Fail fast on a dead endpoint instead of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("connect to remote browser failed: %w", err)
	}

	return &remoteSession{
		allocCancel: allocCancel,
		ctxCancel:   ctxCancel,
		ctx:         ctx,
	}, nil
}

func (s *remoteSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, chromedp.Navigate(url))
}

func (s *remoteSession) Evaluate(ctx context.Context, js string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		obj, exc, err := runtime.Evaluate(js).
			WithReturnByValue(true).
			WithAwaitPromise(true).
			Do(cctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exc
		}
		out, err = decodeRemoteString(obj)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("js evaluation failed: %w", err)
	}
	return out, nil
}

// decodeRemoteString unpacks an Evaluate result returned by value. The
// page scripts return a string or null, nothing else.
func decodeRemoteString(obj *runtime.RemoteObject) (string, error) {
	if obj == nil || len(obj.Value) == 0 {
		return "", nil
	}
	var res *string
	if err := json.Unmarshal(obj.Value, &res); err != nil {
		return "", fmt.Errorf("expected string from js, got %s", obj.Type)
	}
	if res == nil {
		return "", nil
	}
	return *res, nil
}

func (s *remoteSession) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var loc string
	if err := chromedp.Run(s.ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (s *remoteSession) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var title string
	if err := chromedp.Run(s.ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

func (s *remoteSession) Close() error {
	s.ctxCancel()
	s.allocCancel()
	return nil
}
