// Package browser drives the hosted PlayTest frontend: login and logout of actors,
// extraction of rendered block cards and a playwright-backed page driver.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

//go:generate moq -out mocks/driver.go -pkg mocks -skip-ensure -fmt goimports . Driver

// Driver is the page-level surface used by login, extraction and workflow steps.
// selectors follow playwright syntax, comma separated alternatives act on the first match.
// a zero timeout means the driver default.
type Driver interface {
	Goto(ctx context.Context, url string, timeout time.Duration) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Fill(ctx context.Context, selector, value string, timeout time.Duration) error
	Click(ctx context.Context, selector string, timeout time.Duration) error
	URL() string
	TextContent(ctx context.Context, selector string, timeout time.Duration) (string, error)
	InnerHTML(ctx context.Context, selector string, timeout time.Duration) (string, error)
	Count(ctx context.Context, selector string) (int, error)
	Evaluate(ctx context.Context, script string) (any, error)
	SetInputFiles(ctx context.Context, selector string, files []string, timeout time.Duration) error
	Download(ctx context.Context, selector, dir string, timeout time.Duration) (string, error)
	Get(ctx context.Context, url string, timeout time.Duration) (int, error)
	Screenshot(path string) error
}

// ElementNotFoundError reports an expected element that did not show up within its bound.
type ElementNotFoundError struct {
	Selector string
	Timeout  time.Duration
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("element %q not found within %v: %v", e.Selector, e.Timeout, e.Err)
	}
	return fmt.Sprintf("element %q not found: %v", e.Selector, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// AuthenticationError reports a failed login. Stage names the step that failed,
// e.g. "login form" or "session marker".
type AuthenticationError struct {
	Actor string
	Stage string
	Err   error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %s at %s: %v", e.Actor, e.Stage, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ErrConditionNotMet is returned by Poll when the condition stayed false until the deadline.
var ErrConditionNotMet = errors.New("condition not met")

// Poll calls cond every interval until it returns true, the timeout elapses or ctx is done.
// the last error returned by cond is reported on timeout.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func() (bool, error)) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%w after %v: %w", ErrConditionNotMet, timeout, lastErr)
			}
			return fmt.Errorf("%w after %v", ErrConditionNotMet, timeout)
		case <-ticker.C:
		}
	}
}
