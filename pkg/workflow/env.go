package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playtest-app/phaserun/pkg/browser"
	"github.com/playtest-app/phaserun/pkg/config"
	"github.com/playtest-app/phaserun/pkg/scenario"
)

// Logger receives step progress.
type Logger interface {
	Print(format string, args ...any)
	Warn(format string, args ...any)
}

// Env is what the steps of one phase share.
type Env struct {
	Driver       browser.Driver
	Catalog      *scenario.Catalog
	Login        browser.LoginOptions
	Extract      browser.ExtractOptions
	Timeouts     config.Timeouts
	BackendURL   string
	ArtifactsDir string
	Phase        string
	Log          Logger

	ListTimeout time.Duration // bound for a block to appear in or vanish from a listing
	ListPoll    time.Duration
}

// withSession logs the actor in, runs fn and logs out even when fn failed.
func (e *Env) withSession(ctx context.Context, nickname string, fn func(*browser.Session) error) error {
	if nickname == "" {
		return errors.New("step has no actor")
	}
	sess, err := browser.LoginAs(ctx, e.Driver, nickname, e.Catalog, e.Login)
	if err != nil {
		return err
	}
	defer func() {
		// the phase context may be expired already, logout still has to clear the storage
		if err := sess.Logout(context.WithoutCancel(ctx)); err != nil {
			e.Log.Warn("%v", err)
		}
	}()
	return fn(sess)
}

func (e *Env) click(ctx context.Context, selector string) error {
	if err := e.Driver.Click(ctx, selector, e.Timeouts.Action); err != nil {
		return &browser.ElementNotFoundError{Selector: selector, Timeout: e.Timeouts.Action, Err: err}
	}
	return nil
}

func (e *Env) waitVisible(ctx context.Context, selector string) error {
	if err := e.Driver.WaitVisible(ctx, selector, e.Timeouts.Expect); err != nil {
		return &browser.ElementNotFoundError{Selector: selector, Timeout: e.Timeouts.Expect, Err: err}
	}
	return nil
}

// awaitListed polls the role's created-blocks listing until title is listed (want) or gone (!want).
func (e *Env) awaitListed(ctx context.Context, role, title string, want bool) error {
	var found browser.Record
	err := browser.Poll(ctx, e.ListTimeout, e.ListPoll, func() (bool, error) {
		records, err := browser.ExtractBlocks(ctx, e.Driver, role, e.Extract)
		if err != nil {
			return false, err
		}
		rec, ok := browser.FindBlock(records, title)
		found = rec
		return ok == want, nil
	})
	switch {
	case err != nil && want:
		return fmt.Errorf("block %q not listed for %s: %w", title, role, err)
	case err != nil:
		return fmt.Errorf("block %q still listed for %s: %w", title, role, err)
	case want:
		e.Log.Print("block %q listed for %s: preguntas=%s temas=%s usuarios=%s",
			found.Title, role, found.Questions, found.Topics, found.Users)
	default:
		e.Log.Print("block %q not listed for %s", title, role)
	}
	return nil
}
