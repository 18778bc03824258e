package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/playtest-app/phaserun/pkg/scenario"
)

const (
	nicknameInput = `input[name="nickname"]`
	passwordInput = `input[name="password"]`
	submitControl = `button[type="submit"], #login-btn, .login-btn`

	// read by Login to refuse a second session in the same context
	authTokenScript = `() => localStorage.getItem('playtest_auth_token') || localStorage.getItem('authToken') || ''`

	logoutScript = `() => {
	localStorage.removeItem('playtest_auth_token');
	localStorage.removeItem('authToken');
	localStorage.removeItem('user_data');
	localStorage.removeItem('user_role');
	sessionStorage.clear();
	return true;
}`
)

// LoginOptions bound each stage of the login flow. zero durations take the defaults below.
type LoginOptions struct {
	BaseURL           string
	MarkerSelector    string // element whose text carries the role, skipped when empty
	NavigationTimeout time.Duration
	FormTimeout       time.Duration
	LeaveLoginTimeout time.Duration
	MarkerTimeout     time.Duration
	PollInterval      time.Duration
}

func (o LoginOptions) withDefaults() LoginOptions {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = 15 * time.Second
	}
	if o.FormTimeout <= 0 {
		o.FormTimeout = 10 * time.Second
	}
	if o.LeaveLoginTimeout <= 0 {
		o.LeaveLoginTimeout = 15 * time.Second
	}
	if o.MarkerTimeout <= 0 {
		o.MarkerTimeout = 10 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 100 * time.Millisecond
	}
	return o
}

// Session is an authenticated actor bound to one page. it replaces the auth keys
// kept in localStorage by the frontend with an explicit value owned by the caller.
type Session struct {
	Actor      scenario.Actor
	Role       string // text of the session marker, empty when no marker is configured
	LoggedInAt time.Time

	driver Driver
	closed bool
}

// Driver returns the page the session is bound to.
func (s *Session) Driver() Driver { return s.driver }

// Active reports whether Logout has not been called yet.
func (s *Session) Active() bool { return !s.closed }

// Logout drops the auth keys from localStorage and clears sessionStorage.
// calling it on a closed session is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	if s.closed {
		return nil
	}
	if _, err := s.driver.Evaluate(ctx, logoutScript); err != nil {
		return fmt.Errorf("logout %s: %w", s.Actor.Nickname, err)
	}
	s.closed = true
	return nil
}

// LoginAs resolves nickname in the catalog and logs in as that actor.
func LoginAs(ctx context.Context, d Driver, nickname string, catalog *scenario.Catalog, opts LoginOptions) (*Session, error) {
	actor, ok := catalog.Lookup(nickname)
	if !ok {
		return nil, &AuthenticationError{Actor: nickname, Stage: "lookup",
			Err: fmt.Errorf("unknown actor, known: %s", strings.Join(catalog.Nicknames(), ", "))}
	}
	return Login(ctx, d, actor, opts)
}

// Login drives the login form for the actor and returns once the page left the login
// route and the session marker shows the actor's role. every failure is an *AuthenticationError.
func Login(ctx context.Context, d Driver, actor scenario.Actor, opts LoginOptions) (*Session, error) {
	opts = opts.withDefaults()
	fail := func(stage string, err error) (*Session, error) {
		return nil, &AuthenticationError{Actor: actor.Nickname, Stage: stage, Err: err}
	}
	if actor.Nickname == "" {
		return fail("lookup", errors.New("empty nickname"))
	}
	if err := ctx.Err(); err != nil {
		return fail("start", err)
	}

	if err := d.Goto(ctx, opts.BaseURL, opts.NavigationTimeout); err != nil {
		return fail("navigate", err)
	}
	if token, err := d.Evaluate(ctx, authTokenScript); err == nil {
		if s, ok := token.(string); ok && s != "" {
			return fail("session", errors.New("a session is already active in this context, log out first"))
		}
	}

	if err := d.WaitVisible(ctx, nicknameInput, opts.FormTimeout); err != nil {
		return fail("login form", &ElementNotFoundError{Selector: nicknameInput, Timeout: opts.FormTimeout, Err: err})
	}
	if err := d.Fill(ctx, nicknameInput, actor.Nickname, opts.FormTimeout); err != nil {
		return fail("login form", err)
	}
	if err := d.Fill(ctx, passwordInput, actor.Password, opts.FormTimeout); err != nil {
		return fail("login form", err)
	}
	if err := d.Click(ctx, submitControl, opts.FormTimeout); err != nil {
		return fail("submit", err)
	}

	err := Poll(ctx, opts.LeaveLoginTimeout, opts.PollInterval, func() (bool, error) {
		current := d.URL()
		if onLoginRoute(current, opts.BaseURL) {
			return false, nil
		}
		return actor.Panel == "" || strings.Contains(current, actor.Panel), nil
	})
	if err != nil {
		if actor.Panel != "" {
			return fail("redirect", fmt.Errorf("expected panel %q, at %s: %w", actor.Panel, d.URL(), err))
		}
		return fail("redirect", fmt.Errorf("still at %s: %w", d.URL(), err))
	}

	sess := &Session{Actor: actor, LoggedInAt: time.Now(), driver: d}
	if opts.MarkerSelector == "" {
		return sess, nil
	}
	if err := d.WaitVisible(ctx, opts.MarkerSelector, opts.MarkerTimeout); err != nil {
		return fail("session marker", &ElementNotFoundError{Selector: opts.MarkerSelector, Timeout: opts.MarkerTimeout, Err: err})
	}
	text, err := d.TextContent(ctx, opts.MarkerSelector, opts.MarkerTimeout)
	if err != nil {
		return fail("session marker", err)
	}
	sess.Role = strings.TrimSpace(text)
	if actor.Role != "" && !strings.Contains(strings.ToLower(sess.Role), strings.ToLower(actor.Role)) {
		return fail("session marker", fmt.Errorf("marker shows %q, want role %q", sess.Role, actor.Role))
	}
	return sess, nil
}

// onLoginRoute reports whether current still points at the login page served from base,
// either the site root or any path mentioning login.
func onLoginRoute(current, base string) bool {
	cu, err := url.Parse(current)
	if err != nil || cu.Host == "" {
		return true
	}
	if strings.Contains(strings.ToLower(cu.Path), "login") {
		return true
	}
	bu, err := url.Parse(base)
	if err != nil || !strings.EqualFold(cu.Host, bu.Host) {
		return false
	}
	switch strings.TrimSuffix(cu.Path, "/") {
	case strings.TrimSuffix(bu.Path, "/"), "/index.html":
		return true
	}
	return false
}
