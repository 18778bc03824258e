package browser

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtest-app/phaserun/pkg/browser/mocks"
	"github.com/playtest-app/phaserun/pkg/scenario"
)

const testBase = "https://playtest.example.com/"

// fakeLoginPage simulates the login form: a click on submit moves the page to
// the panel when the password matches, otherwise the page stays on the root.
type fakeLoginPage struct {
	mu       sync.Mutex
	url      string
	fields   map[string]string
	password string
	panel    string
	marker   string
	token    string
}

func newFakeLoginPage(password, panel, marker string) (*fakeLoginPage, *mocks.DriverMock) {
	p := &fakeLoginPage{fields: map[string]string{}, password: password, panel: panel, marker: marker}
	d := &mocks.DriverMock{
		GotoFunc: func(_ context.Context, url string, _ time.Duration) error {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.url = url
			return nil
		},
		WaitVisibleFunc: func(context.Context, string, time.Duration) error { return nil },
		FillFunc: func(_ context.Context, selector, value string, _ time.Duration) error {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.fields[selector] = value
			return nil
		},
		ClickFunc: func(_ context.Context, selector string, _ time.Duration) error {
			p.mu.Lock()
			defer p.mu.Unlock()
			if selector == submitControl && p.fields[passwordInput] == p.password {
				p.url = testBase + p.panel + ".html"
				p.token = "tok"
			}
			return nil
		},
		URLFunc: func() string {
			p.mu.Lock()
			defer p.mu.Unlock()
			return p.url
		},
		TextContentFunc: func(context.Context, string, time.Duration) (string, error) { return p.marker, nil },
		EvaluateFunc: func(_ context.Context, script string) (any, error) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if script == logoutScript {
				p.token = ""
				return true, nil
			}
			return p.token, nil
		},
	}
	return p, d
}

func testLoginOpts() LoginOptions {
	return LoginOptions{
		BaseURL:           testBase,
		MarkerSelector:    ".user-role",
		LeaveLoginTimeout: 100 * time.Millisecond,
		PollInterval:      5 * time.Millisecond,
	}
}

var andGar = scenario.Actor{Nickname: "AndGar", Password: "1002", Role: "creador", Panel: "creators-panel-content"}

func TestLogin(t *testing.T) {
	page, d := newFakeLoginPage("1002", "creators-panel-content", " Creador ")

	sess, err := Login(context.Background(), d, andGar, testLoginOpts())
	require.NoError(t, err)
	assert.Equal(t, "Creador", sess.Role)
	assert.Equal(t, "AndGar", sess.Actor.Nickname)
	assert.True(t, sess.Active())
	assert.Same(t, d, sess.Driver())
	assert.Equal(t, "AndGar", page.fields[nicknameInput])
	assert.Equal(t, "1002", page.fields[passwordInput])
	require.Len(t, d.GotoCalls(), 1)
	assert.Equal(t, testBase, d.GotoCalls()[0].Url)
	assert.Equal(t, 15*time.Second, d.GotoCalls()[0].Timeout)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, d := newFakeLoginPage("other", "creators-panel-content", "Creador")

	_, err := Login(context.Background(), d, andGar, testLoginOpts())
	require.Error(t, err)
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "redirect", authErr.Stage)
	assert.Equal(t, "AndGar", authErr.Actor)
	assert.ErrorIs(t, err, ErrConditionNotMet)
	assert.Contains(t, err.Error(), "creators-panel-content")
}

func TestLogin_WrongPanel(t *testing.T) {
	_, d := newFakeLoginPage("1002", "players-panel", "Creador")

	_, err := Login(context.Background(), d, andGar, testLoginOpts())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "redirect", authErr.Stage)
}

func TestLogin_FormMissing(t *testing.T) {
	_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
	d.WaitVisibleFunc = func(_ context.Context, selector string, _ time.Duration) error {
		if selector == nicknameInput {
			return errors.New("timeout 10000ms exceeded")
		}
		return nil
	}

	_, err := Login(context.Background(), d, andGar, testLoginOpts())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login form", authErr.Stage)
	var nf *ElementNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, nicknameInput, nf.Selector)
	assert.Equal(t, 10*time.Second, nf.Timeout)
	assert.Empty(t, d.FillCalls())
}

func TestLogin_StageFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(d *mocks.DriverMock)
		stage string
	}{
		{name: "navigation", stage: "navigate", setup: func(d *mocks.DriverMock) {
			d.GotoFunc = func(context.Context, string, time.Duration) error { return boom }
		}},
		{name: "fill", stage: "login form", setup: func(d *mocks.DriverMock) {
			d.FillFunc = func(context.Context, string, string, time.Duration) error { return boom }
		}},
		{name: "submit", stage: "submit", setup: func(d *mocks.DriverMock) {
			d.ClickFunc = func(context.Context, string, time.Duration) error { return boom }
		}},
		{name: "marker missing", stage: "session marker", setup: func(d *mocks.DriverMock) {
			d.WaitVisibleFunc = func(_ context.Context, selector string, _ time.Duration) error {
				if selector == ".user-role" {
					return boom
				}
				return nil
			}
		}},
		{name: "marker text", stage: "session marker", setup: func(d *mocks.DriverMock) {
			d.TextContentFunc = func(context.Context, string, time.Duration) (string, error) { return "", boom }
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
			tc.setup(d)
			_, err := Login(context.Background(), d, andGar, testLoginOpts())
			var authErr *AuthenticationError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tc.stage, authErr.Stage)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestLogin_RoleMismatch(t *testing.T) {
	_, d := newFakeLoginPage("1002", "creators-panel-content", "Jugador")

	_, err := Login(context.Background(), d, andGar, testLoginOpts())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "session marker", authErr.Stage)
	assert.Contains(t, err.Error(), `want role "creador"`)
}

func TestLogin_NoMarkerNoPanel(t *testing.T) {
	_, d := newFakeLoginPage("1003", "jugadores-panel-gaming", "")
	opts := testLoginOpts()
	opts.MarkerSelector = ""

	sess, err := Login(context.Background(), d, scenario.Actor{Nickname: "JaiGon", Password: "1003"}, opts)
	require.NoError(t, err)
	assert.Empty(t, sess.Role)
	assert.Empty(t, d.TextContentCalls())
}

func TestLogin_CanceledContext(t *testing.T) {
	_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Login(ctx, d, andGar, testLoginOpts())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, d.GotoCalls())
}

func TestLogin_RequiresLogoutBeforeRelogin(t *testing.T) {
	_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
	ctx := context.Background()

	sess, err := Login(ctx, d, andGar, testLoginOpts())
	require.NoError(t, err)

	_, err = Login(ctx, d, andGar, testLoginOpts())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "session", authErr.Stage)

	require.NoError(t, sess.Logout(ctx))
	assert.False(t, sess.Active())

	_, err = Login(ctx, d, andGar, testLoginOpts())
	require.NoError(t, err)
}

func TestSession_Logout(t *testing.T) {
	_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
	ctx := context.Background()
	sess, err := Login(ctx, d, andGar, testLoginOpts())
	require.NoError(t, err)

	require.NoError(t, sess.Logout(ctx))
	require.NoError(t, sess.Logout(ctx), "second logout is a no-op")

	var logouts int
	for _, c := range d.EvaluateCalls() {
		if c.Script == logoutScript {
			logouts++
		}
	}
	assert.Equal(t, 1, logouts)
	for _, key := range []string{"playtest_auth_token", "authToken", "user_data", "user_role", "sessionStorage.clear()"} {
		assert.Contains(t, logoutScript, key)
	}
}

func TestSession_LogoutError(t *testing.T) {
	_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
	ctx := context.Background()
	sess, err := Login(ctx, d, andGar, testLoginOpts())
	require.NoError(t, err)

	d.EvaluateFunc = func(context.Context, string) (any, error) { return nil, errors.New("page closed") }
	err = sess.Logout(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logout AndGar")
	assert.True(t, sess.Active())
}

func TestLoginAs(t *testing.T) {
	catalog := scenario.PresetCatalog()

	t.Run("known actor", func(t *testing.T) {
		_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
		sess, err := LoginAs(context.Background(), d, "AndGar", catalog, testLoginOpts())
		require.NoError(t, err)
		assert.Equal(t, "AndGar", sess.Actor.Nickname)
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, d := newFakeLoginPage("1002", "creators-panel-content", "Creador")
		_, err := LoginAs(context.Background(), d, "Nobody", catalog, testLoginOpts())
		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "lookup", authErr.Stage)
		assert.True(t, strings.Contains(err.Error(), "AndGar"))
		assert.Empty(t, d.GotoCalls())
	})
}

func TestOnLoginRoute(t *testing.T) {
	tests := []struct {
		current string
		want    bool
	}{
		{current: "https://playtest.example.com/", want: true},
		{current: "https://playtest.example.com", want: true},
		{current: "https://playtest.example.com/index.html", want: true},
		{current: "https://playtest.example.com/login?next=x", want: true},
		{current: "about:blank", want: true},
		{current: "", want: true},
		{current: "https://playtest.example.com/creators-panel-content.html", want: false},
		{current: "https://other.example.com/", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.current, func(t *testing.T) {
			assert.Equal(t, tc.want, onLoginRoute(tc.current, testBase))
		})
	}
}

func TestPoll(t *testing.T) {
	t.Run("eventually true", func(t *testing.T) {
		n := 0
		err := Poll(context.Background(), time.Second, time.Millisecond, func() (bool, error) {
			n++
			return n >= 3, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("timeout keeps last error", func(t *testing.T) {
		err := Poll(context.Background(), 20*time.Millisecond, time.Millisecond, func() (bool, error) {
			return false, errors.New("still loading")
		})
		require.ErrorIs(t, err, ErrConditionNotMet)
		assert.Contains(t, err.Error(), "still loading")
	})
}
