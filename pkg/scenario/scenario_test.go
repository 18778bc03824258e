package scenario

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtest-app/phaserun/pkg/config"
	"github.com/playtest-app/phaserun/pkg/plan"
)

var registry = []string{"api.health", "auth.login", "block.create", "block.delete", "block.download", "block.load", "block.verify"}

func TestLoad(t *testing.T) {
	sc, err := Load("testdata/scenarios/sequential.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sequential", sc.Name)
	assert.Equal(t, "testdata/scenarios/sequential.yaml", sc.Path)
	assert.True(t, sc.Sequential())
	assert.Equal(t, 1, sc.WorkerCount())
	assert.Equal(t, "creation", sc.Timeouts.Profile)
	assert.Equal(t, 2*time.Minute, sc.Timeouts.Overrides().Test)
	require.Len(t, sc.Projects, 3)

	pl, err := sc.Plan()
	require.NoError(t, err)
	assert.Equal(t, []string{"creation", "loading", "deletion"}, pl.Names())
	assert.Equal(t, []string{"loading", "deletion"}, pl.Dependents("creation"))
}

func TestLoad_NameFromFile(t *testing.T) {
	sc, err := Load("testdata/scenarios/health.yml")
	require.NoError(t, err)
	assert.Equal(t, "health", sc.Name)
	assert.False(t, sc.Sequential())
	assert.Equal(t, 2, sc.WorkerCount())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read scenario")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		errPart string
	}{
		{name: "empty document", doc: "", errPart: "scenario is empty"},
		{name: "unknown key", doc: "name: x\nworkerz: 1\n", errPart: "workerz"},
		{name: "negative workers", doc: "workers: -1\nprojects: [{name: a, steps: [{use: api.health}]}]", errPart: "workers must be non-negative"},
		{name: "negative timeout", doc: "timeouts: {test_ms: -5}\nprojects: [{name: a, steps: [{use: api.health}]}]", errPart: "timeouts.test_ms"},
		{name: "bad base url", doc: "base_url: not-a-url\nprojects: [{name: a, steps: [{use: api.health}]}]", errPart: "invalid base_url"},
		{name: "no projects", doc: "name: x\n", errPart: "no phases declared"},
		{name: "project without steps", doc: "projects: [{name: a}]", errPart: "no steps and no match patterns"},
		{name: "step without use", doc: "projects: [{name: a, steps: [{actor: AndGar}]}]", errPart: "step 1 has no use"},
		{name: "bad match pattern", doc: "projects: [{name: a, match: ['[']}]", errPart: "bad match pattern"},
		{name: "actor without nickname", doc: "actors: [{password: x}]\nprojects: [{name: a, steps: [{use: api.health}]}]", errPart: "actor without nickname"},
		{
			name:    "cycle",
			doc:     "projects:\n  - {name: a, depends_on: [b], steps: [{use: api.health}]}\n  - {name: b, depends_on: [a], steps: [{use: api.health}]}\n",
			errPart: "dependency cycle",
		},
		{name: "unknown prerequisite", doc: "projects: [{name: a, depends_on: [zz], steps: [{use: api.health}]}]", errPart: `undefined phase "zz"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			var cfgErr *plan.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "expected *plan.ConfigurationError, got %T", err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestScenario_Expand(t *testing.T) {
	sc, err := Load("testdata/scenarios/sequential.yaml")
	require.NoError(t, err)
	require.NoError(t, sc.Expand(registry))

	creation, ok := sc.Project("creation")
	require.True(t, ok)
	require.Len(t, creation.Steps, 1)
	st := creation.Steps[0]
	assert.Equal(t, "AndGar", st.Actor, "project actor applied")
	assert.Equal(t, "CE1978", st.Block, "project block applied")
	require.Len(t, st.Files, 1)
	assert.True(t, filepath.IsAbs(st.Files[0]))
	assert.Equal(t, filepath.Join("testdata", "scenarios", "files", "CE1978.txt"), relTail(st.Files[0], 4))

	loading, _ := sc.Project("loading")
	assert.Equal(t, "JaiGon", loading.Steps[0].Actor, "explicit step actor kept")
	assert.Equal(t, "SebDom", loading.Steps[1].Actor)

	// idempotent: a second expansion keeps absolute files as they are
	require.NoError(t, sc.Expand(registry))
	creation, _ = sc.Project("creation")
	assert.Equal(t, st.Files, creation.Steps[0].Files)
}

func TestScenario_ExpandMatch(t *testing.T) {
	sc, err := Parse([]byte("projects:\n  - name: smoke\n    match: ['block.d*', 'api.*']\n    actor: AndGar\n"))
	require.NoError(t, err)
	require.NoError(t, sc.Expand(registry))

	smoke, _ := sc.Project("smoke")
	uses := make([]string, 0, len(smoke.Steps))
	for _, st := range smoke.Steps {
		uses = append(uses, st.Use)
		assert.Equal(t, "AndGar", st.Actor)
	}
	assert.Equal(t, []string{"block.delete", "block.download", "api.health"}, uses)
	assert.Nil(t, smoke.Match)
}

func TestScenario_ExpandErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		errPart string
	}{
		{name: "unknown step", doc: "projects: [{name: a, steps: [{use: block.fly}]}]", errPart: `unknown step "block.fly"`},
		{name: "pattern selects nothing", doc: "projects: [{name: a, match: ['admin.*']}]", errPart: "selects no step"},
		{name: "unknown actor", doc: "projects: [{name: a, actor: Nobody, steps: [{use: auth.login}]}]", errPart: `unknown actor "Nobody"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := Parse([]byte(tc.doc))
			require.NoError(t, err)
			err = sc.Expand(registry)
			require.Error(t, err)
			var cfgErr *plan.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "a", cfgErr.Phase)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestScenario_CustomActor(t *testing.T) {
	doc := `
actors:
  - nickname: Tester
    password: secret
    role: jugador
    panel: jugadores-panel-gaming
  - nickname: AndGar
    password: "2002"
projects:
  - name: a
    actor: Tester
    steps: [{use: auth.login}]
`
	sc, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, sc.Expand(registry))

	cat := sc.Catalog()
	tester, ok := cat.Lookup("Tester")
	require.True(t, ok)
	assert.Equal(t, "secret", tester.Password)

	andgar, ok := cat.Lookup("AndGar")
	require.True(t, ok)
	assert.Equal(t, "2002", andgar.Password, "override replaces password")
	assert.Equal(t, "creador", andgar.Role, "override keeps preset role")
}

func TestScenario_ResolveTimeouts(t *testing.T) {
	cfg := &config.Config{Profiles: map[string]config.Timeouts{
		"default":  {Test: time.Minute, Navigation: 30 * time.Second, Action: 15 * time.Second, Expect: 10 * time.Second},
		"creation": {Test: 5 * time.Minute, Navigation: time.Minute},
	}}

	sc := &Scenario{Timeouts: Timeouts{Profile: "creation", ExpectMs: 20000}}
	got, err := sc.ResolveTimeouts(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.Timeouts{Test: 5 * time.Minute, Navigation: time.Minute, Action: 15 * time.Second, Expect: 20 * time.Second}, got)

	sc = &Scenario{Timeouts: Timeouts{Profile: "nightly"}}
	_, err = sc.ResolveTimeouts(cfg)
	var cfgErr *plan.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "nightly")
}

func TestScenario_Target(t *testing.T) {
	cfg := &config.Config{BaseURL: "https://front.example.com/", BackendURL: "https://back.example.com"}

	base, backend := (&Scenario{}).Target(cfg)
	assert.Equal(t, "https://front.example.com/", base)
	assert.Equal(t, "https://back.example.com", backend)

	base, backend = (&Scenario{BaseURL: "http://localhost:8080/"}).Target(cfg)
	assert.Equal(t, "http://localhost:8080/", base)
	assert.Equal(t, "https://back.example.com", backend)
}

func TestPresetCatalog(t *testing.T) {
	cat := PresetCatalog()
	assert.Equal(t, []string{"AndGar", "JaiGon", "SebDom", "AntLop", "Toñi", "kikejfer", "AdminPrincipal", "admin"}, cat.Nicknames())

	tests := []struct {
		nickname, password, role, panel string
	}{
		{"AndGar", "1002", "creador", "creators-panel-content"},
		{"JaiGon", "1003", "jugador", "jugadores-panel-gaming"},
		{"SebDom", "1004", "jugador", "jugadores-panel-gaming"},
		{"AntLop", "1001", "profesor", "teachers-panel-schedules"},
		{"Toñi", "987", "creador", "creators-panel-content"},
		{"kikejfer", "123", "administrador secundario", "admin-secundario-panel"},
		{"AdminPrincipal", "kikejfer", "administrador principal", "admin-principal-panel"},
		{"admin", "kikejfer", "soporte técnico", "support-dashboard"},
	}
	for _, tc := range tests {
		t.Run(tc.nickname, func(t *testing.T) {
			a, ok := cat.Lookup(tc.nickname)
			require.True(t, ok)
			assert.Equal(t, tc.password, a.Password)
			assert.Equal(t, tc.role, a.Role)
			assert.Equal(t, tc.panel, a.Panel)
			assert.NotEmpty(t, a.PanelSelector)
		})
	}

	_, ok := cat.Lookup("andgar")
	assert.False(t, ok, "nicknames are case-sensitive")
}

// relTail returns the last n elements of p joined back together.
func relTail(p string, n int) string {
	var parts []string
	for range n {
		parts = append([]string{filepath.Base(p)}, parts...)
		p = filepath.Dir(p)
	}
	return filepath.Join(parts...)
}
