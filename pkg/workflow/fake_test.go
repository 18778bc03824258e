package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/playtest-app/phaserun/pkg/browser/mocks"
	"github.com/playtest-app/phaserun/pkg/scenario"
)

const fakeBase = "https://playtest.example.com/"

var hasText = regexp.MustCompile(`has-text\("([^"]+)"\)`)

// fakeServer is the shared state of the hosted app: blocks survive across pages.
type fakeServer struct {
	mu      sync.Mutex
	catalog *scenario.Catalog
	blocks  []string        // created block titles, in creation order
	loaded  map[string]bool // "<nickname>/<title>" loaded by a player
	health  int
	pages   []*fakePage
}

func newFakeServer() *fakeServer {
	return &fakeServer{catalog: scenario.PresetCatalog(), loaded: map[string]bool{}, health: 200}
}

func (s *fakeServer) hasBlock(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.blocks, title)
}

// open is a PageOpener serving pages of this server.
func (s *fakeServer) open(phase string) (Page, error) {
	p := &fakePage{server: s, phase: phase, fields: map[string]string{}}
	p.DriverMock = p.driver()
	s.mu.Lock()
	s.pages = append(s.pages, p)
	s.mu.Unlock()
	return p, nil
}

// fakePage is one browser context: its own url, storage and form state.
type fakePage struct {
	*mocks.DriverMock
	server *fakeServer
	phase  string

	url     string
	token   string
	user    string
	fields  map[string]string
	pending []string
	shots   []string

	closed    bool
	keepVideo bool
}

func (p *fakePage) Close(keepVideo bool) (string, error) {
	p.closed, p.keepVideo = true, keepVideo
	if keepVideo {
		return "/videos/" + p.phase + ".webm", nil
	}
	return "", nil
}

func titleIn(selector string) string {
	m := hasText.FindAllStringSubmatch(selector, -1)
	if len(m) == 0 {
		return ""
	}
	return m[len(m)-1][1]
}

func (p *fakePage) driver() *mocks.DriverMock {
	s := p.server
	return &mocks.DriverMock{
		GotoFunc: func(_ context.Context, url string, _ time.Duration) error {
			p.url = url
			return nil
		},
		EvaluateFunc: func(_ context.Context, script string) (any, error) {
			if strings.Contains(script, "removeItem") {
				p.token, p.user = "", ""
				return true, nil
			}
			return p.token, nil
		},
		FillFunc: func(_ context.Context, selector, value string, _ time.Duration) error {
			p.fields[selector] = value
			return nil
		},
		URLFunc: func() string { return p.url },
		TextContentFunc: func(context.Context, string, time.Duration) (string, error) {
			a, _ := s.catalog.Lookup(p.user)
			return strings.ToUpper(a.Role[:1]) + a.Role[1:], nil
		},
		WaitVisibleFunc: func(_ context.Context, selector string, _ time.Duration) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			title := titleIn(selector)
			switch {
			case title == "":
				return nil
			case strings.Contains(selector, ".loaded-block"):
				if s.loaded[p.user+"/"+title] {
					return nil
				}
			case slices.Contains(s.blocks, title):
				return nil
			}
			return fmt.Errorf("timeout waiting for %s", selector)
		},
		ClickFunc: func(_ context.Context, selector string, _ time.Duration) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			switch {
			case strings.HasPrefix(selector, `button[type="submit"]`):
				a, ok := s.catalog.Lookup(p.fields[`input[name="nickname"]`])
				if ok && a.Password == p.fields[`input[name="password"]`] {
					p.user, p.token, p.url = a.Nickname, "tok-"+a.Nickname, fakeBase+a.Panel+".html"
				}
			case selector == reviewButton:
			case strings.Contains(selector, "Guardar todas las preguntas"):
				for _, f := range p.pending {
					s.blocks = append(s.blocks, strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))
				}
				p.pending = nil
			case strings.Contains(selector, `button:has-text("Cargar")`) && titleIn(selector) != "":
				title := titleIn(strings.SplitN(selector, " button", 2)[0])
				if !slices.Contains(s.blocks, title) {
					return fmt.Errorf("no load control for %s", title)
				}
				s.loaded[p.user+"/"+title] = true
			case strings.Contains(selector, `button:has-text("Eliminar")`):
				title := titleIn(strings.SplitN(selector, " button", 2)[0])
				idx := slices.Index(s.blocks, title)
				if idx < 0 {
					return fmt.Errorf("no delete control for %s", title)
				}
				s.blocks = slices.Delete(s.blocks, idx, idx+1)
			}
			return nil
		},
		CountFunc: func(_ context.Context, selector string) (int, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if strings.Contains(selector, ".bc-block-card") {
				return len(s.blocks), nil
			}
			return 0, nil
		},
		InnerHTMLFunc: func(context.Context, string, time.Duration) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			var b strings.Builder
			for _, t := range s.blocks {
				fmt.Fprintf(&b, `<div class="bc-block-card"><div class="bc-block-title">%s</div>`+
					`<span><strong>Preguntas:</strong> 10</span><span><strong>Temas:</strong> 2</span></div>`, t)
			}
			return b.String(), nil
		},
		SetInputFilesFunc: func(_ context.Context, _ string, files []string, _ time.Duration) error {
			p.pending = files
			return nil
		},
		DownloadFunc: func(_ context.Context, selector, dir string, _ time.Duration) (string, error) {
			title := titleIn(strings.SplitN(selector, " ", 2)[0])
			return filepath.Join(dir, title+".txt"), nil
		},
		GetFunc: func(context.Context, string, time.Duration) (int, error) { return s.health, nil },
		ScreenshotFunc: func(path string) error {
			p.shots = append(p.shots, path)
			return nil
		},
	}
}

type logLine struct {
	warn bool
	text string
}

// recLogger records progress lines.
type recLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recLogger) Print(format string, args ...any) { l.add(false, format, args...) }
func (l *recLogger) Warn(format string, args ...any)  { l.add(true, format, args...) }

func (l *recLogger) add(warn bool, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{warn: warn, text: fmt.Sprintf(format, args...)})
}

func (l *recLogger) text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, ln := range l.lines {
		out = append(out, ln.text)
	}
	return strings.Join(out, "\n")
}
