//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playtest-app/phaserun/pkg/scenario"
)

// fakeApp imitates the hosted PlayTest frontend and the parts of its backend the
// workflow steps touch. state lives in memory and is shared by every browser context.
type fakeApp struct {
	mu      sync.Mutex
	catalog *scenario.Catalog
	blocks  []*fakeBlock
	loads   []string // "<nickname>/<title>" in load order, kept after deletion
	health  int
}

type fakeBlock struct {
	Title     string          `json:"title"`
	Creator   string          `json:"creator"`
	Topics    []string        `json:"topics"`
	Questions int             `json:"questions"`
	Loaded    map[string]bool `json:"-"`
}

func newFakeApp() *fakeApp {
	return &fakeApp{catalog: scenario.PresetCatalog(), health: http.StatusOK}
}

// reset drops all blocks and loads.
func (a *fakeApp) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocks, a.loads, a.health = nil, nil, http.StatusOK
}

func (a *fakeApp) setHealth(code int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.health = code
}

// seed adds a block as if a creator had uploaded it.
func (a *fakeApp) seed(title, creator string, questions int, topics ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocks = append(a.blocks, &fakeBlock{Title: title, Creator: creator, Topics: topics, Questions: questions, Loaded: map[string]bool{}})
}

// loadedBy marks a block as loaded by the given players.
func (a *fakeApp) loadedBy(title string, nicks ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b := a.find(title); b != nil {
		for _, n := range nicks {
			b.Loaded[n] = true
		}
	}
}

func (a *fakeApp) titles() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.blocks))
	for _, b := range a.blocks {
		out = append(out, b.Title)
	}
	return out
}

func (a *fakeApp) loadHistory() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.loads)
}

func (a *fakeApp) find(title string) *fakeBlock {
	for _, b := range a.blocks {
		if b.Title == title {
			return b
		}
	}
	return nil
}

func (a *fakeApp) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", page(loginPage))
	r.Get("/index.html", page(loginPage))
	r.Get("/app.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(appScript))
	})
	r.Get("/{panel}.html", a.panel)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		a.mu.Lock()
		code := a.health
		a.mu.Unlock()
		w.WriteHeader(code)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", a.login)
		r.Get("/blocks", a.listBlocks)
		r.Post("/blocks", a.saveBlocks)
		r.Delete("/blocks/{title}", a.deleteBlock)
		r.Get("/blocks/{title}/export", a.exportBlock)
		r.Get("/loaded", a.listLoaded)
		r.Post("/load", a.loadBlock)
	})
	return r
}

func page(html string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *fakeApp) panel(w http.ResponseWriter, r *http.Request) {
	switch name := chi.URLParam(r, "panel"); name {
	case "creators-panel-content":
		page(creatorPanel)(w, r)
	case "jugadores-panel-gaming":
		page(playerPanel)(w, r)
	case "teachers-panel-schedules", "admin-secundario-panel", "admin-principal-panel", "support-dashboard":
		page(fmt.Sprintf(genericPanel, name))(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (a *fakeApp) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	actor, ok := a.catalog.Lookup(req.Nickname)
	if !ok || actor.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "credenciales incorrectas"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    "tok-" + actor.Nickname,
		"nickname": actor.Nickname,
		"role":     actor.Role,
		"panel":    actor.Panel,
	})
}

type blockView struct {
	Title     string `json:"title"`
	Questions int    `json:"questions"`
	Topics    int    `json:"topics"`
	Users     int    `json:"users"`
}

func (a *fakeApp) listBlocks(w http.ResponseWriter, r *http.Request) {
	creator := r.URL.Query().Get("creator")
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []blockView{}
	for _, b := range a.blocks {
		if creator != "" && b.Creator != creator {
			continue
		}
		out = append(out, blockView{Title: b.Title, Questions: b.Questions, Topics: len(b.Topics), Users: len(b.Loaded)})
	}
	writeJSON(w, http.StatusOK, out)
}

// saveBlocks stores uploaded question files. each file is "<block>_<topic>.txt",
// files of one block are merged into it.
func (a *fakeApp) saveBlocks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Creator string `json:"creator"`
		Files   []struct {
			Block     string `json:"block"`
			Topic     string `json:"topic"`
			Questions int    `json:"questions"`
		} `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Creator == "" || len(req.Files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range req.Files {
		b := a.find(f.Block)
		if b == nil {
			b = &fakeBlock{Title: f.Block, Creator: req.Creator, Loaded: map[string]bool{}}
			a.blocks = append(a.blocks, b)
		}
		if !slices.Contains(b.Topics, f.Topic) {
			b.Topics = append(b.Topics, f.Topic)
		}
		b.Questions += f.Questions
	}
	writeJSON(w, http.StatusCreated, map[string]int{"saved": len(req.Files)})
}

func (a *fakeApp) deleteBlock(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := slices.IndexFunc(a.blocks, func(b *fakeBlock) bool { return b.Title == title })
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such block"})
		return
	}
	a.blocks = slices.Delete(a.blocks, idx, idx+1)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": title})
}

func (a *fakeApp) exportBlock(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	a.mu.Lock()
	b := a.find(title)
	var body string
	if b != nil {
		body = fmt.Sprintf("%s\n%s\n%d preguntas\n", b.Title, strings.Join(b.Topics, "\n"), b.Questions)
	}
	a.mu.Unlock()
	if b == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".txt"))
	_, _ = w.Write([]byte(body))
}

func (a *fakeApp) listLoaded(w http.ResponseWriter, r *http.Request) {
	nick := r.URL.Query().Get("nick")
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []string{}
	for _, b := range a.blocks {
		if b.Loaded[nick] {
			out = append(out, b.Title)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *fakeApp) loadBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nick  string `json:"nick"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	b := a.find(req.Title)
	if b == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such block"})
		return
	}
	b.Loaded[req.Nick] = true
	a.loads = append(a.loads, req.Nick+"/"+req.Title)
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.Title})
}

const loginPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>PlayTest</title></head>
<body>
<form id="login-form">
  <input name="nickname" placeholder="Nickname">
  <input name="password" type="password" placeholder="Contraseña">
  <button type="submit">Entrar</button>
  <p id="login-error" hidden>Credenciales incorrectas</p>
</form>
<script>
document.getElementById('login-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const f = e.target;
  const r = await fetch('/api/login', {method: 'POST', headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({nickname: f.nickname.value, password: f.password.value})});
  if (!r.ok) { document.getElementById('login-error').hidden = false; return; }
  const u = await r.json();
  localStorage.setItem('playtest_auth_token', u.token);
  localStorage.setItem('user_data', u.nickname);
  localStorage.setItem('user_role', u.role);
  location.href = '/' + u.panel + '.html';
});
</script>
</body></html>`

const appScript = `
const api = async (path, opts) => {
  const r = await fetch(path, opts);
  if (!r.ok) throw new Error(path + ': ' + r.status);
  return r.json();
};
const post = (path, body) => api(path, {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(body)});
const esc = (s) => { const d = document.createElement('div'); d.textContent = s; return d.innerHTML; };

function requireSession() {
  if (!localStorage.getItem('playtest_auth_token')) { location.href = '/'; return ''; }
  document.querySelectorAll('.user-role').forEach(el => { el.textContent = localStorage.getItem('user_role'); });
  return localStorage.getItem('user_data');
}

function bindTabs(onShow) {
  document.querySelectorAll('.tab-button').forEach(btn => btn.addEventListener('click', () => {
    document.querySelectorAll('.tab-panel').forEach(p => { p.hidden = p.dataset.tab !== btn.dataset.tab; });
    if (onShow) onShow(btn.dataset.tab);
  }));
}
`

const creatorPanel = `<!doctype html>
<html><head><meta charset="utf-8"><title>Panel Creador</title><script src="/app.js"></script></head>
<body>
<header class="user-header">PlayTest <span class="user-role"></span></header>
<nav>
  <button class="tab-button" data-tab="contenido">Contenido</button>
  <button class="tab-button" data-tab="add">Añadir Preguntas</button>
</nav>
<section class="tab-panel" data-tab="contenido" hidden>
  <div id="bloques-creados-container"></div>
</section>
<section class="tab-panel" data-tab="add" hidden>
  <button class="sub-tab" id="upload-tab">Subir Fichero (.txt)</button>
  <div id="upload-form" hidden>
    <input type="file" multiple accept=".txt">
    <button id="upload-btn">Subir</button>
  </div>
  <div id="review"></div>
</section>
<script>
const nick = requireSession();
const container = document.getElementById('bloques-creados-container');

async function loadCreated() {
  container.innerHTML = '<div class="loading">Cargando bloques...</div>';
  const blocks = await api('/api/blocks?creator=' + encodeURIComponent(nick));
  if (blocks.length === 0) { container.innerHTML = '<p class="empty">No has creado bloques</p>'; return; }
  container.innerHTML = blocks.map(b =>
    '<div class="bc-block-card"><h3 class="bc-block-title">' + esc(b.title) + '</h3>' +
    '<div class="bc-stats">' +
    '<div class="bc-stat-item"><span class="bc-stat-number">' + b.topics + '</span><span class="bc-stat-label">Temas</span></div>' +
    '<div class="bc-stat-item"><span class="bc-stat-number">' + b.questions + '</span><span class="bc-stat-label">Preguntas</span></div>' +
    '<div class="bc-stat-item"><span class="bc-stat-number">' + b.users + '</span><span class="bc-stat-label">Jugadores</span></div>' +
    '</div><button class="delete-btn" data-title="' + esc(b.title) + '">Eliminar</button></div>').join('');
  container.querySelectorAll('.delete-btn').forEach(btn => btn.addEventListener('click', () => confirmDelete(btn.dataset.title)));
}

function confirmDelete(title) {
  const modal = document.createElement('div');
  modal.className = 'modal';
  modal.innerHTML = '<p>¿Eliminar el bloque ' + esc(title) + '?</p><button id="confirm-delete">Confirmar</button>';
  document.body.appendChild(modal);
  modal.querySelector('button').addEventListener('click', async () => {
    await api('/api/blocks/' + encodeURIComponent(title), {method: 'DELETE'});
    modal.remove();
    loadCreated();
  });
}

let pending = [];
document.getElementById('upload-tab').addEventListener('click', () => { document.getElementById('upload-form').hidden = false; });
document.getElementById('upload-btn').addEventListener('click', async () => {
  const input = document.querySelector('#upload-form input[type=file]');
  pending = await Promise.all([...input.files].map(async f => ({name: f.name, text: await f.text()})));
  const review = document.getElementById('review');
  review.innerHTML = '<button id="review-btn">Cargar ' + pending.length + ' archivos para revisar</button>';
  document.getElementById('review-btn').addEventListener('click', () => {
    const files = pending.map(p => {
      const base = p.name.replace(/\.txt$/i, '');
      const sep = base.indexOf('_');
      return {
        block: sep > 0 ? base.slice(0, sep) : base,
        topic: sep > 0 ? base.slice(sep + 1) : base,
        questions: p.text.split('\n').filter(l => l.includes('##')).length,
      };
    });
    review.innerHTML = files.map(f => '<p class="review-item">' + esc(f.block) + ': ' + esc(f.topic) + ' (' + f.questions + ')</p>').join('') +
      '<button id="save-all">Guardar todas las preguntas</button>';
    document.getElementById('save-all').addEventListener('click', async () => {
      await post('/api/blocks', {creator: nick, files});
      review.innerHTML = '<p class="saved">Preguntas guardadas</p>';
    });
  });
});

bindTabs(tab => { if (tab === 'contenido') loadCreated(); });
</script>
</body></html>`

const playerPanel = `<!doctype html>
<html><head><meta charset="utf-8"><title>Panel Jugador</title><script src="/app.js"></script></head>
<body>
<header class="user-header">PlayTest <span class="user-role"></span></header>
<div class="container player-content">
  <nav><button class="tab-button" data-tab="carga">Carga de Bloques</button></nav>
  <section class="tab-panel" data-tab="carga" hidden>
    <h3>Disponibles</h3><div id="available"></div>
    <h3>Cargados</h3><div id="loaded"></div>
  </section>
</div>
<script>
const nick = requireSession();

async function render() {
  const [blocks, loaded] = await Promise.all([api('/api/blocks'), api('/api/loaded?nick=' + encodeURIComponent(nick))]);
  document.getElementById('available').innerHTML = blocks.filter(b => !loaded.includes(b.title)).map(b =>
    '<div class="available-block"><span class="title">' + esc(b.title) + '</span> ' +
    '<button class="load-btn" data-title="' + esc(b.title) + '">Cargar</button></div>').join('');
  document.getElementById('loaded').innerHTML = loaded.map(t =>
    '<div class="loaded-block"><span class="title">' + esc(t) + '</span> ' +
    '<a href="/api/blocks/' + encodeURIComponent(t) + '/export" download>Descargar</a></div>').join('');
  document.querySelectorAll('.load-btn').forEach(btn => btn.addEventListener('click', async () => {
    await post('/api/load', {nick, title: btn.dataset.title});
    render();
  }));
}

bindTabs(() => render());
</script>
</body></html>`

const genericPanel = `<!doctype html>
<html><head><meta charset="utf-8"><title>%[1]s</title><script src="/app.js"></script></head>
<body>
<header class="user-header">PlayTest <span class="user-role"></span></header>
<div class="container"><h1>%[1]s</h1></div>
<script>requireSession();</script>
</body></html>`
