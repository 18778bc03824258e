package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CountState tells a parsed count apart from a missing or garbled one.
type CountState int

// count states
const (
	CountOK CountState = iota
	CountMissing
	CountUnparsable
)

// Count is one numeric stat of a block card.
type Count struct {
	Value int
	State CountState
	Raw   string // text as rendered, empty when missing
}

// Int returns the parsed value, 0 for missing and unparsable counts.
func (c Count) Int() int {
	if c.State != CountOK {
		return 0
	}
	return c.Value
}

// OK reports whether the stat was present and numeric.
func (c Count) OK() bool { return c.State == CountOK }

func (c Count) String() string {
	switch c.State {
	case CountMissing:
		return "missing"
	case CountUnparsable:
		return fmt.Sprintf("unparsable(%q)", c.Raw)
	default:
		return strconv.Itoa(c.Value)
	}
}

// Record is the structured view of one rendered block card.
type Record struct {
	Title     string
	Questions Count
	Topics    Count
	Users     Count
}

// roleView is where a role lists the blocks it created.
type roleView struct {
	tab       string
	container string
}

var roleViews = map[string]roleView{
	"creador":  {tab: "Contenido", container: "#bloques-creados-container"},
	"profesor": {tab: "Recursos", container: "#recursos-bloques-creados-container"},
}

const (
	blockCard    = ".bc-block-card"
	blockTitle   = ".bc-block-title"
	loadingSigns = ".loading, .spinner, .loading-spinner, [aria-busy=\"true\"]"
)

// ExtractOptions bound the wait for a stable container.
type ExtractOptions struct {
	ContainerTimeout time.Duration // container must appear within this, default 10s
	StableTimeout    time.Duration // container must settle within this, default 15s
	PollInterval     time.Duration // default 250ms
}

func (o ExtractOptions) withDefaults() ExtractOptions {
	if o.ContainerTimeout <= 0 {
		o.ContainerTimeout = 10 * time.Second
	}
	if o.StableTimeout <= 0 {
		o.StableTimeout = 15 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 250 * time.Millisecond
	}
	return o
}

// ExtractBlocks opens the created-blocks tab of role ("Creador" or "Profesor"), waits until
// its container stops loading and returns the rendered cards in page order.
func ExtractBlocks(ctx context.Context, d Driver, role string, opts ExtractOptions) ([]Record, error) {
	opts = opts.withDefaults()
	view, ok := roleViews[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, fmt.Errorf("unknown role %q, expected Creador or Profesor", role)
	}

	tab := TabSelector(view.tab)
	if err := d.Click(ctx, tab, opts.ContainerTimeout); err != nil {
		return nil, &ElementNotFoundError{Selector: tab, Timeout: opts.ContainerTimeout, Err: err}
	}
	if err := d.WaitVisible(ctx, view.container, opts.ContainerTimeout); err != nil {
		return nil, &ElementNotFoundError{Selector: view.container, Timeout: opts.ContainerTimeout, Err: err}
	}

	cards := view.container + " " + blockCard
	loading := scoped(view.container, loadingSigns)
	prev := -1
	err := Poll(ctx, opts.StableTimeout, opts.PollInterval, func() (bool, error) {
		busy, err := d.Count(ctx, loading)
		if err != nil {
			return false, err
		}
		n, err := d.Count(ctx, cards)
		if err != nil {
			return false, err
		}
		stable := busy == 0 && n == prev
		prev = n
		return stable, nil
	})
	if err != nil {
		return nil, &ElementNotFoundError{Selector: view.container + " (settled)", Timeout: opts.StableTimeout, Err: err}
	}

	html, err := d.InnerHTML(ctx, view.container, opts.ContainerTimeout)
	if err != nil {
		return nil, &ElementNotFoundError{Selector: view.container, Timeout: opts.ContainerTimeout, Err: err}
	}
	return ParseBlocks(html)
}

// ParseBlocks turns the container markup into records, one per block card.
// stats are read from the inline "<strong>Preguntas:</strong> N" layout first,
// then from .bc-stat-item label/number pairs.
func ParseBlocks(html string) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse blocks markup: %w", err)
	}
	records := []Record{}
	doc.Find(blockCard).Each(func(_ int, card *goquery.Selection) {
		stats := cardStats(card)
		records = append(records, Record{
			Title:     strings.TrimSpace(card.Find(blockTitle).First().Text()),
			Questions: stats.get("preguntas"),
			Topics:    stats.get("temas"),
			Users:     stats.get("usuarios"),
		})
	})
	return records, nil
}

// FindBlock returns the first record whose title contains title.
func FindBlock(records []Record, title string) (Record, bool) {
	for _, r := range records {
		if strings.Contains(r.Title, title) {
			return r, true
		}
	}
	return Record{}, false
}

// TabSelector matches a panel tab button by its caption.
func TabSelector(caption string) string {
	return fmt.Sprintf(`.tab-button:has-text(%q), button:has-text(%q)`, caption, caption)
}

type statTexts map[string]string

func (s statTexts) get(name string) Count {
	raw, ok := s[name]
	if !ok {
		return Count{State: CountMissing}
	}
	return parseCount(raw)
}

func cardStats(card *goquery.Selection) statTexts {
	stats := statTexts{}
	card.Find("span").Each(func(_ int, span *goquery.Selection) {
		strong := span.Find("strong").First()
		if strong.Length() == 0 {
			return
		}
		label := statLabel(strong.Text())
		if label == "" {
			return
		}
		if _, seen := stats[label]; seen {
			return
		}
		stats[label] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(span.Text()), strings.TrimSpace(strong.Text())))
	})
	card.Find(".bc-stat-item").Each(func(_ int, item *goquery.Selection) {
		label := statLabel(item.Find(".bc-stat-label").First().Text())
		if label == "" {
			return
		}
		if _, seen := stats[label]; seen {
			return
		}
		num := item.Find(".bc-stat-number").First()
		if num.Length() == 0 {
			return
		}
		stats[label] = strings.TrimSpace(num.Text())
	})
	return stats
}

// statAliases maps rendered labels to stat names. the user count is labelled by audience:
// "Alumnos" on the Profesor panel, "Jugadores" elsewhere, "Usuarios" in the inline layout.
var statAliases = []struct{ label, name string }{
	{"preguntas", "preguntas"},
	{"temas", "temas"},
	{"usuarios", "usuarios"},
	{"alumnos", "usuarios"},
	{"jugadores", "usuarios"},
}

// statLabel maps a rendered label to one of the known stat names, empty for anything else.
func statLabel(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, a := range statAliases {
		if strings.Contains(t, a.label) {
			return a.name
		}
	}
	return ""
}

func parseCount(raw string) Count {
	text := strings.TrimSpace(raw)
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 || strings.HasPrefix(text, "+") {
		return Count{State: CountUnparsable, Raw: raw}
	}
	return Count{Value: n, State: CountOK, Raw: raw}
}

// scoped prefixes every alternative of a selector list with container.
func scoped(container, selectors string) string {
	parts := strings.Split(selectors, ",")
	for i, p := range parts {
		parts[i] = container + " " + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
