package progress

import (
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/playtest-app/phaserun/pkg/config"
	"github.com/playtest-app/phaserun/pkg/status"
)

// Colors holds the color set used for stdout output.
type Colors struct {
	phase     *color.Color
	info      *color.Color
	pass      *color.Color
	fail      *color.Color
	blocked   *color.Color
	skip      *color.Color
	warn      *color.Color
	err       *color.Color
	timestamp *color.Color
}

// DefaultColors returns the built-in color set.
func DefaultColors() *Colors {
	return &Colors{
		phase:     color.New(color.FgCyan),
		info:      color.New(color.FgWhite),
		pass:      color.New(color.FgGreen),
		fail:      color.New(color.FgRed),
		blocked:   color.New(color.FgHiRed),
		skip:      color.New(color.FgHiBlack),
		warn:      color.New(color.FgYellow),
		err:       color.New(color.FgRed),
		timestamp: color.New(color.FgWhite),
	}
}

// NewColors builds a color set from config values in "r,g,b" form.
// values that are empty or malformed fall back to the built-in color.
func NewColors(cc config.ColorConfig) *Colors {
	c := DefaultColors()
	pairs := []struct {
		val string
		dst **color.Color
	}{
		{cc.Phase, &c.phase},
		{cc.Info, &c.info},
		{cc.Pass, &c.pass},
		{cc.Fail, &c.fail},
		{cc.Blocked, &c.blocked},
		{cc.Skip, &c.skip},
		{cc.Warn, &c.warn},
		{cc.Error, &c.err},
		{cc.Timestamp, &c.timestamp},
	}
	for _, p := range pairs {
		if col, ok := parseRGB(p.val); ok {
			*p.dst = col
		}
	}
	return c
}

// stage returns the color for a run stage.
func (c *Colors) stage(s status.Stage) *color.Color {
	if s == status.StagePhase {
		return c.phase
	}
	return c.info
}

// outcome returns the color for a phase outcome.
func (c *Colors) outcome(o status.Outcome) *color.Color {
	switch o {
	case status.Passed:
		return c.pass
	case status.Failed:
		return c.fail
	case status.Blocked:
		return c.blocked
	case status.Skipped:
		return c.skip
	default:
		return c.info
	}
}

func parseRGB(s string) (*color.Color, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, false
	}
	var rgb [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return nil, false
		}
		rgb[i] = v
	}
	return color.RGB(rgb[0], rgb[1], rgb[2]), true
}

// Info returns the info color, used for interactive prompts and listings.
func (c *Colors) Info() *color.Color { return c.info }

// Pass returns the color of passed phases.
func (c *Colors) Pass() *color.Color { return c.pass }

// Fail returns the color of failed phases.
func (c *Colors) Fail() *color.Color { return c.fail }
