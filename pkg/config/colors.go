package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// ColorConfig holds output colors as "r,g,b" strings, ready for color.RGB parsing.
type ColorConfig struct {
	Phase     string
	Pass      string
	Fail      string
	Blocked   string
	Skip      string
	Warn      string
	Error     string
	Timestamp string
	Info      string
}

// keys binds every color_* key to its field.
func (c *ColorConfig) keys() map[string]*string {
	return map[string]*string{
		"color_phase":     &c.Phase,
		"color_pass":      &c.Pass,
		"color_fail":      &c.Fail,
		"color_blocked":   &c.Blocked,
		"color_skip":      &c.Skip,
		"color_warn":      &c.Warn,
		"color_error":     &c.Error,
		"color_timestamp": &c.Timestamp,
		"color_info":      &c.Info,
	}
}

// loadColors layers the embedded defaults, the global file and the local file, later
// layers win key by key. missing files are skipped.
func loadColors(defaults fs.FS, globalPath, localPath string) (ColorConfig, error) {
	var cc ColorConfig
	data, err := fs.ReadFile(defaults, "defaults/config")
	if err != nil {
		return cc, fmt.Errorf("read embedded defaults: %w", err)
	}
	if err := cc.apply(data); err != nil {
		return cc, fmt.Errorf("embedded defaults: %w", err)
	}
	for _, path := range []string{globalPath, localPath} {
		data, err := readOptional(path)
		if err != nil {
			return ColorConfig{}, err
		}
		if err := cc.apply(data); err != nil {
			return ColorConfig{}, fmt.Errorf("colors in %s: %w", path, err)
		}
	}
	return cc, nil
}

// apply overwrites the fields whose keys carry a value in data.
func (c *ColorConfig) apply(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	// inline comments stay off, "#" starts every color value
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	section := f.Section("")
	for key, field := range c.keys() {
		raw := stringKey(section, key)
		if raw == "" {
			continue
		}
		rgb, err := parseColor(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*field = rgb
	}
	return nil
}

// parseColor turns "#rrggbb" or the short "#rgb" form into "r,g,b".
func parseColor(s string) (string, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return "", fmt.Errorf("color %q must start with #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", fmt.Errorf("color %q is not hex", s)
	}
	return fmt.Sprintf("%d,%d,%d", v>>16&0xff, v>>8&0xff, v&0xff), nil
}

// readOptional reads a config file, a missing file or an empty path reads as nothing.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // config paths come from options
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return data, nil
}
