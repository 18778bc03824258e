// Package render builds the run report and renders it for the terminal.
package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown content for terminal display wrapped at width columns,
// 80 when width is not positive. If noColor is true, returns the content unchanged.
func Markdown(content string, noColor bool, width int) (string, error) {
	if noColor {
		return content, nil
	}
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	result, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return result, nil
}
