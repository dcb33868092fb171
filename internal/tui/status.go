package tui

import "fmt"

// StatusBar renders the top status bar.
func StatusBar(source string, visible, total, width int) string {
	text := fmt.Sprintf("  watchfilter - %s - %d/%d rows  ", source, visible, total)
	return statusBarStyle.Width(width).Render(text)
}
