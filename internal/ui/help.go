package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	key  string
	desc string
}

var helpEntries = []helpEntry{
	{"space", "freeze / resume live follow"},
	{"arrows h l", "pan one step"},
	{"pgup pgdn", "pan one window"},
	{"home end", "jump to oldest / newest"},
	{"+ -", "zoom in / out"},
	{"wheel", "zoom at pointer"},
	{"drag", "pan, release to fling"},
	{"c", "toggle raw console"},
	{"[ ]", "faster / slower polling"},
	{"?", "toggle this help"},
	{"q", "quit"},
}

func renderHelp(width, height int) string {
	title := styleHelpTitle.Render("  serialscope keys")

	var lines []string
	for _, e := range helpEntries {
		key := styleHelpKey.Render(padRight(e.key, 10))
		lines = append(lines, "  "+key+"  "+styleHelpDesc.Render(e.desc))
	}

	content := title + "\n\n" + strings.Join(lines, "\n") + "\n\n" +
		styleHeaderLabel.Render("  press any key to close")

	box := styleHelpBorder.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
