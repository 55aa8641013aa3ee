package ui

import tea "github.com/charmbracelet/bubbletea"

type keyAction int

const (
	keyNone keyAction = iota
	keyQuit
	keyFreeze
	keyPanLeft
	keyPanRight
	keyPageLeft
	keyPageRight
	keyHome
	keyEnd
	keyZoomIn
	keyZoomOut
	keyConsole
	keyHelp
	keyIntervalUp
	keyIntervalDown
)

// matchKey maps a key message to an action. Unbound keys return keyNone.
func matchKey(msg tea.KeyMsg) keyAction {
	switch msg.String() {
	case "q", "ctrl+c":
		return keyQuit
	case " ", "space":
		return keyFreeze
	case "left", "h":
		return keyPanLeft
	case "right", "l":
		return keyPanRight
	case "pgup":
		return keyPageLeft
	case "pgdown":
		return keyPageRight
	case "home", "g":
		return keyHome
	case "end", "G":
		return keyEnd
	case "+", "=":
		return keyZoomIn
	case "-", "_":
		return keyZoomOut
	case "c":
		return keyConsole
	case "?":
		return keyHelp
	case "[":
		return keyIntervalUp
	case "]":
		return keyIntervalDown
	}
	return keyNone
}
