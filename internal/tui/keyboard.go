package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

var (
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#141414")).Background(lipgloss.Color("#C89A3A"))
)

// renderKeyboard draws a QWERTY letter block with the key for the first
// rune of code highlighted. Codes that do not start with a latin letter
// highlight nothing.
func renderKeyboard(code string) string {
	active, _ := utf8.DecodeRuneInString(code)
	active = unicode.ToLower(active)

	rows := make([]string, len(keyboardRows))
	for i, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, key := range row {
			label := " " + string(unicode.ToUpper(key)) + " "
			if key == active {
				keys = append(keys, activeKeyStyle.Render(label))
			} else {
				keys = append(keys, keyStyle.Render(label))
			}
		}
		rows[i] = strings.Repeat(" ", i) + strings.Join(keys, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
