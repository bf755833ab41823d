package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the qiscreen ASCII art banner and version to w.
// Colours degrade to plain text when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient from dawn yellow to dusk rose, one colour per line
	lines := []struct{ text, color string }{
		{"        _                              ", "#fde68a"},
		{"   __ _(_)___  ___ _ __ ___  ___ _ __  ", "#fcd34d"},
		{"  / _` | / __|/ __| '__/ _ \\/ _ \\ '_ \\ ", "#fbbf24"},
		{" | (_| | \\__ \\ (__| | |  __/  __/ | | |", "#f59e0b"},
		{"  \\__, |_|___/\\___|_|  \\___|\\___|_| |_|", "#f97316"},
		{"     |_|                               ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// PrintShieldAlert writes a highlighted notice that a shield interrupted the session.
func PrintShieldAlert(w io.Writer, label string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(" ⛨ 安全提示 · "+label+" ").Bold().Foreground(out.Color("#ffffff")).Background(out.Color("#b91c1c")))
}

// PrintNotice writes a dimmed one-line status message.
func PrintNotice(w io.Writer, msg string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(msg).Faint())
}
