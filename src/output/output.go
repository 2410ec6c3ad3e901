// Package output prints lint results and builds the process logger.
package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/sofmeright/gitlint/src/rules"
)

// Display writes lint results to Stderr, gated by verbosity. Verbosity 0
// prints nothing.
type Display struct {
	Verbosity int
	Stderr    io.Writer
	Color     bool
}

// NewDisplay returns a display that styles its output when stderr is a terminal.
func NewDisplay(verbosity int, stderr io.Writer) *Display {
	return &Display{
		Verbosity: verbosity,
		Stderr:    stderr,
		Color:     UseColor(stderr),
	}
}

// write prints msg at exactly level, or at level and above unless exact.
func (d *Display) write(level int, exact bool, msg string) {
	if d.Verbosity == level || (!exact && d.Verbosity > level) {
		fmt.Fprintln(d.Stderr, msg)
	}
}

// DisplayHeader prints a commit header to stderr at any verbosity above 0.
// Leading newlines are kept outside the styled text.
func (d *Display) DisplayHeader(text string) {
	prefix := ""
	for len(text) > 0 && text[0] == '\n' {
		prefix += "\n"
		text = text[1:]
	}
	if d.Color {
		text = lipgloss.NewRenderer(d.Stderr).NewStyle().Bold(true).Render(text)
	}
	d.write(1, false, prefix+text)
}

// DisplayViolations prints one line per violation to stderr. The amount of
// detail depends on the verbosity: 1 prints the rule id, 2 adds the message,
// 3 adds the offending content when there is any.
func (d *Display) DisplayViolations(violations []rules.Violation) {
	for _, v := range violations {
		lineNr := "-"
		if v.LineNr > 0 {
			lineNr = strconv.Itoa(v.LineNr)
		}
		d.write(1, true, fmt.Sprintf("%s: %s", lineNr, v.RuleID))
		d.write(2, true, fmt.Sprintf("%s: %s %s", lineNr, v.RuleID, v.Message))
		if v.Content != "" {
			d.write(3, true, fmt.Sprintf("%s: %s %s: \"%s\"", lineNr, v.RuleID, v.Message, v.Content))
		} else {
			d.write(3, true, fmt.Sprintf("%s: %s %s", lineNr, v.RuleID, v.Message))
		}
	}
}

// UseColor returns true if output written to w should be styled.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
