// Package style renders the human-facing output of the CLI: the target list
// and the end-of-run summary. Colors are used only when writing to a terminal.
package style

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorPass  = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorFail  = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorName  = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	Pass = lipgloss.NewStyle().Bold(true).Foreground(colorPass)
	Fail = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
	Dim  = lipgloss.NewStyle().Foreground(colorMuted)
	Name = lipgloss.NewStyle().Foreground(colorName)
)

// Printer writes styled lines to an output, falling back to plain text when
// the output is not a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: IsTerminal(w)}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Target describes one entry of the target list.
type Target struct {
	Name         string
	Dependencies []string
	HasAction    bool
}

// List prints one line per target with its direct dependencies.
func (p *Printer) List(targets []Target, defaultTarget string) {
	width := 0
	for _, t := range targets {
		width = max(width, len(t.Name))
	}

	for _, t := range targets {
		var notes []string
		if len(t.Dependencies) > 0 {
			notes = append(notes, "depends on "+strings.Join(t.Dependencies, ", "))
		}
		if !t.HasAction {
			notes = append(notes, "no action")
		}
		if t.Name == defaultTarget {
			notes = append(notes, "default")
		}

		if len(notes) == 0 {
			fmt.Fprintf(p.w, "  %s\n", p.render(Name, t.Name))
			continue
		}
		name := p.render(Name, fmt.Sprintf("%-*s", width, t.Name))
		fmt.Fprintf(p.w, "  %s  %s\n", name, p.render(Dim, strings.Join(notes, "; ")))
	}
}

// Summary prints the outcome of running a target. A non-nil err only marks
// the build as failed; reporting it is left to the caller.
func (p *Printer) Summary(target string, status int, err error, elapsed time.Duration) {
	took := p.render(Dim, fmt.Sprintf("(%s)", elapsed.Round(time.Millisecond)))
	switch {
	case err != nil:
		fmt.Fprintf(p.w, "%s %s %s\n", p.render(Fail, "✘ build failed:"), p.render(Name, target), took)
	case status != 0:
		fmt.Fprintf(p.w, "%s %s %s %s\n", p.render(Fail, "✘ build failed:"), p.render(Name, target), p.render(Dim, fmt.Sprintf("status %d", status)), took)
	default:
		fmt.Fprintf(p.w, "%s %s %s\n", p.render(Pass, "✔ build succeeded:"), p.render(Name, target), took)
	}
}
