// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report prints batch outcomes as status lines followed by a
// summary. Output is coloured only when it goes to a terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Styles holds the label styles used for each status.
type Styles struct {
	Converted lipgloss.Style
	Skipped   lipgloss.Style
	Failed    lipgloss.Style
	Muted     lipgloss.Style
	Summary   lipgloss.Style
}

// ColorStyles returns the styles used on a terminal.
func ColorStyles() Styles {
	return Styles{
		Converted: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Skipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Failed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Summary:   lipgloss.NewStyle().Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Converted: s, Skipped: s, Failed: s, Muted: s, Summary: s}
}

// Printer writes status lines to w.
type Printer struct {
	w      io.Writer
	styles Styles
	root   string
}

// New returns a Printer for w, coloured when w is a terminal.
func New(w io.Writer) *Printer {
	styles := PlainStyles()
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		styles = ColorStyles()
	}
	return NewWithStyles(w, styles)
}

// NewWithStyles returns a Printer using the given styles.
func NewWithStyles(w io.Writer, styles Styles) *Printer {
	return &Printer{w: w, styles: styles}
}

// Outcome prints one status line.
func (p *Printer) Outcome(o types.Outcome) {
	src := p.rel(o.Source)
	switch o.Status {
	case types.OutcomeConverted:
		fmt.Fprintf(p.w, "%s %s -> %s\n", p.styles.Converted.Render("converted:"), src, p.rel(o.Dest))
	case types.OutcomeSkipped:
		fmt.Fprintf(p.w, "%s %s %s\n", p.styles.Skipped.Render("skipped:"), src, p.styles.Muted.Render("(already exists)"))
	default:
		fmt.Fprintf(p.w, "%s  %s (%s: %s)\n", p.styles.Failed.Render("failed:"), src, o.ErrorKind, o.Message)
	}
}

// Batch prints every outcome of res followed by the summary line.
func (p *Printer) Batch(res types.BatchResult, elapsed time.Duration) {
	p.root = res.Root
	defer func() { p.root = "" }()

	for _, o := range res.Outcomes {
		p.Outcome(o)
	}
	summary := fmt.Sprintf("Batch summary: %d converted, %d skipped, %d failed (total: %d)",
		res.Converted(), res.Skipped(), res.Failed(), res.Total())
	fmt.Fprintf(p.w, "\n%s %s\n", p.styles.Summary.Render(summary),
		p.styles.Muted.Render(fmt.Sprintf("in %s", elapsed.Round(time.Millisecond))))
}

// Error prints a failure that happened outside a batch, such as a single
// file conversion or a watch event.
func (p *Printer) Error(src string, err error) {
	p.Outcome(types.Outcome{
		Source:    src,
		Status:    types.OutcomeFailed,
		ErrorKind: kindLabel(err),
		Message:   err.Error(),
	})
}

// Targets prints the destinations reachable from source on one line.
func (p *Printer) Targets(source types.FormatTag, targets []types.FormatTag) {
	fmt.Fprintf(p.w, "%s ->", p.styles.Summary.Render(source.Ext()))
	if len(targets) == 0 {
		fmt.Fprintf(p.w, " %s\n", p.styles.Muted.Render("(none)"))
		return
	}
	for _, t := range targets {
		fmt.Fprintf(p.w, " %s", t.Ext())
	}
	fmt.Fprintln(p.w)
}

func (p *Printer) rel(path string) string {
	if p.root == "" || path == "" {
		return path
	}
	if r, err := filepath.Rel(p.root, path); err == nil {
		return r
	}
	return path
}

func kindLabel(err error) string {
	if k := convert.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
