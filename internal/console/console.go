// Package console renders CLI output: a single-line progress bar and
// width-aware tables.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	clearLine    = "\033[2K"
	defaultWidth = 60
)

// Progress draws export progress. On a terminal it redraws one line in
// place; otherwise it prints one line per update.
type Progress struct {
	w     io.Writer
	tty   bool
	width int
	label string
	last  int
}

// NewProgress writes to f and detects whether f is a terminal.
func NewProgress(f *os.File, label string) *Progress {
	fd := int(f.Fd())
	width := defaultWidth
	tty := term.IsTerminal(fd)
	if tty {
		if w, _, err := term.GetSize(fd); err == nil && w > 20 {
			width = min(w-1, 100)
		}
	}
	return newProgress(f, tty, width, label)
}

func newProgress(w io.Writer, tty bool, width int, label string) *Progress {
	return &Progress{w: w, tty: tty, width: width, label: label, last: -1}
}

func (p *Progress) Update(percent int) {
	percent = max(0, min(100, percent))
	if percent == p.last {
		return
	}
	p.last = percent

	if !p.tty {
		fmt.Fprintf(p.w, "%s %3d%%\n", p.label, percent)
		return
	}
	fmt.Fprintf(p.w, "\r%s%s %s %3d%%", clearLine, p.label, Bar(percent, p.width-runewidth.StringWidth(p.label)-6), percent)
}

// Done ends the redrawn line.
func (p *Progress) Done() {
	if p.tty {
		fmt.Fprintln(p.w)
	}
}

// Bar renders a bracketed bar of the given total width.
func Bar(percent, width int) string {
	inner := max(width-2, 0)
	filled := min(inner, max(0, percent*inner/100))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", inner-filled) + "]"
}

// Table writes rows under headers with columns padded to their display width.
// Columns listed in right are right-aligned.
func Table(w io.Writer, headers []string, rows [][]string, right ...int) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	alignRight := make(map[int]bool, len(right))
	for _, i := range right {
		alignRight[i] = true
	}

	line := func(cells []string) error {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			if alignRight[i] {
				parts[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				parts[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := line(headers); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	if err := line(sep); err != nil {
		return err
	}
	for _, row := range rows {
		if err := line(row); err != nil {
			return err
		}
	}
	return nil
}
