// Package clifmt renders the CLI listing surfaces: rune-aware two-column
// tables sized to the terminal, plus the shared ANSI style helpers.
package clifmt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultTableWidth = 100
	minDetailWidth    = 36
)

type Row struct {
	Name   string
	Detail string
}

// Table is a titled name/detail listing. The zero value prints headers "NAME"
// and "DETAILS" and a stock empty-state line.
type Table struct {
	Title        string
	NameHeader   string
	DetailHeader string
	Empty        string
	Rows         []Row
}

func (t Table) Print(out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	if title := strings.TrimSpace(t.Title); title != "" {
		fmt.Fprintln(out, Headerf("%s (%d)", title, len(t.Rows)))
	}

	if len(t.Rows) == 0 {
		empty := strings.TrimSpace(t.Empty)
		if empty == "" {
			empty = "No entries."
		}
		fmt.Fprintln(out, Warn(empty))
		return
	}

	nameHeader := strings.TrimSpace(t.NameHeader)
	if nameHeader == "" {
		nameHeader = "NAME"
	}
	detailHeader := strings.TrimSpace(t.DetailHeader)
	if detailHeader == "" {
		detailHeader = "DETAILS"
	}

	nameWidth := utf8.RuneCountInString(nameHeader)
	for _, row := range t.Rows {
		if w := utf8.RuneCountInString(row.Name); w > nameWidth {
			nameWidth = w
		}
	}
	detailWidth := detailColumnWidth(out, nameWidth)

	fmt.Fprintf(out, "%s  %s\n", Key(padRight(nameHeader, nameWidth)), Key(detailHeader))
	fmt.Fprintf(out, "%s  %s\n", Dim(strings.Repeat("-", nameWidth)), Dim(strings.Repeat("-", detailWidth)))

	for _, row := range t.Rows {
		lines := wrapRunes(strings.TrimSpace(row.Detail), detailWidth)
		fmt.Fprintf(out, "%s  %s\n", Success(padRight(row.Name, nameWidth)), lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(out, "%s  %s\n", strings.Repeat(" ", nameWidth), line)
		}
	}
}

func detailColumnWidth(out io.Writer, nameWidth int) int {
	width := defaultTableWidth
	if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if terminalWidth, _, err := term.GetSize(int(file.Fd())); err == nil && terminalWidth > 0 {
			width = terminalWidth
		}
	}

	detailWidth := width - nameWidth - 2
	if detailWidth < minDetailWidth {
		detailWidth = minDetailWidth
	}
	return detailWidth
}

func padRight(s string, width int) string {
	missing := width - utf8.RuneCountInString(s)
	if missing <= 0 {
		return s
	}
	return s + strings.Repeat(" ", missing)
}

// wrapRunes word-wraps to a rune width, splitting words longer than a line.
// Always returns at least one line.
func wrapRunes(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	if width <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	lines := make([]string, 0, len(words))
	current := ""

	flush := func() {
		if current == "" {
			return
		}
		lines = append(lines, current)
		current = ""
	}

	for _, word := range words {
		for utf8.RuneCountInString(word) > width {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
