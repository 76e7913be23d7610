package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"declower/internal/lower"
	"declower/internal/rt"
)

const maxNameWidth = 32

type dumpStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	plain   bool
}

func newDumpStyles(useColor bool) dumpStyles {
	return dumpStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		plain:   !useColor,
	}
}

func (s dumpStyles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

var kindColors = map[rt.EntryKind]*color.Color{
	rt.EntryValue:       color.New(color.FgGreen),
	rt.EntryClass:       color.New(color.FgMagenta),
	rt.EntryPlaceholder: color.New(color.FgYellow),
	rt.EntryAccessor:    color.New(color.FgCyan),
}

func colorKind(k rt.EntryKind) string {
	if c, ok := kindColors[k]; ok {
		return c.Sprint(k.String())
	}
	return k.String()
}

// renderUnit печатает таблицу членов, действия инициализатора и публичную
// поверхность одного юнита.
func renderUnit(w io.Writer, path string, u *lower.FileUnit, styles dumpStyles) {
	pkg := u.Path
	if pkg == "" {
		pkg = "<root>"
	}
	fmt.Fprintln(w, styles.render(styles.title, fmt.Sprintf("%s (package %s)", path, pkg)))

	entries := u.Entries()
	width := 0
	for _, e := range entries {
		width = max(width, runewidth.StringWidth(fitName(e.Name)))
	}

	fmt.Fprintln(w, styles.render(styles.heading, "members"))
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(fitName(e.Name), width), colorKind(e.Kind))
	}

	fmt.Fprintln(w, styles.render(styles.heading, "initializer"))
	if len(u.Actions) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	numWidth := len(strconv.Itoa(len(u.Actions)))
	for i, a := range u.Actions {
		fmt.Fprintf(w, "  %*d. %s\n", numWidth, i+1, a)
	}

	fmt.Fprintln(w, styles.render(styles.heading, "public"))
	if u.Public.Len() == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		fmt.Fprintf(w, "  %s\n", strings.Join(u.Public.Names(), ", "))
	}
}

func fitName(name string) string {
	if runewidth.StringWidth(name) <= maxNameWidth {
		return name
	}
	return runewidth.Truncate(name, maxNameWidth, "...")
}
