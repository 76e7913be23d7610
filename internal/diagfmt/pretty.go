package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"declower/internal/diag"
	"declower/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строка контекста с подчёркиванием ^~~~ по Span и Notes в том же формате.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := printer{w: w, fs: fs, opts: opts}
	for i := range bag.Items() {
		d := &bag.Items()[i]
		p.header(d.Primary, p.severity(d.Severity), d.Code.ID()+": "+d.Message)
		p.context(d.Primary)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			p.header(n.Span, p.paint(noteColor, "-->"), "note: "+n.Msg)
			p.context(n.Span)
		}
	}
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *printer) paint(c *color.Color, s string) string {
	if !p.opts.Color {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	noteColor = color.New(color.FgBlue)
	pathColor = color.New(color.Bold)
)

func (p *printer) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.paint(errColor, sev.String())
	case diag.SevWarning:
		return p.paint(warnColor, sev.String())
	}
	return p.paint(infoColor, sev.String())
}

func (p *printer) header(sp source.Span, label, msg string) {
	loc := "<runtime>"
	if hasLocation(sp, p.fs) {
		start, _ := p.fs.Resolve(sp)
		loc = fmt.Sprintf("%s:%d:%d", displayPath(p.fs.Get(sp.File)), start.Line, start.Col)
	}
	fmt.Fprintf(p.w, "%s: %s %s\n", p.paint(pathColor, loc), label, msg)
}

func (p *printer) context(sp source.Span) {
	if !hasLocation(sp, p.fs) {
		return
	}
	f := p.fs.Get(sp.File)
	start, end := p.fs.Resolve(sp)
	// LineIdx хранит смещения '\n', а не начала строк
	lineStart := 0
	if start.Line > 1 {
		lineStart = int(f.LineIdx[start.Line-2]) + 1
	}
	if lineStart > len(f.Content) {
		return
	}
	lineEnd := len(f.Content)
	if i := bytes.IndexByte(f.Content[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	line := string(f.Content[lineStart:lineEnd])

	width := len(line) - int(start.Col-1)
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	width = max(width, 1)

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(p.w, "%s%s\n", gutter, line)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(" ", len(gutter)+int(start.Col-1)), p.paint(errColor, marker))
}
