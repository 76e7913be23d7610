// Package unitdesc loads unit descriptions: TOML files listing the resolved
// top-level declarations of one compilation unit together with tiny
// pre-translated expressions. They stand in for the parser and resolver.
package unitdesc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"declower/internal/diag"
	"declower/internal/source"
)

// ErrInvalid is returned when a description cannot be turned into declarations.
var ErrInvalid = errors.New("invalid unit description")

// Unit is one decoded description file.
type Unit struct {
	Package string `toml:"package"`
	Decls   []Decl `toml:"decl"`

	Path string        `toml:"-"`
	File source.FileID `toml:"-"`
}

// Decl is a [[decl]] table.
type Decl struct {
	Kind       string `toml:"kind"`
	Name       string `toml:"name"`
	Visibility string `toml:"visibility"`
	Predefined bool   `toml:"predefined"`

	// properties
	Simple   *bool `toml:"simple"`
	Init     *Expr `toml:"init"`
	Delegate *Expr `toml:"delegate"`
	Accessor bool  `toml:"accessor"`

	// classes, traits and objects
	Bases       []string        `toml:"bases"`
	Effect      string          `toml:"effect"`
	ClassObject *ClassObject    `toml:"class_object"`
	Functions   map[string]Expr `toml:"functions"`
	Properties  map[string]any  `toml:"properties"`
	Statics     map[string]any  `toml:"statics"`

	// functions
	Body *Expr `toml:"body"`

	Span source.Span `toml:"-"`
}

// ClassObject describes the class object of a class or trait.
type ClassObject struct {
	Effect string `toml:"effect"`
	// Extends names the class the object derives from, as in `object : A()`.
	Extends string `toml:"extends"`
}

// Load reads and decodes the description at path. Problems are reported to
// reporter and returned as an error wrapping ErrInvalid.
func Load(fs *source.FileSet, path string, reporter diag.Reporter) (*Unit, error) {
	id, err := fs.Load(path)
	if err != nil {
		diag.ReportError(reporter, diag.IOLoadFileError, source.Span{}, err.Error()).Emit()
		return nil, err
	}
	return Decode(fs, id, reporter)
}

// Decode decodes an already loaded file.
func Decode(fs *source.FileSet, id source.FileID, reporter diag.Reporter) (*Unit, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("%w: unknown file %d", ErrInvalid, id)
	}
	whole := fileSpan(f)

	var u Unit
	meta, err := toml.Decode(string(f.Content), &u)
	if err != nil {
		diag.ReportError(reporter, diag.DescBadToml, whole, err.Error()).Emit()
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, f.Path, err)
	}
	if !meta.IsDefined("decl") {
		diag.ReportWarning(reporter, diag.DescInfo, whole, "unit has no [[decl]] tables").Emit()
	}
	u.Path = f.Path
	u.File = id

	spans := declSpans(f)
	for i := range u.Decls {
		if len(spans) == len(u.Decls) {
			u.Decls[i].Span = spans[i]
		} else {
			u.Decls[i].Span = whole
		}
		if err := u.Decls[i].validate(reporter); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, f.Path, err)
		}
	}
	return &u, nil
}

func (d *Decl) validate(reporter diag.Reporter) error {
	if strings.TrimSpace(d.Kind) == "" {
		diag.ReportError(reporter, diag.DescMissingField, d.Span, "[[decl]] without kind").Emit()
		return errors.New("missing kind")
	}
	if _, ok := parseKind(d.Kind); !ok {
		diag.ReportError(reporter, diag.DescUnknownKind, d.Span, fmt.Sprintf("unknown declaration kind %q", d.Kind)).Emit()
		return fmt.Errorf("unknown kind %q", d.Kind)
	}
	if _, ok := parseVisibility(d.Visibility); !ok {
		diag.ReportError(reporter, diag.DescMissingField, d.Span, fmt.Sprintf("unknown visibility %q", d.Visibility)).Emit()
		return fmt.Errorf("unknown visibility %q", d.Visibility)
	}
	for _, e := range d.exprs() {
		if err := e.validate(); err != nil {
			diag.ReportError(reporter, diag.DescBadExpression, d.Span, fmt.Sprintf("%s: %v", d.Name, err)).Emit()
			return err
		}
	}
	return nil
}

func (d *Decl) exprs() []*Expr {
	var out []*Expr
	for _, e := range []*Expr{d.Init, d.Delegate, d.Body} {
		if e != nil {
			out = append(out, e)
		}
	}
	for name := range d.Functions {
		e := d.Functions[name]
		out = append(out, &e)
	}
	return out
}

var declHeader = []byte("[[decl]]")

// declSpans returns one span per [[decl]] header, running to the next header.
func declSpans(f *source.File) []source.Span {
	var starts []int
	off := 0
	for _, line := range bytes.SplitAfter(f.Content, []byte("\n")) {
		if bytes.Equal(bytes.TrimSpace(line), declHeader) {
			starts = append(starts, off)
		}
		off += len(line)
	}
	spans := make([]source.Span, 0, len(starts))
	for i, start := range starts {
		end := len(f.Content)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		s, err1 := safecast.Conv[uint32](start)
		e, err2 := safecast.Conv[uint32](end)
		if err1 != nil || err2 != nil {
			return nil
		}
		spans = append(spans, source.Span{File: f.ID, Start: s, End: e})
	}
	return spans
}

func fileSpan(f *source.File) source.Span {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		end = 0
	}
	return source.Span{File: f.ID, Start: 0, End: end}
}
