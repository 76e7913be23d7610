package unitdesc

import (
	"errors"
	"strings"
	"testing"

	"declower/internal/decl"
	"declower/internal/diag"
	"declower/internal/rt"
	"declower/internal/source"
	"declower/internal/testkit"
)

func TestLoadOrder(t *testing.T) {
	fs := source.NewFileSet()
	u, err := Load(fs, "testdata/order.toml", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if u.Package != "order" || len(u.Decls) != 4 {
		t.Fatalf("unit = %q with %d decls", u.Package, len(u.Decls))
	}

	content := string(fs.Get(u.File).Content)
	second := strings.Index(content, "[[decl]]\nkind = \"object\"")
	if sp := u.Decls[1].Span; int(sp.Start) != second {
		t.Fatalf("object span starts at %d, want %d", sp.Start, second)
	}
	spans := make([]source.Span, len(u.Decls))
	for i, d := range u.Decls {
		spans[i] = d.Span
	}
	if err := testkit.CheckDeclSpans(spans, fs.Get(u.File)); err != nil {
		t.Fatalf("decl spans: %v", err)
	}
	if start, _ := fs.Resolve(u.Decls[0].Span); start.Line != 3 {
		t.Fatalf("first decl on line %d, want 3", start.Line)
	}

	decls, err := u.Declarations()
	if err != nil {
		t.Fatalf("declarations: %v", err)
	}
	want := []decl.Kind{decl.KindProperty, decl.KindObject, decl.KindProperty, decl.KindFunction}
	for i, d := range decls {
		if d.Kind != want[i] {
			t.Fatalf("decl %d kind = %s, want %s", i, d.Kind, want[i])
		}
		if d.ID != decl.ID(i+1) {
			t.Fatalf("decl %d id = %d", i, d.ID)
		}
	}
	if !decls[0].Property.SimpleFinal || decls[0].Property.Initializer == nil {
		t.Fatalf("a must be a simple property with an initializer")
	}
	if decls[2].Visibility != decl.Private {
		t.Fatalf("b visibility = %s", decls[2].Visibility)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		path string
		code diag.Code
	}{
		{"testdata/bad_expr.toml", diag.DescBadExpression},
		{"testdata/bad_kind.toml", diag.DescUnknownKind},
		{"testdata/missing.toml", diag.IOLoadFileError},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			bag := diag.NewBag(10)
			if _, err := Load(source.NewFileSet(), tt.path, diag.BagReporter{Bag: bag}); err == nil {
				t.Fatalf("expected error")
			}
			items := bag.Items()
			if len(items) == 0 || items[0].Code != tt.code {
				t.Fatalf("diagnostics = %+v, want %s", items, tt.code.ID())
			}
		})
	}
}

func TestMalformedToml(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("broken.toml", []byte("package = \n"))
	bag := diag.NewBag(10)
	_, err := Decode(fs, id, diag.BagReporter{Bag: bag})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if items := bag.Items(); len(items) != 1 || items[0].Code != diag.DescBadToml {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestEvalForms(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("forms.toml", []byte(`
package = "p"

[[decl]]
kind = "trait"
name = "T"

[[decl]]
kind = "class"
name = "K"
bases = ["T", "native:Error"]
effect = "K"
functions = { hello = { value = "hi" } }
properties = { size = 3 }
`))
	u, err := Decode(fs, id, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decls, err := u.Declarations()
	if err != nil {
		t.Fatalf("declarations: %v", err)
	}

	r := rt.New()
	entries := make([]rt.Entry, 0, len(decls))
	for _, d := range decls {
		entries = append(entries, rt.Entry{Name: d.Name, Kind: rt.EntryClass, Class: d.Class})
	}
	if _, err := r.AddPackagePart("p", entries, nil); err != nil {
		t.Fatalf("install: %v", err)
	}

	s := scope{pkg: "p"}
	k := &Expr{New: "K"}
	tests := []struct {
		expr *Expr
		want rt.Value
	}{
		{&Expr{Value: int64(7)}, int64(7)},
		{&Expr{Is: &IsExpr{Of: *k, Type: "T"}}, true},
		{&Expr{Invoke: &InvokeExpr{Of: *k, Method: "hello"}}, "hi"},
		{&Expr{Seq: []Expr{{Effect: "x"}, {Value: "last"}}}, "last"},
		{&Expr{Print: &Expr{Value: "printed"}}, "printed"},
	}
	for _, tt := range tests {
		if err := tt.expr.validate(); err != nil {
			t.Fatalf("validate: %v", err)
		}
		got, err := s.eval(r, tt.expr)
		if err != nil || got != tt.want {
			t.Fatalf("eval = %v, %v; want %v", got, err, tt.want)
		}
	}

	kc, err := s.class(r, "K")
	if err != nil {
		t.Fatalf("class K: %v", err)
	}
	if kc.Metadata().Primary == nil || kc.Metadata().Primary.TypeName() != "Error" {
		t.Fatalf("K primary = %v", kc.Metadata().Primary)
	}
	log, err := EffectLog(r)
	if err != nil {
		t.Fatalf("effect log: %v", err)
	}
	if got := log.String(); got != "K_K_x_\"printed\"" {
		t.Fatalf("log = %s", got)
	}
}

func TestEffectLogModuleTaken(t *testing.T) {
	r := rt.New()
	if err := r.DefineModule(EffectsModule, "not a log"); err != nil {
		t.Fatalf("define: %v", err)
	}
	if _, err := EffectLog(r); !errors.Is(err, ErrEffectLog) {
		t.Fatalf("expected ErrEffectLog, got %v", err)
	}

	s := scope{pkg: "p"}
	if _, err := s.eval(r, &Expr{Effect: "lost"}); !errors.Is(err, ErrEffectLog) {
		t.Fatalf("effect must fail when the log is unavailable, got %v", err)
	}
}
