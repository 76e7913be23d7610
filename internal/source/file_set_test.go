package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("unit.toml", []byte("package = \"foo\"\n\n[[decl]]\nname = \"a\"\n"))

	start, end := fs.Resolve(Span{File: id, Start: 17, End: 26})
	if start.Line != 3 || start.Col != 1 {
		t.Fatalf("unexpected start: %+v", start)
	}
	if end.Line != 4 || end.Col != 1 {
		t.Fatalf("unexpected end: %+v", end)
	}
	if s, e := fs.Resolve(Span{File: 7}); s != (LineCol{}) || e != (LineCol{}) {
		t.Fatalf("unknown file resolved to %+v %+v", s, e)
	}
}

func TestToLineCol(t *testing.T) {
	idx := lineIndex([]byte("ab\n\ncd\nx"))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // '\n' ends line 1
		{3, LineCol{2, 1}},
		{4, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}}, // end of file
	}
	for _, tt := range tests {
		if got := toLineCol(idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if got := toLineCol(nil, 5); got != (LineCol{1, 6}) {
		t.Fatalf("single line = %+v", got)
	}
}

func TestLoadNormalises(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.toml")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\rc\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	fs.AddVirtual("first.toml", nil)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if id != 1 || string(f.Content) != "a\nb\rc\n" || len(f.LineIdx) != 2 {
		t.Fatalf("file = %d %q %v", id, f.Content, f.LineIdx)
	}
	if fs.Get(FileID(42)) != nil {
		t.Fatal("expected nil for unknown id")
	}

	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	if got := a.Cover(Span{File: 1, Start: 5, End: 12}); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("cover = %+v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 50}); got != a {
		t.Fatalf("cross-file cover = %+v", got)
	}
}
