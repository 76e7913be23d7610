package diag

import (
	"strings"
	"testing"

	"declower/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	unit := fs.AddVirtual("testdata/unit.toml", []byte("[[decl]]\nname = \"a\"\n[[decl]]\nname = \"a\"\n"))

	bag := NewBag(8)
	ReportError(BagReporter{Bag: bag}, LowDuplicateMember, source.Span{File: unit, Start: 20, End: 40}, "member \"a\"\nredeclared").
		WithNote(source.Span{File: unit, Start: 0, End: 19}, "first declared here").
		Emit()
	bag.Add(New(SevError, LowEmptyName, source.Span{File: unit, Start: 9, End: 9}, "declaration has no name"))

	expected := "note LOW2003 testdata/unit.toml:1:1 first declared here\n" +
		"error LOW2004 testdata/unit.toml:2:1 declaration has no name\n" +
		"error LOW2003 testdata/unit.toml:3:1 member \"a\" redeclared"

	if got := FormatShortDiagnostics(bag.Items(), fs, true); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 1, End: 2}
	r.Report(LowDuplicateMember, SevError, sp, "dup", nil)
	r.Report(LowDuplicateMember, SevError, sp, "dup", nil)
	r.Report(LowDuplicateMember, SevWarning, sp, "dup", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		DescBadToml:        "DSC1001",
		LowDuplicateMember: "LOW2003",
		RtInstallFailed:    "RT3001",
		UnknownCode:        "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestBagSortAndLimit(t *testing.T) {
	bag := NewBag(3)
	sp := func(file source.FileID, start uint32) source.Span {
		return source.Span{File: file, Start: start, End: start + 1}
	}
	bag.Add(New(SevWarning, DescInfo, sp(1, 4), "w"))
	bag.Add(New(SevError, LowMissingValue, sp(1, 4), "e2"))
	bag.Add(New(SevError, LowEmptyName, sp(0, 9), "e1"))
	if bag.Add(New(SevError, RtInfo, source.Span{}, "dropped")) {
		t.Fatalf("bag over its limit accepted a diagnostic")
	}

	bag.Sort()
	var got []string
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	if strings.Join(got, ",") != "e1,e2,w" {
		t.Fatalf("order = %v", got)
	}

	extra := NewBag(1)
	extra.Add(New(SevInfo, ObsTimings, source.Span{}, "t"))
	bag.Merge(extra)
	if bag.Len() != 4 || !bag.HasErrors() {
		t.Fatalf("merge: len=%d", bag.Len())
	}
	if NewBag(0).Add(New(SevInfo, DescInfo, source.Span{}, "x")) {
		t.Fatalf("zero limit bag accepted a diagnostic")
	}
}

func TestSeverityNames(t *testing.T) {
	tests := []struct {
		sev          Severity
		upper, lower string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(7), "UNKNOWN", "info"},
	}
	for _, tt := range tests {
		if tt.sev.String() != tt.upper || tt.sev.Label() != tt.lower {
			t.Errorf("%d: %q/%q", tt.sev, tt.sev.String(), tt.sev.Label())
		}
	}
}
