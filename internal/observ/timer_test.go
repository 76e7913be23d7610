package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("decode", func() error { return nil }); err != nil {
		t.Fatalf("measure: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("lower", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("measure must pass the error through, got %v", err)
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].Name != "decode" || rep.Phases[1].Note != "failed" {
		t.Fatalf("report = %+v", rep)
	}
	sum := rep.Summary("timings")
	if !strings.HasPrefix(sum, "timings:\n") || !strings.Contains(sum, "// failed") || !strings.Contains(sum, "total") {
		t.Fatalf("summary = %q", sum)
	}
}

func TestEmptyReport(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("empty timer report = %+v", rep)
	}
}
