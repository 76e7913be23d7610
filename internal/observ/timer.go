// Package observ measures pipeline phases for --timings.
package observ

import (
	"fmt"
	"strings"
	"time"
)

type phase struct {
	name   string
	dur    time.Duration
	failed bool
}

// Timer collects the phases of one unit (decode, lower). It is not safe for
// concurrent use; parallel units each own a Timer.
type Timer struct {
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Measure runs fn as phase name and passes its error through.
func (t *Timer) Measure(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.phases = append(t.phases, phase{name: name, dur: time.Since(start), failed: err != nil})
	return err
}

// PhaseReport: фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report: все фазы и суммарное время.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		report.Phases[i] = PhaseReport{Name: p.name, DurationMS: millis(p.dur)}
		if p.failed {
			report.Phases[i].Note = "failed"
		}
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders r as an indented table.
func (r Report) Summary(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
