package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeUnit, true},
		{LevelError, ScopeClass, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeClass, false},
		{LevelDebug, ScopeClass, true},
		{LevelDebug, Scope(0), false},
		{Level(9), ScopeDriver, false},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		l, err := ParseLevel(s)
		if err != nil || l.String() != strings.ToLower(s) {
			t.Fatalf("ParseLevel(%q) = %v, %v", s, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("unknown level accepted")
	}
	if m, err := ParseMode(""); err != nil || m != ModeStream {
		t.Fatalf("empty mode = %v, %v", m, err)
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("both = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("unknown mode accepted")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	span := Begin(tr, ScopeUnit, "lower:foo", 0)
	Point(tr, ScopeClass, "class:foo.A", "", map[string]string{"index": "0"})
	child := Begin(tr, ScopeUnit, "install:foo", span.ID())
	child.End("failed")
	span.WithExtra("members", "3").WithExtra("actions", "1").End("")

	out := buf.String()
	for _, want := range []string{
		"[     1] → lower:foo\n",
		"[     2] • class:foo.A {index=0}\n",
		"[     3]   → install:foo\n",
		"[     4]   ← install:foo (failed)\n",
		"[     5] ← lower:foo {actions=1, members=3}\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace output missing %q:\n%s", want, out)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	Begin(tr, ScopePass, "run", 0).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "pass" || ev.Name != "run" || ev.Seq != 2 || ev.Span == 0 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestInertSpan(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopeClass, "class:x", 0)
	span.WithExtra("k", "v").End("")
	Point(tr, ScopeUnit, "install:x", "", nil)
	if span.ID() != 0 || buf.Len() != 0 {
		t.Fatalf("filtered scope leaked: id=%d out=%q", span.ID(), buf.String())
	}
	if Begin(nil, ScopePass, "run", 0).End("") != 0 {
		t.Fatalf("nil tracer span must be inert")
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeClass, name, "", nil)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" || snap[1].Seq != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, errors.New("boom")); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "trace: last 2 events before: boom\n[     2] • b\n[     3] • c\n"
	if buf.String() != want {
		t.Fatalf("dump = %q, want %q", buf.String(), want)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		cfg      Config
		wantRing bool
		wantNop  bool
	}{
		{"off", Config{Level: LevelOff, Mode: ModeBoth}, false, true},
		{"ring", Config{Level: LevelDebug, Mode: ModeRing}, true, false},
		{"error forces ring", Config{Level: LevelError, Mode: ModeStream}, true, false},
		{"stream", Config{Level: LevelPhase, Output: filepath.Join(dir, "t.ndjson")}, false, false},
		{"both", Config{Level: LevelPhase, Mode: ModeBoth, Output: filepath.Join(dir, "t.log")}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer tr.Close()
			if (tr == Nop) != tt.wantNop || (RingOf(tr) != nil) != tt.wantRing {
				t.Fatalf("tracer = %T, ring = %v", tr, RingOf(tr))
			}
		})
	}

	tr, err := New(Config{Level: LevelPhase, Output: filepath.Join(dir, "t.jsonl")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s := tr.(*StreamTracer); s.format != FormatNDJSON {
		t.Fatalf(".jsonl output must select NDJSON")
	}
	tr.Close()
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on Nop")
	}
	ring := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	snap := ring.Snapshot()
	if len(snap) == 0 || snap[0].Kind != KindHeartbeat || snap[0].Detail != "#1" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop || ParentID(context.Background()) != 0 {
		t.Fatal("expected Nop tracer for bare context")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
	span := Begin(ring, ScopePass, "lower_units", 0)
	child := WithSpan(ctx, span)
	if FromContext(child) != Tracer(ring) || ParentID(child) != span.ID() || ParentID(ctx) != 0 {
		t.Fatalf("span not propagated: %d", ParentID(child))
	}
}
