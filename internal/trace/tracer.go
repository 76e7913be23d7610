package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives pipeline and runtime events.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// emits reports whether t records events of scope.
func emits(t Tracer, scope Scope) bool {
	return t != nil && t.Level().ShouldEmit(scope)
}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota // write as they happen
	ModeRing               // keep the tail, dump when a run fails
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream|ring|both; empty means stream.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(s)
	if s == "" {
		return ModeStream, nil
	}
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer a command runs with.
type Config struct {
	Level Level
	Mode  Mode
	// Output is "-" or empty for stderr, otherwise a file path. A path
	// ending in .ndjson or .jsonl selects NDJSON.
	Output    string
	RingSize  int
	Heartbeat time.Duration
}

// New builds the tracer for cfg. LevelOff always yields Nop; LevelError
// always keeps a ring only.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == ModeRing || cfg.Level == LevelError {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}

	w, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, formatFor(cfg.Output))
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return &teeTracer{stream: stream, ring: NewRingTracer(cfg.RingSize, cfg.Level)}, nil
}

func formatFor(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(path string) (io.Writer, error) {
	if path == "" || path == "-" {
		return stderr{}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// stderr is not an io.Closer, so closing the tracer leaves os.Stderr open.
type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }

// teeTracer is ModeBoth: the stream sees everything live, the ring keeps
// the tail for a failure dump.
type teeTracer struct {
	stream *StreamTracer
	ring   *RingTracer
}

func (t *teeTracer) Emit(ev *Event) {
	t.stream.Emit(ev)
	t.ring.Emit(ev)
}

func (t *teeTracer) Flush() error { return t.stream.Flush() }
func (t *teeTracer) Close() error { return t.stream.Close() }
func (t *teeTracer) Level() Level { return t.stream.Level() }

// RingOf returns the ring buffer behind t, or nil when t keeps none.
func RingOf(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case *teeTracer:
		return t.ring
	}
	return nil
}

type ctxKey struct{}

type ctxValue struct {
	tracer Tracer
	parent uint64
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, ctxKey{}, ctxValue{tracer: t})
}

// WithSpan makes s the parent of spans begun from the returned context.
func WithSpan(ctx context.Context, s *Span) context.Context {
	v := fromContext(ctx)
	v.parent = s.ID()
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return fromContext(ctx).tracer
}

// ParentID returns the id of the span set by WithSpan, 0 at the root.
func ParentID(ctx context.Context) uint64 {
	return fromContext(ctx).parent
}

func fromContext(ctx context.Context) ctxValue {
	if v, ok := ctx.Value(ctxKey{}).(ctxValue); ok && v.tracer != nil {
		return v
	}
	return ctxValue{tracer: Nop}
}
