package rt

import (
	"fmt"

	"fortio.org/safecast"

	"declower/internal/trace"
)

// Runtime owns the classIndex counter, the package tree and the module
// registry of one program run. Independent runs use independent Runtimes.
type Runtime struct {
	classCount int
	root       *Namespace
	modules    map[string]Value
	tracer     trace.Tracer
	span       uint64
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTracer routes class and installation events to t. Installation spans
// nest under parent.
func WithTracer(t trace.Tracer, parent uint64) Option {
	return func(r *Runtime) {
		if t != nil {
			r.tracer = t
			r.span = parent
		}
	}
}

// New creates an empty Runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		modules: make(map[string]Value),
		tracer:  trace.Nop,
	}
	r.root = newNamespace(r, "")
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the root namespace.
func (r *Runtime) Root() *Namespace {
	return r.root
}

// ClassCount returns the number of class indices handed out so far.
func (r *Runtime) ClassCount() int {
	return r.classCount
}

func (r *Runtime) newClassIndex() (uint32, error) {
	idx, err := safecast.Conv[uint32](r.classCount)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrClassIndexOverflow, err)
	}
	r.classCount++
	return idx, nil
}

// DefineModule registers a module value under id.
func (r *Runtime) DefineModule(id string, v Value) error {
	if _, ok := r.modules[id]; ok {
		return fmt.Errorf("%w: %s", ErrModuleDefined, id)
	}
	r.modules[id] = v
	return nil
}

// Module returns the module registered under id.
func (r *Runtime) Module(id string) (Value, bool) {
	v, ok := r.modules[id]
	return v, ok
}
