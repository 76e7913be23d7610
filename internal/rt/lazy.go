package rt

type lazyState uint8

const (
	lazyUnforced lazyState = iota
	lazyForcing
	lazyForced
	lazyFailed
)

// Lazy is a self-memoizing slot: Unforced(thunk) until the first Force, then
// Forced(value) for good. A failing thunk is not retried; later calls return
// the same error.
type Lazy[T any] struct {
	state lazyState
	thunk func() (T, error)
	value T
	err   error
}

// NewLazy returns an unforced slot around thunk.
func NewLazy[T any](thunk func() (T, error)) *Lazy[T] {
	return &Lazy[T]{thunk: thunk}
}

// Ready returns a slot that is already forced to v.
func Ready[T any](v T) *Lazy[T] {
	return &Lazy[T]{state: lazyForced, value: v}
}

// Force runs the thunk on first use and returns the memoized result.
func (l *Lazy[T]) Force() (T, error) {
	var zero T
	switch l.state {
	case lazyForced:
		return l.value, nil
	case lazyFailed:
		return zero, l.err
	case lazyForcing:
		return zero, ErrReentrantForce
	}

	l.state = lazyForcing
	thunk := l.thunk
	l.thunk = nil
	v, err := thunk()
	if err != nil {
		l.state = lazyFailed
		l.err = err
		return zero, err
	}
	l.value = v
	l.state = lazyForced
	return v, nil
}

// Forced reports whether the slot holds its final value.
func (l *Lazy[T]) Forced() bool {
	return l.state == lazyForced
}

// Peek returns the value without forcing.
func (l *Lazy[T]) Peek() (T, bool) {
	if l.state != lazyForced {
		var zero T
		return zero, false
	}
	return l.value, true
}
