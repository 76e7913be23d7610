package rt

import (
	"errors"
	"testing"
)

func TestLazyForcesOnce(t *testing.T) {
	calls := 0
	l := NewLazy(func() (int, error) {
		calls++
		return 42, nil
	})
	if _, ok := l.Peek(); ok {
		t.Fatalf("unforced slot must not peek")
	}
	for range 3 {
		v, err := l.Force()
		if err != nil || v != 42 {
			t.Fatalf("force = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("thunk ran %d times", calls)
	}
	if !l.Forced() {
		t.Fatalf("expected forced slot")
	}
}

func TestLazyFailureIsMemoized(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	l := NewLazy(func() (string, error) {
		calls++
		return "", boom
	})
	for range 2 {
		if _, err := l.Force(); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("failed thunk retried: %d calls", calls)
	}
}

func TestLazyReentrantForce(t *testing.T) {
	var l *Lazy[int]
	l = NewLazy(func() (int, error) {
		_, err := l.Force()
		return 0, err
	})
	if _, err := l.Force(); !errors.Is(err, ErrReentrantForce) {
		t.Fatalf("expected ErrReentrantForce, got %v", err)
	}
}

func TestReadyIsForced(t *testing.T) {
	l := Ready("x")
	if v, ok := l.Peek(); !ok || v != "x" {
		t.Fatalf("peek = %q, %v", v, ok)
	}
}
