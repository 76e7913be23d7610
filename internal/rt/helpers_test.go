package rt

import (
	"strings"
	"testing"
)

type effectLog struct {
	parts []string
}

func (l *effectLog) add(s string) { l.parts = append(l.parts, s) }

func (l *effectLog) String() string { return strings.Join(l.parts, "_") }

func logging(log *effectLog, marker string) Constructor {
	return func(cx *Construction, _ []Value) error {
		if err := cx.Super(); err != nil {
			return err
		}
		log.add(marker)
		return nil
	}
}

func objectLogging(log *effectLog, marker string) ObjectBuilder {
	return func(*Runtime) (Value, error) {
		log.add(marker)
		return marker, nil
	}
}

func basesOf(slots ...*Lazy[*Class]) BasesFunc {
	return func(*Runtime) ([]Type, error) {
		out := make([]Type, 0, len(slots))
		for _, s := range slots {
			c, err := s.Force()
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}
}

func mustForce(t *testing.T, l *Lazy[*Class]) *Class {
	t.Helper()
	c, err := l.Force()
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	return c
}

func fn(name string, v Value) *Function {
	return &Function{Name: name, Call: func(*Runtime, Value, []Value) (Value, error) {
		return v, nil
	}}
}
