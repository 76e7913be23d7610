package unitdesc

import (
	"errors"
	"fmt"
	"strings"

	"declower/internal/rt"
)

// EffectsModule is the module id under which a run keeps its effect log.
const EffectsModule = "declower.effects"

// ErrEffectLog reports that the effect log module id is taken.
var ErrEffectLog = errors.New("effect log unavailable")

// Log records side-effect markers in execution order.
type Log struct {
	entries []string
}

// Add appends a marker.
func (l *Log) Add(marker string) { l.entries = append(l.entries, marker) }

// Entries returns the markers recorded so far.
func (l *Log) Entries() []string { return append([]string(nil), l.entries...) }

// String joins the markers with "_".
func (l *Log) String() string { return strings.Join(l.entries, "_") }

// EffectLog returns the log of r, defining it on first use. It fails when
// EffectsModule is already bound to something that is not a *Log.
func EffectLog(r *rt.Runtime) (*Log, error) {
	if v, ok := r.Module(EffectsModule); ok {
		l, ok := v.(*Log)
		if !ok {
			return nil, fmt.Errorf("%w: %s holds %T", ErrEffectLog, EffectsModule, v)
		}
		return l, nil
	}
	l := &Log{}
	if err := r.DefineModule(EffectsModule, l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEffectLog, err)
	}
	return l, nil
}

func recordEffect(r *rt.Runtime, marker string) error {
	l, err := EffectLog(r)
	if err != nil {
		return err
	}
	l.Add(marker)
	return nil
}
