package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of the pipeline is traced.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps unit-level events in the ring only; they are printed
	// when a run fails.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// widest scope each level admits
var levelScopes = [...]Scope{0, ScopeUnit, ScopePass, ScopeUnit, ScopeClass}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts off|error|phase|detail|debug; empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScopes) && scope > 0 && scope <= levelScopes[l]
}
