package lower

import (
	"declower/internal/rt"
)

// MemberTable maps member names to translated values. Insertion order is kept
// for dumps only.
type MemberTable struct {
	entries []rt.Entry
	index   map[string]int
}

// NewMemberTable returns an empty table.
func NewMemberTable() *MemberTable {
	return &MemberTable{index: make(map[string]int)}
}

func (t *MemberTable) add(e rt.Entry) {
	t.index[e.Name] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Get returns the entry bound to name.
func (t *MemberTable) Get(name string) (rt.Entry, bool) {
	i, ok := t.index[name]
	if !ok {
		return rt.Entry{}, false
	}
	return t.entries[i], true
}

// Len returns the number of entries.
func (t *MemberTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the entries in insertion order.
func (t *MemberTable) Entries() []rt.Entry {
	if t == nil {
		return nil
	}
	return append([]rt.Entry(nil), t.entries...)
}

// Names returns the member names in insertion order.
func (t *MemberTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// PublicSurface is the ordered set of names visible outside the unit.
type PublicSurface struct {
	names []string
	seen  map[string]struct{}
}

// NewPublicSurface returns an empty surface.
func NewPublicSurface() *PublicSurface {
	return &PublicSurface{seen: make(map[string]struct{})}
}

// Add appends name unless it was already recorded.
func (s *PublicSurface) Add(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

// Names returns the recorded names in first-encounter order.
func (s *PublicSurface) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len returns the number of public names.
func (s *PublicSurface) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}
