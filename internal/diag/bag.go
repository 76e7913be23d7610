package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag holds the diagnostics of one unit or one run, up to a limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag создаёт Bag с лимитом limit; значения вне uint16 насыщаются.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		max:   clampLimit(limit),
	}
}

func clampLimit(n int) uint16 {
	if n <= 0 {
		return 0
	}
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		return math.MaxUint16
	}
	return v
}

// Add возвращает false, если лимит уже достигнут.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items не копирует: не модифицируйте результат.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends other, raising the limit so nothing from other is lost.
// Timing reports use it to get past a bag that is already full.
func (b *Bag) Merge(other *Bag) {
	b.max = max(b.max, clampLimit(len(b.items)+len(other.items)))
	b.items = append(b.items, other.items...)
}

// Sort orders by file and span, errors before warnings at one span, then by
// code. Runtime diagnostics (zero span) come first in report order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
