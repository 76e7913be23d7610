package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"declower/internal/source"
)

// CheckDeclSpans runs the span invariants of a loaded unit description:
// 1) every span is non-empty, points at sf and lies within its content
// 2) spans follow source order without overlapping
// 3) the union of spans ends at the end of the file (the last [[decl]]
// table runs to EOF)
func CheckDeclSpans(spans []source.Span, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var union source.Span
	for i, sp := range spans {
		if sp.End <= sp.Start {
			return fmt.Errorf("decl %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("decl %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("decl %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if i == 0 {
			union = sp
			continue
		}
		if prev := spans[i-1]; sp.Start < prev.End {
			return fmt.Errorf("decl %d: span %v overlaps previous %v", i, sp, prev)
		}
		union = union.Cover(sp)
	}

	if len(spans) > 0 && union.End != lenContent {
		return fmt.Errorf("decl spans %v stop before end of file (%d)", union, lenContent)
	}
	return nil
}
