package source

// FileID indexes a FileSet; ids are never reused within one set.
type FileID uint32

// Span is a byte range of one unit description. Declarations keep the span
// of their [[decl]] table; runtime diagnostics use the zero Span.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}
