package diagfmt

import (
	"strings"

	"declower/internal/source"
)

// hasLocation reports whether sp points into a file. Diagnostics raised at
// run time carry the zero span.
func hasLocation(sp source.Span, fs *source.FileSet) bool {
	if fs == nil || (sp == source.Span{}) {
		return false
	}
	return fs.Get(sp.File) != nil
}

// displayPath is the path as given on the command line, without "./".
func displayPath(f *source.File) string {
	return strings.TrimPrefix(f.Path, "./")
}
