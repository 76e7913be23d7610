package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// ErrTooLarge: spans address bytes with uint32.
var ErrTooLarge = errors.New("unit description exceeds 4 GiB")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File is one loaded unit description.
type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Content []byte // без BOM, CRLF заменены на LF
	// LineIdx holds the offset of every '\n' in Content.
	LineIdx []uint32
}

// FileSet holds the unit descriptions of one driver run. Load everything
// before lowering starts: the set is not safe for concurrent writes.
type FileSet struct {
	files []File
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// Load reads path, drops a UTF-8 BOM and turns CRLF into LF.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return 0, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return fileSet.add(path, content), nil
}

// AddVirtual adds in-memory content as is; tests and stdin use it.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.add(name, content)
}

func (fileSet *FileSet) add(path string, content []byte) FileID {
	id := FileID(safecast.MustConv[uint32](len(fileSet.files)))
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		LineIdx: lineIndex(content),
	})
	return id
}

// Get returns nil for an unknown id.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

func lineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, safecast.MustConv[uint32](i))
		}
	}
	return out
}

// toLineCol maps a byte offset to a line/column pair. A newline byte belongs
// to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго до off
	n, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if n > 0 {
		lineStart = lineIdx[n-1] + 1
	}
	return LineCol{Line: safecast.MustConv[uint32](n + 1), Col: off - lineStart + 1}
}
