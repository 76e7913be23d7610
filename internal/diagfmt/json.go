package diagfmt

import (
	"encoding/json"
	"io"

	"declower/internal/diag"
	"declower/internal/source"
)

// JSONOpts configures JSON output.
type JSONOpts struct {
	Max   int  // 0: all; the Bag keeps its own limit
	Notes bool // timing payloads are kept either way
}

// Report is the JSON form of one Bag.
type Report struct {
	Count       int     `json:"count"`
	Truncated   bool    `json:"truncated,omitempty"`
	Diagnostics []Entry `json:"diagnostics"`
}

type Entry struct {
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	At       *Location `json:"at,omitempty"`
	Notes    []Note    `json:"notes,omitempty"`
	// Timings is the payload of an OBS5001 diagnostic, inlined.
	Timings json.RawMessage `json:"timings,omitempty"`
}

type Note struct {
	Message string    `json:"message"`
	At      *Location `json:"at,omitempty"`
}

// Location has byte offsets and 1-based line/column of both ends.
type Location struct {
	File    string `json:"file"`
	Start   uint32 `json:"start"`
	End     uint32 `json:"end"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	EndLine uint32 `json:"end_line"`
	EndCol  uint32 `json:"end_col"`
}

func locate(sp source.Span, fs *source.FileSet) *Location {
	if !hasLocation(sp, fs) {
		return nil
	}
	start, end := fs.Resolve(sp)
	return &Location{
		File:    displayPath(fs.Get(sp.File)),
		Start:   sp.Start,
		End:     sp.End,
		Line:    start.Line,
		Col:     start.Col,
		EndLine: end.Line,
		EndCol:  end.Col,
	}
}

// BuildReport converts bag without encoding it; `lower --format json` nests
// it in the unit object.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 {
		n = min(n, opts.Max)
	}
	rep := Report{Count: n, Truncated: n < len(items), Diagnostics: make([]Entry, 0, n)}
	for _, d := range items[:n] {
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			At:       locate(d.Primary, fs),
		}
		if d.Code == diag.ObsTimings && len(d.Notes) == 1 && json.Valid([]byte(d.Notes[0].Msg)) {
			e.Timings = json.RawMessage(d.Notes[0].Msg)
		} else if opts.Notes {
			for _, note := range d.Notes {
				e.Notes = append(e.Notes, Note{Message: note.Msg, At: locate(note.Span, fs)})
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, e)
	}
	return rep
}

// JSON writes the indented Report of bag.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
