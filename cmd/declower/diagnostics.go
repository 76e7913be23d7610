package main

import (
	"fmt"
	"io"

	"declower/internal/diag"
	"declower/internal/diagfmt"
	"declower/internal/source"
)

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format string, useColor bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	switch format {
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: useColor, ShowNotes: true})
		return nil
	case "short":
		if text := diag.FormatShortDiagnostics(bag.Items(), fs, true); text != "" {
			fmt.Fprintln(w, text)
		}
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{Notes: true})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short or json)", format)
	}
}
