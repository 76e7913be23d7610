package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"declower/internal/diagfmt"
	"declower/internal/driver"
	"declower/internal/source"
)

func newLowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower [flags] <unit.toml>...",
		Short: "Lower unit descriptions and print member tables",
		Long:  `Lower unit descriptions and print each unit's member table, initializer actions and public surface`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLower,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json); short prints diagnostics only")
	return cmd
}

type memberJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type unitJSON struct {
	Path        string         `json:"path"`
	Package     string         `json:"package"`
	Members     []memberJSON   `json:"members"`
	Actions     []string       `json:"actions"`
	Public      []string       `json:"public"`
	Error       string         `json:"error,omitempty"`
	Diagnostics diagfmt.Report `json:"diagnostics"`
}

func runLower(cmd *cobra.Command, args []string) (err error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short or json)", format)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	useColor, err := setupColor(cmd)
	if err != nil {
		return err
	}
	finishTrace, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { finishTrace(err) }()

	stopProfiling, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	fs := source.NewFileSet()
	results, err := driver.LowerUnits(cmd.Context(), cfg, fs, args)
	if err != nil {
		return err
	}

	failed := 0
	out := cmd.OutOrStdout()
	if format == "json" {
		payload := make([]unitJSON, len(results))
		for i := range results {
			res := &results[i]
			if showTimings {
				driver.AppendTimings(res)
			}
			payload[i] = unitToJSON(res, fs)
			if res.Err != nil {
				failed++
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else {
		styles := newDumpStyles(useColor)
		for i := range results {
			res := &results[i]
			if i > 0 && format == "pretty" {
				fmt.Fprintln(out)
			}
			if res.Unit != nil && format == "pretty" {
				renderUnit(out, res.Path, res.Unit, styles)
			}
			if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, format, useColor); err != nil {
				return err
			}
			if res.Err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Path, res.Err)
			}
			if showTimings {
				fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary(res.Path))
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d units failed to lower", failed, len(results))
	}
	return nil
}

func unitToJSON(res *driver.UnitResult, fs *source.FileSet) unitJSON {
	out := unitJSON{
		Path:        res.Path,
		Members:     []memberJSON{},
		Actions:     []string{},
		Public:      []string{},
		Diagnostics: diagfmt.BuildReport(res.Bag, fs, diagfmt.JSONOpts{Notes: true}),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	if res.Unit == nil {
		return out
	}
	out.Package = res.Unit.Path
	for _, e := range res.Unit.Entries() {
		out.Members = append(out.Members, memberJSON{Name: e.Name, Kind: e.Kind.String()})
	}
	for _, a := range res.Unit.Actions {
		out.Actions = append(out.Actions, a.String())
	}
	out.Public = append(out.Public, res.Unit.Public.Names()...)
	return out
}
