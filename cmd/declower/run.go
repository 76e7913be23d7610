package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"declower/internal/driver"
	"declower/internal/lower"
	"declower/internal/rt"
	"declower/internal/source"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] <unit.toml>...",
		Short: "Install units into a fresh runtime and touch the entry member",
		Long: `Lower every unit, install them in the given order and touch the entry member.
Nothing runs until the entry is touched; the effect log shows what ran.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
	cmd.Flags().String("entry", "", "member to touch, pkg.member (default: [run].entry from config)")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) (err error) {
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return fmt.Errorf("failed to get entry flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if entry == "" {
		entry = cfg.Run.Entry
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
	lowerStart := time.Now()
	results, err := driver.LowerUnits(cmd.Context(), cfg, fs, args)
	if err != nil {
		return err
	}
	lowerDur := time.Since(lowerStart)

	units := make([]*lower.FileUnit, 0, len(results))
	for i := range results {
		res := &results[i]
		if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", useColor); err != nil {
			return err
		}
		if res.Err != nil {
			return fmt.Errorf("%s: %w", res.Path, res.Err)
		}
		units = append(units, res.Unit)
	}

	runStart := time.Now()
	result, runErr := driver.Run(cmd.Context(), units, entry)
	runDur := time.Since(runStart)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "effects: %s\n", result.EffectString())
	if runErr == nil && !rt.IsUndefined(result.Value) && result.Value != nil {
		fmt.Fprintf(out, "value: %s\n", rt.Describe(result.Value))
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), result.Bag, fs, "pretty", useColor); err != nil {
		return err
	}
	if showTimings {
		fmt.Fprintf(cmd.ErrOrStderr(), "lowered %.1f ms\n", toMillis(lowerDur))
		fmt.Fprintf(cmd.ErrOrStderr(), "ran %.1f ms\n", toMillis(runDur))
	}
	return runErr
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
