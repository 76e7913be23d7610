package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"declower/internal/driver"
	"declower/internal/manifest"
	"declower/internal/source"
)

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest [flags] <unit.toml>",
		Short: "Write the public-API manifest of a unit",
		Long: `Lower one unit and write its public surface as a msgpack manifest.
With --show the argument is an existing manifest, which is verified and printed.`,
		Args: cobra.ExactArgs(1),
		RunE: runManifest,
	}
	cmd.Flags().StringP("output", "o", "", "output path (default: <unit>.manifest.mp next to the unit)")
	cmd.Flags().Bool("show", false, "read and print a manifest instead of writing one")
	return cmd
}

func runManifest(cmd *cobra.Command, args []string) (err error) {
	show, err := cmd.Flags().GetBool("show")
	if err != nil {
		return fmt.Errorf("failed to get show flag: %w", err)
	}
	if show {
		m, err := manifest.Read(args[0])
		if err != nil {
			return err
		}
		printManifest(cmd, m)
		return nil
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output == "" {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".manifest.mp"
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

	fs := source.NewFileSet()
	results, err := driver.LowerUnits(cmd.Context(), cfg, fs, args)
	if err != nil {
		return err
	}
	res := &results[0]
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, "pretty", useColor); err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("%s: %w", res.Path, res.Err)
	}

	m, err := manifest.FromUnit(res.Unit)
	if err != nil {
		return err
	}
	if err := manifest.Write(output, m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d public, digest %s)\n", output, len(m.Public), m.Digest)
	return nil
}

func printManifest(cmd *cobra.Command, m *manifest.Manifest) {
	out := cmd.OutOrStdout()
	pkg := m.Package
	if pkg == "" {
		pkg = "<root>"
	}
	fmt.Fprintf(out, "package: %s\n", pkg)
	fmt.Fprintf(out, "schema:  %d\n", m.Schema)
	fmt.Fprintf(out, "members: %d, actions: %d\n", m.Members, m.Actions)
	fmt.Fprintf(out, "public:  %s\n", strings.Join(m.Public, ", "))
	fmt.Fprintf(out, "digest:  %s\n", m.Digest)
}
