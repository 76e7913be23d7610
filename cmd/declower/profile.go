package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"declower/internal/prof"
)

// startProfiling starts the profiles named by --cpuprofile, --memprofile and
// --exectrace. The returned stop function reports write errors to stderr.
func startProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	for flag, dst := range map[string]*string{
		"cpuprofile": &opts.CPU,
		"memprofile": &opts.Mem,
		"exectrace":  &opts.Trace,
	} {
		v, err := flags.GetString(flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
