package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"declower/internal/driver"
	"declower/internal/trace"
)

// setupTracing installs the tracer from cfg.Trace and the ring/heartbeat
// flags on cmd's context. The returned finish func takes the command's error:
// a failed command dumps the ring (if one is kept) to stderr before the
// tracer is closed.
func setupTracing(cmd *cobra.Command, cfg driver.Config) (func(error), error) {
	flags := cmd.Root().PersistentFlags()
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	every, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	tcfg, err := cfg.Trace.TracerConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace config: %w", err)
	}
	tcfg.RingSize = ringSize
	tcfg.Heartbeat = every

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	if tracer == trace.Nop {
		return func(error) {}, nil
	}
	heartbeat := trace.StartHeartbeat(tracer, tcfg.Heartbeat)

	stderr := cmd.ErrOrStderr()
	return func(cmdErr error) {
		heartbeat.Stop()
		if ring := trace.RingOf(tracer); ring != nil && cmdErr != nil {
			if err := ring.Dump(stderr, cmdErr); err != nil {
				fmt.Fprintf(stderr, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close error: %v\n", err)
		}
	}, nil
}
