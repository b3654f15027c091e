package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokflow/internal/trace"
)

// setupTracing builds the tracer described by tokflow.toml and the trace
// flags, attaches it to the command context and returns its cleanup.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	tcfg, err := cfg.Trace.Tracer()
	if err != nil {
		return nil, err
	}
	tcfg.Heartbeat, err = cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	if tcfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if tcfg.OutputPath == "" {
		tcfg.OutputPath = "-"
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if tcfg.Heartbeat > 0 {
		heartbeat = trace.StartHeartbeat(tracer, tcfg.Heartbeat)
	}

	return func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
