package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/prof"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/trace"
)

// session holds what startSession opened; stopSession closes it once.
var session struct {
	tracer  trace.Tracer
	profile *prof.Session
}

// startSession reads the tracing and profiling flags, attaches the tracer to
// the command context and starts the requested profiles.
func startSession(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	out, _ := flags.GetString("trace")
	levelStr, _ := flags.GetString("trace-level")
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	if out != "" && level == trace.LevelOff {
		level = trace.LevelPass
	}
	tracer, err := trace.New(trace.Config{Level: level, Path: out})
	if err != nil {
		return err
	}
	session.tracer = tracer

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(trace.WithTracer(ctx, tracer))

	var opts prof.Options
	opts.CPU, _ = flags.GetString("cpu-profile")
	opts.Mem, _ = flags.GetString("mem-profile")
	opts.Trace, _ = flags.GetString("runtime-trace")
	if opts != (prof.Options{}) {
		if session.profile, err = prof.Start(opts); err != nil {
			return err
		}
	}
	return nil
}

func stopSession(cmd *cobra.Command) {
	if session.profile != nil {
		if err := session.profile.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		session.profile = nil
	}
	if session.tracer != nil {
		if err := session.tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
		session.tracer = nil
	}
}
