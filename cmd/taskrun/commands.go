// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"cogentcore.org/pipeline/base/errors"
	"cogentcore.org/pipeline/graphfile"
	"cogentcore.org/pipeline/logx"
	"cogentcore.org/pipeline/property"
	"cogentcore.org/pipeline/task"
	"cogentcore.org/pipeline/telemetry"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// options are the flag values shared by the commands.
type options struct {
	logLevel string
	sets     []string
	trace    string
	metrics  string
	addr     string
	checked  bool
	watch    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "taskrun",
		Short:         "Load and run task graph files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logx.Install(cmd.ErrOrStderr())
			if opts.logLevel != "" {
				return logx.SetLevel(opts.logLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, or error")

	run := &cobra.Command{
		Use:   "run <graph>",
		Short: "Run a graph file and print its outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCommand(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
			if err != nil {
				slog.Error("taskrun run", "graph", args[0], "err", err)
			}
			return err
		},
	}
	run.Flags().StringArrayVar(&opts.sets, "set", nil, "set a graph input, as name=value")
	run.Flags().StringVar(&opts.trace, "trace", "none", "trace exporter: stdout or none")
	run.Flags().StringVar(&opts.metrics, "metrics", "none", "metric exporter: prometheus, stdout, or none")
	run.Flags().StringVar(&opts.addr, "metrics-addr", ":9464", "address serving /metrics for the prometheus exporter")
	run.Flags().BoolVar(&opts.checked, "checked", false, "fail if the graph does not write every output")
	run.Flags().BoolVar(&opts.watch, "watch", false, "rerun whenever the graph file changes")

	check := &cobra.Command{
		Use:   "check <graph>",
		Short: "Load and validate a graph file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := checkCommand(cmd.OutOrStdout(), args[0])
			if err != nil {
				slog.Error("taskrun check", "graph", args[0], "err", err)
			}
			return err
		},
	}

	root.AddCommand(run, check)
	return root
}

// checkCommand loads path and prints the signature of its root task.
func checkCommand(w io.Writer, path string) error {
	t, err := graphfile.Load(path, graphfile.NewRegistry())
	if err != nil {
		return err
	}
	out := termenv.NewOutput(w)
	fmt.Fprintf(w, "%s %s (%d bytes)\n", out.String("ok").Foreground(out.Color("2")), t.Name(), t.MemSize())
	for _, sp := range t.Inputs() {
		fmt.Fprintf(w, "  in  %s\n", sp)
	}
	for _, sp := range t.Outputs() {
		fmt.Fprintf(w, "  out %s\n", sp)
	}
	return nil
}

// runCommand runs the graph at path once, or on every change with --watch.
func runCommand(ctx context.Context, w io.Writer, path string, opts *options) error {
	cfg := telemetry.DefaultConfig()
	cfg.TraceExporter = opts.trace
	cfg.MetricExporter = opts.metrics
	cfg.Writer = w
	shutdown, err := telemetry.Init(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		errors.Log(shutdown(context.Background()))
	}()

	if h := telemetry.MetricsHandler(); h != nil && opts.metrics == "prometheus" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", h)
		srv := &http.Server{Addr: opts.addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server", "addr", opts.addr, "err", err)
			}
		}()
		defer srv.Close()
	}

	reg := graphfile.NewRegistry()
	if opts.trace != "none" || opts.metrics != "none" {
		wrap, err := telemetry.Observer()
		if err != nil {
			return err
		}
		reg.Wrap = wrap
	}
	if !opts.watch {
		return runOnce(ctx, w, reg, path, opts)
	}
	return watch(ctx, path, func() {
		errors.Log(runOnce(ctx, w, reg, path, opts))
	})
}

// runOnce loads and runs the graph at path and prints its outputs.
func runOnce(ctx context.Context, w io.Writer, reg *graphfile.Registry, path string, opts *options) error {
	t, err := graphfile.Load(path, reg)
	if err != nil {
		return err
	}
	if opts.checked {
		t = task.Checked(t)
	}
	scope, err := inputScope(reg, t, opts.sets)
	if err != nil {
		return err
	}
	if err := task.Execute(ctx, t, scope, nil, nil); err != nil {
		return err
	}
	printOutputs(termenv.NewOutput(w), t, scope)
	return nil
}

// inputScope returns a root store holding the graph inputs
// parsed from name=value pairs.
func inputScope(reg *graphfile.Registry, t task.Task, sets []string) (*property.Store, error) {
	scope := property.NewStore(nil)
	for _, set := range sets {
		name, value, ok := strings.Cut(set, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want name=value", set)
		}
		sp, ok := property.Find(t.Inputs(), property.Name(name))
		if !ok {
			return nil, fmt.Errorf("--set %q: %s has no input %s", set, t.Name(), name)
		}
		vl, err := reg.ParseFor(sp, value)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", set, err)
		}
		scope.Set(sp.ID, vl)
	}
	return scope, nil
}

// printOutputs prints the bound outputs of t from scope,
// one name = value per line.
func printOutputs(out *termenv.Output, t task.Task, scope *property.Store) {
	for _, sp := range t.Outputs() {
		name := out.String(sp.ID.String()).Bold()
		vl, err := scope.Get(sp.ID)
		if err != nil {
			fmt.Fprintf(out, "%s = %s\n", name, out.String("unbound").Faint())
			continue
		}
		fmt.Fprintf(out, "%s = %v\n", name, vl.Any())
	}
}

// watch calls fn now and after each write to path, until ctx is done.
// It watches the directory so that editors replacing the file by
// rename are seen.
func watch(ctx context.Context, path string, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	fn()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Info("graph changed, rerunning", "graph", path)
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("graph watcher error: " + err.Error())
		}
	}
}
