// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"time"

	"cogentcore.org/pipeline/task"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "cogentcore.org/pipeline/telemetry"

type runIDKey struct{}

// RunID returns the run ID carried by ctx, if any.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok
}

// WithRunID returns ctx carrying a new random run ID.
func WithRunID(ctx context.Context) context.Context {
	return context.WithValue(ctx, runIDKey{}, uuid.NewString())
}

// Option configures [Observe].
type Option func(o *observer)

// WithTracerProvider sets the tracer provider; the default is the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *observer) { o.tp = tp }
}

// WithMeterProvider sets the meter provider; the default is the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *observer) { o.mp = mp }
}

type observer struct {
	tp trace.TracerProvider
	mp metric.MeterProvider

	tracer   trace.Tracer
	runs     metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

func newObserver(opts []Option) (*observer, error) {
	o := &observer{tp: otel.GetTracerProvider(), mp: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(o)
	}
	o.tracer = o.tp.Tracer(scopeName)
	meter := o.mp.Meter(scopeName)
	var err error
	o.runs, err = meter.Int64Counter("task_runs_total",
		metric.WithDescription("Total task runs"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, err
	}
	o.failures, err = meter.Int64Counter("task_failures_total",
		metric.WithDescription("Total failed task runs"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, err
	}
	o.duration, err = meter.Float64Histogram("task_run_duration_seconds",
		metric.WithDescription("Task run duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return o, nil
}

// observed wraps a task with a span and metrics per run.
type observed struct {
	task.Task
	o *observer
}

// Observe returns t wrapped so that each run is recorded as a span,
// counted, and timed. A run whose context has no run ID starts a new
// one, which all nested observed runs share.
func Observe(t task.Task, opts ...Option) (task.Task, error) {
	o, err := newObserver(opts)
	if err != nil {
		return nil, err
	}
	return &observed{Task: t, o: o}, nil
}

// Observer returns a function wrapping tasks as [Observe] does, sharing
// one set of instruments, for use as a graphfile.Registry Wrap.
func Observer(opts ...Option) (func(t task.Task) task.Task, error) {
	o, err := newObserver(opts)
	if err != nil {
		return nil, err
	}
	return func(t task.Task) task.Task {
		return &observed{Task: t, o: o}
	}, nil
}

func (ob *observed) Run(c *task.Context) error {
	parent := c.Ctx
	ctx := parent
	runID, ok := RunID(ctx)
	if !ok {
		ctx = WithRunID(ctx)
		runID, _ = RunID(ctx)
	}
	attrs := []attribute.KeyValue{attribute.String("task.name", ob.Name())}
	ctx, span := ob.o.tracer.Start(ctx, "task.Run "+ob.Name(),
		trace.WithAttributes(append(attrs, attribute.String("run.id", runID))...))
	c.Ctx = ctx
	start := time.Now()

	err := ob.Task.Run(c)

	c.Ctx = parent
	ob.o.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	ob.o.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		ob.o.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

func (ob *observed) MemSize() int { return ob.Task.MemSize() }
