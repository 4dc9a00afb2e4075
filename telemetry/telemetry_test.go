// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"cogentcore.org/pipeline/base/errors"
	"cogentcore.org/pipeline/property"
	"cogentcore.org/pipeline/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var errBoom = errors.New("boom")

func providers() (*tracetest.SpanRecorder, *sdktrace.TracerProvider, *sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return rec, tp, reader, mp
}

func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestObserveNested(t *testing.T) {
	rec, tp, reader, mp := providers()
	wrap, err := Observer(WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	g := task.NewGroup("answer", nil, []property.Spec{property.NewSpec[int]("x")}).
		Add(wrap(task.NewConstant("k", "x", 42)), nil, nil)
	root := wrap(g)

	scope := property.NewStore(nil)
	require.NoError(t, task.Execute(context.Background(), root, scope, nil, nil))
	x, err := property.Get[int](scope, property.Name("x"))
	require.NoError(t, err)
	assert.Equal(t, 42, x)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	child, parent := spans[0], spans[1]
	assert.Equal(t, "task.Run k", child.Name())
	assert.Equal(t, "task.Run answer", parent.Name())
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())

	runIDs := map[string]bool{}
	for _, sp := range spans {
		for _, kv := range sp.Attributes() {
			if kv.Key == "run.id" {
				runIDs[kv.Value.AsString()] = true
			}
		}
	}
	assert.Len(t, runIDs, 1, "nested runs share one run ID")

	assert.Equal(t, int64(2), sumOf(t, reader, "task_runs_total"))
	assert.Equal(t, int64(0), sumOf(t, reader, "task_failures_total"))
}

func TestObserveFailure(t *testing.T) {
	rec, tp, reader, mp := providers()
	fail := task.NewFunction("fail", nil, nil, func(c *task.Context) error { return errBoom })
	tk, err := Observe(fail, WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)
	assert.Equal(t, "fail", tk.Name())

	err = task.Execute(context.Background(), tk, property.NewStore(nil), nil, nil)
	assert.ErrorIs(t, err, errBoom)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, int64(1), sumOf(t, reader, "task_failures_total"))
}

func TestRunID(t *testing.T) {
	_, ok := RunID(context.Background())
	assert.False(t, ok)
	ctx := WithRunID(context.Background())
	id, ok := RunID(ctx)
	assert.True(t, ok)
	assert.Len(t, id, 36)
}

func TestInit(t *testing.T) {
	defer otel.SetTracerProvider(otel.GetTracerProvider())
	defer otel.SetMeterProvider(otel.GetMeterProvider())

	var out bytes.Buffer
	reg := prometheus.NewRegistry()
	cfg := DefaultConfig()
	cfg.TraceExporter = "stdout"
	cfg.MetricExporter = "prometheus"
	cfg.Writer = &out
	cfg.Registry = reg
	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)

	tk, err := Observe(task.NewConstant("k", "x", 1))
	require.NoError(t, err)
	require.NoError(t, task.Execute(context.Background(), tk, property.NewStore(nil), nil, nil))

	h := MetricsHandler()
	require.NotNil(t, h)
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rw.Body.String(), "task_runs")

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), "task.Run k")
}

func TestInitUnknownExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "zipkin"
	_, err := Init(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownExporter)

	cfg = DefaultConfig()
	cfg.MetricExporter = "statsd"
	_, err = Init(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownExporter)
}
