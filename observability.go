// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Sentinel templates reported to observability when no route template
// applies. Recorders key metrics on templates (never raw paths) so
// cardinality stays bounded.
const (
	templateNotFound    = "_not_found"
	templateUnsupported = "_unsupported_method"
	templatePreflight   = "_preflight"
	templateWelcome     = "_welcome"
)

// ObservabilityRecorder wraps each dispatch with lifecycle hooks.
// Implementations typically combine tracing, metrics, and access logging.
//
// Lifecycle:
//  1. OnDispatchStart runs after the dispatch guard flips, before CORS and
//     matching. It returns an enriched context (e.g. carrying a span) and an
//     opaque state token handed back at the end.
//  2. OnDispatchEnd runs once the dispatch settles, with the matched route
//     template (or a "_"-prefixed sentinel), the response status (0 when the
//     dispatch errored), and the routing error if any.
//
// All methods must be safe for concurrent use across router clones.
type ObservabilityRecorder interface {
	OnDispatchStart(ctx context.Context, method, path string) (context.Context, any)
	OnDispatchEnd(ctx context.Context, state any, template string, status int, err error)
}

// observeStart invokes the recorder, if any.
func (r *Router) observeStart(ctx context.Context, req Request) (context.Context, any) {
	if r.observability == nil {
		return ctx, nil
	}
	return r.observability.OnDispatchStart(ctx, req.Method(), req.Path())
}

// observeEnd completes the recorder lifecycle, if any.
func (r *Router) observeEnd(ctx context.Context, state any, template string, resp *Response, err error) {
	if r.observability == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.Status()
	}
	r.observability.OnDispatchEnd(ctx, state, template, status, err)
}

const otelScopeName = "rivaas.dev/dispatch"

// OTelRecorder records one span and two instruments per dispatch through
// OpenTelemetry: a counter of dispatches keyed by route template and
// outcome, and a duration histogram.
type OTelRecorder struct {
	tracer     trace.Tracer
	dispatches metric.Int64Counter
	duration   metric.Float64Histogram
}

// otelState is the token threaded between start and end.
type otelState struct {
	span  trace.Span
	start time.Time
}

// OTelOption configures an OTelRecorder.
type OTelOption func(*otelConfig)

type otelConfig struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *otelConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *otelConfig) {
		c.meterProvider = mp
	}
}

// NewOTelRecorder builds an OpenTelemetry-backed recorder. Without options
// it binds to the global tracer and meter providers, so it follows whatever
// SDK the embedding application installs.
func NewOTelRecorder(opts ...OTelOption) (*OTelRecorder, error) {
	cfg := &otelConfig{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(otelScopeName)

	dispatches, err := meter.Int64Counter("dispatch.requests",
		metric.WithDescription("Dispatched requests by route template and outcome"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("dispatch.duration",
		metric.WithDescription("Dispatch duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelRecorder{
		tracer:     cfg.tracerProvider.Tracer(otelScopeName),
		dispatches: dispatches,
		duration:   duration,
	}, nil
}

// OnDispatchStart opens the dispatch span.
func (o *OTelRecorder) OnDispatchStart(ctx context.Context, method, path string) (context.Context, any) {
	ctx, span := o.tracer.Start(ctx, "dispatch.run",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
		),
	)
	return ctx, &otelState{span: span, start: time.Now()}
}

// OnDispatchEnd closes the span and records the dispatch instruments.
func (o *OTelRecorder) OnDispatchEnd(ctx context.Context, state any, template string, status int, err error) {
	st, ok := state.(*otelState)
	if !ok {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.route", template),
		attribute.String("dispatch.outcome", outcome),
	}

	o.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	o.duration.Record(ctx, time.Since(st.start).Seconds(), metric.WithAttributes(attrs...))

	st.span.SetAttributes(attrs...)
	if status > 0 {
		st.span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		st.span.RecordError(err)
		st.span.SetStatus(codes.Error, err.Error())
	}
	st.span.End()
}
