// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry provides utilities for setting up and configuring
// application observability, including logging, tracing, and metrics.
// This file initializes the OpenTelemetry SDK. Spans and metrics are
// exported as line-delimited JSON to a local telemetry.log file, which keeps
// the tooling self-contained while preserving the full instrumentation
// surface for a hosted exporter later.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/sdk/metric"

	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/muziris/video-timeline/internal/config"
)

// SetupOpenTelemetry initializes and configures the OpenTelemetry SDK for the
// entire application. It sets up both tracing and metrics and returns a
// `shutdown` function that must be called on application exit to ensure all
// buffered telemetry data is flushed before the application terminates.
//
// Inputs:
//   - ctx: The parent context, used for initialization of the SDK.
//   - cfg: The application's configuration struct, which provides the
//     service name attached to every span and metric.
//
// Returns:
//   - shutdown: A function that should be deferred by the caller to
//     gracefully shut down all telemetry components.
//   - err: An error if any part of the setup fails.
func SetupOpenTelemetry(ctx context.Context, cfg *config.Config) (shutdown func(context.Context) error, err error) {
	// A slice to hold the shutdown functions for the telemetry components.
	var shutdownFuncs []func(context.Context) error

	// The returned shutdown function iterates over the shutdownFuncs slice
	// and calls each one, joining any errors that occur. This provides a
	// single function to cleanly tear down the entire telemetry pipeline.
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	// --- Resource Detection ---
	// A "resource" in OpenTelemetry represents the entity producing
	// telemetry (i.e., this application): a collection of attributes that
	// describe it.
	res, err := resource.New(ctx,
		// Includes default resource attributes like SDK name and version.
		resource.WithTelemetrySDK(),
		// Adds the service name attribute, which is crucial for identifying
		// and filtering telemetry data in the observability backend.
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.Application.Name),
		),
	)
	// Handle potential partial errors during resource detection without
	// stopping execution.
	if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
		slog.Warn("partial resource detection", "error", err)
	} else if err != nil {
		slog.Error("resource.New failed", "error", err)
		return nil, err
	}

	// --- Propagator Setup ---
	// A propagator injects and extracts trace context data (like trace IDs)
	// into and from requests, enabling distributed tracing across services.
	// `autoprop` automatically configures standard propagators like W3C
	// Trace Context and B3, which are widely supported.
	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	// All exported telemetry lands in a local file so stdout stays reserved
	// for the application's own structured logs.
	telemetryFile, err := os.Create("telemetry.log")
	if err != nil {
		slog.Error("unable to create telemetry output file", "error", err)
		return nil, err
	}
	shutdownFuncs = append(shutdownFuncs, func(context.Context) error { return telemetryFile.Close() })

	// --- Trace Exporter and Provider Setup ---
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(telemetryFile))
	if err != nil {
		slog.Error("unable to set up trace exporter", "error", err)
		return nil, err
	}

	// The TracerProvider is the factory for creating Tracers.
	tp := sdktrace.NewTracerProvider(
		// WithBatcher sends spans in batches, which is much more efficient
		// than sending one by one.
		sdktrace.WithBatcher(traceExporter),
		// Attaches the resource information (service name, etc.) to all spans.
		sdktrace.WithResource(res),
	)

	// Add the TracerProvider's shutdown function to our list for graceful
	// shutdown, and register it as the global provider.
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	// --- Metric Exporter and Provider Setup ---
	mExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(telemetryFile))
	if err != nil {
		slog.Error("unable to set up metric exporter", "error", err)
		return nil, err
	}

	// The MeterProvider is the factory for creating Meters.
	mProvider := metric.NewMeterProvider(
		// Configures the provider to read and export metrics periodically.
		metric.WithReader(metric.NewPeriodicReader(mExporter)),
		metric.WithResource(res),
	)

	// Create a named Meter for the application. Using a namespace avoids
	// metric name collisions with libraries that also produce metrics.
	otel.Meter("github.com/muziris/video-timeline")

	// Add the MeterProvider's shutdown function to our list, and register
	// it as the global provider.
	shutdownFuncs = append(shutdownFuncs, mProvider.Shutdown)
	otel.SetMeterProvider(mProvider)

	return shutdown, nil
}
