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
// This file specifically handles the setup of structured JSON logging that
// integrates with OpenTelemetry traces.
package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// spanContextLogHandler is a custom slog.Handler that wraps another handler.
// Its purpose is to intercept each log record and automatically inject
// OpenTelemetry trace and span IDs if they exist in the context. This allows
// for seamless correlation between logs and traces.
type spanContextLogHandler struct {
	slog.Handler
}

// handlerWithSpanContext is a constructor function that creates a new
// spanContextLogHandler, wrapping the provided base handler.
func handlerWithSpanContext(handler slog.Handler) *spanContextLogHandler {
	return &spanContextLogHandler{Handler: handler}
}

// Handle is the core method of the custom handler. It is called for every log
// message. It checks the provided context for a valid OpenTelemetry
// SpanContext and, if found, adds the trace ID, span ID, and sampled flag to
// the log record so log lines can be joined with their spans.
func (t *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any("trace_id", s.TraceID()),
		)
		record.AddAttrs(
			slog.Any("span_id", s.SpanID()),
		)
		record.AddAttrs(
			slog.Bool("trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	// Pass the (potentially modified) log record to the underlying wrapped handler.
	return t.Handler.Handle(ctx, record)
}

// SetupLogging initializes the logging system for the entire application.
// It configures both the standard `log` package and the structured `slog`
// package. It sets up a JSON-based logger that writes to both a file
// (`app.log`) and standard output, and it enables the automatic injection
// of trace context.
func SetupLogging() {
	// Create a log file. The file will be created if it doesn't exist,
	// or truncated if it does.
	file, _ := os.Create("app.log")
	// Direct log output to both standard output and the log file.
	multiWriter := io.MultiWriter(os.Stdout, file)

	// Configure the standard Go `log` package for the few libraries that
	// still use it.
	log.SetOutput(multiWriter)
	log.SetPrefix("[INFO] ")
	log.SetFlags(log.Ldate | log.Ltime)

	// --- Setup the structured logger (slog) ---
	// 1. Create a handler that writes logs in JSON format.
	jsonHandler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{})

	// 2. Wrap the JSON handler with our custom handler to add trace context.
	instrumentedHandler := handlerWithSpanContext(jsonHandler)

	// 3. Set this fully configured handler as the global default for slog.
	//    Any call to slog.Info, slog.Error, etc., will now use this handler.
	slog.SetDefault(slog.New(instrumentedHandler))
	// Set the minimum log level to Info. Debug messages will be ignored.
	slog.SetLogLoggerLevel(slog.LevelInfo)
}
