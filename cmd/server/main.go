// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// *****************************************************************************************************//
// Package main is the entry point for the timeline API server.
//
// This application sets up and runs a web server using the Gin framework. It
// provides a read-only REST API over a consolidated content tree: listing
// videos, serving merged artifacts, building folder summaries, and exposing
// coverage statistics. The server is instrumented with OpenTelemetry for
// logging, tracing, and metrics.
//
// The main function initializes the application's configuration, sets up
// logging and telemetry, and initializes the application state. It defines
// API routes and handles graceful shutdown on interrupt.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/muziris/video-timeline/internal/telemetry"
)

// main is the primary entry point for the application.
// It orchestrates the setup of logging, telemetry, configuration, the web
// server, and API routes, and handles graceful shutdown of the server upon
// receiving an interrupt signal.
func main() {
	// Initialize structured logging for the application.
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	// Root context for the application; cancelled when main exits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load application configuration from TOML files.
	cfg := GetConfig()

	// Initialize OpenTelemetry for distributed tracing and metrics.
	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	// Initialize the application's state over the content root.
	InitState()
	slog.Info("Initialized State", "content_root", cfg.Consolidation.ContentRoot)

	// Set up the Gin web server with default middleware.
	r := gin.Default()

	// Add OpenTelemetry middleware to the Gin router to trace incoming
	// requests. This will automatically create spans for each request.
	r.Use(otelgin.Middleware(cfg.Application.Name))

	// Configure Cross-Origin Resource Sharing (CORS) middleware.
	// Using cors.Default() provides a permissive configuration suitable for
	// development, allowing requests from any origin.
	r.Use(cors.Default())

	// Throttle the whole API at the configured rate.
	r.Use(RateLimit(cfg.Server.RequestsPerSecond, cfg.Server.Burst))

	// Group routes under the "/api/v1" prefix.
	apiV1 := r.Group("/api/v1")
	{
		VideoRouter(apiV1)
		FolderRouter(apiV1)
		Dashboard(apiV1)
	}

	// Configure the HTTP server with the address and handler.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	// Start the HTTP server in a separate goroutine so it doesn't block the
	// main thread.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready", "port", cfg.Server.Port)

	// Block until an OS interrupt signal is received.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// Give active requests 5 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}
