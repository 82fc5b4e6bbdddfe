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

// Package main is the entry point for the batch consolidation CLI.
//
// The tool walks a content tree, consolidates every captioned video into a
// merged artifact, and rolls the results up into folder summaries. One
// malformed video never aborts the batch: it is counted as failed and the
// run continues. The process exits non-zero only on the fatal pre-start
// errors (bad threshold, missing root) or a summary write failure.
//
// Usage:
//
//	consolidate [flags] [directory]
//
// The directory defaults to the configured content root. Flags:
//
//	--threshold   caption similarity threshold in [0, 1] (default 0.8)
//	-v            verbose reporting (per-file timing)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muziris/video-timeline/internal/config"
	"github.com/muziris/video-timeline/internal/core/services"
	"github.com/muziris/video-timeline/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()

	// Load the TOML configuration first so flags can default from it and
	// still override it. The config directory defaults to ./configs unless
	// the caller already chose one.
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		_ = os.Setenv(config.EnvConfigFilePrefix, "configs")
	}
	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	threshold := flag.Float64("threshold", cfg.Consolidation.SimilarityThreshold,
		"caption similarity threshold in [0, 1]; captions group only when strictly above it")
	verbose := flag.Bool("v", false, "verbose reporting")
	flag.Parse()

	root := cfg.Consolidation.ContentRoot
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to setup telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// Cancel the run on interrupt; the batch stops at the next video
	// boundary and still reports what it finished.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("interrupt received, finishing current video")
		cancel()
	}()

	processor := &services.BatchProcessor{
		Root:      root,
		Threshold: *threshold,
	}
	if *verbose {
		processor.Progress = func(done, total int) {
			fmt.Printf("\r%d/%d videos", done, total)
			if done == total {
				fmt.Println()
			}
		}
	}

	report, err := processor.Run(ctx)
	if err != nil {
		if report != nil {
			printReport(report, *verbose)
		}
		log.Fatalf("consolidation aborted: %v", err)
	}
	printReport(report, *verbose)
}

// printReport writes the final accounting to standard output.
func printReport(report *services.BatchReport, verbose bool) {
	fmt.Printf("processed: %d\n", report.Processed)
	fmt.Printf("skipped:   %d (no scene data)\n", report.Skipped)
	fmt.Printf("failed:    %d\n", report.Failed)
	fmt.Printf("summaries: %d\n", report.SummariesWritten)
	if report.TopLevelSummary != "" {
		fmt.Printf("top-level summary: %s\n", report.TopLevelSummary)
	}
	if report.UncaptionedVideos > 0 {
		fmt.Printf("uncaptioned videos on disk: %d\n", report.UncaptionedVideos)
	}
	fmt.Printf("elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
	if verbose {
		total := report.Processed + report.Skipped + report.Failed
		if total > 0 {
			fmt.Printf("avg per file: %s\n", (report.Elapsed / time.Duration(total)).Round(time.Microsecond))
		}
	}
}
