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

// Package services contains the business services built on top of the
// pipeline. This file is the batch runner: it drives the per-video
// consolidation workflow over a whole content tree, sequentially and in
// sorted identifier order.
//
// Failure isolation is the contract here: one video's bad input never
// aborts the batch. Every per-video outcome is folded into the report as
// processed, skipped (no scene data), or failed. Summaries are written only
// after the loop, and only when at least one video produced output.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/muziris/video-timeline/internal/core/commands"
	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
	"github.com/muziris/video-timeline/internal/core/workflow"
)

// BatchReport is the final accounting of one aggregation run.
type BatchReport struct {
	Processed         int           // Videos that produced a merged artifact.
	Skipped           int           // Videos without scene data; informational, not failures.
	Failed            int           // Videos whose input was malformed or unwritable.
	SummariesWritten  int           // Per-folder summaries written, excluding the top-level one.
	UncaptionedVideos int           // Raw videos on disk with no caption artifact at all.
	TopLevelSummary   string        // Path of the top-level summary, empty when nothing processed.
	Elapsed           time.Duration // Wall time of the whole run.
}

// BatchProcessor consolidates every captioned video under a root directory.
type BatchProcessor struct {
	Root      string
	Threshold float64

	// Progress, when set, is called after each video with the number of
	// videos finished so far and the total. Presentation only; the runner
	// itself never writes to the terminal.
	Progress func(done, total int)
}

// Validate checks the configuration surface before any processing. These
// are the only fatal errors of a run: an out-of-range threshold or a root
// that is missing or not a directory.
func (p *BatchProcessor) Validate() error {
	if p.Threshold < 0.0 || p.Threshold > 1.0 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 1.0, got %v", p.Threshold)
	}
	info, err := os.Stat(p.Root)
	if err != nil {
		return fmt.Errorf("input directory %q does not exist: %w", p.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %q is not a directory", p.Root)
	}
	return nil
}

// Run validates, processes every caption file under the root in sorted
// order, writes the top-level and per-folder summaries, and returns the
// report. The context is honored between videos: cancellation stops the
// batch at the next video boundary with the partial report.
func (p *BatchProcessor) Run(ctx context.Context) (*BatchReport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &BatchReport{}
	catalog := &Catalog{Root: p.Root}

	files, err := catalog.FindCaptionFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for caption files: %w", p.Root, err)
	}

	pipeline := workflow.NewVideoConsolidationWorkflow(p.Threshold)
	topVideos := make(map[string]json.RawMessage)

	for i, captionPath := range files {
		if ctx.Err() != nil {
			report.Elapsed = time.Since(start)
			return report, ctx.Err()
		}

		p.processOne(ctx, pipeline, captionPath, report, topVideos)

		if p.Progress != nil {
			p.Progress(i+1, len(files))
		}
	}

	if report.Processed > 0 {
		aggregator := &FolderAggregator{Root: p.Root}
		topPath, err := aggregator.WriteTopLevelSummary(topVideos)
		if err != nil {
			return report, err
		}
		report.TopLevelSummary = topPath

		written, err := aggregator.WriteFolderSummaries()
		if err != nil {
			return report, err
		}
		report.SummariesWritten = written
	}

	uncaptioned, err := catalog.FindUncaptionedVideos()
	if err != nil {
		slog.Warn("coverage scan failed", "root", p.Root, "error", err)
	} else {
		report.UncaptionedVideos = len(uncaptioned)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// processOne runs the pipeline for a single caption file and folds the
// outcome into the report. Per-video errors are logged and counted, never
// propagated: the next video must run regardless.
func (p *BatchProcessor) processOne(
	ctx context.Context,
	pipeline *workflow.VideoConsolidationWorkflow,
	captionPath string,
	report *BatchReport,
	topVideos map[string]json.RawMessage,
) {
	videoCtx := cor.NewBaseContext()
	videoCtx.SetContext(ctx)
	videoCtx.Add(cor.CtxIn, captionPath)
	videoCtx.Add(commands.GetCaptionPathParamName(), captionPath)

	pipeline.Execute(videoCtx)

	if videoCtx.HasErrors() {
		report.Failed++
		for command, err := range videoCtx.GetErrors() {
			slog.Warn("video failed",
				"video", model.VideoID(captionPath),
				"command", command,
				"run_id", videoCtx.GetRunID(),
				"error", err)
		}
		return
	}

	if videoCtx.Get(commands.GetSceneMissingParamName()) != nil {
		report.Skipped++
		return
	}

	mergedPath, ok := videoCtx.Get(commands.GetMergedPathParamName()).(string)
	if !ok {
		report.Failed++
		slog.Warn("pipeline produced no output", "video", model.VideoID(captionPath), "run_id", videoCtx.GetRunID())
		return
	}

	report.Processed++

	// The top-level summary embeds what is actually on disk, read back
	// rather than re-serialized from memory.
	raw, err := os.ReadFile(mergedPath)
	if err != nil {
		slog.Warn("could not read merged artifact back for top-level summary",
			"path", mergedPath, "run_id", videoCtx.GetRunID(), "error", err)
		return
	}
	topVideos[model.VideoID(captionPath)] = raw
}
