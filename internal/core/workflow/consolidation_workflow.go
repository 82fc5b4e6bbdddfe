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

// Package workflow defines the high-level orchestrations that combine
// commands into pipelines. This file implements the per-video consolidation
// workflow: raw caption file in, merged artifact on disk out.
package workflow

import (
	"github.com/muziris/video-timeline/internal/core/commands"
	"github.com/muziris/video-timeline/internal/core/cor"
)

// Context keys for the intermediate outputs of the chain.
const (
	TimelineOutputParamName = "__timeline_output__"
	SceneOutputParamName    = "__scene_output__"
	MergedOutputParamName   = "__merged_output__"
)

// VideoConsolidationWorkflow turns one raw caption file into a merged
// per-video artifact. It is structured as a chain of responsibility: each
// command is an atomic unit whose output feeds the next, and a soft skip
// (no scene data) falls through the chain without producing an error.
type VideoConsolidationWorkflow struct {
	cor.BaseCommand
	threshold float64
	chain     cor.Chain
}

// Execute runs the underlying chain. The caller is expected to have seeded
// the context with the caption path under both cor.CtxIn and the caption
// path parameter, the way the batch runner in the services package does.
func (w *VideoConsolidationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the command sequence for this workflow.
func (w *VideoConsolidationWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Read the caption file and normalize its shape to a flat
	// timestamp-to-caption map. Malformed input fails the video here,
	// before anything is written.
	out.AddCommand(commands.NewCaptionMapReader("read-caption-map"))

	// Step 2: Collapse the caption map into ordered time-range segments
	// using anchor-based run grouping at the configured threshold.
	out.AddCommand(commands.NewTimelineGrouper("group-captions", w.threshold, TimelineOutputParamName))

	// Step 3: Resolve the companion scene artifact by naming convention.
	// A missing artifact flags the context and produces no output, which
	// makes the remaining steps non-executable: the video is skipped.
	out.AddCommand(commands.NewSceneArtifactResolver("resolve-scene-artifact", SceneOutputParamName))

	// Step 4: Pair the timeline with the scene data into the merged
	// artifact, applying the documented defaults for absent scene fields.
	out.AddCommand(commands.NewArtifactMerger(
		"merge-timeline-scenes", TimelineOutputParamName, SceneOutputParamName, MergedOutputParamName))

	// Step 5: Serialize the merged artifact beside its inputs. Marshal
	// happens before any write, so failures never leave partial files.
	out.AddCommand(commands.NewMergedArtifactWriter("write-merged-artifact"))

	w.chain = out
}

// NewVideoConsolidationWorkflow is the constructor for the per-video
// consolidation pipeline.
//
// Inputs:
//   - threshold: The caption similarity threshold in [0, 1]. Validation is
//     the caller's responsibility; the batch runner refuses to start on an
//     out-of-range value.
func NewVideoConsolidationWorkflow(threshold float64) *VideoConsolidationWorkflow {
	pipeline := &VideoConsolidationWorkflow{
		BaseCommand: *cor.NewBaseCommand("video-consolidation-pipeline"),
		threshold:   threshold,
	}
	pipeline.initializeChain()
	return pipeline
}
