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

// Package commands provides the concrete pipeline steps of the per-video
// consolidation workflow. This file defines the grouping step: collapsing
// the raw caption map into an ordered timeline of labeled ranges. The
// algorithm itself lives in the timeline package; this command is the thin
// pipeline adapter around it.
package commands

import (
	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
	"github.com/muziris/video-timeline/internal/core/timeline"
)

// TimelineGrouper is a command that consolidates a CaptionMap into timeline
// segments with a fixed similarity threshold.
type TimelineGrouper struct {
	cor.BaseCommand
	threshold float64
}

// NewTimelineGrouper is the constructor for the TimelineGrouper command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - threshold: The similarity threshold in [0, 1]; captions whose ratio
//     to the run's anchor is strictly greater are merged into the run.
//   - outputParamName: The context key where the timeline will be stored
//     for later commands, in addition to the chain's default piping slot.
func NewTimelineGrouper(name string, threshold float64, outputParamName string) *TimelineGrouper {
	out := &TimelineGrouper{BaseCommand: *cor.NewBaseCommand(name), threshold: threshold}
	out.OutputParamName = outputParamName
	return out
}

// Execute groups the caption map from the previous step.
func (s *TimelineGrouper) Execute(context cor.Context) {
	captions := context.Get(s.GetInputParam()).(model.CaptionMap)

	segments := timeline.Group(captions, s.threshold)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), segments)
	context.Add(cor.CtxOut, segments)
}
