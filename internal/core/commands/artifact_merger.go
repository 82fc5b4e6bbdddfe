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
// consolidation workflow. This file defines the merge step: pairing the
// consolidated timeline with the resolved scene artifact into the single
// per-video merged artifact. The scene fields are copied verbatim, with
// documented defaults substituted where the artifact omits them.
package commands

import (
	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
)

// Defaults applied when a scene artifact omits optional fields.
const (
	DefaultSceneThreshold = 0.4
	DefaultTotalScenes    = 0
)

// ArtifactMerger is a command that assembles the MergedArtifact from the
// outputs of the grouping and scene resolution steps.
type ArtifactMerger struct {
	cor.BaseCommand
	timelineParamName string
	sceneParamName    string
}

// NewArtifactMerger is the constructor for the ArtifactMerger command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - timelineParamName: The context key holding the []model.TimelineSegment.
//   - sceneParamName: The context key holding the *model.SceneArtifact.
//   - outputParamName: The context key to store the *model.MergedArtifact under.
func NewArtifactMerger(name, timelineParamName, sceneParamName, outputParamName string) *ArtifactMerger {
	out := &ArtifactMerger{
		BaseCommand:       *cor.NewBaseCommand(name),
		timelineParamName: timelineParamName,
		sceneParamName:    sceneParamName,
	}
	out.OutputParamName = outputParamName
	return out
}

// IsExecutable requires both the timeline and the scene artifact. When the
// resolver soft-skipped a video the scene artifact is absent, this check
// fails, and the chain passes over the merge without recording an error.
func (s *ArtifactMerger) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(s.timelineParamName) != nil &&
		context.Get(s.sceneParamName) != nil
}

// Execute assembles the merged artifact.
func (s *ArtifactMerger) Execute(context cor.Context) {
	segments := context.Get(s.timelineParamName).([]model.TimelineSegment)
	artifact := context.Get(s.sceneParamName).(*model.SceneArtifact)

	info := model.SceneInfo{
		SceneThreshold: DefaultSceneThreshold,
		TotalScenes:    DefaultTotalScenes,
		Scenes:         artifact.Scenes,
	}
	if artifact.SceneThreshold != nil {
		info.SceneThreshold = *artifact.SceneThreshold
	}
	if artifact.TotalScenes != nil {
		info.TotalScenes = *artifact.TotalScenes
	}
	if info.Scenes == nil {
		info.Scenes = []model.SceneInterval{}
	}

	merged := &model.MergedArtifact{Timestamps: segments, SceneInfo: info}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), merged)
	context.Add(cor.CtxOut, merged)
}
