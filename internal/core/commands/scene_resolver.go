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
// consolidation workflow. This file defines the scene resolution step:
// locating and loading the companion scene artifact for the video being
// processed, by the file-naming convention (<video>.scene.json beside the
// caption file).
//
// A missing scene artifact is NOT an error. The resolver logs an
// informational note, flags the context, and produces no output; the
// downstream merge and write steps then fail their IsExecutable
// preconditions and are skipped, so the video simply yields no merged
// artifact. A scene artifact that exists but cannot be parsed IS an error
// (malformed input), recorded like any other per-video failure.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
)

// SceneArtifactResolver is a command that loads a video's scene artifact.
type SceneArtifactResolver struct {
	cor.BaseCommand
}

// NewSceneArtifactResolver is the constructor for the SceneArtifactResolver
// command. The resolver reads the caption path parameter rather than the
// piped input, so it can sit anywhere in the chain.
func NewSceneArtifactResolver(name string, outputParamName string) *SceneArtifactResolver {
	out := &SceneArtifactResolver{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = GetCaptionPathParamName()
	out.OutputParamName = outputParamName
	return out
}

// Execute resolves and loads the companion scene artifact.
func (s *SceneArtifactResolver) Execute(context cor.Context) {
	captionPath := context.Get(s.GetInputParam()).(string)
	scenePath := model.ScenePath(captionPath)

	raw, err := os.ReadFile(scenePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Soft skip: the video is recorded as skipped, not failed.
			slog.InfoContext(context.GetContext(), "no scene artifact for video; skipping",
				"video", model.VideoID(captionPath),
				"scene_path", scenePath,
				"run_id", context.GetRunID())
			context.Add(GetSceneMissingParamName(), true)
			return
		}
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to read scene artifact %s: %w", scenePath, err))
		return
	}

	artifact := &model.SceneArtifact{}
	if err := json.Unmarshal(raw, artifact); err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to unmarshal scene artifact %s: %w", scenePath, err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), artifact)
}
