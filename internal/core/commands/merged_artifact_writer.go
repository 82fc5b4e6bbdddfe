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
// consolidation workflow. This file defines the final step: serializing the
// merged artifact to <video>.descriptions.json next to its inputs. The
// artifact is marshaled in full before the file is opened, so a failed
// video never leaves a partial output behind.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
)

// MergedArtifactWriter is a command that persists a MergedArtifact.
type MergedArtifactWriter struct {
	cor.BaseCommand
}

// NewMergedArtifactWriter is the constructor for the MergedArtifactWriter
// command.
func NewMergedArtifactWriter(name string) *MergedArtifactWriter {
	return &MergedArtifactWriter{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute writes the merged artifact and records the output path in the
// context for the batch runner.
func (s *MergedArtifactWriter) Execute(context cor.Context) {
	merged := context.Get(s.GetInputParam()).(*model.MergedArtifact)
	captionPath := context.Get(GetCaptionPathParamName()).(string)
	outputPath := model.MergedPath(captionPath)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to marshal merged artifact for %s: %w", captionPath, err))
		return
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to write merged artifact %s: %w", outputPath, err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetMergedPathParamName(), outputPath)
	context.Add(cor.CtxOut, outputPath)
}
