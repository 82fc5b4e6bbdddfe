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
// consolidation workflow. This file defines the shared context parameter
// names commands use to exchange data beyond the chain's default piping.
package commands

const (
	captionPathParam  = "__caption_path__"
	mergedPathParam   = "__merged_path__"
	sceneMissingParam = "__scene_missing__"
)

// GetCaptionPathParamName returns the context key holding the path of the
// caption file currently being processed. The workflow driver seeds it
// before executing the chain.
func GetCaptionPathParamName() string { return captionPathParam }

// GetMergedPathParamName returns the context key the writer stores the
// merged artifact's output path under.
func GetMergedPathParamName() string { return mergedPathParam }

// GetSceneMissingParamName returns the context key flagging that the video
// has no companion scene artifact. The batch runner uses it to record the
// video as skipped rather than failed.
func GetSceneMissingParamName() string { return sceneMissingParam }
