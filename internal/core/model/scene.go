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

// Package model defines the core data structures for the application.
// This file contains the scene-side types: the raw change points emitted by
// the external visual scene-change detector, and the contiguous scene
// intervals the segmenter builds from them.
package model

// SceneChangePoint is a single detected visual change. Points are ordered by
// Seconds ascending; duplicate Seconds values are permitted and preserved in
// detection order. The Timestamp field keeps the detector's raw display form
// (e.g. "0:00:04.100000") rather than the canonical form, because scene
// intervals quote it verbatim.
type SceneChangePoint struct {
	FrameNumber int     `json:"frame_number"` // Zero-based frame index of the change.
	Timestamp   string  `json:"timestamp"`    // Raw detector timestamp for the frame.
	Seconds     float64 `json:"seconds"`      // Position of the change in seconds from the start.
	SceneScore  float64 `json:"scene_score"`  // Detector confidence; may be a placeholder, see timeline.PlaceholderScore.
}

// SceneInterval is one contiguous span between two consecutive change points
// (or a video boundary). A full interval sequence covers [0, duration] with
// no gaps and no overlaps, with SceneNumber 1-based and strictly increasing.
type SceneInterval struct {
	SceneNumber  int                `json:"scene_number"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	Duration     float64            `json:"duration"`      // Interval length in seconds, rounded to 3 decimals.
	SceneChanges []SceneChangePoint `json:"scene_changes"` // The single change point that opened this interval; empty for the whole-video interval.
}

// SceneArtifact is the on-disk companion file the detector writes next to
// each video (<video>.scene.json). SceneThreshold and TotalScenes are
// pointers so a missing field can be told apart from an explicit zero; the
// merger substitutes documented defaults when they are absent.
type SceneArtifact struct {
	VideoFile      string          `json:"video_file"`
	SceneThreshold *float64        `json:"scene_threshold"`
	TotalScenes    *int            `json:"total_scenes"`
	Scenes         []SceneInterval `json:"scenes"`
}

// SceneInfo is the scene block embedded in a merged per-video artifact,
// copied verbatim from the resolved SceneArtifact with defaults applied.
type SceneInfo struct {
	SceneThreshold float64         `json:"scene_threshold"`
	TotalScenes    int             `json:"total_scenes"`
	Scenes         []SceneInterval `json:"scenes"`
}
