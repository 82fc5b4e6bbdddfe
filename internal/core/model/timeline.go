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
// This file contains the caption-side types: the raw per-instant caption map
// produced by the external captioning collaborator, and the consolidated
// timeline segments produced by the run grouper.
package model

// CaptionMap is the raw input for one video: a mapping from a capture-order
// timestamp key to the short natural-language caption observed at that
// instant. Keys are unique per video but are not guaranteed to be in
// canonical timestamp form on input.
type CaptionMap map[string]string

// CaptionDocument is the one-level-nested wrapper shape some caption
// extractors emit: {"videos": {"<id>": {"<timestamp>": "<caption>", ...}}}.
// A valid document contains exactly one video entry.
type CaptionDocument struct {
	Videos map[string]CaptionMap `json:"videos"`
}

// TimelineSegment is one labeled time range of a consolidated timeline.
// Both timestamps are in canonical HH:MM:SS.mmm form and StartTime never
// sorts after EndTime. Adjacent segments in a timeline always carry
// dissimilar descriptions; similar neighbors would have been merged into a
// single run by the grouper.
type TimelineSegment struct {
	StartTime   string `json:"start_time"`  // Canonical timestamp of the first sample in the run.
	EndTime     string `json:"end_time"`    // Canonical timestamp of the last sample in the run.
	Description string `json:"description"` // The anchor caption the whole run was judged similar to.
}
