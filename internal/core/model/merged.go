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
// This file contains the output artifacts: the per-video merged artifact
// pairing a consolidated timeline with its scene intervals, and the
// per-folder summary that rolls merged artifacts up the directory tree.
package model

import "encoding/json"

// MergedArtifact is the final per-video output, written once as
// <video>.descriptions.json. It exists only for videos that produced both a
// consolidated timeline and a companion scene artifact.
//
// The "scenes-info" key (not "scene_info") is a wire contract consumed by
// downstream rendering and cleanup tools; do not rename it.
type MergedArtifact struct {
	Timestamps []TimelineSegment `json:"timestamps"`
	SceneInfo  SceneInfo         `json:"scenes-info"`
}

// FolderSummary aggregates the merged artifacts of one directory (or, for
// the top-level summary, of the whole input tree). Values are kept as raw
// JSON read back from disk rather than re-decoded structs so that a rebuild
// over unchanged inputs is byte-identical: encoding/json writes map entries
// in sorted key order, and the raw values are reproduced verbatim.
type FolderSummary struct {
	Folder string                     `json:"folder"`
	Videos map[string]json.RawMessage `json:"videos"`
}
