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
// This file encodes the artifact file-naming convention. The convention is
// part of the data contract between the pipeline stages: the captioner
// writes <video>.description.json, the scene detector writes
// <video>.scene.json, the consolidator writes <video>.descriptions.json,
// and a folder summary reuses the merged suffix with the folder's own name
// (<folder>.descriptions.json). Every place that enumerates artifacts must
// apply the same summary check, otherwise a summary re-ingests itself on
// the next run.
package model

import (
	"path/filepath"
	"strings"
)

// Artifact suffixes, in pipeline order.
const (
	CaptionSuffix = ".description.json"  // raw caption map, one per video
	SceneSuffix   = ".scene.json"        // raw scene artifact, one per video
	MergedSuffix  = ".descriptions.json" // merged artifact, also the summary suffix
)

// VideoID returns the base identifier of the video a caption file belongs
// to, e.g. "content/w1/VID_001.description.json" -> "VID_001".
func VideoID(captionPath string) string {
	return strings.TrimSuffix(filepath.Base(captionPath), CaptionSuffix)
}

// ScenePath returns the path of the companion scene artifact for a caption
// file, located in the same directory under the video's base identifier.
func ScenePath(captionPath string) string {
	return filepath.Join(filepath.Dir(captionPath), VideoID(captionPath)+SceneSuffix)
}

// MergedPath returns the output path for the merged artifact of a caption
// file, located in the same directory under the video's base identifier.
func MergedPath(captionPath string) string {
	return filepath.Join(filepath.Dir(captionPath), VideoID(captionPath)+MergedSuffix)
}

// IsSummaryArtifact reports whether fileName is a folder summary rather than
// a per-video artifact: a summary's name is exactly the containing folder's
// name plus the artifact suffix. The check is explicit (not a string
// coincidence scattered across call sites) so it stays testable and immune
// to accidental collisions.
func IsSummaryArtifact(fileName string, folderName string) bool {
	return fileName == folderName+CaptionSuffix || fileName == folderName+MergedSuffix
}

// IsCaptionFile reports whether path names a per-video caption map: it must
// carry the caption suffix and must not be the containing folder's summary.
func IsCaptionFile(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, CaptionSuffix) {
		return false
	}
	return !IsSummaryArtifact(name, filepath.Base(filepath.Dir(path)))
}
