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

// Package model_test contains unit tests for the data models. This file
// tests the artifact file-naming convention, which every artifact
// enumeration in the system depends on.
package model_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muziris/video-timeline/internal/core/model"
)

// TestArtifactPaths verifies the derivation of companion and output paths
// from a caption file path.
func TestArtifactPaths(t *testing.T) {
	captionPath := filepath.Join("content", "w1", "VID_001.description.json")

	assert.Equal(t, "VID_001", model.VideoID(captionPath))
	assert.Equal(t, filepath.Join("content", "w1", "VID_001.scene.json"), model.ScenePath(captionPath))
	assert.Equal(t, filepath.Join("content", "w1", "VID_001.descriptions.json"), model.MergedPath(captionPath))
}

// TestIsSummaryArtifact verifies the explicit summary check: a file whose
// name is exactly the containing folder's name plus an artifact suffix is a
// summary, everything else is a per-video artifact.
func TestIsSummaryArtifact(t *testing.T) {
	// The folder's own summary, under either suffix.
	assert.True(t, model.IsSummaryArtifact("w1.descriptions.json", "w1"))
	assert.True(t, model.IsSummaryArtifact("w1.description.json", "w1"))

	// Per-video artifacts in the same folder.
	assert.False(t, model.IsSummaryArtifact("VID_001.descriptions.json", "w1"))
	assert.False(t, model.IsSummaryArtifact("VID_001.description.json", "w1"))

	// A video that happens to share a prefix with the folder name is not a
	// summary; the match is exact, not a prefix check.
	assert.False(t, model.IsSummaryArtifact("w1_extra.descriptions.json", "w1"))
}

// TestIsCaptionFile verifies caption-file detection, including the summary
// exclusion that keeps a previous run's folder summaries from being
// re-ingested as videos.
func TestIsCaptionFile(t *testing.T) {
	assert.True(t, model.IsCaptionFile(filepath.Join("content", "w1", "VID_001.description.json")))

	// Wrong suffix.
	assert.False(t, model.IsCaptionFile(filepath.Join("content", "w1", "VID_001.scene.json")))
	assert.False(t, model.IsCaptionFile(filepath.Join("content", "w1", "VID_001.descriptions.json")))

	// The folder's own caption-suffixed summary is not a per-video caption.
	assert.False(t, model.IsCaptionFile(filepath.Join("content", "w1", "w1.description.json")))

	// The same file name in a differently named folder IS a caption.
	assert.True(t, model.IsCaptionFile(filepath.Join("content", "w2", "w1.description.json")))
}
