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

// Package commands_test contains unit tests for the individual pipeline
// commands: caption reading and shape detection, scene artifact resolution
// with its soft-skip behavior, merging with defaults, and artifact writing.
package commands_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muziris/video-timeline/internal/core/commands"
	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
	test "github.com/muziris/video-timeline/internal/testutil"
)

// newCommandContext builds a pipeline context seeded the way the batch
// runner seeds it for one caption file.
func newCommandContext(captionPath string) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, captionPath)
	ctx.Add(commands.GetCaptionPathParamName(), captionPath)
	return ctx
}

// writeFile is a small helper for laying out test artifacts.
func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestCaptionMapReaderDirectShape verifies that a direct timestamp-to-caption
// object is recognized by its "000:"-prefixed keys and loaded as-is.
func TestCaptionMapReaderDirectShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
	writeFile(t, path, test.GetTestCaptionText())

	ctx := newCommandContext(path)
	reader := commands.NewCaptionMapReader("read-caption-map")
	reader.Execute(ctx)

	require.False(t, ctx.HasErrors())
	captions, ok := ctx.Get(cor.CtxOut).(model.CaptionMap)
	require.True(t, ok)
	assert.Len(t, captions, 4)
	assert.Equal(t, "A red car drives down a sunny road", captions["000:00:00.000"])
}

// TestCaptionMapReaderWrappedShape verifies that the single-entry "videos"
// envelope unwraps to the inner caption map.
func TestCaptionMapReaderWrappedShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
	writeFile(t, path, test.GetTestWrappedCaptionText())

	ctx := newCommandContext(path)
	reader := commands.NewCaptionMapReader("read-caption-map")
	reader.Execute(ctx)

	require.False(t, ctx.HasErrors())
	captions, ok := ctx.Get(cor.CtxOut).(model.CaptionMap)
	require.True(t, ok)
	assert.Len(t, captions, 4)
	assert.Equal(t, "A person rides a bicycle through a park", captions["000:00:06.000"])
}

// TestCaptionMapReaderMalformed verifies that invalid JSON and unrecognized
// document shapes are recorded as per-video errors, not panics.
func TestCaptionMapReaderMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"000:00:00.000": "truncated`},
		{"unrecognized shape", `{"metadata": "no caption keys here"}`},
		{"multi video envelope", `{"videos": {"a": {"000:00:00.000": "x"}, "b": {"000:00:00.000": "y"}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
			writeFile(t, path, tc.content)

			ctx := newCommandContext(path)
			reader := commands.NewCaptionMapReader("read-caption-map")
			reader.Execute(ctx)

			assert.True(t, ctx.HasErrors())
			assert.Nil(t, ctx.Get(cor.CtxOut))
		})
	}
}

// TestSceneArtifactResolverLoads verifies the happy path: the companion
// scene artifact is located by naming convention and decoded.
func TestSceneArtifactResolverLoads(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
	writeFile(t, captionPath, test.GetTestCaptionText())
	writeFile(t, filepath.Join(dir, "VID_001"+model.SceneSuffix), test.GetTestSceneText())

	ctx := newCommandContext(captionPath)
	resolver := commands.NewSceneArtifactResolver("resolve-scene-artifact", "scene_out")
	resolver.Execute(ctx)

	require.False(t, ctx.HasErrors())
	artifact, ok := ctx.Get("scene_out").(*model.SceneArtifact)
	require.True(t, ok)
	assert.Equal(t, "VID_001.mp4", artifact.VideoFile)
	require.NotNil(t, artifact.SceneThreshold)
	assert.Equal(t, 0.3, *artifact.SceneThreshold)
	assert.Len(t, artifact.Scenes, 2)
}

// TestSceneArtifactResolverSoftSkip verifies that a missing scene artifact
// flags the context and records NO error: the video must be counted as
// skipped, not failed.
func TestSceneArtifactResolverSoftSkip(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
	writeFile(t, captionPath, test.GetTestCaptionText())
	// No scene artifact on disk.

	ctx := newCommandContext(captionPath)
	resolver := commands.NewSceneArtifactResolver("resolve-scene-artifact", "scene_out")
	resolver.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Nil(t, ctx.Get("scene_out"))
	assert.NotNil(t, ctx.Get(commands.GetSceneMissingParamName()))
}

// TestSceneArtifactResolverMalformed verifies that a scene artifact that
// exists but cannot be parsed IS an error, unlike the missing case.
func TestSceneArtifactResolverMalformed(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
	writeFile(t, captionPath, test.GetTestCaptionText())
	writeFile(t, filepath.Join(dir, "VID_001"+model.SceneSuffix), `{"scenes": [broken`)

	ctx := newCommandContext(captionPath)
	resolver := commands.NewSceneArtifactResolver("resolve-scene-artifact", "scene_out")
	resolver.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Nil(t, ctx.Get(commands.GetSceneMissingParamName()))
}

// TestArtifactMergerDefaults verifies the documented defaults: a scene
// artifact with no scene_threshold, no total_scenes, and no scenes list
// merges into scene_threshold 0.4, total_scenes 0, and an empty (non-nil)
// scenes array.
func TestArtifactMergerDefaults(t *testing.T) {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add("timeline_out", []model.TimelineSegment{
		{StartTime: "000:00:00.000", EndTime: "000:00:04.000", Description: "a caption"},
	})
	ctx.Add("scene_out", &model.SceneArtifact{VideoFile: "VID_001.mp4"})

	merger := commands.NewArtifactMerger("merge-timeline-scenes", "timeline_out", "scene_out", "merged_out")
	require.True(t, merger.IsExecutable(ctx))
	merger.Execute(ctx)

	require.False(t, ctx.HasErrors())
	merged, ok := ctx.Get("merged_out").(*model.MergedArtifact)
	require.True(t, ok)
	assert.Equal(t, commands.DefaultSceneThreshold, merged.SceneInfo.SceneThreshold)
	assert.Equal(t, commands.DefaultTotalScenes, merged.SceneInfo.TotalScenes)
	require.NotNil(t, merged.SceneInfo.Scenes)
	assert.Len(t, merged.SceneInfo.Scenes, 0)
	assert.Len(t, merged.Timestamps, 1)
}

// TestArtifactMergerExplicitZeroes verifies that explicit zero values in the
// scene artifact are preserved, not replaced by defaults: absence and zero
// are different.
func TestArtifactMergerExplicitZeroes(t *testing.T) {
	threshold := 0.0
	total := 0

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add("timeline_out", []model.TimelineSegment{})
	ctx.Add("scene_out", &model.SceneArtifact{
		SceneThreshold: &threshold,
		TotalScenes:    &total,
		Scenes:         []model.SceneInterval{},
	})

	merger := commands.NewArtifactMerger("merge-timeline-scenes", "timeline_out", "scene_out", "merged_out")
	merger.Execute(ctx)

	merged := ctx.Get("merged_out").(*model.MergedArtifact)
	assert.Equal(t, 0.0, merged.SceneInfo.SceneThreshold)
	assert.Equal(t, 0, merged.SceneInfo.TotalScenes)
}

// TestArtifactMergerNotExecutableWithoutScene verifies the precondition that
// implements the soft skip: no scene artifact in the context means the merge
// step does not run.
func TestArtifactMergerNotExecutableWithoutScene(t *testing.T) {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add("timeline_out", []model.TimelineSegment{})

	merger := commands.NewArtifactMerger("merge-timeline-scenes", "timeline_out", "scene_out", "merged_out")
	assert.False(t, merger.IsExecutable(ctx))
}

// TestMergedArtifactWriter verifies the final step: the merged artifact is
// serialized with two-space indentation to <video>.descriptions.json beside
// the caption file, under the "timestamps" and "scenes-info" keys.
func TestMergedArtifactWriter(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_001"+model.CaptionSuffix)

	merged := &model.MergedArtifact{
		Timestamps: []model.TimelineSegment{
			{StartTime: "000:00:00.000", EndTime: "000:00:04.000", Description: "a caption"},
		},
		SceneInfo: model.SceneInfo{
			SceneThreshold: 0.3,
			TotalScenes:    2,
			Scenes:         []model.SceneInterval{},
		},
	}

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, merged)
	ctx.Add(commands.GetCaptionPathParamName(), captionPath)

	writer := commands.NewMergedArtifactWriter("write-merged-artifact")
	writer.Execute(ctx)

	require.False(t, ctx.HasErrors())
	outputPath, ok := ctx.Get(commands.GetMergedPathParamName()).(string)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "VID_001"+model.MergedSuffix), outputPath)

	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	// The wire keys are a contract with downstream tools.
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "timestamps")
	assert.Contains(t, decoded, "scenes-info")

	// Round-trips back into the model type without loss.
	var roundTripped model.MergedArtifact
	require.NoError(t, json.Unmarshal(raw, &roundTripped))
	assert.Equal(t, *merged, roundTripped)
}
