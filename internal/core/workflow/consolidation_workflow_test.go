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

// Package workflow_test contains integration tests for the per-video
// consolidation workflow: full chain runs from a caption file on disk to a
// merged artifact on disk, including the soft-skip and failure paths.
//
// TestMain performs the global initialization shared by every test in the
// package: loading the test configuration and setting up logging.
package workflow_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	appconfig "github.com/muziris/video-timeline/internal/config"
	"github.com/muziris/video-timeline/internal/core/commands"
	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
	"github.com/muziris/video-timeline/internal/core/workflow"
	test "github.com/muziris/video-timeline/internal/testutil"
)

// Shared resources for the test suite, initialized once in TestMain.
var (
	ctx    context.Context
	config *appconfig.Config
)

const tName = "github.com/muziris/video-timeline/tests/workflow"

var logger = otelslog.NewLogger(tName)

// TestMain is the entry point for the test suite. It loads the test
// configuration and provides a root context to all tests in the package.
func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	// Load application configuration from test-specific files
	// (`.env.test.toml`).
	config = test.GetConfig()

	logger.Info("completed test setup")

	os.Exit(m.Run())
}

// newVideoContext seeds a pipeline context for one caption file the same
// way the batch runner does.
func newVideoContext(captionPath string) cor.Context {
	out := cor.NewBaseContext()
	out.SetContext(ctx)
	out.Add(cor.CtxIn, captionPath)
	out.Add(commands.GetCaptionPathParamName(), captionPath)
	return out
}

// TestConsolidationWorkflow runs the full chain over a caption file with a
// companion scene artifact and checks the merged artifact on disk.
func TestConsolidationWorkflow(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_001"+model.CaptionSuffix)
	require.NoError(t, os.WriteFile(captionPath, []byte(test.GetTestCaptionText()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VID_001"+model.SceneSuffix), []byte(test.GetTestSceneText()), 0o644))

	pipeline := workflow.NewVideoConsolidationWorkflow(config.Consolidation.SimilarityThreshold)
	videoCtx := newVideoContext(captionPath)
	pipeline.Execute(videoCtx)

	// The chain completed without per-video errors.
	require.False(t, videoCtx.HasErrors(), "errors: %v", videoCtx.GetErrors())

	// The writer recorded the output path, and the file exists.
	mergedPath, ok := videoCtx.Get(commands.GetMergedPathParamName()).(string)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "VID_001"+model.MergedSuffix), mergedPath)

	raw, err := os.ReadFile(mergedPath)
	require.NoError(t, err)

	var merged model.MergedArtifact
	require.NoError(t, json.Unmarshal(raw, &merged))

	// The four test captions collapse into two segments at the default
	// threshold (three near-identical "red car" captions, one "bicycle").
	require.Len(t, merged.Timestamps, 2)
	assert.Equal(t, "000:00:00.000", merged.Timestamps[0].StartTime)
	assert.Equal(t, "000:00:04.000", merged.Timestamps[0].EndTime)
	assert.Equal(t, "000:00:06.000", merged.Timestamps[1].StartTime)

	// The scene block is copied through from the scene artifact.
	assert.Equal(t, 0.3, merged.SceneInfo.SceneThreshold)
	assert.Equal(t, 2, merged.SceneInfo.TotalScenes)
	assert.Len(t, merged.SceneInfo.Scenes, 2)
}

// TestConsolidationWorkflowSoftSkip verifies that a caption file with no
// companion scene artifact flows through the whole chain without errors and
// without producing a merged artifact.
func TestConsolidationWorkflowSoftSkip(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_002"+model.CaptionSuffix)
	require.NoError(t, os.WriteFile(captionPath, []byte(test.GetTestCaptionText()), 0o644))

	pipeline := workflow.NewVideoConsolidationWorkflow(config.Consolidation.SimilarityThreshold)
	videoCtx := newVideoContext(captionPath)
	pipeline.Execute(videoCtx)

	// Not an error, just a skip.
	assert.False(t, videoCtx.HasErrors())
	assert.NotNil(t, videoCtx.Get(commands.GetSceneMissingParamName()))
	assert.Nil(t, videoCtx.Get(commands.GetMergedPathParamName()))

	// Nothing was written.
	_, err := os.Stat(filepath.Join(dir, "VID_002"+model.MergedSuffix))
	assert.True(t, os.IsNotExist(err))
}

// TestConsolidationWorkflowMalformedCaption verifies that malformed caption
// input fails the video: the chain stops, an error is recorded, and no
// output is written.
func TestConsolidationWorkflowMalformedCaption(t *testing.T) {
	dir := t.TempDir()
	captionPath := filepath.Join(dir, "VID_003"+model.CaptionSuffix)
	require.NoError(t, os.WriteFile(captionPath, []byte(`{"not a caption": `), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VID_003"+model.SceneSuffix), []byte(test.GetTestSceneText()), 0o644))

	pipeline := workflow.NewVideoConsolidationWorkflow(config.Consolidation.SimilarityThreshold)
	videoCtx := newVideoContext(captionPath)
	pipeline.Execute(videoCtx)

	assert.True(t, videoCtx.HasErrors())
	assert.Nil(t, videoCtx.Get(commands.GetMergedPathParamName()))

	_, err := os.Stat(filepath.Join(dir, "VID_003"+model.MergedSuffix))
	assert.True(t, os.IsNotExist(err))
}
