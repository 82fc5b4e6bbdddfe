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

// Package services_test contains unit tests for the business services. This
// file tests the artifact catalog: caption enumeration with summary
// exclusion, merged artifact enumeration, and the coverage scan for
// uncaptioned videos. The coverage scan's content sniffing is exercised with
// a hand-written MP4 header, mirroring how the detection behaves on real
// files with missing extensions.
package services_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/assert"

	"github.com/muziris/video-timeline/internal/core/model"
	"github.com/muziris/video-timeline/internal/core/services"
)

// mp4Header is the start of a minimal ISO base media file: a valid ftyp box.
// Enough for magic-number detection without shipping a binary fixture.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

// TestFindCaptionFiles verifies recursive caption enumeration in sorted
// order, with folder summaries excluded.
func TestFindCaptionFiles(t *testing.T) {
	root := t.TempDir()
	w1 := filepath.Join(root, "w1")
	require.NoError(t, os.MkdirAll(w1, 0o755))

	// Two per-video captions plus one folder summary sharing the suffix.
	for _, p := range []string{
		filepath.Join(w1, "VID_002"+model.CaptionSuffix),
		filepath.Join(w1, "VID_001"+model.CaptionSuffix),
		filepath.Join(w1, "w1"+model.CaptionSuffix),
	} {
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}

	catalog := &services.Catalog{Root: root}
	files, err := catalog.FindCaptionFiles()
	require.NoError(t, err)

	assert.Equal(t, 2, len(files))
	assert.True(t, sort.StringsAreSorted(files))
	assert.Equal(t, "VID_001", model.VideoID(files[0]))
	assert.Equal(t, "VID_002", model.VideoID(files[1]))
}

// TestFindMergedArtifacts verifies merged-artifact enumeration with the
// summary exclusion applied per containing folder.
func TestFindMergedArtifacts(t *testing.T) {
	root := t.TempDir()
	w1 := filepath.Join(root, "w1")
	require.NoError(t, os.MkdirAll(w1, 0o755))

	for _, p := range []string{
		filepath.Join(w1, "VID_001"+model.MergedSuffix),
		filepath.Join(w1, "w1"+model.MergedSuffix), // folder summary
	} {
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}

	catalog := &services.Catalog{Root: root}
	files, err := catalog.FindMergedArtifacts()
	require.NoError(t, err)

	assert.Equal(t, 1, len(files))
	assert.Equal(t, filepath.Join(w1, "VID_001"+model.MergedSuffix), files[0])
}

// TestFindUncaptionedVideos verifies the coverage scan: videos recognized by
// extension or by content sniffing count as uncaptioned exactly when no
// companion caption file sits beside them.
func TestFindUncaptionedVideos(t *testing.T) {
	root := t.TempDir()

	// A video with a caption: covered.
	require.NoError(t, os.WriteFile(filepath.Join(root, "covered.mp4"), mp4Header, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "covered"+model.CaptionSuffix), []byte("{}"), 0o644))

	// A video without a caption: uncaptioned.
	require.NoError(t, os.WriteFile(filepath.Join(root, "orphan.mp4"), mp4Header, 0o644))

	// A video with a misleading extension, detected by content: uncaptioned.
	require.NoError(t, os.WriteFile(filepath.Join(root, "renamed.bak"), mp4Header, 0o644))

	// A text file: not a video at all.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("notes"), 0o644))

	catalog := &services.Catalog{Root: root}
	videos, err := catalog.FindUncaptionedVideos()
	require.NoError(t, err)

	assert.Equal(t, 2, len(videos))
	assert.Equal(t, filepath.Join(root, "orphan.mp4"), videos[0])
	assert.Equal(t, filepath.Join(root, "renamed.bak"), videos[1])
}
