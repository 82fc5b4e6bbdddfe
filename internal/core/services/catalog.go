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

// Package services contains the business services built on top of the
// pipeline: the artifact catalog, the folder aggregator, and the batch
// runner. This file is the catalog: enumeration of artifacts in a content
// tree by the file-naming convention, and the coverage scan for raw videos
// that never produced a caption artifact.
package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"

	"github.com/muziris/video-timeline/internal/core/model"
)

// videoExtensions are the container formats the upstream extraction tools
// accept. The coverage scan uses them as a fast path before content
// sniffing.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".flv":  true,
	".m4v":  true,
	".wmv":  true,
}

// Catalog enumerates the artifacts of one content tree.
type Catalog struct {
	Root string
}

// FindCaptionFiles returns every per-video caption file under the root in
// sorted path order. Folder summary files that share the caption suffix are
// excluded, so a previous run's summaries are never re-ingested as videos.
func (c *Catalog) FindCaptionFiles() ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && model.IsCaptionFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FindMergedArtifacts returns every per-video merged artifact under the root
// in sorted path order. Folder summaries share the merged suffix and are
// excluded by the naming-convention check against their directory name.
func (c *Catalog) FindMergedArtifacts() ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, model.MergedSuffix) {
			return nil
		}
		if model.IsSummaryArtifact(filepath.Base(path), filepath.Base(filepath.Dir(path))) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FindUncaptionedVideos returns the video files under the root that have no
// caption artifact beside them. Videos are recognized by extension first and
// by content sniffing otherwise, so renamed or extension-less files still
// count. The result feeds the batch report's coverage note; it never affects
// processing.
func (c *Catalog) FindUncaptionedVideos() ([]string, error) {
	videos := make([]string, 0)
	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".json") {
			return nil
		}
		if !isVideoFile(path) {
			return nil
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		captionPath := filepath.Join(filepath.Dir(path), stem+model.CaptionSuffix)
		if _, statErr := os.Stat(captionPath); statErr != nil {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(videos)
	return videos, nil
}

// isVideoFile reports whether path looks like a video, by extension or by
// magic-number sniffing of the file header.
func isVideoFile(path string) bool {
	if videoExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	// 261 bytes is the longest header any registered matcher inspects.
	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return false
	}
	return filetype.IsVideo(head[:n])
}
