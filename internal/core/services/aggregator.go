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
// pipeline. This file is the folder aggregator: it rolls per-video merged
// artifacts up into per-folder summaries and one flat top-level summary.
//
// Summary contents are read back from disk, never recomputed, and the
// videos map is serialized in sorted key order with the raw artifact bytes
// embedded verbatim — rebuilding summaries over unchanged inputs is
// therefore byte-identical.
package services

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/muziris/video-timeline/internal/core/model"
)

// FolderAggregator builds and writes folder summaries for a content tree.
type FolderAggregator struct {
	Root string
}

// BuildFolderSummary collects the per-video merged artifacts found directly
// in dir (not recursively) into a FolderSummary. The folder's own summary
// file is excluded by the naming-convention check. Returns nil when the
// directory holds no per-video artifacts. Unreadable artifacts are logged
// and left out rather than failing the whole summary.
func (a *FolderAggregator) BuildFolderSummary(dir string) (*model.FolderSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	folderName := filepath.Base(dir)
	videos := make(map[string]json.RawMessage)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, model.MergedSuffix) {
			continue
		}
		if model.IsSummaryArtifact(name, folderName) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read merged artifact for summary", "path", name, "error", err)
			continue
		}
		videoID := strings.TrimSuffix(name, model.MergedSuffix)
		videos[videoID] = raw
	}

	if len(videos) == 0 {
		return nil, nil
	}
	return &model.FolderSummary{Folder: folderName, Videos: videos}, nil
}

// WriteFolderSummaries walks the tree and writes a <folder>.descriptions.json
// summary into every directory that directly contains at least one per-video
// merged artifact. Returns the number of summaries written.
func (a *FolderAggregator) WriteFolderSummaries() (int, error) {
	written := 0
	err := filepath.WalkDir(a.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		summary, err := a.BuildFolderSummary(path)
		if err != nil {
			return err
		}
		if summary == nil {
			return nil
		}
		if err := writeSummary(filepath.Join(path, summary.Folder+model.MergedSuffix), summary); err != nil {
			return err
		}
		written++
		return nil
	})
	return written, err
}

// WriteTopLevelSummary writes the flat whole-tree summary at the root,
// mapping every processed video identifier to its merged artifact bytes.
// Returns the path written.
func (a *FolderAggregator) WriteTopLevelSummary(videos map[string]json.RawMessage) (string, error) {
	summary := &model.FolderSummary{Folder: filepath.Base(a.Root), Videos: videos}
	path := filepath.Join(a.Root, summary.Folder+model.MergedSuffix)
	if err := writeSummary(path, summary); err != nil {
		return "", err
	}
	return path, nil
}

// writeSummary serializes a summary with two-space indentation, marshaling
// fully before the file is touched so a failure leaves no partial summary.
func writeSummary(path string, summary *model.FolderSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
