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

// Package timeline implements the consolidation engine. This file is the
// scene segmenter: it turns the detector's raw list of change points into a
// contiguous, non-overlapping sequence of scene intervals covering the full
// video duration, plus the parsing of the detector's diagnostic output into
// change points in the first place.
package timeline

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/muziris/video-timeline/internal/core/model"
)

// PlaceholderScore is the stand-in confidence recorded on a change point
// when the detector's diagnostic line carries no parseable score: the
// detection threshold plus 0.1. This reproduces the behavior of the upstream
// extraction exactly. It is almost certainly not the detector's true score,
// but downstream consumers rely on the current artifact bytes, so the value
// is kept rather than silently corrected.
func PlaceholderScore(threshold float64) float64 {
	return threshold + 0.1
}

// Segment builds scene intervals from an ordered change-point list and the
// video's total duration in seconds.
//
// With no change points the whole video is a single scene. Otherwise each
// change point opens one interval: its raw timestamp is the start, the next
// change point's raw timestamp (or the formatted duration for the last
// interval) is the end, and exactly that one change point is recorded as the
// interval's source. Interval durations come from the Seconds fields and are
// rounded to three decimals. Scene numbers are 1-based and strictly
// increasing, so the output always covers [0, duration] with no gap and no
// overlap.
func Segment(changes []model.SceneChangePoint, duration float64) []model.SceneInterval {
	if len(changes) == 0 {
		return []model.SceneInterval{{
			SceneNumber:  1,
			StartTime:    "00:00:00.000",
			EndTime:      FormatSeconds(duration),
			Duration:     duration,
			SceneChanges: []model.SceneChangePoint{},
		}}
	}

	scenes := make([]model.SceneInterval, 0, len(changes))
	for i, change := range changes {
		endTime := FormatSeconds(duration)
		endSeconds := duration
		if i < len(changes)-1 {
			endTime = changes[i+1].Timestamp
			endSeconds = changes[i+1].Seconds
		}

		scenes = append(scenes, model.SceneInterval{
			SceneNumber:  i + 1,
			StartTime:    change.Timestamp,
			EndTime:      endTime,
			Duration:     round3(endSeconds - change.Seconds),
			SceneChanges: []model.SceneChangePoint{change},
		})
	}
	return scenes
}

// Diagnostic-line fields of interest in the detector's filter output.
var (
	frameNumberPattern = regexp.MustCompile(`n:(\d+)`)
	ptsTimePattern     = regexp.MustCompile(`pts_time:(\d+:\d+:\d+\.\d+)`)
)

// ParseDetectorOutput extracts change points from the scene detector's
// diagnostic text (the showinfo lines of an ffmpeg select filter run). Lines
// without both a frame number and a pts_time are ignored. The detector does
// not expose the per-frame change score on these lines, so every point is
// recorded with PlaceholderScore(threshold). The result is sorted by Seconds
// ascending, preserving detection order for equal positions.
func ParseDetectorOutput(diagnostics string, threshold float64) []model.SceneChangePoint {
	changes := make([]model.SceneChangePoint, 0)
	for _, line := range strings.Split(diagnostics, "\n") {
		if !strings.Contains(line, "select:") || !strings.Contains(line, "n:") {
			continue
		}
		frameMatch := frameNumberPattern.FindStringSubmatch(line)
		if frameMatch == nil {
			continue
		}
		timeMatch := ptsTimePattern.FindStringSubmatch(line)
		if timeMatch == nil {
			continue
		}

		frameNumber, _ := strconv.Atoi(frameMatch[1])
		changes = append(changes, model.SceneChangePoint{
			FrameNumber: frameNumber,
			Timestamp:   timeMatch[1],
			Seconds:     clockToSeconds(timeMatch[1]),
			SceneScore:  PlaceholderScore(threshold),
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Seconds < changes[j].Seconds
	})
	return changes
}

// clockToSeconds converts a raw H:MM:SS.ffffff detector timestamp to
// seconds. Anything that does not split into three fields maps to zero.
func clockToSeconds(raw string) float64 {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.ParseFloat(parts[2], 64)
	return float64(hours)*3600 + float64(minutes)*60 + seconds
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
