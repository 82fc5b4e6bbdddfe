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
// run grouper, the principal algorithm: it collapses a chronologically
// ordered sequence of (timestamp, caption) samples into time-range segments.
//
// The grouping is anchor-based run compression, not a sliding window: every
// sample in a run is compared against the run's ORIGINAL first caption (the
// anchor), never against its immediate predecessor. A long chain of
// gradually drifting captions therefore breaks into multiple runs as soon as
// one drifts too far from the anchor, instead of merging transitively into a
// single segment whose first and last captions have nothing in common.
package timeline

import (
	"sort"

	"github.com/muziris/video-timeline/internal/core/model"
)

// Group consolidates a raw caption map into an ordered timeline.
//
// The keys are always sorted lexicographically before grouping; canonical
// timestamp form sorts in time order, and map iteration order is never
// trusted as chronology. Every input sample lands in exactly one segment:
// the union of emitted ranges over the sorted keys covers the input with no
// drops and no duplicates.
//
// A single-sample input yields one segment with StartTime == EndTime. An
// empty input yields an empty (non-nil) timeline.
func Group(captions model.CaptionMap, threshold float64) []model.TimelineSegment {
	keys := make([]string, 0, len(captions))
	for k := range captions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	segments := make([]model.TimelineSegment, 0, len(keys))
	if len(keys) == 0 {
		return segments
	}

	anchor := captions[keys[0]]
	start := keys[0]
	last := keys[0]

	for _, ts := range keys[1:] {
		if Similar(anchor, captions[ts], threshold) {
			// Same run: extend the range. The anchor stays fixed.
			last = ts
			continue
		}
		segments = append(segments, model.TimelineSegment{
			StartTime:   Canonicalize(start),
			EndTime:     Canonicalize(last),
			Description: anchor,
		})
		anchor = captions[ts]
		start = ts
		last = ts
	}

	// The final run is always open when the loop ends; emit it.
	return append(segments, model.TimelineSegment{
		StartTime:   Canonicalize(start),
		EndTime:     Canonicalize(last),
		Description: anchor,
	})
}
