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

// Package timeline implements the consolidation engine: timestamp
// canonicalization, the textual similarity predicate, anchor-based run
// grouping, and scene segmentation. Everything in this package is a pure
// function over already-extracted data; no I/O, no side effects.
//
// This file is the timestamp codec. Captioners emit keys in several shapes
// ("[0:00:05]", "000:00:05.000", "00:00:05"), and the rest of the system
// orders timestamps by plain string comparison, so every stored timestamp
// must be in one canonical, lexicographically time-ordered form.
package timeline

import (
	"fmt"
	"math"
	"strings"
)

// Canonicalize converts a raw timestamp key to canonical HH:MM:SS.mmm form.
// It is a total function and never fails:
//
//   - input already containing both ':' and '.' is treated as canonical and
//     returned unchanged;
//   - otherwise enclosing brackets are stripped and the value is split on
//     ':'; exactly three fields are zero-padded to at least two digits each
//     and a ".000" millisecond field is appended (caption keys carry no
//     sub-second resolution);
//   - any other field count is passed through unchanged rather than raised,
//     so one malformed key cannot abort a whole video.
func Canonicalize(raw string) string {
	if strings.Contains(raw, ".") && strings.Contains(raw, ":") {
		return raw
	}

	clean := strings.Trim(raw, "[]")
	parts := strings.Split(clean, ":")
	if len(parts) != 3 {
		return raw
	}

	return fmt.Sprintf("%s:%s:%s.000", zfill(parts[0], 2), zfill(parts[1], 2), zfill(parts[2], 2))
}

// zfill left-pads s with zeros to at least width characters. Longer values
// (three-digit hour fields from long recordings) are kept as-is so they
// still sort after two-digit hours.
func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// FormatSeconds renders a position in seconds as an HH:MM:SS.mmm display
// timestamp with zero-padded two-digit hours and minutes and three-decimal
// seconds. Used for scene boundaries derived from the video duration, which
// arrives as a float rather than a detector timestamp.
func FormatSeconds(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := math.Mod(seconds, 60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}
