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

// Package timeline_test contains unit tests for the consolidation engine.
// This file tests the timestamp codec: canonicalization of the several raw
// key shapes the captioners emit, and rendering of float positions as
// display timestamps.
package timeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muziris/video-timeline/internal/core/timeline"
)

// TestCanonicalize verifies the canonicalization rules for every input
// shape: already-canonical values pass through untouched, bracketed and
// unpadded clock values are normalized, and anything unparseable is returned
// unchanged rather than failing the video.
func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		// Already canonical: contains both ':' and '.', returned as-is.
		{"canonical passthrough", "00:00:05.000", "00:00:05.000"},
		// Three-digit hour fields are canonical too and must not be touched.
		{"three digit hour passthrough", "000:00:02.000", "000:00:02.000"},
		// Bracketed single-digit-hour clock value.
		{"bracketed clock", "[0:00:05]", "00:00:05.000"},
		// Plain clock value without milliseconds.
		{"plain clock", "00:00:05", "00:00:05.000"},
		// Unpadded fields get zero-filled to two digits each.
		{"unpadded fields", "1:2:3", "01:02:03.000"},
		// Hours longer than two digits are preserved, not truncated.
		{"long hour field", "100:00:00", "100:00:00.000"},
		// Not a three-field clock value: passed through unchanged.
		{"field count mismatch", "5", "5"},
		{"two fields", "00:05", "00:05"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timeline.Canonicalize(tc.in))
		})
	}
}

// TestCanonicalizeIsIdempotent verifies that canonicalizing an already
// canonicalized value is a no-op for every shape the codec produces.
func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := []string{"[0:00:05]", "00:00:05", "1:2:3", "000:00:00.000", "garbage"}
	for _, in := range inputs {
		once := timeline.Canonicalize(in)
		assert.Equal(t, once, timeline.Canonicalize(once), "input %q", in)
	}
}

// TestFormatSeconds verifies the HH:MM:SS.mmm rendering of float positions,
// including the zero padding on all three fields.
func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00:00.000", timeline.FormatSeconds(0))
	assert.Equal(t, "00:00:12.500", timeline.FormatSeconds(12.5))
	assert.Equal(t, "00:01:00.000", timeline.FormatSeconds(60))
	assert.Equal(t, "01:01:01.500", timeline.FormatSeconds(3661.5))
	assert.Equal(t, "02:00:00.250", timeline.FormatSeconds(7200.25))
}
