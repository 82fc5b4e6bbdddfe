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
// similarity predicate that decides whether two captions describe the same
// scene content.
package timeline

import "github.com/pmezard/go-difflib/difflib"

// Ratio computes a normalized similarity score in [0, 1] between two caption
// strings using character-level longest-matching-block recursion
// (2*M / T, where M is the total matched characters and T the combined
// length). go-difflib is the Go port of the sequence-matching algorithm the
// upstream caption tooling scores with, so thresholds tuned against that
// tooling keep their meaning here.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(explode(a), explode(b)).Ratio()
}

// Similar reports whether two captions are close enough to be treated as
// the same scene content. The boundary is exclusive: a ratio exactly equal
// to the threshold is NOT similar.
func Similar(a, b string, threshold float64) bool {
	return Ratio(a, b) > threshold
}

// explode splits a string into one element per rune so the matcher compares
// characters, not lines.
func explode(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
