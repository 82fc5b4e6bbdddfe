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

// Package commands provides the concrete pipeline steps of the per-video
// consolidation workflow. This file defines the first step: reading a raw
// caption file from disk and normalizing it to a CaptionMap.
//
// Two input shapes are accepted, matching what the captioning collaborators
// emit: a direct timestamp-to-caption object (recognized by at least one
// key starting with "000:"), or a one-level-nested {"videos": {<id>: {...}}}
// document containing exactly one video. Anything else is malformed input:
// the command records an error, the chain stops, and the batch runner counts
// the video as failed without touching the rest of the batch.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/muziris/video-timeline/internal/core/cor"
	"github.com/muziris/video-timeline/internal/core/model"
)

// directMapKeyPrefix marks the zero-hour timestamp keys of a direct caption
// map ("000:00:00.000" style, three-digit hours).
const directMapKeyPrefix = "000:"

// CaptionMapReader is a command that loads and shape-checks one caption file.
type CaptionMapReader struct {
	cor.BaseCommand
}

// NewCaptionMapReader is the constructor for the CaptionMapReader command.
func NewCaptionMapReader(name string) *CaptionMapReader {
	return &CaptionMapReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute reads the caption file named by the command's input parameter and
// places the normalized CaptionMap into the context.
func (s *CaptionMapReader) Execute(context cor.Context) {
	path := context.Get(s.GetInputParam()).(string)

	raw, err := os.ReadFile(path)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to read caption file %s: %w", path, err))
		return
	}

	captions, err := decodeCaptionDocument(raw)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("caption file %s: %w", path, err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), captions)
	context.Add(cor.CtxOut, captions)
}

// decodeCaptionDocument resolves the two recognized caption shapes into a
// flat CaptionMap.
func decodeCaptionDocument(raw []byte) (model.CaptionMap, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	// Nested form: {"videos": {<id>: {<timestamp>: <caption>}}} with
	// exactly one video entry.
	if nested, ok := fields["videos"]; ok {
		var videos map[string]model.CaptionMap
		if err := json.Unmarshal(nested, &videos); err == nil && len(videos) == 1 {
			for _, captions := range videos {
				return captions, nil
			}
		}
	}

	// Direct form, recognized by its zero-padded three-digit-hour keys.
	for key := range fields {
		if strings.HasPrefix(key, directMapKeyPrefix) {
			var captions model.CaptionMap
			if err := json.Unmarshal(raw, &captions); err != nil {
				return nil, fmt.Errorf("direct caption map has non-string values: %w", err)
			}
			return captions, nil
		}
	}

	return nil, fmt.Errorf("unrecognized caption document shape")
}
