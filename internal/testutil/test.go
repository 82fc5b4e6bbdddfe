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

// Package test provides utility functions and mock data to support the
// application's test suite. It helps in setting up a consistent test
// environment, loading test-specific configurations, and providing sample
// artifacts for workflows and services.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/muziris/video-timeline/internal/config"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs. This prevents the need to reload
// configuration files for every test, speeding up the test suite.
type StateManager struct {
	config *config.Config
}

// state is a package-level variable that holds the singleton instance of
// StateManager, ensuring that the configuration is loaded only once per
// test run.
var state = &StateManager{}

// HandleErr is a simple test helper function that checks if an error is not
// nil. If an error exists, it fails the test immediately.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestCaptionText returns a hardcoded JSON string in the direct caption
// map shape: canonical timestamps mapping to captions, with a run of similar
// captions followed by a dissimilar one.
//
// Returns:
//   - A string containing the JSON payload of a caption artifact.
func GetTestCaptionText() string {
	return `{
  "000:00:00.000": "A red car drives down a sunny road",
  "000:00:02.000": "A red car drives down a sunny road fast",
  "000:00:04.000": "A red car drives down the sunny road",
  "000:00:06.000": "A person rides a bicycle through a park"
}`
}

// GetTestWrappedCaptionText returns the same captions wrapped in the
// single-entry "videos" envelope produced by one generation of the
// captioning tool.
//
// Returns:
//   - A string containing the JSON payload of a wrapped caption artifact.
func GetTestWrappedCaptionText() string {
	return `{
  "videos": {
    "VID_001": {
      "000:00:00.000": "A red car drives down a sunny road",
      "000:00:02.000": "A red car drives down a sunny road fast",
      "000:00:04.000": "A red car drives down the sunny road",
      "000:00:06.000": "A person rides a bicycle through a park"
    }
  }
}`
}

// GetTestSceneText returns a hardcoded JSON string simulating the scene
// detector's output for the test video: two detected cuts and the computed
// intervals between them.
//
// Returns:
//   - A string containing the JSON payload of a scene artifact.
func GetTestSceneText() string {
	return `{
  "video_file": "VID_001.mp4",
  "scene_threshold": 0.3,
  "total_scenes": 2,
  "scenes": [
    {
      "scene_number": 1,
      "start_time": "00:00:00.000",
      "end_time": "00:00:05.200",
      "duration": 5.2,
      "scene_changes": [
        { "frame_number": 0, "timestamp": "00:00:00.000", "seconds": 0.0, "scene_score": 0.4 }
      ]
    },
    {
      "scene_number": 2,
      "start_time": "00:00:05.200",
      "end_time": "00:00:08.000",
      "duration": 2.8,
      "scene_changes": [
        { "frame_number": 130, "timestamp": "00:00:05.200", "seconds": 5.2, "scene_score": 0.67 }
      ]
    }
  ]
}`
}

// SetupOS configures the necessary environment variables that the
// configuration loader depends on. By setting these variables, we direct
// the loader to use the test-specific configuration files (e.g.,
// `configs/.env.test.toml`).
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	// Set the directory where the configuration files are located.
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	// Set the runtime environment identifier to "test". This causes the
	// loader to look for a file named ".env.test.toml" for overrides.
	err = os.Setenv(config.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
// It ensures that the configuration is loaded from TOML files only once and
// is cached for subsequent calls. This is the primary way tests should
// retrieve their configuration.
//
// Returns:
//   - A pointer to the loaded and cached config.Config struct.
func GetConfig() *config.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}
