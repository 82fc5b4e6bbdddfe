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

// Package config defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for the consolidation pipeline and the read-only HTTP server.
//
// Loading is hierarchical: a base file (.env.toml) is read first and an
// environment-specific file (.env.<runtime>.toml) overwrites its values.
// The config directory and runtime name come from environment variables.
//
// Structs:
//   - Application: General application settings.
//   - Consolidation: Thresholds and content root for the pipeline.
//   - Server: Settings for the HTTP API server.
//   - Config: The top-level struct that aggregates the others.
//
// Functions:
//   - NewConfig: A constructor that initializes a Config with the documented
//     defaults, so a missing file or field falls back to a working value.
//   - LoadConfig: The hierarchical configuration loader.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Configuration constants, primarily for the hierarchical loader.
const (
	ConfigFileBaseName  = ".env"                   // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"                  // The file extension for configuration files.
	ConfigSeparator     = "."                      // The separator used in config file names (e.g., ".env.test.toml").
	EnvConfigFilePrefix = "TIMELINE_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "TIMELINE_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").
)

// Default values applied by NewConfig. The CLI and server use these whenever
// a flag or config field is absent.
const (
	DefaultSimilarityThreshold = 0.8
	DefaultSceneThreshold      = 0.4
	DefaultContentRoot         = "content"
	DefaultServerPort          = 8080
)

// Application holds general application settings.
type Application struct {
	Name string `toml:"name"` // The name of the application, used for telemetry resources.
}

// Consolidation holds the tunables of the per-video pipeline.
type Consolidation struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"` // Caption similarity cutoff in [0, 1]; captions group only when strictly above it.
	SceneThreshold      float64 `toml:"scene_threshold"`      // Default scene detector threshold recorded when a scene artifact omits its own.
	ContentRoot         string  `toml:"content_root"`         // The directory tree holding the per-video artifacts.
}

// Server holds the settings for the read-only HTTP API.
type Server struct {
	Port              int     `toml:"port"`                // TCP port the API listens on.
	RequestsPerSecond float64 `toml:"requests_per_second"` // Steady-state rate limit applied per server.
	Burst             int     `toml:"burst"`               // Burst allowance on top of the steady rate.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other
// configuration structs.
type Config struct {
	Application   Application   `toml:"application"`
	Consolidation Consolidation `toml:"consolidation"`
	Server        Server        `toml:"server"`
}

// NewConfig is a constructor function that creates a new Config instance
// populated with the documented defaults. The loader overwrites whatever the
// TOML files provide, so absent files or fields degrade to these values.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with defaults applied.
func NewConfig() *Config {
	return &Config{
		Application: Application{Name: "video-timeline"},
		Consolidation: Consolidation{
			SimilarityThreshold: DefaultSimilarityThreshold,
			SceneThreshold:      DefaultSceneThreshold,
			ContentRoot:         DefaultContentRoot,
		},
		Server: Server{
			Port:              DefaultServerPort,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Validate checks the loaded values for the errors that must stop the
// process before any work starts.
func (c *Config) Validate() error {
	if c.Consolidation.SimilarityThreshold < 0.0 || c.Consolidation.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity_threshold must be between 0.0 and 1.0, got %v", c.Consolidation.SimilarityThreshold)
	}
	if c.Consolidation.SceneThreshold < 0.0 || c.Consolidation.SceneThreshold > 1.0 {
		return fmt.Errorf("scene_threshold must be between 0.0 and 1.0, got %v", c.Consolidation.SceneThreshold)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	return nil
}

// fileExists checks if a file or directory exists at the given path.
//
// Inputs:
//   - in: The path to the file or directory as a string.
//
// Outputs:
//   - bool: Returns true if the file exists, and false if it does not.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It
// first loads a base configuration file and then overwrites its values with
// an environment-specific configuration file. The config directory and
// runtime name are determined by environment variables; the runtime
// defaults to "test".
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct that will be
//     populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	// Read the directory path for config files from an environment variable.
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	// Ensure the prefix ends with a path separator if it's not empty.
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	// Read the runtime environment (e.g., "local", "test") from an
	// environment variable. Default to "test" if the variable is not set.
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	// Construct the path for the base configuration file (e.g., "configs/.env.toml").
	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension

	// Construct the path for the environment-specific override file
	// (e.g., "configs/.env.test.toml").
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	// If the base configuration file exists, decode it into the baseConfig struct.
	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// If the environment-specific configuration file exists, decode it.
	// Any values in this file will overwrite the values from the base config.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}
