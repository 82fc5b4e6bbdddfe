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

// Package main contains the setup and initialization logic for the server's
// state. This file is responsible for creating a centralized state manager
// that holds the shared dependencies: the configuration and the services
// that read the content tree.
//
// Functions:
//   - SetupOS: Configures the environment variables the configuration
//     loader uses to find the correct TOML files.
//   - GetConfig: A singleton function that loads the application's
//     configuration from TOML files. It ensures the configuration is loaded
//     only once.
//   - InitState: Creates the catalog and aggregator services over the
//     configured content root.
package main

import (
	"log"
	"os"

	"github.com/muziris/video-timeline/internal/config"
	"github.com/muziris/video-timeline/internal/core/services"
)

// StateManager holds the shared dependencies for the server, acting as a
// centralized container for configuration and services. This avoids
// scattered global variables and makes dependency management cleaner.
type StateManager struct {
	config     *config.Config
	catalog    *services.Catalog
	aggregator *services.FolderAggregator
}

// state is a package-level variable that holds the single StateManager.
var state = &StateManager{}

// SetupOS sets the environment variables that the configuration loader uses
// to find the correct TOML files: the configuration directory prefix and
// the runtime environment (e.g., "local", "test", "prod"), allowing for
// environment-specific overrides of the base configuration.
//
// Outputs:
//   - error: An error if setting any of the environment variables fails.
func SetupOS() (err error) {
	// Set the directory where configuration files are located, unless the
	// caller already chose one.
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		err = os.Setenv(config.EnvConfigFilePrefix, "configs")
		if err != nil {
			return err
		}
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		// Default the runtime environment to "local". The config loader
		// will look for a ".env.local.toml" file to override base settings.
		err = os.Setenv(config.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig provides a singleton instance of the application configuration.
// On the first call, it sets up the OS environment and loads the
// configuration from the TOML files. Subsequent calls return the cached
// configuration.
//
// Outputs:
//   - *config.Config: A pointer to the loaded application configuration.
func GetConfig() *config.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		// Start from the defaults so absent files or fields degrade to
		// working values, then apply the TOML hierarchy.
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid configuration: %v\n", err)
		}
		state.config = cfg
	}
	return state.config
}

// InitState initializes the server's state: the artifact catalog and the
// folder aggregator, both rooted at the configured content directory.
func InitState() {
	cfg := GetConfig()
	state.catalog = &services.Catalog{Root: cfg.Consolidation.ContentRoot}
	state.aggregator = &services.FolderAggregator{Root: cfg.Consolidation.ContentRoot}
}
