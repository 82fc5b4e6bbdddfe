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

// Package main contains the API route definitions for the server. This file
// defines the statistics endpoint backing a dashboard view of the content
// tree.
//
// Functions:
//   - Dashboard: Sets up a route group for statistics-related endpoints.
package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard configures the API routes for content-tree statistics.
// It creates a new route group "/stats" nested under the main API router
// group.
//
// This function defines the following endpoint:
//   - GET /stats: Returns counts over the content tree: captioned videos,
//     consolidated (merged) videos, and raw videos with no caption artifact.
//     All three are recomputed per request from the tree on disk.
func Dashboard(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("", func(c *gin.Context) {
			captioned, err := state.catalog.FindCaptionFiles()
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "stats: caption scan failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			merged, err := state.catalog.FindMergedArtifacts()
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "stats: merged scan failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			uncaptioned, err := state.catalog.FindUncaptionedVideos()
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "stats: coverage scan failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"captioned":   len(captioned),
				"merged":      len(merged),
				"uncaptioned": len(uncaptioned),
			})
		})
	}
}
