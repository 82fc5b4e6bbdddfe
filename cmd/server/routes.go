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

// Package main contains the API route definitions for the server. The API
// is a read-only view over the content tree: it lists consolidated videos,
// serves their merged artifacts, and builds folder summaries on demand.
// Nothing here mutates the tree; consolidation happens in the CLI.
//
// Functions:
//   - VideoRouter: Routes for listing and fetching per-video merged artifacts.
//   - FolderRouter: Route for fetching a folder's summary, built on demand.
//   - RateLimit: A gin middleware enforcing the configured request rate.
package main

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/muziris/video-timeline/internal/core/model"
)

// RateLimit returns a middleware that rejects requests above the configured
// steady rate with 429. One shared limiter covers the whole server; the API
// serves local files, so per-client fairness is not worth tracking state for.
func RateLimit(requestsPerSecond float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

// resolveUnderRoot joins a request-supplied relative path onto the content
// root and rejects anything that escapes it. Returns the absolute-ish joined
// path and whether it is safe to use.
func resolveUnderRoot(root string, rel string) (string, bool) {
	joined := filepath.Join(root, filepath.Clean("/"+rel))
	relBack, err := filepath.Rel(root, joined)
	if err != nil || relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		return "", false
	}
	return joined, true
}

// VideoRouter sets up the API routes for consolidated videos.
//
// Inputs:
//   - r: A *gin.RouterGroup to which the video routes will be added. This
//     allows nesting routes under a common path prefix (e.g., "/api/v1").
//
// This function defines the following endpoints:
//   - GET /videos: Lists the identifiers of every consolidated video under
//     the content root, as paths relative to the root without the artifact
//     suffix.
//   - GET /videos/*id: Returns the merged artifact for one video by its
//     relative identifier.
func VideoRouter(r *gin.RouterGroup) {
	videos := r.Group("/videos")
	{
		// Handler for GET /videos
		videos.GET("", func(c *gin.Context) {
			paths, err := state.catalog.FindMergedArtifacts()
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "failed to list merged artifacts", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			// Convert artifact paths into stable relative identifiers.
			ids := make([]string, 0, len(paths))
			for _, p := range paths {
				rel, err := filepath.Rel(state.catalog.Root, p)
				if err != nil {
					continue
				}
				ids = append(ids, filepath.ToSlash(strings.TrimSuffix(rel, model.MergedSuffix)))
			}
			c.JSON(http.StatusOK, gin.H{"videos": ids})
		})

		// Handler for GET /videos/*id
		videos.GET("/*id", func(c *gin.Context) {
			// The wildcard keeps a leading slash; trim it before resolving.
			id := strings.TrimPrefix(c.Param("id"), "/")
			if id == "" {
				c.Status(http.StatusBadRequest)
				return
			}
			path, ok := resolveUnderRoot(state.catalog.Root, id+model.MergedSuffix)
			if !ok {
				c.Status(http.StatusBadRequest)
				return
			}
			if model.IsSummaryArtifact(filepath.Base(path), filepath.Base(filepath.Dir(path))) {
				// Summaries are folders, not videos; they have their own route.
				c.Status(http.StatusNotFound)
				return
			}
			c.File(path)
		})
	}
}

// FolderRouter sets up the API route for folder summaries.
//
// This function defines the following endpoint:
//   - GET /folders/*path: Builds and returns the summary for one folder,
//     relative to the content root. The root itself is addressed as "/".
//     The summary is computed from the merged artifacts currently on disk,
//     so the response reflects the tree even before a summary file has been
//     written.
func FolderRouter(r *gin.RouterGroup) {
	folders := r.Group("/folders")
	{
		folders.GET("/*path", func(c *gin.Context) {
			rel := strings.TrimPrefix(c.Param("path"), "/")
			dir, ok := resolveUnderRoot(state.aggregator.Root, rel)
			if !ok {
				c.Status(http.StatusBadRequest)
				return
			}
			summary, err := state.aggregator.BuildFolderSummary(dir)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			if summary == nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, summary)
		})
	}
}
