// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"
)

// Root is the liveness endpoint.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Resume Analysis API is running",
		"status":  "healthy",
	})
}

// HealthCheck runs a trivial no-op session through the graph.
//
// # Description
//
// Executes only the terminal node over a throwaway state, which
// exercises the executor and writes (then reads back via the store's
// Save path) a real checkpoint without spending a provider call. Always
// responds 200; the body distinguishes healthy from unhealthy.
func HealthCheck(exec *workflow.Executor) gin.HandlerFunc {
	return func(c *gin.Context) {
		probe := workflow.NewState("test")
		threadID := workflow.NewThreadID()

		if err := exec.RunFrom(c.Request.Context(), threadID, probe, workflow.NodeEnd, nil); err != nil {
			slog.Error("health check failed", "error", err)
			c.JSON(http.StatusOK, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"workflow":      "operational",
			"checkpointing": "enabled",
		})
	}
}
