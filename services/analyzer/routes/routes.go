// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/checkpoint"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/handlers"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"
)

// SetupRoutes registers the analyzer's HTTP surface on the router.
func SetupRoutes(router *gin.Engine, exec *workflow.Executor, store *checkpoint.Store, locks *checkpoint.LockManager) {
	router.Use(corsMiddleware())

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.HealthCheck(exec))
	router.POST("/analyze-resume", handlers.AnalyzeResume(exec, locks))
	router.POST("/resume-questions", handlers.ResumeQuestions(exec, store, locks))
}

// corsMiddleware allows any origin, matching the open posture of the
// original deployment.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
