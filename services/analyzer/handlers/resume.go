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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/checkpoint"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"
)

// ResumeQuestions re-enters a checkpointed session at the question node.
//
// # Description
//
// Loads the last snapshot for the checkpoint id, overlays any
// caller-supplied insights or summary, sets the progress marker to
// generate_questions and re-executes that node plus everything downstream
// of it; nothing earlier is re-run. The whole read-modify-write holds
// the session's exclusive lock. Responds synchronously; this path does
// not stream.
//
// An unknown checkpoint id is a 404, never conflated with an internal
// failure; a hard failure during re-execution is a 500. The error field
// is never cleared on re-entry: a snapshot that recorded a hard failure
// resumes to a 500 carrying that error.
func ResumeQuestions(exec *workflow.Executor, store *checkpoint.Store, locks *checkpoint.LockManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ResumeQuestionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("rejected resume-questions request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkpoint_id is required"})
			return
		}

		slog.Info("Resuming from checkpoint", "checkpoint_id", req.CheckpointID)

		unlock := locks.Lock(req.CheckpointID)
		defer unlock()

		state, err := store.Load(c.Request.Context(), req.CheckpointID)
		if errors.Is(err, checkpoint.ErrNotFound) {
			slog.Warn("Checkpoint not found", "checkpoint_id", req.CheckpointID)
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			slog.Error("Failed to load checkpoint", "checkpoint_id", req.CheckpointID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load checkpoint"})
			return
		}

		if len(req.Insights) > 0 {
			state.Insights = req.Insights
		}
		if req.Summary != "" {
			state.Summary = req.Summary
		}
		state.CurrentNode = workflow.NodeGenerateQuestion

		err = exec.RunFrom(c.Request.Context(), req.CheckpointID, state, workflow.NodeGenerateQuestion, nil)
		if err != nil {
			slog.Error("Error in question generation", "checkpoint_id", req.CheckpointID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Question generation failed: " + err.Error()})
			return
		}
		if state.Failed() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": state.Error})
			return
		}

		c.JSON(http.StatusOK, datatypes.ResumeQuestionsResponse{
			Questions:    state.Questions,
			CheckpointID: req.CheckpointID,
			InsightsUsed: state.Insights,
			Status:       "success",
		})
	}
}
