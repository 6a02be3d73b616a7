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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/checkpoint"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"
)

// SummaryChunkDelay paces summary chunks so clients render them
// incrementally. Purely cosmetic; carries no correctness obligation.
var SummaryChunkDelay = 200 * time.Millisecond

// errStreamAborted signals the executor that the stream already ended
// with an error event and no further nodes should run.
var errStreamAborted = errors.New("stream aborted after error event")

// AnalyzeResume streams one end-to-end analysis run.
//
// # Description
//
// Validates the request, creates a session id, then runs the graph to
// completion while emitting events as results land: summary chunks as
// soon as the summary node finishes, the first interview question, and a
// terminal complete event carrying the session id. A hard failure during
// the extraction phase ends the stream with a single error event and
// nothing after it.
//
// # Inputs
//
//   - exec: The workflow executor. Shared across requests.
//   - locks: Per-session lock manager, held for the whole run so a
//     resumption request cannot race the original session.
func AnalyzeResume(exec *workflow.Executor, locks *checkpoint.LockManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.AnalyzeResumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("rejected analyze-resume request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "resume_text is required and must be at least 10 characters"})
			return
		}

		SetSSEHeaders(c.Writer)
		writer, err := NewSSEWriter(c.Writer)
		if err != nil {
			slog.Error("streaming not supported", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
			return
		}

		threadID := workflow.NewThreadID()
		unlock := locks.Lock(threadID)
		defer unlock()

		slog.Info("Starting resume analysis", "thread_id", threadID)

		state := workflow.NewState(req.ResumeText)
		observer := func(node string, st *workflow.State) error {
			switch node {
			case workflow.NodeStart, workflow.NodeExtractWork, workflow.NodeExtractEducation:
				// The extraction phase ends the stream on a hard
				// failure; later nodes run on failed state without
				// rerouting, mirroring the graph's single
				// conditional edge.
				if st.Failed() {
					_ = writer.WriteError(st.Error)
					return errStreamAborted
				}
			case workflow.NodeGenerateSummary:
				if st.Summary != "" {
					streamSummary(c.Request.Context(), writer, st.Summary)
				}
			}
			return nil
		}

		err = exec.Run(c.Request.Context(), threadID, state, observer)
		if errors.Is(err, errStreamAborted) {
			return
		}
		if err != nil {
			slog.Error("Error in resume analysis", "thread_id", threadID, "error", err)
			_ = writer.WriteError("Analysis failed: " + err.Error())
			return
		}

		if len(state.Questions) > 0 {
			_ = writer.WriteQuestion(state.Questions[0])
		}

		_ = writer.WriteComplete("Analysis completed successfully", threadID)
		slog.Info("Resume analysis completed", "thread_id", threadID)
	}
}

// streamSummary emits the summary in sentence chunks with a fixed
// inter-chunk delay.
func streamSummary(ctx context.Context, writer SSEWriter, summary string) {
	sentences := strings.Split(summary, ". ")
	for i, line := range sentences {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i < len(sentences)-1 {
			line += "."
		}
		if err := writer.WriteSummary(line); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(SummaryChunkDelay):
		}
	}
}
