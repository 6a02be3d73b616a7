// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains request and response types for the HTTP surface.
// Stream event types live in stream.go.
package datatypes

// AnalyzeResumeRequest is the body for POST /analyze-resume.
//
// Text shorter than 10 characters is rejected before any node executes;
// no session id is generated for an invalid request.
type AnalyzeResumeRequest struct {
	ResumeText string `json:"resume_text" binding:"required,min=10"`
}

// ResumeQuestionsRequest is the body for POST /resume-questions.
//
// # Fields
//
//   - CheckpointID: Required. Session id returned by a prior analysis run.
//   - Insights: Optional. Overrides the checkpointed insights before re-entry.
//   - Summary: Optional. Overrides the checkpointed summary before re-entry.
type ResumeQuestionsRequest struct {
	CheckpointID string   `json:"checkpoint_id" binding:"required"`
	Insights     []string `json:"insights,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// ResumeQuestionsResponse is the synchronous reply for POST /resume-questions.
type ResumeQuestionsResponse struct {
	Questions    []string `json:"questions"`
	CheckpointID string   `json:"checkpoint_id"`
	InsightsUsed []string `json:"insights_used"`
	Status       string   `json:"status"`
}
