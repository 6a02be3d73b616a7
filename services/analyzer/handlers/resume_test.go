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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/checkpoint"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"
)

// seedCheckpoint saves a mid-pipeline snapshot the way a finished
// analysis run would have left it.
func seedCheckpoint(t *testing.T, store *checkpoint.Store, sessionID string) {
	t.Helper()

	state := workflow.NewState("Jane Doe. Engineer at Acme since 2020.")
	state.Summary = "An experienced engineer."
	state.Insights = []string{"4 years of engineering experience"}
	state.Questions = []string{"Original question from the first run?"}
	state.CurrentNode = workflow.NodeEnd
	require.NoError(t, store.Save(context.Background(), sessionID, state))
}

func TestResumeQuestions_RejectsMissingCheckpointID(t *testing.T) {
	exec, store, locks := newAnalyzerTestDeps(t, newStubClient())
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	w := postJSON(router, "/resume-questions", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "checkpoint_id is required")
}

func TestResumeQuestions_UnknownCheckpointIs404(t *testing.T) {
	exec, store, locks := newAnalyzerTestDeps(t, newStubClient())
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	w := postJSON(router, "/resume-questions", gin.H{"checkpoint_id": "thread_00000000"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no checkpoint found")
}

func TestResumeQuestions_RegeneratesFromSnapshot(t *testing.T) {
	exec, store, locks := newAnalyzerTestDeps(t, newStubClient())
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	sessionID := workflow.NewThreadID()
	seedCheckpoint(t, store, sessionID)

	w := postJSON(router, "/resume-questions", gin.H{"checkpoint_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ResumeQuestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, sessionID, resp.CheckpointID)
	assert.Equal(t, []string{"4 years of engineering experience"}, resp.InsightsUsed)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, "Tell me about a system you built at Acme.", resp.Questions[0])
}

func TestResumeQuestions_OverlaysRequestInsights(t *testing.T) {
	exec, store, locks := newAnalyzerTestDeps(t, newStubClient())
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	sessionID := workflow.NewThreadID()
	seedCheckpoint(t, store, sessionID)

	provided := []string{"Led a team of five", "Shipped a payments platform"}
	w := postJSON(router, "/resume-questions", gin.H{
		"checkpoint_id": sessionID,
		"insights":      provided,
		"summary":       "A summary supplied by the caller.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ResumeQuestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, provided, resp.InsightsUsed)
}

func TestResumeQuestions_IsRepeatable(t *testing.T) {
	exec, store, locks := newAnalyzerTestDeps(t, newStubClient())
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	sessionID := workflow.NewThreadID()
	seedCheckpoint(t, store, sessionID)

	var first, second datatypes.ResumeQuestionsResponse

	w := postJSON(router, "/resume-questions", gin.H{"checkpoint_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = postJSON(router, "/resume-questions", gin.H{"checkpoint_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.Questions, second.Questions)
	assert.Equal(t, first.InsightsUsed, second.InsightsUsed)
}

func TestResumeQuestions_ParseFailureDegradesToFallback(t *testing.T) {
	client := newStubClient()
	client.question = "not JSON"
	exec, store, locks := newAnalyzerTestDeps(t, client)
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	sessionID := workflow.NewThreadID()
	seedCheckpoint(t, store, sessionID)

	w := postJSON(router, "/resume-questions", gin.H{"checkpoint_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ResumeQuestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Tell me about your professional background and key achievements."}, resp.Questions)
}

func TestResumeQuestions_CheckpointedFailureIs500(t *testing.T) {
	exec, store, locks := newAnalyzerTestDeps(t, newStubClient())
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	// A run that failed hard leaves its error in the snapshot. Resuming
	// such a session must surface that failure, not report success.
	sessionID := workflow.NewThreadID()
	state := workflow.NewState("Jane Doe. Engineer at Acme since 2020.")
	state.Error = "Error in extract_work: provider unavailable"
	state.CurrentNode = workflow.NodeEnd
	require.NoError(t, store.Save(context.Background(), sessionID, state))

	w := postJSON(router, "/resume-questions", gin.H{"checkpoint_id": sessionID})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error in extract_work: provider unavailable")
}

func TestResumeQuestions_ProviderFailureIs500(t *testing.T) {
	client := newStubClient()
	client.errQuestion = assert.AnError
	exec, store, locks := newAnalyzerTestDeps(t, client)
	router := gin.New()
	router.POST("/resume-questions", ResumeQuestions(exec, store, locks))

	sessionID := workflow.NewThreadID()
	seedCheckpoint(t, store, sessionID)

	w := postJSON(router, "/resume-questions", gin.H{"checkpoint_id": sessionID})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error in generate_questions")
}
