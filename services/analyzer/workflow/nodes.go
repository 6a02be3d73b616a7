// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/config"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/llm"
)

// GraphName identifies the pipeline in logs and traces.
const GraphName = "resume-analysis"

// Nodes holds the dependencies shared by every pipeline stage.
//
// Each model-backed node applies the two-tier failure policy: a response
// that fails schema validation is an expected outcome and degrades to an
// empty or placeholder value, while a provider fault propagates to the
// guard wrapper and lands in the state's Error field.
type Nodes struct {
	client llm.Client
	params llm.GenerationParams
}

// NewNodes creates the node set over an LLM backend.
func NewNodes(client llm.Client) (*Nodes, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client must not be nil", ErrInvalidInput)
	}
	temperature := config.Temperature
	maxTokens := config.MaxTokens
	return &Nodes{
		client: client,
		params: llm.GenerationParams{
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		},
	}, nil
}

// NewGraph builds the fixed analysis graph over the node set.
//
// Transitions: start -> extract_work -> {extract_education | end} ->
// generate_summary -> extract_insights -> generate_questions -> end.
// The edge leaving extract_work is the sole conditional one.
func NewGraph(n *Nodes) (*Graph, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nodes must not be nil", ErrInvalidInput)
	}
	return NewBuilder(GraphName).
		AddNode(NodeStart, n.startNode).
		AddNode(NodeExtractWork, n.extractWorkExperience).
		AddNode(NodeExtractEducation, n.extractEducation).
		AddNode(NodeGenerateSummary, n.generateSummary).
		AddNode(NodeExtractInsights, n.extractInsights).
		AddNode(NodeGenerateQuestion, n.generateQuestions).
		AddNode(NodeEnd, n.endNode).
		AddEdge(NodeStart, NodeExtractWork).
		AddConditionalEdge(NodeExtractWork, shouldContinue).
		AddEdge(NodeExtractEducation, NodeGenerateSummary).
		AddEdge(NodeGenerateSummary, NodeExtractInsights).
		AddEdge(NodeExtractInsights, NodeGenerateQuestion).
		AddEdge(NodeGenerateQuestion, NodeEnd).
		SetEntryPoint(NodeStart).
		SetTerminal(NodeEnd).
		Build()
}

// shouldContinue is the sole conditional route. It inspects only the error
// recorded by extract_work; later nodes have no such edge.
func shouldContinue(state *State) string {
	if state.Failed() {
		return NodeEnd
	}
	return NodeExtractEducation
}

func (n *Nodes) startNode(_ context.Context, state *State) error {
	state.CurrentNode = NodeStart
	slog.Info("Workflow started")
	return nil
}

func (n *Nodes) endNode(_ context.Context, state *State) error {
	state.CurrentNode = NodeEnd
	slog.Info("Workflow completed")
	return nil
}

// extractWorkExperience populates WorkExperiences from the raw text.
// Parse failure falls back to an empty list rather than propagating.
func (n *Nodes) extractWorkExperience(ctx context.Context, state *State) error {
	slog.Info("Extracting work experience")

	prompt := fmt.Sprintf(workExperiencePrompt, state.RawText, llm.FormatInstructions(workExperienceShape))

	var result datatypes.WorkExperienceList
	err := llm.GenerateStructured(ctx, n.client, prompt, n.params, &result)
	switch {
	case errors.Is(err, llm.ErrOutputParse):
		slog.Warn("Parser error in work experience extraction", "error", err)
		state.WorkExperiences = []datatypes.WorkExperience{}
	case err != nil:
		return err
	default:
		state.WorkExperiences = result.WorkExperiences
		slog.Info("Extracted work experiences", "count", len(result.WorkExperiences))
	}

	state.CurrentNode = NodeExtractWork
	return nil
}

// extractEducation populates Education from the raw text, same two-tier
// policy as work extraction.
func (n *Nodes) extractEducation(ctx context.Context, state *State) error {
	slog.Info("Extracting education")

	prompt := fmt.Sprintf(educationPrompt, state.RawText, llm.FormatInstructions(educationShape))

	var result datatypes.EducationList
	err := llm.GenerateStructured(ctx, n.client, prompt, n.params, &result)
	switch {
	case errors.Is(err, llm.ErrOutputParse):
		slog.Warn("Parser error in education extraction", "error", err)
		state.Education = []datatypes.Education{}
	case err != nil:
		return err
	default:
		state.Education = result.Education
		slog.Info("Extracted education entries", "count", len(result.Education))
	}

	state.CurrentNode = NodeExtractEducation
	return nil
}

// generateSummary writes the narrative summary. Free-text generation, no
// schema validation, so there is no soft-failure tier here.
func (n *Nodes) generateSummary(ctx context.Context, state *State) error {
	slog.Info("Generating summary")

	workText := make([]string, 0, len(state.WorkExperiences))
	for _, exp := range state.WorkExperiences {
		start := exp.StartDate
		if start == "" {
			start = "N/A"
		}
		end := exp.EndDate
		if end == "" {
			end = "N/A"
		}
		workText = append(workText, fmt.Sprintf("- %s at %s (%s to %s)", exp.Role, exp.Company, start, end))
	}

	eduText := make([]string, 0, len(state.Education))
	for _, edu := range state.Education {
		eduText = append(eduText, fmt.Sprintf("- %s in %s from %s (%d-%d)",
			edu.Degree, edu.Field, edu.Institution, edu.StartYear, edu.EndYear))
	}

	work := strings.Join(workText, "\n")
	if work == "" {
		work = "No work experience data extracted"
	}
	education := strings.Join(eduText, "\n")
	if education == "" {
		education = "No education data extracted"
	}

	rawText := state.RawText
	if len(rawText) > summaryContextLimit {
		rawText = rawText[:summaryContextLimit]
	}

	result, err := n.client.Generate(ctx, fmt.Sprintf(summaryPrompt, work, education, rawText), n.params)
	if err != nil {
		return err
	}

	state.Summary = result
	state.CurrentNode = NodeGenerateSummary
	slog.Info("Summary generated successfully")
	return nil
}

// extractInsights derives the insight list. Parse failure falls back to a
// single placeholder insight so question generation still has input.
func (n *Nodes) extractInsights(ctx context.Context, state *State) error {
	slog.Info("Extracting insights")

	workParts := make([]string, 0, len(state.WorkExperiences))
	for _, exp := range state.WorkExperiences {
		workParts = append(workParts, fmt.Sprintf("%s at %s", exp.Role, exp.Company))
	}
	eduParts := make([]string, 0, len(state.Education))
	for _, edu := range state.Education {
		eduParts = append(eduParts, fmt.Sprintf("%s in %s", edu.Degree, edu.Field))
	}

	work := strings.Join(workParts, "; ")
	if work == "" {
		work = "No work experience"
	}
	education := strings.Join(eduParts, "; ")
	if education == "" {
		education = "No education data"
	}

	prompt := fmt.Sprintf(insightsPrompt, state.Summary, work, education, llm.FormatInstructions(insightsShape))

	var result datatypes.ResumeInsights
	err := llm.GenerateStructured(ctx, n.client, prompt, n.params, &result)
	switch {
	case errors.Is(err, llm.ErrOutputParse):
		slog.Warn("Parser error in insights extraction", "error", err)
		state.Insights = []string{fallbackInsight}
	case err != nil:
		return err
	default:
		state.Insights = result.Insights
		slog.Info("Extracted insights", "count", len(result.Insights))
	}

	state.CurrentNode = NodeExtractInsights
	return nil
}

// generateQuestions produces the interview question list from the
// insights. Parse failure falls back to one generic question.
func (n *Nodes) generateQuestions(ctx context.Context, state *State) error {
	slog.Info("Generating interview questions")

	insightLines := make([]string, 0, len(state.Insights))
	for _, insight := range state.Insights {
		insightLines = append(insightLines, "- "+insight)
	}

	prompt := fmt.Sprintf(questionsPrompt, strings.Join(insightLines, "\n"), llm.FormatInstructions(questionsShape))

	var result datatypes.InterviewQuestions
	err := llm.GenerateStructured(ctx, n.client, prompt, n.params, &result)
	switch {
	case errors.Is(err, llm.ErrOutputParse):
		slog.Warn("Parser error in question generation", "error", err)
		state.Questions = []string{fallbackQuestion}
	case err != nil:
		return err
	default:
		state.Questions = result.Questions
		slog.Info("Generated interview questions", "count", len(result.Questions))
	}

	state.CurrentNode = NodeGenerateQuestion
	return nil
}
