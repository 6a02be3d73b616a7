// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package workflow implements the résumé analysis pipeline: a fixed
// directed graph of seven nodes over a mutable State, executed
// sequentially with a durable checkpoint after every node.
package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
)

// ThreadIDPrefix is the fixed prefix of every session identifier.
const ThreadIDPrefix = "thread_"

// State is the unit of persistence and the sole input and output of every
// node.
//
// Description:
//
//	Fields are append-only in practice: no node deletes or overwrites a
//	previously populated collection. CurrentNode is the only field ever
//	reassigned after being set; it tracks the last node that ran and,
//	on resumption, names the node to re-enter at. Once Error is set the
//	routing function short-circuits the pipeline (after extract_work
//	only, see graph.go).
//
// Thread Safety:
//
//	A State belongs to exactly one session and is mutated by one node at
//	a time. It is not safe for concurrent use.
type State struct {
	RawText         string                     `json:"raw_text"`
	WorkExperiences []datatypes.WorkExperience `json:"work_experiences"`
	Education       []datatypes.Education      `json:"education"`
	Summary         string                     `json:"summary"`
	Insights        []string                   `json:"insights"`
	Questions       []string                   `json:"questions"`
	CurrentNode     string                     `json:"current_node"`
	Error           string                     `json:"error,omitempty"`
}

// NewState creates the initial State for a session.
//
// Inputs:
//
//	rawText - The résumé text. Immutable after creation.
//
// Outputs:
//
//	*State - All collections empty, progress marker at the entry node.
func NewState(rawText string) *State {
	return &State{
		RawText:         rawText,
		WorkExperiences: []datatypes.WorkExperience{},
		Education:       []datatypes.Education{},
		Insights:        []string{},
		Questions:       []string{},
		CurrentNode:     NodeStart,
	}
}

// Failed reports whether a hard failure has been recorded.
func (s *State) Failed() bool {
	return s.Error != ""
}

// NewThreadID generates a session identifier for checkpointing.
// Format: "thread_" followed by 8 hex characters.
func NewThreadID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s%s", ThreadIDPrefix, hex[:8])
}
