// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// Stream event types emitted by the analyze-resume endpoint.
//
// A stream carries zero or more "summary" events, zero or one "question"
// event, then exactly one terminal event: "complete" on success or "error"
// on failure. Nothing follows the terminal event.
const (
	StreamEventSummary  = "summary"
	StreamEventQuestion = "question"
	StreamEventError    = "error"
	StreamEventComplete = "complete"
)

// StreamEvent is one server-sent event on the analysis stream.
//
// Wire format is `data: <json>\n\n` per event; CheckpointID is only set on
// the terminal "complete" event.
type StreamEvent struct {
	Type         string `json:"type"`
	Content      string `json:"content"`
	CheckpointID string `json:"checkpoint_id,omitempty"`
}
