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
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/datatypes"
)

// =============================================================================
// Interface Definition
// =============================================================================

// SSEWriter defines the contract for writing the analysis event stream.
//
// # Description
//
// SSEWriter abstracts event serialization and writing, enabling
// testability and separation from HTTP response mechanics. Each event is
// written as `data: <json>\n\n` and flushed immediately.
//
// A stream ends after the first error event or after exactly one complete
// event; implementations do not enforce that, the driver does.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// # Assumptions
//
//   - Caller has set Content-Type: text/event-stream before writing
//   - Caller has disabled buffering (X-Accel-Buffering: no)
type SSEWriter interface {
	// WriteEvent writes a single event to the response and flushes.
	WriteEvent(event datatypes.StreamEvent) error

	// WriteSummary writes one summary chunk.
	WriteSummary(content string) error

	// WriteQuestion writes the first interview question.
	WriteQuestion(content string) error

	// WriteError writes an error event. The stream should be closed
	// after this event; no further events may follow it.
	WriteError(errMsg string) error

	// WriteComplete writes the terminal complete event carrying the
	// checkpoint id for later resumption.
	WriteComplete(content, checkpointID string) error
}

// =============================================================================
// Struct Definition
// =============================================================================

// sseWriter implements SSEWriter for HTTP SSE responses.
//
// # Limitations
//
//   - Requires an http.Flusher-compatible ResponseWriter
//   - Cannot be reused across requests
type sseWriter struct {
	writer  http.ResponseWriter
	flusher http.Flusher
	mu      sync.Mutex
}

// NewSSEWriter creates an SSEWriter for the given ResponseWriter.
//
// # Outputs
//
//   - SSEWriter: Ready to write events.
//   - error: Non-nil if the ResponseWriter doesn't support flushing.
func NewSSEWriter(w http.ResponseWriter) (SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("ResponseWriter does not support http.Flusher")
	}

	return &sseWriter{
		writer:  w,
		flusher: flusher,
	}, nil
}

// =============================================================================
// Methods
// =============================================================================

func (w *sseWriter) WriteEvent(event datatypes.StreamEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	w.flusher.Flush()
	return nil
}

func (w *sseWriter) WriteSummary(content string) error {
	return w.WriteEvent(datatypes.StreamEvent{
		Type:    datatypes.StreamEventSummary,
		Content: content,
	})
}

func (w *sseWriter) WriteQuestion(content string) error {
	return w.WriteEvent(datatypes.StreamEvent{
		Type:    datatypes.StreamEventQuestion,
		Content: content,
	})
}

func (w *sseWriter) WriteError(errMsg string) error {
	return w.WriteEvent(datatypes.StreamEvent{
		Type:    datatypes.StreamEventError,
		Content: errMsg,
	})
}

func (w *sseWriter) WriteComplete(content, checkpointID string) error {
	return w.WriteEvent(datatypes.StreamEvent{
		Type:         datatypes.StreamEventComplete,
		Content:      content,
		CheckpointID: checkpointID,
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

// SetSSEHeaders configures HTTP response headers for SSE streaming.
// Must be called before writing any response body.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// =============================================================================
// Compile-time Interface Check
// =============================================================================

var _ SSEWriter = (*sseWriter)(nil)
