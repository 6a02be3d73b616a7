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
	"fmt"
	"log/slog"
	"time"
)

// DefaultNodeTimeout bounds each node's model call. A timeout is a hard
// failure, recorded into the state like any other unexpected fault.
const DefaultNodeTimeout = 60 * time.Second

// Node names, in pipeline order.
const (
	NodeStart            = "start"
	NodeExtractWork      = "extract_work"
	NodeExtractEducation = "extract_education"
	NodeGenerateSummary  = "generate_summary"
	NodeExtractInsights  = "extract_insights"
	NodeGenerateQuestion = "generate_questions"
	NodeEnd              = "end"
)

// NodeFunc is one stage of the pipeline. It mutates the state in place and
// returns an error only for hard failures; soft (parse) failures are
// absorbed inside the node with a degraded default.
type NodeFunc func(ctx context.Context, state *State) error

// guard wraps a NodeFunc with the uniform failure-catching policy.
//
// Description:
//
//	Every node passes through guard exactly once, at graph construction.
//	Any error or panic escaping the node body is caught, logged, and
//	converted into the state's Error field; the (possibly partially
//	updated) state always survives so routing can still run. The wrapped
//	function never returns an error and never lets a fault escape.
//
// Inputs:
//
//	name - Node name, used in the recorded error message.
//	fn - The node body to protect.
func guard(name string, fn NodeFunc) NodeFunc {
	return func(ctx context.Context, state *State) (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in node", "node", name, "panic", r)
				state.Error = fmt.Sprintf("Error in %s: %v", name, r)
				err = nil
			}
		}()

		if nodeErr := fn(ctx, state); nodeErr != nil {
			slog.Error("error in node", "node", name, "error", nodeErr)
			state.Error = fmt.Sprintf("Error in %s: %v", name, nodeErr)
		}
		return nil
	}
}
