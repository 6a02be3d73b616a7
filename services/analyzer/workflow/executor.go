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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("analyzer.workflow")

// Saver persists a State snapshot for a session. The checkpoint package
// provides the badger-backed implementation.
type Saver interface {
	Save(ctx context.Context, sessionID string, state *State) error
}

// Observer is invoked after each node completes, with the node's name and
// the state it produced. Returning a non-nil error aborts the run; the
// already-persisted checkpoints are kept.
type Observer func(node string, state *State) error

// Executor runs the graph for one session at a time.
//
// Description:
//
//	Advances the graph sequentially from the entry node to the terminal,
//	persisting a checkpoint after every node and notifying the observer.
//	Node execution never fails the run: hard faults land in the state's
//	Error field via the guard wrapper. Run only returns an error for
//	infrastructure faults (context cancellation, checkpoint write
//	failure) or an observer abort.
//
// Thread Safety:
//
//	Safe for concurrent use. Multiple sessions can run concurrently on
//	the same Executor; each call operates on its own State.
type Executor struct {
	graph  *Graph
	store  Saver
	logger *slog.Logger
}

// NewExecutor creates an executor over an immutable graph.
//
// Inputs:
//
//	graph - The pipeline definition. Must not be nil.
//	store - Checkpoint persistence. Must not be nil.
//	logger - Logger for execution logs. If nil, uses slog.Default().
func NewExecutor(graph *Graph, store Saver, logger *slog.Logger) (*Executor, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: graph must not be nil", ErrInvalidInput)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store must not be nil", ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{graph: graph, store: store, logger: logger}, nil
}

// Run executes the graph from its entry node to the terminal.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	sessionID - Session identifier used for checkpoint keys.
//	state - The session state. Mutated in place.
//	observer - Optional per-node callback. May be nil.
//
// Outputs:
//
//	error - Non-nil only on infrastructure failure or observer abort;
//	        node-level faults are recorded in state.Error instead.
func (e *Executor) Run(ctx context.Context, sessionID string, state *State, observer Observer) error {
	return e.run(ctx, sessionID, state, e.graph.Entry(), observer)
}

// RunFrom re-enters the graph at the named node and executes it plus
// everything downstream of it. Nothing before the target is re-executed;
// previously populated state fields are taken as-is.
func (e *Executor) RunFrom(ctx context.Context, sessionID string, state *State, target string, observer Observer) error {
	if !e.graph.HasNode(target) {
		return fmt.Errorf("%w: %q", ErrUnknownNode, target)
	}
	return e.run(ctx, sessionID, state, target, observer)
}

func (e *Executor) run(ctx context.Context, sessionID string, state *State, from string, observer Observer) error {
	if ctx == nil {
		return ErrNilContext
	}
	if state == nil {
		return fmt.Errorf("%w: state must not be nil", ErrInvalidInput)
	}

	ctx, span := tracer.Start(ctx, "workflow.Pipeline",
		trace.WithAttributes(
			attribute.String("workflow.name", e.graph.Name()),
			attribute.String("workflow.session_id", sessionID),
			attribute.String("workflow.entry", from),
		),
	)
	defer span.End()

	start := time.Now()
	e.logger.Info("pipeline started",
		slog.String("workflow", e.graph.Name()),
		slog.String("session_id", sessionID),
		slog.String("entry", from),
	)

	current := from
	// Step cap guards against a miswired graph looping forever.
	for steps := 0; current != "" && steps <= len(e.graph.nodes); steps++ {
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "context canceled")
			return ctx.Err()
		default:
		}

		if err := e.executeNode(ctx, current, sessionID, state); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		if observer != nil {
			if err := observer(current, state); err != nil {
				e.logger.Info("pipeline aborted by observer",
					slog.String("session_id", sessionID),
					slog.String("node", current),
				)
				return err
			}
		}

		if current == e.graph.Terminal() {
			break
		}
		current = e.graph.next(current, state)
	}

	span.SetStatus(codes.Ok, "")
	e.logger.Info("pipeline completed",
		slog.String("session_id", sessionID),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("failed", state.Failed()),
	)
	return nil
}

// executeNode runs one node under its timeout and persists the result.
func (e *Executor) executeNode(ctx context.Context, name, sessionID string, state *State) error {
	ctx, span := tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("workflow.node", name),
			attribute.String("workflow.session_id", sessionID),
		),
	)
	defer span.End()

	e.logger.Debug("node starting",
		slog.String("node", name),
		slog.String("session_id", sessionID),
	)

	nodeCtx, cancel := context.WithTimeout(ctx, DefaultNodeTimeout)
	defer cancel()

	start := time.Now()
	// guard never returns an error; faults are in state.Error.
	_ = e.graph.nodes[name](nodeCtx, state)
	duration := time.Since(start)

	if state.Failed() {
		// A deadline fault surfaces as a timeout, not a generic provider error.
		if errors.Is(nodeCtx.Err(), context.DeadlineExceeded) {
			state.Error = fmt.Sprintf("Error in %s: %v", name, ErrNodeTimeout)
		}
		span.SetStatus(codes.Error, state.Error)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if err := e.store.Save(ctx, sessionID, state); err != nil {
		return fmt.Errorf("save checkpoint after %s: %w", name, err)
	}

	e.logger.Info("node completed",
		slog.String("node", name),
		slog.Duration("duration", duration),
	)
	return nil
}
