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
	"testing"
)

func noopNode(_ context.Context, _ *State) error { return nil }

func TestBuilder_Build_Valid(t *testing.T) {
	graph, err := NewBuilder("test").
		AddNode("a", noopNode).
		AddNode("b", noopNode).
		AddEdge("a", "b").
		SetEntryPoint("a").
		SetTerminal("b").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if graph.Entry() != "a" {
		t.Errorf("Entry = %q, want %q", graph.Entry(), "a")
	}
	if graph.Terminal() != "b" {
		t.Errorf("Terminal = %q, want %q", graph.Terminal(), "b")
	}
	if !graph.HasNode("a") || !graph.HasNode("b") {
		t.Error("expected both registered nodes to exist")
	}
	if graph.HasNode("c") {
		t.Error("HasNode should be false for unregistered node")
	}
}

func TestBuilder_Build_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		build   func() (*Graph, error)
		wantErr error
	}{
		{
			name: "duplicate node",
			build: func() (*Graph, error) {
				return NewBuilder("t").
					AddNode("a", noopNode).
					AddNode("a", noopNode).
					SetEntryPoint("a").
					SetTerminal("a").
					Build()
			},
			wantErr: ErrDuplicateNode,
		},
		{
			name: "nil node func",
			build: func() (*Graph, error) {
				return NewBuilder("t").
					AddNode("a", nil).
					SetEntryPoint("a").
					SetTerminal("a").
					Build()
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown entry",
			build: func() (*Graph, error) {
				return NewBuilder("t").
					AddNode("a", noopNode).
					SetEntryPoint("missing").
					SetTerminal("a").
					Build()
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "unknown terminal",
			build: func() (*Graph, error) {
				return NewBuilder("t").
					AddNode("a", noopNode).
					SetEntryPoint("a").
					SetTerminal("missing").
					Build()
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "edge to unregistered node",
			build: func() (*Graph, error) {
				return NewBuilder("t").
					AddNode("a", noopNode).
					AddEdge("a", "ghost").
					SetEntryPoint("a").
					SetTerminal("a").
					Build()
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "plain and conditional edge on same node",
			build: func() (*Graph, error) {
				return NewBuilder("t").
					AddNode("a", noopNode).
					AddNode("b", noopNode).
					AddEdge("a", "b").
					AddConditionalEdge("a", func(*State) string { return "b" }).
					SetEntryPoint("a").
					SetTerminal("b").
					Build()
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "empty graph",
			build: func() (*Graph, error) {
				return NewBuilder("t").Build()
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			if err == nil {
				t.Fatal("expected a build error")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewGraph_Topology(t *testing.T) {
	nodes, err := NewNodes(&staticClient{})
	if err != nil {
		t.Fatalf("NewNodes: %v", err)
	}
	graph, err := NewGraph(nodes)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	if graph.Name() != GraphName {
		t.Errorf("Name = %q, want %q", graph.Name(), GraphName)
	}
	if graph.Entry() != NodeStart {
		t.Errorf("Entry = %q, want %q", graph.Entry(), NodeStart)
	}
	if graph.Terminal() != NodeEnd {
		t.Errorf("Terminal = %q, want %q", graph.Terminal(), NodeEnd)
	}

	allNodes := []string{
		NodeStart, NodeExtractWork, NodeExtractEducation,
		NodeGenerateSummary, NodeExtractInsights, NodeGenerateQuestion, NodeEnd,
	}
	for _, name := range allNodes {
		if !graph.HasNode(name) {
			t.Errorf("graph missing node %q", name)
		}
	}

	// Unconditional chain after the extraction phase.
	state := NewState("text")
	transitions := map[string]string{
		NodeStart:            NodeExtractWork,
		NodeExtractEducation: NodeGenerateSummary,
		NodeGenerateSummary:  NodeExtractInsights,
		NodeExtractInsights:  NodeGenerateQuestion,
		NodeGenerateQuestion: NodeEnd,
	}
	for from, want := range transitions {
		if got := graph.next(from, state); got != want {
			t.Errorf("next(%q) = %q, want %q", from, got, want)
		}
	}
}

func TestShouldContinue_Routing(t *testing.T) {
	t.Run("clean state proceeds to education", func(t *testing.T) {
		state := NewState("text")
		if got := shouldContinue(state); got != NodeExtractEducation {
			t.Errorf("shouldContinue = %q, want %q", got, NodeExtractEducation)
		}
	})

	t.Run("failed state short-circuits to end", func(t *testing.T) {
		state := NewState("text")
		state.Error = "Error in extract_work: provider unavailable"
		if got := shouldContinue(state); got != NodeEnd {
			t.Errorf("shouldContinue = %q, want %q", got, NodeEnd)
		}
	})
}

func TestGuard_CapturesErrorsAndPanics(t *testing.T) {
	t.Run("error becomes state.Error", func(t *testing.T) {
		wrapped := guard("extract_work", func(_ context.Context, _ *State) error {
			return errors.New("provider unavailable")
		})

		state := NewState("text")
		if err := wrapped(context.Background(), state); err != nil {
			t.Fatalf("guarded node returned error: %v", err)
		}
		if state.Error != "Error in extract_work: provider unavailable" {
			t.Errorf("state.Error = %q", state.Error)
		}
	})

	t.Run("panic becomes state.Error", func(t *testing.T) {
		wrapped := guard("extract_work", func(_ context.Context, _ *State) error {
			panic("nil dereference")
		})

		state := NewState("text")
		if err := wrapped(context.Background(), state); err != nil {
			t.Fatalf("guarded node returned error: %v", err)
		}
		if state.Error != "Error in extract_work: nil dereference" {
			t.Errorf("state.Error = %q", state.Error)
		}
	})

	t.Run("partial state survives a fault", func(t *testing.T) {
		wrapped := guard("generate_summary", func(_ context.Context, state *State) error {
			state.Summary = "partial"
			return errors.New("late failure")
		})

		state := NewState("text")
		_ = wrapped(context.Background(), state)
		if state.Summary != "partial" {
			t.Error("mutations before the fault should be kept")
		}
		if !state.Failed() {
			t.Error("fault should be recorded")
		}
	})
}
