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

import "fmt"

// RouteFunc picks the next node after a conditional edge, based only on
// the current state.
type RouteFunc func(state *State) string

// Graph is the immutable pipeline definition.
//
// Description:
//
//	Built once at process start and referenced read-only by every
//	request; all per-request mutation lives in the State. Exactly one
//	conditional edge exists, leaving extract_work: it routes to end when
//	that node recorded an error, otherwise to extract_education. Errors
//	arising in any later node are recorded but do not reroute execution;
//	the remaining nodes still run on the failed state. That asymmetry is
//	deliberate and mirrors the shipped behavior.
//
// Thread Safety:
//
//	Safe for concurrent use; Graph holds no mutable state.
type Graph struct {
	name         string
	entry        string
	terminal     string
	nodes        map[string]NodeFunc
	edges        map[string]string
	conditionals map[string]RouteFunc
}

// Name returns the graph's name, used in logging and tracing.
func (g *Graph) Name() string { return g.name }

// Entry returns the entry node name.
func (g *Graph) Entry() string { return g.entry }

// Terminal returns the terminal node name.
func (g *Graph) Terminal() string { return g.terminal }

// HasNode reports whether the named node exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// next resolves the node that follows name, or "" at the terminal.
func (g *Graph) next(name string, state *State) string {
	if route, ok := g.conditionals[name]; ok {
		return route(state)
	}
	return g.edges[name]
}

// Builder constructs a Graph with validation.
//
// Description:
//
//	Accumulates nodes and edges, then validates the whole definition in
//	Build: no duplicate nodes, no edges to or from unregistered nodes,
//	entry and terminal set. Node bodies are wrapped with guard here so
//	the failure-catching policy cannot be forgotten per node.
//
// Thread Safety:
//
//	Builder is NOT safe for concurrent use. Build the graph in a single
//	goroutine at startup.
type Builder struct {
	name         string
	entry        string
	terminal     string
	nodes        map[string]NodeFunc
	edges        map[string]string
	conditionals map[string]RouteFunc
	errors       []error
}

// NewBuilder creates a graph builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:         name,
		nodes:        make(map[string]NodeFunc),
		edges:        make(map[string]string),
		conditionals: make(map[string]RouteFunc),
	}
}

// AddNode registers a node. The body is wrapped with the uniform failure
// guard; duplicate names are recorded as build errors.
func (b *Builder) AddNode(name string, fn NodeFunc) *Builder {
	if fn == nil {
		b.errors = append(b.errors, fmt.Errorf("%w: nil node %q", ErrInvalidInput, name))
		return b
	}
	if _, exists := b.nodes[name]; exists {
		b.errors = append(b.errors, fmt.Errorf("%w: %q", ErrDuplicateNode, name))
		return b
	}
	b.nodes[name] = guard(name, fn)
	return b
}

// AddEdge registers an unconditional transition from one node to another.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges[from] = to
	return b
}

// AddConditionalEdge registers a routing function for the edge leaving from.
func (b *Builder) AddConditionalEdge(from string, route RouteFunc) *Builder {
	if route == nil {
		b.errors = append(b.errors, fmt.Errorf("%w: nil route from %q", ErrInvalidInput, from))
		return b
	}
	b.conditionals[from] = route
	return b
}

// SetEntryPoint names the node execution starts at.
func (b *Builder) SetEntryPoint(name string) *Builder {
	b.entry = name
	return b
}

// SetTerminal names the node execution stops after.
func (b *Builder) SetTerminal(name string) *Builder {
	b.terminal = name
	return b
}

// Build validates and constructs the immutable Graph.
func (b *Builder) Build() (*Graph, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	if len(b.nodes) == 0 {
		return nil, fmt.Errorf("%w: graph has no nodes", ErrInvalidInput)
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fmt.Errorf("%w: entry point %q", ErrUnknownNode, b.entry)
	}
	if _, ok := b.nodes[b.terminal]; !ok {
		return nil, fmt.Errorf("%w: terminal %q", ErrUnknownNode, b.terminal)
	}
	for from, to := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: edge from %q", ErrUnknownNode, from)
		}
		if _, ok := b.nodes[to]; !ok {
			return nil, fmt.Errorf("%w: edge from %q to %q", ErrUnknownNode, from, to)
		}
		if _, dup := b.conditionals[from]; dup {
			return nil, fmt.Errorf("%w: node %q has both a plain and a conditional edge", ErrInvalidInput, from)
		}
	}
	for from := range b.conditionals {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: conditional edge from %q", ErrUnknownNode, from)
		}
	}

	return &Graph{
		name:         b.name,
		entry:        b.entry,
		terminal:     b.terminal,
		nodes:        b.nodes,
		edges:        b.edges,
		conditionals: b.conditionals,
	}, nil
}
