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

import "errors"

var (
	// ErrNilContext indicates a nil context was passed to a method requiring one.
	ErrNilContext = errors.New("context must not be nil")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateNode indicates a node name was registered twice.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownNode indicates an edge or entry point references a node
	// that was never registered.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNodeTimeout indicates a node exceeded its execution deadline.
	ErrNodeTimeout = errors.New("node execution timed out")
)
