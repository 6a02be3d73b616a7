// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package checkpoint persists workflow state snapshots per session id.
//
// The store keeps the latest snapshot per session, wrapped in a versioned
// envelope with a SHA-256 checksum that is verified on load. Badger
// provides per-key atomicity, so concurrent sessions never corrupt each
// other's records.
package checkpoint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"
)

// Version is the current checkpoint envelope version (semver).
const Version = "1.0.0"

// keyPrefix namespaces checkpoint records inside the shared database.
const keyPrefix = "checkpoint/"

var (
	// ErrNotFound indicates no checkpoint exists for the session id.
	// Resumption surfaces this as a user-facing not-found condition,
	// never as an internal failure.
	ErrNotFound = errors.New("no checkpoint found for session")

	// ErrCorrupt indicates a stored envelope failed checksum verification.
	ErrCorrupt = errors.New("checkpoint failed integrity check")

	// ErrVersionMismatch indicates an envelope written by an
	// incompatible format version.
	ErrVersionMismatch = errors.New("checkpoint version mismatch")
)

// envelope is the stored form of a snapshot.
type envelope struct {
	State     *workflow.State `json:"state"`
	SessionID string          `json:"session_id"`
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`
	Checksum  string          `json:"checksum"`
}

// computeChecksum calculates SHA-256 over the envelope minus the checksum
// field itself.
func computeChecksum(state *workflow.State, sessionID string, timestamp time.Time) (string, error) {
	data := struct {
		State     *workflow.State `json:"state"`
		SessionID string          `json:"session_id"`
		Timestamp time.Time       `json:"timestamp"`
		Version   string          `json:"version"`
	}{
		State:     state,
		SessionID: sessionID,
		Timestamp: timestamp,
		Version:   Version,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal for checksum: %w", err)
	}

	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}

// Store is the badger-backed checkpoint store.
//
// Thread Safety:
//
//	Safe for concurrent use. Badger serializes writes per key; distinct
//	session ids never contend on shared mutable state here.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewStore wraps an open badger database.
//
// Inputs:
//
//	db - Open database. Must not be nil. The caller owns its lifecycle.
//	logger - Logger for store operations. If nil, uses slog.Default().
func NewStore(db *badger.DB, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}, nil
}

// Save persists a full state snapshot for the session, overwriting any
// previous snapshot.
//
// Inputs:
//
//	ctx - Context for cancellation, checked before the write.
//	sessionID - Session identifier. Must not be empty.
//	state - The snapshot. Must not be nil.
//
// Outputs:
//
//	error - Non-nil if serialization or the write fails.
func (s *Store) Save(ctx context.Context, sessionID string, state *workflow.State) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if sessionID == "" {
		return errors.New("sessionID must not be empty")
	}
	if state == nil {
		return errors.New("state must not be nil")
	}

	timestamp := time.Now().UTC()
	checksum, err := computeChecksum(state, sessionID, timestamp)
	if err != nil {
		return fmt.Errorf("compute checksum: %w", err)
	}

	data, err := json.Marshal(envelope{
		State:     state,
		SessionID: sessionID,
		Timestamp: timestamp,
		Version:   Version,
		Checksum:  checksum,
	})
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+sessionID), data)
	})
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}

	s.logger.Debug("checkpoint saved",
		slog.String("session_id", sessionID),
		slog.String("node", state.CurrentNode),
	)
	return nil
}

// Load reads and verifies the latest snapshot for the session.
//
// Outputs:
//
//	*workflow.State - The snapshot. Never nil on success.
//	error - ErrNotFound for an unknown id, ErrCorrupt or
//	        ErrVersionMismatch for an unreadable envelope.
func (s *Store) Load(ctx context.Context, sessionID string) (*workflow.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	if sessionID == "" {
		return nil, errors.New("sessionID must not be empty")
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + sessionID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}

	if env.Version != Version {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrVersionMismatch, env.Version, Version)
	}

	expected, err := computeChecksum(env.State, env.SessionID, env.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("compute checksum for verification: %w", err)
	}
	if env.Checksum != expected {
		return nil, ErrCorrupt
	}

	return env.State, nil
}

var _ workflow.Saver = (*Store)(nil)
