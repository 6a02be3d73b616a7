// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checkpoint

import "sync"

// sessionLock pairs the per-session mutex with a count of holders and
// waiters so the manager knows when the entry can be evicted.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// LockManager grants an exclusive lock per session id.
//
// Description:
//
//	Resumption is a read-modify-write against the store: load the last
//	snapshot, overlay caller-supplied fields, re-run nodes, save. The
//	manager serializes that sequence against any other request touching
//	the same session id, so a resume racing the original run (or a
//	second resume) cannot interleave writes. All sessions live in one
//	process; distinct ids never block each other. Entries are evicted
//	once the last holder releases, so the map stays proportional to the
//	number of in-flight sessions rather than growing for the process
//	lifetime.
//
// Thread Safety:
//
//	Safe for concurrent use.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewLockManager creates an empty lock manager.
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*sessionLock)}
}

// Lock acquires the exclusive lock for the session id, blocking until it
// is available. The returned function releases it.
func (m *LockManager) Lock(sessionID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		m.locks[sessionID] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, sessionID)
		}
		m.mu.Unlock()
	}
}
