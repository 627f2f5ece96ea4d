/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package scheduler serializes command execution: a priority queue feeds a
// single worker, and a FIFO mutex guarantees that at most one Kubernetes
// mutation is in flight no matter who calls into the scheduler.
package scheduler

import (
	"context"
	"sync"
)

// ExecMutex is a mutual-exclusion lock with strict arrival-order handoff.
// sync.Mutex makes no fairness promise, so waiters are kept in an explicit
// list and Release hands the lock directly to the oldest one: the lock never
// observably becomes free while anyone is waiting.
type ExecMutex struct {
	mu       sync.Mutex
	locked   bool
	waiters  []chan struct{}
	onChange func(locked bool, waiting int)
}

// NewExecMutex creates a mutex. onChange, when non-nil, is invoked with the
// lock state after every transition; the scheduler uses it to publish
// mutexStatus to the state registry.
func NewExecMutex(onChange func(locked bool, waiting int)) *ExecMutex {
	return &ExecMutex{onChange: onChange}
}

// Acquire blocks until the caller holds the lock or ctx is done. Waiters are
// served strictly in the order they arrived. The only possible error is the
// caller's context error.
func (m *ExecMutex) Acquire(ctx context.Context) error {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.notifyLocked()
		m.mu.Unlock()
		return nil
	}
	ready := make(chan struct{})
	m.waiters = append(m.waiters, ready)
	m.notifyLocked()
	m.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
	}

	m.mu.Lock()
	for i, waiter := range m.waiters {
		if waiter == ready {
			m.waiters = append(m.waiters[:i], m.waiters[i+1:]...)
			m.notifyLocked()
			m.mu.Unlock()
			return ctx.Err()
		}
	}
	m.mu.Unlock()
	// The handoff won the race: this caller already owns the lock and is
	// abandoning it, so pass it straight on.
	m.Release()
	return ctx.Err()
}

// Release hands the lock to the oldest waiter, or unlocks when nobody waits.
// Releasing an unheld mutex is a programming error and panics.
func (m *ExecMutex) Release() {
	m.mu.Lock()
	if !m.locked {
		m.mu.Unlock()
		panic("scheduler: release of an unheld execution mutex")
	}
	if len(m.waiters) > 0 {
		head := m.waiters[0]
		m.waiters = m.waiters[1:]
		m.notifyLocked()
		m.mu.Unlock()
		// locked stays true: ownership moves without an unlocked window
		close(head)
		return
	}
	m.locked = false
	m.notifyLocked()
	m.mu.Unlock()
}

func (m *ExecMutex) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

func (m *ExecMutex) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

func (m *ExecMutex) notifyLocked() {
	if m.onChange != nil {
		m.onChange(m.locked, len(m.waiters))
	}
}
