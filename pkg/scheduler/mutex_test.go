/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestMutexAcquireRelease(t *testing.T) {
	m := NewExecMutex(nil)
	assert.Assert(t, !m.Locked())

	assert.NilError(t, m.Acquire(context.Background()))
	assert.Assert(t, m.Locked())
	assert.Equal(t, m.Waiting(), 0)

	m.Release()
	assert.Assert(t, !m.Locked())
}

func TestMutexFifoHandoff(t *testing.T) {
	m := NewExecMutex(nil)
	assert.NilError(t, m.Acquire(context.Background()))

	const waiters = 5
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NilError(t, m.Acquire(context.Background()))
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			m.Release()
		}(i)
		// Serialize arrival so the expected handoff order is deterministic.
		for m.Waiting() != i+1 {
			time.Sleep(time.Millisecond)
		}
	}

	m.Release()
	wg.Wait()
	assert.DeepEqual(t, order, []int{0, 1, 2, 3, 4})
	assert.Assert(t, !m.Locked())
}

func TestMutexNeverObservablyFreeDuringHandoff(t *testing.T) {
	m := NewExecMutex(nil)
	assert.NilError(t, m.Acquire(context.Background()))

	acquired := make(chan struct{})
	go func() {
		_ = m.Acquire(context.Background())
		close(acquired)
	}()
	for m.Waiting() != 1 {
		time.Sleep(time.Millisecond)
	}

	m.Release()
	<-acquired
	// Ownership moved directly to the waiter.
	assert.Assert(t, m.Locked())
	m.Release()
}

func TestMutexAcquireCancelled(t *testing.T) {
	m := NewExecMutex(nil)
	assert.NilError(t, m.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Acquire(ctx)
	}()
	for m.Waiting() != 1 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	assert.Equal(t, <-errCh, context.Canceled)
	assert.Equal(t, m.Waiting(), 0)

	// The holder is unaffected by the withdrawn waiter.
	assert.Assert(t, m.Locked())
	m.Release()
	assert.Assert(t, !m.Locked())
}

func TestMutexReleaseUnheldPanics(t *testing.T) {
	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	NewExecMutex(nil).Release()
}

func TestMutexPublishesState(t *testing.T) {
	var mu sync.Mutex
	var lastLocked bool
	var lastWaiting int
	m := NewExecMutex(func(locked bool, waiting int) {
		mu.Lock()
		lastLocked, lastWaiting = locked, waiting
		mu.Unlock()
	})

	assert.NilError(t, m.Acquire(context.Background()))
	mu.Lock()
	assert.Assert(t, lastLocked)
	assert.Equal(t, lastWaiting, 0)
	mu.Unlock()

	m.Release()
	mu.Lock()
	assert.Assert(t, !lastLocked)
	mu.Unlock()
}
