/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scheduler

import (
	"sync"
	"testing"
	"time"

	"gotest.tools/assert"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/parser"
)

func newItem(id string, priority int, enqueuedAt time.Time) *Item {
	return &Item{
		ExecutionId: id,
		CommandId:   id,
		Priority:    priority,
		Command:     parser.Command{Action: parser.ActionExecute, Kind: parser.KindRestart},
		EnqueuedAt:  enqueuedAt,
	}
}

func TestQueuePriorityOrdering(t *testing.T) {
	q := NewCommandQueue(nil)
	base := time.Now()

	// Arrival order: normal, free, admin. Dequeue order: admin, free, normal.
	q.Enqueue(newItem("normal", common.NormalPriorityInt, base))
	q.Enqueue(newItem("free", common.FreePriorityInt, base.Add(time.Millisecond)))
	q.Enqueue(newItem("admin", common.AdminPriorityInt, base.Add(2*time.Millisecond)))

	var got []string
	for {
		item, err := q.Dequeue()
		if err != nil {
			break
		}
		got = append(got, item.ExecutionId)
	}
	assert.DeepEqual(t, got, []string{"admin", "free", "normal"})
}

func TestQueueFifoWithinPriority(t *testing.T) {
	q := NewCommandQueue(nil)
	base := time.Now()
	q.Enqueue(newItem("first", common.NormalPriorityInt, base))
	q.Enqueue(newItem("second", common.NormalPriorityInt, base.Add(time.Millisecond)))
	q.Enqueue(newItem("third", common.NormalPriorityInt, base.Add(2*time.Millisecond)))

	for _, want := range []string{"first", "second", "third"} {
		item, err := q.Dequeue()
		assert.NilError(t, err)
		assert.Equal(t, item.ExecutionId, want)
	}
}

func TestQueueSameTimestampKeepsInsertionOrder(t *testing.T) {
	q := NewCommandQueue(nil)
	at := time.Now()
	q.Enqueue(newItem("a", common.FreePriorityInt, at))
	q.Enqueue(newItem("b", common.FreePriorityInt, at))

	item, err := q.Dequeue()
	assert.NilError(t, err)
	assert.Equal(t, item.ExecutionId, "a")
}

func TestQueuePosition(t *testing.T) {
	q := NewCommandQueue(nil)
	base := time.Now()

	assert.Equal(t, q.Enqueue(newItem("normal", common.NormalPriorityInt, base)), 1)
	assert.Equal(t, q.Enqueue(newItem("behind", common.NormalPriorityInt, base.Add(time.Millisecond))), 2)
	// An admin item jumps the whole line.
	assert.Equal(t, q.Enqueue(newItem("admin", common.AdminPriorityInt, base.Add(2*time.Millisecond))), 1)
}

func TestQueueEmptyDequeue(t *testing.T) {
	q := NewCommandQueue(nil)
	item, err := q.Dequeue()
	assert.Assert(t, item == nil)
	assert.Equal(t, err, ErrQueueEmpty)
}

func TestQueuePublishesLength(t *testing.T) {
	var mu sync.Mutex
	var lengths []int
	q := NewCommandQueue(func(length int) {
		mu.Lock()
		lengths = append(lengths, length)
		mu.Unlock()
	})

	q.Enqueue(newItem("a", common.NormalPriorityInt, time.Now()))
	q.Enqueue(newItem("b", common.NormalPriorityInt, time.Now()))
	_, err := q.Dequeue()
	assert.NilError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.DeepEqual(t, lengths, []int{1, 2, 1})
}

func TestQueueConcurrentAccess(t *testing.T) {
	q := NewCommandQueue(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(priority int) {
			defer wg.Done()
			q.Enqueue(newItem("x", priority%3+1, time.Now()))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, q.Len(), 20)

	last := 0
	for {
		item, err := q.Dequeue()
		if err != nil {
			break
		}
		assert.Assert(t, item.Priority >= last)
		last = item.Priority
	}
	assert.Equal(t, q.Len(), 0)
}
