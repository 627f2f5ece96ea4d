/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scheduler

import (
	"container/heap"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/parser"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/quota"
)

// ErrQueueEmpty is returned by Dequeue when no command is pending.
var ErrQueueEmpty = errors.New("queue is empty")

// Item is one accepted EXECUTE command waiting for the worker.
type Item struct {
	ExecutionId string
	CommandId   string
	UserId      string
	Role        quota.Role
	Priority    int
	Command     parser.Command
	EnqueuedAt  time.Time

	// seq breaks ties between items enqueued within the same timestamp
	// granularity so the ordering stays total.
	seq uint64
}

// CommandQueue orders pending commands by (priority asc, enqueue time asc,
// insertion sequence asc). Admin commands overtake everything already queued
// at lower urgency; equal priorities drain FIFO.
type CommandQueue struct {
	mu       sync.Mutex
	items    commandHeap
	seq      uint64
	onChange func(length int)
}

// NewCommandQueue creates an empty queue. onChange, when non-nil, receives
// the queue length after every mutation.
func NewCommandQueue(onChange func(length int)) *CommandQueue {
	return &CommandQueue{onChange: onChange}
}

// Enqueue inserts the item and returns its 1-based position among pending
// commands, counted in dequeue order.
func (q *CommandQueue) Enqueue(item *Item) int {
	q.mu.Lock()
	q.seq++
	item.seq = q.seq
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}
	heap.Push(&q.items, item)
	position := 1
	for _, other := range q.items {
		if other != item && before(other, item) {
			position++
		}
	}
	length := len(q.items)
	q.mu.Unlock()
	q.notify(length)
	return position
}

// Dequeue removes and returns the most urgent item, or ErrQueueEmpty.
// It never blocks.
func (q *CommandQueue) Dequeue() (*Item, error) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return nil, ErrQueueEmpty
	}
	item := heap.Pop(&q.items).(*Item)
	length := len(q.items)
	q.mu.Unlock()
	q.notify(length)
	return item, nil
}

func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns the pending items in dequeue order without removing them.
func (q *CommandQueue) Snapshot() []*Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Item, len(q.items))
	copy(out, q.items)
	sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}

func (q *CommandQueue) notify(length int) {
	if q.onChange != nil {
		q.onChange(length)
	}
}

type commandHeap []*Item

func before(a, b *Item) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if !a.EnqueuedAt.Equal(b.EnqueuedAt) {
		return a.EnqueuedAt.Before(b.EnqueuedAt)
	}
	return a.seq < b.seq
}

func (h commandHeap) Len() int { return len(h) }

func (h commandHeap) Less(i, j int) bool { return before(h[i], h[j]) }

func (h commandHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *commandHeap) Push(x interface{}) {
	*h = append(*h, x.(*Item))
}

func (h *commandHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
