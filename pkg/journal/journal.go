/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package journal records the lifecycle of every command execution as
// structured log entries. Producers never block: entries land in a bounded
// in-memory ring synchronously and are emitted through klog by a background
// flush worker, so a slow log sink cannot stall the scheduler.
package journal

import (
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/metrics"
)

const (
	PhaseQueued    = "queued"
	PhaseExecuting = "executing"
	PhaseCompleted = "completed"
	PhaseFailed    = "failed"
	PhaseSystem    = "system"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

const (
	// ringSize is the number of recent entries kept for the admin surface
	ringSize = 512
	// bufferSize is the capacity of the emission channel
	bufferSize = 256
	// batchSize is the number of entries to emit per flush
	batchSize = 32
	// flushInterval emits partial batches on low traffic
	flushInterval = 2 * time.Second
)

// Entry is one structured journal record.
type Entry struct {
	ExecutionId string            `json:"executionId,omitempty"`
	CommandId   string            `json:"commandId,omitempty"`
	UserId      string            `json:"userId,omitempty"`
	Phase       string            `json:"phase"`
	Level       string            `json:"level"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type Journal struct {
	ch      chan Entry
	dropped atomic.Int64

	mu   sync.Mutex
	ring []Entry

	wg        sync.WaitGroup
	closeOnce sync.Once
}

var (
	instance *Journal
	once     sync.Once
)

// GetJournal returns the process-wide journal.
func GetJournal() *Journal {
	once.Do(func() {
		instance = NewJournal()
	})
	return instance
}

// NewJournal creates a journal and starts its flush worker.
func NewJournal() *Journal {
	j := &Journal{
		ch:   make(chan Entry, bufferSize),
		ring: make([]Entry, 0, ringSize),
	}
	j.wg.Add(1)
	go j.flushWorker()
	return j
}

// Record stores the entry in the ring and hands it to the flush worker.
// When the emission buffer is full the log line is dropped, never the caller.
func (j *Journal) Record(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Level == "" {
		entry.Level = LevelInfo
	}

	j.mu.Lock()
	if len(j.ring) == ringSize {
		j.ring = j.ring[1:]
	}
	j.ring = append(j.ring, entry)
	j.mu.Unlock()

	select {
	case j.ch <- entry:
	default:
		j.dropped.Add(1)
		metrics.JournalDroppedTotal.Inc()
	}
}

// Recent returns up to n most recent entries, oldest first.
func (j *Journal) Recent(n int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if n > len(j.ring) {
		n = len(j.ring)
	}
	out := make([]Entry, n)
	copy(out, j.ring[len(j.ring)-n:])
	return out
}

// Dropped returns how many entries missed the log sink because the buffer
// was full. The ring keeps them regardless.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Close flushes pending entries to the log sink and stops the worker.
func (j *Journal) Close() {
	j.closeOnce.Do(func() {
		close(j.ch)
		j.wg.Wait()
	})
}

// flushWorker batches entries and writes them through klog.
func (j *Journal) flushWorker() {
	defer j.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		for i := range batch {
			emit(&batch[i])
		}
		klog.V(4).Infof("flushed %d journal entries", len(batch))
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-j.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func emit(entry *Entry) {
	kvs := []interface{}{
		"executionId", entry.ExecutionId,
		"commandId", entry.CommandId,
		"userId", entry.UserId,
		"phase", entry.Phase,
		"level", entry.Level,
		"timestamp", entry.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range entry.Metadata {
		kvs = append(kvs, "meta."+k, v)
	}
	if entry.Level == LevelError {
		klog.ErrorS(nil, entry.Message, kvs...)
		return
	}
	klog.InfoS(entry.Message, kvs...)
}
