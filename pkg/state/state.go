/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package state holds the live execution view of the control plane: what the
// worker is doing, how deep the queue is, and what happened last. Reads hand
// out deep copies so no caller can reach into registry internals, and every
// change fans out to subscribed watchers.
package state

import (
	"sync"
	"time"
)

type WorkerStatus string

const (
	WorkerStopped   WorkerStatus = "STOPPED"
	WorkerIdle      WorkerStatus = "IDLE"
	WorkerExecuting WorkerStatus = "EXECUTING"
)

const (
	ResultCompleted = "COMPLETED"
	ResultFailed    = "FAILED"
)

type MutexStatus struct {
	Locked  bool `json:"locked"`
	Waiting int  `json:"waiting"`
}

// CurrentCommand is the sanitized in-flight view. Raw chat text never enters
// the registry; only the action and the requested replica count do.
type CurrentCommand struct {
	ExecutionId       string `json:"executionId"`
	Action            string `json:"action"`
	RequestedReplicas *int32 `json:"requestedReplicas,omitempty"`
}

type Result struct {
	ExecutionId string    `json:"executionId"`
	CommandId   string    `json:"commandId"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	DurationMs  int64     `json:"durationMs"`
}

type ErrorInfo struct {
	Message   string    `json:"message"`
	ErrorType string    `json:"errorType"`
	At        time.Time `json:"at"`
}

type Snapshot struct {
	WorkerStatus   WorkerStatus    `json:"workerStatus"`
	QueueLength    int             `json:"queueLength"`
	Mutex          MutexStatus     `json:"mutex"`
	CurrentCommand *CurrentCommand `json:"currentCommand,omitempty"`
	LastResult     *Result         `json:"lastResult,omitempty"`
	LastError      *ErrorInfo      `json:"lastError,omitempty"`
	UptimeMs       int64           `json:"uptimeMs"`
}

type Registry struct {
	mu           sync.RWMutex
	workerStatus WorkerStatus
	queueLength  int
	mutexStatus  MutexStatus
	current      *CurrentCommand
	lastResult   *Result
	lastError    *ErrorInfo
	startedAt    time.Time

	subMu       sync.Mutex
	subscribers map[int]chan Snapshot
	nextSubId   int
}

var (
	registry *Registry
	once     sync.Once
)

// GetRegistry returns the process-wide registry.
func GetRegistry() *Registry {
	once.Do(func() {
		registry = NewRegistry()
	})
	return registry
}

func NewRegistry() *Registry {
	return &Registry{
		workerStatus: WorkerStopped,
		startedAt:    time.Now(),
		subscribers:  map[int]chan Snapshot{},
	}
}

func (r *Registry) SetWorkerStatus(status WorkerStatus) {
	r.mu.Lock()
	r.workerStatus = status
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

func (r *Registry) SetQueueLength(length int) {
	r.mu.Lock()
	r.queueLength = length
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

func (r *Registry) SetMutexStatus(locked bool, waiting int) {
	r.mu.Lock()
	r.mutexStatus = MutexStatus{Locked: locked, Waiting: waiting}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

func (r *Registry) SetCurrentCommand(executionId, action string, requestedReplicas *int32) {
	r.mu.Lock()
	r.current = &CurrentCommand{
		ExecutionId:       executionId,
		Action:            action,
		RequestedReplicas: cloneInt32(requestedReplicas),
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

func (r *Registry) ClearCurrentCommand() {
	r.mu.Lock()
	r.current = nil
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

func (r *Registry) SetLastResult(result Result) {
	r.mu.Lock()
	r.lastResult = &result
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

func (r *Registry) SetLastError(message, errorType string) {
	r.mu.Lock()
	r.lastError = &ErrorInfo{Message: message, ErrorType: errorType, At: time.Now()}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.publish(snap)
}

// View returns a deep copy of the current state.
func (r *Registry) View() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Registry) UptimeMs() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return time.Since(r.startedAt).Milliseconds()
}

// Subscribe registers a watcher for state changes. Slow watchers miss
// intermediate snapshots instead of blocking writers.
func (r *Registry) Subscribe() (int, <-chan Snapshot) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.nextSubId++
	id := r.nextSubId
	ch := make(chan Snapshot, 16)
	r.subscribers[id] = ch
	return id, ch
}

func (r *Registry) Unsubscribe(id int) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	if ch, ok := r.subscribers[id]; ok {
		delete(r.subscribers, id)
		close(ch)
	}
}

func (r *Registry) publish(snap Snapshot) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (r *Registry) snapshotLocked() Snapshot {
	snap := Snapshot{
		WorkerStatus: r.workerStatus,
		QueueLength:  r.queueLength,
		Mutex:        r.mutexStatus,
		UptimeMs:     time.Since(r.startedAt).Milliseconds(),
	}
	if r.current != nil {
		current := *r.current
		current.RequestedReplicas = cloneInt32(r.current.RequestedReplicas)
		snap.CurrentCommand = &current
	}
	if r.lastResult != nil {
		result := *r.lastResult
		snap.LastResult = &result
	}
	if r.lastError != nil {
		lastError := *r.lastError
		snap.LastError = &lastError
	}
	return snap
}

func cloneInt32(v *int32) *int32 {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
