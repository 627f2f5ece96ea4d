/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gotest.tools/assert"
	"k8s.io/utils/ptr"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/parser"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
)

// fakeAdapter records calls and plays back scripted results.
type fakeAdapter struct {
	mu           sync.Mutex
	calls        []string
	replicas     int32
	scaleErr     error
	scalePanics  bool
	reportedSpec *int32
	statusErr    error
	blockScale   chan struct{}
}

func (f *fakeAdapter) Scale(_ context.Context, replicas int32) error {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("scale:%d", replicas))
	block := f.blockScale
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.scalePanics {
		panic("injected adapter panic")
	}
	if f.scaleErr != nil {
		return f.scaleErr
	}
	f.mu.Lock()
	f.replicas = replicas
	f.mu.Unlock()
	return nil
}

func (f *fakeAdapter) Restart(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "restart")
	return nil
}

func (f *fakeAdapter) Status(_ context.Context) (*deployment.DeploymentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "status")
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	spec := f.replicas
	if f.reportedSpec != nil {
		spec = *f.reportedSpec
	}
	return &deployment.DeploymentStatus{
		Name:         deployment.Name,
		Namespace:    deployment.Namespace,
		SpecReplicas: spec,
	}, nil
}

func (f *fakeAdapter) Connectivity(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "connectivity")
	return nil
}

func (f *fakeAdapter) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

type workerFixture struct {
	worker   *Worker
	queue    *CommandQueue
	mutex    *ExecMutex
	adapter  *fakeAdapter
	registry *state.Registry
}

func newWorkerFixture(adapter *fakeAdapter) *workerFixture {
	registry := state.NewRegistry()
	mutex := NewExecMutex(registry.SetMutexStatus)
	queue := NewCommandQueue(registry.SetQueueLength)
	w := NewWorker(queue, mutex, adapter, registry, journal.NewJournal())
	w.grace = 0
	return &workerFixture{worker: w, queue: queue, mutex: mutex, adapter: adapter, registry: registry}
}

func executeItem(id string, priority int, cmd parser.Command) *Item {
	return &Item{
		ExecutionId: id,
		CommandId:   id,
		UserId:      "tester",
		Priority:    priority,
		Command:     cmd,
		EnqueuedAt:  time.Now(),
	}
}

func waitForResult(t *testing.T, registry *state.Registry, executionId string) state.Result {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if snap := registry.View(); snap.LastResult != nil && snap.LastResult.ExecutionId == executionId {
			return *snap.LastResult
		}
		select {
		case <-deadline:
			t.Fatalf("no result recorded for %s", executionId)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWorkerScaleSuccess(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(3))}))

	result := waitForResult(t, f.registry, "exec-1")
	assert.Equal(t, result.Status, state.ResultCompleted)
	assert.DeepEqual(t, f.adapter.callLog(), []string{"scale:3", "status"})
}

func TestWorkerRestartSuccess(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("exec-1", common.AdminPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindRestart}))

	result := waitForResult(t, f.registry, "exec-1")
	assert.Equal(t, result.Status, state.ResultCompleted)
	assert.DeepEqual(t, f.adapter.callLog(), []string{"restart", "connectivity"})
}

func TestWorkerScaleVerificationMismatch(t *testing.T) {
	// The patch is accepted but the deployment keeps reporting 2 replicas.
	f := newWorkerFixture(&fakeAdapter{reportedSpec: ptr.To(int32(2))})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(3))}))

	result := waitForResult(t, f.registry, "exec-1")
	assert.Equal(t, result.Status, state.ResultFailed)
	assert.Assert(t, strings.Contains(result.Message, "verification"))
	assert.Assert(t, !f.mutex.Locked())

	// The failure does not wedge the pipeline: the next command runs.
	f.queue.Enqueue(executeItem("exec-2", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindRestart}))
	assert.Equal(t, waitForResult(t, f.registry, "exec-2").Status, state.ResultCompleted)
}

func TestWorkerFailureReleasesMutex(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{scaleErr: fmt.Errorf("boom")})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(2))}))

	result := waitForResult(t, f.registry, "exec-1")
	assert.Equal(t, result.Status, state.ResultFailed)

	snap := f.registry.View()
	assert.Equal(t, snap.WorkerStatus, state.WorkerIdle)
	assert.Assert(t, !snap.Mutex.Locked)
	assert.Assert(t, snap.CurrentCommand == nil)
}

func TestWorkerPanicReleasesMutex(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{scalePanics: true})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(2))}))

	result := waitForResult(t, f.registry, "exec-1")
	assert.Equal(t, result.Status, state.ResultFailed)
	assert.Assert(t, strings.Contains(result.Message, "panic"))
	assert.Assert(t, !f.mutex.Locked())

	f.queue.Enqueue(executeItem("exec-2", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindRestart}))
	assert.Equal(t, waitForResult(t, f.registry, "exec-2").Status, state.ResultCompleted)
}

func TestWorkerUnknownKindFailsClosed(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: "DELETE"}))

	result := waitForResult(t, f.registry, "exec-1")
	assert.Equal(t, result.Status, state.ResultFailed)
	assert.Equal(t, len(f.adapter.callLog()), 0)
}

func TestWorkerPriorityOrderAcrossUsers(t *testing.T) {
	// Hold the first scale so both commands are queued while the worker is
	// busy, then check the admin restart overtakes the earlier normal scale.
	adapter := &fakeAdapter{blockScale: make(chan struct{})}
	f := newWorkerFixture(adapter)
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("busy", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(1))}))
	deadline := time.After(time.Second)
	for f.registry.View().WorkerStatus != state.WorkerExecuting {
		select {
		case <-deadline:
			t.Fatal("worker never picked up the first command")
		case <-time.After(time.Millisecond):
		}
	}

	f.queue.Enqueue(executeItem("normal-scale", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(4))}))
	f.queue.Enqueue(executeItem("admin-restart", common.AdminPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindRestart}))
	close(adapter.blockScale)

	waitForResult(t, f.registry, "normal-scale")
	log := adapter.callLog()
	assert.DeepEqual(t, log, []string{"scale:1", "status", "restart", "connectivity", "scale:4", "status"})
}

func TestWorkerStartStopIdempotent(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{})
	f.worker.Start()
	f.worker.Start()
	f.worker.Stop()
	f.worker.Stop()
	assert.Equal(t, f.registry.View().WorkerStatus, state.WorkerStopped)
}

func TestWorkerGracefulShutdownWaitsForInflight(t *testing.T) {
	adapter := &fakeAdapter{blockScale: make(chan struct{})}
	f := newWorkerFixture(adapter)
	f.worker.Start()

	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindScale, Replicas: ptr.To(int32(2))}))
	deadline := time.After(time.Second)
	for f.registry.View().WorkerStatus != state.WorkerExecuting {
		select {
		case <-deadline:
			t.Fatal("worker never started executing")
		case <-time.After(time.Millisecond):
		}
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(adapter.blockScale)
	}()
	f.worker.GracefulShutdown(context.Background())

	snap := f.registry.View()
	assert.Equal(t, snap.WorkerStatus, state.WorkerStopped)
	assert.Assert(t, !snap.Mutex.Locked)
	assert.Equal(t, snap.LastResult.ExecutionId, "exec-1")
}

func TestWorkerSkipsNonExecutable(t *testing.T) {
	f := newWorkerFixture(&fakeAdapter{})
	f.worker.Start()
	defer f.worker.Stop()

	f.queue.Enqueue(executeItem("read", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionRead}))
	f.queue.Enqueue(executeItem("exec-1", common.NormalPriorityInt,
		parser.Command{Action: parser.ActionExecute, Kind: parser.KindRestart}))

	waitForResult(t, f.registry, "exec-1")
	assert.DeepEqual(t, f.adapter.callLog(), []string{"restart", "connectivity"})
}
