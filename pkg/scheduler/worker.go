/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/metrics"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/parser"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
)

const (
	// pollInterval is how long the loop sleeps when the queue is empty
	pollInterval = 100 * time.Millisecond
	// verifyGrace is the pause between a scale patch and its verification read
	verifyGrace = time.Second
	// shutdownWindow bounds GracefulShutdown's wait for an in-flight command
	shutdownWindow = 5 * time.Second
)

// Adapter is the slice of the deployment adapter the worker drives. The real
// implementation is *deployment.Adapter; tests substitute failure-injecting
// fakes.
type Adapter interface {
	Scale(ctx context.Context, replicas int32) error
	Restart(ctx context.Context) error
	Status(ctx context.Context) (*deployment.DeploymentStatus, error)
	Connectivity(ctx context.Context) error
}

// Worker drains the command queue one item at a time. Every execution runs
// inside the FIFO mutex with release guaranteed on success, failure, and
// panic, so a broken adapter call can never wedge the pipeline.
type Worker struct {
	queue    *CommandQueue
	mutex    *ExecMutex
	adapter  Adapter
	registry *state.Registry
	journal  *journal.Journal

	// grace is the pause before scale verification; tests shorten it
	grace time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewWorker(queue *CommandQueue, mutex *ExecMutex, adapter Adapter,
	registry *state.Registry, jrnl *journal.Journal) *Worker {
	return &Worker{
		queue:    queue,
		mutex:    mutex,
		adapter:  adapter,
		registry: registry,
		journal:  jrnl,
		grace:    verifyGrace,
	}
}

// Start spawns the run loop. Calling Start on a running worker is a no-op;
// there is never more than one loop goroutine.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.registry.SetWorkerStatus(state.WorkerIdle)
	go w.run(w.stopCh, w.doneCh)
	klog.Info("execution worker started")
}

// Stop signals the loop and waits for it to exit. An in-flight execution
// finishes first. Stopping a stopped worker is a no-op.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
	w.registry.SetWorkerStatus(state.WorkerStopped)
	klog.Info("execution worker stopped")
}

// GracefulShutdown stops intake and waits up to the shutdown window for the
// in-flight execution. When the window elapses the worker is abandoned with a
// warning: the execution still finishes under its own guaranteed-release
// scope, but nothing new starts.
func (w *Worker) GracefulShutdown(ctx context.Context) {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, shutdownWindow)
	defer cancel()
	select {
	case <-done:
		w.registry.SetWorkerStatus(state.WorkerStopped)
		w.journal.Record(journal.Entry{
			Phase:   journal.PhaseSystem,
			Message: "worker shut down cleanly",
		})
	case <-ctx.Done():
		klog.Warning("shutdown window elapsed with an execution still in flight")
		w.journal.Record(journal.Entry{
			Phase:   journal.PhaseSystem,
			Level:   journal.LevelWarn,
			Message: "worker shutdown timed out waiting for the in-flight command",
		})
	}
}

func (w *Worker) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-stopCh:
			return
		default:
		}
		item, err := w.queue.Dequeue()
		if err != nil {
			select {
			case <-stopCh:
				return
			case <-time.After(pollInterval):
			}
			continue
		}
		// The gate only enqueues EXECUTE commands; anything else slipped
		// past it and is traced rather than run.
		if item.Command.Action != parser.ActionExecute {
			klog.Warningf("non-executable command %s reached the worker, skipping", item.CommandId)
			w.journal.Record(journal.Entry{
				ExecutionId: item.ExecutionId,
				CommandId:   item.CommandId,
				UserId:      item.UserId,
				Phase:       journal.PhaseSystem,
				Level:       journal.LevelWarn,
				Message:     fmt.Sprintf("skipped non-executable command with action %s", item.Command.Action),
			})
			continue
		}
		w.execute(item)
	}
}

// execute runs one command inside the mutex. The deferred scope releases the
// lock and restores the idle view on every exit path, including panics in the
// adapter.
func (w *Worker) execute(item *Item) {
	startedAt := time.Now()
	if err := w.mutex.Acquire(context.Background()); err != nil {
		// Background context never expires; keep the compiler honest.
		klog.ErrorS(err, "failed to acquire the execution mutex")
		return
	}

	w.registry.SetCurrentCommand(item.ExecutionId, string(item.Command.Kind), item.Command.Replicas)
	w.registry.SetWorkerStatus(state.WorkerExecuting)
	w.journal.Record(journal.Entry{
		ExecutionId: item.ExecutionId,
		CommandId:   item.CommandId,
		UserId:      item.UserId,
		Phase:       journal.PhaseExecuting,
		Message:     fmt.Sprintf("executing %s", item.Command.Kind),
	})

	var execErr error
	defer func() {
		if r := recover(); r != nil {
			execErr = commonerrors.NewInternalError(fmt.Sprintf("execution panic: %v", r))
		}
		w.record(item, startedAt, execErr)
		w.registry.ClearCurrentCommand()
		w.registry.SetWorkerStatus(state.WorkerIdle)
		w.mutex.Release()
	}()

	execErr = w.dispatch(item)
}

func (w *Worker) dispatch(item *Item) error {
	ctx := context.Background()
	switch item.Command.Kind {
	case parser.KindScale:
		if item.Command.Replicas == nil {
			return commonerrors.NewUnknownAction("scale command without a replica target")
		}
		if err := w.adapter.Scale(ctx, *item.Command.Replicas); err != nil {
			return err
		}
		return w.verifyScale(ctx, *item.Command.Replicas)
	case parser.KindRestart:
		if err := w.adapter.Restart(ctx); err != nil {
			return err
		}
		if err := w.adapter.Connectivity(ctx); err != nil {
			return commonerrors.NewKubernetesError(
				fmt.Sprintf("restart verification: cluster unreachable: %v", err))
		}
		return nil
	default:
		return commonerrors.NewUnknownAction(fmt.Sprintf("action %q", item.Command.Kind))
	}
}

// verifyScale reads the deployment back after a grace pause and checks that
// the spec carries the requested replica count. A mismatch is a failure even
// though the cluster accepted the patch: visibility beats hidden success.
func (w *Worker) verifyScale(ctx context.Context, want int32) error {
	time.Sleep(w.grace)
	status, err := w.adapter.Status(ctx)
	if err != nil {
		return commonerrors.NewKubernetesError(fmt.Sprintf("scale verification: %v", err))
	}
	if status.SpecReplicas != want {
		return commonerrors.NewKubernetesError(fmt.Sprintf(
			"scale verification: requested %d replicas but the deployment reports %d",
			want, status.SpecReplicas))
	}
	return nil
}

func (w *Worker) record(item *Item, startedAt time.Time, execErr error) {
	finishedAt := time.Now()
	result := state.Result{
		ExecutionId: item.ExecutionId,
		CommandId:   item.CommandId,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		DurationMs:  finishedAt.Sub(startedAt).Milliseconds(),
	}
	if execErr != nil {
		result.Status = state.ResultFailed
		result.Message = execErr.Error()
		w.registry.SetLastError(execErr.Error(), commonerrors.ErrorTypeOf(execErr))
		w.journal.Record(journal.Entry{
			ExecutionId: item.ExecutionId,
			CommandId:   item.CommandId,
			UserId:      item.UserId,
			Phase:       journal.PhaseFailed,
			Level:       journal.LevelError,
			Message:     execErr.Error(),
		})
		metrics.ExecutionsTotal.WithLabelValues("failed").Inc()
	} else {
		result.Status = state.ResultCompleted
		w.journal.Record(journal.Entry{
			ExecutionId: item.ExecutionId,
			CommandId:   item.CommandId,
			UserId:      item.UserId,
			Phase:       journal.PhaseCompleted,
			Message:     fmt.Sprintf("%s completed", item.Command.Kind),
		})
		metrics.ExecutionsTotal.WithLabelValues("completed").Inc()
	}
	w.registry.SetLastResult(result)
	metrics.ExecutionDurationSeconds.Observe(finishedAt.Sub(startedAt).Seconds())
}
