/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"net"
	"net/http"
	"testing"
	"time"

	"gotest.tools/assert"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/scheduler"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
)

func TestStopBoundsHttpDrain(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	httpServer := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}),
	}
	go httpServer.Serve(listener)

	registry := state.NewRegistry()
	s := &Server{
		httpServer: httpServer,
		worker: scheduler.NewWorker(scheduler.NewCommandQueue(nil),
			scheduler.NewExecMutex(nil), nil, registry, journal.NewJournal()),
		journal: journal.NewJournal(),
	}

	// Park one request in the handler so the listener cannot drain cleanly.
	go func() {
		rsp, getErr := http.Get("http://" + listener.Addr().String())
		if getErr == nil {
			rsp.Body.Close()
		}
	}()
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(httpShutdownTimeout + 2*time.Second):
		t.Fatal("Stop did not return after the shutdown window elapsed")
	}
}
