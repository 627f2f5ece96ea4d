/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/klogr"
	ctrlruntime "sigs.k8s.io/controller-runtime"

	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/k8sclient"
	commonlog "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/log"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/metrics"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/options"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/quota"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/scheduler"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
)

// httpShutdownTimeout bounds the drain of in-flight HTTP requests at stop,
// mirroring the worker's shutdown window.
const httpShutdownTimeout = 5 * time.Second

var (
	bootstrapMu sync.Mutex
	bootstrap   *Server
)

type Server struct {
	opts       *options.Options
	httpServer *http.Server
	ctx        context.Context
	isInited   bool

	clientSet kubernetes.Interface
	adapter   *deployment.Adapter
	registry  *state.Registry
	ledger    *quota.Ledger
	queue     *scheduler.CommandQueue
	mutex     *scheduler.ExecMutex
	journal   *journal.Journal
	worker    *scheduler.Worker
}

// NewServer creates and returns the process-wide Server instance. The
// bootstrap is exactly-once: repeated calls (framework re-entry, hot reload)
// return the already-built server instead of spawning a second pipeline.
func NewServer() (*Server, error) {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()
	if bootstrap != nil {
		klog.Warning("server is already bootstrapped, reusing the existing instance")
		return bootstrap, nil
	}
	s := &Server{
		opts: &options.Options{},
		ctx:  ctrlruntime.SetupSignalHandler(),
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	bootstrap = s
	return s, nil
}

// init performs the initial setup of the server including flag parsing,
// logging initialization, configuration loading, and construction of the
// execution pipeline. It marks the server as initialized.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = s.initLogs(); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	if s.clientSet, _, err = k8sclient.NewClientSet(s.opts.KubeConfig); err != nil {
		klog.ErrorS(err, "failed to init kubernetes client")
		return err
	}
	s.buildPipeline()
	s.isInited = true
	return nil
}

// buildPipeline wires the execution path: one adapter, one registry, one
// queue, one mutex, one worker.
func (s *Server) buildPipeline() {
	s.adapter = deployment.NewAdapter(s.clientSet)
	s.registry = state.GetRegistry()
	s.ledger = quota.GetLedger()
	s.journal = journal.GetJournal()
	s.mutex = scheduler.NewExecMutex(s.registry.SetMutexStatus)
	s.queue = scheduler.NewCommandQueue(s.publishQueueLength)
	s.worker = scheduler.NewWorker(s.queue, s.mutex, s.adapter, s.registry, s.journal)
}

func (s *Server) publishQueueLength(length int) {
	s.registry.SetQueueLength(length)
	metrics.QueueDepth.Set(float64(length))
}

// Start begins the server operation: the execution worker and the HTTP
// server. It waits for a termination signal and then shuts down.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init the server first")
		return
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	klog.Infof("starting chatbot control plane for %s/%s",
		deployment.Namespace, deployment.Name)
	s.worker.Start()

	go func() {
		if err := s.startHttpServer(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "failed to start http-server")
			os.Exit(-1)
		}
	}()

	<-s.ctx.Done()
	s.Stop()
}

// Stop shuts the service down in intake-first order: close the HTTP listener
// so nothing new is accepted, give the worker its shutdown window, then flush
// the journal and logs.
func (s *Server) Stop() {
	klog.Info("shutting down http server...")
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown httpserver")
		}
	}
	s.worker.GracefulShutdown(context.Background())
	s.journal.Close()
	klog.Info("chatbot control plane is stopped")
	klog.Flush()
}

// initLogs initializes the logging system with the specified log file path
// and size, and routes the controller-runtime logger through klog.
func (s *Server) initLogs() error {
	if err := commonlog.Init(s.opts.LogfilePath, s.opts.LogFileSize); err != nil {
		return err
	}
	ctrlruntime.SetLogger(klogr.NewWithOptions())
	return nil
}

// initConfig loads the server configuration and applies the advisory
// namespace-override check: a config that points at a different namespace
// than the compiled-in target refuses to start.
func (s *Server) initConfig() error {
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return commonconfig.ValidateNamespaceOverride()
}

// startHttpServer initializes and starts the HTTP server on the configured
// port.
func (s *Server) startHttpServer() error {
	if commonconfig.GetServerPort() <= 0 {
		return fmt.Errorf("the apiserver port is not defined")
	}
	handler, err := handlers.InitHttpHandlers(s.adapter, s.ledger, s.registry, s.queue, s.journal)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", commonconfig.GetServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: handler}
	klog.Infof("http-server listen port: %d", commonconfig.GetServerPort())
	return s.httpServer.ListenAndServe()
}
