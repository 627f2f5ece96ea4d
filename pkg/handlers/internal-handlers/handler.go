/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package internal_handlers exposes the observability surface: registry
// snapshots for polling, an admin health view, and a websocket stream of
// state changes.
package internal_handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
	apiutils "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/utils"
)

const recentJournalEntries = 20

type Handler struct {
	registry *state.Registry
	journal  *journal.Journal
}

func NewHandler(registry *state.Registry, jrnl *journal.Journal) *Handler {
	return &Handler{registry: registry, journal: jrnl}
}

type statusResponse struct {
	Timestamp time.Time  `json:"timestamp"`
	System    systemView `json:"system"`
}

type systemView struct {
	WorkerStatus   state.WorkerStatus    `json:"workerStatus"`
	QueueLength    int                   `json:"queueLength"`
	Mutex          state.MutexStatus     `json:"mutex"`
	CurrentCommand *state.CurrentCommand `json:"currentCommand,omitempty"`
	LastResult     *state.Result         `json:"lastResult,omitempty"`
	UptimeMs       int64                 `json:"uptimeMs"`
}

type healthResponse struct {
	Status         string             `json:"status"`
	WorkerStatus   state.WorkerStatus `json:"workerStatus"`
	QueueLength    int                `json:"queueLength"`
	Mutex          state.MutexStatus  `json:"mutex"`
	UptimeMs       int64              `json:"uptimeMs"`
	LastError      *state.ErrorInfo   `json:"lastError,omitempty"`
	JournalDropped int64              `json:"journalDropped"`
	RecentJournal  []journal.Entry    `json:"recentJournal,omitempty"`
}

// Status returns the registry snapshot for any authenticated caller.
func (h *Handler) Status(c *gin.Context) {
	handle(c, h.status)
}

// Health returns the admin diagnostic view.
func (h *Handler) Health(c *gin.Context) {
	handle(c, h.health)
}

func (h *Handler) status(_ *gin.Context) (interface{}, error) {
	snap := h.registry.View()
	return statusResponse{
		Timestamp: time.Now().UTC(),
		System: systemView{
			WorkerStatus:   snap.WorkerStatus,
			QueueLength:    snap.QueueLength,
			Mutex:          snap.Mutex,
			CurrentCommand: snap.CurrentCommand,
			LastResult:     snap.LastResult,
			UptimeMs:       snap.UptimeMs,
		},
	}, nil
}

func (h *Handler) health(_ *gin.Context) (interface{}, error) {
	snap := h.registry.View()
	return healthResponse{
		Status:         "ok",
		WorkerStatus:   snap.WorkerStatus,
		QueueLength:    snap.QueueLength,
		Mutex:          snap.Mutex,
		UptimeMs:       snap.UptimeMs,
		LastError:      snap.LastError,
		JournalDropped: h.journal.Dropped(),
		RecentJournal:  h.journal.Recent(recentJournalEntries),
	}, nil
}

type handleFunc func(*gin.Context) (interface{}, error)

func handle(c *gin.Context, fn handleFunc) {
	rsp, err := fn(c)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	if c.Writer.Status() > 0 {
		code = c.Writer.Status()
	}
	switch rspType := rsp.(type) {
	case []byte:
		c.Data(code, common.JsonContentType, rspType)
	case string:
		c.Data(code, common.JsonContentType, []byte(rspType))
	default:
		c.JSON(code, rspType)
	}
}
