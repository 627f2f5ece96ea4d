/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package chat_handlers is the policy gate in front of the scheduler. It
// authenticates, parses, and classifies every chat message, answers
// informational requests synchronously, and enqueues mutations for the
// worker. It never executes anything itself.
package chat_handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/quota"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/scheduler"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
	apiutils "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/utils"
)

type Handler struct {
	adapter  *deployment.Adapter
	ledger   *quota.Ledger
	registry *state.Registry
	queue    *scheduler.CommandQueue
	journal  *journal.Journal
}

func NewHandler(adapter *deployment.Adapter, ledger *quota.Ledger,
	registry *state.Registry, queue *scheduler.CommandQueue, jrnl *journal.Journal) *Handler {
	return &Handler{
		adapter:  adapter,
		ledger:   ledger,
		registry: registry,
		queue:    queue,
		journal:  jrnl,
	}
}

type handleFunc func(*gin.Context) (interface{}, error)

func handle(c *gin.Context, fn handleFunc) {
	rsp, err := fn(c)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	// If a status was previously set, use that status in the response.
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
