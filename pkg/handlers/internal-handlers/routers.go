/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package internal_handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/authority"
)

// InitInternalRouters registers the observability endpoints. Status and the
// event stream are open to any authenticated user; health is admin only.
func InitInternalRouters(e *gin.Engine, h *Handler) {
	group := e.Group(common.ChatbotRouterRootPath, authority.Authorize())
	{
		group.GET("internal/status", h.Status)
		group.GET("internal/events", h.Events)
		group.GET("internal/health", authority.AuthorizeAdmin(), h.Health)
	}
}
