/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package chat_handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/authority"
)

// InitChatRouters registers the chat endpoint. Every request passes the
// authorization middleware first.
func InitChatRouters(e *gin.Engine, h *Handler) {
	group := e.Group(common.ChatbotRouterRootPath, authority.Authorize())
	{
		group.POST("chat", h.Chat)
	}
}
