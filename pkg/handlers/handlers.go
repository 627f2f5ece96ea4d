/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/deployment"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/authority"
	chathandlers "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/chat-handlers"
	internalhandlers "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/internal-handlers"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/handlers/middleware"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/journal"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/quota"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/scheduler"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/state"
	apiutils "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/utils"
)

// InitHttpHandlers initializes the HTTP handlers for the API server.
// It creates a new gin engine, sets up logging, recovery, and tracing
// middleware, initializes the token providers, and registers all routes.
// Returns the configured gin engine or an error if initialization fails.
func InitHttpHandlers(adapter *deployment.Adapter, ledger *quota.Ledger,
	registry *state.Registry, queue *scheduler.CommandQueue, jrnl *journal.Journal) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(apiutils.Logger(), gin.Recovery(), middleware.HandleTracing())
	engine.NoRoute(func(c *gin.Context) {
		apiutils.AbortWithApiError(c, commonerrors.NewNotFoundWithMessage(c.Request.RequestURI+" not found"))
	})

	if commonconfig.IsSSOEnable() {
		if authority.NewSSOToken() == nil {
			return nil, commonerrors.NewInternalError("failed to new sso token")
		}
	}
	if authority.NewDefaultToken() == nil {
		return nil, commonerrors.NewInternalError("failed to new default token")
	}
	authority.InitAuthRouters(engine)

	chatHandler := chathandlers.NewHandler(adapter, ledger, registry, queue, jrnl)
	chathandlers.InitChatRouters(engine, chatHandler)

	internalHandler := internalhandlers.NewHandler(registry, jrnl)
	internalhandlers.InitInternalRouters(engine, internalHandler)

	engine.GET("metrics", gin.WrapH(promhttp.Handler()))
	return engine, nil
}
