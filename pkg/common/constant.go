/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package common

const (
	DefaultVersion        = "v1"
	ChatbotRouterRootPath = "api/" + DefaultVersion

	// The single deployment this service operates on. These are compile-time
	// constants on purpose: no request, header, or config value may widen them.
	ChatbotNamespace  = "loadlab"
	ChatbotDeployment = "loadlab"
	AppLabelKey       = "app"

	JsonContentType = "application/json; charset=utf-8"

	HeaderAuthorization = "Authorization"
	HeaderUserId        = "X-User-Id"
	BearerPrefix        = "Bearer "

	DefaultBurst = 1000
	DefaultQPS   = 1000

	AdminPriorityInt  = 1
	FreePriorityInt   = 2
	NormalPriorityInt = 3

	PlanAdmin  = "admin"
	PlanNormal = "normal"
	PlanFree   = "free"

	UserName = "userName"
	UserId   = "userId"
	UserPlan = "userPlan"
)
