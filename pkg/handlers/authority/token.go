/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	apiutils "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/utils"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/quota"
)

const (
	AdminRequired = "Administrator privileges are required"
)

// Authorize returns a middleware resolving the caller's verified identity.
// It validates the bearer token with the active provider and stores the user
// id and the server-derived plan in the gin context. Requests without a valid
// identity are rejected with 401.
func Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := resolveIdentity(c)
		if err != nil {
			apiutils.AbortWithApiError(c, commonerrors.NewUnauthorized(err.Error()))
			return
		}
		c.Set(common.UserId, info.Id)
		c.Set(common.UserPlan, PlanFor(info.Id, info.Role))
	}
}

// AuthorizeAdmin returns a middleware enforcing the admin plan on top of
// Authorize. Non-admin callers are rejected with 403.
func AuthorizeAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(common.UserPlan) != common.PlanAdmin {
			apiutils.AbortWithApiError(c, commonerrors.NewForbidden(AdminRequired))
		}
	}
}

// RequestIdentity returns the verified identity stored by Authorize.
func RequestIdentity(c *gin.Context) quota.Identity {
	return quota.Identity{
		UserId: c.GetString(common.UserId),
		Plan:   c.GetString(common.UserPlan),
	}
}

// PlanFor derives the caller's plan from the verified user id and the
// provider's role claim. Configuration wins over claims for admins; unknown
// or missing claims mean the free tier. Nothing a client sends in a request
// body participates in this decision.
func PlanFor(userId, claimRole string) string {
	if commonconfig.IsAdminUser(userId) || claimRole == common.PlanAdmin {
		return common.PlanAdmin
	}
	if commonconfig.IsNormalUser(userId) || claimRole == common.PlanNormal {
		return common.PlanNormal
	}
	return common.PlanFree
}

// resolveIdentity extracts and validates the caller's token. When tokens are
// not required (development mode) a bare user id header is accepted for
// identity; the plan still comes from configuration.
func resolveIdentity(c *gin.Context) (*UserInfo, error) {
	rawToken := bearerToken(c)
	if rawToken == "" {
		if userId := c.GetHeader(common.HeaderUserId); userId != "" && !commonconfig.IsUserTokenRequired() {
			return &UserInfo{Id: userId}, nil
		}
		return nil, fmt.Errorf("no token in request")
	}
	provider := activeProvider()
	if provider == nil {
		return nil, fmt.Errorf("no token provider is initialized")
	}
	info, err := provider.Validate(c.Request.Context(), rawToken)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func activeProvider() TokenInterface {
	if commonconfig.IsSSOEnable() && SSOInstance() != nil {
		return SSOInstance()
	}
	if DefaultTokenInstance() != nil {
		return DefaultTokenInstance()
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(common.HeaderAuthorization)
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
}
