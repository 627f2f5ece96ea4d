/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
	apiutils "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/utils"
)

type loginRequest struct {
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Code     string `json:"code,omitempty"`
}

type loginResponse struct {
	Token  string    `json:"token"`
	Expire int64     `json:"expire"`
	User   loginUser `json:"user"`
}

type loginUser struct {
	Id   string `json:"id"`
	Plan string `json:"plan"`
}

// InitAuthRouters registers the unauthenticated login endpoints.
func InitAuthRouters(e *gin.Engine) {
	group := e.Group(common.ChatbotRouterRootPath)
	group.POST("auth/login", Login)
	group.GET("auth/url", AuthURLHandler)
}

// Login authenticates a caller. The sso flow presents an authorization code;
// local auth presents user and password.
func Login(c *gin.Context) {
	handle(c, login)
}

// AuthURLHandler returns the sso provider's authorization URL for the login
// redirect. 404 when sso is disabled.
func AuthURLHandler(c *gin.Context) {
	handle(c, authURL)
}

func login(c *gin.Context) (interface{}, error) {
	var req loginRequest
	if _, err := apiutils.ParseRequestBody(c.Request, &req); err != nil {
		return nil, err
	}
	input := TokenInput{Username: req.User, Password: req.Password, Code: req.Code}
	provider := activeProvider()
	if provider == nil {
		return nil, commonerrors.NewInternalError("no token provider is initialized")
	}
	info, token, err := provider.Login(c.Request.Context(), input)
	if err != nil {
		return nil, err
	}
	return loginResponse{
		Token:  token.Token,
		Expire: token.Expire,
		User: loginUser{
			Id:   info.Id,
			Plan: PlanFor(info.Id, info.Role),
		},
	}, nil
}

func authURL(c *gin.Context) (interface{}, error) {
	if !commonconfig.IsSSOEnable() || SSOInstance() == nil {
		return nil, commonerrors.NewNotFoundWithMessage("sso is not enabled")
	}
	return gin.H{"url": SSOInstance().AuthURL(c.Query("state"))}, nil
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
