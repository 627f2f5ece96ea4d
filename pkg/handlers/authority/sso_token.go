/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"k8s.io/klog/v2"

	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
)

var (
	ssoInitOnce sync.Once
	ssoInstance *ssoToken

	DefaultOIDCScopes = []string{oidc.ScopeOpenID, "profile", "email"}
)

// ssoToken implements TokenInterface for OAuth2/OpenID Connect authentication
type ssoToken struct {
	endpoint     string
	clientId     string
	clientSecret string
	redirectURI  string

	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewSSOToken creates and returns a singleton instance of the OAuth2 token
// handler implementing the TokenInterface for SSO user authentication
func NewSSOToken() *ssoToken {
	ssoInitOnce.Do(func() {
		var err error
		ssoInstance, err = initializeSSOToken()
		if err != nil {
			klog.ErrorS(err, "failed to init sso token")
		}
	})
	return ssoInstance
}

// SSOInstance returns the singleton instance of ssoToken
func SSOInstance() *ssoToken {
	return ssoInstance
}

// initializeSSOToken initializes and returns a new ssoToken instance
func initializeSSOToken() (*ssoToken, error) {
	inst := &ssoToken{
		endpoint:     commonconfig.GetSSOEndpoint(),
		clientId:     commonconfig.GetSSOClientId(),
		clientSecret: commonconfig.GetSSOClientSecret(),
		redirectURI:  commonconfig.GetSSORedirectURI(),
	}
	if inst.endpoint == "" || inst.clientId == "" ||
		inst.clientSecret == "" || inst.redirectURI == "" {
		return nil, fmt.Errorf("failed to find sso config")
	}

	var err error
	inst.provider, err = oidc.NewProvider(context.Background(), inst.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to new provider %q: %v", inst.endpoint, err)
	}
	inst.verifier = inst.provider.Verifier(&oidc.Config{ClientID: inst.clientId})
	return inst, nil
}

// Login exchanges the authorization code for an ID token and validates it.
// Implements TokenInterface.Login for the OAuth2 flow.
func (c *ssoToken) Login(ctx context.Context, input TokenInput) (*UserInfo, *TokenResponse, error) {
	if input.Code == "" {
		return nil, nil, commonerrors.NewBadRequest("no code in request")
	}
	token, err := c.oauth2Config().Exchange(ctx, input.Code)
	if err != nil {
		return nil, nil, commonerrors.NewInternalError(fmt.Sprintf("failed to get token: %v", err))
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, nil, commonerrors.NewInternalError("no id_token in token response")
	}
	userInfo, err := c.Validate(ctx, rawIDToken)
	if err != nil {
		return nil, nil, err
	}
	return userInfo, &TokenResponse{
		Expire: userInfo.Exp,
		Token:  rawIDToken,
	}, nil
}

// Validate verifies the ID token's signature and expiry server-side and
// extracts the identity claims. Unknown or missing role claims are kept
// verbatim; PlanFor decides what they mean.
func (c *ssoToken) Validate(ctx context.Context, rawToken string) (*UserInfo, error) {
	idToken, err := c.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, commonerrors.NewUnauthorized(fmt.Sprintf("failed to verify token: %v", err))
	}
	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err = idToken.Claims(&claims); err != nil {
		return nil, commonerrors.NewUnauthorized(fmt.Sprintf("failed to parse claims: %v", err))
	}
	return &UserInfo{
		Id:    claims.Sub,
		Sub:   claims.Sub,
		Exp:   idToken.Expiry.Unix(),
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// AuthURL returns the provider's authorization endpoint URL for the
// front-end login redirect.
func (c *ssoToken) AuthURL(state string) string {
	return c.oauth2Config().AuthCodeURL(state)
}

func (c *ssoToken) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientId,
		ClientSecret: c.clientSecret,
		Endpoint:     c.provider.Endpoint(),
		RedirectURL:  c.redirectURI,
		Scopes:       DefaultOIDCScopes,
	}
}
