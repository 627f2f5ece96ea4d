/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"context"
)

// TokenInput represents the input parameters for token generation.
// It supports both username/password authentication and the OAuth2
// authorization code flow.
type TokenInput struct {
	Username string
	Password string
	Code     string
}

// TokenResponse represents the response structure for token operations
type TokenResponse struct {
	// The timestamp when the user token expires, in seconds.
	Expire int64 `json:"expire"`
	// User token
	Token string `json:"token"`
}

// UserInfo represents user information extracted from a validated token.
// Role carries the provider's role claim when the provider supplies one;
// the plan a request runs under is always re-derived server-side from this
// value plus configuration, never from request fields.
type UserInfo struct {
	// User unique identifier
	Id string `json:"id,omitempty"`
	// A locally unique and never reassigned identifier within the issuer
	Sub string `json:"sub,omitempty"`
	// Expire time of token
	Exp int64 `json:"exp,omitempty"`
	// User email
	Email string `json:"email,omitempty"`
	// Provider role claim, empty when the provider has none
	Role string `json:"role,omitempty"`
}

// TokenInterface defines the contract for token management operations
type TokenInterface interface {
	// Login authenticates a user based on TokenInput and returns user info
	// and token response. The sso flow uses the Code field; local auth uses
	// Username and Password.
	Login(ctx context.Context, input TokenInput) (*UserInfo, *TokenResponse, error)

	// Validate verifies a token string and extracts user information.
	// Returns UserInfo if the token is valid, an error otherwise.
	Validate(ctx context.Context, rawToken string) (*UserInfo, error)
}
