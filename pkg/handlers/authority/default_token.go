/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"k8s.io/klog/v2"

	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
)

const (
	ErrTokenExpire  = "The user's token has expired, please login again"
	ErrInvalidToken = "The user's token is invalid, please login first"

	TokenDelim = ":"
)

// defaultToken implements TokenInterface for local user authentication
// using username/password credentials from the mounted secret directory.
type defaultToken struct{}

var (
	defaultTokenInitOnce sync.Once
	defaultTokenInstance *defaultToken
)

// NewDefaultToken creates and returns a singleton instance of defaultToken
// implementing the TokenInterface for local user authentication
func NewDefaultToken() *defaultToken {
	defaultTokenInitOnce.Do(func() {
		defaultTokenInstance = &defaultToken{}
	})
	return defaultTokenInstance
}

// DefaultTokenInstance returns the singleton instance of defaultToken
func DefaultTokenInstance() *defaultToken {
	return defaultTokenInstance
}

// Login authenticates a user with username and password and generates a new
// token. The expected password is the content of the credential file named
// after the user under the configured secret path.
func (t *defaultToken) Login(_ context.Context, input TokenInput) (*UserInfo, *TokenResponse, error) {
	if input.Username == "" {
		return nil, nil, commonerrors.NewBadRequest("the userName is empty")
	}
	expected := commonconfig.GetUserSecret(input.Username)
	if expected == "" {
		return nil, nil, commonerrors.NewUnauthorized(
			fmt.Sprintf("the user %s is not registered", input.Username))
	}
	if expected != input.Password {
		return nil, nil, commonerrors.NewUnauthorized("the password is incorrect")
	}

	result := &TokenResponse{}
	if commonconfig.GetUserTokenExpire() < 0 {
		result.Expire = -1
	} else {
		result.Expire = time.Now().Unix() + int64(commonconfig.GetUserTokenExpire())
	}

	var err error
	result.Token, err = generateDefaultToken(input.Username, result.Expire)
	if err != nil {
		klog.ErrorS(err, "failed to generate user token")
		return nil, nil, err
	}
	return &UserInfo{Id: input.Username, Exp: result.Expire}, result, nil
}

// Validate validates a token string and extracts user information.
// The role the request runs under is not read from the token; PlanFor
// re-derives it from server configuration.
func (t *defaultToken) Validate(_ context.Context, rawToken string) (*UserInfo, error) {
	decoded, err := base64.StdEncoding.DecodeString(rawToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	parts := strings.Split(string(decoded), TokenDelim)
	if len(parts) != 3 {
		klog.Errorf("invalid user token, current len: %d", len(parts))
		return nil, fmt.Errorf("invalid token")
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid token")
		}
	}
	expire, err := strconv.ParseInt(parts[1], 10, 0)
	if err != nil {
		klog.ErrorS(err, "failed to parse token expire", "user", parts[0], "expire", parts[1])
		return nil, fmt.Errorf("invalid token")
	}
	if commonconfig.GetUserTokenExpire() > 0 && time.Now().Unix() > expire {
		return nil, fmt.Errorf("%s", ErrTokenExpire)
	}
	return &UserInfo{
		Id:  parts[0],
		Exp: expire,
	}, nil
}

// generateDefaultToken generates an opaque token carrying user id, expiration
// time, and the server-derived plan at issue time. The plan part is
// informational only; validation re-derives the plan from configuration.
func generateDefaultToken(userId string, expire int64) (string, error) {
	if userId == "" {
		return "", fmt.Errorf("invalid token item parameters")
	}
	tokenStr := userId + TokenDelim + strconv.FormatInt(expire, 10) + TokenDelim + PlanFor(userId, "")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr)), nil
}
