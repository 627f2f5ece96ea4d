/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix = "server."
	serverPort   = serverPrefix + "port"

	// user auth
	userPrefix            = "user."
	userTokenRequired     = userPrefix + "token_required"
	userTokenExpireSecond = userPrefix + "token_expire"
	userSecretPath        = userPrefix + "secret_path"
	userAdminUsers        = userPrefix + "admin_users"
	userNormalUsers       = userPrefix + "normal_users"

	// sso
	ssoPrefix     = "sso."
	ssoEnable     = ssoPrefix + "enable"
	ssoSecretPath = ssoPrefix + "secret_path"

	// tracing
	tracingPrefix = "tracing."
	tracingEnable = tracingPrefix + "enable"
	tracingRate   = tracingPrefix + "rate"

	// operator target. The namespace override is advisory only: any value that
	// differs from the compiled-in target fails validation at startup.
	operatorPrefix    = "operator."
	namespaceOverride = operatorPrefix + "namespace_override"
)
