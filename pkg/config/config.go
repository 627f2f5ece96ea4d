/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/TSR0705/DEVEOPS-CHATBOT/pkg/common"
)

// SetValue sets a configuration value for the specified key.
func SetValue(key, value string) {
	viper.Set(key, value)
}

// LoadConfig loads configuration from the specified file path.
func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getFloat(key string, defaultValue float64) float64 {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetFloat64(key)
}

func getStrings(key string) []string {
	val := viper.GetString(key)
	return removeBlank(strings.Split(val, ","))
}

func removeBlank(slice []string) []string {
	var result []string
	for _, val := range slice {
		if trim := strings.TrimSpace(val); trim != "" {
			result = append(result, trim)
		}
	}
	return result
}

func getFromFile(configPath, item string) string {
	path := getString(configPath, "")
	data, err := os.ReadFile(filepath.Join(path, item))
	if err != nil {
		return ""
	}
	key := string(data)
	return strings.TrimRight(key, "\r\n")
}

// GetServerPort returns the API server port.
func GetServerPort() int {
	return getInt(serverPort, 8080)
}

// IsUserTokenRequired returns whether a token is required for API access.
// When false, a bare X-User-Id header identifies the caller (development mode);
// the caller's plan still comes from server configuration, never from the request.
func IsUserTokenRequired() bool {
	return getBool(userTokenRequired, true)
}

// GetUserTokenExpire returns the user token expiration time in seconds.
func GetUserTokenExpire() int {
	return getInt(userTokenExpireSecond, 86400)
}

// GetUserSecret returns the named credential item from the user secret dir.
func GetUserSecret(item string) string {
	return getFromFile(userSecretPath, item)
}

// GetAdminUsers returns the user ids granted the admin plan by configuration.
func GetAdminUsers() []string {
	return getStrings(userAdminUsers)
}

// GetNormalUsers returns the user ids granted the normal plan by configuration.
func GetNormalUsers() []string {
	return getStrings(userNormalUsers)
}

// IsAdminUser returns whether the user id is configured as an admin.
func IsAdminUser(userId string) bool {
	for _, u := range GetAdminUsers() {
		if u == userId {
			return true
		}
	}
	return false
}

// IsNormalUser returns whether the user id is configured on the normal plan.
func IsNormalUser(userId string) bool {
	for _, u := range GetNormalUsers() {
		if u == userId {
			return true
		}
	}
	return false
}

func IsSSOEnable() bool {
	return getBool(ssoEnable, false)
}

func GetSSOClientId() string {
	return getFromFile(ssoSecretPath, "id")
}

func GetSSOClientSecret() string {
	return getFromFile(ssoSecretPath, "secret")
}

func GetSSOEndpoint() string {
	return getFromFile(ssoSecretPath, "endpoint")
}

func GetSSORedirectURI() string {
	return getFromFile(ssoSecretPath, "redirect_uri")
}

func IsTracingEnable() bool {
	return getBool(tracingEnable, false)
}

func GetTracingRate() float64 {
	return getFloat(tracingRate, 0.1)
}

// ValidateNamespaceOverride rejects any attempt to point the operator at a
// namespace other than the compiled-in one. The option exists so that a
// mismatch between deployment manifests and the binary fails loudly at
// startup instead of silently operating on the wrong namespace.
func ValidateNamespaceOverride() error {
	if !viper.IsSet(namespaceOverride) {
		return nil
	}
	if override := getString(namespaceOverride, ""); override != common.ChatbotNamespace {
		return fmt.Errorf("namespace override %q conflicts with the operator target %q", override, common.ChatbotNamespace)
	}
	return nil
}
