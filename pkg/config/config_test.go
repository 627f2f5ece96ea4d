/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"slices"
	"testing"

	"github.com/spf13/viper"
	"gotest.tools/assert"
)

func load() error {
	path := "./test.yaml"
	if err := LoadConfig(path); err != nil {
		return err
	}
	return nil
}

func TestConfig(t *testing.T) {
	err := load()
	assert.NilError(t, err)

	assert.Equal(t, GetServerPort(), 9090)
	assert.Equal(t, IsUserTokenRequired(), false)
	assert.Equal(t, GetUserTokenExpire(), 3600)
	assert.Equal(t, IsSSOEnable(), false)
	assert.Equal(t, IsTracingEnable(), true)
	assert.Equal(t, GetTracingRate(), 0.25)

	assert.Equal(t, slices.Equal(GetAdminUsers(), []string{"alice", "ops-bot"}), true)
	assert.Equal(t, IsAdminUser("alice"), true)
	assert.Equal(t, IsAdminUser("bob"), false)
	assert.Equal(t, IsNormalUser("bob"), true)
	assert.Equal(t, IsNormalUser("carol"), false)
}

func TestValidateNamespaceOverride(t *testing.T) {
	err := load()
	assert.NilError(t, err)

	// matching override is a no-op
	assert.NilError(t, ValidateNamespaceOverride())

	// any other value must be rejected
	viper.Set("operator.namespace_override", "production")
	err = ValidateNamespaceOverride()
	assert.Assert(t, err != nil)
	viper.Set("operator.namespace_override", "loadlab")
}
