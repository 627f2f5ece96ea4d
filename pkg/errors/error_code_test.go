/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestIsQuotaExceeded(t *testing.T) {
	err := NewQuotaExceeded("free tier limit reached")
	assert.Equal(t, IsQuotaExceeded(err), true)
	assert.Equal(t, err.ErrStatus.Code, int32(http.StatusTooManyRequests))
	err2 := fmt.Errorf("test")
	assert.Equal(t, IsQuotaExceeded(err2), false)
	err3 := NewInternalError("test")
	assert.Equal(t, IsQuotaExceeded(err3), false)
}

func TestIsChatbot(t *testing.T) {
	assert.Equal(t, IsChatbot(NewValidationError("replicas out of range")), true)
	assert.Equal(t, IsChatbot(fmt.Errorf("plain")), false)
	assert.Equal(t, IsChatbot(nil), false)
	// a genuine kubernetes api error carries its own reason, not ours
	k8sErr := apierrors.NewNotFound(schema.GroupResource{Resource: "deployments"}, "loadlab")
	assert.Equal(t, IsChatbot(k8sErr), false)
}

func TestErrorTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "bad request", err: NewBadRequest("no message field"), want: TypeUserError},
		{name: "unauthorized", err: NewUnauthorized("missing token"), want: TypeAuthRequired},
		{name: "forbidden", err: NewForbidden("admin only"), want: TypeAuthForbidden},
		{name: "validation", err: NewValidationError("replicas must be within 1..5"), want: TypeValidationError},
		{name: "quota", err: NewQuotaExceeded("limit reached"), want: TypeQuotaExceeded},
		{name: "kubernetes", err: NewKubernetesError("patch failed"), want: TypeKubernetesError},
		{name: "timeout", err: NewTimeout("deadline exceeded"), want: TypeTimeout},
		{name: "unknown action", err: NewUnknownAction("HELP reached the worker"), want: TypeSystemError},
		{name: "plain error", err: fmt.Errorf("boom"), want: TypeSystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ErrorTypeOf(tt.err), tt.want)
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, GetErrorCode(NewTimeout("scale")), Timeout)
	assert.Equal(t, GetErrorCode(fmt.Errorf("other")), "")
	assert.Equal(t, GetErrorCode(nil), "")
}
