/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	commonerrors "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/errors"
)

// ChatbotApiError is the unified error response: HTTP code, wire-level error
// class, message, and optional metadata.
type ChatbotApiError struct {
	HttpCode  int               `json:"-"`
	ErrorType string            `json:"errorType"`
	Message   string            `json:"error"`
	Timestamp string            `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Error returns the error message string.
func (err *ChatbotApiError) Error() string {
	return err.Message
}

// AbortWithApiError converts the error into the standardized envelope and
// aborts the request with it. Errors that did not come from the chatbot
// constructors are surfaced as SYSTEM_ERROR without being swallowed.
func AbortWithApiError(c *gin.Context, err error) {
	handleErrors(c, err)
	rsp := convertToErrResponse(err)
	c.AbortWithStatusJSON(rsp.HttpCode, rsp)
}

// convertToErrResponse converts an error into the standardized envelope.
// Typed *apierrors.StatusError values keep their HTTP code and class; plain
// kubernetes API errors are re-labeled; everything else is an internal error.
func convertToErrResponse(err error) ChatbotApiError {
	var result *ChatbotApiError
	if errors.As(err, &result) {
		return *result
	}
	var statusErr *apierrors.StatusError
	if !errors.As(err, &statusErr) {
		switch {
		case apierrors.IsNotFound(err):
			statusErr = commonerrors.NewNotFoundWithMessage(err.Error())
		case apierrors.IsBadRequest(err), apierrors.IsInvalid(err):
			statusErr = commonerrors.NewBadRequest(err.Error())
		case apierrors.IsForbidden(err):
			statusErr = commonerrors.NewForbidden(err.Error())
		case apierrors.IsRequestEntityTooLargeError(err):
			statusErr = commonerrors.NewRequestEntityTooLargeError(err.Error())
		default:
			statusErr = commonerrors.NewInternalError(err.Error())
		}
	}
	return ChatbotApiError{
		HttpCode:  int(statusErr.Status().Code),
		ErrorType: commonerrors.ErrorTypeOf(statusErr),
		Message:   statusErr.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// handleErrors processes single errors or error aggregates and adds them to
// the gin context's error collection.
func handleErrors(c *gin.Context, err error) {
	var errs []error
	if aggregate, ok := err.(utilerrors.Aggregate); ok {
		errs = aggregate.Errors()
	} else {
		errs = []error{err}
	}
	for _, val := range errs {
		if val != nil {
			_ = c.Error(val)
		}
	}
}
