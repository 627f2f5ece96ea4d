/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const ChatbotPrefix = "Chatbot."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] Business ID (00–99), used to distinguish errors from different business interfaces.
   00: General errors
   01: Command validation errors
   02: Quota errors
   03: Kubernetes adapter errors
   04: Scheduler/worker errors
   [yyy] Error code range (000–999)
*/

// public: 00xxx
const (
	InternalError         = ChatbotPrefix + "00001"
	BadRequest            = ChatbotPrefix + "00002"
	Forbidden             = ChatbotPrefix + "00003"
	NotFound              = ChatbotPrefix + "00004"
	Unauthorized          = ChatbotPrefix + "00005"
	RequestEntityTooLarge = ChatbotPrefix + "00006"
)

// command: 01xxx
const (
	ValidationError = ChatbotPrefix + "01001"
)

// quota: 02xxx
const (
	QuotaExceeded = ChatbotPrefix + "02001"
)

// kubernetes: 03xxx
const (
	KubernetesError = ChatbotPrefix + "03001"
	Timeout         = ChatbotPrefix + "03002"
)

// scheduler: 04xxx
const (
	UnknownAction = ChatbotPrefix + "04001"
)

// Wire-level error classes. Every error the API or the worker surfaces is
// labeled with exactly one of these.
const (
	TypeUserError       = "USER_ERROR"
	TypeAuthRequired    = "AUTH_REQUIRED"
	TypeAuthForbidden   = "AUTH_FORBIDDEN"
	TypeValidationError = "VALIDATION_ERROR"
	TypeQuotaExceeded   = "QUOTA_EXCEEDED"
	TypeKubernetesError = "KUBERNETES_ERROR"
	TypeTimeout         = "TIMEOUT"
	TypeSystemError     = "SYSTEM_ERROR"
)

// returns true if the specified error reason is a chatbot error.
func IsChatbot(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(string(apierrors.ReasonForError(err)), ChatbotPrefix)
}

func IsBadRequest(err error) bool {
	return apierrors.ReasonForError(err) == BadRequest
}

func IsInternal(err error) bool {
	return apierrors.ReasonForError(err) == InternalError
}

func IsNotFound(err error) bool {
	return apierrors.ReasonForError(err) == NotFound
}

func IsUnauthorized(err error) bool {
	return apierrors.ReasonForError(err) == Unauthorized
}

func IsForbidden(err error) bool {
	return apierrors.ReasonForError(err) == Forbidden
}

func IsValidationError(err error) bool {
	return apierrors.ReasonForError(err) == ValidationError
}

func IsQuotaExceeded(err error) bool {
	return apierrors.ReasonForError(err) == QuotaExceeded
}

func IsKubernetesError(err error) bool {
	return apierrors.ReasonForError(err) == KubernetesError
}

func IsTimeout(err error) bool {
	return apierrors.ReasonForError(err) == Timeout
}

func GetErrorCode(err error) string {
	if err == nil || !IsChatbot(err) {
		return ""
	}
	return string(apierrors.ReasonForError(err))
}

// ErrorTypeOf maps an error to its wire-level class. Errors that did not come
// from one of the constructors below are reported as SYSTEM_ERROR.
func ErrorTypeOf(err error) string {
	switch apierrors.ReasonForError(err) {
	case BadRequest, NotFound, RequestEntityTooLarge:
		return TypeUserError
	case Unauthorized:
		return TypeAuthRequired
	case Forbidden:
		return TypeAuthForbidden
	case ValidationError:
		return TypeValidationError
	case QuotaExceeded:
		return TypeQuotaExceeded
	case KubernetesError:
		return TypeKubernetesError
	case Timeout:
		return TypeTimeout
	default:
		return TypeSystemError
	}
}

func NewBadRequest(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadRequest,
		Reason:  BadRequest,
		Message: fmt.Sprintf("Bad request. %s", message),
	}}
}

func NewInternalError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusInternalServerError,
		Reason:  InternalError,
		Message: fmt.Sprintf("Internal error. %s", message),
	}}
}

func NewForbidden(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusForbidden,
		Reason:  Forbidden,
		Message: message,
	}}
}

func NewNotFoundWithMessage(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusNotFound,
		Reason:  NotFound,
		Message: message,
	}}
}

func NewUnauthorized(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusUnauthorized,
		Reason:  Unauthorized,
		Message: message,
	}}
}

func NewRequestEntityTooLargeError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusRequestEntityTooLarge,
		Reason:  RequestEntityTooLarge,
		Message: fmt.Sprintf("Request entity is too large: %s", message),
	}}
}

func NewValidationError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadRequest,
		Reason:  ValidationError,
		Message: message,
	}}
}

func NewQuotaExceeded(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusTooManyRequests,
		Reason:  QuotaExceeded,
		Message: message,
	}}
}

func NewKubernetesError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadGateway,
		Reason:  KubernetesError,
		Message: fmt.Sprintf("Kubernetes API error. %s", message),
	}}
}

func NewTimeout(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusGatewayTimeout,
		Reason:  Timeout,
		Message: fmt.Sprintf("Kubernetes API timeout. %s", message),
	}}
}

func NewUnknownAction(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusInternalServerError,
		Reason:  UnknownAction,
		Message: fmt.Sprintf("Unknown action. %s", message),
	}}
}
