/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"math/rand"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	commonconfig "github.com/TSR0705/DEVEOPS-CHATBOT/pkg/config"
)

const tracerName = "deveops-chatbot-apiserver"

// traceIdWriter wraps gin.ResponseWriter to inject the X-Trace-Id header on
// failed responses before the status line is written.
type traceIdWriter struct {
	gin.ResponseWriter
	traceId  string
	injected bool
}

func (w *traceIdWriter) WriteHeader(code int) {
	if !w.injected && code >= 400 && w.traceId != "" {
		w.Header().Set("X-Trace-Id", w.traceId)
		w.injected = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// HandleTracing creates a per-request tracing middleware. Requests are
// sampled at the configured rate; failed requests record the error status on
// the span and carry the trace id back to the caller.
func HandleTracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !commonconfig.IsTracingEnable() || !shouldSample(commonconfig.GetTracingRate()) {
			c.Next()
			return
		}

		operationName := c.Request.Method + " " + c.Request.URL.Path
		tracer := otel.Tracer(tracerName)
		ctx, span := tracer.Start(c.Request.Context(), operationName,
			oteltrace.WithSpanKind(oteltrace.SpanKindServer))
		defer span.End()

		writer := &traceIdWriter{
			ResponseWriter: c.Writer,
			traceId:        span.SpanContext().TraceID().String(),
		}
		c.Writer = writer
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.target", c.Request.URL.Path),
		)
		if status >= 400 {
			span.SetStatus(codes.Error, c.Errors.String())
		}
	}
}

// shouldSample decides whether to trace this request at the given rate.
// Rate 1.0 traces everything, 0.0 nothing.
func shouldSample(rate float64) bool {
	if rate >= 1.0 {
		return true
	}
	if rate <= 0.0 {
		return false
	}
	return rand.Float64() < rate
}
