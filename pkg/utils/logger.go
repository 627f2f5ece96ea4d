/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

// Logger returns a gin middleware that writes one access line per request
// through klog. Collected handler errors are appended so a failing request is
// diagnosable from the access log alone.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if len(c.Errors) > 0 {
			klog.Errorf("%s %s %d %v %s errors: %s",
				c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP(),
				c.Errors.String())
			return
		}
		klog.Infof("%s %s %d %v %s",
			c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
	}
}
