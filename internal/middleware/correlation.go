/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/credentials"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

const (
	// CorrelationIDHeader echoes the call id of every response
	CorrelationIDHeader = "X-Correlation-ID"
	// CorrelationIDKey is the gin context key holding the call id
	CorrelationIDKey = "correlation_id"
	// LoggerKey is the gin context key holding the request logger
	LoggerKey = "logger"
)

// CorrelationMiddleware opens the request span, generates the call id and
// threads the correlation, the request logger and the caller's Authorization
// header through the request context. The span is closed with the final status.
//
// The call id is always generated here; an inbound X-Correlation-ID is not reused.
func CorrelationMiddleware(tracer *tracing.Tracer, baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}
		ctx, corr := tracer.OpenSpan(c.Request.Context(), c.Request.Method+" "+name, c.Request.Header)
		defer func() {
			tracer.CloseSpan(corr, c.Writer.Status())
		}()

		log := baseLogger.With(zap.String("correlation_id", corr.CallID))
		ctx = logger.WithLogger(ctx, log)
		ctx = credentials.WithCallerAuthorization(ctx, c.GetHeader("Authorization"))
		c.Request = c.Request.WithContext(ctx)

		c.Set(CorrelationIDKey, corr.CallID)
		c.Set(LoggerKey, log)
		c.Header(CorrelationIDHeader, corr.CallID)

		c.Next()
	}
}

// GetLogger retrieves the correlation-aware logger from the Gin context
// If not found, returns the provided fallback logger
func GetLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if l, exists := c.Get(LoggerKey); exists {
		if log, ok := l.(*zap.Logger); ok {
			return log
		}
	}
	return fallback
}

// GetCorrelationID retrieves the call id from the Gin context
// Returns empty string if not found
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
