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
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

// ErrorHandlingMiddleware recovers from panics and answers with the generic
// failure envelope so the caller can quote the call id to support.
func ErrorHandlingMiddleware(baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log := GetLogger(c, baseLogger)
				log.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				metrics.PanicRecoveriesTotal.Inc()
				tracing.TagError(c.Request.Context(), fmt.Errorf("panic: %v", err))

				var envelope model.Outcome
				envelope.Fail(constants.MsgUnknownError)
				envelope.Stamp(GetCorrelationID(c))
				c.AbortWithStatusJSON(http.StatusBadRequest, envelope)
			}
		}()

		c.Next()
	}
}
