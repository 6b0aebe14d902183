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

// Package handler exposes the publisher façade over gin.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
	"github.com/wso2/api-platform/apim-publisher/internal/middleware"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

// respond stamps the call id on the entity, records the workflow outcome and writes it.
func respond(c *gin.Context, workflow string, entity model.Enveloped, status int) {
	entity.Stamp(middleware.GetCorrelationID(c))
	metrics.WorkflowsTotal.WithLabelValues(workflow, strconv.Itoa(status)).Inc()
	c.JSON(status, entity)
}
