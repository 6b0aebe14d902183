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

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
	"github.com/wso2/api-platform/apim-publisher/internal/service"
)

type ApplicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// CreateApplication handles POST /application
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req dto.NewApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		req = dto.NewApplicationRequest{}
	}

	app, status := h.applicationService.Create(c.Request.Context(), &req)
	respond(c, "application_create", app, status)
}

// GenerateKeys handles POST /application/keys
func (h *ApplicationHandler) GenerateKeys(c *gin.Context) {
	// Presence of token_validity_time matters, its value may be empty
	req := dto.GenerateKeysRequest{
		ApplicationID: c.PostForm(constants.ApplicationIDParam),
	}
	if validity, ok := c.GetPostForm(constants.TokenValidityTimeParam); ok {
		req.TokenValidityTime = &validity
	}

	key, status := h.applicationService.GenerateKeys(c.Request.Context(), &req)
	respond(c, "application_keys", key, status)
}

// ListApplications handles GET /application
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	apps, status := h.applicationService.List(c.Request.Context())
	respond(c, "application_list", apps, status)
}

// GetApplication handles GET /application/:applicationId
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	app, status := h.applicationService.Get(c.Request.Context(), c.Param("applicationId"))
	respond(c, "application_get", app, status)
}

// DeleteApplication handles DELETE /application/:applicationId
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	app, status := h.applicationService.Delete(c.Request.Context(), c.Param("applicationId"))
	respond(c, "application_delete", app, status)
}

// RegisterRoutes registers the application routes
func (h *ApplicationHandler) RegisterRoutes(r *gin.Engine) {
	appGroup := r.Group("/application")
	{
		appGroup.POST("", h.CreateApplication)
		appGroup.POST("/keys", h.GenerateKeys)
		appGroup.GET("", h.ListApplications)
		appGroup.GET("/:applicationId", h.GetApplication)
		appGroup.DELETE("/:applicationId", h.DeleteApplication)
	}
}
