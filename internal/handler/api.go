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

// APIHandler serves one of the /rest or /soap surfaces.
type APIHandler struct {
	apis      *service.APIService
	publisher *service.PublishService
	kind      service.APIKind
}

func NewAPIHandler(apis *service.APIService, publisher *service.PublishService, kind service.APIKind) *APIHandler {
	return &APIHandler{
		apis:      apis,
		publisher: publisher,
		kind:      kind,
	}
}

// PublishAPI handles POST /{kind}
func (h *APIHandler) PublishAPI(c *gin.Context) {
	ctx := c.Request.Context()
	if h.kind == service.KindSOAP {
		req := bindSOAP(c)
		api, status := h.publisher.PublishSOAP(ctx, req)
		respond(c, h.workflow("publish"), api, status)
		return
	}
	req := bindRest(c)
	api, status := h.publisher.PublishRest(ctx, req)
	respond(c, h.workflow("publish"), api, status)
}

// CreateVersion handles PUT /{kind}
func (h *APIHandler) CreateVersion(c *gin.Context) {
	ctx := c.Request.Context()
	if h.kind == service.KindSOAP {
		req := bindSOAP(c)
		api, status := h.publisher.NewSOAPVersion(ctx, req)
		respond(c, h.workflow("new_version"), api, status)
		return
	}
	req := bindRest(c)
	api, status := h.publisher.NewRestVersion(ctx, req)
	respond(c, h.workflow("new_version"), api, status)
}

// GetAPI handles GET /{kind}/:apiId
func (h *APIHandler) GetAPI(c *gin.Context) {
	api, status := h.apis.Get(c.Request.Context(), c.Param("apiId"))
	respond(c, h.workflow("get"), api, status)
}

// SearchAPIs handles GET /{kind}?api_name=&limit=
func (h *APIHandler) SearchAPIs(c *gin.Context) {
	result, status := h.apis.Search(c.Request.Context(),
		c.Query(constants.APINameParam), c.Query(constants.APIQueryLimitParam))
	respond(c, h.workflow("search"), result, status)
}

// DeleteAPI handles DELETE /{kind}/:apiId
func (h *APIHandler) DeleteAPI(c *gin.Context) {
	api, status := h.apis.Delete(c.Request.Context(), c.Param("apiId"))
	respond(c, h.workflow("delete"), api, status)
}

// ChangeLifecycle handles PUT /{kind}/publish/:apiId
func (h *APIHandler) ChangeLifecycle(c *gin.Context) {
	api, status := h.apis.Publish(c.Request.Context(), c.Param("apiId"))
	respond(c, h.workflow("lifecycle"), api, status)
}

// AddOrigin handles PUT /{kind}/:apiId/origin?origin=
func (h *APIHandler) AddOrigin(c *gin.Context) {
	h.updateCors(c, service.CorsMutation{Action: service.AddOrigin, Value: c.Query(constants.OriginParam)})
}

// RemoveOrigin handles DELETE /{kind}/:apiId/origin?origin=
func (h *APIHandler) RemoveOrigin(c *gin.Context) {
	h.updateCors(c, service.CorsMutation{Action: service.RemoveOrigin, Value: c.Query(constants.OriginParam)})
}

// AddHeader handles PUT /{kind}/:apiId/header/:header
func (h *APIHandler) AddHeader(c *gin.Context) {
	h.updateCors(c, service.CorsMutation{Action: service.AddHeader, Value: c.Param("header")})
}

// RemoveHeader handles DELETE /{kind}/:apiId/header/:header
func (h *APIHandler) RemoveHeader(c *gin.Context) {
	h.updateCors(c, service.CorsMutation{Action: service.RemoveHeader, Value: c.Param("header")})
}

func (h *APIHandler) updateCors(c *gin.Context, m service.CorsMutation) {
	api, status := h.apis.UpdateCors(c.Request.Context(), c.Param("apiId"), m)
	respond(c, h.workflow("cors_"+m.Action.String()), api, status)
}

func (h *APIHandler) workflow(op string) string {
	return string(h.kind) + "_" + op
}

// RegisterRoutes registers the API routes under /rest or /soap
func (h *APIHandler) RegisterRoutes(r *gin.Engine) {
	group := r.Group("/" + string(h.kind))
	{
		group.POST("", h.PublishAPI)
		group.PUT("", h.CreateVersion)
		group.GET("", h.SearchAPIs)
		group.GET("/:apiId", h.GetAPI)
		group.DELETE("/:apiId", h.DeleteAPI)
		group.PUT("/publish/:apiId", h.ChangeLifecycle)
		group.PUT("/:apiId/origin", h.AddOrigin)
		group.DELETE("/:apiId/origin", h.RemoveOrigin)
		group.PUT("/:apiId/header/:header", h.AddHeader)
		group.DELETE("/:apiId/header/:header", h.RemoveHeader)
	}
}

// bindRest decodes the body; an unreadable body yields nil so validation answers 400.
func bindRest(c *gin.Context) *dto.NewRestAPIRequest {
	var req dto.NewRestAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil
	}
	return &req
}

func bindSOAP(c *gin.Context) *dto.NewSOAPAPIRequest {
	var req dto.NewSOAPAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil
	}
	return &req
}
