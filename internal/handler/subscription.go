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
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/service"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

// SubscriptionHandler serves the subscription listing and the bulk workflows
// that act on every API an application is subscribed to.
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// ListSubscriptions handles GET /subscription/application/:id
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	subs, status := h.subscriptionService.List(c.Request.Context(), c.Param("id"))
	respond(c, "subscription_list", subs, status)
}

// Subscribe handles PUT /subscription/:id/apis. An empty body or a body
// without idList subscribes to nothing; an undecodable body is rejected.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var ids dto.APIIDList
	if err := c.ShouldBindJSON(&ids); err != nil && !errors.Is(err, io.EOF) {
		tracing.TagError(c.Request.Context(), err)
		subs := &model.SubscriptionList{}
		subs.Fail(constants.MsgMissingParametersDot)
		respond(c, "subscribe", subs, http.StatusBadRequest)
		return
	}

	subs, status := h.subscriptionService.Subscribe(c.Request.Context(), c.Param("id"), &ids)
	respond(c, "subscribe", subs, status)
}

// Unsubscribe handles DELETE /subscription/:id
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	sub, status := h.subscriptionService.Unsubscribe(c.Request.Context(), c.Param("id"))
	respond(c, "unsubscribe", sub, status)
}

func (h *SubscriptionHandler) AddOrigin(c *gin.Context) {
	h.updateCors(c, service.AddOrigin, constants.OriginParam)
}

func (h *SubscriptionHandler) RemoveOrigin(c *gin.Context) {
	h.updateCors(c, service.RemoveOrigin, constants.OriginParam)
}

func (h *SubscriptionHandler) AddHeader(c *gin.Context) {
	h.updateCors(c, service.AddHeader, constants.HeaderParam)
}

func (h *SubscriptionHandler) RemoveHeader(c *gin.Context) {
	h.updateCors(c, service.RemoveHeader, constants.HeaderParam)
}

func (h *SubscriptionHandler) updateCors(c *gin.Context, action service.CorsAction, param string) {
	m := service.CorsMutation{Action: action, Value: c.Query(param)}
	subs, status := h.subscriptionService.UpdateCors(c.Request.Context(), c.Param("id"), m)
	respond(c, "subscription_cors_"+action.String(), subs, status)
}

// RegisterRoutes registers the subscription routes
func (h *SubscriptionHandler) RegisterRoutes(r *gin.Engine) {
	subGroup := r.Group("/subscription")
	{
		subGroup.GET("/application/:id", h.ListSubscriptions)
		subGroup.PUT("/:id/apis", h.Subscribe)
		subGroup.PUT("/:id/apis/origin", h.AddOrigin)
		subGroup.DELETE("/:id/apis/origin", h.RemoveOrigin)
		subGroup.PUT("/:id/apis/header", h.AddHeader)
		subGroup.DELETE("/:id/apis/header", h.RemoveHeader)
		subGroup.DELETE("/:id", h.Unsubscribe)
	}
}
