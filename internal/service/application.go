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

package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
	"github.com/wso2/api-platform/apim-publisher/internal/utils"
)

// ApplicationService handles store applications and their keys
type ApplicationService struct {
	gateway apim.StoreService
	log     *zap.Logger
}

// NewApplicationService creates a new application service
func NewApplicationService(gateway apim.StoreService, log *zap.Logger) *ApplicationService {
	return &ApplicationService{
		gateway: gateway,
		log:     log,
	}
}

// Create creates an application owned by the calling user.
func (s *ApplicationService) Create(ctx context.Context, req *dto.NewApplicationRequest) (*model.Application, int) {
	if err := utils.ValidateForm(req); err != nil {
		tracing.TagError(ctx, err)
		return fail[model.Application](http.StatusBadRequest, constants.MsgMissingParameters)
	}

	r := s.gateway.CreateApplication(ctx, req.Name)
	if !r.OK() {
		tracing.TagError(ctx, r.Err)
		if r.Status == http.StatusConflict || r.Status == http.StatusBadRequest {
			return fail[model.Application](r.Status, constants.MsgApplicationExists)
		}
		return fail[model.Application](r.Status, constants.MsgApplicationCreateFailed)
	}

	app := r.Value
	logger.FromContext(ctx, s.log).Info("Application created",
		zap.String("application_id", app.ApplicationID), zap.String("application_name", req.Name))
	return &app, r.Status
}

// GenerateKeys issues production keys. A validity that is not an integer
// falls back to the default and is tagged on the span.
func (s *ApplicationService) GenerateKeys(ctx context.Context, req *dto.GenerateKeysRequest) (*model.ApplicationKey, int) {
	if err := utils.ValidateForm(req); err != nil {
		tracing.TagError(ctx, err)
		return fail[model.ApplicationKey](http.StatusBadRequest, constants.MsgMissingParameters)
	}

	validity, fallback := utils.ParseTokenValidity(*req.TokenValidityTime)
	if fallback {
		tracing.TagSpan(ctx, constants.TagInvalidParameter, constants.TokenValidityTimeParam)
	}
	return fromResult(ctx, s.gateway.GenerateKeys(ctx, req.ApplicationID, validity))
}

// List returns the applications of the calling user.
func (s *ApplicationService) List(ctx context.Context) (*model.ApplicationList, int) {
	return fromResult(ctx, s.gateway.ListApplications(ctx))
}

// Get returns a single application.
func (s *ApplicationService) Get(ctx context.Context, applicationID string) (*model.Application, int) {
	return fromResult(ctx, s.gateway.GetApplication(ctx, applicationID))
}

// Delete removes an application.
func (s *ApplicationService) Delete(ctx context.Context, applicationID string) (*model.Application, int) {
	app := &model.Application{ApplicationID: applicationID}
	r := s.gateway.DeleteApplication(ctx, applicationID)
	if !r.OK() {
		tracing.TagError(ctx, r.Err)
		app.Fail(r.Err.Message)
	}
	return app, r.Status
}
