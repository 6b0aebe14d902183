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
	"fmt"
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

// PublishService runs the publish and new-version workflows for REST and SOAP APIs.
// Partially created APIs are never rolled back; the caller gets the API id back
// in the envelope and decides whether to retry or delete.
type PublishService struct {
	gateway apim.PublisherService
	fetcher DefinitionFetcher
	log     *zap.Logger
}

// NewPublishService creates a new publish service
func NewPublishService(gateway apim.PublisherService, fetcher DefinitionFetcher, log *zap.Logger) *PublishService {
	return &PublishService{
		gateway: gateway,
		fetcher: fetcher,
		log:     log,
	}
}

// PublishRest creates, documents and publishes a new REST API.
func (s *PublishService) PublishRest(ctx context.Context, req *dto.NewRestAPIRequest) (*model.ManagedAPI, int) {
	log := logger.FromContext(ctx, s.log)

	// 1. Validate inputs
	if err := utils.ValidateRestRequest(req, false); err != nil {
		log.Debug("Rejected REST publish request", zap.Error(err))
		tracing.TagError(ctx, err)
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}

	// 2. Reject names that are already taken
	if existing, status, ok := s.checkNameAvailable(ctx, req.APIName); !ok {
		return existing, status
	}

	// 3. Create the API
	payload, err := renderRestPayload(req)
	if err != nil {
		log.Error("Failed to render REST API payload", zap.Error(err))
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgCreateFailed)
	}
	created := s.gateway.CreateAPI(ctx, payload)
	if !created.OK() {
		tracing.TagError(ctx, created.Err)
		return fail[model.ManagedAPI](created.Status, constants.MsgCreateFailed)
	}
	api := created.Value
	log.Info("REST API created", zap.String("api_id", api.ID), zap.String("api_name", req.APIName))

	// 4. Push the contract definition
	if status, ok := s.pushDefinition(ctx, &api, req.SwaggerEndpoint); !ok {
		return &api, status
	}

	// 5. Publish
	return s.publish(ctx, &api, constants.MsgCreatedNotPublished)
}

// NewRestVersion copies the parent API under a new version, applies the
// request on top of the copy and publishes it.
func (s *PublishService) NewRestVersion(ctx context.Context, req *dto.NewRestAPIRequest) (*model.ManagedAPI, int) {
	log := logger.FromContext(ctx, s.log)

	// 1. Validate inputs
	if err := utils.ValidateRestRequest(req, true); err != nil {
		log.Debug("Rejected REST new version request", zap.Error(err))
		tracing.TagError(ctx, err)
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}

	payload, err := renderRestPayload(req)
	if err != nil {
		log.Error("Failed to render REST API payload", zap.Error(err))
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgVersionUpdateFailed)
	}

	// 2. Copy and update
	api, status, ok := s.copyAndUpdate(ctx, req.ParentAPIID, req.APIVersion, &payload)
	if !ok {
		return api, status
	}

	// 3. Push the contract definition
	if status, ok := s.pushDefinition(ctx, api, req.SwaggerEndpoint); !ok {
		return api, status
	}

	// 4. Publish
	return s.publish(ctx, api, constants.MsgUpdatedNotPublished)
}

// PublishSOAP creates and publishes a new WSDL-backed API.
func (s *PublishService) PublishSOAP(ctx context.Context, req *dto.NewSOAPAPIRequest) (*model.ManagedAPI, int) {
	log := logger.FromContext(ctx, s.log)

	if err := utils.ValidateSOAPRequest(req, false); err != nil {
		log.Debug("Rejected SOAP publish request", zap.Error(err))
		tracing.TagError(ctx, err)
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}

	if existing, status, ok := s.checkNameAvailable(ctx, req.APIName); !ok {
		return existing, status
	}

	payload, err := renderSOAPPayload(req)
	if err != nil {
		log.Error("Failed to render SOAP API payload", zap.Error(err))
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgCreateFailed)
	}
	created := s.gateway.CreateAPI(ctx, payload)
	if !created.OK() {
		tracing.TagError(ctx, created.Err)
		return fail[model.ManagedAPI](created.Status, constants.MsgCreateFailed)
	}
	api := created.Value
	log.Info("SOAP API created", zap.String("api_id", api.ID), zap.String("api_name", req.APIName))

	return s.publish(ctx, &api, constants.MsgCreatedNotPublished)
}

// NewSOAPVersion copies the parent API under a new version and publishes it.
func (s *PublishService) NewSOAPVersion(ctx context.Context, req *dto.NewSOAPAPIRequest) (*model.ManagedAPI, int) {
	log := logger.FromContext(ctx, s.log)

	if err := utils.ValidateSOAPRequest(req, true); err != nil {
		log.Debug("Rejected SOAP new version request", zap.Error(err))
		tracing.TagError(ctx, err)
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}

	payload, err := renderSOAPPayload(req)
	if err != nil {
		log.Error("Failed to render SOAP API payload", zap.Error(err))
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgVersionUpdateFailed)
	}

	api, status, ok := s.copyAndUpdate(ctx, req.ParentAPIID, req.APIVersion, &payload)
	if !ok {
		return api, status
	}
	return s.publish(ctx, api, constants.MsgUpdatedNotPublished)
}

// checkNameAvailable fails when the search fails or an API with exactly this
// name exists. On conflict the existing API is returned so the caller can
// create a new version from its id.
func (s *PublishService) checkNameAvailable(ctx context.Context, name string) (*model.ManagedAPI, int, bool) {
	search := s.gateway.SearchAPIs(ctx, name, constants.DefaultSearchLimit)
	if !search.OK() {
		tracing.TagError(ctx, search.Err)
		api, status := fail[model.ManagedAPI](http.StatusServiceUnavailable, constants.MsgPreviousVersionsLookup)
		return api, status, false
	}
	for i := range search.Value.List {
		if search.Value.List[i].Name == name {
			existing := search.Value.List[i]
			existing.Fail(constants.MsgAlreadyPublished)
			return &existing, http.StatusPreconditionFailed, false
		}
	}
	return nil, 0, true
}

func (s *PublishService) copyAndUpdate(ctx context.Context, parentID, version string, payload *apiPayload) (*model.ManagedAPI, int, bool) {
	copied := s.gateway.CopyAPI(ctx, parentID, version)
	if !copied.OK() {
		tracing.TagError(ctx, copied.Err)
		api, status := fail[model.ManagedAPI](copied.Status, constants.MsgVersionCreateFailed)
		return api, status, false
	}
	copyID := copied.Value.ID

	payload.ID = copyID
	updated := s.gateway.UpdateAPI(ctx, copyID, payload)
	if !updated.OK() {
		tracing.TagError(ctx, updated.Err)
		api, status := fail[model.ManagedAPI](updated.Status, constants.MsgVersionUpdateFailed)
		api.ID = copyID
		return api, status, false
	}
	api := updated.Value
	if api.ID == "" {
		api.ID = copyID
	}
	logger.FromContext(ctx, s.log).Info("New API version created",
		zap.String("parent_api_id", parentID), zap.String("api_id", api.ID), zap.String("version", version))
	return &api, updated.Status, true
}

// pushDefinition replaces the definition of api with the one served at
// swaggerEndpoint, or with the catch-all default when no endpoint is given.
func (s *PublishService) pushDefinition(ctx context.Context, api *model.ManagedAPI, swaggerEndpoint string) (int, bool) {
	log := logger.FromContext(ctx, s.log).With(zap.String("api_id", api.ID))

	var (
		definition []byte
		err        error
	)
	if swaggerEndpoint != "" {
		definition, err = s.fetcher.Fetch(ctx, swaggerEndpoint)
		if err != nil {
			log.Warn("Swagger endpoint failed, API left with its default definition", zap.Error(err))
			tracing.TagError(ctx, err)
			api.Fail(fmt.Sprintf(constants.MsgSwaggerEndpointFailed, api.ID))
			return http.StatusPreconditionFailed, false
		}
	} else {
		definition, err = defaultSwagger(api.Name, api.Version)
		if err != nil {
			log.Error("Failed to render default swagger", zap.Error(err))
			api.Fail(fmt.Sprintf(constants.MsgSwaggerUpdateFailed, api.ID))
			return http.StatusBadRequest, false
		}
	}

	if r := s.gateway.UpdateSwagger(ctx, api.ID, definition); !r.OK() {
		tracing.TagError(ctx, r.Err)
		api.Fail(fmt.Sprintf(constants.MsgSwaggerUpdateFailed, api.ID))
		return http.StatusBadRequest, false
	}
	return 0, true
}

func (s *PublishService) publish(ctx context.Context, api *model.ManagedAPI, failure string) (*model.ManagedAPI, int) {
	if r := s.gateway.PublishAPI(ctx, api.ID); !r.OK() {
		tracing.TagError(ctx, r.Err)
		api.Fail(failure)
		return api, http.StatusBadRequest
	}
	logger.FromContext(ctx, s.log).Info("API published", zap.String("api_id", api.ID))
	return api, http.StatusOK
}
