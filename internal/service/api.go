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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
	"github.com/wso2/api-platform/apim-publisher/internal/utils"
)

// APIKind distinguishes the REST and SOAP surfaces, which differ only in messages.
type APIKind string

const (
	KindREST APIKind = "rest"
	KindSOAP APIKind = "soap"
)

// APIService handles lookups, deletion, lifecycle and CORS edits of a single API.
type APIService struct {
	gateway apim.PublisherService
	kind    APIKind
	log     *zap.Logger
}

// NewAPIService creates a new API service
func NewAPIService(gateway apim.PublisherService, kind APIKind, log *zap.Logger) *APIService {
	return &APIService{
		gateway: gateway,
		kind:    kind,
		log:     log,
	}
}

// Get returns the API with the given id.
func (s *APIService) Get(ctx context.Context, apiID string) (*model.ManagedAPI, int) {
	return fromResult(ctx, s.gateway.GetAPI(ctx, apiID))
}

// Search looks APIs up by name. An empty limit means the default limit.
func (s *APIService) Search(ctx context.Context, name, rawLimit string) (*model.VersionSearchResult, int) {
	if strings.TrimSpace(name) == "" {
		return fail[model.VersionSearchResult](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}
	limit, err := utils.ParseSearchLimit(rawLimit)
	if err != nil {
		tracing.TagSpan(ctx, constants.TagInvalidParameter, constants.APIQueryLimitParam)
		return fail[model.VersionSearchResult](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}
	return fromResult(ctx, s.gateway.SearchAPIs(ctx, name, limit))
}

// Delete removes the API and forwards the downstream status.
func (s *APIService) Delete(ctx context.Context, apiID string) (*model.ManagedAPI, int) {
	r := s.gateway.DeleteAPI(ctx, apiID)
	if !r.OK() {
		tracing.TagError(ctx, r.Err)
		return fail[model.ManagedAPI](r.Status, s.deleteFailure(apiID))
	}
	logger.FromContext(ctx, s.log).Info("API deleted", zap.String("api_id", apiID), zap.String("kind", string(s.kind)))
	return &model.ManagedAPI{ID: apiID}, r.Status
}

func (s *APIService) deleteFailure(apiID string) string {
	if s.kind == KindSOAP {
		return fmt.Sprintf(constants.MsgSoapDeleteFailed, apiID)
	}
	return constants.MsgRestDeleteFailed
}

// Publish moves an existing API to the Published lifecycle state.
func (s *APIService) Publish(ctx context.Context, apiID string) (*model.ManagedAPI, int) {
	api := &model.ManagedAPI{ID: apiID}
	r := s.gateway.PublishAPI(ctx, apiID)
	if !r.OK() {
		tracing.TagError(ctx, r.Err)
		api.Fail(r.Err.Message)
	}
	return api, r.Status
}

// UpdateCors applies m to the CORS configuration of the API and pushes the
// whole definition back. The update status is forwarded verbatim.
func (s *APIService) UpdateCors(ctx context.Context, apiID string, m CorsMutation) (*model.ManagedAPI, int) {
	log := logger.FromContext(ctx, s.log).With(zap.String("api_id", apiID), zap.Stringer("action", m.Action))

	if strings.TrimSpace(m.Value) == "" {
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}

	raw := s.gateway.GetRawAPI(ctx, apiID)
	if !raw.OK() {
		tracing.TagError(ctx, raw.Err)
		return fail[model.ManagedAPI](raw.Status, constants.MsgGetAPIFailed)
	}

	updated, err := applyCorsMutation(raw.Value, m)
	if err != nil {
		log.Warn("Downstream API definition could not be edited", zap.Error(err))
		tracing.TagError(ctx, err)
		return fail[model.ManagedAPI](http.StatusBadRequest, constants.MsgAPINotUpdated)
	}

	log.Debug("Pushing CORS change", zap.String("value", m.Value))
	return fromResult(ctx, s.gateway.UpdateAPI(ctx, apiID, json.RawMessage(updated)))
}
