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

package apim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

// PublisherService covers the API Manager publisher operations.
type PublisherService interface {
	SearchAPIs(ctx context.Context, name string, limit int) Result[model.VersionSearchResult]
	GetAPI(ctx context.Context, apiID string) Result[model.ManagedAPI]
	GetRawAPI(ctx context.Context, apiID string) Result[json.RawMessage]
	CreateAPI(ctx context.Context, payload interface{}) Result[model.ManagedAPI]
	CopyAPI(ctx context.Context, apiID, newVersion string) Result[model.ManagedAPI]
	UpdateAPI(ctx context.Context, apiID string, payload interface{}) Result[model.ManagedAPI]
	UpdateSwagger(ctx context.Context, apiID string, definition []byte) Result[struct{}]
	PublishAPI(ctx context.Context, apiID string) Result[struct{}]
	DeleteAPI(ctx context.Context, apiID string) Result[struct{}]
}

// SearchAPIs issues GET <publisher>?query=name:<name>&limit=<n>; limit<=0 is clamped.
func (c *Client) SearchAPIs(ctx context.Context, name string, limit int) Result[model.VersionSearchResult] {
	if limit <= 0 {
		limit = constants.ClampedSearchLimit
	}
	rb := NewRequest(http.MethodGet, buildURL(c.cfg.PublisherEndpoint)).
		WithQuery("query", "name:"+name).
		WithQuery("limit", strconv.Itoa(limit))
	return invoke[model.VersionSearchResult](ctx, c, operation{
		name:       "search_apis",
		scope:      constants.ScopeView,
		message:    constants.MsgClientSearchFailed,
		failStatus: http.StatusServiceUnavailable,
	}, rb)
}

// GetAPI retrieves an API by id
func (c *Client) GetAPI(ctx context.Context, apiID string) Result[model.ManagedAPI] {
	return invoke[model.ManagedAPI](ctx, c, operation{
		name:       "get_api",
		scope:      constants.ScopeView,
		message:    fmt.Sprintf(constants.MsgClientGetDetailsFailed, apiID),
		failStatus: http.StatusServiceUnavailable,
		expected:   []int{http.StatusOK},
	}, NewRequest(http.MethodGet, buildURL(c.cfg.PublisherEndpoint, apiID)))
}

// GetRawAPI retrieves the untouched API definition JSON, used for in-place CORS edits.
func (c *Client) GetRawAPI(ctx context.Context, apiID string) Result[json.RawMessage] {
	return invoke[json.RawMessage](ctx, c, operation{
		name:       "get_api_raw",
		scope:      constants.ScopeView,
		message:    constants.MsgClientGetFailed,
		failStatus: http.StatusServiceUnavailable,
		expected:   []int{http.StatusOK},
	}, NewRequest(http.MethodGet, buildURL(c.cfg.PublisherEndpoint, apiID)))
}

// CreateAPI creates an API from a rendered payload
func (c *Client) CreateAPI(ctx context.Context, payload interface{}) Result[model.ManagedAPI] {
	return invoke[model.ManagedAPI](ctx, c, operation{
		name:       "create_api",
		scope:      constants.ScopeCreate,
		message:    constants.MsgClientCreateFailed,
		failStatus: http.StatusConflict,
	}, NewRequest(http.MethodPost, buildURL(c.cfg.PublisherEndpoint)).WithJSONBody(payload))
}

// CopyAPI creates a new version of apiID
func (c *Client) CopyAPI(ctx context.Context, apiID, newVersion string) Result[model.ManagedAPI] {
	rb := NewRequest(http.MethodPost, buildURL(c.cfg.PublisherEndpoint, copyAPIPath)).
		WithQuery("apiId", apiID).
		WithQuery("newVersion", newVersion)
	return invoke[model.ManagedAPI](ctx, c, operation{
		name:       "copy_api",
		scope:      constants.ScopeCreate,
		message:    fmt.Sprintf(constants.MsgClientNewVersionFailed, newVersion),
		failStatus: http.StatusConflict,
	}, rb)
}

// UpdateAPI replaces the definition of apiID
func (c *Client) UpdateAPI(ctx context.Context, apiID string, payload interface{}) Result[model.ManagedAPI] {
	return invoke[model.ManagedAPI](ctx, c, operation{
		name:       "update_api",
		scope:      constants.ScopeCreate,
		message:    fmt.Sprintf(constants.MsgClientUpdateFailed, apiID),
		failStatus: http.StatusBadRequest,
	}, NewRequest(http.MethodPut, buildURL(c.cfg.PublisherEndpoint, apiID)).WithJSONBody(payload))
}

// UpdateSwagger pushes the contract definition as multipart form field apiDefinition
func (c *Client) UpdateSwagger(ctx context.Context, apiID string, definition []byte) Result[struct{}] {
	op := operation{
		name:       "update_swagger",
		scope:      constants.ScopeCreate,
		message:    constants.MsgClientSwaggerFailed,
		failStatus: http.StatusBadRequest,
	}
	payload, contentType, err := multipartField(constants.SwaggerFormField, string(definition))
	if err != nil {
		return Fail[struct{}](NewError(KindDownstream, op.failStatus, op.message, err))
	}
	rb := NewRequest(http.MethodPut, buildURL(c.cfg.PublisherEndpoint, apiID, swaggerPath)).
		WithRawBody(payload, contentType)
	return invokeStatus(ctx, c, op, rb)
}

// PublishAPI moves apiID to the Published lifecycle state
func (c *Client) PublishAPI(ctx context.Context, apiID string) Result[struct{}] {
	rb := NewRequest(http.MethodPost, buildURL(c.cfg.PublisherEndpoint, changeLifecyclePath)).
		WithQuery("apiId", apiID).
		WithQuery("action", constants.LifecycleActionPublish)
	return invokeStatus(ctx, c, operation{
		name:       "publish_api",
		scope:      constants.ScopePublish,
		message:    fmt.Sprintf(constants.MsgClientPublishFailed, apiID),
		failStatus: http.StatusBadRequest,
	}, rb)
}

// DeleteAPI removes an API
func (c *Client) DeleteAPI(ctx context.Context, apiID string) Result[struct{}] {
	return invokeStatus(ctx, c, operation{
		name:       "delete_api",
		scope:      constants.ScopeCreate,
		message:    constants.MsgClientDeleteFailed,
		failStatus: http.StatusBadRequest,
	}, NewRequest(http.MethodDelete, buildURL(c.cfg.PublisherEndpoint, apiID)))
}
