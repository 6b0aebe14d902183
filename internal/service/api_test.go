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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

func TestSearchValidatesParameters(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewAPIService(gw, KindREST, zap.NewNop())

	result, status := svc.Search(context.Background(), "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, constants.MsgMissingParametersDot, result.Message())

	_, status = svc.Search(context.Background(), "PetStore", "ten")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, gw.Calls())
}

func TestSearchUsesDefaultLimit(t *testing.T) {
	var gotLimit int
	gw := &fakeGateway{
		searchAPIs: func(name string, limit int) apim.Result[model.VersionSearchResult] {
			gotLimit = limit
			return apim.Ok(http.StatusOK, model.VersionSearchResult{Count: 1, List: []model.ManagedAPI{{Name: name}}})
		},
	}
	svc := NewAPIService(gw, KindREST, zap.NewNop())

	result, status := svc.Search(context.Background(), "PetStore", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, constants.DefaultSearchLimit, gotLimit)
	assert.Equal(t, 1, result.Count)
}

func TestGetForwardsDownstreamFailure(t *testing.T) {
	gw := &fakeGateway{
		getAPI: func(apiID string) apim.Result[model.ManagedAPI] {
			return downstreamFailure[model.ManagedAPI](http.StatusNotFound, fmt.Sprintf(constants.MsgClientGetDetailsFailed, apiID))
		},
	}
	svc := NewAPIService(gw, KindREST, zap.NewNop())

	api, status := svc.Get(context.Background(), "api-1")

	assert.Equal(t, http.StatusNotFound, status)
	assert.True(t, api.CallError)
	assert.Equal(t, fmt.Sprintf(constants.MsgClientGetDetailsFailed, "api-1"), api.Message())
}

func TestDeleteMessagesPerKind(t *testing.T) {
	failing := func(string) apim.Result[struct{}] {
		return downstreamFailure[struct{}](http.StatusNotFound, constants.MsgClientDeleteFailed)
	}

	rest := NewAPIService(&fakeGateway{deleteAPI: failing}, KindREST, zap.NewNop())
	api, status := rest.Delete(context.Background(), "api-1")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, constants.MsgRestDeleteFailed, api.Message())

	soap := NewAPIService(&fakeGateway{deleteAPI: failing}, KindSOAP, zap.NewNop())
	api, _ = soap.Delete(context.Background(), "api-1")
	assert.Equal(t, fmt.Sprintf(constants.MsgSoapDeleteFailed, "api-1"), api.Message())

	ok := NewAPIService(&fakeGateway{}, KindREST, zap.NewNop())
	api, status = ok.Delete(context.Background(), "api-1")
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, api.CallError)
}

func TestPublishLifecycle(t *testing.T) {
	gw := &fakeGateway{
		publishAPI: func(apiID string) apim.Result[struct{}] {
			return downstreamFailure[struct{}](http.StatusConflict, fmt.Sprintf(constants.MsgClientPublishFailed, apiID))
		},
	}
	svc := NewAPIService(gw, KindREST, zap.NewNop())

	api, status := svc.Publish(context.Background(), "api-1")

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "api-1", api.ID)
	assert.Equal(t, fmt.Sprintf(constants.MsgClientPublishFailed, "api-1"), api.Message())
}

func TestUpdateCorsPushesEditedDefinition(t *testing.T) {
	var pushed json.RawMessage
	gw := &fakeGateway{
		getRawAPI: func(string) apim.Result[json.RawMessage] {
			return apim.Ok(http.StatusOK, json.RawMessage(rawAPIWithCors))
		},
		updateAPI: func(apiID string, payload interface{}) apim.Result[model.ManagedAPI] {
			pushed = payload.(json.RawMessage)
			return apim.Ok(http.StatusAccepted, model.ManagedAPI{ID: apiID})
		},
	}
	svc := NewAPIService(gw, KindREST, zap.NewNop())

	api, status := svc.UpdateCors(context.Background(), "api-1", CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})

	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "api-1", api.ID)
	require.NotNil(t, pushed)
	origins, _ := corsLists(t, pushed)
	assert.Equal(t, []string{"https://a.example.com"}, origins)
}

func TestUpdateCorsGetFailure(t *testing.T) {
	gw := &fakeGateway{
		getRawAPI: func(string) apim.Result[json.RawMessage] {
			return downstreamFailure[json.RawMessage](http.StatusNotFound, constants.MsgClientGetFailed)
		},
	}
	svc := NewAPIService(gw, KindREST, zap.NewNop())

	api, status := svc.UpdateCors(context.Background(), "api-1", CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, constants.MsgGetAPIFailed, api.Message())
	assert.Zero(t, gw.count("update"))
}

func TestUpdateCorsUpdateFailureIsForwarded(t *testing.T) {
	gw := &fakeGateway{
		updateAPI: func(apiID string, payload interface{}) apim.Result[model.ManagedAPI] {
			return downstreamFailure[model.ManagedAPI](http.StatusBadRequest, fmt.Sprintf(constants.MsgClientUpdateFailed, apiID))
		},
	}
	svc := NewAPIService(gw, KindSOAP, zap.NewNop())

	api, status := svc.UpdateCors(context.Background(), "api-1", CorsMutation{Action: AddHeader, Value: "X-Trace"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, fmt.Sprintf(constants.MsgClientUpdateFailed, "api-1"), api.Message())
}
