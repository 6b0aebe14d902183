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
	"net/http"
	"sync"

	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

// fakeGateway records every call. Hooks left nil answer with a 200 success.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	searchAPIs        func(name string, limit int) apim.Result[model.VersionSearchResult]
	getAPI            func(apiID string) apim.Result[model.ManagedAPI]
	getRawAPI         func(apiID string) apim.Result[json.RawMessage]
	createAPI         func(payload interface{}) apim.Result[model.ManagedAPI]
	copyAPI           func(apiID, version string) apim.Result[model.ManagedAPI]
	updateAPI         func(apiID string, payload interface{}) apim.Result[model.ManagedAPI]
	updateSwagger     func(apiID string, definition []byte) apim.Result[struct{}]
	publishAPI        func(apiID string) apim.Result[struct{}]
	deleteAPI         func(apiID string) apim.Result[struct{}]
	listApplications  func() apim.Result[model.ApplicationList]
	getApplication    func(id string) apim.Result[model.Application]
	createApplication func(name string) apim.Result[model.Application]
	deleteApplication func(id string) apim.Result[struct{}]
	generateKeys      func(id string, validity int) apim.Result[model.ApplicationKey]
	listSubscriptions func(appID string) apim.Result[model.SubscriptionList]
	subscribe         func(apiID, appID string) apim.Result[model.Subscription]
	unsubscribe       func(id string) apim.Result[struct{}]
}

var _ apim.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func downstreamFailure[T any](status int, message string) apim.Result[T] {
	return apim.Fail[T](apim.NewError(apim.KindDownstream, status, message, nil))
}

func (f *fakeGateway) SearchAPIs(_ context.Context, name string, limit int) apim.Result[model.VersionSearchResult] {
	f.record("search")
	if f.searchAPIs != nil {
		return f.searchAPIs(name, limit)
	}
	return apim.Ok(http.StatusOK, model.VersionSearchResult{})
}

func (f *fakeGateway) GetAPI(_ context.Context, apiID string) apim.Result[model.ManagedAPI] {
	f.record("get")
	if f.getAPI != nil {
		return f.getAPI(apiID)
	}
	return apim.Ok(http.StatusOK, model.ManagedAPI{ID: apiID})
}

func (f *fakeGateway) GetRawAPI(_ context.Context, apiID string) apim.Result[json.RawMessage] {
	f.record("get_raw")
	if f.getRawAPI != nil {
		return f.getRawAPI(apiID)
	}
	return apim.Ok(http.StatusOK, json.RawMessage(`{"id":"`+apiID+`"}`))
}

func (f *fakeGateway) CreateAPI(_ context.Context, payload interface{}) apim.Result[model.ManagedAPI] {
	f.record("create")
	if f.createAPI != nil {
		return f.createAPI(payload)
	}
	return apim.Ok(http.StatusCreated, model.ManagedAPI{ID: "new-api-id"})
}

func (f *fakeGateway) CopyAPI(_ context.Context, apiID, version string) apim.Result[model.ManagedAPI] {
	f.record("copy")
	if f.copyAPI != nil {
		return f.copyAPI(apiID, version)
	}
	return apim.Ok(http.StatusCreated, model.ManagedAPI{ID: "copy-id", Version: version})
}

func (f *fakeGateway) UpdateAPI(_ context.Context, apiID string, payload interface{}) apim.Result[model.ManagedAPI] {
	f.record("update")
	if f.updateAPI != nil {
		return f.updateAPI(apiID, payload)
	}
	return apim.Ok(http.StatusOK, model.ManagedAPI{ID: apiID})
}

func (f *fakeGateway) UpdateSwagger(_ context.Context, apiID string, definition []byte) apim.Result[struct{}] {
	f.record("swagger")
	if f.updateSwagger != nil {
		return f.updateSwagger(apiID, definition)
	}
	return apim.Ok(http.StatusOK, struct{}{})
}

func (f *fakeGateway) PublishAPI(_ context.Context, apiID string) apim.Result[struct{}] {
	f.record("publish")
	if f.publishAPI != nil {
		return f.publishAPI(apiID)
	}
	return apim.Ok(http.StatusOK, struct{}{})
}

func (f *fakeGateway) DeleteAPI(_ context.Context, apiID string) apim.Result[struct{}] {
	f.record("delete")
	if f.deleteAPI != nil {
		return f.deleteAPI(apiID)
	}
	return apim.Ok(http.StatusOK, struct{}{})
}

func (f *fakeGateway) ListApplications(_ context.Context) apim.Result[model.ApplicationList] {
	f.record("list_apps")
	if f.listApplications != nil {
		return f.listApplications()
	}
	return apim.Ok(http.StatusOK, model.ApplicationList{})
}

func (f *fakeGateway) GetApplication(_ context.Context, id string) apim.Result[model.Application] {
	f.record("get_app")
	if f.getApplication != nil {
		return f.getApplication(id)
	}
	return apim.Ok(http.StatusOK, model.Application{ApplicationID: id})
}

func (f *fakeGateway) CreateApplication(_ context.Context, name string) apim.Result[model.Application] {
	f.record("create_app")
	if f.createApplication != nil {
		return f.createApplication(name)
	}
	return apim.Ok(http.StatusCreated, model.Application{ApplicationID: "app-1", Name: name})
}

func (f *fakeGateway) DeleteApplication(_ context.Context, id string) apim.Result[struct{}] {
	f.record("delete_app")
	if f.deleteApplication != nil {
		return f.deleteApplication(id)
	}
	return apim.Ok(http.StatusOK, struct{}{})
}

func (f *fakeGateway) GenerateKeys(_ context.Context, id string, validity int) apim.Result[model.ApplicationKey] {
	f.record("keys")
	if f.generateKeys != nil {
		return f.generateKeys(id, validity)
	}
	return apim.Ok(http.StatusOK, model.ApplicationKey{ConsumerKey: "ck", ConsumerSecret: "cs"})
}

func (f *fakeGateway) ListSubscriptions(_ context.Context, appID string) apim.Result[model.SubscriptionList] {
	f.record("list_subs")
	if f.listSubscriptions != nil {
		return f.listSubscriptions(appID)
	}
	return apim.Ok(http.StatusOK, model.SubscriptionList{})
}

func (f *fakeGateway) Subscribe(_ context.Context, apiID, appID string) apim.Result[model.Subscription] {
	f.record("subscribe")
	if f.subscribe != nil {
		return f.subscribe(apiID, appID)
	}
	return apim.Ok(http.StatusCreated, model.Subscription{SubscriptionID: "sub-" + apiID, APIIdentifier: apiID, ApplicationID: appID})
}

func (f *fakeGateway) Unsubscribe(_ context.Context, id string) apim.Result[struct{}] {
	f.record("unsubscribe")
	if f.unsubscribe != nil {
		return f.unsubscribe(id)
	}
	return apim.Ok(http.StatusOK, struct{}{})
}

// fakeFetcher serves a fixed definition or error.
type fakeFetcher struct {
	definition []byte
	err        error
	endpoints  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string) ([]byte, error) {
	f.endpoints = append(f.endpoints, endpoint)
	return f.definition, f.err
}
