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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/config"
	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

func fanOutConfig(mode string, concurrency int) config.FanOutConfig {
	return config.FanOutConfig{Mode: mode, MaxConcurrency: concurrency, SearchLimit: constants.DefaultFanOutSearchLimit}
}

func failingSubscribe(failing string) func(apiID, appID string) apim.Result[model.Subscription] {
	return func(apiID, appID string) apim.Result[model.Subscription] {
		if apiID == failing {
			return downstreamFailure[model.Subscription](http.StatusInternalServerError, constants.MsgClientSubscribeFailed)
		}
		return apim.Ok(http.StatusCreated, model.Subscription{SubscriptionID: "sub-" + apiID, APIIdentifier: apiID, ApplicationID: appID})
	}
}

func TestSubscribeBestEffortReportsItemFailures(t *testing.T) {
	gw := &fakeGateway{subscribe: failingSubscribe("b")}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 4), zap.NewNop())

	list, status := svc.Subscribe(context.Background(), "app-1", &dto.APIIDList{IDList: []string{"a", "b"}})

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, list.List, 2)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, 1, list.FailedItems)
	assert.False(t, list.CallError)
	assert.False(t, list.List[0].CallError)
	assert.Equal(t, "sub-a", list.List[0].SubscriptionID)
	assert.True(t, list.List[1].CallError)
	assert.Equal(t, constants.MsgClientSubscribeFailed, list.List[1].Message())
	assert.Equal(t, "b", list.List[1].APIIdentifier)
}

func TestSubscribeStrictModeFailsOnAnyItem(t *testing.T) {
	gw := &fakeGateway{subscribe: failingSubscribe("b")}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutStrict, 1), zap.NewNop())

	list, status := svc.Subscribe(context.Background(), "app-1", &dto.APIIDList{IDList: []string{"a", "b", "c"}})

	assert.Equal(t, http.StatusBadGateway, status)
	assert.True(t, list.CallError)
	assert.Equal(t, fmt.Sprintf(constants.MsgFanOutPartialFailure, 1, 3), list.Message())
	assert.Equal(t, 1, list.FailedItems)
}

func TestSubscribeStrictModeAllSucceed(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutStrict, 2), zap.NewNop())

	list, status := svc.Subscribe(context.Background(), "app-1", &dto.APIIDList{IDList: []string{"a", "b"}})

	assert.Equal(t, http.StatusOK, status)
	assert.Zero(t, list.FailedItems)
}

func TestSubscribeEmptyList(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 4), zap.NewNop())

	list, status := svc.Subscribe(context.Background(), "app-1", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, list.List)
	assert.Empty(t, gw.Calls())
}

func TestSubscribeRecoversPanickingItem(t *testing.T) {
	gw := &fakeGateway{
		subscribe: func(apiID, appID string) apim.Result[model.Subscription] {
			if apiID == "b" {
				panic("nil subscription")
			}
			return apim.Ok(http.StatusCreated, model.Subscription{SubscriptionID: "sub-" + apiID, APIIdentifier: apiID})
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 2), zap.NewNop())
	before := testutil.ToFloat64(metrics.PanicRecoveriesTotal)

	list, status := svc.Subscribe(context.Background(), "app-1", &dto.APIIDList{IDList: []string{"a", "b", "c"}})

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, list.List, 3)
	assert.Equal(t, 1, list.FailedItems)
	assert.Equal(t, "sub-a", list.List[0].SubscriptionID)
	assert.True(t, list.List[1].CallError)
	assert.Equal(t, "b", list.List[1].APIIdentifier)
	assert.Equal(t, "app-1", list.List[1].ApplicationID)
	assert.Equal(t, constants.MsgUnknownError, list.List[1].Message())
	assert.Equal(t, "sub-c", list.List[2].SubscriptionID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PanicRecoveriesTotal))
}

func TestCorsFanOutRecoversPanickingItem(t *testing.T) {
	gw := &fakeGateway{
		listSubscriptions: func(appID string) apim.Result[model.SubscriptionList] {
			return apim.Ok(http.StatusOK, model.SubscriptionList{
				Count: 2,
				List: []model.Subscription{
					{SubscriptionID: "s1", APIIdentifier: "admin-PetStore-1.0.0"},
					{SubscriptionID: "s2", APIIdentifier: "Weather-2.0"},
				},
			})
		},
		searchAPIs: func(name string, limit int) apim.Result[model.VersionSearchResult] {
			if name == "Weather" {
				panic("search index corrupted")
			}
			return apim.Ok(http.StatusOK, model.VersionSearchResult{})
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutStrict, 2), zap.NewNop())
	before := testutil.ToFloat64(metrics.PanicRecoveriesTotal)

	list, status := svc.UpdateCors(context.Background(), "app-1", CorsMutation{Action: AddHeader, Value: "X-Trace-Id"})

	assert.Equal(t, http.StatusBadGateway, status)
	require.Len(t, list.List, 2)
	assert.False(t, list.List[0].CallError)
	assert.True(t, list.List[1].CallError)
	assert.Equal(t, constants.MsgUnknownError, list.List[1].Message())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PanicRecoveriesTotal))
}

func TestFanOutRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	gw := &fakeGateway{
		subscribe: func(apiID, appID string) apim.Result[model.Subscription] {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return apim.Ok(http.StatusCreated, model.Subscription{APIIdentifier: apiID})
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 2), zap.NewNop())

	ids := []string{"a", "b", "c", "d", "e", "f"}
	list, status := svc.Subscribe(context.Background(), "app-1", &dto.APIIDList{IDList: ids})

	assert.Equal(t, http.StatusOK, status)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	for i, id := range ids {
		assert.Equal(t, id, list.List[i].APIIdentifier)
	}
}

func TestCorsFanOutUpdatesMatchingVersions(t *testing.T) {
	var mu sync.Mutex
	updated := map[string]json.RawMessage{}
	gw := &fakeGateway{
		listSubscriptions: func(appID string) apim.Result[model.SubscriptionList] {
			return apim.Ok(http.StatusOK, model.SubscriptionList{
				Count: 2,
				List: []model.Subscription{
					{SubscriptionID: "s1", APIIdentifier: "admin-PetStore-1.0.0"},
					{SubscriptionID: "s2", APIIdentifier: "Weather-2.0"},
				},
			})
		},
		searchAPIs: func(name string, limit int) apim.Result[model.VersionSearchResult] {
			assert.Equal(t, constants.DefaultFanOutSearchLimit, limit)
			switch name {
			case "PetStore":
				return apim.Ok(http.StatusOK, model.VersionSearchResult{List: []model.ManagedAPI{
					{ID: "pet-1", Name: "PetStore", Version: "1.0.0"},
					{ID: "pet-2", Name: "PetStore", Version: "2.0.0"},
				}})
			case "Weather":
				return apim.Ok(http.StatusOK, model.VersionSearchResult{List: []model.ManagedAPI{
					{ID: "weather-2", Name: "Weather", Version: "2.0"},
				}})
			}
			return apim.Ok(http.StatusOK, model.VersionSearchResult{})
		},
		getRawAPI: func(apiID string) apim.Result[json.RawMessage] {
			return apim.Ok(http.StatusOK, json.RawMessage(rawAPIWithCors))
		},
		updateAPI: func(apiID string, payload interface{}) apim.Result[model.ManagedAPI] {
			mu.Lock()
			defer mu.Unlock()
			updated[apiID] = payload.(json.RawMessage)
			return apim.Ok(http.StatusOK, model.ManagedAPI{ID: apiID})
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 4), zap.NewNop())

	list, status := svc.UpdateCors(context.Background(), "app-1", CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})

	assert.Equal(t, http.StatusOK, status)
	assert.Zero(t, list.FailedItems)
	require.Len(t, updated, 2)
	assert.Contains(t, updated, "pet-1")
	assert.Contains(t, updated, "weather-2")
	origins, _ := corsLists(t, updated["pet-1"])
	assert.Equal(t, []string{"https://a.example.com"}, origins)
}

func TestCorsFanOutReportsPerItemFailures(t *testing.T) {
	gw := &fakeGateway{
		listSubscriptions: func(appID string) apim.Result[model.SubscriptionList] {
			return apim.Ok(http.StatusOK, model.SubscriptionList{List: []model.Subscription{
				{SubscriptionID: "s1", APIIdentifier: "nodash"},
				{SubscriptionID: "s2", APIIdentifier: "Search-1.0"},
				{SubscriptionID: "s3", APIIdentifier: "Update-1.0"},
			}})
		},
		searchAPIs: func(name string, limit int) apim.Result[model.VersionSearchResult] {
			if name == "Search" {
				return downstreamFailure[model.VersionSearchResult](http.StatusInternalServerError, constants.MsgClientSearchFailed)
			}
			return apim.Ok(http.StatusOK, model.VersionSearchResult{List: []model.ManagedAPI{{ID: "u1", Name: name, Version: "1.0"}}})
		},
		getRawAPI: func(apiID string) apim.Result[json.RawMessage] {
			return apim.Ok(http.StatusOK, json.RawMessage(rawAPIWithCors))
		},
		updateAPI: func(string, interface{}) apim.Result[model.ManagedAPI] {
			return downstreamFailure[model.ManagedAPI](http.StatusBadRequest, constants.MsgClientUpdateFailed)
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 1), zap.NewNop())

	list, status := svc.UpdateCors(context.Background(), "app-1", CorsMutation{Action: RemoveHeader, Value: "authorization"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, list.FailedItems)
	assert.Equal(t, constants.MsgGetAPIFailed, list.List[0].Message())
	assert.Equal(t, constants.MsgGetAPIFailed, list.List[1].Message())
	assert.Equal(t, constants.MsgAPINotUpdated, list.List[2].Message())
}

func TestCorsFanOutListingFailureIsForwarded(t *testing.T) {
	gw := &fakeGateway{
		listSubscriptions: func(string) apim.Result[model.SubscriptionList] {
			return downstreamFailure[model.SubscriptionList](http.StatusServiceUnavailable, constants.MsgClientListSubsFailed)
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 4), zap.NewNop())

	list, status := svc.UpdateCors(context.Background(), "app-1", CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.True(t, list.CallError)
	assert.Equal(t, constants.MsgClientListSubsFailed, list.Message())
	assert.Equal(t, []string{"list_subs"}, gw.Calls())
}

func TestCorsFanOutRequiresValue(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewSubscriptionService(gw, fanOutConfig(constants.FanOutBestEffort, 4), zap.NewNop())

	_, status := svc.UpdateCors(context.Background(), "app-1", CorsMutation{Action: AddHeader, Value: "  "})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, gw.Calls())
}

func TestUnsubscribe(t *testing.T) {
	gw := &fakeGateway{
		unsubscribe: func(id string) apim.Result[struct{}] {
			return downstreamFailure[struct{}](http.StatusNotFound, constants.MsgClientUnsubscribeFailed)
		},
	}
	svc := NewSubscriptionService(gw, fanOutConfig("", 0), zap.NewNop())

	sub, status := svc.Unsubscribe(context.Background(), "s1")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "s1", sub.SubscriptionID)
	assert.Equal(t, constants.MsgClientUnsubscribeFailed, sub.Message())
}

func TestNewSubscriptionServiceDefaults(t *testing.T) {
	svc := NewSubscriptionService(&fakeGateway{}, config.FanOutConfig{Mode: "bogus"}, zap.NewNop())

	assert.Equal(t, constants.FanOutBestEffort, svc.mode)
	assert.Equal(t, 1, svc.maxConcurrency)
	assert.Equal(t, constants.DefaultFanOutSearchLimit, svc.searchLimit)
}
