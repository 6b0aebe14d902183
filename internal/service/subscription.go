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
	"golang.org/x/sync/errgroup"

	"github.com/wso2/api-platform/apim-publisher/config"
	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
	"github.com/wso2/api-platform/apim-publisher/internal/utils"
)

// SubscriptionService runs the per-application workflows, including the
// fan-outs over every API an application is subscribed to.
//
// Fan-out items run with at most maxConcurrency downstream calls in flight and
// keep the input order. Item failures are reported in-band; in strict mode any
// failed item also turns the overall status into 502.
type SubscriptionService struct {
	gateway        apim.Gateway
	mode           string
	maxConcurrency int
	searchLimit    int
	log            *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(gateway apim.Gateway, cfg config.FanOutConfig, log *zap.Logger) *SubscriptionService {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	searchLimit := cfg.SearchLimit
	if searchLimit < 1 {
		searchLimit = constants.DefaultFanOutSearchLimit
	}
	mode := cfg.Mode
	if mode != constants.FanOutStrict {
		mode = constants.FanOutBestEffort
	}
	return &SubscriptionService{
		gateway:        gateway,
		mode:           mode,
		maxConcurrency: maxConcurrency,
		searchLimit:    searchLimit,
		log:            log,
	}
}

// List returns the subscriptions of an application.
func (s *SubscriptionService) List(ctx context.Context, applicationID string) (*model.SubscriptionList, int) {
	list, status := fromResult(ctx, s.gateway.ListSubscriptions(ctx, applicationID))
	if !list.Failed() {
		list.CountFailures()
	}
	return list, status
}

// Unsubscribe removes a single subscription.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriptionID string) (*model.Subscription, int) {
	sub := &model.Subscription{SubscriptionID: subscriptionID}
	r := s.gateway.Unsubscribe(ctx, subscriptionID)
	if !r.OK() {
		tracing.TagError(ctx, r.Err)
		sub.Fail(r.Err.Message)
	}
	return sub, r.Status
}

// Subscribe subscribes the application to every API in ids, one call per API.
func (s *SubscriptionService) Subscribe(ctx context.Context, applicationID string, ids *dto.APIIDList) (*model.SubscriptionList, int) {
	var apiIDs []string
	if ids != nil {
		apiIDs = ids.IDList
	}

	items := make([]model.Subscription, len(apiIDs))
	s.fanOut(ctx, len(apiIDs), func(ctx context.Context, i int) {
		r := s.gateway.Subscribe(ctx, apiIDs[i], applicationID)
		if r.OK() {
			items[i] = r.Value
			return
		}
		tracing.TagError(ctx, r.Err)
		items[i] = model.Subscription{APIIdentifier: apiIDs[i], ApplicationID: applicationID}
		items[i].Fail(r.Err.Message)
	}, func(i int) {
		items[i] = model.Subscription{APIIdentifier: apiIDs[i], ApplicationID: applicationID}
		items[i].Fail(constants.MsgUnknownError)
	})

	return s.finish(ctx, "subscribe", &model.SubscriptionList{List: items})
}

// UpdateCors applies m to every API version the application is subscribed to.
// A failed subscription listing is returned as is.
func (s *SubscriptionService) UpdateCors(ctx context.Context, applicationID string, m CorsMutation) (*model.SubscriptionList, int) {
	if strings.TrimSpace(m.Value) == "" {
		return fail[model.SubscriptionList](http.StatusBadRequest, constants.MsgMissingParametersDot)
	}

	listing := s.gateway.ListSubscriptions(ctx, applicationID)
	if !listing.OK() {
		tracing.TagError(ctx, listing.Err)
		return fail[model.SubscriptionList](listing.Status, listing.Err.Message)
	}

	list := listing.Value
	s.fanOut(ctx, len(list.List), func(ctx context.Context, i int) {
		s.updateSubscribedAPI(ctx, &list.List[i], m)
	}, func(i int) {
		list.List[i].Fail(constants.MsgUnknownError)
	})

	return s.finish(ctx, "cors_"+m.Action.String(), &list)
}

// updateSubscribedAPI resolves the subscription to the matching API versions
// and edits each of them. Failures are recorded on sub.
func (s *SubscriptionService) updateSubscribedAPI(ctx context.Context, sub *model.Subscription, m CorsMutation) {
	log := logger.FromContext(ctx, s.log).With(zap.String("api_identifier", sub.APIIdentifier))

	name, version, err := utils.SplitIdentifier(sub.APIIdentifier)
	if err != nil {
		log.Warn("Subscription carries an undecodable API identifier", zap.Error(err))
		tracing.TagError(ctx, err)
		sub.Fail(constants.MsgGetAPIFailed)
		return
	}

	search := s.gateway.SearchAPIs(ctx, name, s.searchLimit)
	if !search.OK() {
		tracing.TagError(ctx, search.Err)
		sub.Fail(constants.MsgGetAPIFailed)
		return
	}

	for _, api := range search.Value.List {
		if api.Version != version {
			continue
		}
		raw := s.gateway.GetRawAPI(ctx, api.ID)
		if !raw.OK() {
			tracing.TagError(ctx, raw.Err)
			sub.Fail(constants.MsgGetAPIFailed)
			continue
		}
		updated, err := applyCorsMutation(raw.Value, m)
		if err != nil {
			log.Warn("Downstream API definition could not be edited", zap.String("api_id", api.ID), zap.Error(err))
			sub.Fail(constants.MsgAPINotUpdated)
			continue
		}
		if r := s.gateway.UpdateAPI(ctx, api.ID, json.RawMessage(updated)); !r.OK() {
			tracing.TagError(ctx, r.Err)
			sub.Fail(constants.MsgAPINotUpdated)
			continue
		}
		log.Debug("CORS change applied", zap.String("api_id", api.ID), zap.Stringer("action", m.Action))
	}
}

// fanOut calls fn for every index in [0, n) with bounded concurrency. An item
// whose fn panics is passed to recovered and the remaining items still run.
func (s *SubscriptionService) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int), recovered func(i int)) {
	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			defer func() {
				if err := recover(); err != nil {
					logger.FromContext(ctx, s.log).Error("Panic recovered in fan-out item",
						zap.Any("error", err), zap.Int("item", i))
					metrics.PanicRecoveriesTotal.Inc()
					tracing.TagError(ctx, fmt.Errorf("panic: %v", err))
					recovered(i)
				}
			}()
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// finish fills the counters of a fan-out result and picks the overall status.
func (s *SubscriptionService) finish(ctx context.Context, workflow string, list *model.SubscriptionList) (*model.SubscriptionList, int) {
	list.Count = len(list.List)
	failed := list.CountFailures()

	metrics.FanOutItemsTotal.WithLabelValues(workflow, metrics.OutcomeSuccess).Add(float64(list.Count - failed))
	metrics.FanOutItemsTotal.WithLabelValues(workflow, metrics.OutcomeFailure).Add(float64(failed))

	if failed > 0 {
		logger.FromContext(ctx, s.log).Warn("Fan-out finished with failed items",
			zap.String("workflow", workflow), zap.Int("failed", failed), zap.Int("total", list.Count))
		if s.mode == constants.FanOutStrict {
			list.Fail(fmt.Sprintf(constants.MsgFanOutPartialFailure, failed, list.Count))
			return list, http.StatusBadGateway
		}
	}
	return list, http.StatusOK
}
