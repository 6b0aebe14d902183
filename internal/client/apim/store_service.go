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
	"net/http"
	"strconv"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

// StoreService covers the API Manager store operations.
type StoreService interface {
	ListApplications(ctx context.Context) Result[model.ApplicationList]
	GetApplication(ctx context.Context, applicationID string) Result[model.Application]
	CreateApplication(ctx context.Context, name string) Result[model.Application]
	DeleteApplication(ctx context.Context, applicationID string) Result[struct{}]
	GenerateKeys(ctx context.Context, applicationID string, validitySeconds int) Result[model.ApplicationKey]
	ListSubscriptions(ctx context.Context, applicationID string) Result[model.SubscriptionList]
	Subscribe(ctx context.Context, apiID, applicationID string) Result[model.Subscription]
	Unsubscribe(ctx context.Context, subscriptionID string) Result[struct{}]
}

type createApplicationRequest struct {
	ThrottlingTier string `json:"throttlingTier"`
	Name           string `json:"name"`
}

type generateKeysRequest struct {
	ValidityTime       string   `json:"validityTime"`
	KeyType            string   `json:"keyType"`
	AccessAllowDomains []string `json:"accessAllowDomains"`
}

type subscribeRequest struct {
	Tier          string `json:"tier"`
	APIIdentifier string `json:"apiIdentifier"`
	ApplicationID string `json:"applicationId"`
}

// ListApplications lists the caller's applications
func (c *Client) ListApplications(ctx context.Context) Result[model.ApplicationList] {
	return invoke[model.ApplicationList](ctx, c, operation{
		name:       "list_applications",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientListAppsFailed,
		failStatus: http.StatusServiceUnavailable,
	}, NewRequest(http.MethodGet, buildURL(c.cfg.StoreEndpoint, applicationsPath)))
}

// GetApplication retrieves one application
func (c *Client) GetApplication(ctx context.Context, applicationID string) Result[model.Application] {
	return invoke[model.Application](ctx, c, operation{
		name:       "get_application",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientGetAppFailed,
		failStatus: http.StatusServiceUnavailable,
	}, NewRequest(http.MethodGet, buildURL(c.cfg.StoreEndpoint, applicationsPath, applicationID)))
}

// CreateApplication creates an application on the Unlimited tier
func (c *Client) CreateApplication(ctx context.Context, name string) Result[model.Application] {
	rb := NewRequest(http.MethodPost, buildURL(c.cfg.StoreEndpoint, applicationsPath)).
		WithJSONBody(createApplicationRequest{
			ThrottlingTier: constants.DefaultTier,
			Name:           name,
		})
	return invoke[model.Application](ctx, c, operation{
		name:       "create_application",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientCreateAppFailed,
		failStatus: http.StatusConflict,
	}, rb)
}

// DeleteApplication removes an application
func (c *Client) DeleteApplication(ctx context.Context, applicationID string) Result[struct{}] {
	return invokeStatus(ctx, c, operation{
		name:       "delete_application",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientRemoveAppFailed,
		failStatus: http.StatusBadRequest,
	}, NewRequest(http.MethodDelete, buildURL(c.cfg.StoreEndpoint, applicationsPath, applicationID)))
}

// GenerateKeys issues production keys for an application
func (c *Client) GenerateKeys(ctx context.Context, applicationID string, validitySeconds int) Result[model.ApplicationKey] {
	rb := NewRequest(http.MethodPost, buildURL(c.cfg.StoreEndpoint, applicationsPath, generateKeysPath)).
		WithQuery("applicationId", applicationID).
		WithJSONBody(generateKeysRequest{
			ValidityTime:       strconv.Itoa(validitySeconds),
			KeyType:            constants.DefaultKeyType,
			AccessAllowDomains: []string{"ALL"},
		})
	return invoke[model.ApplicationKey](ctx, c, operation{
		name:       "generate_keys",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientGenerateKeyFailed,
		failStatus: http.StatusBadRequest,
	}, rb)
}

// ListSubscriptions lists the subscriptions of an application
func (c *Client) ListSubscriptions(ctx context.Context, applicationID string) Result[model.SubscriptionList] {
	rb := NewRequest(http.MethodGet, buildURL(c.cfg.StoreEndpoint, subscriptionsPath)).
		WithQuery("applicationId", applicationID)
	return invoke[model.SubscriptionList](ctx, c, operation{
		name:       "list_subscriptions",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientListSubsFailed,
		failStatus: http.StatusServiceUnavailable,
	}, rb)
}

// Subscribe subscribes an application to an API on the Unlimited tier
func (c *Client) Subscribe(ctx context.Context, apiID, applicationID string) Result[model.Subscription] {
	rb := NewRequest(http.MethodPost, buildURL(c.cfg.StoreEndpoint, subscriptionsPath)).
		WithJSONBody(subscribeRequest{
			Tier:          constants.DefaultTier,
			APIIdentifier: apiID,
			ApplicationID: applicationID,
		})
	return invoke[model.Subscription](ctx, c, operation{
		name:       "subscribe",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientSubscribeFailed,
		failStatus: http.StatusBadRequest,
	}, rb)
}

// Unsubscribe removes a subscription
func (c *Client) Unsubscribe(ctx context.Context, subscriptionID string) Result[struct{}] {
	return invokeStatus(ctx, c, operation{
		name:       "unsubscribe",
		scope:      constants.ScopeSubscribe,
		message:    constants.MsgClientUnsubscribeFailed,
		failStatus: http.StatusBadRequest,
	}, NewRequest(http.MethodDelete, buildURL(c.cfg.StoreEndpoint, subscriptionsPath, subscriptionID)))
}
