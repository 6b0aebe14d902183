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
	"github.com/wso2/api-platform/apim-publisher/config"
)

// Config contains the API Manager REST endpoints used to create clients
type Config struct {
	PublisherEndpoint string // publisher apis collection, e.g. https://apim:9443/api/am/publisher/v0.14/apis
	StoreEndpoint     string // store root, e.g. https://apim:9443/api/am/store/v0.14
}

// ConfigFrom extracts the client settings from the service configuration.
func ConfigFrom(cfg config.APIMConfig) Config {
	return Config{
		PublisherEndpoint: cfg.PublisherEndpoint,
		StoreEndpoint:     cfg.StoreEndpoint,
	}
}

const (
	copyAPIPath         = "copy-api"
	changeLifecyclePath = "change-lifecycle"
	swaggerPath         = "swagger"
	applicationsPath    = "applications"
	generateKeysPath    = "generate-keys"
	subscriptionsPath   = "subscriptions"
)
