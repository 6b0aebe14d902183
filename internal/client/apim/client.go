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
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/client"
	"github.com/wso2/api-platform/apim-publisher/internal/credentials"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

// Client talks to the API Manager publisher and store REST APIs. It is
// stateless; every call resolves a fresh scoped token through the TokenSource.
type Client struct {
	cfg        Config
	httpClient *client.RetryableHTTPClient
	tokens     credentials.TokenSource
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	log        *zap.Logger
}

// Gateway is the full set of downstream operations used by the orchestration layer.
type Gateway interface {
	PublisherService
	StoreService
}

var _ Gateway = (*Client)(nil)

// NewClient creates a new API Manager client.
func NewClient(cfg Config, hc *client.RetryableHTTPClient, tokens credentials.TokenSource, tp trace.TracerProvider, log *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: hc,
		tokens:     tokens,
		tracer:     tp.Tracer("github.com/wso2/api-platform/apim-publisher/internal/client/apim"),
		propagator: tracing.Propagator(),
		log:        log,
	}
}

// do injects the bearer token and trace headers, then executes the request.
func (c *Client) do(req *http.Request, token string) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+token)
	c.propagator.Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	return c.httpClient.Do(req)
}
