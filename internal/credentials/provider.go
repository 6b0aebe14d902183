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

package credentials

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
)

// TokenSource yields a bearer token for a scope, or false when none could be obtained.
type TokenSource interface {
	Token(ctx context.Context, scope string) (string, bool)
}

type callerAuthKey struct{}

// WithCallerAuthorization stores the inbound Authorization header on ctx.
func WithCallerAuthorization(ctx context.Context, authorization string) context.Context {
	return context.WithValue(ctx, callerAuthKey{}, authorization)
}

// CallerAuthorization returns the inbound Authorization header carried by ctx.
func CallerAuthorization(ctx context.Context) string {
	v, _ := ctx.Value(callerAuthKey{}).(string)
	return v
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Provider exchanges the caller's credentials for a scoped token using the
// client-credentials grant. Tokens are never cached.
type Provider struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewProvider creates a Provider for the given token endpoint.
func NewProvider(endpoint string, httpClient *http.Client, log *zap.Logger) *Provider {
	return &Provider{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        log,
	}
}

// Token requests a fresh token for scope. Every failure is logged and
// reported as false; nothing is returned as an error and nothing is retried.
func (p *Provider) Token(ctx context.Context, scope string) (string, bool) {
	log := logger.FromContext(ctx, p.log).With(zap.String("scope", scope))

	token, ok := p.fetch(ctx, scope, log)
	metrics.TokenRequestsTotal.WithLabelValues(scope, metrics.Outcome(ok)).Inc()
	return token, ok
}

func (p *Provider) fetch(ctx context.Context, scope string, log *zap.Logger) (string, bool) {
	authorization := CallerAuthorization(ctx)
	if authorization == "" {
		log.Warn("No caller credentials to exchange for a token")
		return "", false
	}

	form := url.Values{}
	form.Set("grant_type", constants.ClientCredentialsGrant)
	form.Set("scope", scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Warn("Failed to build token request", zap.Error(err))
		return "", false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authorization)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Warn("Token endpoint unreachable", zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warn("Token endpoint rejected the request", zap.Int("status", resp.StatusCode))
		return "", false
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn("Malformed token response", zap.Error(err))
		return "", false
	}
	if body.AccessToken == "" {
		log.Warn("Token response carried no access token")
		return "", false
	}
	return body.AccessToken, true
}
