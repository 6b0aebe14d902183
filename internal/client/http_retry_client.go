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

package client

import (
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/logger"
)

// RetryableHTTPClient wraps an HTTP client with retry logic for idempotent requests
type RetryableHTTPClient struct {
	client     *http.Client
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

// NewRetryableHTTPClient creates a retrying client around hc.
//
// Retry behavior:
//   - Only GET and HEAD requests are retried
//   - Retries on network errors or 5xx server errors, never on 4xx
//   - Linear backoff: attempt n waits n*backoff
//   - Stops early when the request context is done
func NewRetryableHTTPClient(hc *http.Client, maxRetries int, backoff time.Duration, log *zap.Logger) *RetryableHTTPClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryableHTTPClient{
		client:     hc,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
	}
}

// NewHTTPClient builds the pooled outbound client with explicit connect and
// request timeouts. rootCAs may be nil to use the system pool.
func NewHTTPClient(connectTimeout, requestTimeout time.Duration, rootCAs *x509.CertPool, insecureSkipVerify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	transport.ResponseHeaderTimeout = requestTimeout
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            rootCAs,
		InsecureSkipVerify: insecureSkipVerify, // #nosec G402 -- opt-in for lab API Manager installs
	}
	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}
}

// HTTPClient exposes the wrapped client for callers that must not retry.
func (r *RetryableHTTPClient) HTTPClient() *http.Client {
	return r.client
}

// Do executes an HTTP request, retrying idempotent requests on transient failure.
func (r *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	attempts := 1
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		attempts += r.maxRetries
	}
	log := logger.FromContext(req.Context(), r.log)

	var resp *http.Response
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err = r.client.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if attempt == attempts {
			break
		}

		wait := time.Duration(attempt) * r.backoff
		if err != nil {
			log.Warn("Downstream request failed, retrying",
				zap.String("method", req.Method),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("backoff", wait),
				zap.Error(err))
		} else {
			log.Warn("Downstream request returned server error, retrying",
				zap.String("method", req.Method),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Int("status", resp.StatusCode),
				zap.Duration("backoff", wait))
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}

	if err != nil {
		log.Error("All downstream attempts failed", zap.Int("attempts", attempts), zap.Error(err))
		return nil, err
	}
	return resp, nil
}
