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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
)

// operation describes one downstream call: the scope it needs, the
// user-visible failure message and the status used when the call fails
// without a downstream answer (transport or decode failure).
type operation struct {
	name       string
	scope      string
	message    string
	failStatus int
	expected   []int
}

// buildURL joins base URL with path segments ensuring single slashes. Dot
// segments are escaped so they address a resource instead of its parent.
func buildURL(base string, parts ...string) string {
	base = strings.TrimRight(base, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.Trim(p, "/")
		if trimmed == "" {
			continue
		}
		for _, sub := range strings.Split(trimmed, "/") {
			if sub != "" {
				segments = append(segments, pathSegment(sub))
			}
		}
	}
	if len(segments) == 0 {
		return base
	}
	return base + "/" + strings.Join(segments, "/")
}

func pathSegment(sub string) string {
	switch sub {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(sub)
}

// execute resolves the token, runs the request and decodes the body into out
// when out is non-nil. It never returns a raw error: every failure is an *Error.
func (c *Client) execute(ctx context.Context, op operation, rb *RequestBuilder, out interface{}) (int, *Error) {
	log := logger.FromContext(ctx, c.log).With(zap.String("operation", op.name))

	token, ok := c.tokens.Token(ctx, op.scope)
	if !ok {
		log.Warn("No token available, downstream call skipped")
		metrics.DownstreamCallsTotal.WithLabelValues(op.name, metrics.OutcomeFailure).Inc()
		return http.StatusUnauthorized, AuthError()
	}

	ctx, span := c.tracer.Start(ctx, "apim."+op.name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	status, apiErr := c.roundTrip(ctx, op, rb, token, out, log)
	metrics.DownstreamCallDurationSeconds.WithLabelValues(op.name).Observe(time.Since(start).Seconds())
	metrics.DownstreamCallsTotal.WithLabelValues(op.name, metrics.Outcome(apiErr == nil)).Inc()

	span.SetAttributes(attribute.Int("http.status_code", status))
	if apiErr != nil {
		span.SetStatus(codes.Error, apiErr.Message)
		return status, apiErr
	}
	return status, nil
}

func (c *Client) roundTrip(ctx context.Context, op operation, rb *RequestBuilder, token string, out interface{}, log *zap.Logger) (int, *Error) {
	req, err := rb.Build(ctx)
	if err != nil {
		log.Error("Failed to build downstream request", zap.Error(err))
		return op.failStatus, NewError(KindDownstream, op.failStatus, op.message, err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		log.Error("Downstream request failed", zap.String("url", req.URL.Redacted()), zap.Error(err))
		return op.failStatus, NewError(KindDownstream, op.failStatus, op.message, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Reading downstream response body failed", zap.Error(err))
		return op.failStatus, NewError(KindDownstream, op.failStatus, op.message, err)
	}

	log.Debug("Downstream response", zap.Int("status", resp.StatusCode))

	if !expectedStatus(resp.StatusCode, op.expected) {
		log.Warn("Unexpected downstream status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(b, 512)))
		kind := KindDownstream
		if resp.StatusCode == http.StatusConflict {
			kind = KindConflict
		}
		return resp.StatusCode, NewError(kind, resp.StatusCode, op.message,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		log.Error("Decoding downstream response failed", zap.Error(err))
		return op.failStatus, NewError(KindDownstream, op.failStatus, op.message, err)
	}
	return resp.StatusCode, nil
}

func expectedStatus(status int, expected []int) bool {
	if len(expected) == 0 {
		return status >= 200 && status < 300
	}
	for _, code := range expected {
		if status == code {
			return true
		}
	}
	return false
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// invoke runs op and decodes the body into a T.
func invoke[T any](ctx context.Context, c *Client, op operation, rb *RequestBuilder) Result[T] {
	var out T
	status, err := c.execute(ctx, op, rb, &out)
	if err != nil {
		return Fail[T](err)
	}
	return Ok(status, out)
}

// invokeStatus runs op and discards the body.
func invokeStatus(ctx context.Context, c *Client, op operation, rb *RequestBuilder) Result[struct{}] {
	status, err := c.execute(ctx, op, rb, nil)
	if err != nil {
		return Fail[struct{}](err)
	}
	return Ok(status, struct{}{})
}
