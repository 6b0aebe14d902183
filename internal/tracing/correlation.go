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

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Correlation is the per-request correlation state. It lives for exactly one
// inbound request and travels through the call chain inside context.Context.
type Correlation struct {
	CallID string
	User   string
	Span   trace.Span
}

type correlationKey struct{}

// WithCorrelation returns a copy of ctx carrying c.
func WithCorrelation(ctx context.Context, c *Correlation) context.Context {
	return context.WithValue(ctx, correlationKey{}, c)
}

// FromContext returns the correlation attached to ctx, or nil.
func FromContext(ctx context.Context) *Correlation {
	c, _ := ctx.Value(correlationKey{}).(*Correlation)
	return c
}

// CallID returns the call id of the request carried by ctx, or "".
func CallID(ctx context.Context) string {
	if c := FromContext(ctx); c != nil {
		return c.CallID
	}
	return ""
}

// TagSpan sets a string attribute on the request span carried by ctx.
func TagSpan(ctx context.Context, key, value string) {
	c := FromContext(ctx)
	if c == nil || c.Span == nil {
		return
	}
	c.Span.SetAttributes(attribute.String(key, value))
}
