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
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

const instrumentationName = "github.com/wso2/api-platform/apim-publisher"

// Tracer opens and closes one server span per inbound request.
type Tracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTracer creates a Tracer backed by tp. A nil propagator falls back to Propagator().
func NewTracer(tp trace.TracerProvider, propagator propagation.TextMapPropagator) *Tracer {
	if propagator == nil {
		propagator = Propagator()
	}
	return &Tracer{
		tracer:     tp.Tracer(instrumentationName),
		propagator: propagator,
	}
}

// OpenSpan extracts any propagated trace context from header, starts the
// request span and tags it with a fresh call id and the caller identity.
// The returned context carries the Correlation.
func (t *Tracer) OpenSpan(ctx context.Context, name string, header http.Header) (context.Context, *Correlation) {
	ctx = t.propagator.Extract(ctx, propagation.HeaderCarrier(header))
	ctx, span := t.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))

	c := &Correlation{
		CallID: uuid.New().String(),
		Span:   span,
	}
	span.SetAttributes(attribute.String(constants.TagCallID, c.CallID))

	authorization := header.Get("Authorization")
	if user, ok := BasicUser(authorization); ok {
		c.User = user
		span.SetAttributes(attribute.String(constants.TagBasicUser, user))
	} else if sub, ok := BearerSubject(authorization); ok {
		c.User = sub
		span.SetAttributes(attribute.String(constants.TagBearerSubject, sub))
	}

	return WithCorrelation(ctx, c), c
}

// CloseSpan tags the final status code and ends the span.
func (t *Tracer) CloseSpan(c *Correlation, statusCode int) {
	if c == nil || c.Span == nil {
		return
	}
	c.Span.SetAttributes(attribute.Int(constants.TagStatusCode, statusCode))
	if statusCode >= http.StatusInternalServerError {
		c.Span.SetStatus(codes.Error, http.StatusText(statusCode))
	}
	c.Span.End()
}

// TagError records err on the request span under the exception tag.
func TagError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	c := FromContext(ctx)
	if c == nil || c.Span == nil {
		return
	}
	c.Span.SetAttributes(attribute.String(constants.TagException, err.Error()))
	c.Span.RecordError(err)
}

// BasicUser decodes the username of a Basic authorization header.
func BasicUser(authorization string) (string, bool) {
	const prefix = "Basic "
	if len(authorization) < len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(authorization[len(prefix):]))
	if err != nil {
		return "", false
	}
	user, _, ok := strings.Cut(string(raw), ":")
	if !ok || user == "" {
		return "", false
	}
	return user, true
}

// BearerSubject returns the unverified "sub" claim of a Bearer JWT.
// Only used for tagging; the token is never trusted for authorization here.
func BearerSubject(authorization string) (string, bool) {
	const prefix = "Bearer "
	if len(authorization) < len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return "", false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(authorization[len(prefix):]), claims); err != nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
