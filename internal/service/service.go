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

// Package service holds the orchestration workflows. Every method returns the
// entity to render (its envelope already filled on failure) and the HTTP status.
package service

import (
	"context"

	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

// enveloped constrains P to a pointer to T carrying the outcome envelope.
type enveloped[T any] interface {
	*T
	model.Enveloped
}

// fail returns a fresh entity whose envelope carries message.
func fail[T any, P enveloped[T]](status int, message string) (P, int) {
	p := P(new(T))
	p.Fail(message)
	return p, status
}

// fromResult forwards a downstream result verbatim: the value and status on
// success, otherwise an empty entity with the client's message and status.
func fromResult[T any, P enveloped[T]](ctx context.Context, r apim.Result[T]) (P, int) {
	if !r.OK() {
		tracing.TagError(ctx, r.Err)
		return fail[T, P](r.Err.Status, r.Err.Message)
	}
	v := r.Value
	return P(&v), r.Status
}

// DefinitionFetcher downloads a caller-hosted API definition.
type DefinitionFetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

var _ DefinitionFetcher = (*SwaggerFetcher)(nil)
