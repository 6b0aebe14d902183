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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

const basicAuth = "Basic YWRtaW46YWRtaW4="

func TestTokenRelaysCallerCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, basicAuth, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, constants.ClientCredentialsGrant, r.PostForm.Get("grant_type"))
		assert.Equal(t, constants.ScopeCreate, r.PostForm.Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	p := NewProvider(server.URL, server.Client(), zap.NewNop())
	ctx := WithCallerAuthorization(context.Background(), basicAuth)

	token, ok := p.Token(ctx, constants.ScopeCreate)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", token)
}

func TestTokenIsNeverCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"access_token":"tok"}`))
	}))
	defer server.Close()

	p := NewProvider(server.URL, server.Client(), zap.NewNop())
	ctx := WithCallerAuthorization(context.Background(), basicAuth)
	p.Token(ctx, constants.ScopeView)
	p.Token(ctx, constants.ScopeView)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenFailuresYieldNone(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non 200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"empty token", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewProvider(server.URL, server.Client(), zap.NewNop())
			token, ok := p.Token(WithCallerAuthorization(context.Background(), basicAuth), constants.ScopeView)
			assert.False(t, ok)
			assert.Empty(t, token)
		})
	}
}

func TestTokenEndpointUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := NewProvider(url, &http.Client{Timeout: time.Second}, zap.NewNop())
	_, ok := p.Token(WithCallerAuthorization(context.Background(), basicAuth), constants.ScopePublish)
	assert.False(t, ok)
}

func TestTokenWithoutCallerCredentials(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	p := NewProvider(server.URL, server.Client(), zap.NewNop())
	_, ok := p.Token(context.Background(), constants.ScopeSubscribe)
	assert.False(t, ok)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
