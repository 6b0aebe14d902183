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

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/config"
	"github.com/wso2/api-platform/apim-publisher/internal/middleware"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func newTestServer(port int) *Server {
	gin.SetMode(gin.TestMode)
	tracer := tracing.NewTracer(noop.NewTracerProvider(), nil)
	return NewServer(config.ServerConfig{
		Port:         port,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, tracer, zap.NewNop(), pingRoutes{})
}

func TestHealthAndRegisteredRoutes(t *testing.T) {
	s := newTestServer(9090)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.CorrelationIDHeader))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestPreflightEchoesOrigin(t *testing.T) {
	s := newTestServer(9090)
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "1728000", w.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestStartAndStop(t *testing.T) {
	s := newTestServer(0)
	require.NoError(t, s.Start())
	require.NotNil(t, s.Addr())

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", s.Addr().(*net.TCPAddr).Port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
