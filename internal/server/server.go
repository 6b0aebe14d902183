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
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/config"
	"github.com/wso2/api-platform/apim-publisher/internal/middleware"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

// corsMaxAge is the preflight cache lifetime advertised to browsers
const corsMaxAge = 1728000 * time.Second

// RouteRegistrar is implemented by every handler group
type RouteRegistrar interface {
	RegisterRoutes(r *gin.Engine)
}

// Server is the publisher HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	log        *zap.Logger
}

// NewServer assembles the router: CORS, then correlation, logging, metrics,
// no-store and panic recovery, then the handler routes.
func NewServer(cfg config.ServerConfig, tracer *tracing.Tracer, log *zap.Logger, handlers ...RouteRegistrar) *Server {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(string) bool { return true },
		AllowMethods:    []string{"POST", "OPTIONS", "GET"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          corsMaxAge,
	}))
	router.Use(
		middleware.CorrelationMiddleware(tracer, log),
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware(),
		middleware.NoStoreMiddleware(),
		middleware.ErrorHandlingMiddleware(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

// Handler returns the assembled router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.log.Info("Starting publisher HTTP server", zap.String("address", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("Publisher server failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Stopping publisher HTTP server")
	return s.httpServer.Shutdown(ctx)
}
