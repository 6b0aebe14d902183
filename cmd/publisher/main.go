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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/config"
	"github.com/wso2/api-platform/apim-publisher/internal/certstore"
	"github.com/wso2/api-platform/apim-publisher/internal/client"
	"github.com/wso2/api-platform/apim-publisher/internal/client/apim"
	"github.com/wso2/api-platform/apim-publisher/internal/credentials"
	"github.com/wso2/api-platform/apim-publisher/internal/handler"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
	"github.com/wso2/api-platform/apim-publisher/internal/server"
	"github.com/wso2/api-platform/apim-publisher/internal/service"
	"github.com/wso2/api-platform/apim-publisher/internal/tracing"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "apim-publisher",
	Short:        "apim-publisher exposes simplified publish operations over WSO2 API Manager",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(configPath)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the publisher HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(configPath)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of apim-publisher",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("apim-publisher version %s (built at %s)\n", Version, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the TOML configuration file")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "apim-publisher: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger with config
	log, err := logger.NewLogger(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting apim-publisher",
		zap.String("version", Version),
		zap.String("publisher_endpoint", cfg.APIM.PublisherEndpoint),
		zap.String("store_endpoint", cfg.APIM.StoreEndpoint),
		zap.String("fanout_mode", cfg.FanOut.Mode),
		zap.Bool("tracing_enabled", cfg.Tracing.Enabled))

	ctx := context.Background()

	tp, shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	tracer := tracing.NewTracer(tp, nil)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, log)
		if err := metricsServer.Start(); err != nil {
			return err
		}
	}

	// Trust store backs the downstream TLS roots
	store, err := certstore.NewCertStore(log, cfg.TrustStore)
	if err != nil {
		return fmt.Errorf("failed to open trust store: %w", err)
	}
	rootCAs, err := store.CertPool()
	if err != nil {
		return fmt.Errorf("failed to build certificate pool: %w", err)
	}
	if cfg.APIM.InsecureSkipVerify {
		log.Warn("TLS verification of API Manager endpoints is disabled")
	}

	httpClient := client.NewHTTPClient(cfg.APIM.ConnectTimeout, cfg.APIM.RequestTimeout, rootCAs, cfg.APIM.InsecureSkipVerify)
	retryClient := client.NewRetryableHTTPClient(httpClient, cfg.APIM.MaxRetries, cfg.APIM.RetryBackoff, log)

	tokens := credentials.NewProvider(cfg.APIM.TokenEndpoint, httpClient, log)
	gateway := apim.NewClient(apim.ConfigFrom(cfg.APIM), retryClient, tokens, tp, log)
	fetcher := service.NewSwaggerFetcher(httpClient, cfg.Swagger.FetchTimeout, cfg.Swagger.Validate, log)

	publishService := service.NewPublishService(gateway, fetcher, log)
	restService := service.NewAPIService(gateway, service.KindREST, log)
	soapService := service.NewAPIService(gateway, service.KindSOAP, log)
	applicationService := service.NewApplicationService(gateway, log)
	subscriptionService := service.NewSubscriptionService(gateway, cfg.FanOut, log)

	srv := server.NewServer(cfg.Server, tracer, log,
		handler.NewAPIHandler(restService, publishService, service.KindREST),
		handler.NewAPIHandler(soapService, publishService, service.KindSOAP),
		handler.NewApplicationHandler(applicationService),
		handler.NewSubscriptionHandler(subscriptionService),
		handler.NewCertificateHandler(store, log),
	)
	if err := srv.Start(); err != nil {
		return err
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down apim-publisher")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Publisher server forced to shutdown", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Error("Metrics server forced to shutdown", zap.Error(err))
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("apim-publisher stopped")
	return nil
}
