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

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kelseyhightower/envconfig"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

// EnvPrefix is the prefix of environment variables overriding file values
const EnvPrefix = "APIGW_"

// Bootstrap holds the settings needed before the configuration file is read.
type Bootstrap struct {
	ConfigFile string `envconfig:"APIGW_CONFIG_FILE" default:""`
	LogLevel   string `envconfig:"LOG_LEVEL" default:""`
	LogFormat  string `envconfig:"LOG_FORMAT" default:""`
}

// Config holds all configuration for the publisher façade
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	APIM       APIMConfig       `koanf:"apim"`
	Swagger    SwaggerConfig    `koanf:"swagger"`
	FanOut     FanOutConfig     `koanf:"fanout"`
	Tracing    TracingConfig    `koanf:"tracing"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	TrustStore TrustStoreConfig `koanf:"truststore"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// APIMConfig points at the API Manager publisher, store and token endpoints
type APIMConfig struct {
	PublisherEndpoint  string        `koanf:"publisher_endpoint"`
	StoreEndpoint      string        `koanf:"store_endpoint"`
	TokenEndpoint      string        `koanf:"token_endpoint"`
	ConnectTimeout     time.Duration `koanf:"connect_timeout"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	MaxRetries         int           `koanf:"max_retries"`
	RetryBackoff       time.Duration `koanf:"retry_backoff"`
	InsecureSkipVerify bool          `koanf:"insecure_skip_verify"`
}

type SwaggerConfig struct {
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	Validate     bool          `koanf:"validate"`
}

// FanOutConfig controls the subscription and CORS bulk workflows
type FanOutConfig struct {
	Mode           string `koanf:"mode"`
	MaxConcurrency int    `koanf:"max_concurrency"`
	SearchLimit    int    `koanf:"search_limit"`
}

type TracingConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Exporter       string        `koanf:"exporter"`
	Endpoint       string        `koanf:"endpoint"`
	Insecure       bool          `koanf:"insecure"`
	ServiceName    string        `koanf:"service_name"`
	ServiceVersion string        `koanf:"service_version"`
	SamplingRate   float64       `koanf:"sampling_rate"`
	BatchTimeout   time.Duration `koanf:"batch_timeout"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

// TrustStoreConfig locates the PEM certificates trusted for downstream TLS
type TrustStoreConfig struct {
	Directory    string `koanf:"directory"`
	ReloadMarker string `koanf:"reload_marker"`
	SystemBundle string `koanf:"system_bundle"`
}

// LoadBootstrap reads the bootstrap environment variables.
func LoadBootstrap() (*Bootstrap, error) {
	var b Bootstrap
	if err := envconfig.Process("", &b); err != nil {
		return nil, fmt.Errorf("failed to read bootstrap environment: %w", err)
	}
	return &b, nil
}

// LoadConfig loads configuration from an optional TOML file and APIGW_ environment variables.
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", "%UNDERSCORE%")
		s = strings.ReplaceAll(s, "_", ".")
		return strings.ReplaceAll(s, "%UNDERSCORE%", "_")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load resolves the bootstrap settings and then the full configuration.
// A non-empty flagPath wins over APIGW_CONFIG_FILE.
func Load(flagPath string) (*Config, error) {
	b, err := LoadBootstrap()
	if err != nil {
		return nil, err
	}
	path := flagPath
	if path == "" {
		path = b.ConfigFile
	}
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("config file %s: %w", path, statErr)
		}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if b.LogLevel != "" {
		cfg.Logging.Level = b.LogLevel
	}
	if b.LogFormat != "" {
		cfg.Logging.Format = b.LogFormat
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9090,
			ShutdownTimeout: 15 * time.Second,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		APIM: APIMConfig{
			ConnectTimeout: 5 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxRetries:     2,
			RetryBackoff:   time.Second,
		},
		Swagger: SwaggerConfig{
			FetchTimeout: 10 * time.Second,
			Validate:     true,
		},
		FanOut: FanOutConfig{
			Mode:           constants.FanOutBestEffort,
			MaxConcurrency: 4,
			SearchLimit:    constants.DefaultFanOutSearchLimit,
		},
		Tracing: TracingConfig{
			Enabled:        false,
			Exporter:       "otlp",
			Endpoint:       "otel-collector:4317",
			ServiceName:    "apim-publisher",
			ServiceVersion: "1.0.0",
			SamplingRate:   1.0,
			BatchTimeout:   time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9091,
		},
		TrustStore: TrustStoreConfig{
			Directory: "./data/truststore",
		},
	}
}

// Validate checks the loaded configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Metrics.Enabled && c.Metrics.Port == c.Server.Port {
		return fmt.Errorf("metrics.port must differ from server.port")
	}

	for name, raw := range map[string]string{
		"apim.publisher_endpoint": c.APIM.PublisherEndpoint,
		"apim.store_endpoint":     c.APIM.StoreEndpoint,
		"apim.token_endpoint":     c.APIM.TokenEndpoint,
	} {
		if err := validateEndpoint(name, raw); err != nil {
			return err
		}
	}

	if c.APIM.ConnectTimeout <= 0 || c.APIM.RequestTimeout <= 0 {
		return fmt.Errorf("apim timeouts must be positive")
	}
	if c.APIM.MaxRetries < 0 {
		return fmt.Errorf("apim.max_retries must not be negative")
	}
	if c.Swagger.FetchTimeout <= 0 {
		return fmt.Errorf("swagger.fetch_timeout must be positive")
	}

	switch c.FanOut.Mode {
	case constants.FanOutBestEffort, constants.FanOutStrict:
	default:
		return fmt.Errorf("fanout.mode must be %q or %q, got %q",
			constants.FanOutBestEffort, constants.FanOutStrict, c.FanOut.Mode)
	}
	if c.FanOut.MaxConcurrency < 1 {
		return fmt.Errorf("fanout.max_concurrency must be at least 1")
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "otlp", "zipkin", "none":
		default:
			return fmt.Errorf("tracing.exporter must be one of otlp, zipkin, none")
		}
		if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
			return fmt.Errorf("tracing.sampling_rate must be within [0, 1]")
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console")
	}
	return nil
}

func validateEndpoint(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
	}
	return nil
}
