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

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-openapi/loads"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/logger"
)

const maxSwaggerSize = 10 << 20

// Doer executes HTTP requests
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SwaggerFetcher downloads a caller-supplied contract definition.
type SwaggerFetcher struct {
	httpClient Doer
	timeout    time.Duration
	validate   bool
	maxSize    int64
	log        *zap.Logger
}

// NewSwaggerFetcher creates a fetcher. With validate set, documents that are
// neither OpenAPI 3 nor Swagger 2.0 are rejected.
func NewSwaggerFetcher(httpClient Doer, timeout time.Duration, validate bool, log *zap.Logger) *SwaggerFetcher {
	return &SwaggerFetcher{
		httpClient: httpClient,
		timeout:    timeout,
		validate:   validate,
		maxSize:    maxSwaggerSize,
		log:        log,
	}
}

// Fetch returns the definition at endpoint as JSON.
func (f *SwaggerFetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	log := logger.FromContext(ctx, f.log).With(zap.String("swagger_endpoint", endpoint))

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrSwaggerUnreachable, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Warn("Swagger endpoint unreachable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", constants.ErrSwaggerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Swagger endpoint returned an error", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", constants.ErrSwaggerUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrSwaggerUnreachable, err)
	}
	if int64(len(body)) > f.maxSize {
		log.Warn("Swagger definition exceeds the size limit", zap.Int64("limit", f.maxSize))
		return nil, fmt.Errorf("%w: more than %d bytes", constants.ErrSwaggerTooLarge, f.maxSize)
	}

	definition, err := toJSON(body)
	if err != nil {
		log.Warn("Swagger definition is neither JSON nor YAML", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", constants.ErrSwaggerInvalid, err)
	}

	if f.validate {
		if err := validateDefinition(ctx, definition); err != nil {
			log.Warn("Swagger definition rejected", zap.Error(err))
			return nil, err
		}
	}
	return definition, nil
}

// toJSON passes JSON through and converts YAML documents to JSON.
func toJSON(body []byte) ([]byte, error) {
	if json.Valid(body) {
		return body, nil
	}
	var doc interface{}
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return nil, fmt.Errorf("document root is not a mapping")
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML turns non-string map keys into strings so the tree is JSON encodable.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []interface{}:
		for i := range t {
			t[i] = normalizeYAML(t[i])
		}
		return t
	default:
		return v
	}
}

type specVersion struct {
	OpenAPI string `json:"openapi"`
	Swagger string `json:"swagger"`
}

func validateDefinition(ctx context.Context, definition []byte) error {
	var version specVersion
	if err := json.Unmarshal(definition, &version); err != nil {
		return fmt.Errorf("%w: %v", constants.ErrSwaggerInvalid, err)
	}

	switch {
	case version.OpenAPI != "":
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(definition)
		if err != nil {
			return fmt.Errorf("%w: %v", constants.ErrSwaggerInvalid, err)
		}
		if err := doc.Validate(ctx); err != nil {
			return fmt.Errorf("%w: %v", constants.ErrSwaggerInvalid, err)
		}
		return nil
	case version.Swagger != "":
		doc, err := loads.Analyzed(json.RawMessage(definition), "")
		if err != nil {
			return fmt.Errorf("%w: %v", constants.ErrSwaggerInvalid, err)
		}
		if doc.Version() != "2.0" {
			return fmt.Errorf("%w: unsupported swagger version %q", constants.ErrSwaggerInvalid, doc.Version())
		}
		return nil
	default:
		return fmt.Errorf("%w: missing openapi or swagger version field", constants.ErrSwaggerInvalid)
	}
}
