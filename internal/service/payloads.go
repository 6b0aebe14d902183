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
	"encoding/json"
	"strings"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

const (
	defaultGatewayEnvironments = "Production and Sandbox"
	defaultVisibility          = "PUBLIC"
	apiTypeHTTP                = "HTTP"
)

var (
	defaultTransports    = []string{"http", "https"}
	defaultAllowHeaders  = []string{"authorization", "Access-Control-Allow-Origin", "Content-Type", "SOAPAction"}
	defaultAllowMethods  = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "OPTIONS"}
	defaultSwaggerVerbs  = []string{"get", "put", "post", "delete", "patch"}
	defaultSwaggerAuth   = "Application & Application User"
	defaultSwaggerSchema = []string{"http", "https"}
)

// apiPayload is the create/update body sent to the publisher.
type apiPayload struct {
	ID                  string                  `json:"id,omitempty"`
	Name                string                  `json:"name"`
	Description         string                  `json:"description"`
	Context             string                  `json:"context"`
	Version             string                  `json:"version"`
	Type                string                  `json:"type"`
	APIDefinition       string                  `json:"apiDefinition"`
	WsdlURI             string                  `json:"wsdlUri,omitempty"`
	IsDefaultVersion    bool                    `json:"isDefaultVersion"`
	Transport           []string                `json:"transport"`
	Tiers               []string                `json:"tiers"`
	Visibility          string                  `json:"visibility"`
	GatewayEnvironments string                  `json:"gatewayEnvironments"`
	EndpointConfig      string                  `json:"endpointConfig"`
	CorsConfiguration   model.CorsConfiguration `json:"corsConfiguration"`
}

type endpoint struct {
	URL    string      `json:"url"`
	Config interface{} `json:"config"`
}

type endpointConfig struct {
	Production   endpoint `json:"production_endpoints"`
	Sandbox      endpoint `json:"sandbox_endpoints"`
	EndpointType string   `json:"endpoint_type"`
}

// renderRestPayload builds the publisher body for a REST API.
func renderRestPayload(req *dto.NewRestAPIRequest) (apiPayload, error) {
	definition, err := defaultSwagger(req.APIName, req.APIVersion)
	if err != nil {
		return apiPayload{}, err
	}
	endpoints, err := renderEndpointConfig(req.Endpoint, "http")
	if err != nil {
		return apiPayload{}, err
	}
	return apiPayload{
		Name:                req.APIName,
		Description:         req.APIDescription,
		Context:             req.APIContext,
		Version:             req.APIVersion,
		Type:                apiTypeHTTP,
		APIDefinition:       string(definition),
		IsDefaultVersion:    req.DefaultVersion,
		Transport:           defaultTransports,
		Tiers:               []string{constants.DefaultTier},
		Visibility:          defaultVisibility,
		GatewayEnvironments: defaultGatewayEnvironments,
		EndpointConfig:      endpoints,
		CorsConfiguration:   defaultCors(parseAllowedOrigins(req.APIAllowedOrigins)),
	}, nil
}

// renderSOAPPayload builds the publisher body for a WSDL-backed API.
func renderSOAPPayload(req *dto.NewSOAPAPIRequest) (apiPayload, error) {
	description := req.APIDescription
	if description == "" {
		description = constants.DefaultSOAPDescription
	}
	definition, err := defaultSwagger(req.APIName, req.APIVersion)
	if err != nil {
		return apiPayload{}, err
	}
	endpoints, err := renderEndpointConfig(req.Endpoint, "address")
	if err != nil {
		return apiPayload{}, err
	}
	return apiPayload{
		Name:                req.APIName,
		Description:         description,
		Context:             req.APIContext,
		Version:             req.APIVersion,
		Type:                apiTypeHTTP,
		APIDefinition:       string(definition),
		WsdlURI:             req.WsdlEndpoint,
		IsDefaultVersion:    req.DefaultVersion,
		Transport:           defaultTransports,
		Tiers:               []string{constants.DefaultTier},
		Visibility:          defaultVisibility,
		GatewayEnvironments: defaultGatewayEnvironments,
		EndpointConfig:      endpoints,
		CorsConfiguration:   defaultCors(nil),
	}, nil
}

func renderEndpointConfig(url, endpointType string) (string, error) {
	b, err := json.Marshal(endpointConfig{
		Production:   endpoint{URL: url},
		Sandbox:      endpoint{URL: url},
		EndpointType: endpointType,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func defaultCors(origins []string) model.CorsConfiguration {
	if len(origins) == 0 {
		origins = []string{constants.WildcardOrigin}
	}
	return model.CorsConfiguration{
		CorsConfigurationEnabled:  true,
		AccessControlAllowOrigins: origins,
		AccessControlAllowHeaders: defaultAllowHeaders,
		AccessControlAllowMethods: defaultAllowMethods,
	}
}

// parseAllowedOrigins accepts a JSON array or a comma separated list.
func parseAllowedOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var origins []string
	if err := json.Unmarshal([]byte(raw), &origins); err == nil {
		return origins
	}
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type swaggerOperation struct {
	Responses     map[string]swaggerResponse `json:"responses"`
	XAuthType     string                     `json:"x-auth-type"`
	XThrottleTier string                     `json:"x-throttling-tier"`
	Parameters    []interface{}              `json:"parameters"`
}

type swaggerResponse struct {
	Description string `json:"description"`
}

type swaggerInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type swaggerDocument struct {
	Swagger string                                 `json:"swagger"`
	Info    swaggerInfo                            `json:"info"`
	Schemes []string                               `json:"schemes"`
	Paths   map[string]map[string]swaggerOperation `json:"paths"`
}

// defaultSwagger renders the catch-all Swagger 2.0 definition pushed when the
// caller supplies none.
func defaultSwagger(name, version string) ([]byte, error) {
	ops := make(map[string]swaggerOperation, len(defaultSwaggerVerbs))
	for _, verb := range defaultSwaggerVerbs {
		ops[verb] = swaggerOperation{
			Responses:     map[string]swaggerResponse{"200": {Description: "OK"}},
			XAuthType:     defaultSwaggerAuth,
			XThrottleTier: constants.DefaultTier,
			Parameters:    []interface{}{},
		}
	}
	return json.Marshal(swaggerDocument{
		Swagger: "2.0",
		Info:    swaggerInfo{Title: name, Version: version},
		Schemes: defaultSwaggerSchema,
		Paths:   map[string]map[string]swaggerOperation{"/*": ops},
	})
}
