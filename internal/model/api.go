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

package model

// ManagedAPI is an API as stored by the API Manager publisher.
type ManagedAPI struct {
	ID                  string               `json:"id,omitempty"`
	Name                string               `json:"name,omitempty"`
	Description         string               `json:"description,omitempty"`
	Context             string               `json:"context,omitempty"`
	Version             string               `json:"version,omitempty"`
	Provider            string               `json:"provider,omitempty"`
	Status              string               `json:"status,omitempty"`
	Visibility          string               `json:"visibility,omitempty"`
	Sequences           []Sequence           `json:"sequences,omitempty"`
	CorsConfiguration   *CorsConfiguration   `json:"corsConfiguration,omitempty"`
	BusinessInformation *BusinessInformation `json:"businessInformation,omitempty"`
	GatewayEnvironments string               `json:"gatewayEnvironments,omitempty"`
	EndpointConfig      string               `json:"endpointConfig,omitempty"`
	IsDefaultVersion    bool                 `json:"isDefaultVersion"`
	WsdlURI             string               `json:"wsdlUri,omitempty"`
	Outcome
}

// CorsConfiguration holds the CORS settings of a managed API.
// A lone "*" origin means no explicit origins have been configured yet.
type CorsConfiguration struct {
	CorsConfigurationEnabled     bool     `json:"corsConfigurationEnabled"`
	AccessControlAllowOrigins    []string `json:"accessControlAllowOrigins"`
	AccessControlAllowCredential bool     `json:"accessControlAllowCredentials"`
	AccessControlAllowHeaders    []string `json:"accessControlAllowHeaders"`
	AccessControlAllowMethods    []string `json:"accessControlAllowMethods"`
}

// Sequence is a mediation sequence attached to an API.
type Sequence struct {
	Name   string `json:"name"`
	Config string `json:"config,omitempty"`
	Type   string `json:"type"`
}

type BusinessInformation struct {
	BusinessOwner       string `json:"businessOwner,omitempty"`
	BusinessOwnerEmail  string `json:"businessOwnerEmail,omitempty"`
	TechnicalOwner      string `json:"technicalOwner,omitempty"`
	TechnicalOwnerEmail string `json:"technicalOwnerEmail,omitempty"`
}

// VersionSearchResult is the result of a search-by-name query.
type VersionSearchResult struct {
	Count int          `json:"count"`
	List  []ManagedAPI `json:"list"`
	Outcome
}
