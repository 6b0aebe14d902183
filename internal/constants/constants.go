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

package constants

// Inbound form and query parameter names
const (
	ApplicationNameParam   = "application_name"
	ApplicationIDParam     = "application_id"
	TokenValidityTimeParam = "token_validity_time"
	APINameParam           = "api_name"
	APIQueryLimitParam     = "limit"
	OriginParam            = "origin"
	HeaderParam            = "header"
	CertificateFileField   = "file"
)

// OAuth2 scopes requested from the API Manager token endpoint
const (
	ScopeView      = "apim:api_view"
	ScopeCreate    = "apim:api_create"
	ScopePublish   = "apim:api_publish"
	ScopeSubscribe = "apim:subscribe"

	ClientCredentialsGrant = "client_credentials"
)

// Defaults applied by the façade
const (
	DefaultSearchLimit       = 100
	ClampedSearchLimit       = 25
	DefaultFanOutSearchLimit = 10
	DefaultTokenValidity     = 3600
	DefaultSOAPDescription   = "---"
	DefaultTier              = "Unlimited"
	DefaultKeyType           = "PRODUCTION"
	LifecycleActionPublish   = "Publish"
	SwaggerFormField         = "apiDefinition"
	WildcardOrigin           = "*"
)

// Span tag keys written by the request tracer
const (
	TagCallID           = "http.call.id"
	TagBasicUser        = "http.basic.user"
	TagBearerSubject    = "http.bearer.subject"
	TagStatusCode       = "http.code"
	TagException        = "http.exception"
	TagInvalidParameter = "http.call.parameter.invalid"
)

// Fan-out modes
const (
	FanOutBestEffort = "best_effort"
	FanOutStrict     = "strict"
)
