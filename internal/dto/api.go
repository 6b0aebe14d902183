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

package dto

// NewRestAPIRequest is the inbound payload for publishing a REST API or a new version of it.
type NewRestAPIRequest struct {
	APIID             string `json:"apiId,omitempty"`
	APIName           string `json:"apiName" validate:"required"`
	APIDescription    string `json:"apiDescription" validate:"required"`
	APIContext        string `json:"apiContext" validate:"required"`
	APIVersion        string `json:"apiVersion" validate:"required"`
	APIAllowedOrigins string `json:"apiAllowedOrigins,omitempty"`
	Endpoint          string `json:"endpoint" validate:"required"`
	DefaultVersion    bool   `json:"defaultVersion"`
	SwaggerEndpoint   string `json:"swaggerEndpoint,omitempty" validate:"omitempty,url"`
	ParentAPIID       string `json:"parentApiId,omitempty" validate:"required_if=NewVersion true"`

	// NewVersion is set by the handler, never bound from the payload.
	NewVersion bool `json:"-"`
}

// NewSOAPAPIRequest is the inbound payload for publishing a SOAP API or a new version of it.
type NewSOAPAPIRequest struct {
	APIName        string `json:"apiName" validate:"required"`
	APIContext     string `json:"apiContext" validate:"required"`
	APIVersion     string `json:"apiVersion" validate:"required"`
	APIDescription string `json:"apiDescription,omitempty"`
	DefaultVersion bool   `json:"defaultVersion"`
	WsdlEndpoint   string `json:"wsdlEndpoint" validate:"required"`
	Endpoint       string `json:"endpoint" validate:"required"`
	ParentAPIID    string `json:"parentApiId,omitempty" validate:"required_if=NewVersion true"`

	NewVersion bool `json:"-"`
}

// APIIDList is the body of the subscribe fan-out.
type APIIDList struct {
	IDList []string `json:"idList"`
}

// NewApplicationRequest is the form posted to create a store application.
type NewApplicationRequest struct {
	Name string `form:"application_name" validate:"required"`
}

// GenerateKeysRequest is the form posted to issue production keys.
// TokenValidityTime is kept raw and must be present; empty or non-numeric
// values fall back to the default validity.
type GenerateKeysRequest struct {
	ApplicationID     string  `form:"application_id" validate:"required"`
	TokenValidityTime *string `form:"token_validity_time" validate:"required"`
}
