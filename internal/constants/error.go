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

import "errors"

var (
	ErrMissingParameters  = errors.New("missing parameters")
	ErrInvalidIdentifier  = errors.New("invalid composite API identifier")
	ErrNoTokenAvailable   = errors.New("no access token available")
	ErrSwaggerUnreachable = errors.New("swagger endpoint unreachable")
	ErrSwaggerInvalid     = errors.New("swagger definition is not a valid OpenAPI document")
	ErrSwaggerTooLarge    = errors.New("swagger definition too large")
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateInvalid  = errors.New("invalid certificate")
	ErrInvalidAlias        = errors.New("invalid certificate alias")
)
