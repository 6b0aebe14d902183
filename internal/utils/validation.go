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

package utils

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/dto"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRestRequest checks the fields required to publish a REST API.
// An empty allowed-origins value is normalised to "[]".
func ValidateRestRequest(req *dto.NewRestAPIRequest, newVersion bool) error {
	if req == nil {
		return constants.ErrMissingParameters
	}
	req.NewVersion = newVersion
	if err := getValidator().Struct(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrMissingParameters, fieldList(err))
	}
	if strings.TrimSpace(req.APIAllowedOrigins) == "" {
		req.APIAllowedOrigins = "[]"
	}
	return nil
}

// ValidateSOAPRequest checks the fields required to publish a SOAP API.
func ValidateSOAPRequest(req *dto.NewSOAPAPIRequest, newVersion bool) error {
	if req == nil {
		return constants.ErrMissingParameters
	}
	req.NewVersion = newVersion
	if err := getValidator().Struct(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrMissingParameters, fieldList(err))
	}
	return nil
}

// ValidateForm checks the required fields of a bound form.
func ValidateForm(form interface{}) error {
	if form == nil {
		return constants.ErrMissingParameters
	}
	if err := getValidator().Struct(form); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrMissingParameters, fieldList(err))
	}
	return nil
}

// ParseSearchLimit returns the default limit for an empty value.
func ParseSearchLimit(raw string) (int, error) {
	if raw == "" {
		return constants.DefaultSearchLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit %q", constants.ErrMissingParameters, raw)
	}
	return limit, nil
}

// ParseTokenValidity falls back to the default validity when raw is not an integer.
// The boolean result reports whether the fallback was used.
func ParseTokenValidity(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return constants.DefaultTokenValidity, true
	}
	return v, false
}

func fieldList(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return strings.Join(fields, ",")
}
