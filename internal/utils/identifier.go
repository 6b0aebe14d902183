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
	"strings"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

const identifierSeparator = "-"

// APINameFromIdentifier derives the API name from a composite store identifier.
//
// Two segments ("petstore-v1") yield the first segment. Three or more segments
// ("admin-PetStore-1.0.0", "my-pet-store-v1") yield the second segment only, so
// names that themselves contain dashes are truncated.
func APINameFromIdentifier(identifier string) (string, error) {
	segments := strings.Split(identifier, identifierSeparator)
	switch {
	case identifier == "" || len(segments) < 2:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidIdentifier, identifier)
	case len(segments) == 2:
		return segments[0], nil
	default:
		return segments[1], nil
	}
}

// APIVersionFromIdentifier returns the last dash-separated segment.
func APIVersionFromIdentifier(identifier string) (string, error) {
	segments := strings.Split(identifier, identifierSeparator)
	if identifier == "" || len(segments) < 2 {
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidIdentifier, identifier)
	}
	return segments[len(segments)-1], nil
}

// SplitIdentifier decodes both parts at once.
func SplitIdentifier(identifier string) (name, version string, err error) {
	if name, err = APINameFromIdentifier(identifier); err != nil {
		return "", "", err
	}
	if version, err = APIVersionFromIdentifier(identifier); err != nil {
		return "", "", err
	}
	return name, version, nil
}
