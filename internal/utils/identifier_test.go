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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		identifier  string
		wantName    string
		wantVersion string
	}{
		{name: "two segments", identifier: "petstore-v1", wantName: "petstore", wantVersion: "v1"},
		{name: "provider name version", identifier: "admin-PetStore-1.0.0", wantName: "PetStore", wantVersion: "1.0.0"},
		{name: "dashed name keeps second segment", identifier: "my-pet-store-v1", wantName: "pet", wantVersion: "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, version, err := SplitIdentifier(tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}

func TestSplitIdentifierRejectsSingleSegment(t *testing.T) {
	for _, identifier := range []string{"", "petstore"} {
		_, _, err := SplitIdentifier(identifier)
		assert.ErrorIs(t, err, constants.ErrInvalidIdentifier, identifier)
	}
}
