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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawAPIWithCors = `{
	"id": "api-1",
	"name": "PetStore",
	"maxTps": {"production": 1000},
	"corsConfiguration": {
		"corsConfigurationEnabled": true,
		"accessControlAllowOrigins": ["*"],
		"accessControlAllowHeaders": ["authorization", "Content-Type"]
	}
}`

func corsLists(t *testing.T, raw json.RawMessage) (origins, headers []string) {
	t.Helper()
	var api struct {
		CorsConfiguration struct {
			Origins []string `json:"accessControlAllowOrigins"`
			Headers []string `json:"accessControlAllowHeaders"`
		} `json:"corsConfiguration"`
	}
	require.NoError(t, json.Unmarshal(raw, &api))
	return api.CorsConfiguration.Origins, api.CorsConfiguration.Headers
}

func TestAddOriginReplacesWildcardOnce(t *testing.T) {
	first, err := applyCorsMutation(json.RawMessage(rawAPIWithCors), CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})
	require.NoError(t, err)
	origins, _ := corsLists(t, first)
	assert.Equal(t, []string{"https://a.example.com"}, origins)

	second, err := applyCorsMutation(first, CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})
	require.NoError(t, err)
	origins, _ = corsLists(t, second)
	assert.Equal(t, []string{"https://a.example.com"}, origins)

	third, err := applyCorsMutation(second, CorsMutation{Action: AddOrigin, Value: "https://b.example.com"})
	require.NoError(t, err)
	origins, _ = corsLists(t, third)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, origins)
}

func TestRemoveOriginIsExactMatch(t *testing.T) {
	raw := json.RawMessage(`{"corsConfiguration":{"accessControlAllowOrigins":["https://a.example.com","https://A.example.com"]}}`)

	out, err := applyCorsMutation(raw, CorsMutation{Action: RemoveOrigin, Value: "https://a.example.com"})
	require.NoError(t, err)

	origins, _ := corsLists(t, out)
	assert.Equal(t, []string{"https://A.example.com"}, origins)
}

func TestHeaderEditsIgnoreCase(t *testing.T) {
	out, err := applyCorsMutation(json.RawMessage(rawAPIWithCors), CorsMutation{Action: AddHeader, Value: " content-type "})
	require.NoError(t, err)
	_, headers := corsLists(t, out)
	assert.Equal(t, []string{"authorization", "Content-Type"}, headers)

	out, err = applyCorsMutation(out, CorsMutation{Action: AddHeader, Value: "X-Request-ID"})
	require.NoError(t, err)
	_, headers = corsLists(t, out)
	assert.Equal(t, []string{"authorization", "Content-Type", "X-Request-ID"}, headers)

	out, err = applyCorsMutation(out, CorsMutation{Action: RemoveHeader, Value: "AUTHORIZATION"})
	require.NoError(t, err)
	_, headers = corsLists(t, out)
	assert.Equal(t, []string{"Content-Type", "X-Request-ID"}, headers)
}

func TestCorsMutationPreservesUnknownFields(t *testing.T) {
	out, err := applyCorsMutation(json.RawMessage(rawAPIWithCors), CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})
	require.NoError(t, err)

	var api map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &api))
	assert.Equal(t, "api-1", api["id"])
	assert.Equal(t, map[string]interface{}{"production": float64(1000)}, api["maxTps"])
}

func TestCorsMutationWithoutConfigurationIsNoop(t *testing.T) {
	raw := json.RawMessage(`{"id":"api-1"}`)

	out, err := applyCorsMutation(raw, CorsMutation{Action: AddOrigin, Value: "https://a.example.com"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"api-1"}`, string(out))
}

func TestCorsMutationRejectsInvalidJSON(t *testing.T) {
	_, err := applyCorsMutation(json.RawMessage(`not json`), CorsMutation{Action: AddOrigin, Value: "x"})
	assert.Error(t, err)
}

func TestParseAllowedOrigins(t *testing.T) {
	assert.Nil(t, parseAllowedOrigins(""))
	assert.Empty(t, parseAllowedOrigins("[]"))
	assert.Equal(t, []string{"https://a.example.com"}, parseAllowedOrigins(`["https://a.example.com"]`))
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"},
		parseAllowedOrigins("https://a.example.com, https://b.example.com"))
}

func TestDefaultCorsFallsBackToWildcard(t *testing.T) {
	cors := defaultCors(nil)
	assert.True(t, cors.CorsConfigurationEnabled)
	assert.Equal(t, []string{"*"}, cors.AccessControlAllowOrigins)
}
