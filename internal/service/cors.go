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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

// CorsAction selects the CORS list edit to apply
type CorsAction int

const (
	AddOrigin CorsAction = iota
	RemoveOrigin
	AddHeader
	RemoveHeader
)

func (a CorsAction) String() string {
	switch a {
	case AddOrigin:
		return "add_origin"
	case RemoveOrigin:
		return "remove_origin"
	case AddHeader:
		return "add_header"
	default:
		return "remove_header"
	}
}

// CorsMutation is one edit of an API's CORS configuration.
type CorsMutation struct {
	Action CorsAction
	Value  string
}

const (
	corsConfigurationKey = "corsConfiguration"
	allowOriginsKey      = "accessControlAllowOrigins"
	allowHeadersKey      = "accessControlAllowHeaders"
)

// applyCorsMutation edits the CORS lists of a raw API definition in place and
// returns the re-encoded definition. Fields it does not know are preserved.
// A definition without corsConfiguration is returned unchanged.
func applyCorsMutation(raw json.RawMessage, m CorsMutation) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var api map[string]interface{}
	if err := dec.Decode(&api); err != nil {
		return nil, fmt.Errorf("failed to decode API definition: %w", err)
	}

	cors, ok := api[corsConfigurationKey].(map[string]interface{})
	if !ok {
		return raw, nil
	}

	switch m.Action {
	case AddOrigin:
		cors[allowOriginsKey] = addOrigin(stringList(cors[allowOriginsKey]), m.Value)
	case RemoveOrigin:
		cors[allowOriginsKey] = removeExact(stringList(cors[allowOriginsKey]), m.Value)
	case AddHeader:
		cors[allowHeadersKey] = addHeader(stringList(cors[allowHeadersKey]), m.Value)
	case RemoveHeader:
		cors[allowHeadersKey] = removeFold(stringList(cors[allowHeadersKey]), m.Value)
	}

	return json.Marshal(api)
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// addOrigin replaces a lone wildcard, then appends origin unless present.
func addOrigin(origins []string, origin string) []string {
	if len(origins) == 1 && origins[0] == constants.WildcardOrigin {
		origins = origins[:0]
	}
	for _, o := range origins {
		if o == origin {
			return origins
		}
	}
	return append(origins, origin)
}

func removeExact(values []string, value string) []string {
	out := values[:0]
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

// addHeader appends header unless an entry matches it case-insensitively.
func addHeader(headers []string, header string) []string {
	header = strings.TrimSpace(header)
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), header) {
			return headers
		}
	}
	return append(headers, header)
}

func removeFold(values []string, value string) []string {
	value = strings.TrimSpace(value)
	out := values[:0]
	for _, v := range values {
		if !strings.EqualFold(strings.TrimSpace(v), value) {
			out = append(out, v)
		}
	}
	return out
}
