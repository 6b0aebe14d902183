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

package apim

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// RequestBuilder provides a fluent API for building downstream requests
type RequestBuilder struct {
	method      string
	url         string
	query       url.Values
	body        interface{}
	raw         []byte
	contentType string
	headers     map[string]string
}

// NewRequest creates a new RequestBuilder for the given method and URL
func NewRequest(method, url string) *RequestBuilder {
	return &RequestBuilder{
		method:  method,
		url:     url,
		headers: make(map[string]string),
	}
}

// WithQuery adds a query parameter
func (rb *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	if rb.query == nil {
		rb.query = url.Values{}
	}
	rb.query.Add(key, value)
	return rb
}

// WithJSONBody sets the request body as JSON. json.RawMessage is sent as-is.
func (rb *RequestBuilder) WithJSONBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithRawBody sets a pre-encoded body and its content type
func (rb *RequestBuilder) WithRawBody(payload []byte, contentType string) *RequestBuilder {
	rb.raw = payload
	rb.contentType = contentType
	return rb
}

// WithHeader adds a custom header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// Build creates the HTTP request. Bodies are buffered so retries can replay them.
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	target := rb.url
	if len(rb.query) > 0 {
		target += "?" + rb.query.Encode()
	}

	payload := rb.raw
	contentType := rb.contentType
	if payload == nil && rb.body != nil {
		b, err := json.Marshal(rb.body)
		if err != nil {
			return nil, err
		}
		payload = b
		contentType = "application/json"
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, rb.method, target, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// multipartField encodes a single form field and returns the body and its content type.
func multipartField(field, value string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField(field, value); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
