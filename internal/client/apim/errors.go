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
	"errors"
	"fmt"
	"net/http"

	"github.com/wso2/api-platform/apim-publisher/internal/constants"
)

// Kind classifies a failed call
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindConflict
	KindDownstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindDownstream:
		return "downstream"
	default:
		return "unknown"
	}
}

// Error is the typed failure carried by a Result. Status is the HTTP status
// the façade answers with; Message is the user-visible text.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("apim %s error (%d): %s: %v", e.Kind, e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("apim %s error (%d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error
func NewError(kind Kind, status int, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError is a 400 raised before any downstream call.
func ValidationError(message string, cause error) *Error {
	return NewError(KindValidation, http.StatusBadRequest, message, cause)
}

// AuthError is the 401 returned when no token could be obtained.
func AuthError() *Error {
	return NewError(KindAuth, http.StatusUnauthorized, constants.MsgMissingAuthentication, constants.ErrNoTokenAvailable)
}

// ConflictError reports an existing resource.
func ConflictError(status int, message string) *Error {
	return NewError(KindConflict, status, message, nil)
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
