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

// Result holds either a value with the downstream status, or an *Error.
// Exactly one of Value and Err is meaningful.
type Result[T any] struct {
	Status int
	Value  T
	Err    *Error
}

// Ok wraps a successful value.
func Ok[T any](status int, value T) Result[T] {
	return Result[T]{Status: status, Value: value}
}

// Fail wraps a failure; Status mirrors the error status.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{Status: err.Status, Err: err}
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}
