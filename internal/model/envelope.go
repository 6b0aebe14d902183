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

package model

// Outcome is the call outcome envelope embedded in every entity returned to a caller.
type Outcome struct {
	CallError        bool    `json:"callError"`
	CallErrorMessage *string `json:"callErrorMessage"`
	CallID           string  `json:"callId"`
}

// Fail marks the envelope as failed with the given message.
func (o *Outcome) Fail(message string) {
	o.CallError = true
	o.CallErrorMessage = &message
}

// Stamp sets the call id.
func (o *Outcome) Stamp(callID string) {
	o.CallID = callID
}

// Failed reports whether the envelope carries an error.
func (o *Outcome) Failed() bool {
	return o.CallError
}

// Message returns the error message or an empty string.
func (o *Outcome) Message() string {
	if o.CallErrorMessage == nil {
		return ""
	}
	return *o.CallErrorMessage
}

// Enveloped is implemented by every response entity.
type Enveloped interface {
	Fail(message string)
	Stamp(callID string)
	Failed() bool
}
