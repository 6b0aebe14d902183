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

// Application is an API Manager store application.
type Application struct {
	ApplicationID  string           `json:"applicationId,omitempty"`
	Name           string           `json:"name,omitempty"`
	Subscriber     string           `json:"subscriber,omitempty"`
	ThrottlingTier string           `json:"throttlingTier,omitempty"`
	Status         string           `json:"status,omitempty"`
	Description    string           `json:"description,omitempty"`
	Keys           []ApplicationKey `json:"keys,omitempty"`
	Outcome
}

// ApplicationKey is a consumer key/secret pair issued for an application.
type ApplicationKey struct {
	ConsumerKey    string `json:"consumerKey,omitempty"`
	ConsumerSecret string `json:"consumerSecret,omitempty"`
	KeyState       string `json:"keyState,omitempty"`
	KeyType        string `json:"keyType,omitempty"`
	Outcome
}

type ApplicationList struct {
	Count int           `json:"count"`
	List  []Application `json:"list"`
	Outcome
}

// Subscription links an application to an API. APIIdentifier is the
// dash-joined composite identifier used by the store.
type Subscription struct {
	SubscriptionID string `json:"subscriptionId,omitempty"`
	APIIdentifier  string `json:"apiIdentifier,omitempty"`
	ApplicationID  string `json:"applicationId,omitempty"`
	Tier           string `json:"tier,omitempty"`
	Status         string `json:"status,omitempty"`
	Outcome
}

// SubscriptionList is also the envelope of the fan-out workflows;
// FailedItems counts the entries whose callError is set.
type SubscriptionList struct {
	Count       int            `json:"count"`
	List        []Subscription `json:"list"`
	FailedItems int            `json:"failedItems"`
	Outcome
}

// CountFailures recomputes FailedItems from the list.
func (l *SubscriptionList) CountFailures() int {
	failed := 0
	for i := range l.List {
		if l.List[i].CallError {
			failed++
		}
	}
	l.FailedItems = failed
	return failed
}

// AliasInfo describes a trust-store entry.
type AliasInfo struct {
	Alias     string `json:"alias"`
	IssuerDN  string `json:"issuerDN"`
	SubjectDN string `json:"subjectDN"`
}
