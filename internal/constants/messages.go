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

package constants

// User-visible messages carried in the callErrorMessage field.
const (
	MsgMissingParameters       = "Missing parameters"
	MsgMissingParametersDot    = "Missing parameters."
	MsgMissingAuthentication   = "Missing authentication"
	MsgUnknownError            = "Unknown error, please contact support team with the call ID"
	MsgAlreadyPublished        = "There is already a published version with the same context, please create new version from this ID"
	MsgPreviousVersionsLookup  = "Error looking for previous versions."
	MsgCreateFailed            = "There was a problem creating your API, please try again."
	MsgSwaggerEndpointFailed   = "There was a problem calling your swagger endpoint, but the REST API was created, please check your Swagger Endpoint and update the API with ID: %s"
	MsgSwaggerUpdateFailed     = "There was a problem updating API with ID: %s with the new Swagger definition, please review your Swagger and try again by updating the API."
	MsgCreatedNotPublished     = "The API was created but failed to publish"
	MsgUpdatedNotPublished     = "The API was updated but failed to publish"
	MsgVersionUpdateFailed     = "There was a problem updating your new version, please delete and try to create again."
	MsgVersionCreateFailed     = "There was a problem creating a new version of the API, please try again."
	MsgGetAPIFailed            = "There was a problem getting your API, please try again."
	MsgAPINotUpdated           = "The api could not be updated"
	MsgRestDeleteFailed        = "There was an error deleting the API, please try again later."
	MsgSoapDeleteFailed        = "There was a problem deleting your API with ID: %s"
	MsgApplicationExists       = "There is already an application with the same name for your user."
	MsgApplicationCreateFailed = "There was a problem creating your application, please contact the support team."
	MsgFanOutPartialFailure    = "%d of %d items could not be processed"
)

// Fixed messages of the downstream gateway client, one per operation.
const (
	MsgClientSearchFailed          = "There was a problem searching for APIs, try again later on."
	MsgClientGetDetailsFailed      = "There was a problem getting the API: %s , try again later on."
	MsgClientGetFailed             = "There was a problem getting the API, try again later on."
	MsgClientNewVersionFailed      = "Version could not be created, check if this version exists already: %s"
	MsgClientUpdateFailed          = "New version with ID: %s could not be updated, please check the configuration."
	MsgClientPublishFailed         = "API with ID: %s could not be published"
	MsgClientDeleteFailed          = "Requested API could not be deleted"
	MsgClientCreateFailed          = "Requested API could not be created, please check your parameters."
	MsgClientSwaggerFailed         = "Requested API swagger could not be updated"
	MsgClientListAppsFailed        = "There was a problem listing your applications."
	MsgClientListSubsFailed        = "There was a problem listing the subscriptions of the application."
	MsgClientGetAppFailed          = "There was a problem getting the application."
	MsgClientSubscribeFailed       = "We were not able to subscribe to the API, please try again later."
	MsgClientUnsubscribeFailed     = "Requested subscription could not be removed"
	MsgClientGenerateKeyFailed     = "There was a problem generating keys for the application."
	MsgClientCreateAppFailed       = "There was a problem creating the application."
	MsgClientRemoveAppFailed       = "There was a problem removing the application."
	MsgCertificateInvalid          = "The uploaded file does not contain a valid X.509 certificate"
	MsgCertificateNotFound         = "No certificate is registered under the requested alias"
	MsgCertificateStoreUnavailable = "The trust store could not be read or written"
)
