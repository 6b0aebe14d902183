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

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/internal/certstore"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/middleware"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
	"github.com/wso2/api-platform/apim-publisher/internal/utils"
)

// maxCertificateSize bounds the uploaded certificate file
const maxCertificateSize = 1 << 20

type CertificateHandler struct {
	store  *certstore.CertStore
	logger *zap.Logger
}

func NewCertificateHandler(store *certstore.CertStore, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		store:  store,
		logger: logger,
	}
}

// ListCertificates handles GET /certificate
func (h *CertificateHandler) ListCertificates(c *gin.Context) {
	aliases, err := h.store.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, aliases)
}

// GetCertificate handles GET /certificate/:alias
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	info, err := h.store.Get(c.Param("alias"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// AddCertificate handles POST /certificate/:alias with the certificate in the multipart field "file"
func (h *CertificateHandler) AddCertificate(c *gin.Context) {
	file, err := c.FormFile(constants.CertificateFileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			constants.MsgMissingParameters))
		return
	}
	if file.Size > maxCertificateSize {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			constants.MsgCertificateInvalid))
		return
	}

	f, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxCertificateSize))
	if err != nil {
		h.fail(c, err)
		return
	}

	info, err := h.store.Add(c.Param("alias"), data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DeleteCertificate handles DELETE /certificate/:alias
func (h *CertificateHandler) DeleteCertificate(c *gin.Context) {
	alias := c.Param("alias")
	if err := h.store.Remove(alias); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AliasInfo{Alias: alias})
}

func (h *CertificateHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constants.ErrCertificateNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			constants.MsgCertificateNotFound))
	case errors.Is(err, constants.ErrInvalidAlias):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			err.Error()))
	case errors.Is(err, constants.ErrCertificateInvalid):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request",
			constants.MsgCertificateInvalid))
	default:
		middleware.GetLogger(c, h.logger).Error("Trust store operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			constants.MsgCertificateStoreUnavailable))
	}
}

// RegisterRoutes registers the trust store routes
func (h *CertificateHandler) RegisterRoutes(r *gin.Engine) {
	certGroup := r.Group("/certificate")
	{
		certGroup.GET("", h.ListCertificates)
		certGroup.GET("/:alias", h.GetCertificate)
		certGroup.POST("/:alias", h.AddCertificate)
		certGroup.DELETE("/:alias", h.DeleteCertificate)
	}
}
