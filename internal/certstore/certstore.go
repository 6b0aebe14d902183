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

package certstore

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wso2/api-platform/apim-publisher/config"
	"github.com/wso2/api-platform/apim-publisher/internal/constants"
	"github.com/wso2/api-platform/apim-publisher/internal/metrics"
	"github.com/wso2/api-platform/apim-publisher/internal/model"
)

const certExtension = ".pem"

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// CertStore manages the certificates trusted for downstream TLS. Each alias is
// one PEM file in the store directory.
type CertStore struct {
	logger       *zap.Logger
	dir          string
	reloadMarker string
	systemBundle string
	mu           sync.RWMutex // Serialises writers against readers of the directory
}

// NewCertStore creates the store, creating its directory when missing.
func NewCertStore(logger *zap.Logger, cfg config.TrustStoreConfig) (*CertStore, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create trust store directory: %w", err)
	}
	return &CertStore{
		logger:       logger,
		dir:          cfg.Directory,
		reloadMarker: cfg.ReloadMarker,
		systemBundle: cfg.SystemBundle,
	}, nil
}

// List returns every alias in the store, sorted by alias.
func (cs *CertStore) List() ([]model.AliasInfo, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entries, err := os.ReadDir(cs.dir)
	if err != nil {
		cs.record("list", false)
		return nil, fmt.Errorf("failed to read trust store: %w", err)
	}

	aliases := make([]model.AliasInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != certExtension {
			continue
		}
		alias := strings.TrimSuffix(entry.Name(), certExtension)
		info, err := cs.load(alias)
		if err != nil {
			cs.logger.Warn("Skipping unreadable trust store entry",
				zap.String("alias", alias),
				zap.Error(err))
			continue
		}
		aliases = append(aliases, *info)
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Alias < aliases[j].Alias })

	cs.record("list", true)
	return aliases, nil
}

// Get returns the entry stored under alias.
func (cs *CertStore) Get(alias string) (*model.AliasInfo, error) {
	if err := validateAlias(alias); err != nil {
		return nil, err
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	info, err := cs.load(alias)
	cs.record("get", err == nil)
	return info, err
}

// Add stores a PEM or DER encoded certificate under alias, replacing any
// previous entry. Only the first certificate of a PEM bundle is kept.
func (cs *CertStore) Add(alias string, data []byte) (*model.AliasInfo, error) {
	if err := validateAlias(alias); err != nil {
		return nil, err
	}

	cert, err := parseCertificate(data)
	if err != nil {
		cs.record("add", false)
		return nil, err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	encoded := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
	if err := writeFileAtomic(cs.path(alias), encoded); err != nil {
		cs.record("add", false)
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}
	cs.touchReloadMarker()
	cs.record("add", true)

	cs.logger.Info("Certificate added to trust store",
		zap.String("alias", alias),
		zap.String("subject", cert.Subject.String()))
	return aliasInfo(alias, cert), nil
}

// Remove deletes the entry stored under alias.
func (cs *CertStore) Remove(alias string) error {
	if err := validateAlias(alias); err != nil {
		return err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := os.Remove(cs.path(alias)); err != nil {
		cs.record("remove", false)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", constants.ErrCertificateNotFound, alias)
		}
		return fmt.Errorf("failed to remove certificate: %w", err)
	}
	cs.touchReloadMarker()
	cs.record("remove", true)

	cs.logger.Info("Certificate removed from trust store", zap.String("alias", alias))
	return nil
}

// CertPool combines the system bundle, or the host roots when no bundle is
// configured, with every certificate in the store.
func (cs *CertStore) CertPool() (*x509.CertPool, error) {
	pool, err := cs.basePool()
	if err != nil {
		return nil, err
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entries, err := os.ReadDir(cs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read trust store: %w", err)
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != certExtension {
			continue
		}
		data, err := os.ReadFile(filepath.Join(cs.dir, entry.Name()))
		if err != nil || !pool.AppendCertsFromPEM(data) {
			cs.logger.Warn("Skipping invalid trust store entry", zap.String("file", entry.Name()))
			continue
		}
		loaded++
	}

	cs.logger.Info("Certificate trust store initialized",
		zap.Int("custom_certs", loaded),
		zap.String("system_bundle", cs.systemBundle))
	return pool, nil
}

func (cs *CertStore) basePool() (*x509.CertPool, error) {
	if cs.systemBundle == "" {
		pool, err := x509.SystemCertPool()
		if err != nil {
			cs.logger.Warn("System certificate pool unavailable", zap.Error(err))
			return x509.NewCertPool(), nil
		}
		return pool, nil
	}
	data, err := os.ReadFile(cs.systemBundle)
	if err != nil {
		return nil, fmt.Errorf("failed to load system certificates: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("%w: no certificates in %s", constants.ErrCertificateInvalid, cs.systemBundle)
	}
	return pool, nil
}

// load reads an entry; the caller holds the lock.
func (cs *CertStore) load(alias string) (*model.AliasInfo, error) {
	data, err := os.ReadFile(cs.path(alias))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", constants.ErrCertificateNotFound, alias)
		}
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	cert, err := parseCertificate(data)
	if err != nil {
		return nil, err
	}
	return aliasInfo(alias, cert), nil
}

func (cs *CertStore) path(alias string) string {
	return filepath.Join(cs.dir, alias+certExtension)
}

// touchReloadMarker bumps the marker mtime so watchers of the marker pick up the change.
func (cs *CertStore) touchReloadMarker() {
	if cs.reloadMarker == "" {
		return
	}
	now := time.Now()
	err := os.Chtimes(cs.reloadMarker, now, now)
	if errors.Is(err, os.ErrNotExist) {
		var f *os.File
		if f, err = os.Create(cs.reloadMarker); err == nil {
			err = f.Close()
		}
	}
	if err != nil {
		cs.logger.Warn("Failed to touch trust store reload marker",
			zap.String("path", cs.reloadMarker),
			zap.Error(err))
	}
}

func (cs *CertStore) record(operation string, ok bool) {
	metrics.CertificateOperationsTotal.WithLabelValues(operation, metrics.Outcome(ok)).Inc()
}

func validateAlias(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return fmt.Errorf("%w: %q", constants.ErrInvalidAlias, alias)
	}
	return nil
}

// parseCertificate accepts the first CERTIFICATE block of a PEM document, or raw DER.
func parseCertificate(data []byte) (*x509.Certificate, error) {
	rest := bytes.TrimSpace(data)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", constants.ErrCertificateInvalid, err)
		}
		return cert, nil
	}

	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrCertificateInvalid, err)
	}
	return cert, nil
}

func aliasInfo(alias string, cert *x509.Certificate) *model.AliasInfo {
	return &model.AliasInfo{
		Alias:     alias,
		IssuerDN:  cert.Issuer.String(),
		SubjectDN: cert.Subject.String(),
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cert-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
