// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pkpass builds signed wallet pass archives.
package pkpass

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zip"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/pass"
)

const (
	ContentType = "application/vnd.apple.pkpass"
	FileName    = "ehealth.pkpass"

	passFile      = "pass.json"
	manifestFile  = "manifest.json"
	signatureFile = "signature"
)

// Manifest maps archive paths to the SHA-1 hex digest of their contents.
type Manifest map[string]string

// Packager turns passes into signed archives. It is safe for concurrent use.
type Packager struct {
	signer *Signer
	assets []Asset
}

// New returns a Packager that stores assets in every archive in the given order.
func New(signer *Signer, assets []Asset) *Packager {
	return &Packager{signer: signer, assets: assets}
}

// Package serializes p and returns the zip archive bytes. Errors are tagged
// failure.Packaging and no partial archive is returned.
func (pk *Packager) Package(p *pass.Pass) ([]byte, error) {
	out, err := pk.build(p)
	if err != nil {
		return nil, failure.Wrap(failure.Packaging, err)
	}
	return out, nil
}

func (pk *Packager) build(p *pass.Pass) ([]byte, error) {
	if pk.signer == nil {
		return nil, errors.New("no pass signer configured")
	}
	passJSON, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding pass: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	manifest := Manifest{}

	if err := writeEntry(zw, passFile, passJSON); err != nil {
		return nil, err
	}
	manifest[passFile] = digest(passJSON)

	for _, a := range pk.assets {
		if err := writeEntry(zw, a.Name, a.Data); err != nil {
			return nil, err
		}
		manifest[a.Name] = digest(a.Data)
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := writeEntry(zw, manifestFile, manifestJSON); err != nil {
		return nil, err
	}

	sig, err := pk.signer.Sign(manifestJSON)
	if err != nil {
		return nil, fmt.Errorf("signing manifest: %w", err)
	}
	if err := writeEntry(zw, signatureFile, sig); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// writeEntry stores data under name with a zero modification time.
func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
