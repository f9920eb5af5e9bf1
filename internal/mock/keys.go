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

package mock

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/dominikschlosser/healthpass/internal/format"
)

// GenerateKey creates an ephemeral P-256 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// GenerateRSAKey creates an ephemeral 2048-bit RSA key, the minimum PS256 accepts.
func GenerateRSAKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}

// TrustListEntry is one signing key for TrustListJSON.
type TrustListEntry struct {
	KeyID     []byte
	PublicKey crypto.PublicKey
}

// TrustListJSON renders entries in the NHS key list format:
// [{"kid": base64, "publicKey": base64 DER SubjectPublicKeyInfo}].
func TrustListJSON(entries ...TrustListEntry) ([]byte, error) {
	type rawEntry struct {
		KID       string `json:"kid"`
		PublicKey string `json:"publicKey"`
	}
	out := make([]rawEntry, 0, len(entries))
	for _, e := range entries {
		der, err := x509.MarshalPKIXPublicKey(e.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("marshaling public key: %w", err)
		}
		out = append(out, rawEntry{
			KID:       format.EncodeBase64Std(e.KeyID),
			PublicKey: format.EncodeBase64Std(der),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// PassCredentials is a pass signing chain: a root CA, an intermediate CA
// standing in for the Apple WWDR certificate, and a leaf pass certificate.
type PassCredentials struct {
	Root         *x509.Certificate
	Intermediate *x509.Certificate
	Cert         *x509.Certificate
	Key          *ecdsa.PrivateKey
}

// GeneratePassCredentials creates a fresh three-level certificate chain.
func GeneratePassCredentials(passTypeID string) (*PassCredentials, error) {
	now := time.Now()

	rootKey, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	rootTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test Root CA"},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	root, err := createCert(rootTmpl, rootTmpl, &rootKey.PublicKey, rootKey)
	if err != nil {
		return nil, fmt.Errorf("creating root: %w", err)
	}

	intKey, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	intTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(2),
		Subject:               pkix.Name{CommonName: "Test Worldwide Developer Relations CA", OrganizationalUnit: []string{"G4"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	intermediate, err := createCert(intTmpl, root, &intKey.PublicKey, rootKey)
	if err != nil {
		return nil, fmt.Errorf("creating intermediate: %w", err)
	}

	leafKey, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject:      pkix.Name{CommonName: "Pass Type ID: " + passTypeID, OrganizationalUnit: []string{"MQ9TN9772U"}},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	leaf, err := createCert(leafTmpl, intermediate, &leafKey.PublicKey, intKey)
	if err != nil {
		return nil, fmt.Errorf("creating leaf: %w", err)
	}

	return &PassCredentials{Root: root, Intermediate: intermediate, Cert: leaf, Key: leafKey}, nil
}

func createCert(tmpl, parent *x509.Certificate, pub crypto.PublicKey, signer crypto.Signer) (*x509.Certificate, error) {
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, signer)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

// PassCredentialFiles are the on-disk paths written by WriteFiles.
type PassCredentialFiles struct {
	Cert         string
	Key          string
	Intermediate string
}

// WriteFiles stores the leaf certificate, key and intermediate as DER files
// in dir, the layout the serve command reads at startup.
func (c *PassCredentials) WriteFiles(dir string) (PassCredentialFiles, error) {
	keyDER, err := x509.MarshalPKCS8PrivateKey(c.Key)
	if err != nil {
		return PassCredentialFiles{}, err
	}
	files := PassCredentialFiles{
		Cert:         filepath.Join(dir, "pass.cer"),
		Key:          filepath.Join(dir, "pass.key"),
		Intermediate: filepath.Join(dir, "AppleWWDRCA.cer"),
	}
	for path, data := range map[string][]byte{
		files.Cert:         c.Cert.Raw,
		files.Key:          keyDER,
		files.Intermediate: c.Intermediate.Raw,
	} {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return PassCredentialFiles{}, err
		}
	}
	return files, nil
}
