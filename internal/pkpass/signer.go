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

package pkpass

import (
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"

	"go.mozilla.org/pkcs7"

	"github.com/dominikschlosser/healthpass/internal/keys"
)

var (
	ErrKeyMismatch   = errors.New("private key does not match certificate")
	ErrChainMismatch = errors.New("certificate is not issued by the intermediate")
)

// Signer produces the detached PKCS#7 signature over a pass manifest.
type Signer struct {
	cert          *x509.Certificate
	key           crypto.Signer
	intermediates []*x509.Certificate
}

// NewSigner checks that key belongs to cert and that cert is signed by the
// first intermediate. The intermediates are embedded in every signature after
// the leaf.
func NewSigner(cert *x509.Certificate, key crypto.Signer, intermediates ...*x509.Certificate) (*Signer, error) {
	if cert == nil || key == nil {
		return nil, errors.New("certificate and key are required")
	}
	pub, ok := key.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok || !pub.Equal(cert.PublicKey) {
		return nil, ErrKeyMismatch
	}
	if len(intermediates) > 0 {
		if err := cert.CheckSignatureFrom(intermediates[0]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChainMismatch, err)
		}
	}
	return &Signer{cert: cert, key: key, intermediates: intermediates}, nil
}

// LoadSigner reads the pass certificate, its key and the intermediate
// certificate from disk.
func LoadSigner(certPath, keyPath, intermediatePath string) (*Signer, error) {
	cert, err := keys.LoadCertificate(certPath)
	if err != nil {
		return nil, fmt.Errorf("loading pass certificate: %w", err)
	}
	key, err := keys.LoadPrivateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading pass key: %w", err)
	}
	intermediate, err := keys.LoadCertificate(intermediatePath)
	if err != nil {
		return nil, fmt.Errorf("loading intermediate certificate: %w", err)
	}
	return NewSigner(cert, key, intermediate)
}

// Certificate returns the leaf pass certificate.
func (s *Signer) Certificate() *x509.Certificate { return s.cert }

// Sign returns a DER encoded detached signature over content. The digest is
// SHA-256 and no CRLs are embedded.
func (s *Signer) Sign(content []byte) ([]byte, error) {
	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, fmt.Errorf("creating signed data: %w", err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err := sd.AddSignerChain(s.cert, s.key, s.intermediates, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("adding signer: %w", err)
	}
	sd.Detach()
	der, err := sd.Finish()
	if err != nil {
		return nil, fmt.Errorf("finishing signature: %w", err)
	}
	return der, nil
}
