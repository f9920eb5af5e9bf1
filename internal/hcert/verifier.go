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

package hcert

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/veraison/go-cose"
)

var (
	ErrNoEnvelope           = errors.New("credential has no signed envelope")
	ErrUnknownSigningKey    = errors.New("unknown signing key")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrSignatureLength      = errors.New("invalid signature length")
)

// KeyResolver finds the public key for an issuer's key id.
// *trustlist.KeyIndex implements it.
type KeyResolver interface {
	Lookup(issuer string, kid []byte) (crypto.PublicKey, bool)
}

// strategy verifies sig over the Sig_structure bytes.
type strategy func(pub crypto.PublicKey, toBeSigned, sig []byte) error

var strategies = map[int64]strategy{
	int64(cose.AlgorithmES256): verifyES256,
	int64(cose.AlgorithmPS256): verifyPS256,
}

// AlgorithmName returns the COSE name for a supported algorithm id.
func AlgorithmName(id int64) string {
	switch cose.Algorithm(id) {
	case cose.AlgorithmES256:
		return "ES256"
	case cose.AlgorithmPS256:
		return "PS256"
	default:
		return fmt.Sprintf("unknown(%d)", id)
	}
}

// Verify checks the issuer signature of an EU credential against keys.
// Every failure is tagged failure.UntrustedSigner.
func Verify(cred *EUCredential, keys KeyResolver) error {
	if err := verify(cred, keys); err != nil {
		return failure.Wrap(failure.UntrustedSigner, err)
	}
	return nil
}

func verify(cred *EUCredential, keys KeyResolver) error {
	env := cred.Envelope
	if env == nil {
		return ErrNoEnvelope
	}

	pub, ok := keys.Lookup(cred.Issuer, env.KeyID)
	if !ok {
		return fmt.Errorf("%w: issuer %s kid %x", ErrUnknownSigningKey, cred.Issuer, env.KeyID)
	}

	verifyFn, ok := strategies[env.Algorithm]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, AlgorithmName(env.Algorithm))
	}

	tbs, err := env.ToBeSigned()
	if err != nil {
		return fmt.Errorf("building Sig_structure: %w", err)
	}
	return verifyFn(pub, tbs, env.Signature)
}

// verifyES256 expects the 64-byte r||s encoding.
func verifyES256(pub crypto.PublicKey, toBeSigned, sig []byte) error {
	if len(sig) != 64 {
		return fmt.Errorf("%w: ES256 needs 64 bytes, got %d", ErrSignatureLength, len(sig))
	}
	return coseVerify(cose.AlgorithmES256, pub, toBeSigned, sig)
}

func verifyPS256(pub crypto.PublicKey, toBeSigned, sig []byte) error {
	return coseVerify(cose.AlgorithmPS256, pub, toBeSigned, sig)
}

func coseVerify(alg cose.Algorithm, pub crypto.PublicKey, toBeSigned, sig []byte) error {
	verifier, err := cose.NewVerifier(alg, pub)
	if err != nil {
		return fmt.Errorf("creating %s verifier: %w", alg, err)
	}
	if err := verifier.Verify(toBeSigned, sig); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}
