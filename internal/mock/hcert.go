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
	"bytes"
	"crypto"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/dasio/base45"
	"github.com/dominikschlosser/healthpass/internal/format"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/veraison/go-cose"
)

// HC1Config holds options for generating a signed EU health certificate.
type HC1Config struct {
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Claims are the hcert v1 claims; VaccinationClaims() if nil.
	Claims map[string]any

	Key       crypto.Signer
	KeyID     []byte
	Algorithm cose.Algorithm // ES256 if zero

	// Untagged omits CBOR tag 18 around the COSE_Sign1 array.
	Untagged bool
	// Zlib wraps the DEFLATE stream in a zlib header and checksum.
	Zlib bool
}

// GenerateHC1 creates an "HC1:" string: base45(deflate(COSE_Sign1(CWT))).
func GenerateHC1(cfg HC1Config) (string, error) {
	payload, err := EncodePayload(cfg)
	if err != nil {
		return "", err
	}
	msg, err := SignCOSE(cfg, payload)
	if err != nil {
		return "", err
	}
	return WrapHC1(msg, cfg.Zlib)
}

// EncodePayload builds the CWT payload map with integer claim keys.
func EncodePayload(cfg HC1Config) ([]byte, error) {
	claims := cfg.Claims
	if claims == nil {
		claims = VaccinationClaims()
	}
	iat, exp := cfg.IssuedAt, cfg.ExpiresAt
	if iat.IsZero() {
		iat = time.Now().UTC().Truncate(time.Second)
	}
	if exp.IsZero() {
		exp = iat.Add(365 * 24 * time.Hour)
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "GB"
	}

	payload := map[int]any{
		1: issuer,
		6: iat.Unix(),
		4: exp.Unix(),
		-260: map[int]any{
			1: claims,
		},
	}
	b, err := cbor.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding CWT payload: %w", err)
	}
	return b, nil
}

// SignCOSE signs payload as a COSE_Sign1 message with alg and kid in the
// protected header.
func SignCOSE(cfg HC1Config, payload []byte) ([]byte, error) {
	if cfg.Key == nil {
		return nil, errors.New("no signing key")
	}
	alg := cfg.Algorithm
	if alg == 0 {
		alg = cose.AlgorithmES256
	}

	signer, err := cose.NewSigner(alg, cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("creating COSE signer: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(alg)
	if cfg.KeyID != nil {
		msg.Headers.Protected[cose.HeaderLabelKeyID] = cfg.KeyID
	}
	msg.Payload = payload

	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("COSE signing: %w", err)
	}

	out, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encoding COSE_Sign1: %w", err)
	}
	if cfg.Untagged {
		var tag cbor.RawTag
		if err := cbor.Unmarshal(out, &tag); err != nil {
			return nil, fmt.Errorf("stripping COSE tag: %w", err)
		}
		out = tag.Content
	}
	return out, nil
}

// WrapHC1 compresses and base45 encodes a COSE message.
func WrapHC1(coseMsg []byte, useZlib bool) (string, error) {
	var buf bytes.Buffer
	var err error
	if useZlib {
		w := zlib.NewWriter(&buf)
		if _, err = w.Write(coseMsg); err == nil {
			err = w.Close()
		}
	} else {
		var w *flate.Writer
		if w, err = flate.NewWriter(&buf, flate.BestCompression); err == nil {
			if _, err = w.Write(coseMsg); err == nil {
				err = w.Close()
			}
		}
	}
	if err != nil {
		return "", fmt.Errorf("compressing: %w", err)
	}
	return format.EUDCCPrefix + base45.EncodeToString(buf.Bytes()), nil
}

// ReplaceSignature rebuilds a COSE_Sign1 message with a different signature.
// The result is tagged.
func ReplaceSignature(coseMsg, sig []byte) ([]byte, error) {
	var tag cbor.RawTag
	content := coseMsg
	if err := cbor.Unmarshal(coseMsg, &tag); err == nil {
		content = tag.Content
	}
	var arr []cbor.RawMessage
	if err := cbor.Unmarshal(content, &arr); err != nil {
		return nil, err
	}
	if len(arr) != 4 {
		return nil, fmt.Errorf("expected 4 elements, got %d", len(arr))
	}
	rawSig, err := cbor.Marshal(sig)
	if err != nil {
		return nil, err
	}
	arr[3] = rawSig
	return cbor.Marshal(cbor.Tag{Number: 18, Content: arr})
}
