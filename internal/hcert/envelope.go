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
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// coseSign1Tag is the CBOR tag for COSE_Sign1.
const coseSign1Tag = 18

// COSE header labels.
const (
	headerLabelAlgorithm = 1
	headerLabelKeyID     = 4
)

// Envelope is a parsed COSE_Sign1 structure. Protected and Payload keep the
// exact bytes that were signed.
type Envelope struct {
	Protected   []byte
	Unprotected map[any]any
	Payload     []byte
	Signature   []byte

	// Algorithm is the COSE algorithm id from the protected header, 0 if absent.
	Algorithm int64
	// KeyID is the kid from the protected header, nil if absent.
	KeyID []byte
}

var errEmptyPayload = errors.New("COSE_Sign1 payload is empty")

// ParseEnvelope parses a COSE_Sign1 message, with or without its tag.
func ParseEnvelope(data []byte) (*Envelope, error) {
	content := data
	var tag cbor.RawTag
	if err := cborDecMode.Unmarshal(data, &tag); err == nil {
		if tag.Number != coseSign1Tag {
			return nil, fmt.Errorf("unexpected CBOR tag %d", tag.Number)
		}
		content = tag.Content
	}

	var arr []cbor.RawMessage
	if err := cborDecMode.Unmarshal(content, &arr); err != nil {
		return nil, fmt.Errorf("decoding COSE_Sign1 array: %w", err)
	}
	if len(arr) != 4 {
		return nil, fmt.Errorf("COSE_Sign1 expected 4 elements, got %d", len(arr))
	}

	env := &Envelope{}
	if err := cborDecMode.Unmarshal(arr[0], &env.Protected); err != nil {
		return nil, fmt.Errorf("protected header: expected bstr: %w", err)
	}
	if err := cborDecMode.Unmarshal(arr[1], &env.Unprotected); err != nil {
		return nil, fmt.Errorf("unprotected header: expected map: %w", err)
	}
	if err := cborDecMode.Unmarshal(arr[2], &env.Payload); err != nil {
		return nil, fmt.Errorf("payload: expected bstr: %w", err)
	}
	if err := cborDecMode.Unmarshal(arr[3], &env.Signature); err != nil {
		return nil, fmt.Errorf("signature: expected bstr: %w", err)
	}
	if len(env.Payload) == 0 {
		return nil, errEmptyPayload
	}

	if len(env.Protected) > 0 {
		if err := env.parseProtected(); err != nil {
			return nil, fmt.Errorf("protected header: %w", err)
		}
	}
	return env, nil
}

func (e *Envelope) parseProtected() error {
	return scanIntKeys(e.Protected, func(label int64, value cbor.RawMessage) error {
		switch label {
		case headerLabelAlgorithm:
			alg, err := decodeInt(value, "alg")
			if err != nil {
				return err
			}
			e.Algorithm = alg
		case headerLabelKeyID:
			if err := cborDecMode.Unmarshal(value, &e.KeyID); err != nil {
				return fmt.Errorf("kid: expected bstr: %w", err)
			}
		}
		return nil
	})
}

// ToBeSigned builds the COSE Sig_structure for a Sign1 message with empty
// external data: ["Signature1", protected, h'', payload].
func (e *Envelope) ToBeSigned() ([]byte, error) {
	protected := e.Protected
	if protected == nil {
		protected = []byte{}
	}
	return cbor.Marshal([]any{"Signature1", protected, []byte{}, e.Payload})
}
