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
	"strings"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/format"
	"github.com/dominikschlosser/healthpass/internal/valueset"
	"github.com/google/uuid"
)

// Decode decodes raw according to its detected scheme. Errors carry a
// failure.Category: unsupported, input_format or unknown_code.
func Decode(raw string, reg *valueset.Registry) (Credential, error) {
	switch scheme := format.Detect(raw); scheme {
	case format.SchemeEUDCC:
		return DecodeEU(raw, reg)
	case format.SchemeTurkeyVaccination:
		return DecodeTurkeyVaccination(raw)
	case format.SchemeTurkeyHES:
		return DecodeTurkeyHES(raw)
	default:
		return nil, failure.Errorf(failure.Unsupported, "unrecognised credential scheme")
	}
}

// DecodeEU decodes an "HC1:" string into an EUCredential. The signature is
// not checked; see Verify.
func DecodeEU(raw string, reg *valueset.Registry) (*EUCredential, error) {
	body, ok := strings.CutPrefix(raw, format.EUDCCPrefix)
	if !ok {
		return nil, failure.Errorf(failure.InputFormat, "missing %q prefix", format.EUDCCPrefix)
	}

	compressed, err := format.DecodeBase45(body)
	if err != nil {
		return nil, failure.Wrap(failure.InputFormat, err)
	}

	data, err := Inflate(compressed)
	if err != nil {
		return nil, failure.Wrap(failure.InputFormat, err)
	}

	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, failure.Wrap(failure.InputFormat, fmt.Errorf("parsing COSE_Sign1: %w", err))
	}

	cred, err := decodePayload(env.Payload, reg)
	if err != nil {
		var unknown *valueset.UnknownCodeError
		if errors.As(err, &unknown) {
			return nil, failure.Wrap(failure.UnknownCode, err)
		}
		return nil, failure.Wrap(failure.InputFormat, fmt.Errorf("decoding payload: %w", err))
	}
	cred.Envelope = env
	return cred, nil
}

// DecodeTurkeyVaccination keeps the verification URL verbatim.
func DecodeTurkeyVaccination(raw string) (*TurkeyVaccinationCredential, error) {
	if !strings.HasPrefix(raw, format.TurkeyVaccinationURLPrefix) {
		return nil, failure.Errorf(failure.InputFormat, "not a Turkish vaccination verification URL")
	}
	return &TurkeyVaccinationCredential{URL: raw}, nil
}

// DecodeTurkeyHES splits "<uuid>|<code>". The code is kept verbatim.
func DecodeTurkeyHES(raw string) (*TurkeyHESCredential, error) {
	if !format.IsHESCode(raw) {
		return nil, failure.Errorf(failure.InputFormat, "not a HES code")
	}
	session, code, _ := strings.Cut(raw, format.HESSeparator)
	id, err := uuid.Parse(strings.ReplaceAll(session, "-", ""))
	if err != nil {
		return nil, failure.Wrap(failure.InputFormat, fmt.Errorf("parsing HES session id: %w", err))
	}
	return &TurkeyHESCredential{Session: id, Code: code}, nil
}
