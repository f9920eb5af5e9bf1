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

package format

import (
	"encoding/base64"
	"fmt"

	"github.com/dasio/base45"
)

// DecodeBase64Std decodes a standard base64-encoded string (with or without padding).
func DecodeBase64Std(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	return b, err
}

// EncodeBase64Std encodes bytes as padded standard base64.
func EncodeBase64Std(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase45 decodes RFC 9285 base45 text. Input that does not re-encode
// to itself is rejected, which catches groups overflowing 16 or 8 bits.
func DecodeBase45(s string) ([]byte, error) {
	b, err := base45.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base45: %w", err)
	}
	if base45.EncodeToString(b) != s {
		return nil, fmt.Errorf("base45: non-canonical encoding")
	}
	return b, nil
}
