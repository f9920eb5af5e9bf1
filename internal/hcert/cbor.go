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
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		IntDec: cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

const (
	cborMajorMap  = 5
	cborBreakByte = 0xff
)

var errNotMap = errors.New("not a CBOR map")

// scanMap walks the entries of a single CBOR map, handing each raw key and
// value to fn in encoding order. Indefinite-length maps are accepted.
func scanMap(data []byte, fn func(key, value cbor.RawMessage) error) error {
	if len(data) == 0 {
		return errNotMap
	}
	if data[0]>>5 != cborMajorMap {
		return errNotMap
	}

	count, rest, indefinite, err := mapHeader(data)
	if err != nil {
		return err
	}

	for i := uint64(0); indefinite || i < count; i++ {
		if indefinite {
			if len(rest) == 0 {
				return errors.New("unterminated indefinite-length map")
			}
			if rest[0] == cborBreakByte {
				rest = rest[1:]
				break
			}
		}
		var key, value cbor.RawMessage
		if rest, err = cborDecMode.UnmarshalFirst(rest, &key); err != nil {
			return fmt.Errorf("map key %d: %w", i, err)
		}
		if rest, err = cborDecMode.UnmarshalFirst(rest, &value); err != nil {
			return fmt.Errorf("map value %d: %w", i, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	if len(rest) != 0 {
		return fmt.Errorf("%d trailing bytes after map", len(rest))
	}
	return nil
}

func mapHeader(data []byte) (count uint64, rest []byte, indefinite bool, err error) {
	info := data[0] & 0x1f
	switch {
	case info < 24:
		return uint64(info), data[1:], false, nil
	case info == 31:
		return 0, data[1:], true, nil
	case info > 27:
		return 0, nil, false, fmt.Errorf("malformed map header 0x%02x", data[0])
	}

	n := 1 << (info - 24)
	if len(data) < 1+n {
		return 0, nil, false, errors.New("truncated map header")
	}
	b := data[1 : 1+n]
	switch n {
	case 1:
		count = uint64(b[0])
	case 2:
		count = uint64(binary.BigEndian.Uint16(b))
	case 4:
		count = uint64(binary.BigEndian.Uint32(b))
	case 8:
		count = binary.BigEndian.Uint64(b)
	}
	return count, data[1+n:], false, nil
}

// scanIntKeys scans a map whose keys must all be integers. A repeated key is
// rejected even when its encodings differ.
func scanIntKeys(data []byte, fn func(key int64, value cbor.RawMessage) error) error {
	seen := make(map[int64]bool)
	return scanMap(data, func(rawKey, value cbor.RawMessage) error {
		var key int64
		if err := cborDecMode.Unmarshal(rawKey, &key); err != nil {
			return fmt.Errorf("non-integer map key: %w", err)
		}
		if seen[key] {
			return fmt.Errorf("duplicate key %d", key)
		}
		seen[key] = true
		return fn(key, value)
	})
}

// scanStringKeys is scanIntKeys for text-keyed maps.
func scanStringKeys(data []byte, fn func(key string, value cbor.RawMessage) error) error {
	seen := make(map[string]bool)
	return scanMap(data, func(rawKey, value cbor.RawMessage) error {
		var key string
		if err := cborDecMode.Unmarshal(rawKey, &key); err != nil {
			return fmt.Errorf("non-text map key: %w", err)
		}
		if seen[key] {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true
		return fn(key, value)
	})
}

// requireKeys reports the first name in want that is absent from seen.
func requireKeys(seen map[string]bool, want ...string) error {
	for _, k := range want {
		if !seen[k] {
			return fmt.Errorf("missing key %q", k)
		}
	}
	return nil
}

func decodeString(raw cbor.RawMessage, field string) (string, error) {
	var s string
	if err := cborDecMode.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s: expected text: %w", field, err)
	}
	return s, nil
}

func decodeInt(raw cbor.RawMessage, field string) (int64, error) {
	var n int64
	if err := cborDecMode.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%s: expected integer: %w", field, err)
	}
	return n, nil
}

func decodeTimestamp(raw cbor.RawMessage, field string) (time.Time, error) {
	n, err := decodeInt(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(n, 0).UTC(), nil
}

const dateLayout = "2006-01-02"

// decodeDate parses a YYYY-MM-DD calendar date.
func decodeDate(raw cbor.RawMessage, field string) (time.Time, error) {
	s, err := decodeString(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date %q", field, s)
	}
	return t, nil
}

// decodeDateOrTime accepts a calendar date or an RFC 3339 timestamp. Test
// sample times are issued in either form.
func decodeDateOrTime(raw cbor.RawMessage, field string) (time.Time, error) {
	s, err := decodeString(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date %q", field, s)
	}
	return t, nil
}
