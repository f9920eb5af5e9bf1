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
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

func TestScanIntKeys(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []int64
		wantErr bool
	}{
		{"empty map", []byte{0xa0}, nil, false},
		{"definite", []byte{0xa2, 0x01, 0x61, 'a', 0x20, 0x61, 'b'}, []int64{1, -1}, false},
		{"indefinite", []byte{0xbf, 0x04, 0x00, 0x06, 0x00, 0xff}, []int64{4, 6}, false},
		{"one-byte count", []byte{0xb8, 0x01, 0x01, 0x00}, []int64{1}, false},
		{"duplicate", []byte{0xa2, 0x01, 0x00, 0x01, 0x00}, nil, true},
		{"duplicate non-canonical", []byte{0xa2, 0x01, 0x00, 0x18, 0x01, 0x00}, nil, true},
		{"text key", []byte{0xa1, 0x61, 'a', 0x00}, nil, true},
		{"not a map", []byte{0x80}, nil, true},
		{"empty input", nil, nil, true},
		{"truncated", []byte{0xa2, 0x01, 0x00}, nil, true},
		{"unterminated indefinite", []byte{0xbf, 0x01, 0x00}, nil, true},
		{"trailing bytes", []byte{0xa1, 0x01, 0x00, 0x00}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			err := scanIntKeys(tt.data, func(key int64, _ cbor.RawMessage) error {
				got = append(got, key)
				return nil
			})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("keys = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("keys = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestScanStringKeys_Duplicate(t *testing.T) {
	data := []byte{0xa2, 0x61, 'v', 0x80, 0x61, 'v', 0x80}
	err := scanStringKeys(data, func(string, cbor.RawMessage) error { return nil })
	if err == nil {
		t.Error("expected duplicate key error")
	}
}

func TestDecodeDate(t *testing.T) {
	enc := func(s string) cbor.RawMessage {
		b, _ := cbor.Marshal(s)
		return b
	}
	if _, err := decodeDate(enc("2021-02-30"), "dt"); err == nil {
		t.Error("expected error for impossible date")
	}
	if _, err := decodeDate(enc("2021-06-01T00:00:00Z"), "dt"); err == nil {
		t.Error("decodeDate must not accept timestamps")
	}
	if _, err := decodeDateOrTime(enc("2021-06-01T10:00:00+02:00"), "sc"); err != nil {
		t.Errorf("decodeDateOrTime: %v", err)
	}
}

func TestInflate(t *testing.T) {
	input := bytes.Repeat([]byte("health certificate "), 20)

	var raw bytes.Buffer
	fw, _ := flate.NewWriter(&raw, flate.DefaultCompression)
	fw.Write(input)
	fw.Close()

	var zl bytes.Buffer
	zw := zlib.NewWriter(&zl)
	zw.Write(input)
	zw.Close()

	for name, data := range map[string][]byte{"raw": raw.Bytes(), "zlib": zl.Bytes()} {
		out, err := Inflate(data)
		if err != nil {
			t.Errorf("%s: Inflate() error: %v", name, err)
			continue
		}
		if !bytes.Equal(out, input) {
			t.Errorf("%s: output mismatch", name)
		}
	}

	if _, err := Inflate([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestHasZlibHeader(t *testing.T) {
	tests := []struct {
		in   []byte
		want bool
	}{
		{[]byte{0x78, 0x9c}, true},
		{[]byte{0x78, 0xda}, true},
		{[]byte{0x78, 0x01}, true},
		{[]byte{0x78, 0x9d}, false},
		{[]byte{0x78, 0xbb}, false}, // preset dictionary
		{[]byte{0x78}, false},
	}
	for _, tt := range tests {
		if got := hasZlibHeader(tt.in); got != tt.want {
			t.Errorf("hasZlibHeader(%x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
