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
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// maxInflatedSize bounds decompression output; real certificates are a few KB.
const maxInflatedSize = 1 << 20

// Inflate decompresses a raw DEFLATE stream. Streams that start with a valid
// zlib header are read through the zlib reader first, and fall back to raw
// DEFLATE if that fails.
func Inflate(data []byte) ([]byte, error) {
	if hasZlibHeader(data) {
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			out, err := readAllLimited(zr)
			if err == nil {
				return out, nil
			}
		}
	}
	out, err := readAllLimited(flate.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("inflating: %w", err)
	}
	return out, nil
}

func readAllLimited(r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxInflatedSize {
		return nil, fmt.Errorf("inflated data exceeds %d bytes", maxInflatedSize)
	}
	return out, nil
}

// hasZlibHeader checks the RFC 1950 CMF/FLG pair: deflate method, window at
// most 32K, no preset dictionary, and a valid FCHECK.
func hasZlibHeader(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0f != 8 || cmf>>4 > 7 {
		return false
	}
	if flg&0x20 != 0 {
		return false
	}
	return (uint16(cmf)<<8|uint16(flg))%31 == 0
}
