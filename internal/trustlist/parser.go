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

package trustlist

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dominikschlosser/healthpass/internal/format"
	"github.com/dominikschlosser/healthpass/internal/keys"
)

type rawEntry struct {
	KID       string `json:"kid"`
	PublicKey string `json:"publicKey"`
}

// Parse parses a trust list document: a JSON array of
// {"kid": base64, "publicKey": base64 DER SubjectPublicKeyInfo}.
func Parse(data []byte) ([]Entry, error) {
	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing trust list: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		kid, err := format.DecodeBase64Std(r.KID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: decoding kid: %w", i, err)
		}
		if len(kid) == 0 {
			return nil, fmt.Errorf("entry %d: empty kid", i)
		}
		der, err := format.DecodeBase64Std(r.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("entry %d: decoding public key: %w", i, err)
		}
		pub, err := keys.ParsePublicKey(der)
		if err != nil {
			return nil, fmt.Errorf("entry %d: parsing public key: %w", i, err)
		}
		entries = append(entries, Entry{KeyID: kid, PublicKey: pub})
	}
	return entries, nil
}

// Fetch loads and parses a trust list from a URL or file path.
func Fetch(ctx context.Context, source string) ([]Entry, error) {
	data, err := format.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// NewKeyIndex builds an index from per-issuer entry lists.
// A later duplicate (issuer, kid) replaces an earlier one.
func NewKeyIndex(byIssuer map[string][]Entry) *KeyIndex {
	idx := &KeyIndex{keys: make(map[indexKey]crypto.PublicKey)}
	for issuer, entries := range byIssuer {
		for _, e := range entries {
			idx.keys[indexKey{issuer: issuer, kid: string(e.KeyID)}] = e.PublicKey
		}
	}
	return idx
}

// Lookup returns the public key registered for issuer and kid.
func (idx *KeyIndex) Lookup(issuer string, kid []byte) (crypto.PublicKey, bool) {
	if idx == nil {
		return nil, false
	}
	pub, ok := idx.keys[indexKey{issuer: issuer, kid: string(kid)}]
	return pub, ok
}

// Len returns the number of indexed keys.
func (idx *KeyIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.keys)
}

// Entries returns all indexed keys ordered by issuer then key id.
func (idx *KeyIndex) Entries() []IndexedKey {
	if idx == nil {
		return nil
	}
	out := make([]IndexedKey, 0, len(idx.keys))
	for k, pub := range idx.keys {
		out = append(out, IndexedKey{Issuer: k.issuer, KeyID: []byte(k.kid), PublicKey: pub})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Issuer != out[j].Issuer {
			return out[i].Issuer < out[j].Issuer
		}
		return bytes.Compare(out[i].KeyID, out[j].KeyID) < 0
	})
	return out
}
