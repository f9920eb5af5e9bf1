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

import "crypto"

// DefaultURL is the NHS endpoint publishing the GB DCC signing keys.
const DefaultURL = "https://covid-status.service.nhsx.nhs.uk/pubkeys/keys.json"

// DefaultIssuer is the issuer country the default trust list is scoped to.
const DefaultIssuer = "GB"

// Entry is one signing key from a trust list document.
type Entry struct {
	KeyID     []byte
	PublicKey crypto.PublicKey
}

// KeyIndex maps (issuer country, key id) to a signing public key.
// It is built once and only read afterwards; rotating keys requires a restart.
type KeyIndex struct {
	keys map[indexKey]crypto.PublicKey
}

type indexKey struct {
	issuer string
	kid    string
}

// IndexedKey is a KeyIndex entry as returned by Entries.
type IndexedKey struct {
	Issuer    string
	KeyID     []byte
	PublicKey crypto.PublicKey
}
