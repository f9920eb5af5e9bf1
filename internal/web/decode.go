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

package web

import (
	"github.com/dominikschlosser/healthpass/internal/convert"
	"github.com/dominikschlosser/healthpass/internal/output"
	"github.com/dominikschlosser/healthpass/internal/pass"
)

// Decode decodes and verifies input and returns the credential together with
// the pass.json that /qr-data would package for it.
func Decode(conv *convert.Converter, input string) (map[string]any, error) {
	cred, err := conv.Decode(input)
	if err != nil {
		return nil, err
	}
	p, err := pass.FromCredential(cred, input, conv.Options)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"credential": output.BuildCredentialJSON(cred),
		"pass":       p,
	}, nil
}
