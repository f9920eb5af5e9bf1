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
	"regexp"
	"strings"
)

type Scheme string

const (
	SchemeEUDCC             Scheme = "eu_dcc"
	SchemeTurkeyVaccination Scheme = "tr_vaccination"
	SchemeTurkeyHES         Scheme = "tr_hes"
	SchemeUnknown           Scheme = "unknown"
)

const (
	// EUDCCPrefix marks a base45 encoded EU digital COVID certificate.
	EUDCCPrefix = "HC1:"
	// TurkeyVaccinationURLPrefix is the Turkish health ministry verification endpoint.
	TurkeyVaccinationURLPrefix = "https://covidasidogrulama.saglik.gov.tr/api/CovidAsiKartiDogrula"
	// HESSeparator splits the session UUID from the HES code.
	HESSeparator = "|"
)

// hesPattern matches "<uuid>|<hes code>". The UUID may omit its dashes; the HES
// code is 8 to 12 alphanumerics with optional single dashes between them.
var hesPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12}\|(?:[A-Za-z0-9]-?){7,11}[A-Za-z0-9]$`)

// Detect classifies a scanned QR payload.
//
// Detection order:
//  1. "HC1:" prefix
//  2. Turkish vaccination verification URL
//  3. "<uuid>|<hes code>" pattern
//
// Anything else is SchemeUnknown.
func Detect(input string) Scheme {
	switch {
	case strings.HasPrefix(input, EUDCCPrefix):
		return SchemeEUDCC
	case strings.HasPrefix(input, TurkeyVaccinationURLPrefix):
		return SchemeTurkeyVaccination
	case hesPattern.MatchString(input):
		return SchemeTurkeyHES
	default:
		return SchemeUnknown
	}
}

// IsHESCode reports whether s matches the HES pattern.
func IsHESCode(s string) bool {
	return hesPattern.MatchString(s)
}
