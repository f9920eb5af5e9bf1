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

// Package mock generates test fixtures: signed HC1 certificates, trust lists
// and pass signing credentials.
package mock

// DefaultUVCI is the certificate identifier used by the default records.
const DefaultUVCI = "URN:UVCI:ABC123#9"

// Name returns the nam claim for the default subject.
func Name() map[string]any {
	return map[string]any{
		"fn":  "Mustermann",
		"fnt": "MUSTERMANN",
		"gn":  "Erika",
		"gnt": "ERIKA",
	}
}

// VaccinationClaims returns hcert v1 claims with one dose 2/2 Comirnaty record.
func VaccinationClaims() map[string]any {
	return map[string]any{
		"ver": "1.3.0",
		"nam": Name(),
		"dob": "1984-08-12",
		"v": []any{map[string]any{
			"tg": "840539006",
			"vp": "1119349007",
			"mp": "EU/1/20/1528",
			"ma": "ORG-100030215",
			"dn": 2,
			"sd": 2,
			"dt": "2021-06-01",
			"co": "GB",
			"is": "NHS Digital",
			"ci": DefaultUVCI,
		}},
	}
}

// TestClaims returns hcert v1 claims with one negative rapid antigen test.
func TestClaims() map[string]any {
	return map[string]any{
		"ver": "1.3.0",
		"nam": Name(),
		"dob": "1984-08-12",
		"t": []any{map[string]any{
			"tg": "840539006",
			"tt": "LP217198-3",
			"ma": "1232",
			"sc": "2021-06-10T08:15:00Z",
			"tr": "260415000",
			"tc": "Test Centre Vienna",
			"co": "AT",
			"is": "Ministry of Health, Austria",
			"ci": "URN:UVCI:01:AT:T3ST#X",
		}},
	}
}

// RecoveryClaims returns hcert v1 claims with one recovery record.
func RecoveryClaims() map[string]any {
	return map[string]any{
		"ver": "1.3.0",
		"nam": Name(),
		"dob": "1984-08-12",
		"r": []any{map[string]any{
			"tg": "840539006",
			"fr": "2021-03-01",
			"df": "2021-03-12",
			"du": "2021-08-28",
			"co": "DE",
			"is": "Robert Koch-Institut",
			"ci": "URN:UVCI:01DE/5CWLU12RNOB9RXSEOP6FG8#W",
		}},
	}
}

// TurkeyVaccinationURL is a verification URL carrying Guid=XYZ.
const TurkeyVaccinationURL = "https://covidasidogrulama.saglik.gov.tr/api/CovidAsiKartiDogrula?Guid=XYZ"

// TurkeyHES is a HES QR payload with code ABCD1234EF.
const TurkeyHES = "12345678-90ab-cdef-1234-567890abcdef|ABCD1234EF"
