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
	"time"

	"github.com/dominikschlosser/healthpass/internal/valueset"
	"github.com/fxamacker/cbor/v2"
)

// CWT claim keys used by the health certificate payload.
const (
	claimIssuer    = 1
	claimExpiry    = 4
	claimIssuedAt  = 6
	claimHealthCrt = -260

	hcertV1 = 1
)

// decodePayload scans the CWT payload and the nested hcert v1 claims.
func decodePayload(data []byte, reg *valueset.Registry) (*EUCredential, error) {
	cred := &EUCredential{}
	seen := make(map[string]bool)

	err := scanIntKeys(data, func(key int64, value cbor.RawMessage) error {
		var err error
		switch key {
		case claimIssuer:
			cred.Issuer, err = decodeString(value, "iss")
			seen["iss"] = true
		case claimIssuedAt:
			cred.IssuedAt, err = decodeTimestamp(value, "iat")
			seen["iat"] = true
		case claimExpiry:
			cred.ExpiresAt, err = decodeTimestamp(value, "exp")
			seen["exp"] = true
		case claimHealthCrt:
			err = decodeHcert(value, cred, reg)
			seen["hcert"] = true
		default:
			err = fmt.Errorf("unknown payload key %d", key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := requireKeys(seen, "iss", "iat", "exp", "hcert"); err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return cred, nil
}

func decodeHcert(data []byte, cred *EUCredential, reg *valueset.Registry) error {
	found := false
	err := scanIntKeys(data, func(key int64, value cbor.RawMessage) error {
		if key != hcertV1 {
			return fmt.Errorf("unknown hcert schema version %d", key)
		}
		found = true
		return decodeV1(value, cred, reg)
	})
	if err != nil {
		return fmt.Errorf("hcert: %w", err)
	}
	if !found {
		return errors.New("hcert: missing v1 claims")
	}
	return nil
}

func decodeV1(data []byte, cred *EUCredential, reg *valueset.Registry) error {
	seen := make(map[string]bool)
	var groups int

	err := scanStringKeys(data, func(key string, value cbor.RawMessage) error {
		seen[key] = true
		if key == "v" || key == "t" || key == "r" {
			if groups++; groups > 1 {
				return errors.New("more than one record group")
			}
		}
		var err error
		switch key {
		case "ver":
			cred.Version, err = decodeString(value, "ver")
		case "nam":
			cred.Name, err = decodeName(value)
		case "dob":
			cred.DateOfBirth, err = decodeDate(value, "dob")
		case "v":
			cred.Group, err = decodeVaccinations(value, reg)
		case "t":
			cred.Group, err = decodeTests(value, reg)
		case "r":
			cred.Group, err = decodeRecoveries(value, reg)
		default:
			err = fmt.Errorf("unknown claim %q", key)
		}
		return err
	})
	if err != nil {
		return err
	}
	if err := requireKeys(seen, "ver", "nam", "dob"); err != nil {
		return err
	}
	if groups == 0 {
		return errors.New("no vaccination, test or recovery group")
	}
	return nil
}

func decodeName(data []byte) (Name, error) {
	var n Name
	seen := make(map[string]bool)
	err := scanStringKeys(data, func(key string, value cbor.RawMessage) error {
		seen[key] = true
		var err error
		switch key {
		case "fn":
			n.Surname, err = decodeString(value, "nam.fn")
		case "fnt":
			n.SurnameStd, err = decodeString(value, "nam.fnt")
		case "gn":
			n.Forename, err = decodeString(value, "nam.gn")
		case "gnt":
			n.ForenameStd, err = decodeString(value, "nam.gnt")
		default:
			err = fmt.Errorf("unknown name field %q", key)
		}
		return err
	})
	if err != nil {
		return Name{}, fmt.Errorf("nam: %w", err)
	}
	if err := requireKeys(seen, "fn", "fnt", "gn", "gnt"); err != nil {
		return Name{}, fmt.Errorf("nam: %w", err)
	}
	return n, nil
}

// records splits a CBOR array of record maps and rejects an empty list.
func records(data []byte, group string) ([]cbor.RawMessage, error) {
	var arr []cbor.RawMessage
	if err := cborDecMode.Unmarshal(data, &arr); err != nil {
		return nil, fmt.Errorf("%s: expected array: %w", group, err)
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("%s: empty record list", group)
	}
	return arr, nil
}

// resolver collects the first error across a record's field decoders so each
// field can be written as a single assignment.
type resolver struct {
	reg    *valueset.Registry
	prefix string
	err    error
}

func (r *resolver) code(field string, name valueset.Name, value cbor.RawMessage) valueset.Value {
	s := r.str(field, value)
	if r.err != nil {
		return valueset.Value{}
	}
	v, err := r.reg.Resolve(r.prefix+field, name, s)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *resolver) str(field string, value cbor.RawMessage) string {
	if r.err != nil {
		return ""
	}
	s, err := decodeString(value, r.prefix+field)
	r.err = err
	return s
}

func (r *resolver) count(field string, value cbor.RawMessage) int {
	if r.err != nil {
		return 0
	}
	n, err := decodeInt(value, r.prefix+field)
	if err == nil && n < 0 {
		err = fmt.Errorf("%s%s: negative value %d", r.prefix, field, n)
	}
	r.err = err
	return int(n)
}

func (r *resolver) date(field string, value cbor.RawMessage) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	t, err := decodeDate(value, r.prefix+field)
	r.err = err
	return t
}

func (r *resolver) dateOrTime(field string, value cbor.RawMessage) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	t, err := decodeDateOrTime(value, r.prefix+field)
	r.err = err
	return t
}

func decodeVaccinations(data []byte, reg *valueset.Registry) (Vaccinations, error) {
	arr, err := records(data, "v")
	if err != nil {
		return nil, err
	}
	out := make(Vaccinations, 0, len(arr))
	for i, raw := range arr {
		r := &resolver{reg: reg, prefix: fmt.Sprintf("v[%d].", i)}
		var v Vaccination
		seen := make(map[string]bool)
		err := scanStringKeys(raw, func(key string, value cbor.RawMessage) error {
			seen[key] = true
			switch key {
			case "tg":
				v.Disease = r.code(key, valueset.Disease, value)
			case "vp":
				v.Prophylaxis = r.code(key, valueset.VaccineProphylaxis, value)
			case "mp":
				v.Product = r.code(key, valueset.VaccineProduct, value)
			case "ma":
				v.Manufacturer = r.code(key, valueset.VaccineManufacturer, value)
			case "dn":
				v.Dose = r.count(key, value)
			case "sd":
				v.Series = r.count(key, value)
			case "dt":
				v.Date = r.date(key, value)
			case "co":
				v.Country = r.code(key, valueset.Country, value)
			case "is":
				v.Issuer = r.str(key, value)
			case "ci":
				v.ID = r.str(key, value)
			default:
				return fmt.Errorf("%sunknown field %q", r.prefix, key)
			}
			return r.err
		})
		if err != nil {
			return nil, err
		}
		if err := requireKeys(seen, "tg", "vp", "mp", "ma", "dn", "sd", "dt", "co", "is", "ci"); err != nil {
			return nil, fmt.Errorf("v[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeTests(data []byte, reg *valueset.Registry) (Tests, error) {
	arr, err := records(data, "t")
	if err != nil {
		return nil, err
	}
	out := make(Tests, 0, len(arr))
	for i, raw := range arr {
		r := &resolver{reg: reg, prefix: fmt.Sprintf("t[%d].", i)}
		var t Test
		seen := make(map[string]bool)
		err := scanStringKeys(raw, func(key string, value cbor.RawMessage) error {
			seen[key] = true
			switch key {
			case "tg":
				t.Disease = r.code(key, valueset.Disease, value)
			case "tt":
				t.Type = r.code(key, valueset.TestType, value)
			case "nm":
				t.Name = r.str(key, value)
			case "ma":
				t.Device = r.str(key, value)
			case "sc":
				t.SampleDate = r.dateOrTime(key, value)
			case "tr":
				t.Result = r.code(key, valueset.TestResult, value)
			case "tc":
				t.Centre = r.str(key, value)
			case "co":
				t.Country = r.code(key, valueset.Country, value)
			case "is":
				t.Issuer = r.str(key, value)
			case "ci":
				t.ID = r.str(key, value)
			default:
				return fmt.Errorf("%sunknown field %q", r.prefix, key)
			}
			return r.err
		})
		if err != nil {
			return nil, err
		}
		if err := requireKeys(seen, "tg", "tt", "sc", "tr", "co", "is", "ci"); err != nil {
			return nil, fmt.Errorf("t[%d]: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeRecoveries(data []byte, reg *valueset.Registry) (Recoveries, error) {
	arr, err := records(data, "r")
	if err != nil {
		return nil, err
	}
	out := make(Recoveries, 0, len(arr))
	for i, raw := range arr {
		r := &resolver{reg: reg, prefix: fmt.Sprintf("r[%d].", i)}
		var rec Recovery
		seen := make(map[string]bool)
		err := scanStringKeys(raw, func(key string, value cbor.RawMessage) error {
			seen[key] = true
			switch key {
			case "tg":
				rec.Disease = r.code(key, valueset.Disease, value)
			case "fr":
				rec.FirstPositive = r.date(key, value)
			case "df":
				rec.ValidFrom = r.date(key, value)
			case "du":
				rec.ValidUntil = r.date(key, value)
			case "co":
				rec.Country = r.code(key, valueset.Country, value)
			case "is":
				rec.Issuer = r.str(key, value)
			case "ci":
				rec.ID = r.str(key, value)
			default:
				return fmt.Errorf("%sunknown field %q", r.prefix, key)
			}
			return r.err
		})
		if err != nil {
			return nil, err
		}
		if err := requireKeys(seen, "tg", "fr", "df", "du", "co", "is", "ci"); err != nil {
			return nil, fmt.Errorf("r[%d]: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
