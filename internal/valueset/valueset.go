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

package valueset

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

// Name identifies one of the bundled value sets.
type Name string

const (
	Country             Name = "country-2-codes"
	Disease             Name = "disease-agent-targeted"
	TestManufacturer    Name = "test-manf"
	TestResult          Name = "test-result"
	TestType            Name = "test-type"
	VaccineManufacturer Name = "vaccine-mah-manf"
	VaccineProduct      Name = "vaccine-medicinal-product"
	VaccineProphylaxis  Name = "vaccine-prophylaxis"
)

// Names lists every bundled value set in load order.
var Names = []Name{
	Country,
	Disease,
	TestManufacturer,
	TestResult,
	TestType,
	VaccineManufacturer,
	VaccineProduct,
	VaccineProphylaxis,
}

//go:embed data/*.json
var bundled embed.FS

// ValueSet is a versioned code -> display table.
type ValueSet struct {
	ID     string           `json:"valueSetId"`
	Date   string           `json:"valueSetDate"`
	Values map[string]Value `json:"valueSetValues"`
}

// Value is a single entry of a value set.
type Value struct {
	Code    string `json:"-"`
	Display string `json:"display"`
	Lang    string `json:"lang"`
	Active  bool   `json:"active"`
	Version string `json:"version"`
	System  string `json:"system"`
}

// Parse decodes a value set document.
func Parse(data []byte) (*ValueSet, error) {
	var vs ValueSet
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("parsing value set: %w", err)
	}
	if vs.ID == "" {
		return nil, fmt.Errorf("parsing value set: missing valueSetId")
	}
	for code, v := range vs.Values {
		v.Code = code
		vs.Values[code] = v
	}
	return &vs, nil
}

// Codes returns the codes of the value set in sorted order.
func (vs *ValueSet) Codes() []string {
	codes := make([]string, 0, len(vs.Values))
	for c := range vs.Values {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Registry holds the value sets used to validate credential fields.
// It is built once and only read afterwards.
type Registry struct {
	sets map[Name]*ValueSet
}

// NewRegistry builds a registry from already parsed value sets.
func NewRegistry(sets map[Name]*ValueSet) *Registry {
	r := &Registry{sets: make(map[Name]*ValueSet, len(sets))}
	for n, vs := range sets {
		r.sets[n] = vs
	}
	return r
}

// Load parses the value sets embedded in the binary.
func Load() (*Registry, error) {
	sets := make(map[Name]*ValueSet, len(Names))
	for _, n := range Names {
		data, err := bundled.ReadFile("data/" + string(n) + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading value set %s: %w", n, err)
		}
		vs, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("value set %s: %w", n, err)
		}
		sets[n] = vs
	}
	return NewRegistry(sets), nil
}

// MustLoad is like Load but panics on error. The bundled data is fixed at
// build time, so a failure here is a packaging bug.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

// Set returns the named value set, or nil.
func (r *Registry) Set(name Name) *ValueSet {
	return r.sets[name]
}

// Lookup returns the entry for code in the named value set.
func (r *Registry) Lookup(name Name, code string) (Value, bool) {
	vs, ok := r.sets[name]
	if !ok {
		return Value{}, false
	}
	v, ok := vs.Values[code]
	return v, ok
}

// Resolve looks up code for the given credential field. A miss returns an
// *UnknownCodeError; there is no fallback entry.
func (r *Registry) Resolve(field string, name Name, code string) (Value, error) {
	v, ok := r.Lookup(name, code)
	if !ok {
		return Value{}, &UnknownCodeError{Field: field, ValueSet: name, Code: code}
	}
	return v, nil
}

// UnknownCodeError reports a code missing from its value set.
type UnknownCodeError struct {
	Field    string
	ValueSet Name
	Code     string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown %s %q (value set %s)", e.Field, e.Code, e.ValueSet)
}
