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
	"time"

	"github.com/dominikschlosser/healthpass/internal/format"
	"github.com/dominikschlosser/healthpass/internal/valueset"
	"github.com/google/uuid"
)

// Credential is a decoded health credential. The set of implementations is
// closed: *EUCredential, *TurkeyVaccinationCredential, *TurkeyHESCredential.
type Credential interface {
	Scheme() format.Scheme
	isCredential()
}

// EUCredential is a decoded EU digital COVID certificate.
type EUCredential struct {
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time

	Version     string
	Name        Name
	DateOfBirth time.Time
	Group       Group

	// Envelope is kept for signature verification.
	Envelope *Envelope
}

// Name holds the subject's name and its ICAO 9303 transliterations.
type Name struct {
	Surname     string
	SurnameStd  string
	Forename    string
	ForenameStd string
}

// TurkeyVaccinationCredential is a Turkish vaccination card verification URL.
type TurkeyVaccinationCredential struct {
	URL string
}

// TurkeyHESCredential is a Turkish HES (Hayat Eve Sığar) code.
type TurkeyHESCredential struct {
	Session uuid.UUID
	Code    string
}

func (*EUCredential) Scheme() format.Scheme                { return format.SchemeEUDCC }
func (*TurkeyVaccinationCredential) Scheme() format.Scheme { return format.SchemeTurkeyVaccination }
func (*TurkeyHESCredential) Scheme() format.Scheme         { return format.SchemeTurkeyHES }

func (*EUCredential) isCredential()                {}
func (*TurkeyVaccinationCredential) isCredential() {}
func (*TurkeyHESCredential) isCredential()         {}

// GroupKind names the record group carried by an EU certificate.
type GroupKind string

const (
	GroupVaccination GroupKind = "v"
	GroupTest        GroupKind = "t"
	GroupRecovery    GroupKind = "r"
)

// Group is exactly one of Vaccinations, Tests or Recoveries.
type Group interface {
	Kind() GroupKind
	Len() int
	isGroup()
}

type (
	Vaccinations []Vaccination
	Tests        []Test
	Recoveries   []Recovery
)

func (Vaccinations) Kind() GroupKind { return GroupVaccination }
func (Tests) Kind() GroupKind        { return GroupTest }
func (Recoveries) Kind() GroupKind   { return GroupRecovery }

func (g Vaccinations) Len() int { return len(g) }
func (g Tests) Len() int        { return len(g) }
func (g Recoveries) Len() int   { return len(g) }

func (Vaccinations) isGroup() {}
func (Tests) isGroup()        {}
func (Recoveries) isGroup()   {}

// Vaccination is a "v" record.
type Vaccination struct {
	Disease      valueset.Value
	Prophylaxis  valueset.Value
	Product      valueset.Value
	Manufacturer valueset.Value
	Dose         int
	Series       int
	Date         time.Time
	Country      valueset.Value
	Issuer       string
	ID           string
}

// Test is a "t" record. Name, Device and Centre are optional.
type Test struct {
	Disease    valueset.Value
	Type       valueset.Value
	Name       string
	Device     string
	SampleDate time.Time
	Result     valueset.Value
	Centre     string
	Country    valueset.Value
	Issuer     string
	ID         string
}

// Recovery is an "r" record.
type Recovery struct {
	Disease       valueset.Value
	FirstPositive time.Time
	ValidFrom     time.Time
	ValidUntil    time.Time
	Country       valueset.Value
	Issuer        string
	ID            string
}
