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

package pass

import (
	"errors"
	"fmt"
	"time"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/hcert"
)

var (
	errEmptyGroup  = errors.New("credential has no records")
	errMissingGuid = errors.New("verification URL has no Guid parameter")
	errShortHES    = errors.New("HES code shorter than 8 characters")
)

// FromCredential maps a decoded credential to a pass. raw is the scanned
// string and becomes the barcode message. Errors are tagged failure.Mapping.
func FromCredential(cred hcert.Credential, raw string, opts Options) (*Pass, error) {
	var (
		p   *Pass
		err error
	)
	switch c := cred.(type) {
	case *hcert.EUCredential:
		p, err = fromEU(c)
	case *hcert.TurkeyVaccinationCredential:
		p, err = fromTurkeyVaccination(c)
	case *hcert.TurkeyHESCredential:
		p, err = fromTurkeyHES(c)
	default:
		err = fmt.Errorf("unsupported credential type %T", cred)
	}
	if err != nil {
		return nil, failure.Wrap(failure.Mapping, err)
	}

	opts = opts.withDefaults()
	p.FormatVersion = 1
	p.PassTypeIdentifier = opts.PassTypeID
	p.TeamIdentifier = opts.TeamID
	p.SharingProhibited = true

	barcode := Barcode{Format: BarcodeFormatQR, Message: raw, MessageEncoding: BarcodeEncoding}
	p.Barcode = &barcode
	p.Barcodes = []Barcode{barcode}
	return p, nil
}

func (c colours) apply(p *Pass) {
	p.BackgroundColor = c.background
	p.ForegroundColor = c.foreground
	p.LabelColor = c.label
}

func text(key, label, value string) Field {
	return Field{DataDetectorTypes: []string{}, Key: key, Label: label, Value: value}
}

func link(key, label, value string) Field {
	return Field{DataDetectorTypes: []string{DataDetectorLink}, Key: key, Label: label, Value: value}
}

// calendarDate renders a date as midnight UTC that wallets display without
// shifting into the viewer's zone.
func calendarDate(key, label string, d time.Time) Field {
	f := text(key, label, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339))
	f.DateStyle = DateStyleLong
	f.TimeStyle = DateStyleNone
	f.IgnoresTimeZone = true
	return f
}

func timestamp(key, label string, t time.Time) Field {
	f := text(key, label, t.UTC().Format(time.RFC3339))
	f.DateStyle = DateStyleLong
	f.TimeStyle = DateStyleLong
	return f
}
