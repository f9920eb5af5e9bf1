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

import "time"

// Defaults for the pass type registered with Apple.
const (
	DefaultPassTypeID = "pass.ch.magicalcodewit.pass.covid"
	DefaultTeamID     = "MQ9TN9772U"
)

// Wallet enumerations.
const (
	BarcodeFormatQR = "PKBarcodeFormatQR"

	DateStyleNone = "PKDateStyleNone"
	DateStyleLong = "PKDateStyleLong"

	DataDetectorLink = "PKDataDetectorTypeLink"

	// BarcodeEncoding is the message encoding wallets use to render the QR.
	BarcodeEncoding = "iso-8859-1"
)

// Pass is the pass.json document. Field order is the serialization order.
type Pass struct {
	FormatVersion      int        `json:"formatVersion"`
	Description        string     `json:"description"`
	OrganizationName   string     `json:"organizationName"`
	PassTypeIdentifier string     `json:"passTypeIdentifier"`
	SerialNumber       string     `json:"serialNumber"`
	TeamIdentifier     string     `json:"teamIdentifier"`
	ExpirationDate     *time.Time `json:"expirationDate,omitempty"`
	Voided             bool       `json:"voided"`
	Generic            Structure  `json:"generic"`
	BackgroundColor    string     `json:"backgroundColor,omitempty"`
	ForegroundColor    string     `json:"foregroundColor,omitempty"`
	LabelColor         string     `json:"labelColor,omitempty"`
	LogoText           string     `json:"logoText,omitempty"`
	SharingProhibited  bool       `json:"sharingProhibited"`
	Barcode            *Barcode   `json:"barcode,omitempty"`
	Barcodes           []Barcode  `json:"barcodes"`
}

// Structure holds the field groups of a generic pass.
type Structure struct {
	AuxiliaryFields []Field `json:"auxiliaryFields,omitempty"`
	BackFields      []Field `json:"backFields,omitempty"`
	HeaderFields    []Field `json:"headerFields,omitempty"`
	PrimaryFields   []Field `json:"primaryFields,omitempty"`
	SecondaryFields []Field `json:"secondaryFields,omitempty"`
}

// Field is one labelled value on the pass.
type Field struct {
	DataDetectorTypes []string `json:"dataDetectorTypes"`
	Key               string   `json:"key"`
	Label             string   `json:"label,omitempty"`
	Value             string   `json:"value"`
	DateStyle         string   `json:"dateStyle,omitempty"`
	TimeStyle         string   `json:"timeStyle,omitempty"`
	IgnoresTimeZone   bool     `json:"ignoresTimeZone,omitempty"`
}

// Barcode is the QR code shown on the pass front.
type Barcode struct {
	Format          string `json:"format"`
	Message         string `json:"message"`
	MessageEncoding string `json:"messageEncoding"`
}

// Options carries the Apple identifiers stamped into every pass.
type Options struct {
	PassTypeID string
	TeamID     string
}

func (o Options) withDefaults() Options {
	if o.PassTypeID == "" {
		o.PassTypeID = DefaultPassTypeID
	}
	if o.TeamID == "" {
		o.TeamID = DefaultTeamID
	}
	return o
}

// colours is a pass colour scheme.
type colours struct {
	background, foreground, label string
}
