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
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/hcert"
	"github.com/dominikschlosser/healthpass/internal/mock"
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

func value(display string) valueset.Value {
	return valueset.Value{Display: display}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func euCredential(group hcert.Group) *hcert.EUCredential {
	return &hcert.EUCredential{
		Issuer:      "GB",
		IssuedAt:    time.Date(2021, 6, 2, 10, 0, 0, 0, time.UTC),
		ExpiresAt:   time.Date(2021, 12, 2, 10, 0, 0, 0, time.UTC),
		Version:     "1.3.0",
		Name:        hcert.Name{Surname: "Mustermann", SurnameStd: "MUSTERMANN", Forename: "Erika", ForenameStd: "ERIKA"},
		DateOfBirth: date("1984-08-12"),
		Group:       group,
	}
}

func vaccination() hcert.Vaccination {
	return hcert.Vaccination{
		Disease:      value("COVID-19"),
		Prophylaxis:  value("SARS-CoV-2 mRNA vaccine"),
		Product:      value("Comirnaty"),
		Manufacturer: value("Biontech Manufacturing GmbH"),
		Dose:         2,
		Series:       2,
		Date:         date("2021-06-01"),
		Country:      value("United Kingdom"),
		Issuer:       "NHS Digital",
		ID:           "URN:UVCI:ABC123#9",
	}
}

func fieldByKey(t *testing.T, fields []Field, key string) Field {
	t.Helper()
	for _, f := range fields {
		if f.Key == key {
			return f
		}
	}
	t.Fatalf("field %q not found in %+v", key, fields)
	return Field{}
}

func keys(fields []Field) string {
	var out []string
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return strings.Join(out, ",")
}

func TestStripUVCI(t *testing.T) {
	tests := map[string]string{
		"URN:UVCI:ABC123#9":              "ABC123",
		"URN:UVCI:01:GB:1234#X#Y":        "01:GB:1234#X",
		"ABC123":                         "ABC123",
		"urn:uvci:ABC":                   "urn:uvci:ABC",
		"URN:UVCI:01DE/IZ12345A/5CWLU#W": "01DE/IZ12345A/5CWLU",
	}
	for in, want := range tests {
		if got := StripUVCI(in); got != want {
			t.Errorf("StripUVCI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromCredential_EUVaccination(t *testing.T) {
	cred := euCredential(hcert.Vaccinations{vaccination(), {ID: "URN:UVCI:OLDER#1", Dose: 1, Series: 2}})
	p, err := FromCredential(cred, "HC1:RAW", Options{})
	if err != nil {
		t.Fatalf("FromCredential() error: %v", err)
	}

	if p.SerialNumber != "V:ABC123:2:2" {
		t.Errorf("SerialNumber = %q, want V:ABC123:2:2", p.SerialNumber)
	}
	if p.Description != "eHealth digital vaccination certificate" || p.LogoText != "Vaccination" {
		t.Errorf("Description/LogoText = %q/%q", p.Description, p.LogoText)
	}
	if p.OrganizationName != "NHS Digital" {
		t.Errorf("OrganizationName = %q", p.OrganizationName)
	}
	if p.PassTypeIdentifier != DefaultPassTypeID || p.TeamIdentifier != DefaultTeamID {
		t.Errorf("identifiers = %q/%q", p.PassTypeIdentifier, p.TeamIdentifier)
	}
	if p.BackgroundColor != "rgb(0, 51, 153)" || p.ForegroundColor != "rgb(255, 255, 255)" || p.LabelColor != "rgb(255, 204, 0)" {
		t.Errorf("colours = %s/%s/%s", p.BackgroundColor, p.ForegroundColor, p.LabelColor)
	}
	if !p.SharingProhibited {
		t.Error("sharing must be prohibited")
	}
	if p.ExpirationDate == nil || !p.ExpirationDate.Equal(cred.ExpiresAt) {
		t.Errorf("ExpirationDate = %v", p.ExpirationDate)
	}

	if got := fieldByKey(t, p.Generic.HeaderFields, "tg").Value; got != "COVID-19" {
		t.Errorf("header = %q", got)
	}
	if got := fieldByKey(t, p.Generic.PrimaryFields, "fn").Value; got != "Erika Mustermann" {
		t.Errorf("primary = %q", got)
	}
	dob := fieldByKey(t, p.Generic.SecondaryFields, "dob")
	if dob.Value != "1984-08-12T00:00:00Z" || dob.DateStyle != DateStyleLong || dob.TimeStyle != DateStyleNone || !dob.IgnoresTimeZone {
		t.Errorf("dob = %+v", dob)
	}
	if got := fieldByKey(t, p.Generic.SecondaryFields, "dose").Value; got != "2 of 2" {
		t.Errorf("dose = %q", got)
	}
	if got := keys(p.Generic.AuxiliaryFields); got != "vc,dt" {
		t.Errorf("auxiliary keys = %s", got)
	}
	if got := keys(p.Generic.BackFields); got != "exp,iss,mn,pd,co" {
		t.Errorf("back keys = %s", got)
	}
	exp := fieldByKey(t, p.Generic.BackFields, "exp")
	if exp.Value != "2021-12-02T10:00:00Z" || exp.TimeStyle != DateStyleLong {
		t.Errorf("exp = %+v", exp)
	}
}

func TestFromCredential_EUTest(t *testing.T) {
	cred := euCredential(hcert.Tests{{
		Disease:    value("COVID-19"),
		Type:       value("Rapid immunoassay"),
		SampleDate: time.Date(2021, 6, 10, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600)),
		Result:     value("Not detected"),
		Centre:     "Test Centre Vienna",
		Country:    value("Austria"),
		Issuer:     "Ministry of Health, Austria",
		ID:         "URN:UVCI:01:AT:T3ST#X",
	}})
	p, err := FromCredential(cred, "HC1:RAW", Options{})
	if err != nil {
		t.Fatalf("FromCredential() error: %v", err)
	}
	if p.SerialNumber != "T:01:AT:T3ST" {
		t.Errorf("SerialNumber = %q", p.SerialNumber)
	}
	if p.LogoText != "Test" || p.Description != "eHealth digital test certificate" {
		t.Errorf("LogoText/Description = %q/%q", p.LogoText, p.Description)
	}
	if got := fieldByKey(t, p.Generic.SecondaryFields, "tr").Value; got != "Not detected" {
		t.Errorf("result = %q", got)
	}
	if got := fieldByKey(t, p.Generic.AuxiliaryFields, "dt").Value; got != "2021-06-10T00:00:00Z" {
		t.Errorf("sample date = %q", got)
	}
	if got := keys(p.Generic.BackFields); got != "exp,iss,tt,tc,co" {
		t.Errorf("back keys = %s", got)
	}
}

func TestFromCredential_EURecovery(t *testing.T) {
	cred := euCredential(hcert.Recoveries{{
		Disease:       value("COVID-19"),
		FirstPositive: date("2021-03-01"),
		ValidFrom:     date("2021-03-12"),
		ValidUntil:    date("2021-08-28"),
		Country:       value("Germany"),
		Issuer:        "Robert Koch-Institut",
		ID:            "URN:UVCI:01DE/5CWLU12RNOB9RXSEOP6FG8#W",
	}})
	p, err := FromCredential(cred, "HC1:RAW", Options{})
	if err != nil {
		t.Fatalf("FromCredential() error: %v", err)
	}
	if p.SerialNumber != "R:01DE/5CWLU12RNOB9RXSEOP6FG8" {
		t.Errorf("SerialNumber = %q", p.SerialNumber)
	}
	if got := keys(p.Generic.SecondaryFields); got != "dob" {
		t.Errorf("secondary keys = %s", got)
	}
	if got := keys(p.Generic.AuxiliaryFields); got != "df,du" {
		t.Errorf("auxiliary keys = %s", got)
	}
	if got := keys(p.Generic.BackFields); got != "exp,iss,fr,co" {
		t.Errorf("back keys = %s", got)
	}
}

func TestFromCredential_EUEmptyGroup(t *testing.T) {
	for _, g := range []hcert.Group{nil, hcert.Vaccinations{}, hcert.Tests{}, hcert.Recoveries{}} {
		_, err := FromCredential(euCredential(g), "HC1:RAW", Options{})
		if failure.CategoryOf(err) != failure.Mapping {
			t.Errorf("group %T: expected mapping error, got %v", g, err)
		}
	}
}

func TestFromCredential_TurkeyVaccination(t *testing.T) {
	cred := &hcert.TurkeyVaccinationCredential{URL: mock.TurkeyVaccinationURL}
	p, err := FromCredential(cred, mock.TurkeyVaccinationURL, Options{})
	if err != nil {
		t.Fatalf("FromCredential() error: %v", err)
	}
	if p.SerialNumber != "XYZ" {
		t.Errorf("SerialNumber = %q, want XYZ", p.SerialNumber)
	}
	if p.ExpirationDate != nil {
		t.Error("Turkish passes carry no expiry")
	}
	if p.BackgroundColor != "rgb(185, 232, 234)" || p.LabelColor != "rgb(27, 182, 193)" {
		t.Errorf("colours = %s/%s", p.BackgroundColor, p.LabelColor)
	}
	vc := fieldByKey(t, p.Generic.BackFields, "vc")
	if vc.Value != mock.TurkeyVaccinationURL || len(vc.DataDetectorTypes) != 1 || vc.DataDetectorTypes[0] != DataDetectorLink {
		t.Errorf("vc = %+v", vc)
	}
}

func TestFromCredential_TurkeyVaccinationMissingGuid(t *testing.T) {
	for _, url := range []string{
		"https://covidasidogrulama.saglik.gov.tr/api/CovidAsiKartiDogrula?id=1",
		"https://covidasidogrulama.saglik.gov.tr/api/CovidAsiKartiDogrula?Guid=",
	} {
		_, err := FromCredential(&hcert.TurkeyVaccinationCredential{URL: url}, url, Options{})
		if failure.CategoryOf(err) != failure.Mapping {
			t.Errorf("%s: expected mapping error, got %v", url, err)
		}
	}
}

func TestFromCredential_TurkeyHES(t *testing.T) {
	cred := &hcert.TurkeyHESCredential{Code: "ABCD1234EF"}
	p, err := FromCredential(cred, mock.TurkeyHES, Options{})
	if err != nil {
		t.Fatalf("FromCredential() error: %v", err)
	}
	if p.SerialNumber != "ABCD1234EF" {
		t.Errorf("SerialNumber = %q", p.SerialNumber)
	}
	if got := fieldByKey(t, p.Generic.PrimaryFields, "hes").Value; got != "ABCD-1234-EF" {
		t.Errorf("primary = %q, want ABCD-1234-EF", got)
	}
	if p.LogoText != "HES Code" || p.BackgroundColor != "rgb(90, 168, 0)" {
		t.Errorf("LogoText/background = %q/%q", p.LogoText, p.BackgroundColor)
	}
	if p.Barcode == nil || p.Barcode.Message != mock.TurkeyHES {
		t.Errorf("barcode = %+v", p.Barcode)
	}
}

func TestFormatHESCode(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"ABCD1234EF", "ABCD-1234-EF", false},
		{"ABCD1234", "ABCD-1234", false},
		{"A-B-C-D-E-F-G-H", "ABCD-EFGH", false},
		{"AB-CD-12-34-XY", "ABCD-1234-XY", false},
		{"ABCD123", "", true},
	}
	for _, tt := range tests {
		got, err := FormatHESCode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatHESCode(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatHESCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromCredential_ShortHESHasNoTrailingDash(t *testing.T) {
	p, err := FromCredential(&hcert.TurkeyHESCredential{Code: "A-B-C-D-E-F-G-H"}, mock.TurkeyHES, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Generic.PrimaryFields) != 1 {
		t.Fatalf("primary fields = %d, want 1", len(p.Generic.PrimaryFields))
	}
	if got := p.Generic.PrimaryFields[0].Value; got != "ABCD-EFGH" {
		t.Errorf("primary value = %q, want %q", got, "ABCD-EFGH")
	}
}

func TestFromCredential_Options(t *testing.T) {
	p, err := FromCredential(&hcert.TurkeyHESCredential{Code: "ABCD1234EF"}, mock.TurkeyHES, Options{PassTypeID: "pass.example", TeamID: "TEAM"})
	if err != nil {
		t.Fatal(err)
	}
	if p.PassTypeIdentifier != "pass.example" || p.TeamIdentifier != "TEAM" {
		t.Errorf("identifiers = %q/%q", p.PassTypeIdentifier, p.TeamIdentifier)
	}
}

func TestPassJSON_Shape(t *testing.T) {
	p, err := FromCredential(euCredential(hcert.Vaccinations{vaccination()}), "HC1:RAW", Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	if doc["formatVersion"] != float64(1) {
		t.Errorf("formatVersion = %v", doc["formatVersion"])
	}
	if doc["voided"] != false || doc["sharingProhibited"] != true {
		t.Errorf("voided/sharingProhibited = %v/%v", doc["voided"], doc["sharingProhibited"])
	}
	if doc["expirationDate"] != "2021-12-02T10:00:00Z" {
		t.Errorf("expirationDate = %v", doc["expirationDate"])
	}
	barcodes, ok := doc["barcodes"].([]any)
	if !ok || len(barcodes) != 1 {
		t.Fatalf("barcodes = %v", doc["barcodes"])
	}
	bc := barcodes[0].(map[string]any)
	if bc["format"] != BarcodeFormatQR || bc["message"] != "HC1:RAW" || bc["messageEncoding"] != "iso-8859-1" {
		t.Errorf("barcode = %v", bc)
	}
	generic := doc["generic"].(map[string]any)
	header := generic["headerFields"].([]any)[0].(map[string]any)
	if dd, ok := header["dataDetectorTypes"].([]any); !ok || len(dd) != 0 {
		t.Errorf("dataDetectorTypes must be an empty array, got %v", header["dataDetectorTypes"])
	}
}
