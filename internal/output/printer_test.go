// Copyright 2025 Dominik Schlosser
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

package output

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/dominikschlosser/healthpass/internal/hcert"
	"github.com/dominikschlosser/healthpass/internal/trustlist"
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

// captureOutput captures all terminal output (both fmt and color) during fn execution.
func captureOutput(fn func()) string {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	r, w, _ := os.Pipe()

	oldStdout := os.Stdout
	oldOutput := color.Output
	os.Stdout = w
	color.Output = w

	fn()

	w.Close()
	os.Stdout = oldStdout
	color.Output = oldOutput

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func code(c, d string) valueset.Value {
	return valueset.Value{Code: c, Display: d}
}

func testCredential() *hcert.EUCredential {
	return &hcert.EUCredential{
		Issuer:      "GB",
		IssuedAt:    time.Date(2021, 6, 2, 10, 0, 0, 0, time.UTC),
		ExpiresAt:   time.Date(2021, 12, 2, 10, 0, 0, 0, time.UTC),
		Version:     "1.3.0",
		Name:        hcert.Name{Surname: "Mustermann", SurnameStd: "MUSTERMANN", Forename: "Erika", ForenameStd: "ERIKA"},
		DateOfBirth: time.Date(1984, 8, 12, 0, 0, 0, 0, time.UTC),
		Group: hcert.Vaccinations{{
			Disease:      code("840539006", "COVID-19"),
			Prophylaxis:  code("1119349007", "SARS-CoV-2 mRNA vaccine"),
			Product:      code("EU/1/20/1528", "Comirnaty"),
			Manufacturer: code("ORG-100030215", "Biontech Manufacturing GmbH"),
			Dose:         2,
			Series:       2,
			Date:         time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			Country:      code("GB", "United Kingdom"),
			Issuer:       "NHS Digital",
			ID:           "URN:UVCI:ABC123#9",
		}},
		Envelope: &hcert.Envelope{Algorithm: -7, KeyID: []byte{0xab, 0xcd}},
	}
}

func TestBuildCredentialJSON_EU(t *testing.T) {
	out := BuildCredentialJSON(testCredential())

	if out["scheme"] != "eu_dcc" || out["issuer"] != "GB" {
		t.Errorf("scheme/issuer = %v/%v", out["scheme"], out["issuer"])
	}
	if out["dob"] != "1984-08-12" {
		t.Errorf("dob = %v", out["dob"])
	}
	if out["group"] != "v" {
		t.Errorf("group = %v", out["group"])
	}
	if out["algorithm"] != "ES256" || out["kid"] != "abcd" {
		t.Errorf("algorithm/kid = %v/%v", out["algorithm"], out["kid"])
	}
	records, ok := out["records"].([]map[string]any)
	if !ok || len(records) != 1 {
		t.Fatalf("records = %v", out["records"])
	}
	mp := records[0]["mp"].(map[string]any)
	if mp["code"] != "EU/1/20/1528" || mp["display"] != "Comirnaty" {
		t.Errorf("mp = %v", mp)
	}
}

func TestBuildCredentialJSON_Turkey(t *testing.T) {
	session := uuid.MustParse("12345678-90ab-cdef-1234-567890abcdef")
	out := BuildCredentialJSON(&hcert.TurkeyHESCredential{Session: session, Code: "ABCD1234EF"})
	if out["scheme"] != "tr_hes" || out["code"] != "ABCD1234EF" || out["session"] != session.String() {
		t.Errorf("unexpected HES JSON %v", out)
	}

	out = BuildCredentialJSON(&hcert.TurkeyVaccinationCredential{URL: "https://example.test?Guid=1"})
	if out["scheme"] != "tr_vaccination" || out["url"] != "https://example.test?Guid=1" {
		t.Errorf("unexpected vaccination JSON %v", out)
	}
}

func TestPrintCredential_Terminal(t *testing.T) {
	now := time.Date(2021, 11, 2, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })

	out := captureOutput(func() {
		PrintCredential(testCredential(), Options{})
	})

	for _, want := range []string{
		"EU Digital COVID Certificate",
		"Issuer: GB",
		"Expires: 2021-12-02T10:00:00Z (in 30 days)",
		"Name: Erika Mustermann",
		"Vaccinations (1)",
		"Product: Comirnaty (EU/1/20/1528)",
		"Dose: 2 of 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Key ID") {
		t.Error("key id is only shown in verbose mode")
	}
}

func TestPrintCredential_Expired(t *testing.T) {
	now := time.Date(2022, 1, 2, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })

	out := captureOutput(func() {
		PrintCredential(testCredential(), Options{Verbose: true})
	})
	if !strings.Contains(out, "Expired: 2021-12-02T10:00:00Z") {
		t.Errorf("expected expiry warning:\n%s", out)
	}
	if !strings.Contains(out, "Key ID: abcd") {
		t.Errorf("verbose output should show key id:\n%s", out)
	}
}

func TestPrintVerification(t *testing.T) {
	tests := []struct {
		name string
		v    Verification
		want string
	}{
		{"valid", Verification{Checked: true, Valid: true}, "Signature valid"},
		{"invalid", Verification{Checked: true, Error: "unknown signing key"}, "unknown signing key"},
		{"skipped", Verification{Issuer: "AT"}, "issuer AT is not in the verify list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(func() { PrintVerification(tt.v, Options{}) })
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestKeyIndexOutput(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	idx := trustlist.NewKeyIndex(map[string][]trustlist.Entry{
		"GB": {{KeyID: []byte{0x01, 0x02}, PublicKey: &key.PublicKey}},
	})

	entries := BuildKeyIndexJSON(idx)
	if len(entries) != 1 || entries[0]["kid"] != "0102" || entries[0]["keyType"] != "EC P-256" {
		t.Errorf("BuildKeyIndexJSON = %v", entries)
	}

	out := captureOutput(func() { PrintKeyIndex(idx, Options{}) })
	if !strings.Contains(out, "Keys (1)") || !strings.Contains(out, "GB 0102") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"future 13 days", now.Add(13 * 24 * time.Hour), "in 13 days"},
		{"past 1 day", now.Add(-24 * time.Hour), "1 day ago"},
		{"past 3 days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"future 2 hours", now.Add(2 * time.Hour), "in 2 hours"},
		{"future 1 hour", now.Add(1 * time.Hour), "in 1 hour"},
		{"future 90 days", now.Add(90 * 24 * time.Hour), "in 3 months"},
		{"past 60 days", now.Add(-60 * 24 * time.Hour), "2 months ago"},
		{"future 30 minutes", now.Add(30 * time.Minute), "in 30 minutes"},
		{"past 30 seconds", now.Add(-30 * time.Second), "1 minute ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := relativeTime(tt.t)
			if got != tt.want {
				t.Errorf("relativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	v := map[string]string{"url": "https://example.com/?a=1&b=<2>"}

	var compact bytes.Buffer
	if err := EncodeJSON(&compact, v, false); err != nil {
		t.Fatal(err)
	}
	if got, want := compact.String(), "{\"url\":\"https://example.com/?a=1&b=<2>\"}\n"; got != want {
		t.Errorf("compact = %q, want %q", got, want)
	}

	var indented bytes.Buffer
	if err := EncodeJSON(&indented, v, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(indented.String(), "\n  \"url\"") {
		t.Errorf("expected two-space indent, got %q", indented.String())
	}
}

func testRegistry() *valueset.Registry {
	return valueset.NewRegistry(map[valueset.Name]*valueset.ValueSet{
		valueset.Disease: {
			ID:   "disease-agent-targeted",
			Date: "2021-04-27",
			Values: map[string]valueset.Value{
				"840539006": {Code: "840539006", Display: "COVID-19"},
			},
		},
		valueset.TestResult: {
			ID:   "covid-19-lab-result",
			Date: "2021-04-27",
			Values: map[string]valueset.Value{
				"260415000": {Code: "260415000", Display: "Not detected"},
				"260373001": {Code: "260373001", Display: "Detected"},
			},
		},
	})
}

func TestBuildValueSetsJSON(t *testing.T) {
	got := BuildValueSetsJSON(testRegistry(), false)
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0]["name"] != string(valueset.Disease) || got[0]["codes"] != 1 {
		t.Errorf("first entry = %v", got[0])
	}

	withCodes := BuildValueSetsJSON(testRegistry(), true)
	codes, ok := withCodes[1]["codes"].([]string)
	if !ok || len(codes) != 2 || codes[0] != "260373001" {
		t.Errorf("codes = %v, want sorted list", withCodes[1]["codes"])
	}
}

func TestPrintValueSets(t *testing.T) {
	out := captureOutput(func() {
		PrintValueSets(testRegistry(), Options{})
	})
	for _, want := range []string{"disease-agent-targeted", "covid-19-lab-result", "Codes: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Not detected") {
		t.Error("non-verbose output should not list codes")
	}

	verbose := captureOutput(func() {
		PrintValueSets(testRegistry(), Options{Verbose: true})
	})
	if !strings.Contains(verbose, "260415000: Not detected") {
		t.Errorf("verbose output missing code listing:\n%s", verbose)
	}
}
