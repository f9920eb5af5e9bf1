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
	"fmt"
	"strings"

	"github.com/dominikschlosser/healthpass/internal/hcert"
)

const (
	turkeyGovernment = "Government of Turkey"
	guidMarker       = "Guid="
)

var (
	turkeyVaccinationColours = colours{
		background: "rgb(185, 232, 234)",
		foreground: "rgb(0, 0, 0)",
		label:      "rgb(27, 182, 193)",
	}
	turkeyHESColours = colours{
		background: "rgb(90, 168, 0)",
		foreground: "rgb(255, 255, 255)",
		label:      "rgb(255, 87, 34)",
	}
)

func fromTurkeyVaccination(c *hcert.TurkeyVaccinationCredential) (*Pass, error) {
	i := strings.Index(c.URL, guidMarker)
	if i < 0 {
		return nil, errMissingGuid
	}
	serial := c.URL[i+len(guidMarker):]
	if serial == "" {
		return nil, errMissingGuid
	}

	p := &Pass{
		Description:      "Turkey vaccination certificate",
		OrganizationName: turkeyGovernment,
		SerialNumber:     serial,
		LogoText:         "Vaccination",
	}
	turkeyVaccinationColours.apply(p)
	p.Generic.HeaderFields = []Field{text("tg", "For", "COVID-19")}
	p.Generic.PrimaryFields = []Field{text("iss", "Issued by", turkeyGovernment)}
	p.Generic.BackFields = []Field{link("vc", "View certificate", c.URL)}
	return p, nil
}

func fromTurkeyHES(c *hcert.TurkeyHESCredential) (*Pass, error) {
	display, err := FormatHESCode(c.Code)
	if err != nil {
		return nil, err
	}

	p := &Pass{
		Description:      "Turkey HES certificate",
		OrganizationName: turkeyGovernment,
		SerialNumber:     c.Code,
		LogoText:         "HES Code",
	}
	turkeyHESColours.apply(p)
	p.Generic.PrimaryFields = []Field{text("hes", "Code", display)}
	p.Generic.SecondaryFields = []Field{text("iss", "Issued by", turkeyGovernment)}
	return p, nil
}

// FormatHESCode groups a HES code as first4-next4-rest. Dashes in the scanned
// code are dropped before grouping; an 8 character code has no rest group.
func FormatHESCode(code string) (string, error) {
	bare := strings.ReplaceAll(code, "-", "")
	if len(bare) < 8 {
		return "", fmt.Errorf("%w: got %d", errShortHES, len(bare))
	}
	grouped := bare[:4] + "-" + bare[4:8]
	if rest := bare[8:]; rest != "" {
		grouped += "-" + rest
	}
	return grouped, nil
}
