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

const uvciPrefix = "URN:UVCI:"

var euColours = colours{
	background: "rgb(0, 51, 153)",
	foreground: "rgb(255, 255, 255)",
	label:      "rgb(255, 204, 0)",
}

// StripUVCI removes the "URN:UVCI:" prefix and a trailing "#checksum".
func StripUVCI(id string) string {
	id = strings.TrimPrefix(id, uvciPrefix)
	if i := strings.LastIndex(id, "#"); i >= 0 {
		id = id[:i]
	}
	return id
}

// fromEU maps the first record of the certificate's group. Later records,
// such as earlier doses, are not shown.
func fromEU(c *hcert.EUCredential) (*Pass, error) {
	if c.Group == nil || c.Group.Len() == 0 {
		return nil, errEmptyGroup
	}

	exp := c.ExpiresAt
	p := &Pass{ExpirationDate: &exp}
	euColours.apply(p)

	p.Generic.PrimaryFields = []Field{
		text("fn", "Name", fmt.Sprintf("%s %s", c.Name.Forename, c.Name.Surname)),
	}
	p.Generic.SecondaryFields = []Field{
		calendarDate("dob", "Date of Birth", c.DateOfBirth),
	}
	p.Generic.BackFields = []Field{
		timestamp("exp", "Valid until", c.ExpiresAt),
	}

	var disease, issuer string
	switch g := c.Group.(type) {
	case hcert.Vaccinations:
		v := g[0]
		disease, issuer = v.Disease.Display, v.Issuer
		p.SerialNumber = fmt.Sprintf("V:%s:%d:%d", StripUVCI(v.ID), v.Dose, v.Series)
		p.Description = "eHealth digital vaccination certificate"
		p.LogoText = "Vaccination"

		p.Generic.AuxiliaryFields = append(p.Generic.AuxiliaryFields,
			text("vc", "Vaccine", v.Prophylaxis.Display),
		)
		p.Generic.SecondaryFields = append(p.Generic.SecondaryFields,
			text("dose", "Dose", fmt.Sprintf("%d of %d", v.Dose, v.Series)),
		)
		p.Generic.AuxiliaryFields = append(p.Generic.AuxiliaryFields,
			calendarDate("dt", "Date of Vaccination", v.Date),
		)
		p.Generic.BackFields = append(p.Generic.BackFields,
			text("iss", "Issued by", issuer),
			text("mn", "Manufacturer", v.Manufacturer.Display),
			text("pd", "Product", v.Product.Display),
			text("co", "Country", v.Country.Display),
		)

	case hcert.Tests:
		t := g[0]
		disease, issuer = t.Disease.Display, t.Issuer
		p.SerialNumber = "T:" + StripUVCI(t.ID)
		p.Description = "eHealth digital test certificate"
		p.LogoText = "Test"

		p.Generic.SecondaryFields = append(p.Generic.SecondaryFields,
			text("tr", "Result", t.Result.Display),
		)
		p.Generic.AuxiliaryFields = append(p.Generic.AuxiliaryFields,
			calendarDate("dt", "Date of test", t.SampleDate),
		)
		p.Generic.BackFields = append(p.Generic.BackFields,
			text("iss", "Issued by", issuer),
			text("tt", "Test type", t.Type.Display),
		)
		if t.Name != "" {
			p.Generic.BackFields = append(p.Generic.BackFields, text("nm", "Test name", t.Name))
		}
		if t.Centre != "" {
			p.Generic.BackFields = append(p.Generic.BackFields, text("tc", "Test centre", t.Centre))
		}
		p.Generic.BackFields = append(p.Generic.BackFields, text("co", "Country", t.Country.Display))

	case hcert.Recoveries:
		r := g[0]
		disease, issuer = r.Disease.Display, r.Issuer
		p.SerialNumber = "R:" + StripUVCI(r.ID)
		p.Description = "eHealth digital recovery certificate"
		p.LogoText = "Recovery"

		p.Generic.AuxiliaryFields = append(p.Generic.AuxiliaryFields,
			calendarDate("df", "Valid from", r.ValidFrom),
			calendarDate("du", "Valid until", r.ValidUntil),
		)
		p.Generic.BackFields = append(p.Generic.BackFields,
			text("iss", "Issued by", issuer),
			calendarDate("fr", "Date of first positive test", r.FirstPositive),
			text("co", "Country", r.Country.Display),
		)

	default:
		return nil, fmt.Errorf("unsupported record group %T", c.Group)
	}

	p.OrganizationName = issuer
	p.Generic.HeaderFields = []Field{text("tg", "For", disease)}
	return p, nil
}
