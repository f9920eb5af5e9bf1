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
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/dominikschlosser/healthpass/internal/hcert"
	"github.com/dominikschlosser/healthpass/internal/trustlist"
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

// Options controls terminal rendering.
type Options struct {
	JSON    bool
	Verbose bool
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	valueColor   = color.New(color.FgWhite)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)

	// timeNow is the function used to get the current time. Override in tests.
	timeNow = time.Now
)

const dateLayout = "2006-01-02"

// relativeTime returns a human-readable relative duration string for t.
// Future times return "in X units", past times return "X units ago".
func relativeTime(t time.Time) string {
	now := timeNow()
	d := t.Sub(now)
	if d < 0 {
		d = -d
		return formatDuration(d) + " ago"
	}
	return "in " + formatDuration(d)
}

func formatDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d >= 60*day:
		months := int(d / (30 * day))
		if months == 1 {
			return "1 month"
		}
		return fmt.Sprintf("%d months", months)
	case d >= 2*day:
		days := int(d / day)
		return fmt.Sprintf("%d days", days)
	case d >= day:
		return "1 day"
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Hour:
		return "1 hour"
	case d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return "1 minute"
	}
}

// BuildCredentialJSON returns the JSON-serializable map for a credential.
func BuildCredentialJSON(cred hcert.Credential) map[string]any {
	out := map[string]any{"scheme": string(cred.Scheme())}
	switch c := cred.(type) {
	case *hcert.EUCredential:
		out["issuer"] = c.Issuer
		out["issuedAt"] = c.IssuedAt.Format(time.RFC3339)
		out["expiresAt"] = c.ExpiresAt.Format(time.RFC3339)
		out["version"] = c.Version
		out["name"] = map[string]any{
			"fn":  c.Name.Surname,
			"fnt": c.Name.SurnameStd,
			"gn":  c.Name.Forename,
			"gnt": c.Name.ForenameStd,
		}
		out["dob"] = c.DateOfBirth.Format(dateLayout)
		if c.Group != nil {
			out["group"] = string(c.Group.Kind())
			out["records"] = buildRecordsJSON(c.Group)
		}
		if c.Envelope != nil {
			out["algorithm"] = hcert.AlgorithmName(c.Envelope.Algorithm)
			out["kid"] = hex.EncodeToString(c.Envelope.KeyID)
		}
	case *hcert.TurkeyVaccinationCredential:
		out["url"] = c.URL
	case *hcert.TurkeyHESCredential:
		out["session"] = c.Session.String()
		out["code"] = c.Code
	}
	return out
}

func buildRecordsJSON(g hcert.Group) []map[string]any {
	var out []map[string]any
	switch records := g.(type) {
	case hcert.Vaccinations:
		for _, v := range records {
			out = append(out, map[string]any{
				"tg": codeJSON(v.Disease),
				"vp": codeJSON(v.Prophylaxis),
				"mp": codeJSON(v.Product),
				"ma": codeJSON(v.Manufacturer),
				"dn": v.Dose,
				"sd": v.Series,
				"dt": v.Date.Format(dateLayout),
				"co": codeJSON(v.Country),
				"is": v.Issuer,
				"ci": v.ID,
			})
		}
	case hcert.Tests:
		for _, t := range records {
			rec := map[string]any{
				"tg": codeJSON(t.Disease),
				"tt": codeJSON(t.Type),
				"sc": t.SampleDate.Format(time.RFC3339),
				"tr": codeJSON(t.Result),
				"co": codeJSON(t.Country),
				"is": t.Issuer,
				"ci": t.ID,
			}
			if t.Name != "" {
				rec["nm"] = t.Name
			}
			if t.Device != "" {
				rec["ma"] = t.Device
			}
			if t.Centre != "" {
				rec["tc"] = t.Centre
			}
			out = append(out, rec)
		}
	case hcert.Recoveries:
		for _, r := range records {
			out = append(out, map[string]any{
				"tg": codeJSON(r.Disease),
				"fr": r.FirstPositive.Format(dateLayout),
				"df": r.ValidFrom.Format(dateLayout),
				"du": r.ValidUntil.Format(dateLayout),
				"co": codeJSON(r.Country),
				"is": r.Issuer,
				"ci": r.ID,
			})
		}
	}
	return out
}

func codeJSON(v valueset.Value) map[string]any {
	return map[string]any{"code": v.Code, "display": v.Display}
}

// PrintCredential prints a decoded credential to the terminal.
func PrintCredential(cred hcert.Credential, opts Options) {
	if opts.JSON {
		PrintJSON(BuildCredentialJSON(cred))
		return
	}

	switch c := cred.(type) {
	case *hcert.EUCredential:
		printEU(c, opts)
	case *hcert.TurkeyVaccinationCredential:
		headerColor.Println("Turkish Vaccination Certificate")
		headerColor.Println(strings.Repeat("─", 50))
		printKV("URL", c.URL, 1)
	case *hcert.TurkeyHESCredential:
		headerColor.Println("Turkish HES Code")
		headerColor.Println(strings.Repeat("─", 50))
		printKV("Code", c.Code, 1)
		printKV("Session", c.Session.String(), 1)
	}
	fmt.Println()
}

func printEU(c *hcert.EUCredential, opts Options) {
	headerColor.Println("EU Digital COVID Certificate")
	headerColor.Println(strings.Repeat("─", 50))

	printSection("Certificate")
	printKV("Issuer", c.Issuer, 1)
	printKV("Issued", c.IssuedAt.Format(time.RFC3339), 1)
	printExpiry(c.ExpiresAt)
	printKV("Schema", c.Version, 1)
	if opts.Verbose && c.Envelope != nil {
		printKV("Algorithm", hcert.AlgorithmName(c.Envelope.Algorithm), 1)
		printKV("Key ID", hex.EncodeToString(c.Envelope.KeyID), 1)
	}

	printSection("Subject")
	printKV("Name", c.Name.Forename+" "+c.Name.Surname, 1)
	if opts.Verbose {
		printKV("Standardised", c.Name.ForenameStd+"<<"+c.Name.SurnameStd, 1)
	}
	printKV("Date of Birth", c.DateOfBirth.Format(dateLayout), 1)

	switch g := c.Group.(type) {
	case hcert.Vaccinations:
		printSection(fmt.Sprintf("Vaccinations (%d)", len(g)))
		for i, v := range g {
			dimColor.Printf("  [%d] %s\n", i+1, v.ID)
			printKV("Disease", display(v.Disease), 2)
			printKV("Vaccine", display(v.Prophylaxis), 2)
			printKV("Product", display(v.Product), 2)
			printKV("Manufacturer", display(v.Manufacturer), 2)
			printKV("Dose", fmt.Sprintf("%d of %d", v.Dose, v.Series), 2)
			printKV("Date", v.Date.Format(dateLayout), 2)
			printKV("Country", display(v.Country), 2)
			printKV("Issued by", v.Issuer, 2)
		}
	case hcert.Tests:
		printSection(fmt.Sprintf("Tests (%d)", len(g)))
		for i, t := range g {
			dimColor.Printf("  [%d] %s\n", i+1, t.ID)
			printKV("Disease", display(t.Disease), 2)
			printKV("Type", display(t.Type), 2)
			if t.Name != "" {
				printKV("Name", t.Name, 2)
			}
			if t.Device != "" {
				printKV("Device", t.Device, 2)
			}
			printKV("Sampled", t.SampleDate.Format(time.RFC3339), 2)
			printKV("Result", display(t.Result), 2)
			if t.Centre != "" {
				printKV("Centre", t.Centre, 2)
			}
			printKV("Country", display(t.Country), 2)
			printKV("Issued by", t.Issuer, 2)
		}
	case hcert.Recoveries:
		printSection(fmt.Sprintf("Recoveries (%d)", len(g)))
		for i, r := range g {
			dimColor.Printf("  [%d] %s\n", i+1, r.ID)
			printKV("Disease", display(r.Disease), 2)
			printKV("First positive", r.FirstPositive.Format(dateLayout), 2)
			printKV("Valid", r.ValidFrom.Format(dateLayout)+" → "+r.ValidUntil.Format(dateLayout), 2)
			printKV("Country", display(r.Country), 2)
			printKV("Issued by", r.Issuer, 2)
		}
	}
}

func display(v valueset.Value) string {
	if v.Code == "" || v.Code == v.Display {
		return v.Display
	}
	return fmt.Sprintf("%s %s", v.Display, dimColor.Sprintf("(%s)", v.Code))
}

func printExpiry(expires time.Time) {
	rel := dimColor.Sprintf(" (%s)", relativeTime(expires))
	if expires.Before(timeNow()) {
		warnColor.Printf("  ⚠ Expired: %s%s\n", expires.Format(time.RFC3339), rel)
		return
	}
	printKV("Expires", expires.Format(time.RFC3339)+rel, 1)
}

// Verification is the outcome of an issuer signature check.
type Verification struct {
	Checked bool   `json:"checked"`
	Valid   bool   `json:"valid"`
	Issuer  string `json:"issuer,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PrintVerification prints a signature check outcome.
func PrintVerification(v Verification, opts Options) {
	if opts.JSON {
		PrintJSON(v)
		return
	}

	printSection("Signature Verification")
	switch {
	case !v.Checked:
		dimColor.Printf("  – Not checked: issuer %s is not in the verify list\n", v.Issuer)
	case v.Valid:
		successColor.Println("  ✓ Signature valid")
	default:
		errorColor.Println("  ✗ Signature invalid")
		if v.Error != "" {
			errorColor.Printf("  ✗ %s\n", v.Error)
		}
	}
}

// BuildKeyIndexJSON returns the JSON-serializable list of indexed keys.
func BuildKeyIndexJSON(idx *trustlist.KeyIndex) []map[string]any {
	out := []map[string]any{}
	for _, e := range idx.Entries() {
		out = append(out, map[string]any{
			"issuer":  e.Issuer,
			"kid":     hex.EncodeToString(e.KeyID),
			"keyType": keyType(e.PublicKey),
		})
	}
	return out
}

// PrintKeyIndex prints the signing keys loaded from a trust list.
func PrintKeyIndex(idx *trustlist.KeyIndex, opts Options) {
	if opts.JSON {
		PrintJSON(BuildKeyIndexJSON(idx))
		return
	}

	fmt.Println("DCC Signing Keys")
	fmt.Println("──────────────────────────────────────────────────")
	fmt.Printf("\n  Keys (%d):\n", idx.Len())
	for _, e := range idx.Entries() {
		fmt.Printf("\n  ┌ %s %s\n", e.Issuer, hex.EncodeToString(e.KeyID))
		fmt.Printf("  │ Type: %s\n", keyType(e.PublicKey))
	}
	fmt.Println()
}

// BuildValueSetsJSON summarizes the bundled value sets. Codes are included
// only when withCodes is set.
func BuildValueSetsJSON(reg *valueset.Registry, withCodes bool) []map[string]any {
	out := []map[string]any{}
	for _, n := range valueset.Names {
		vs := reg.Set(n)
		if vs == nil {
			continue
		}
		entry := map[string]any{
			"name":  string(n),
			"id":    vs.ID,
			"date":  vs.Date,
			"codes": len(vs.Values),
		}
		if withCodes {
			entry["codes"] = vs.Codes()
		}
		out = append(out, entry)
	}
	return out
}

// PrintValueSets prints the value sets credential codes are checked against.
// Verbose output lists every code with its display text.
func PrintValueSets(reg *valueset.Registry, opts Options) {
	if opts.JSON {
		PrintJSON(BuildValueSetsJSON(reg, opts.Verbose))
		return
	}

	fmt.Println("Value Sets")
	fmt.Println("──────────────────────────────────────────────────")
	for _, n := range valueset.Names {
		vs := reg.Set(n)
		if vs == nil {
			continue
		}
		printSection(string(n))
		printKV("ID", vs.ID, 1)
		printKV("Date", vs.Date, 1)
		printKV("Codes", fmt.Sprintf("%d", len(vs.Values)), 1)
		if opts.Verbose {
			for _, code := range vs.Codes() {
				printKV(code, vs.Values[code].Display, 2)
			}
		}
	}
	fmt.Println()
}

func keyType(pub any) string {
	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		return "EC " + k.Curve.Params().Name
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA %d", k.N.BitLen())
	default:
		return fmt.Sprintf("%T", pub)
	}
}

func printSection(title string) {
	fmt.Println()
	headerColor.Printf("┌ %s\n", title)
}

func printKV(key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	labelColor.Printf("%s%s: ", prefix, key)
	valueColor.Println(value)
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("Error:"), msg)
}
