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

// Package convert runs the scanned-code to wallet-pass pipeline:
// classify, decode, verify, map and package.
package convert

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/format"
	"github.com/dominikschlosser/healthpass/internal/hcert"
	"github.com/dominikschlosser/healthpass/internal/metrics"
	"github.com/dominikschlosser/healthpass/internal/pass"
	"github.com/dominikschlosser/healthpass/internal/pkpass"
	"github.com/dominikschlosser/healthpass/internal/trustlist"
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

// Converter holds the shared, read-only state of the pipeline. A single
// Converter serves concurrent requests.
type Converter struct {
	Registry *valueset.Registry
	Keys     hcert.KeyResolver
	// VerifyIssuers lists the issuer countries whose signatures are checked.
	// Credentials from other issuers are accepted unverified.
	VerifyIssuers []string
	Packager      *pkpass.Packager
	Options       pass.Options
	Metrics       *metrics.Metrics
}

// New returns a Converter checking signatures of trustlist.DefaultIssuer.
func New(reg *valueset.Registry, keys *trustlist.KeyIndex, pk *pkpass.Packager) *Converter {
	return &Converter{
		Registry:      reg,
		Keys:          keys,
		VerifyIssuers: []string{trustlist.DefaultIssuer},
		Packager:      pk,
	}
}

// Decode classifies and decodes raw and checks the issuer signature where
// the issuer is in VerifyIssuers.
func (c *Converter) Decode(raw string) (hcert.Credential, error) {
	cred, err := hcert.Decode(raw, c.Registry)
	if err != nil {
		return nil, err
	}
	if eu, ok := cred.(*hcert.EUCredential); ok && c.mustVerify(eu.Issuer) {
		if err := hcert.Verify(eu, c.Keys); err != nil {
			return nil, err
		}
	}
	return cred, nil
}

// Pass decodes raw and maps it to a pass without packaging.
func (c *Converter) Pass(raw string) (*pass.Pass, error) {
	cred, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}
	return pass.FromCredential(cred, raw, c.Options)
}

// Convert returns the signed archive for raw. Errors carry a
// failure.Category; the detail is logged, callers should only expose the
// category label.
func (c *Converter) Convert(ctx context.Context, raw string) ([]byte, error) {
	reqID := uuid.NewString()
	scheme := format.Detect(raw)
	start := time.Now()

	out, err := c.convert(ctx, raw)
	c.Metrics.ObserveConvertLatency(time.Since(start))
	if err != nil {
		cat := failure.CategoryOf(err)
		c.Metrics.IncrementConversion(string(scheme), string(cat))
		log.Printf("[Convert] %s: %s conversion failed (%s): %v", reqID, scheme, cat, err)
		return nil, err
	}
	c.Metrics.IncrementConversion(string(scheme), "ok")
	log.Printf("[Convert] %s: %s pass generated (%d bytes)", reqID, scheme, len(out))
	return out, nil
}

func (c *Converter) convert(ctx context.Context, raw string) ([]byte, error) {
	p, err := c.Pass(raw)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, failure.Wrap(failure.Internal, err)
	}
	return c.Packager.Package(p)
}

func (c *Converter) mustVerify(issuer string) bool {
	return slices.Contains(c.VerifyIssuers, issuer)
}
