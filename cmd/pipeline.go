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

package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dominikschlosser/healthpass/internal/config"
	"github.com/dominikschlosser/healthpass/internal/convert"
	"github.com/dominikschlosser/healthpass/internal/format"
	"github.com/dominikschlosser/healthpass/internal/metrics"
	"github.com/dominikschlosser/healthpass/internal/pkpass"
	"github.com/dominikschlosser/healthpass/internal/qr"
	"github.com/dominikschlosser/healthpass/internal/trustlist"
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

// addTrustFlags registers the trust list flags shared by serve, convert and decode.
func addTrustFlags(cmd *cobra.Command, c *config.Config) {
	cmd.Flags().StringVar(&c.TrustList, "trust-list", c.TrustList, "Trust list URL or file (JSON array of kid/publicKey)")
	cmd.Flags().StringVar(&c.TrustIssuer, "trust-issuer", c.TrustIssuer, "Issuer country the trust list keys belong to")
	cmd.Flags().StringSliceVar(&c.VerifyIssuers, "verify-issuer", c.VerifyIssuers, "Issuer countries whose signatures are checked")
}

// addPassFlags registers the pass signing flags shared by serve and convert.
func addPassFlags(cmd *cobra.Command, c *config.Config) {
	cmd.Flags().StringVar(&c.PassCert, "pass-cert", c.PassCert, "Pass type certificate (DER or PEM)")
	cmd.Flags().StringVar(&c.PassKey, "pass-key", c.PassKey, "Pass type private key (DER or PEM)")
	cmd.Flags().StringVar(&c.PassIntermediate, "pass-intermediate", c.PassIntermediate, "Apple WWDR intermediate certificate (DER or PEM)")
	cmd.Flags().StringVar(&c.PassTypeID, "pass-type-id", c.PassTypeID, "Pass type identifier")
	cmd.Flags().StringVar(&c.TeamID, "team-id", c.TeamID, "Apple team identifier")
}

// loadKeyIndex fetches the trust list and scopes its keys to issuer.
func loadKeyIndex(ctx context.Context, source, issuer string) (*trustlist.KeyIndex, error) {
	entries, err := trustlist.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading trust list: %w", err)
	}
	return trustlist.NewKeyIndex(map[string][]trustlist.Entry{issuer: entries}), nil
}

// buildConverter loads the trust list and the pass signing credentials
// concurrently and wires them into a Converter. Nothing is served until both
// have loaded.
func buildConverter(ctx context.Context, c config.Config, m *metrics.Metrics) (*convert.Converter, error) {
	reg, err := valueset.Load()
	if err != nil {
		return nil, err
	}

	var (
		idx    *trustlist.KeyIndex
		signer *pkpass.Signer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idx, err = loadKeyIndex(gctx, c.TrustList, c.TrustIssuer)
		return err
	})
	g.Go(func() error {
		var err error
		signer, err = pkpass.LoadSigner(c.PassCert, c.PassKey, c.PassIntermediate)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("[Startup] loaded %d signing keys for %s from %s", idx.Len(), c.TrustIssuer, c.TrustList)
	cert := signer.Certificate()
	log.Printf("[Startup] pass certificate %q valid until %s", cert.Subject.CommonName, cert.NotAfter.Format("2006-01-02"))
	m.SetTrustedKeys(idx.Len())

	assets, err := pkpass.DefaultAssets()
	if err != nil {
		return nil, err
	}

	conv := convert.New(reg, idx, pkpass.New(signer, assets))
	conv.VerifyIssuers = c.VerifyIssuers
	conv.Options = c.PassOptions()
	conv.Metrics = m
	return conv, nil
}

// readCode returns the scanned string from an image, a screen capture, or
// the positional argument (file path, raw string or stdin).
func readCode(ctx context.Context, args []string, imagePath string, screen bool) (string, error) {
	switch {
	case imagePath != "":
		return qr.ScanFile(imagePath)
	case screen:
		return qr.ScanScreen(ctx)
	}
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	return format.ReadInput(input)
}
