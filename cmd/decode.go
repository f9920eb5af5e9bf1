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

package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dominikschlosser/healthpass/internal/config"
	"github.com/dominikschlosser/healthpass/internal/hcert"
	"github.com/dominikschlosser/healthpass/internal/output"
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

var (
	decodeImage  string
	decodeScreen bool
	decodeVerify bool

	// decodeCfg keeps the decode trust flags apart from serve and convert.
	decodeCfg = cfg
)

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Decode and display a health code",
	Long:  "Decodes an EU Digital COVID Certificate, Turkish vaccination URL or HES code and prints its contents. With --verify, EU certificates from the verify issuers are checked against the trust list. Input can be a file path, raw string, stdin, or a QR image via --image.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeImage, "image", "", "Read the code from a QR code image (PNG or JPEG)")
	decodeCmd.Flags().BoolVar(&decodeScreen, "screen", false, "Read the code from a screen region (macOS)")
	decodeCmd.Flags().BoolVar(&decodeVerify, "verify", false, "Check the issuer signature against the trust list")
	addTrustFlags(decodeCmd, &decodeCfg)
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := readCode(cmd.Context(), args, decodeImage, decodeScreen)
	if err != nil {
		return err
	}

	reg, err := valueset.Load()
	if err != nil {
		return err
	}

	cred, err := hcert.Decode(raw, reg)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	opts := outputOptions()
	if !decodeVerify {
		output.PrintCredential(cred, opts)
		return nil
	}

	eu, ok := cred.(*hcert.EUCredential)
	if !ok {
		output.PrintCredential(cred, opts)
		return nil
	}
	v, err := verifyCredential(cmd.Context(), eu, decodeCfg)
	if err != nil {
		return err
	}

	if opts.JSON {
		out := output.BuildCredentialJSON(cred)
		out["verification"] = v
		output.PrintJSON(out)
		return nil
	}
	output.PrintCredential(cred, opts)
	output.PrintVerification(v, opts)
	fmt.Println()
	return nil
}

func verifyCredential(ctx context.Context, eu *hcert.EUCredential, c config.Config) (output.Verification, error) {
	v := output.Verification{Issuer: eu.Issuer}
	if !slices.Contains(c.VerifyIssuers, eu.Issuer) {
		return v, nil
	}

	idx, err := loadKeyIndex(ctx, c.TrustList, c.TrustIssuer)
	if err != nil {
		return v, err
	}

	v.Checked = true
	if err := hcert.Verify(eu, idx); err != nil {
		v.Error = err.Error()
		return v, nil
	}
	v.Valid = true
	return v, nil
}
