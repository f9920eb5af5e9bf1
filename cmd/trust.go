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
	"github.com/spf13/cobra"

	"github.com/dominikschlosser/healthpass/internal/output"
	"github.com/dominikschlosser/healthpass/internal/trustlist"
)

var trustIssuer string

var trustCmd = &cobra.Command{
	Use:   "trust [file|url]",
	Short: "Inspect a DCC signing key list",
	Long:  "Loads a trust list (JSON array of base64 kid and publicKey entries) and prints the indexed signing keys. Defaults to the NHS key list.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrust,
}

func init() {
	trustCmd.Flags().StringVar(&trustIssuer, "issuer", trustlist.DefaultIssuer, "Issuer country the keys belong to")
	rootCmd.AddCommand(trustCmd)
}

func runTrust(cmd *cobra.Command, args []string) error {
	source := cfg.TrustList
	if len(args) > 0 {
		source = args[0]
	}

	idx, err := loadKeyIndex(cmd.Context(), source, trustIssuer)
	if err != nil {
		return err
	}

	output.PrintKeyIndex(idx, outputOptions())
	return nil
}
