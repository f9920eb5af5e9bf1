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
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dominikschlosser/healthpass/internal/config"
	"github.com/dominikschlosser/healthpass/internal/output"
)

var (
	jsonOutput bool
	noColor    bool
	verbose    bool

	// cfg holds flag values; its defaults come from HEALTHPASS_* variables.
	cfg, cfgErr = config.FromEnv()
)

var rootCmd = &cobra.Command{
	Use:   "healthpass",
	Short: "Convert health certificate QR codes into Apple Wallet passes",
	Long:  "Decodes EU Digital COVID Certificates, Turkish vaccination cards and HES codes, verifies issuer signatures against a trust list, and packages the result as a signed .pkpass file. Runs as a CLI or as an HTTP service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		return cfgErr
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func outputOptions() output.Options {
	return output.Options{JSON: jsonOutput, Verbose: verbose}
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
