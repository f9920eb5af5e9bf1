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
	"github.com/dominikschlosser/healthpass/internal/valueset"
)

var valueSetsCmd = &cobra.Command{
	Use:   "valuesets",
	Short: "List the bundled value sets",
	Long:  "Prints the value sets that vaccine, test, disease and country codes are validated against. With --verbose every code and its display text is listed.",
	Args:  cobra.NoArgs,
	RunE:  runValueSets,
}

func init() {
	rootCmd.AddCommand(valueSetsCmd)
}

func runValueSets(cmd *cobra.Command, args []string) error {
	reg, err := valueset.Load()
	if err != nil {
		return err
	}
	output.PrintValueSets(reg, outputOptions())
	return nil
}
