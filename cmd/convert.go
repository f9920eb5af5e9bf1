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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dominikschlosser/healthpass/internal/failure"
	"github.com/dominikschlosser/healthpass/internal/pkpass"
)

var (
	convertOut    string
	convertImage  string
	convertScreen bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert a scanned health code into a .pkpass file",
	Long:  "Decodes and verifies a health code and writes the signed wallet pass. Input can be a file path, a raw code string, stdin, or a QR image via --image.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", pkpass.FileName, "Output file")
	convertCmd.Flags().StringVar(&convertImage, "image", "", "Read the code from a QR code image (PNG or JPEG)")
	convertCmd.Flags().BoolVar(&convertScreen, "screen", false, "Read the code from a screen region (macOS)")
	addTrustFlags(convertCmd, &cfg)
	addPassFlags(convertCmd, &cfg)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	raw, err := readCode(cmd.Context(), args, convertImage, convertScreen)
	if err != nil {
		return err
	}

	conv, err := buildConverter(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}

	archive, err := conv.Convert(cmd.Context(), raw)
	if err != nil {
		return fmt.Errorf("%s: %w", failure.CategoryOf(err).Label(), err)
	}

	if err := os.WriteFile(convertOut, archive, 0o644); err != nil {
		return fmt.Errorf("writing pass: %w", err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", convertOut, len(archive))
	return nil
}
