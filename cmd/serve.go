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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dominikschlosser/healthpass/internal/metrics"
	"github.com/dominikschlosser/healthpass/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pass conversion web service",
	Long:  "Loads the trust list and pass signing credentials, then serves GET /qr-data?d=<code> which returns a signed .pkpass, plus a landing page, /healthz and /metrics.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	addTrustFlags(serveCmd, &cfg)
	addPassFlags(serveCmd, &cfg)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	conv, err := buildConverter(ctx, cfg, m)
	if err != nil {
		return err
	}

	fmt.Printf("Starting Health Pass at http://localhost:%d\n", cfg.Port)
	return web.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Port), web.NewRouter(conv, m))
}
