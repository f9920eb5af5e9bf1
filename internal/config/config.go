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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dominikschlosser/healthpass/internal/pass"
	"github.com/dominikschlosser/healthpass/internal/trustlist"
)

// Config is the server configuration. Command-line flags default to the
// values read by FromEnv.
type Config struct {
	Port int

	TrustList     string
	TrustIssuer   string
	VerifyIssuers []string

	PassCert         string
	PassKey          string
	PassIntermediate string
	PassTypeID       string
	TeamID           string
}

// FromEnv builds a Config from HEALTHPASS_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:             8000,
		TrustList:        env("HEALTHPASS_TRUST_LIST", trustlist.DefaultURL),
		TrustIssuer:      env("HEALTHPASS_TRUST_ISSUER", trustlist.DefaultIssuer),
		VerifyIssuers:    splitList(env("HEALTHPASS_VERIFY_ISSUERS", trustlist.DefaultIssuer)),
		PassCert:         env("HEALTHPASS_PASS_CERT", "priv/pass.cer"),
		PassKey:          env("HEALTHPASS_PASS_KEY", "priv/pass.key"),
		PassIntermediate: env("HEALTHPASS_PASS_INTERMEDIATE", "priv/AppleWWDRCA.cer"),
		PassTypeID:       env("HEALTHPASS_PASS_TYPE_ID", pass.DefaultPassTypeID),
		TeamID:           env("HEALTHPASS_TEAM_ID", pass.DefaultTeamID),
	}
	if v := os.Getenv("HEALTHPASS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid HEALTHPASS_PORT %q", v)
		}
		cfg.Port = port
	}
	return cfg, nil
}

// PassOptions returns the identifiers stamped into generated passes.
func (c Config) PassOptions() pass.Options {
	return pass.Options{PassTypeID: c.PassTypeID, TeamID: c.TeamID}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
