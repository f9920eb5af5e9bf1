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

package pkpass

import (
	"embed"
	"fmt"
)

//go:embed assets/*.png
var assetFS embed.FS

// Asset is a static file stored in every archive.
type Asset struct {
	Name string
	Data []byte
}

var assetNames = []string{"icon.png", "icon@2x.png", "logo.png", "logo@2x.png"}

// DefaultAssets returns the bundled icons and logos in archive order.
func DefaultAssets() ([]Asset, error) {
	out := make([]Asset, 0, len(assetNames))
	for _, name := range assetNames {
		data, err := assetFS.ReadFile("assets/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading asset %s: %w", name, err)
		}
		out = append(out, Asset{Name: name, Data: data})
	}
	return out, nil
}
