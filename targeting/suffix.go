// Copyright 2024 Google Inc. All rights reserved.
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

package targeting

import (
	"fmt"
	"strings"

	"android/bundletool/bundleproto"
)

// Suffix derives the split-id suffix from a targeting. Tokens are emitted in
// the fixed dimension order ABI, multi-ABI, screen density, language,
// texture format, device tier, country set and joined with '_'. Hyphens are
// replaced with underscores; the platform rejects hyphens in split ids. A
// dimension with alternatives but no values yields an "other" fallback
// token. The suffix of the default targeting is empty.
func Suffix(t *bundleproto.ApkTargeting) string {
	if t == nil {
		return ""
	}
	var tokens []string
	add := func(tok string) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	if at := t.AbiTargeting; at != nil {
		if len(at.Value) > 0 {
			for _, a := range at.Value {
				add(safeToken(strings.ToLower(a.Alias.String())))
			}
		} else if len(at.Alternatives) > 0 {
			add("other_abis")
		}
	}
	if mt := t.MultiAbiTargeting; mt != nil && len(mt.Value) > 0 {
		for _, m := range mt.Value {
			var parts []string
			for _, a := range m.Abi {
				parts = append(parts, safeToken(strings.ToLower(a.Alias.String())))
			}
			add(strings.Join(parts, "."))
		}
	}
	if dt := t.ScreenDensityTargeting; dt != nil {
		if len(dt.Value) > 0 {
			for _, d := range dt.Value {
				if d.HasDpi {
					add(fmt.Sprintf("%ddpi", d.DensityDpi))
				} else {
					add(strings.ToLower(d.DensityAlias.String()))
				}
			}
		} else if len(dt.Alternatives) > 0 {
			add("other_density")
		}
	}
	if lt := t.LanguageTargeting; lt != nil {
		if len(lt.Value) > 0 {
			for _, l := range lt.Value {
				add(safeToken(l))
			}
		} else if len(lt.Alternatives) > 0 {
			add("other_lang")
		}
	}
	if tt := t.TextureCompressionFormatTargeting; tt != nil {
		if len(tt.Value) > 0 {
			for _, f := range tt.Value {
				add(strings.ToLower(f.Alias.String()))
			}
		} else if len(tt.Alternatives) > 0 {
			add("other_tcf")
		}
	}
	if dt := t.DeviceTierTargeting; dt != nil {
		if len(dt.Value) > 0 {
			for _, tier := range dt.Value {
				add(fmt.Sprintf("tier_%d", tier.Value))
			}
		} else if len(dt.Alternatives) > 0 {
			add("other_tier")
		}
	}
	if ct := t.CountrySetTargeting; ct != nil {
		if len(ct.Value) > 0 {
			for _, c := range ct.Value {
				add("countries_" + safeToken(c))
			}
		} else if len(ct.Alternatives) > 0 {
			add("other_countries")
		}
	}
	return strings.Join(tokens, "_")
}

func safeToken(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}
