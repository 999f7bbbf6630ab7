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

package splitter

import (
	"sort"
	"strconv"
	"strings"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
)

// assetsSplitter carves splits from targeted assets directories along one
// dimension. The dimension is described by a token extractor over the
// directory targeting and a targeting builder for the emitted splits.
type assetsSplitter struct {
	dimension string
	// tokens returns the dimension values of a directory targeting, empty
	// when the directory is not qualified on this dimension.
	tokens func(*bundleproto.AssetsDirectoryTargeting) []string
	// apply writes the dimension onto an apk targeting.
	apply func(t *bundleproto.ApkTargeting, value string, alternatives []string)
	// stripSuffix removes the dimension qualifier ("#tcf_astc") from emitted
	// entry directory names.
	stripSuffix bool
	// suffixToken is the path qualifier key, e.g. "tcf".
	suffixToken string
}

func newTextureSplitter(strip bool, defaultSuffix string) *assetsSplitter {
	// defaultSuffix is not used: the directories of every format, the
	// default one included, go to that format's split and none stay in the
	// master split.
	_ = defaultSuffix
	return &assetsSplitter{
		dimension: "texture compression format",
		tokens: func(t *bundleproto.AssetsDirectoryTargeting) []string {
			if t == nil || t.TextureCompressionFormat == nil {
				return nil
			}
			var out []string
			for _, f := range t.TextureCompressionFormat.Value {
				out = append(out, strings.ToLower(f.Alias.String()))
			}
			return out
		},
		apply: func(t *bundleproto.ApkTargeting, value string, alternatives []string) {
			tt := &bundleproto.TextureCompressionFormatTargeting{
				Value: []*bundleproto.TextureCompressionFormat{{Alias: textureAliasFromToken(value)}},
			}
			for _, a := range alternatives {
				tt.Alternatives = append(tt.Alternatives,
					&bundleproto.TextureCompressionFormat{Alias: textureAliasFromToken(a)})
			}
			t.TextureCompressionFormatTargeting = tt
		},
		stripSuffix: strip,
		suffixToken: "tcf",
	}
}

func newTierSplitter() *assetsSplitter {
	return &assetsSplitter{
		dimension: "device tier",
		tokens: func(t *bundleproto.AssetsDirectoryTargeting) []string {
			if t == nil || t.DeviceTier == nil {
				return nil
			}
			var out []string
			for _, v := range t.DeviceTier.Value {
				out = append(out, strconv.FormatInt(int64(v.Value), 10))
			}
			return out
		},
		apply: func(t *bundleproto.ApkTargeting, value string, alternatives []string) {
			tt := &bundleproto.DeviceTierTargeting{
				Value: []*bundleproto.Int32Value{{Value: tierFromToken(value)}},
			}
			for _, a := range alternatives {
				tt.Alternatives = append(tt.Alternatives, &bundleproto.Int32Value{Value: tierFromToken(a)})
			}
			t.DeviceTierTargeting = tt
		},
		suffixToken: "tier",
	}
}

func newCountrySplitter() *assetsSplitter {
	return &assetsSplitter{
		dimension: "country set",
		tokens: func(t *bundleproto.AssetsDirectoryTargeting) []string {
			if t == nil || t.CountrySet == nil {
				return nil
			}
			return append([]string(nil), t.CountrySet.Value...)
		},
		apply: func(t *bundleproto.ApkTargeting, value string, alternatives []string) {
			t.CountrySetTargeting = &bundleproto.CountrySetTargeting{
				Value:        []string{value},
				Alternatives: append([]string(nil), alternatives...),
			}
		},
		suffixToken: "countries",
	}
}

func textureAliasFromToken(token string) bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias {
	if v, ok := bundleproto.TextureCompressionFormat_value[strings.ToUpper(token)]; ok {
		return bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias(v)
	}
	return bundleproto.TextureCompressionFormat_UNSPECIFIED_TEXTURE_COMPRESSION_FORMAT
}

func tierFromToken(token string) int32 {
	v, _ := strconv.ParseInt(token, 10, 32)
	return int32(v)
}

func (a *assetsSplitter) Split(s *ModuleSplit) ([]*ModuleSplit, error) {
	if s.Assets == nil {
		return []*ModuleSplit{s}, nil
	}

	dirTokens := make(map[string][]string) // directory path -> tokens
	observed := make(map[string]bool)
	for _, d := range s.Assets.Directory {
		toks := a.tokens(d.Targeting)
		if len(toks) == 0 {
			continue
		}
		dirTokens[d.Path] = toks
		for _, t := range toks {
			observed[t] = true
		}
	}
	if len(observed) == 0 {
		return []*ModuleSplit{s}, nil
	}
	var values []string
	for v := range observed {
		values = append(values, v)
	}
	sort.Strings(values)

	claimed := make(map[string]string) // entry path -> token
	for dir, toks := range dirTokens {
		if len(toks) != 1 {
			return nil, bterror.InvalidBundlef(
				"assets directory %q targets %d %s values; exactly one is supported",
				dir, len(toks), a.dimension)
		}
		dirPath := bundle.MustZipPath(dir)
		for _, e := range s.Entries {
			if e.Path.StartsWith(dirPath) {
				claimed[e.Path.String()] = toks[0]
			}
		}
	}

	master := *s
	master.Entries = nil
	for _, e := range s.Entries {
		if _, taken := claimed[e.Path.String()]; !taken {
			master.Entries = append(master.Entries, e)
		}
	}
	out := []*ModuleSplit{&master}

	for _, v := range values {
		v := v
		t := new(bundleproto.ApkTargeting)
		a.apply(t, v, otherStrings(values, v))
		var entries []*bundle.ModuleEntry
		for _, e := range s.Entries {
			if claimed[e.Path.String()] != v {
				continue
			}
			if a.stripSuffix {
				e = e.WithPath(stripPathQualifier(e.Path, a.suffixToken))
			}
			entries = append(entries, e)
		}
		split := s.derive(t, entries)
		split.Assets = filterAssets(s.Assets, func(d *bundleproto.TargetedAssetsDirectory) bool {
			toks := a.tokens(d.Targeting)
			return len(toks) == 1 && toks[0] == v
		})
		out = append(out, split)
	}
	return out, nil
}

// stripPathQualifier removes a "#<key>_<value>" qualifier from every
// directory name of p.
func stripPathQualifier(p bundle.ZipPath, key string) bundle.ZipPath {
	names := p.Names()
	marker := "#" + key + "_"
	changed := false
	for i, name := range names {
		if j := strings.Index(name, marker); j >= 0 {
			names[i] = name[:j]
			changed = true
		}
	}
	if !changed {
		return p
	}
	return bundle.MustZipPath(strings.Join(names, "/"))
}
