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

// Package targeting implements the algebra over targeting tuples:
// normalization, merging with universe checks, subsumption, suffix strings
// and the suffix allocator.
package targeting

import (
	"sort"

	"android/bundletool/bundleproto"
)

// Normalize canonicalizes t in place: repeated values and alternatives are
// sorted and deduplicated, and structurally empty sub-targetings are dropped
// so that the empty targeting has exactly one representation. Normalization
// is idempotent.
func Normalize(t *bundleproto.ApkTargeting) {
	if t == nil {
		return
	}
	if t.AbiTargeting != nil {
		t.AbiTargeting.Value = sortAbis(t.AbiTargeting.Value)
		t.AbiTargeting.Alternatives = sortAbis(t.AbiTargeting.Alternatives)
		if len(t.AbiTargeting.Value) == 0 && len(t.AbiTargeting.Alternatives) == 0 {
			t.AbiTargeting = nil
		}
	}
	if t.MultiAbiTargeting != nil {
		t.MultiAbiTargeting.Value = sortMultiAbis(t.MultiAbiTargeting.Value)
		t.MultiAbiTargeting.Alternatives = sortMultiAbis(t.MultiAbiTargeting.Alternatives)
		if len(t.MultiAbiTargeting.Value) == 0 && len(t.MultiAbiTargeting.Alternatives) == 0 {
			t.MultiAbiTargeting = nil
		}
	}
	if t.ScreenDensityTargeting != nil {
		t.ScreenDensityTargeting.Value = sortDensities(t.ScreenDensityTargeting.Value)
		t.ScreenDensityTargeting.Alternatives = sortDensities(t.ScreenDensityTargeting.Alternatives)
		if len(t.ScreenDensityTargeting.Value) == 0 && len(t.ScreenDensityTargeting.Alternatives) == 0 {
			t.ScreenDensityTargeting = nil
		}
	}
	if t.LanguageTargeting != nil {
		t.LanguageTargeting.Value = sortStrings(t.LanguageTargeting.Value)
		t.LanguageTargeting.Alternatives = sortStrings(t.LanguageTargeting.Alternatives)
		if len(t.LanguageTargeting.Value) == 0 && len(t.LanguageTargeting.Alternatives) == 0 {
			t.LanguageTargeting = nil
		}
	}
	if t.SdkVersionTargeting != nil {
		t.SdkVersionTargeting.Value = sortSdkVersions(t.SdkVersionTargeting.Value)
		t.SdkVersionTargeting.Alternatives = sortSdkVersions(t.SdkVersionTargeting.Alternatives)
		if len(t.SdkVersionTargeting.Value) == 0 && len(t.SdkVersionTargeting.Alternatives) == 0 {
			t.SdkVersionTargeting = nil
		}
	}
	if t.TextureCompressionFormatTargeting != nil {
		t.TextureCompressionFormatTargeting.Value = sortTextures(t.TextureCompressionFormatTargeting.Value)
		t.TextureCompressionFormatTargeting.Alternatives = sortTextures(t.TextureCompressionFormatTargeting.Alternatives)
		if len(t.TextureCompressionFormatTargeting.Value) == 0 &&
			len(t.TextureCompressionFormatTargeting.Alternatives) == 0 {
			t.TextureCompressionFormatTargeting = nil
		}
	}
	if t.DeviceTierTargeting != nil {
		t.DeviceTierTargeting.Value = sortInt32Values(t.DeviceTierTargeting.Value)
		t.DeviceTierTargeting.Alternatives = sortInt32Values(t.DeviceTierTargeting.Alternatives)
		if len(t.DeviceTierTargeting.Value) == 0 && len(t.DeviceTierTargeting.Alternatives) == 0 {
			t.DeviceTierTargeting = nil
		}
	}
	if t.CountrySetTargeting != nil {
		t.CountrySetTargeting.Value = sortStrings(t.CountrySetTargeting.Value)
		t.CountrySetTargeting.Alternatives = sortStrings(t.CountrySetTargeting.Alternatives)
		if len(t.CountrySetTargeting.Value) == 0 && len(t.CountrySetTargeting.Alternatives) == 0 {
			t.CountrySetTargeting = nil
		}
	}
	if t.SanitizerTargeting != nil {
		if len(t.SanitizerTargeting.Value) == 0 {
			t.SanitizerTargeting = nil
		}
	}
}

// NormalizeVariant canonicalizes a variant targeting the same way.
func NormalizeVariant(t *bundleproto.VariantTargeting) {
	if t == nil {
		return
	}
	apk := &bundleproto.ApkTargeting{
		SdkVersionTargeting:               t.SdkVersionTargeting,
		AbiTargeting:                      t.AbiTargeting,
		ScreenDensityTargeting:            t.ScreenDensityTargeting,
		MultiAbiTargeting:                 t.MultiAbiTargeting,
		TextureCompressionFormatTargeting: t.TextureCompressionFormatTargeting,
	}
	Normalize(apk)
	t.SdkVersionTargeting = apk.SdkVersionTargeting
	t.AbiTargeting = apk.AbiTargeting
	t.ScreenDensityTargeting = apk.ScreenDensityTargeting
	t.MultiAbiTargeting = apk.MultiAbiTargeting
	t.TextureCompressionFormatTargeting = apk.TextureCompressionFormatTargeting
}

// IsDefault reports whether t is the empty targeting after normalization.
func IsDefault(t *bundleproto.ApkTargeting) bool {
	if t == nil {
		return true
	}
	return t.AbiTargeting == nil &&
		t.MultiAbiTargeting == nil &&
		t.ScreenDensityTargeting == nil &&
		t.LanguageTargeting == nil &&
		t.SdkVersionTargeting == nil &&
		t.TextureCompressionFormatTargeting == nil &&
		t.SanitizerTargeting == nil &&
		t.DeviceTierTargeting == nil &&
		t.CountrySetTargeting == nil
}

func sortAbis(abis []*bundleproto.Abi) []*bundleproto.Abi {
	sort.Slice(abis, func(i, j int) bool { return abis[i].Alias < abis[j].Alias })
	out := abis[:0]
	var last bundleproto.Abi_AbiAlias = -1
	for _, a := range abis {
		if a.Alias == last {
			continue
		}
		last = a.Alias
		out = append(out, a)
	}
	return out
}

func multiAbiKey(m *bundleproto.MultiAbi) string {
	m.Abi = sortAbis(m.Abi)
	key := ""
	for _, a := range m.Abi {
		key += a.Alias.String() + "|"
	}
	return key
}

func sortMultiAbis(ms []*bundleproto.MultiAbi) []*bundleproto.MultiAbi {
	keys := make(map[*bundleproto.MultiAbi]string, len(ms))
	for _, m := range ms {
		keys[m] = multiAbiKey(m)
	}
	sort.Slice(ms, func(i, j int) bool { return keys[ms[i]] < keys[ms[j]] })
	out := ms[:0]
	last := ""
	for _, m := range ms {
		if keys[m] == last && last != "" {
			continue
		}
		last = keys[m]
		out = append(out, m)
	}
	return out
}

func densityKey(d *bundleproto.ScreenDensity) int64 {
	if d.HasDpi {
		// Explicit dpi values order after aliases.
		return int64(d.DensityDpi) + 1000
	}
	return int64(d.DensityAlias)
}

func sortDensities(ds []*bundleproto.ScreenDensity) []*bundleproto.ScreenDensity {
	sort.Slice(ds, func(i, j int) bool { return densityKey(ds[i]) < densityKey(ds[j]) })
	out := ds[:0]
	var last int64 = -1
	for _, d := range ds {
		if densityKey(d) == last {
			continue
		}
		last = densityKey(d)
		out = append(out, d)
	}
	return out
}

func sortStrings(ss []string) []string {
	sort.Strings(ss)
	out := ss[:0]
	last := ""
	for i, s := range ss {
		if i > 0 && s == last {
			continue
		}
		last = s
		out = append(out, s)
	}
	return out
}

func sdkMin(s *bundleproto.SdkVersion) int32 {
	if s.Min == nil {
		return 0
	}
	return s.Min.Value
}

func sortSdkVersions(ss []*bundleproto.SdkVersion) []*bundleproto.SdkVersion {
	sort.Slice(ss, func(i, j int) bool { return sdkMin(ss[i]) < sdkMin(ss[j]) })
	out := ss[:0]
	var last int32 = -1
	for _, s := range ss {
		if sdkMin(s) == last {
			continue
		}
		last = sdkMin(s)
		out = append(out, s)
	}
	return out
}

func sortTextures(ts []*bundleproto.TextureCompressionFormat) []*bundleproto.TextureCompressionFormat {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Alias < ts[j].Alias })
	out := ts[:0]
	var last bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias = -1
	for _, t := range ts {
		if t.Alias == last {
			continue
		}
		last = t.Alias
		out = append(out, t)
	}
	return out
}

func sortInt32Values(vs []*bundleproto.Int32Value) []*bundleproto.Int32Value {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Value < vs[j].Value })
	out := vs[:0]
	first := true
	var last int32
	for _, v := range vs {
		if !first && v.Value == last {
			continue
		}
		first = false
		last = v.Value
		out = append(out, v)
	}
	return out
}
