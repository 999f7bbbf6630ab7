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
	"android/bundletool/bterror"
	"android/bundletool/bundleproto"
)

// Key returns a canonical comparable representation of t. Normalizes t as a
// side effect.
func Key(t *bundleproto.ApkTargeting) string {
	if t == nil {
		return ""
	}
	Normalize(t)
	return string(t.Marshal())
}

// VariantKey is Key for variant targetings.
func VariantKey(t *bundleproto.VariantTargeting) string {
	if t == nil {
		return ""
	}
	NormalizeVariant(t)
	return string(t.Marshal())
}

// Equal compares two targetings after normalization.
func Equal(a, b *bundleproto.ApkTargeting) bool {
	return Key(a) == Key(b)
}

// Merge unions a and b dimension-wise for sharding. On every dimension both
// sides share, the universes (values plus alternatives) must agree; a
// mismatch means the two splits were produced against different partitions
// of the same axis and cannot be fused.
func Merge(a, b *bundleproto.ApkTargeting) (*bundleproto.ApkTargeting, error) {
	if a == nil {
		a = new(bundleproto.ApkTargeting)
	}
	if b == nil {
		b = new(bundleproto.ApkTargeting)
	}
	out := new(bundleproto.ApkTargeting)
	if err := out.Unmarshal(a.Marshal()); err != nil {
		panic(err)
	}

	// ABI.
	if out.AbiTargeting == nil {
		out.AbiTargeting = b.AbiTargeting
	} else if b.AbiTargeting != nil {
		if !sameUniverse(abiUniverse(out.AbiTargeting), abiUniverse(b.AbiTargeting)) {
			return nil, conflict("ABI")
		}
		out.AbiTargeting.Value = append(out.AbiTargeting.Value, b.AbiTargeting.Value...)
		out.AbiTargeting.Alternatives = abiComplement(
			abiUniverse(out.AbiTargeting), sortAbis(out.AbiTargeting.Value))
	}

	// Screen density.
	if out.ScreenDensityTargeting == nil {
		out.ScreenDensityTargeting = b.ScreenDensityTargeting
	} else if b.ScreenDensityTargeting != nil {
		if !sameUniverse(densityUniverse(out.ScreenDensityTargeting), densityUniverse(b.ScreenDensityTargeting)) {
			return nil, conflict("screen density")
		}
		out.ScreenDensityTargeting.Value = append(
			out.ScreenDensityTargeting.Value, b.ScreenDensityTargeting.Value...)
		out.ScreenDensityTargeting.Alternatives = densityComplement(
			densityUniverse(out.ScreenDensityTargeting), sortDensities(out.ScreenDensityTargeting.Value))
	}

	// Language.
	if out.LanguageTargeting == nil {
		out.LanguageTargeting = b.LanguageTargeting
	} else if b.LanguageTargeting != nil {
		if !sameUniverse(stringUniverse(out.LanguageTargeting.Value, out.LanguageTargeting.Alternatives),
			stringUniverse(b.LanguageTargeting.Value, b.LanguageTargeting.Alternatives)) {
			return nil, conflict("language")
		}
		out.LanguageTargeting.Value = append(out.LanguageTargeting.Value, b.LanguageTargeting.Value...)
		out.LanguageTargeting.Alternatives = stringComplement(
			stringUniverse(out.LanguageTargeting.Value, out.LanguageTargeting.Alternatives),
			out.LanguageTargeting.Value)
	}

	// Texture compression format.
	if out.TextureCompressionFormatTargeting == nil {
		out.TextureCompressionFormatTargeting = b.TextureCompressionFormatTargeting
	} else if b.TextureCompressionFormatTargeting != nil {
		if !sameUniverse(textureUniverse(out.TextureCompressionFormatTargeting),
			textureUniverse(b.TextureCompressionFormatTargeting)) {
			return nil, conflict("texture compression format")
		}
		out.TextureCompressionFormatTargeting.Value = append(
			out.TextureCompressionFormatTargeting.Value, b.TextureCompressionFormatTargeting.Value...)
		out.TextureCompressionFormatTargeting.Alternatives = textureComplement(
			textureUniverse(out.TextureCompressionFormatTargeting),
			sortTextures(out.TextureCompressionFormatTargeting.Value))
	}

	// Device tier.
	if out.DeviceTierTargeting == nil {
		out.DeviceTierTargeting = b.DeviceTierTargeting
	} else if b.DeviceTierTargeting != nil {
		if !sameUniverse(tierUniverse(out.DeviceTierTargeting), tierUniverse(b.DeviceTierTargeting)) {
			return nil, conflict("device tier")
		}
		out.DeviceTierTargeting.Value = append(out.DeviceTierTargeting.Value, b.DeviceTierTargeting.Value...)
		out.DeviceTierTargeting.Alternatives = tierComplement(
			tierUniverse(out.DeviceTierTargeting), sortInt32Values(out.DeviceTierTargeting.Value))
	}

	// Country set.
	if out.CountrySetTargeting == nil {
		out.CountrySetTargeting = b.CountrySetTargeting
	} else if b.CountrySetTargeting != nil {
		if !sameUniverse(stringUniverse(out.CountrySetTargeting.Value, out.CountrySetTargeting.Alternatives),
			stringUniverse(b.CountrySetTargeting.Value, b.CountrySetTargeting.Alternatives)) {
			return nil, conflict("country set")
		}
		out.CountrySetTargeting.Value = append(out.CountrySetTargeting.Value, b.CountrySetTargeting.Value...)
		out.CountrySetTargeting.Alternatives = stringComplement(
			stringUniverse(out.CountrySetTargeting.Value, out.CountrySetTargeting.Alternatives),
			out.CountrySetTargeting.Value)
	}

	// SDK version: keep the maximum of the minimums.
	if out.SdkVersionTargeting == nil {
		out.SdkVersionTargeting = b.SdkVersionTargeting
	} else if b.SdkVersionTargeting != nil {
		amin := minSdk(out.SdkVersionTargeting)
		bmin := minSdk(b.SdkVersionTargeting)
		if bmin > amin {
			out.SdkVersionTargeting = b.SdkVersionTargeting
		}
	}

	// Multi-ABI merges by union without a universe check; sanitizer targeting
	// keeps a's value when set and b's otherwise. Neither is a split axis for
	// the sharder.
	if out.MultiAbiTargeting == nil {
		out.MultiAbiTargeting = b.MultiAbiTargeting
	} else if b.MultiAbiTargeting != nil {
		out.MultiAbiTargeting.Value = append(out.MultiAbiTargeting.Value, b.MultiAbiTargeting.Value...)
		out.MultiAbiTargeting.Alternatives = append(
			out.MultiAbiTargeting.Alternatives, b.MultiAbiTargeting.Alternatives...)
	}
	if out.SanitizerTargeting == nil {
		out.SanitizerTargeting = b.SanitizerTargeting
	}

	Normalize(out)
	return out, nil
}

func conflict(dimension string) error {
	return bterror.InvalidBundlef("conflicting %s targeting: the merged splits "+
		"do not partition the same set of values", dimension)
}

// Subsumes reports whether every value of b is in a's universe, meaning a
// was produced against at least b's partition.
func Subsumes(a, b *bundleproto.ApkTargeting) bool {
	if b == nil {
		return true
	}
	if a == nil {
		a = new(bundleproto.ApkTargeting)
	}
	if b.AbiTargeting != nil {
		u := abiUniverse(a.AbiTargeting)
		for _, v := range b.AbiTargeting.Value {
			if !u[v.Alias] {
				return false
			}
		}
	}
	if b.LanguageTargeting != nil {
		u := map[string]bool{}
		if a.LanguageTargeting != nil {
			u = stringUniverse(a.LanguageTargeting.Value, a.LanguageTargeting.Alternatives)
		}
		for _, v := range b.LanguageTargeting.Value {
			if !u[v] {
				return false
			}
		}
	}
	if b.TextureCompressionFormatTargeting != nil {
		u := textureUniverse(a.TextureCompressionFormatTargeting)
		for _, v := range b.TextureCompressionFormatTargeting.Value {
			if !u[v.Alias] {
				return false
			}
		}
	}
	if b.DeviceTierTargeting != nil {
		u := tierUniverse(a.DeviceTierTargeting)
		for _, v := range b.DeviceTierTargeting.Value {
			if !u[v.Value] {
				return false
			}
		}
	}
	if b.CountrySetTargeting != nil {
		u := map[string]bool{}
		if a.CountrySetTargeting != nil {
			u = stringUniverse(a.CountrySetTargeting.Value, a.CountrySetTargeting.Alternatives)
		}
		for _, v := range b.CountrySetTargeting.Value {
			if !u[v] {
				return false
			}
		}
	}
	if b.ScreenDensityTargeting != nil {
		u := densityUniverse(a.ScreenDensityTargeting)
		for _, v := range b.ScreenDensityTargeting.Value {
			if !u[densityKey(v)] {
				return false
			}
		}
	}
	return true
}

func minSdk(t *bundleproto.SdkVersionTargeting) int32 {
	if t == nil || len(t.Value) == 0 {
		return 0
	}
	return sdkMin(t.Value[0])
}

// MinSdk returns the minimum SDK a variant targeting admits, 1 when
// unconstrained.
func MinSdk(t *bundleproto.VariantTargeting) int32 {
	if t == nil || t.SdkVersionTargeting == nil || len(t.SdkVersionTargeting.Value) == 0 {
		return 1
	}
	v := sdkMin(t.SdkVersionTargeting.Value[0])
	if v == 0 {
		return 1
	}
	return v
}

func sameUniverse[K comparable](a, b map[K]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func abiUniverse(t *bundleproto.AbiTargeting) map[bundleproto.Abi_AbiAlias]bool {
	u := make(map[bundleproto.Abi_AbiAlias]bool)
	if t == nil {
		return u
	}
	for _, v := range t.Value {
		u[v.Alias] = true
	}
	for _, v := range t.Alternatives {
		u[v.Alias] = true
	}
	return u
}

func abiComplement(universe map[bundleproto.Abi_AbiAlias]bool, values []*bundleproto.Abi) []*bundleproto.Abi {
	in := make(map[bundleproto.Abi_AbiAlias]bool)
	for _, v := range values {
		in[v.Alias] = true
	}
	var out []*bundleproto.Abi
	for alias := range universe {
		if !in[alias] {
			out = append(out, &bundleproto.Abi{Alias: alias})
		}
	}
	return sortAbis(out)
}

func densityUniverse(t *bundleproto.ScreenDensityTargeting) map[int64]bool {
	u := make(map[int64]bool)
	if t == nil {
		return u
	}
	for _, v := range t.Value {
		u[densityKey(v)] = true
	}
	for _, v := range t.Alternatives {
		u[densityKey(v)] = true
	}
	return u
}

func densityComplement(universe map[int64]bool, values []*bundleproto.ScreenDensity) []*bundleproto.ScreenDensity {
	in := make(map[int64]bool)
	for _, v := range values {
		in[densityKey(v)] = true
	}
	var out []*bundleproto.ScreenDensity
	for key := range universe {
		if in[key] {
			continue
		}
		if key >= 1000 {
			out = append(out, &bundleproto.ScreenDensity{DensityDpi: uint32(key - 1000), HasDpi: true})
		} else {
			out = append(out, &bundleproto.ScreenDensity{DensityAlias: bundleproto.ScreenDensity_DensityAlias(key)})
		}
	}
	return sortDensities(out)
}

func stringUniverse(values, alternatives []string) map[string]bool {
	u := make(map[string]bool)
	for _, v := range values {
		u[v] = true
	}
	for _, v := range alternatives {
		u[v] = true
	}
	return u
}

func stringComplement(universe map[string]bool, values []string) []string {
	in := make(map[string]bool)
	for _, v := range values {
		in[v] = true
	}
	var out []string
	for v := range universe {
		if !in[v] {
			out = append(out, v)
		}
	}
	return sortStrings(out)
}

func textureUniverse(t *bundleproto.TextureCompressionFormatTargeting) map[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias]bool {
	u := make(map[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias]bool)
	if t == nil {
		return u
	}
	for _, v := range t.Value {
		u[v.Alias] = true
	}
	for _, v := range t.Alternatives {
		u[v.Alias] = true
	}
	return u
}

func textureComplement(
	universe map[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias]bool,
	values []*bundleproto.TextureCompressionFormat) []*bundleproto.TextureCompressionFormat {
	in := make(map[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias]bool)
	for _, v := range values {
		in[v.Alias] = true
	}
	var out []*bundleproto.TextureCompressionFormat
	for alias := range universe {
		if !in[alias] {
			out = append(out, &bundleproto.TextureCompressionFormat{Alias: alias})
		}
	}
	return sortTextures(out)
}

func tierUniverse(t *bundleproto.DeviceTierTargeting) map[int32]bool {
	u := make(map[int32]bool)
	if t == nil {
		return u
	}
	for _, v := range t.Value {
		u[v.Value] = true
	}
	for _, v := range t.Alternatives {
		u[v.Value] = true
	}
	return u
}

func tierComplement(universe map[int32]bool, values []*bundleproto.Int32Value) []*bundleproto.Int32Value {
	in := make(map[int32]bool)
	for _, v := range values {
		in[v.Value] = true
	}
	var out []*bundleproto.Int32Value
	for v := range universe {
		if !in[v] {
			out = append(out, &bundleproto.Int32Value{Value: v})
		}
	}
	return sortInt32Values(out)
}
