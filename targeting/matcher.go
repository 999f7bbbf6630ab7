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
	"math"

	"android/bundletool/bundleproto"
)

// DeviceSpec is one concrete device configuration used to select APKs from a
// generated set.
type DeviceSpec struct {
	SdkVersion int32
	// Abis maps each supported ABI to its preference order; lower is more
	// preferred. An entry for UNSPECIFIED_CPU_ARCHITECTURE matches any ABI.
	Abis map[bundleproto.Abi_AbiAlias]int
	// ScreenDpi holds the acceptable density buckets; DENSITY_UNSPECIFIED
	// matches any bucket.
	ScreenDpi map[bundleproto.ScreenDensity_DensityAlias]bool
	// Languages the device requests.
	Languages map[string]bool
	// TextureFormats the GPU supports.
	TextureFormats map[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias]bool
	// DeviceTier assigned by the store; nil when untiered.
	DeviceTier *int32
	// CountrySet assigned by the store; empty when unset.
	CountrySet string
}

// MatchesApk reports whether the device selects an APK with this targeting
// among its sibling splits. The APK matches when, on each dimension, one of
// its values is at least as preferred as every alternative.
func (d *DeviceSpec) MatchesApk(t *bundleproto.ApkTargeting) bool {
	if t == nil {
		return true
	}
	return d.matchesAbi(t.AbiTargeting) &&
		d.matchesDensity(t.ScreenDensityTargeting) &&
		d.matchesLanguage(t.LanguageTargeting) &&
		d.matchesSdk(t.SdkVersionTargeting) &&
		d.matchesTexture(t.TextureCompressionFormatTargeting) &&
		d.matchesTier(t.DeviceTierTargeting) &&
		d.matchesCountrySet(t.CountrySetTargeting)
}

// MatchesVariant reports whether the device selects a variant with this
// targeting.
func (d *DeviceSpec) MatchesVariant(t *bundleproto.VariantTargeting) bool {
	if t == nil {
		return true
	}
	return d.matchesSdk(t.SdkVersionTargeting) &&
		d.matchesAbi(t.AbiTargeting) &&
		d.matchesDensity(t.ScreenDensityTargeting) &&
		d.matchesTexture(t.TextureCompressionFormatTargeting)
}

func (d *DeviceSpec) matchesAbi(t *bundleproto.AbiTargeting) bool {
	if t == nil {
		return true
	}
	if _, ok := d.Abis[bundleproto.Abi_UNSPECIFIED_CPU_ARCHITECTURE]; ok {
		return true
	}
	// Find the value that appears first in the device's preference order.
	abiIdx := math.MaxInt32
	for _, v := range t.Value {
		if i, ok := d.Abis[v.Alias]; ok && i < abiIdx {
			abiIdx = i
		}
	}
	if abiIdx == math.MaxInt32 {
		return false
	}
	// A more preferred alternative means a sibling split wins.
	for _, a := range t.Alternatives {
		if i, ok := d.Abis[a.Alias]; ok && i < abiIdx {
			return false
		}
	}
	return true
}

func (d *DeviceSpec) matchesDensity(t *bundleproto.ScreenDensityTargeting) bool {
	if t == nil {
		return true
	}
	if d.ScreenDpi[bundleproto.ScreenDensity_DENSITY_UNSPECIFIED] {
		return true
	}
	for _, v := range t.Value {
		if !v.HasDpi && d.ScreenDpi[v.DensityAlias] {
			return true
		}
	}
	return false
}

func (d *DeviceSpec) matchesLanguage(t *bundleproto.LanguageTargeting) bool {
	if t == nil {
		return true
	}
	for _, v := range t.Value {
		if d.Languages[v] {
			return true
		}
	}
	if len(t.Value) > 0 {
		return false
	}
	// Fallback split: matches when no sibling covers a device language.
	for _, a := range t.Alternatives {
		if d.Languages[a] {
			return false
		}
	}
	return true
}

func (d *DeviceSpec) matchesSdk(t *bundleproto.SdkVersionTargeting) bool {
	if t == nil || len(t.Value) == 0 {
		return true
	}
	// Only the value is inspected; a better-matching alternative still
	// belongs to a different variant.
	v := t.Value[0]
	return v.Min == nil || v.Min.Value <= d.SdkVersion
}

func (d *DeviceSpec) matchesTexture(t *bundleproto.TextureCompressionFormatTargeting) bool {
	if t == nil {
		return true
	}
	for _, v := range t.Value {
		if d.TextureFormats[v.Alias] {
			return true
		}
	}
	if len(t.Value) > 0 {
		return false
	}
	for _, a := range t.Alternatives {
		if d.TextureFormats[a.Alias] {
			return false
		}
	}
	return true
}

func (d *DeviceSpec) matchesTier(t *bundleproto.DeviceTierTargeting) bool {
	if t == nil {
		return true
	}
	tier := int32(0)
	if d.DeviceTier != nil {
		tier = *d.DeviceTier
	}
	for _, v := range t.Value {
		if v.Value == tier {
			return true
		}
	}
	return false
}

func (d *DeviceSpec) matchesCountrySet(t *bundleproto.CountrySetTargeting) bool {
	if t == nil {
		return true
	}
	for _, v := range t.Value {
		if v == d.CountrySet {
			return true
		}
	}
	if len(t.Value) > 0 {
		return false
	}
	for _, a := range t.Alternatives {
		if a == d.CountrySet {
			return false
		}
	}
	return true
}
