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

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
)

// Platform API levels at which the split layout changes.
const (
	// First level with split APK support.
	AndroidL = 21
	// First level that reads native libraries directly from the APK.
	AndroidM = 23
	// First level that reads uncompressed dex.
	AndroidS = 31
)

// Optimization defaults changed across tool releases; bundles built by an
// older release must keep producing the old variant layout.
var (
	uncompressedNativeLibsSince = manifest.Version{Major: 0, Minor: 10, Patch: 1}
	uncompressedDexSince        = manifest.Version{Major: 1, Minor: 16, Patch: 0}
)

// VariantPlan is the ordered set of output variants.
type VariantPlan struct {
	// Standalone holds the pre-L variant targeting, nil when minSdk >= 21.
	Standalone *bundleproto.VariantTargeting
	// Splits holds one targeting per split-APK variant, ordered by min SDK.
	Splits []*bundleproto.VariantTargeting
}

// uncompressedNativeLibsEnabled resolves the config against the recorded
// tool version's defaults.
func uncompressedNativeLibsEnabled(b *bundle.Bundle, v manifest.Version) bool {
	if opt := b.Config.Optimizations; opt != nil && opt.UncompressNativeLibraries != nil {
		return opt.UncompressNativeLibraries.Enabled
	}
	return v.AtLeast(uncompressedNativeLibsSince)
}

func uncompressedDexEnabled(b *bundle.Bundle, v manifest.Version) bool {
	if opt := b.Config.Optimizations; opt != nil && opt.UncompressDexFiles != nil {
		return opt.UncompressDexFiles.Enabled
	}
	return v.AtLeast(uncompressedDexSince)
}

// PlanVariants enumerates the variants for the bundle: one standalone
// variant when the app supports pre-L devices, and one split variant per SDK
// boundary at which the split layout changes.
func PlanVariants(b *bundle.Bundle) (*VariantPlan, error) {
	base, ok := b.BaseModule()
	minSdk := int32(1)
	if ok {
		minSdk = base.Manifest.MinSdkVersion()
	}
	version, err := b.Version()
	if err != nil {
		return nil, err
	}

	boundarySet := map[int32]bool{AndroidL: true}
	if uncompressedNativeLibsEnabled(b, version) && hasNativeLibraries(b) {
		boundarySet[AndroidM] = true
	}
	if uncompressedDexEnabled(b, version) && hasDexFiles(b) {
		boundarySet[AndroidS] = true
	}

	var boundaries []int32
	for bd := range boundarySet {
		if bd >= minSdk || bd == AndroidL {
			boundaries = append(boundaries, bd)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i] < boundaries[j] })

	plan := &VariantPlan{}
	for _, bd := range boundaries {
		t := &bundleproto.VariantTargeting{
			SdkVersionTargeting: &bundleproto.SdkVersionTargeting{
				Value: []*bundleproto.SdkVersion{
					{Min: &bundleproto.Int32Value{Value: bd}},
				},
				Alternatives: sdkAlternatives(boundaries, bd, minSdk),
			},
		}
		plan.Splits = append(plan.Splits, t)
	}

	if minSdk < AndroidL && !b.IsAssetOnly() {
		plan.Standalone = &bundleproto.VariantTargeting{
			SdkVersionTargeting: &bundleproto.SdkVersionTargeting{
				Value: []*bundleproto.SdkVersion{
					{Min: &bundleproto.Int32Value{Value: minSdk}},
				},
				Alternatives: sdkAlternatives(boundaries, -1, minSdk),
			},
		}
	}
	return plan, nil
}

func sdkAlternatives(boundaries []int32, except, minSdk int32) []*bundleproto.SdkVersion {
	var out []*bundleproto.SdkVersion
	if minSdk < AndroidL && except != -1 {
		out = append(out, &bundleproto.SdkVersion{Min: &bundleproto.Int32Value{Value: minSdk}})
	}
	for _, b := range boundaries {
		if b != except {
			out = append(out, &bundleproto.SdkVersion{Min: &bundleproto.Int32Value{Value: b}})
		}
	}
	return out
}

func hasNativeLibraries(b *bundle.Bundle) bool {
	for _, m := range b.Modules() {
		if len(m.EntriesUnder(libDirectory)) > 0 {
			return true
		}
	}
	return false
}

func hasDexFiles(b *bundle.Bundle) bool {
	for _, m := range b.Modules() {
		if len(m.EntriesUnder(bundle.DexDirectory)) > 0 {
			return true
		}
	}
	return false
}
