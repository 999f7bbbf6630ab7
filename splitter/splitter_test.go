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
	"testing"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/targeting"
)

func featureModule(t *testing.T, name string, entries map[string]string) *bundle.Module {
	t.Helper()
	m := manifest.New("com.example.app")
	if name != bundle.BaseModuleName {
		m = m.Edit().SetSplitId(name).Save()
	}
	mod := bundle.NewModule(name, m)
	for path, content := range entries {
		mod.SetEntry(bundle.NewEntry(bundle.MustZipPath(path), bundle.NewBytesSource([]byte(content))))
	}
	return mod
}

func variant21() *bundleproto.VariantTargeting {
	return &bundleproto.VariantTargeting{
		SdkVersionTargeting: &bundleproto.SdkVersionTargeting{
			Value: []*bundleproto.SdkVersion{{Min: &bundleproto.Int32Value{Value: 21}}},
		},
	}
}

// Scenario: a module with two ABIs yields a master split plus one split per
// ABI, each listing the sibling ABIs as alternatives.
func TestAbiSplit(t *testing.T) {
	mod := featureModule(t, "feature_x", map[string]string{
		"lib/armeabi-v7a/a.so":     "v7a",
		"lib/arm64-v8a/a.so":       "v8a",
		"manifest-placeholder.txt": "x",
	})
	// Swap in a more realistic non-lib entry path.
	mod.RemoveEntry(bundle.MustZipPath("manifest-placeholder.txt"))
	mod.SetEntry(bundle.NewEntry(bundle.MustZipPath("root/extra.txt"), bundle.NewBytesSource([]byte("x"))))

	splits, err := SplitModule(mod, variant21(), Config{ForAbi: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(splits) != 3 {
		t.Fatalf("splits = %d, want 3", len(splits))
	}

	var master *ModuleSplit
	byAbi := make(map[bundleproto.Abi_AbiAlias]*ModuleSplit)
	for _, s := range splits {
		if s.IsMaster {
			master = s
			continue
		}
		abi := s.ApkTargeting.AbiTargeting
		byAbi[abi.Value[0].Alias] = s
	}
	if master == nil {
		t.Fatal("no master split")
	}
	if len(master.Entries) != 1 || master.Entries[0].Path.String() != "root/extra.txt" {
		t.Errorf("master entries wrong: %v", master.Entries)
	}

	v7a := byAbi[bundleproto.Abi_ARMEABI_V7A]
	v8a := byAbi[bundleproto.Abi_ARM64_V8A]
	if v7a == nil || v8a == nil {
		t.Fatalf("missing ABI splits: %v", byAbi)
	}
	if got := v7a.ApkTargeting.AbiTargeting.Alternatives[0].Alias; got != bundleproto.Abi_ARM64_V8A {
		t.Errorf("v7a alternatives = %v", got)
	}
	if got := v8a.ApkTargeting.AbiTargeting.Alternatives[0].Alias; got != bundleproto.Abi_ARMEABI_V7A {
		t.Errorf("v8a alternatives = %v", got)
	}
	if got := v7a.Suffix(); got != "armeabi_v7a" {
		t.Errorf("v7a suffix = %q", got)
	}
	if got := v8a.Suffix(); got != "arm64_v8a" {
		t.Errorf("v8a suffix = %q", got)
	}

	SortSplits(splits)
	AssignSplitIds(splits, targeting.NewSuffixAllocator())
	wantIds := map[string]bool{
		"feature_x":                  false,
		"feature_x.config.armeabi_v7a": false,
		"feature_x.config.arm64_v8a":   false,
	}
	for _, s := range splits {
		id := s.Manifest.SplitId()
		if _, expected := wantIds[id]; !expected {
			t.Errorf("unexpected split id %q", id)
			continue
		}
		wantIds[id] = true
	}
	for id, seen := range wantIds {
		if !seen {
			t.Errorf("split id %q not assigned", id)
		}
	}
}

func TestUnknownAbiDirectoryRejected(t *testing.T) {
	mod := featureModule(t, "base", map[string]string{
		"lib/sparc/libold.so": "so",
	})
	if _, err := SplitModule(mod, variant21(), Config{ForAbi: true}); err == nil {
		t.Fatal("unknown ABI directory accepted")
	}
}

// Property: the multiset union of entries across the splits equals the
// module's entries.
func TestSplitEntryPartition(t *testing.T) {
	entries := map[string]string{
		"lib/x86/a.so":                "1",
		"lib/x86_64/a.so":             "2",
		"assets/music#tier_0/low.ogg": "3",
		"assets/music#tier_1/hi.ogg":  "4",
		"assets/common/readme.txt":    "5",
		"dex/classes.dex":             "6",
		"root/extra.bin":              "7",
	}
	mod := featureModule(t, "base", entries)
	mod.Assets = &bundleproto.Assets{
		Directory: []*bundleproto.TargetedAssetsDirectory{
			{
				Path: "assets/music#tier_0",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					DeviceTier: &bundleproto.DeviceTierTargeting{
						Value: []*bundleproto.Int32Value{{Value: 0}},
					},
				},
			},
			{
				Path: "assets/music#tier_1",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					DeviceTier: &bundleproto.DeviceTierTargeting{
						Value: []*bundleproto.Int32Value{{Value: 1}},
					},
				},
			},
			{Path: "assets/common"},
		},
	}

	splits, err := SplitModule(mod, variant21(), Config{ForAbi: true, ForTier: true})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range splits {
		for _, e := range s.Entries {
			got = append(got, e.Path.String())
		}
	}
	sort.Strings(got)
	var want []string
	for p := range entries {
		want = append(want, p)
	}
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("entries across splits = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTierSplitTargeting(t *testing.T) {
	mod := featureModule(t, "base", map[string]string{
		"assets/tex#tier_0/a.bin": "lo",
		"assets/tex#tier_1/a.bin": "hi",
	})
	mod.Assets = &bundleproto.Assets{
		Directory: []*bundleproto.TargetedAssetsDirectory{
			{
				Path: "assets/tex#tier_0",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					DeviceTier: &bundleproto.DeviceTierTargeting{
						Value: []*bundleproto.Int32Value{{Value: 0}},
					},
				},
			},
			{
				Path: "assets/tex#tier_1",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					DeviceTier: &bundleproto.DeviceTierTargeting{
						Value: []*bundleproto.Int32Value{{Value: 1}},
					},
				},
			},
		},
	}
	splits, err := SplitModule(mod, variant21(), Config{ForTier: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(splits) != 3 {
		t.Fatalf("splits = %d, want 3", len(splits))
	}
	var tier1 *ModuleSplit
	for _, s := range splits {
		if s.IsMaster {
			continue
		}
		dt := s.ApkTargeting.DeviceTierTargeting
		if dt != nil && dt.Value[0].Value == 1 {
			tier1 = s
		}
	}
	if tier1 == nil {
		t.Fatal("no tier 1 split")
	}
	if got := tier1.Suffix(); got != "tier_1" {
		t.Errorf("suffix = %q, want tier_1", got)
	}
	if alts := tier1.ApkTargeting.DeviceTierTargeting.Alternatives; len(alts) != 1 || alts[0].Value != 0 {
		t.Errorf("tier alternatives = %v", alts)
	}
}

func TestTextureSuffixStripping(t *testing.T) {
	mod := featureModule(t, "base", map[string]string{
		"assets/gfx#tcf_astc/a.bin": "astc",
		"assets/gfx#tcf_etc2/a.bin": "etc2",
	})
	mod.Assets = &bundleproto.Assets{
		Directory: []*bundleproto.TargetedAssetsDirectory{
			{
				Path: "assets/gfx#tcf_astc",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					TextureCompressionFormat: &bundleproto.TextureCompressionFormatTargeting{
						Value: []*bundleproto.TextureCompressionFormat{
							{Alias: bundleproto.TextureCompressionFormat_ASTC},
						},
					},
				},
			},
			{
				Path: "assets/gfx#tcf_etc2",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					TextureCompressionFormat: &bundleproto.TextureCompressionFormatTargeting{
						Value: []*bundleproto.TextureCompressionFormat{
							{Alias: bundleproto.TextureCompressionFormat_ETC2},
						},
					},
				},
			},
		},
	}
	splits, err := SplitModule(mod, variant21(), Config{
		ForTexture:           true,
		StripTextureSuffix:   true,
		DefaultTextureSuffix: "etc2",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range splits {
		if s.IsMaster {
			continue
		}
		for _, e := range s.Entries {
			if got := e.Path.String(); got != "assets/gfx/a.bin" {
				t.Errorf("stripped path = %q, want assets/gfx/a.bin", got)
			}
		}
	}
}

func TestPlanVariants(t *testing.T) {
	makeBundle := func(t *testing.T, minSdk int32, version string, withLibs bool) *bundle.Bundle {
		t.Helper()
		b := bundle.NewBundle(&bundleproto.BundleConfig{
			Bundletool: &bundleproto.Bundletool{Version: version},
		})
		m := manifest.New("com.example.app").Edit().SetMinSdkVersion(minSdk).Save()
		mod := bundle.NewModule(bundle.BaseModuleName, m)
		if withLibs {
			mod.SetEntry(bundle.NewEntry(bundle.MustZipPath("lib/arm64-v8a/a.so"),
				bundle.NewBytesSource([]byte("so"))))
		}
		if err := b.AddModule(mod); err != nil {
			t.Fatal(err)
		}
		return b
	}

	// Modern tool, native libs, L+ app: variants at 21 and 23.
	plan, err := PlanVariants(makeBundle(t, 21, "1.15.6", true))
	if err != nil {
		t.Fatal(err)
	}
	if plan.Standalone != nil {
		t.Error("unexpected standalone variant for minSdk 21")
	}
	if got := len(plan.Splits); got != 2 {
		t.Fatalf("split variants = %d, want 2", got)
	}
	if got := targeting.MinSdk(plan.Splits[0]); got != 21 {
		t.Errorf("first variant min sdk = %d", got)
	}
	if got := targeting.MinSdk(plan.Splits[1]); got != 23 {
		t.Errorf("second variant min sdk = %d", got)
	}

	// Old tool: no uncompressed-native-libs variant.
	plan, err = PlanVariants(makeBundle(t, 21, "0.9.0", true))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(plan.Splits); got != 1 {
		t.Fatalf("split variants with old tool = %d, want 1", got)
	}

	// Pre-L app gets a standalone variant.
	plan, err = PlanVariants(makeBundle(t, 19, "1.15.6", false))
	if err != nil {
		t.Fatal(err)
	}
	if plan.Standalone == nil {
		t.Fatal("missing standalone variant for minSdk 19")
	}
	if got := targeting.MinSdk(plan.Standalone); got != 19 {
		t.Errorf("standalone min sdk = %d", got)
	}
}
