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

package sharder

import (
	"testing"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/splitter"
)

func testModule(name string, minSdk int32, entries map[string]string) *bundle.Module {
	m := manifest.New("com.example.app")
	e := m.Edit()
	if name != bundle.BaseModuleName {
		e.SetSplitId(name)
	}
	if minSdk > 0 {
		e.SetMinSdkVersion(minSdk)
	}
	mod := bundle.NewModule(name, e.Save())
	for p, c := range entries {
		mod.SetEntry(bundle.NewEntry(bundle.MustZipPath(p), bundle.NewBytesSource([]byte(c))))
	}
	return mod
}

func testBundle(t *testing.T, modules ...*bundle.Module) *bundle.Bundle {
	t.Helper()
	b := bundle.NewBundle(&bundleproto.BundleConfig{
		Bundletool: &bundleproto.Bundletool{Version: "1.15.6"},
	})
	for _, m := range modules {
		if err := b.AddModule(m); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func preLVariant(minSdk int32) *bundleproto.VariantTargeting {
	return &bundleproto.VariantTargeting{
		SdkVersionTargeting: &bundleproto.SdkVersionTargeting{
			Value: []*bundleproto.SdkVersion{{Min: &bundleproto.Int32Value{Value: minSdk}}},
		},
	}
}

type fakeDexMerger struct {
	called bool
}

func (f *fakeDexMerger) MergeDex(dexes [][]byte) ([][]byte, error) {
	f.called = true
	var merged []byte
	for _, d := range dexes {
		merged = append(merged, d...)
	}
	return [][]byte{merged}, nil
}

func TestCreateShardsByAbi(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, map[string]string{
		"lib/armeabi-v7a/a.so": "32",
		"lib/arm64-v8a/a.so":   "64",
		"dex/classes.dex":      "dex",
		"root/data.bin":        "root",
	})
	shards, err := CreateShards(testBundle(t, base), preLVariant(19),
		Configuration{ShardByAbi: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(shards) != 2 {
		t.Fatalf("shards = %d, want 2", len(shards))
	}
	for _, s := range shards {
		if s.SplitType != splitter.TypeStandalone {
			t.Errorf("shard type = %v", s.SplitType)
		}
		if s.ApkTargeting.AbiTargeting == nil {
			t.Fatal("shard without ABI targeting")
		}
		// Every shard carries the common entries plus exactly one ABI dir.
		var haveDex, haveRoot bool
		libCount := 0
		for _, e := range s.Entries {
			switch {
			case e.Path.String() == "dex/classes.dex":
				haveDex = true
			case e.Path.String() == "root/data.bin":
				haveRoot = true
			case e.Path.StartsWith(bundle.MustZipPath("lib")):
				libCount++
			}
		}
		if !haveDex || !haveRoot || libCount != 1 {
			t.Errorf("shard %s entries wrong: dex=%v root=%v libs=%d",
				s.Suffix(), haveDex, haveRoot, libCount)
		}
		// Variant targeting carries the shard dimensions.
		if s.VariantTargeting.AbiTargeting == nil {
			t.Error("shard variant targeting lacks ABI")
		}
	}
}

func TestShardFusesModulesAndRecordsNames(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, map[string]string{
		"dex/classes.dex": "base-dex",
	})
	feature := testModule("feature_x", 0, map[string]string{
		"assets/x/data.bin": "x",
	})
	shards, err := CreateShards(testBundle(t, base, feature), preLVariant(19),
		Configuration{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(shards) != 1 {
		t.Fatalf("shards = %d, want 1", len(shards))
	}
	s := shards[0]
	if v, ok := s.Manifest.MetadataValue(manifest.FusedModulesMetadataName); !ok || v != "base,feature_x" {
		t.Errorf("fused modules metadata = %q, %v", v, ok)
	}
	if _, ok := findEntry(s, "assets/x/data.bin"); !ok {
		t.Error("feature entry missing from shard")
	}
}

func TestShardDexMerging(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, map[string]string{
		"dex/classes.dex": "base-dex",
	})
	feature := testModule("feature_x", 0, map[string]string{
		"dex/classes.dex": "feature-dex",
	})

	merger := &fakeDexMerger{}
	shards, err := CreateShards(testBundle(t, base, feature), preLVariant(19),
		Configuration{DexMergingStrategy: MergeIfNeeded}, merger)
	if err != nil {
		t.Fatal(err)
	}
	if !merger.called {
		t.Error("dex merger not invoked for pre-L multi-module bundle")
	}
	if _, ok := findEntry(shards[0], "dex/classes.dex"); !ok {
		t.Error("merged dex missing")
	}

	// Never-merge renumbers instead.
	shards, err = CreateShards(testBundle(t,
		testModule(bundle.BaseModuleName, 19, map[string]string{"dex/classes.dex": "base-dex"}),
		testModule("feature_x", 0, map[string]string{"dex/classes.dex": "feature-dex"})),
		preLVariant(19), Configuration{DexMergingStrategy: NeverMerge}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := findEntry(shards[0], "dex/classes.dex"); !ok {
		t.Error("first dex missing")
	}
	if _, ok := findEntry(shards[0], "dex/classes2.dex"); !ok {
		t.Error("renumbered dex missing")
	}
}

func TestShardRejectsDuplicateEntries(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, map[string]string{
		"assets/shared/data.bin": "1",
	})
	feature := testModule("feature_x", 0, map[string]string{
		"assets/shared/data.bin": "2",
	})
	_, err := CreateShards(testBundle(t, base, feature), preLVariant(19), Configuration{}, nil)
	if err == nil {
		t.Fatal("duplicate entries fused without error")
	}
}

func TestShardRejectsConflictingAssetTargeting(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, nil)
	base.Assets = &bundleproto.Assets{
		Directory: []*bundleproto.TargetedAssetsDirectory{
			{
				Path: "assets/tex",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					Language: &bundleproto.LanguageTargeting{Value: []string{"en"}},
				},
			},
		},
	}
	feature := testModule("feature_x", 0, nil)
	feature.Assets = &bundleproto.Assets{
		Directory: []*bundleproto.TargetedAssetsDirectory{
			{
				Path: "assets/tex",
				Targeting: &bundleproto.AssetsDirectoryTargeting{
					Language: &bundleproto.LanguageTargeting{Value: []string{"fr"}},
				},
			},
		},
	}
	_, err := CreateShards(testBundle(t, base, feature), preLVariant(19), Configuration{}, nil)
	if err == nil {
		t.Fatal("conflicting asset directory targeting accepted")
	}
}

func TestFusingRespectsManifestDeclaration(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, nil)
	excluded := testModule("feature_x", 0, map[string]string{"assets/x/a": "1"})
	excluded.Manifest = excluded.Manifest.Edit().SetFusingInclude(false).Save()

	shards, err := CreateShards(testBundle(t, base, excluded), preLVariant(19), Configuration{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := findEntry(shards[0], "assets/x/a"); ok {
		t.Error("module excluded from fusing contributed entries")
	}
}

func findEntry(s *splitter.ModuleSplit, path string) (*bundle.ModuleEntry, bool) {
	for _, e := range s.Entries {
		if e.Path.String() == path {
			return e, true
		}
	}
	return nil, false
}

func TestConfigurationFromBundle(t *testing.T) {
	cfg := ConfigurationFromBundle(&bundleproto.BundleConfig{
		Optimizations: &bundleproto.Optimizations{
			StandaloneConfig: &bundleproto.StandaloneConfig{
				SplitDimension: []*bundleproto.SplitDimension{
					{Value: bundleproto.SplitDimension_ABI},
				},
				Strip64BitLibraries: true,
				DexMergingStrategy:  bundleproto.StandaloneConfig_NEVER_MERGE,
			},
		},
	})
	want := Configuration{ShardByAbi: true, Strip64BitLibraries: true, DexMergingStrategy: NeverMerge}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
	// Defaults.
	def := ConfigurationFromBundle(nil)
	if !def.ShardByAbi || !def.ShardByDensity {
		t.Errorf("default cfg = %+v", def)
	}
}

func TestShardSuffixes(t *testing.T) {
	base := testModule(bundle.BaseModuleName, 19, map[string]string{
		"lib/x86/a.so":    "x86",
		"lib/x86_64/a.so": "x64",
	})
	shards, err := CreateShards(testBundle(t, base), preLVariant(19),
		Configuration{ShardByAbi: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var suffixes []string
	for _, s := range shards {
		suffixes = append(suffixes, s.Suffix())
	}
	want := map[string]bool{"x86": true, "x86_64": true}
	for _, suf := range suffixes {
		if !want[suf] {
			t.Errorf("unexpected shard suffix %q (all: %v)", suf, suffixes)
		}
	}
	if len(suffixes) != 2 {
		t.Fatalf("suffixes = %v", suffixes)
	}
}
