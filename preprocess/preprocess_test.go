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

package preprocess

import (
	"testing"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
)

func testBundle(t *testing.T, config *bundleproto.BundleConfig, modules ...*bundle.Module) *bundle.Bundle {
	t.Helper()
	if config == nil {
		config = &bundleproto.BundleConfig{
			Bundletool: &bundleproto.Bundletool{Version: "1.15.6"},
		}
	}
	b := bundle.NewBundle(config)
	for _, m := range modules {
		if err := b.AddModule(m); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func moduleWithEntries(name string, m *manifest.Manifest, entries map[string]string) *bundle.Module {
	mod := bundle.NewModule(name, m)
	for p, c := range entries {
		mod.SetEntry(bundle.NewEntry(bundle.MustZipPath(p), bundle.NewBytesSource([]byte(c))))
	}
	return mod
}

func TestEntryCompressionGlobs(t *testing.T) {
	config := &bundleproto.BundleConfig{
		Bundletool:  &bundleproto.Bundletool{Version: "1.15.6"},
		Compression: &bundleproto.Compression{UncompressedGlob: []string{"assets/media/**"}},
	}
	base := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), map[string]string{
		"assets/media/track.ogg": "ogg",
		"assets/other/data.bin":  "bin",
	})
	b, err := (entryCompression{}).Preprocess(testBundle(t, config, base))
	if err != nil {
		t.Fatal(err)
	}
	m, _ := b.BaseModule()
	if e, _ := m.Entry(bundle.MustZipPath("assets/media/track.ogg")); !e.ForceUncompressed {
		t.Error("glob-matched entry not marked uncompressed")
	}
	if e, _ := m.Entry(bundle.MustZipPath("assets/other/data.bin")); e.ForceUncompressed {
		t.Error("unmatched entry marked uncompressed")
	}
}

func TestEntryCompressionExtractNativeLibs(t *testing.T) {
	m := manifest.New("com.example.app").Edit().SetExtractNativeLibs(false).Save()
	base := moduleWithEntries(bundle.BaseModuleName, m, map[string]string{
		"lib/arm64-v8a/libx.so": "so",
		"lib/arm64-v8a/notes":   "txt",
	})
	b, err := (entryCompression{}).Preprocess(testBundle(t, nil, base))
	if err != nil {
		t.Fatal(err)
	}
	mod, _ := b.BaseModule()
	if e, _ := mod.Entry(bundle.MustZipPath("lib/arm64-v8a/libx.so")); !e.ForceUncompressed {
		t.Error(".so not marked uncompressed with extractNativeLibs=false")
	}
	if e, _ := mod.Entry(bundle.MustZipPath("lib/arm64-v8a/notes")); e.ForceUncompressed {
		t.Error("non-library file marked uncompressed")
	}
}

func TestStrip64BitLibraries(t *testing.T) {
	base := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), map[string]string{
		"lib/armeabi-v7a/a.so": "32",
		"lib/arm64-v8a/a.so":   "64",
	})
	b := Strip64BitLibraries(testBundle(t, nil, base))
	m, _ := b.BaseModule()
	if _, ok := m.Entry(bundle.MustZipPath("lib/arm64-v8a/a.so")); ok {
		t.Error("64-bit library survived stripping")
	}
	if _, ok := m.Entry(bundle.MustZipPath("lib/armeabi-v7a/a.so")); !ok {
		t.Error("32-bit library removed")
	}

	// A 64-bit-only module keeps its libraries.
	only64 := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), map[string]string{
		"lib/arm64-v8a/a.so": "64",
	})
	b2 := Strip64BitLibraries(testBundle(t, nil, only64))
	m2, _ := b2.BaseModule()
	if _, ok := m2.Entry(bundle.MustZipPath("lib/arm64-v8a/a.so")); !ok {
		t.Error("64-bit-only module was stripped empty")
	}
}

// Obfuscation renames res/ files deterministically and keeps the table in
// sync.
func TestObfuscation(t *testing.T) {
	makeBundle := func() *bundle.Bundle {
		base := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), map[string]string{
			"res/drawable/icon.png": "png-bytes",
			"assets/keep/name.txt":  "kept",
		})
		base.ResourceTable = &bundleproto.ResourceTable{
			Package: []*bundleproto.Package{
				{
					PackageId: &bundleproto.PackageId{Id: 0x7f},
					Type: []*bundleproto.Type{
						{
							TypeId: &bundleproto.TypeId{Id: 0x02},
							Name:   "drawable",
							Entry: []*bundleproto.Entry{
								{
									EntryId: &bundleproto.EntryId{Id: 0},
									Name:    "icon",
									ConfigValue: []*bundleproto.ConfigValue{
										{
											Config: &bundleproto.Configuration{},
											Value: &bundleproto.Value{Item: &bundleproto.Item{
												File: &bundleproto.FileReference{Path: "res/drawable/icon.png"},
											}},
										},
									},
								},
							},
						},
					},
				},
			},
		}
		return testBundle(t, nil, base)
	}

	b1, err := (obfuscator{}).Preprocess(makeBundle())
	if err != nil {
		t.Fatal(err)
	}
	b2, err := (obfuscator{}).Preprocess(makeBundle())
	if err != nil {
		t.Fatal(err)
	}

	m1, _ := b1.BaseModule()
	m2, _ := b2.BaseModule()
	paths1 := entryPaths(m1)
	paths2 := entryPaths(m2)
	if len(paths1) != 2 {
		t.Fatalf("entries = %v", paths1)
	}
	for i := range paths1 {
		if paths1[i] != paths2[i] {
			t.Errorf("obfuscation not deterministic: %v vs %v", paths1, paths2)
		}
	}
	for _, p := range paths1 {
		if p == "res/drawable/icon.png" {
			t.Error("res file not renamed")
		}
	}

	// The table references the new location.
	ref := m1.ResourceTable.Package[0].Type[0].Entry[0].ConfigValue[0].Value.Item.File.Path
	if _, ok := m1.Entry(bundle.MustZipPath(ref)); !ok {
		t.Errorf("table references %q which is not an entry", ref)
	}
	// Non-res entries are untouched.
	if _, ok := m1.Entry(bundle.MustZipPath("assets/keep/name.txt")); !ok {
		t.Error("non-res entry renamed")
	}
}

func entryPaths(m *bundle.Module) []string {
	var out []string
	for _, e := range m.Entries() {
		out = append(out, e.Path.String())
	}
	return out
}

// Scenario: fusing a runtime SDK module remaps its package id and drops its
// trailing RPackage dex.
func TestRuntimeSdkFusing(t *testing.T) {
	sdkManifest := manifest.New("com.example.sdk").Edit().SetSplitId("sdkmod").Save()
	sdkManifest.Proto().Element.Child = append(sdkManifest.Proto().Element.Child,
		&bundleproto.XmlNode{Element: &bundleproto.XmlElement{
			NamespaceUri: manifest.DistributionNamespace,
			Name:         "module",
			Attribute: []*bundleproto.XmlAttribute{
				{NamespaceUri: manifest.DistributionNamespace, Name: "type", Value: "sdk-dependency"},
			},
		}})
	sdk := moduleWithEntries("sdkmod", sdkManifest, map[string]string{
		"dex/classes.dex":  "code",
		"dex/classes2.dex": "rpackage",
	})
	sdk.ResourceTable = &bundleproto.ResourceTable{
		Package: []*bundleproto.Package{
			{
				PackageId: &bundleproto.PackageId{Id: 0x7f},
				Type: []*bundleproto.Type{
					{
						TypeId: &bundleproto.TypeId{Id: 0x02},
						Name:   "style",
						Entry: []*bundleproto.Entry{
							{
								EntryId: &bundleproto.EntryId{Id: 1},
								Name:    "Theme",
								ConfigValue: []*bundleproto.ConfigValue{
									{
										Config: &bundleproto.Configuration{},
										Value: &bundleproto.Value{CompoundValue: &bundleproto.CompoundValue{
											Style: &bundleproto.Style{
												Parent: &bundleproto.Reference{Id: 0x7f020001},
											},
										}},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	base := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), nil)
	base.RuntimeSdkConfig = &bundleproto.RuntimeEnabledSdkConfig{
		RuntimeEnabledSdk: []*bundleproto.RuntimeEnabledSdk{
			{PackageName: "com.example.sdk", ResourcesPackageId: 0x80},
		},
	}

	b, err := (runtimeSdkFuser{}).Preprocess(testBundle(t, nil, base, sdk))
	if err != nil {
		t.Fatal(err)
	}
	fused, _ := b.Module("sdkmod")
	if got := fused.ResourceTable.Package[0].PackageId.Id; got != 0x80 {
		t.Errorf("package id = %#x, want 0x80", got)
	}
	parent := fused.ResourceTable.Package[0].Type[0].Entry[0].ConfigValue[0].Value.CompoundValue.Style.Parent
	if parent.Id != 0x80020001 {
		t.Errorf("style parent = %#x, want 0x80020001", parent.Id)
	}
	if _, ok := fused.Entry(bundle.MustZipPath("dex/classes2.dex")); ok {
		t.Error("trailing RPackage dex not removed")
	}
	if _, ok := fused.Entry(bundle.MustZipPath("dex/classes.dex")); !ok {
		t.Error("regular dex removed")
	}
	if got := fused.Manifest.DeliveryMode(); got != manifest.AlwaysInitialInstall {
		t.Errorf("fused delivery = %v, want install-time", got)
	}
}

func TestLocalTesting(t *testing.T) {
	base := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), nil)
	b, err := (localTesting{path: "/sdcard/local-testing"}).Preprocess(testBundle(t, nil, base))
	if err != nil {
		t.Fatal(err)
	}
	m, _ := b.BaseModule()
	if v, ok := m.Manifest.MetadataValue(LocalTestingMetadataName); !ok || v != "/sdcard/local-testing" {
		t.Errorf("local testing metadata = %q, %v", v, ok)
	}
}

func TestEmbeddedApkMarker(t *testing.T) {
	config := &bundleproto.BundleConfig{
		Bundletool: &bundleproto.Bundletool{Version: "1.15.6"},
		UnsignedEmbeddedApkConfig: []*bundleproto.UnsignedEmbeddedApkConfig{
			{Path: "res/raw/wearable.apk"},
		},
	}
	base := moduleWithEntries(bundle.BaseModuleName, manifest.New("com.example.app"), map[string]string{
		"res/raw/wearable.apk": "apk",
		"res/raw/other.bin":    "bin",
	})
	b, err := (embeddedApkMarker{}).Preprocess(testBundle(t, config, base))
	if err != nil {
		t.Fatal(err)
	}
	m, _ := b.BaseModule()
	if e, _ := m.Entry(bundle.MustZipPath("res/raw/wearable.apk")); !e.ShouldSign {
		t.Error("embedded APK not marked for signing")
	}
	if e, _ := m.Entry(bundle.MustZipPath("res/raw/other.bin")); e.ShouldSign {
		t.Error("unrelated entry marked for signing")
	}
}
