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

package apks

import (
	archivezip "archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/splitter"
)

func testSplit(t *testing.T, moduleName string, master bool, entries map[string]string) *splitter.ModuleSplit {
	t.Helper()
	m := manifest.New("com.example.app")
	if moduleName != bundle.BaseModuleName {
		m = m.Edit().SetSplitId(moduleName).Save()
	}
	s := &splitter.ModuleSplit{
		ModuleName:       moduleName,
		SplitType:        splitter.TypeSplit,
		IsMaster:         master,
		ApkTargeting:     &bundleproto.ApkTargeting{},
		VariantTargeting: &bundleproto.VariantTargeting{},
		Manifest:         m,
	}
	for p, c := range entries {
		s.Entries = append(s.Entries,
			bundle.NewEntry(bundle.MustZipPath(p), bundle.NewBytesSource([]byte(c))))
	}
	s.SortEntries()
	return s
}

func TestSerializeProtoApkLayout(t *testing.T) {
	s := testSplit(t, "base", true, map[string]string{
		"dex/classes.dex":      "dex",
		"root/top-level.txt":   "root",
		"assets/data.bin":      "assets",
		"lib/arm64-v8a/a.so":   "so",
		"res/drawable/i.png":   "png",
	})
	s.ResourceTable = &bundleproto.ResourceTable{}

	var buf bytes.Buffer
	if err := SerializeProtoApk(s, SerializeOptions{}, &buf); err != nil {
		t.Fatal(err)
	}
	zr, err := archivezip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]bool)
	for _, f := range zr.File {
		got[f.Name] = true
	}
	want := []string{
		"AndroidManifest.xml", "resources.pb", "classes.dex", "top-level.txt",
		"assets/data.bin", "lib/arm64-v8a/a.so", "res/drawable/i.png",
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("missing APK entry %q (have %v)", name, got)
		}
	}
}

func TestSerializeUncompressedPolicies(t *testing.T) {
	s := testSplit(t, "base", true, map[string]string{
		"dex/classes.dex":    "dex",
		"lib/arm64-v8a/a.so": "so",
		"assets/a.bin":       "bin",
	})
	var buf bytes.Buffer
	err := SerializeProtoApk(s, SerializeOptions{UncompressedNativeLibs: true, UncompressedDex: true}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := archivezip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	methods := make(map[string]uint16)
	for _, f := range zr.File {
		methods[f.Name] = f.Method
	}
	if methods["classes.dex"] != archivezip.Store {
		t.Error("dex not stored uncompressed")
	}
	if methods["lib/arm64-v8a/a.so"] != archivezip.Store {
		t.Error("native lib not stored uncompressed")
	}
	if methods["assets/a.bin"] != archivezip.Deflate {
		t.Error("asset lost compression")
	}
}

func TestApkSetWriterToc(t *testing.T) {
	w := NewApkSetWriter("com.example.app", &bundleproto.Bundletool{Version: "1.15.6"})

	master := testSplit(t, "base", true, nil)
	master.Manifest = master.Manifest.Edit().SetSplitId("").Save()
	w.Add(master, []byte("master-apk"))

	config := testSplit(t, "base", false, nil)
	config.ApkTargeting = &bundleproto.ApkTargeting{
		AbiTargeting: &bundleproto.AbiTargeting{
			Value: []*bundleproto.Abi{{Alias: bundleproto.Abi_ARM64_V8A}},
		},
	}
	config.Manifest = config.Manifest.Edit().SetSplitId("config.arm64_v8a").Save()
	w.Add(config, []byte("config-apk"))

	toc := w.Toc()
	if toc.PackageName != "com.example.app" {
		t.Errorf("package = %q", toc.PackageName)
	}
	if len(toc.Variant) != 1 {
		t.Fatalf("variants = %d, want 1", len(toc.Variant))
	}
	v := toc.Variant[0]
	if v.VariantNumber != 0 {
		t.Errorf("variant number = %d", v.VariantNumber)
	}
	if len(v.ApkSet) != 1 {
		t.Fatalf("apk sets = %d, want 1", len(v.ApkSet))
	}
	set := v.ApkSet[0]
	if set.ModuleMetadata.Name != "base" ||
		set.ModuleMetadata.DeliveryType != bundleproto.DeliveryType_INSTALL_TIME {
		t.Errorf("module metadata = %+v", set.ModuleMetadata)
	}
	if len(set.ApkDescription) != 2 {
		t.Fatalf("apk descriptions = %d", len(set.ApkDescription))
	}
	if !set.ApkDescription[0].SplitApkMetadata.IsMasterSplit {
		t.Error("first description is not the master")
	}
	if got := set.ApkDescription[1].SplitApkMetadata.SplitId; got != "config.arm64_v8a" {
		t.Errorf("split id = %q", got)
	}
	if set.ApkDescription[0].Path == set.ApkDescription[1].Path {
		t.Error("APK paths collide")
	}
}

func TestApkSetWriterUniquePaths(t *testing.T) {
	w := NewApkSetWriter("com.example.app", nil)
	a := w.Add(testSplit(t, "base", true, nil), []byte("a"))
	b := w.Add(testSplit(t, "base", true, nil), []byte("b"))
	if a.Path == b.Path {
		t.Errorf("duplicate path %q", a.Path)
	}
}

func TestApkSetRoundTrip(t *testing.T) {
	w := NewApkSetWriter("com.example.app", &bundleproto.Bundletool{Version: "1.15.6"})
	w.Add(testSplit(t, "base", true, nil), []byte("master-bytes"))

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	zr, err := archivezip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	var tocData []byte
	apkCount := 0
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if f.Name == TocEntryName {
			tocData = data
		} else {
			apkCount++
			if string(data) != "master-bytes" {
				t.Errorf("APK payload = %q", data)
			}
		}
	}
	if tocData == nil {
		t.Fatal("no toc.pb in set")
	}
	toc := new(bundleproto.BuildApksResult)
	if err := toc.Unmarshal(tocData); err != nil {
		t.Fatal(err)
	}
	if apkCount != 1 || len(toc.Variant) != 1 {
		t.Errorf("apks = %d, variants = %d", apkCount, len(toc.Variant))
	}
}

// End-to-end: a bundle on disk becomes an APK set, without aapt2 or a
// signer.
func TestBuildCommandEndToEnd(t *testing.T) {
	m := manifest.New("com.example.app").Edit().SetMinSdkVersion(21).Save()
	var aab bytes.Buffer
	zw := archivezip.NewWriter(&aab)
	add := func(name string, data []byte) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	add("BundleConfig.pb", (&bundleproto.BundleConfig{
		Bundletool: &bundleproto.Bundletool{Version: "1.15.6"},
	}).Marshal())
	add("base/manifest/AndroidManifest.xml", m.Marshal())
	add("base/dex/classes.dex", []byte("dex"))
	add("base/lib/arm64-v8a/libx.so", []byte("so64"))
	add("base/lib/armeabi-v7a/libx.so", []byte("so32"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	bundlePath := filepath.Join(dir, "app.aab")
	if err := os.WriteFile(bundlePath, aab.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "app.apks")

	cmd := BuildCommand{BundlePath: bundlePath, OutputPath: outPath}
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	set, err := archivezip.OpenReader(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer set.Close()
	names := make(map[string]bool)
	var tocData []byte
	for _, f := range set.File {
		names[f.Name] = true
		if f.Name == TocEntryName {
			rc, _ := f.Open()
			tocData, _ = io.ReadAll(rc)
			rc.Close()
		}
	}
	if tocData == nil {
		t.Fatal("missing toc.pb")
	}
	toc := new(bundleproto.BuildApksResult)
	if err := toc.Unmarshal(tocData); err != nil {
		t.Fatal(err)
	}
	// minSdk 21 with native libs and a modern tool version: variants at 21
	// and 23.
	if got := len(toc.Variant); got != 2 {
		t.Fatalf("variants = %d, want 2", got)
	}
	if !names["splits/base-master.apk"] {
		t.Errorf("missing master APK, have %v", names)
	}
	// ABI config splits for both ABIs exist somewhere in the set.
	if !names["splits/base-arm64_v8a.apk"] || !names["splits/base-armeabi_v7a.apk"] {
		t.Errorf("missing ABI splits, have %v", names)
	}

	// Re-running against the same output path must refuse to overwrite.
	if err := cmd.Execute(); err == nil {
		t.Error("second run overwrote the output")
	}
}

func TestFindWearEmbeddedApk(t *testing.T) {
	desc := &bundleproto.XmlNode{Element: &bundleproto.XmlElement{
		Name: "wearableApp",
		Child: []*bundleproto.XmlNode{
			{Element: &bundleproto.XmlElement{
				Name: "rawPathResId",
				Child: []*bundleproto.XmlNode{
					{Text: "wearable_app", HasText: true},
				},
			}},
		},
	}}

	m := manifest.New("com.example.app").Edit().
		AddMetadataResourceRef(WearAppMetadataName, 0x7f030000).
		Save()
	mod := bundle.NewModule(bundle.BaseModuleName, m)
	mod.SetEntry(bundle.NewEntry(bundle.MustZipPath("res/xml/wearable_desc.xml"),
		bundle.NewBytesSource(desc.Marshal())))
	mod.SetEntry(bundle.NewEntry(bundle.MustZipPath("res/raw/wearable_app.apk"),
		bundle.NewBytesSource([]byte("wear-apk"))))
	mod.ResourceTable = &bundleproto.ResourceTable{
		Package: []*bundleproto.Package{
			{
				PackageId: &bundleproto.PackageId{Id: 0x7f},
				Type: []*bundleproto.Type{
					{
						TypeId: &bundleproto.TypeId{Id: 0x03},
						Name:   "xml",
						Entry: []*bundleproto.Entry{
							{
								EntryId: &bundleproto.EntryId{Id: 0},
								Name:    "wearable_desc",
								ConfigValue: []*bundleproto.ConfigValue{
									{Value: &bundleproto.Value{Item: &bundleproto.Item{
										File: &bundleproto.FileReference{Path: "res/xml/wearable_desc.xml"},
									}}},
								},
							},
						},
					},
					{
						TypeId: &bundleproto.TypeId{Id: 0x04},
						Name:   "raw",
						Entry: []*bundleproto.Entry{
							{
								EntryId: &bundleproto.EntryId{Id: 0},
								Name:    "wearable_app",
								ConfigValue: []*bundleproto.ConfigValue{
									{Value: &bundleproto.Value{Item: &bundleproto.Item{
										File: &bundleproto.FileReference{Path: "res/raw/wearable_app.apk"},
									}}},
								},
							},
						},
					},
				},
			},
		},
	}

	p, ok := FindWearEmbeddedApk(mod)
	if !ok {
		t.Fatal("embedded wear APK not found")
	}
	if got := p.String(); got != "res/raw/wearable_app.apk" {
		t.Errorf("wear APK path = %q", got)
	}
}
