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

package bundleproto

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestBundleConfigRoundTrip(t *testing.T) {
	config := &BundleConfig{
		Bundletool: &Bundletool{Version: "1.15.6"},
		Optimizations: &Optimizations{
			SplitsConfig: &SplitsConfig{
				SplitDimension: []*SplitDimension{
					{Value: SplitDimension_ABI},
					{Value: SplitDimension_LANGUAGE, Negate: true},
					{
						Value: SplitDimension_TEXTURE_COMPRESSION_FORMAT,
						SuffixStripping: &SuffixStripping{Enabled: true, DefaultSuffix: "etc2"},
					},
				},
			},
			UncompressNativeLibraries: &UncompressNativeLibraries{Enabled: true},
			StandaloneConfig: &StandaloneConfig{
				Strip64BitLibraries: true,
				DexMergingStrategy:  StandaloneConfig_NEVER_MERGE,
			},
		},
		Compression: &Compression{UncompressedGlob: []string{"assets/raw/**"}},
		MasterResources: &MasterResources{
			ResourceIds:   []uint32{0x7f010001, 0x7f010002},
			ResourceNames: []string{"drawable/pinned"},
		},
		Type: BundleConfig_ASSET_ONLY,
	}

	decoded := new(BundleConfig)
	if err := decoded.Unmarshal(config.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(config, decoded, cmp.AllowUnexported(
		BundleConfig{}, Bundletool{}, Optimizations{}, SplitsConfig{}, SplitDimension{},
		SuffixStripping{}, UncompressNativeLibraries{}, UncompressDexFiles{},
		StandaloneConfig{}, StoreArchive{}, Compression{}, MasterResources{},
		ApexConfig{}, AbiSet{}, UnsignedEmbeddedApkConfig{}, AssetModulesConfig{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(config.Marshal(), decoded.Marshal()) {
		t.Error("re-marshaled bytes differ")
	}
}

func TestTargetingRoundTrip(t *testing.T) {
	targeting := &ApkTargeting{
		AbiTargeting: &AbiTargeting{
			Value:        []*Abi{{Alias: Abi_ARM64_V8A}},
			Alternatives: []*Abi{{Alias: Abi_ARMEABI_V7A}, {Alias: Abi_X86}},
		},
		ScreenDensityTargeting: &ScreenDensityTargeting{
			Value: []*ScreenDensity{{DensityAlias: ScreenDensity_XHDPI}},
		},
		LanguageTargeting: &LanguageTargeting{Value: []string{"en"}, Alternatives: []string{"fr"}},
		SdkVersionTargeting: &SdkVersionTargeting{
			Value: []*SdkVersion{{Min: &Int32Value{Value: 21}}},
		},
		DeviceTierTargeting: &DeviceTierTargeting{
			Value:        []*Int32Value{{Value: 2}},
			Alternatives: []*Int32Value{{Value: 0}, {Value: 1}},
		},
		CountrySetTargeting: &CountrySetTargeting{Value: []string{"latam"}},
	}
	decoded := new(ApkTargeting)
	if err := decoded.Unmarshal(targeting.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bytes.Equal(targeting.Marshal(), decoded.Marshal()) {
		t.Error("re-marshaled bytes differ")
	}
	if got := decoded.AbiTargeting.Value[0].Alias; got != Abi_ARM64_V8A {
		t.Errorf("abi value = %v, want ARM64_V8A", got)
	}
	if got := len(decoded.DeviceTierTargeting.Alternatives); got != 2 {
		t.Errorf("tier alternatives = %d, want 2", got)
	}
}

// Fields this tool does not model must survive a read-modify-write cycle.
func TestUnknownFieldsPreserved(t *testing.T) {
	data := (&Bundletool{Version: "1.2.3"}).marshal(nil)
	// Append field 99, a string this schema has never heard of.
	data = protowire.AppendTag(data, 99, protowire.BytesType)
	data = protowire.AppendString(data, "future value")

	decoded := new(Bundletool)
	if err := decoded.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", decoded.Version, "1.2.3")
	}
	out := decoded.marshal(nil)
	if !bytes.Equal(out, data) {
		t.Errorf("unknown field lost:\n in  %x\n out %x", data, out)
	}
}

func TestScreenDensityOneof(t *testing.T) {
	alias := &ScreenDensity{DensityAlias: ScreenDensity_HDPI}
	dpi := &ScreenDensity{DensityDpi: 420, HasDpi: true}

	d1 := new(ScreenDensity)
	if err := d1.Unmarshal(alias.marshal(nil)); err != nil {
		t.Fatal(err)
	}
	if d1.HasDpi || d1.DensityAlias != ScreenDensity_HDPI {
		t.Errorf("alias round trip = %+v", d1)
	}
	d2 := new(ScreenDensity)
	if err := d2.Unmarshal(dpi.marshal(nil)); err != nil {
		t.Fatal(err)
	}
	if !d2.HasDpi || d2.DensityDpi != 420 {
		t.Errorf("dpi round trip = %+v", d2)
	}
}

func TestXmlNodeRoundTrip(t *testing.T) {
	node := &XmlNode{
		Element: &XmlElement{
			Name: "manifest",
			NamespaceDeclaration: []*XmlNamespace{
				{Prefix: "android", Uri: "http://schemas.android.com/apk/res/android"},
			},
			Attribute: []*XmlAttribute{
				{Name: "package", Value: "com.example.app"},
				{
					NamespaceUri: "http://schemas.android.com/apk/res/android",
					Name:         "versionCode",
					Value:        "42",
					ResourceId:   0x0101021b,
				},
			},
			Child: []*XmlNode{
				{Element: &XmlElement{Name: "application"}},
				{Text: "stray text", HasText: true},
			},
		},
	}
	decoded := new(XmlNode)
	if err := decoded.Unmarshal(node.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bytes.Equal(node.Marshal(), decoded.Marshal()) {
		t.Error("re-marshaled bytes differ")
	}
	if decoded.Element.Attribute[1].ResourceId != 0x0101021b {
		t.Errorf("attribute resource id lost")
	}
	if !decoded.Element.Child[1].HasText || decoded.Element.Child[1].Text != "stray text" {
		t.Errorf("text child lost: %+v", decoded.Element.Child[1])
	}
}

func TestBuildApksResultRoundTrip(t *testing.T) {
	toc := &BuildApksResult{
		PackageName: "com.example.app",
		Bundletool:  &Bundletool{Version: "1.15.6"},
		Variant: []*Variant{
			{
				Targeting: &VariantTargeting{
					SdkVersionTargeting: &SdkVersionTargeting{
						Value: []*SdkVersion{{Min: &Int32Value{Value: 21}}},
					},
				},
				ApkSet: []*ApkSet{
					{
						ModuleMetadata: &ModuleMetadata{
							Name:         "base",
							DeliveryType: DeliveryType_INSTALL_TIME,
						},
						ApkDescription: []*ApkDescription{
							{
								Path: "splits/base-master.apk",
								SplitApkMetadata: &SplitApkMetadata{IsMasterSplit: true},
							},
							{
								Path: "splits/base-arm64_v8a.apk",
								SplitApkMetadata: &SplitApkMetadata{SplitId: "config.arm64_v8a"},
							},
						},
					},
				},
				VariantNumber: 0,
			},
		},
	}
	decoded := new(BuildApksResult)
	if err := decoded.Unmarshal(toc.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bytes.Equal(toc.Marshal(), decoded.Marshal()) {
		t.Error("re-marshaled bytes differ")
	}
	if got := decoded.Variant[0].ApkSet[0].ApkDescription[1].SplitApkMetadata.SplitId; got != "config.arm64_v8a" {
		t.Errorf("split id = %q", got)
	}
}
