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

package manifest

import (
	"bytes"
	"testing"

	"android/bundletool/bundleproto"
)

func distElement(name string, attrs []*bundleproto.XmlAttribute, children ...*bundleproto.XmlNode) *bundleproto.XmlNode {
	return &bundleproto.XmlNode{Element: &bundleproto.XmlElement{
		NamespaceUri: DistributionNamespace,
		Name:         name,
		Attribute:    attrs,
		Child:        children,
	}}
}

func withModuleElement(m *Manifest, moduleChildren ...*bundleproto.XmlNode) *Manifest {
	n := m.Clone()
	n.Proto().Element.Child = append(n.Proto().Element.Child,
		distElement("module", nil, moduleChildren...))
	return n
}

func TestDeliveryResolution(t *testing.T) {
	base := New("com.example.app")

	tests := []struct {
		name string
		m    *Manifest
		want DeliveryMode
	}{
		{
			name: "no delivery declaration",
			m:    base,
			want: AlwaysInitialInstall,
		},
		{
			name: "on-demand delivery",
			m:    withModuleElement(base, distElement("delivery", nil, distElement("on-demand", nil))),
			want: NoInitialInstall,
		},
		{
			name: "install-time without conditions",
			m:    withModuleElement(base, distElement("delivery", nil, distElement("install-time", nil))),
			want: AlwaysInitialInstall,
		},
		{
			name: "install-time with conditions",
			m: withModuleElement(base, distElement("delivery", nil,
				distElement("install-time", nil,
					distElement("conditions", nil,
						distElement("min-sdk-version", []*bundleproto.XmlAttribute{
							{NamespaceUri: DistributionNamespace, Name: "value", Value: "24"},
						}))))),
			want: ConditionalInitialInstall,
		},
		{
			name: "empty module element",
			m:    withModuleElement(base.Clone()),
			want: AlwaysInitialInstall,
		},
	}
	for _, tc := range tests {
		if got := tc.m.DeliveryMode(); got != tc.want {
			t.Errorf("%s: DeliveryMode = %v, want %v", tc.name, got, tc.want)
		}
	}

	legacy := base.Clone()
	legacy.Proto().Element.Child = append(legacy.Proto().Element.Child,
		distElement("module", []*bundleproto.XmlAttribute{
			{NamespaceUri: DistributionNamespace, Name: "onDemand", Value: "true"},
		}))
	if got := legacy.DeliveryMode(); got != NoInitialInstall {
		t.Errorf("legacy onDemand: DeliveryMode = %v, want NoInitialInstall", got)
	}
}

func TestDeliveryConditions(t *testing.T) {
	m := withModuleElement(New("com.example.app"), distElement("delivery", nil,
		distElement("install-time", nil,
			distElement("conditions", nil,
				distElement("min-sdk-version", []*bundleproto.XmlAttribute{
					{NamespaceUri: DistributionNamespace, Name: "value", Value: "24"},
				})))))
	cond := m.DeliveryConditions()
	if cond == nil || cond.SdkVersionTargeting == nil {
		t.Fatal("missing sdk condition")
	}
	if got := cond.SdkVersionTargeting.Value[0].Min.Value; got != 24 {
		t.Errorf("min sdk condition = %d, want 24", got)
	}
}

// Fused module names are sorted, deduplicated and comma-joined into a single
// meta-data element.
func TestSetFusedModuleNames(t *testing.T) {
	m := New("com.example.app").Edit().
		SetFusedModuleNames([]string{"b", "a", "c", "a"}).
		Save()

	v, ok := m.MetadataValue(FusedModulesMetadataName)
	if !ok {
		t.Fatal("fused modules metadata missing")
	}
	if v != "a,b,c" {
		t.Errorf("fused modules = %q, want %q", v, "a,b,c")
	}

	// Exactly one element even after re-applying.
	m = m.Edit().SetFusedModuleNames([]string{"a", "b", "c"}).Save()
	app := childElement(m.manifestElement(), "", "application")
	count := 0
	for _, md := range childElements(app, "", "meta-data") {
		if a := attributeById(md, NameResourceId, AndroidNamespace, "name"); a != nil && a.Value == FusedModulesMetadataName {
			count++
		}
	}
	if count != 1 {
		t.Errorf("fused modules meta-data count = %d, want 1", count)
	}

	isr := attributeById(app, IsSplitRequiredResourceId, AndroidNamespace, "isSplitRequired")
	if isr == nil || isr.Value != "true" {
		t.Error("isSplitRequired not set")
	}
}

// Editing then saving with no further mutations is byte-stable.
func TestEditorSaveIdempotent(t *testing.T) {
	m := New("com.example.app").Edit().
		SetVersionCode(42).
		SetMinSdkVersion(21).
		SetSplitIdForFeatureSplit("feature_x").
		AddMetadataString("key", "value").
		Save()

	once := m.Marshal()
	twice := m.Edit().Save().Marshal()
	if !bytes.Equal(once, twice) {
		t.Error("editor save is not idempotent")
	}
}

func TestEditorMutators(t *testing.T) {
	m := New("com.example.app").Edit().
		SetVersionCode(7).
		SetVersionName("1.0").
		SetMinSdkVersion(19).
		SetMaxSdkVersion(33).
		SetHasCode(false).
		SetExtractNativeLibs(false).
		Save()

	if got, ok := m.VersionCode(); !ok || got != 7 {
		t.Errorf("VersionCode = %d, %v", got, ok)
	}
	if got := m.MinSdkVersion(); got != 19 {
		t.Errorf("MinSdkVersion = %d", got)
	}
	if got, ok := m.MaxSdkVersion(); !ok || got != 33 {
		t.Errorf("MaxSdkVersion = %d, %v", got, ok)
	}
	if m.HasCode() {
		t.Error("HasCode = true after SetHasCode(false)")
	}
	if extract, declared := m.ExtractNativeLibs(); !declared || extract {
		t.Errorf("ExtractNativeLibs = %v, %v", extract, declared)
	}
}

func TestRemoveUnknownSplitComponents(t *testing.T) {
	m := New("com.example.app")
	app := &bundleproto.XmlElement{Name: "application"}
	addComponent := func(kind, splitName string) {
		el := &bundleproto.XmlElement{Name: kind}
		if splitName != "" {
			el.Attribute = append(el.Attribute, &bundleproto.XmlAttribute{
				NamespaceUri: AndroidNamespace,
				Name:         "splitName",
				ResourceId:   SplitNameResourceId,
				Value:        splitName,
			})
		}
		app.Child = append(app.Child, &bundleproto.XmlNode{Element: el})
	}
	addComponent("activity", "")
	addComponent("activity", "known")
	addComponent("service", "gone")
	addComponent("provider", "known")
	m.Proto().Element.Child = append(m.Proto().Element.Child, &bundleproto.XmlNode{Element: app})

	edited := m.Edit().RemoveUnknownSplitComponents(map[string]bool{"known": true}).Save()
	got := childElement(edited.manifestElement(), "", "application")
	if len(got.Child) != 3 {
		t.Fatalf("components = %d, want 3", len(got.Child))
	}
	for _, c := range got.Child {
		if a := attributeById(c.Element, SplitNameResourceId, AndroidNamespace, "splitName"); a != nil && a.Value == "gone" {
			t.Error("component with unknown splitName survived")
		}
	}
}

func TestIncludeInFusingVersionGate(t *testing.T) {
	// dist-namespaced attribute: read at any version.
	namespaced := withModuleElement(New("com.example.app"),
		distElement("fusing", []*bundleproto.XmlAttribute{
			{NamespaceUri: DistributionNamespace, Name: "include", Value: "true"},
		}))
	if include, ok := namespaced.IncludeInFusing(Version{1, 8, 0}); !ok || !include {
		t.Errorf("namespaced fusing = %v, %v", include, ok)
	}

	// Local-name attribute: honored only for bundles built before 0.3.4.
	local := withModuleElement(New("com.example.app"),
		distElement("fusing", []*bundleproto.XmlAttribute{
			{Name: "include", Value: "true"},
		}))
	if include, ok := local.IncludeInFusing(Version{0, 3, 3}); !ok || !include {
		t.Errorf("legacy fusing pre-0.3.4 = %v, %v", include, ok)
	}
	if _, ok := local.IncludeInFusing(Version{0, 3, 4}); ok {
		t.Error("local-name fusing honored at 0.3.4")
	}
}

func TestModuleType(t *testing.T) {
	asset := withModuleElement(New("com.example.app"))
	asset.distModule().Attribute = append(asset.distModule().Attribute,
		&bundleproto.XmlAttribute{NamespaceUri: DistributionNamespace, Name: "type", Value: "asset-pack"})
	if got := asset.ModuleType(); got != AssetModule {
		t.Errorf("ModuleType = %v, want AssetModule", got)
	}
	if got := New("com.example.app").ModuleType(); got != FeatureModule {
		t.Errorf("default ModuleType = %v, want FeatureModule", got)
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.15.6")
	if err != nil || v != (Version{1, 15, 6}) {
		t.Errorf("ParseVersion = %v, %v", v, err)
	}
	if _, err := ParseVersion("1.15"); err == nil {
		t.Error("short version accepted")
	}
	v, err = ParseVersion("1.8.0-dev")
	if err != nil || v != (Version{1, 8, 0}) {
		t.Errorf("pre-release version = %v, %v", v, err)
	}
	if !(Version{1, 0, 0}).AtLeast(Version{0, 10, 1}) {
		t.Error("1.0.0 should be at least 0.10.1")
	}
	if (Version{0, 10, 0}).AtLeast(Version{0, 10, 1}) {
		t.Error("0.10.0 should not be at least 0.10.1")
	}
}
