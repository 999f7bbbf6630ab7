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

package restable

import (
	"testing"

	"android/bundletool/bundleproto"
)

func sdkTable() *bundleproto.ResourceTable {
	return &bundleproto.ResourceTable{
		Package: []*bundleproto.Package{
			{
				PackageId:   &bundleproto.PackageId{Id: 0x7f},
				PackageName: "com.example.sdk",
				Type: []*bundleproto.Type{
					{
						TypeId: &bundleproto.TypeId{Id: 0x01},
						Name:   "style",
						Entry: []*bundleproto.Entry{
							{
								EntryId: &bundleproto.EntryId{Id: 0x0000},
								Name:    "Theme",
								ConfigValue: []*bundleproto.ConfigValue{
									{
										Config: &bundleproto.Configuration{},
										Value: &bundleproto.Value{
											CompoundValue: &bundleproto.CompoundValue{
												Style: &bundleproto.Style{
													Parent: &bundleproto.Reference{Id: 0x7f020001},
													Entry: []*bundleproto.StyleEntry{
														{
															Key:  &bundleproto.Reference{Id: 0x7f030004},
															Item: &bundleproto.Item{Ref: &bundleproto.Reference{Id: 0x01040000}},
														},
													},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// Scenario: remapping 0x7f -> 0x80 rewrites the package id and every
// reference into the old package; framework references stay.
func TestRemapPackageId(t *testing.T) {
	table := sdkTable()
	if err := RemapPackageId(table, 0x80); err != nil {
		t.Fatal(err)
	}
	pkg := table.Package[0]
	if pkg.PackageId.Id != 0x80 {
		t.Errorf("package id = %#x, want 0x80", pkg.PackageId.Id)
	}
	style := pkg.Type[0].Entry[0].ConfigValue[0].Value.CompoundValue.Style
	if style.Parent.Id != 0x80020001 {
		t.Errorf("style parent = %#x, want 0x80020001", style.Parent.Id)
	}
	if style.Entry[0].Key.Id != 0x80030004 {
		t.Errorf("style entry key = %#x, want 0x80030004", style.Entry[0].Key.Id)
	}
	if got := style.Entry[0].Item.Ref.Id; got != 0x01040000 {
		t.Errorf("framework reference changed: %#x", got)
	}
}

func TestRemapRejectsMultiPackageTable(t *testing.T) {
	table := &bundleproto.ResourceTable{
		Package: []*bundleproto.Package{
			{PackageId: &bundleproto.PackageId{Id: 0x7f}},
			{PackageId: &bundleproto.PackageId{Id: 0x7e}},
		},
	}
	if err := RemapPackageId(table, 0x80); err == nil {
		t.Fatal("multi-package table accepted")
	}
}

func TestRemapXmlReferences(t *testing.T) {
	node := &bundleproto.XmlNode{
		Element: &bundleproto.XmlElement{
			Name: "manifest",
			Attribute: []*bundleproto.XmlAttribute{
				{
					Name:         "theme",
					CompiledItem: &bundleproto.Item{Ref: &bundleproto.Reference{Id: 0x7f010002}},
				},
			},
			Child: []*bundleproto.XmlNode{
				{
					Element: &bundleproto.XmlElement{
						Name: "application",
						Attribute: []*bundleproto.XmlAttribute{
							{
								Name:         "icon",
								CompiledItem: &bundleproto.Item{Ref: &bundleproto.Reference{Id: 0x7f040001}},
							},
							{
								Name:         "label",
								CompiledItem: &bundleproto.Item{Ref: &bundleproto.Reference{Id: 0x01050001}},
							},
						},
					},
				},
			},
		},
	}
	RemapXmlReferences(node, 0x7f, 0x80)
	if got := node.Element.Attribute[0].CompiledItem.Ref.Id; got != 0x80010002 {
		t.Errorf("root attr = %#x", got)
	}
	app := node.Element.Child[0].Element
	if got := app.Attribute[0].CompiledItem.Ref.Id; got != 0x80040001 {
		t.Errorf("nested attr = %#x", got)
	}
	if got := app.Attribute[1].CompiledItem.Ref.Id; got != 0x01050001 {
		t.Errorf("framework attr changed: %#x", got)
	}
}

func TestFilterTableAndPinning(t *testing.T) {
	table := &bundleproto.ResourceTable{
		Package: []*bundleproto.Package{
			{
				PackageId:   &bundleproto.PackageId{Id: 0x7f},
				PackageName: "com.example.app",
				Type: []*bundleproto.Type{
					{
						TypeId: &bundleproto.TypeId{Id: 0x02},
						Name:   "drawable",
						Entry: []*bundleproto.Entry{
							{
								EntryId: &bundleproto.EntryId{Id: 0x0000},
								Name:    "icon",
								ConfigValue: []*bundleproto.ConfigValue{
									{
										Config: &bundleproto.Configuration{Density: 480},
										Value: &bundleproto.Value{Item: &bundleproto.Item{
											File: &bundleproto.FileReference{Path: "res/drawable-xxhdpi/icon.png"},
										}},
									},
									{
										Config: &bundleproto.Configuration{},
										Value: &bundleproto.Value{Item: &bundleproto.Item{
											File: &bundleproto.FileReference{Path: "res/drawable/icon.png"},
										}},
									},
								},
							},
							{
								EntryId: &bundleproto.EntryId{Id: 0x0001},
								Name:    "pinned",
								ConfigValue: []*bundleproto.ConfigValue{
									{
										Config: &bundleproto.Configuration{Density: 480},
										Value: &bundleproto.Value{Item: &bundleproto.Item{
											File: &bundleproto.FileReference{Path: "res/drawable-xxhdpi/pinned.png"},
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
	pinned := NewPinned(&bundleproto.MasterResources{ResourceIds: []uint32{0x7f020001}})

	// The density filter keeps only the 480dpi config of unpinned entries.
	filtered := FilterTable(table, pinned, false, func(cfg *bundleproto.Configuration) bool {
		return cfg.Density == 480
	})
	if got := len(filtered.Package[0].Type[0].Entry); got != 1 {
		t.Fatalf("filtered entries = %d, want 1 (pinned excluded)", got)
	}
	files := ReferencedFiles(filtered)
	if !files["res/drawable-xxhdpi/icon.png"] || files["res/drawable/icon.png"] {
		t.Errorf("referenced files = %v", files)
	}

	// The master keeps default configs plus pinned entries whole.
	master := FilterTable(table, pinned, true, func(cfg *bundleproto.Configuration) bool {
		return cfg.Density == 0
	})
	masterFiles := ReferencedFiles(master)
	if !masterFiles["res/drawable/icon.png"] || !masterFiles["res/drawable-xxhdpi/pinned.png"] {
		t.Errorf("master files = %v", masterFiles)
	}
}
