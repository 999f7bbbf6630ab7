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
	"strings"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/restable"
)

// WearAppMetadataName is the meta-data key of Wear 1.x embedded apps.
const WearAppMetadataName = "com.google.android.wearable.beta.app"

// FindWearEmbeddedApk locates the embedded Wear APK of a module: the
// manifest meta-data references a description XML, whose <rawPathResId>
// names the raw resource holding the APK.
func FindWearEmbeddedApk(m *bundle.Module) (bundle.ZipPath, bool) {
	if m.ResourceTable == nil {
		return bundle.ZipPath{}, false
	}
	resId, ok := m.Manifest.MetadataResource(WearAppMetadataName)
	if !ok {
		return bundle.ZipPath{}, false
	}
	descPath, ok := fileForResource(m.ResourceTable, restable.ResourceId(resId))
	if !ok {
		return bundle.ZipPath{}, false
	}
	descEntry, ok := m.Entry(bundle.MustZipPath(descPath))
	if !ok {
		return bundle.ZipPath{}, false
	}
	data, err := bundle.ReadSource(descEntry.Source)
	if err != nil {
		return bundle.ZipPath{}, false
	}
	desc := new(bundleproto.XmlNode)
	if err := desc.Unmarshal(data); err != nil || desc.Element == nil {
		// The description is proto XML only in proto bundles; anything else
		// cannot carry an embedded APK reference we can resolve.
		return bundle.ZipPath{}, false
	}
	rawName, ok := rawPathResourceName(desc)
	if !ok {
		return bundle.ZipPath{}, false
	}
	apkPath, ok := fileForResourceName(m.ResourceTable, "raw", rawName)
	if !ok {
		return bundle.ZipPath{}, false
	}
	p, err := bundle.NewZipPath(apkPath)
	if err != nil {
		return bundle.ZipPath{}, false
	}
	if _, exists := m.Entry(p); !exists {
		return bundle.ZipPath{}, false
	}
	return p, true
}

func rawPathResourceName(node *bundleproto.XmlNode) (string, bool) {
	if node.Element == nil {
		return "", false
	}
	if node.Element.Name == "rawPathResId" {
		for _, c := range node.Element.Child {
			if c.HasText && strings.TrimSpace(c.Text) != "" {
				return strings.TrimSpace(c.Text), true
			}
		}
		return "", false
	}
	for _, c := range node.Element.Child {
		if name, ok := rawPathResourceName(c); ok {
			return name, true
		}
	}
	return "", false
}

func fileForResource(table *bundleproto.ResourceTable, id restable.ResourceId) (string, bool) {
	for _, pkg := range table.Package {
		if pkg.PackageId == nil || pkg.PackageId.Id != id.PackageId() {
			continue
		}
		for _, typ := range pkg.Type {
			if typ.TypeId == nil || typ.TypeId.Id != id.TypeId() {
				continue
			}
			for _, entry := range typ.Entry {
				if entry.EntryId == nil || entry.EntryId.Id != id.EntryId() {
					continue
				}
				return firstFile(entry)
			}
		}
	}
	return "", false
}

func fileForResourceName(table *bundleproto.ResourceTable, typeName, entryName string) (string, bool) {
	for _, pkg := range table.Package {
		for _, typ := range pkg.Type {
			if typ.Name != typeName {
				continue
			}
			for _, entry := range typ.Entry {
				if entry.Name != entryName {
					continue
				}
				return firstFile(entry)
			}
		}
	}
	return "", false
}

func firstFile(entry *bundleproto.Entry) (string, bool) {
	for _, cv := range entry.ConfigValue {
		if cv.Value != nil && cv.Value.Item != nil && cv.Value.Item.File != nil {
			return cv.Value.Item.File.Path, true
		}
	}
	return "", false
}
