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
	"android/bundletool/bterror"
	"android/bundletool/bundleproto"
)

// RemapPackageId rewrites the table's package id and the top byte of every
// resource reference that pointed at the old package. The table must have at
// most one package.
func RemapPackageId(table *bundleproto.ResourceTable, newPackageId uint32) error {
	if table == nil {
		return nil
	}
	if len(table.Package) > 1 {
		return bterror.InvalidBundlef(
			"an SDK module resource table must have at most one package, found %d",
			len(table.Package))
	}
	if len(table.Package) == 0 {
		return nil
	}
	pkg := table.Package[0]
	oldPackageId := uint32(0)
	if pkg.PackageId != nil {
		oldPackageId = pkg.PackageId.Id
	}
	pkg.PackageId = &bundleproto.PackageId{Id: newPackageId}

	remapRef := func(ref *bundleproto.Reference) {
		if ref.Id == 0 {
			return
		}
		if ResourceId(ref.Id).PackageId() == oldPackageId {
			ref.Id = newPackageId<<24 | ref.Id&0x00ffffff
		}
	}
	for _, typ := range pkg.Type {
		for _, entry := range typ.Entry {
			for _, cv := range entry.ConfigValue {
				forEachReference(cv.Value, remapRef)
			}
		}
	}
	return nil
}

// RemapXmlReferences rewrites attribute resource references of a compiled
// XML tree from oldPackageId to newPackageId.
func RemapXmlReferences(node *bundleproto.XmlNode, oldPackageId, newPackageId uint32) {
	if node == nil || node.Element == nil {
		return
	}
	for _, a := range node.Element.Attribute {
		if a.CompiledItem != nil && a.CompiledItem.Ref != nil {
			ref := a.CompiledItem.Ref
			if ref.Id != 0 && ResourceId(ref.Id).PackageId() == oldPackageId {
				ref.Id = newPackageId<<24 | ref.Id&0x00ffffff
			}
		}
	}
	for _, c := range node.Element.Child {
		RemapXmlReferences(c, oldPackageId, newPackageId)
	}
}
