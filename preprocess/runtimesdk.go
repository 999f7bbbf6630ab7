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
	"fmt"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/manifest"
	"android/bundletool/restable"
)

// runtimeSdkFuser absorbs sdk-dependency modules as feature modules for
// devices without SDK-runtime support: the module's resource package id is
// remapped to the id reserved for it in the app, the auto-generated RPackage
// dex container is dropped (the base provides it), and delivery becomes
// install-time.
type runtimeSdkFuser struct{}

func (runtimeSdkFuser) Preprocess(b *bundle.Bundle) (*bundle.Bundle, error) {
	base, ok := b.BaseModule()
	if !ok || base.RuntimeSdkConfig == nil {
		return b, nil
	}
	newPackageIds := make(map[string]uint32)
	for _, sdk := range base.RuntimeSdkConfig.RuntimeEnabledSdk {
		newPackageIds[sdk.PackageName] = uint32(sdk.ResourcesPackageId)
	}

	out := b.ShallowCopy()
	for _, m := range out.Modules() {
		if m.Type() != manifest.SdkDependencyModule {
			continue
		}
		pkgId, declared := newPackageIds[m.Manifest.PackageName()]
		if !declared {
			return nil, bterror.InvalidBundlef(
				"sdk-dependency module %q has no runtime-enabled SDK declaration", m.Name)
		}
		nm := m.ShallowCopy()
		if nm.ResourceTable != nil {
			table := nm.ResourceTable
			oldId := uint32(0)
			if len(table.Package) == 1 && table.Package[0].PackageId != nil {
				oldId = table.Package[0].PackageId.Id
			}
			if err := restable.RemapPackageId(table, pkgId); err != nil {
				return nil, err
			}
			manifestProto := nm.Manifest.Clone()
			restable.RemapXmlReferences(manifestProto.Proto(), oldId, pkgId)
			nm.Manifest = manifestProto
		}
		dropLastDex(nm)
		nm.Manifest = nm.Manifest.Edit().
			SetInstallTimeDelivery(true).
			SetFusingInclude(true).
			Save()
		out.ReplaceModule(nm)
	}
	return out, nil
}

// dropLastDex removes the highest-numbered dex file of the module.
func dropLastDex(m *bundle.Module) {
	maxN := -1
	var maxPath bundle.ZipPath
	for _, e := range m.EntriesUnder(bundle.DexDirectory) {
		name := e.Path.FileName()
		n := 0
		if name == "classes.dex" {
			n = 1
		} else {
			if _, err := fmt.Sscanf(name, "classes%d.dex", &n); err != nil {
				continue
			}
		}
		if n > maxN {
			maxN = n
			maxPath = e.Path
		}
	}
	if maxN >= 0 {
		m.RemoveEntry(maxPath)
	}
}
