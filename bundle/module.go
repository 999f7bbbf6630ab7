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

package bundle

import (
	"regexp"
	"sort"

	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
)

// Special module files peeled off into typed fields during ingestion.
var (
	ManifestPath         = MustZipPath("manifest/AndroidManifest.xml")
	ResourceTablePath    = MustZipPath("resources.pb")
	AssetsConfigPath     = MustZipPath("assets.pb")
	NativeConfigPath     = MustZipPath("native.pb")
	ApexConfigPath       = MustZipPath("apex.pb")
	RuntimeSdkConfigPath = MustZipPath("runtime_enabled_sdk_config.pb")
)

var moduleNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidModuleName reports whether name is a legal module name.
func ValidModuleName(name string) bool {
	return moduleNameRe.MatchString(name)
}

// BaseModuleName is the reserved name of the base module.
const BaseModuleName = "base"

// Module is one module of a bundle: its manifest, typed sidecars and raw
// entries. Special paths never appear in Entries.
type Module struct {
	Name     string
	Manifest *manifest.Manifest

	ResourceTable    *bundleproto.ResourceTable
	Assets           *bundleproto.Assets
	NativeLibraries  *bundleproto.NativeLibraries
	ApexImages       *bundleproto.ApexImages
	RuntimeSdkConfig *bundleproto.RuntimeEnabledSdkConfig

	// entries is keyed by serialized path.
	entries map[string]*ModuleEntry
}

func NewModule(name string, m *manifest.Manifest) *Module {
	return &Module{Name: name, Manifest: m, entries: make(map[string]*ModuleEntry)}
}

func (m *Module) IsBase() bool {
	return m.Name == BaseModuleName
}

func (m *Module) Type() manifest.ModuleType {
	return m.Manifest.ModuleType()
}

func (m *Module) Delivery() manifest.DeliveryMode {
	return m.Manifest.DeliveryMode()
}

// SetEntry adds or replaces an entry.
func (m *Module) SetEntry(e *ModuleEntry) {
	if m.entries == nil {
		m.entries = make(map[string]*ModuleEntry)
	}
	m.entries[e.Path.String()] = e
}

func (m *Module) RemoveEntry(p ZipPath) {
	delete(m.entries, p.String())
}

func (m *Module) Entry(p ZipPath) (*ModuleEntry, bool) {
	e, ok := m.entries[p.String()]
	return e, ok
}

// Entries returns all entries in sorted path order.
func (m *Module) Entries() []*ModuleEntry {
	out := make([]*ModuleEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path.Less(out[j].Path) })
	return out
}

// EntriesUnder returns entries under dir in sorted path order.
func (m *Module) EntriesUnder(dir ZipPath) []*ModuleEntry {
	var out []*ModuleEntry
	for _, e := range m.Entries() {
		if e.Path.StartsWith(dir) {
			out = append(out, e)
		}
	}
	return out
}

// ShallowCopy duplicates the module with a fresh entry map; entries and
// sidecars are shared.
func (m *Module) ShallowCopy() *Module {
	n := *m
	n.entries = make(map[string]*ModuleEntry, len(m.entries))
	for k, v := range m.entries {
		n.entries[k] = v
	}
	return &n
}
