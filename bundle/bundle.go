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

// Package bundle models an Android App Bundle: an ordered set of modules, a
// bundle configuration and opaque metadata payloads.
package bundle

import (
	"sort"

	"android/bundletool/bterror"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
)

// MetadataDirectory is the top-level directory holding namespaced metadata.
const MetadataDirectory = "BUNDLE-METADATA"

// Metadata holds the BUNDLE-METADATA payloads, keyed by
// "<namespace>/<file>". Payloads are copied through unchanged.
type Metadata struct {
	files map[string]ByteSource
}

func NewMetadata() *Metadata {
	return &Metadata{files: make(map[string]ByteSource)}
}

func (m *Metadata) Set(namespacedPath string, src ByteSource) {
	m.files[namespacedPath] = src
}

func (m *Metadata) Get(namespacedPath string) (ByteSource, bool) {
	src, ok := m.files[namespacedPath]
	return src, ok
}

// Paths returns the metadata keys in sorted order.
func (m *Metadata) Paths() []string {
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Bundle is the typed view of one .aab archive. Module order reflects the
// source archive.
type Bundle struct {
	Config   *bundleproto.BundleConfig
	Metadata *Metadata

	modules []*Module
	byName  map[string]*Module
}

func NewBundle(config *bundleproto.BundleConfig) *Bundle {
	return &Bundle{
		Config:   config,
		Metadata: NewMetadata(),
		byName:   make(map[string]*Module),
	}
}

func (b *Bundle) AddModule(m *Module) error {
	if _, exists := b.byName[m.Name]; exists {
		return bterror.InvalidBundlef("duplicate module %q", m.Name)
	}
	b.modules = append(b.modules, m)
	b.byName[m.Name] = m
	return nil
}

// ReplaceModule swaps a module in place, preserving order.
func (b *Bundle) ReplaceModule(m *Module) {
	for i, old := range b.modules {
		if old.Name == m.Name {
			b.modules[i] = m
			b.byName[m.Name] = m
			return
		}
	}
	b.modules = append(b.modules, m)
	b.byName[m.Name] = m
}

func (b *Bundle) Module(name string) (*Module, bool) {
	m, ok := b.byName[name]
	return m, ok
}

// Modules returns all modules in bundle order.
func (b *Bundle) Modules() []*Module {
	return b.modules
}

// FeatureModules returns all non-asset modules in bundle order.
func (b *Bundle) FeatureModules() []*Module {
	var out []*Module
	for _, m := range b.modules {
		if m.Type() != manifest.AssetModule {
			out = append(out, m)
		}
	}
	return out
}

func (b *Bundle) BaseModule() (*Module, bool) {
	return b.Module(BaseModuleName)
}

func (b *Bundle) IsAssetOnly() bool {
	return b.Config != nil && b.Config.Type == bundleproto.BundleConfig_ASSET_ONLY
}

// Version returns the bundletool version the bundle was built with.
func (b *Bundle) Version() (manifest.Version, error) {
	v := ""
	if b.Config != nil && b.Config.Bundletool != nil {
		v = b.Config.Bundletool.Version
	}
	if v == "" {
		return manifest.Version{}, bterror.InvalidBundlef("bundle config has no bundletool version")
	}
	return manifest.ParseVersion(v)
}

// ShallowCopy duplicates the bundle with fresh module slices; modules are
// shared until replaced.
func (b *Bundle) ShallowCopy() *Bundle {
	n := &Bundle{
		Config:   b.Config,
		Metadata: b.Metadata,
		modules:  append([]*Module(nil), b.modules...),
		byName:   make(map[string]*Module, len(b.byName)),
	}
	for k, v := range b.byName {
		n.byName[k] = v
	}
	return n
}

// Validate checks the bundle-level invariants.
func (b *Bundle) Validate() error {
	if len(b.modules) == 0 {
		return bterror.InvalidBundlef("bundle contains no modules")
	}
	for _, m := range b.modules {
		if !ValidModuleName(m.Name) {
			return bterror.InvalidBundlef("invalid module name %q", m.Name)
		}
		split := m.Manifest.SplitId()
		if m.IsBase() {
			if split != "" {
				return bterror.InvalidBundlef(
					"the base module must not carry a split id, found %q", split)
			}
		} else if split != m.Name {
			return bterror.InvalidBundlef(
				"module %q declares mismatched split id %q", m.Name, split)
		}
		for _, dep := range m.Manifest.UsesSplits() {
			if _, ok := b.byName[dep]; !ok {
				return bterror.InvalidBundlef(
					"module %q uses split %q which is not in the bundle", m.Name, dep)
			}
		}
	}
	if _, ok := b.BaseModule(); !ok && !b.IsAssetOnly() {
		return bterror.InvalidBundlef("bundle has no base module")
	}
	return nil
}
