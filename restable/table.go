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

// Package restable works with aapt2 resource tables: configuration-driven
// filtering for the splitters, pinned-resource policy, and package-id
// remapping when SDK-runtime modules are fused in.
package restable

import (
	"fmt"

	"android/bundletool/bundleproto"
)

// ResourceId is a full 0xPPTTNNNN resource identifier.
type ResourceId uint32

func MakeResourceId(pkg, typ, entry uint32) ResourceId {
	return ResourceId(pkg<<24 | typ<<16 | entry&0xffff)
}

func (id ResourceId) PackageId() uint32 { return uint32(id) >> 24 }
func (id ResourceId) TypeId() uint32    { return (uint32(id) >> 16) & 0xff }
func (id ResourceId) EntryId() uint32   { return uint32(id) & 0xffff }

func (id ResourceId) String() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

func entryId(p *bundleproto.Package, t *bundleproto.Type, e *bundleproto.Entry) ResourceId {
	var pkg, typ, ent uint32
	if p.PackageId != nil {
		pkg = p.PackageId.Id
	}
	if t.TypeId != nil {
		typ = t.TypeId.Id
	}
	if e.EntryId != nil {
		ent = e.EntryId.Id
	}
	return MakeResourceId(pkg, typ, ent)
}

// Pinned is the set of resources that must stay in the master split.
type Pinned struct {
	ids   map[ResourceId]bool
	names map[string]bool // "type/name"
}

// NewPinned builds the pin set from the bundle's master resources config.
func NewPinned(mr *bundleproto.MasterResources) *Pinned {
	p := &Pinned{ids: make(map[ResourceId]bool), names: make(map[string]bool)}
	if mr == nil {
		return p
	}
	for _, id := range mr.ResourceIds {
		p.ids[ResourceId(id)] = true
	}
	for _, n := range mr.ResourceNames {
		p.names[n] = true
	}
	return p
}

func (p *Pinned) Contains(id ResourceId, typeName, entryName string) bool {
	return p.ids[id] || p.names[typeName+"/"+entryName]
}

// FilterTable returns a copy of table keeping only the config values for
// which keep returns true. Entries pinned to the master are kept whole when
// keepPinned is set and dropped entirely otherwise. Entries, types and
// packages left without content are pruned.
func FilterTable(table *bundleproto.ResourceTable, pinned *Pinned, keepPinned bool,
	keep func(cfg *bundleproto.Configuration) bool) *bundleproto.ResourceTable {

	out := &bundleproto.ResourceTable{SourcePool: table.SourcePool}
	for _, pkg := range table.Package {
		outPkg := &bundleproto.Package{PackageId: pkg.PackageId, PackageName: pkg.PackageName}
		for _, typ := range pkg.Type {
			outTyp := &bundleproto.Type{TypeId: typ.TypeId, Name: typ.Name}
			for _, entry := range typ.Entry {
				id := entryId(pkg, typ, entry)
				isPinned := pinned != nil && pinned.Contains(id, typ.Name, entry.Name)
				if isPinned {
					if keepPinned {
						outTyp.Entry = append(outTyp.Entry, entry)
					}
					continue
				}
				outEntry := &bundleproto.Entry{EntryId: entry.EntryId, Name: entry.Name}
				for _, cv := range entry.ConfigValue {
					cfg := cv.Config
					if cfg == nil {
						cfg = new(bundleproto.Configuration)
					}
					if keep(cfg) {
						outEntry.ConfigValue = append(outEntry.ConfigValue, cv)
					}
				}
				if len(outEntry.ConfigValue) > 0 {
					outTyp.Entry = append(outTyp.Entry, outEntry)
				}
			}
			if len(outTyp.Entry) > 0 {
				outPkg.Type = append(outPkg.Type, outTyp)
			}
		}
		if len(outPkg.Type) > 0 {
			out.Package = append(out.Package, outPkg)
		}
	}
	return out
}

// ReferencedFiles returns every file path referenced from the table.
func ReferencedFiles(table *bundleproto.ResourceTable) map[string]bool {
	files := make(map[string]bool)
	if table == nil {
		return files
	}
	for _, pkg := range table.Package {
		for _, typ := range pkg.Type {
			for _, entry := range typ.Entry {
				for _, cv := range entry.ConfigValue {
					forEachFileReference(cv.Value, func(f *bundleproto.FileReference) {
						files[f.Path] = true
					})
				}
			}
		}
	}
	return files
}

func forEachFileReference(v *bundleproto.Value, fn func(*bundleproto.FileReference)) {
	if v == nil {
		return
	}
	if v.Item != nil && v.Item.File != nil {
		fn(v.Item.File)
	}
}

// RewriteFilePaths applies rename to every FileReference path in the table.
// Used by the obfuscation preprocessor.
func RewriteFilePaths(table *bundleproto.ResourceTable, rename func(string) (string, bool)) {
	if table == nil {
		return
	}
	for _, pkg := range table.Package {
		for _, typ := range pkg.Type {
			for _, entry := range typ.Entry {
				for _, cv := range entry.ConfigValue {
					forEachFileReference(cv.Value, func(f *bundleproto.FileReference) {
						if to, ok := rename(f.Path); ok {
							f.Path = to
						}
					})
				}
			}
		}
	}
}

// forEachReference visits every resource Reference in a value: items, style
// parents and entries, styleable entries, array elements, plural entries and
// attribute symbols.
func forEachReference(v *bundleproto.Value, fn func(*bundleproto.Reference)) {
	if v == nil {
		return
	}
	if v.Item != nil {
		forEachItemReference(v.Item, fn)
	}
	cv := v.CompoundValue
	if cv == nil {
		return
	}
	if cv.Style != nil {
		if cv.Style.Parent != nil {
			fn(cv.Style.Parent)
		}
		for _, e := range cv.Style.Entry {
			if e.Key != nil {
				fn(e.Key)
			}
			if e.Item != nil {
				forEachItemReference(e.Item, fn)
			}
		}
	}
	if cv.Styleable != nil {
		for _, e := range cv.Styleable.Entry {
			if e.Attr != nil {
				fn(e.Attr)
			}
		}
	}
	if cv.Array != nil {
		for _, e := range cv.Array.Element {
			if e.Item != nil {
				forEachItemReference(e.Item, fn)
			}
		}
	}
	if cv.Plural != nil {
		for _, e := range cv.Plural.Entry {
			if e.Item != nil {
				forEachItemReference(e.Item, fn)
			}
		}
	}
	if cv.Attr != nil {
		for _, s := range cv.Attr.Symbol {
			if s.Name != nil {
				fn(s.Name)
			}
		}
	}
}

func forEachItemReference(item *bundleproto.Item, fn func(*bundleproto.Reference)) {
	if item.Ref != nil {
		fn(item.Ref)
	}
}
