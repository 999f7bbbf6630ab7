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
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"android/bundletool/bterror"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
)

// BundleConfigFileName is the configuration entry at the archive root.
const BundleConfigFileName = "BundleConfig.pb"

// topLevelNonModuleDirs are archive directories that are not modules.
var topLevelNonModuleDirs = map[string]bool{
	MetadataDirectory: true,
	"META-INF":        true,
}

// Reader reads a bundle from an open zip archive. Entry contents stay
// zip-backed and lazy, so the archive must remain open for the lifetime of
// the returned bundle.
type Reader struct {
	zr *zip.ReadCloser
}

// Open opens path for reading. Close releases the archive.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, bterror.InvalidBundlef("cannot open bundle").
			WithInternal("%s", path)
	}
	return &Reader{zr: zr}, nil
}

func (r *Reader) Close() error {
	return r.zr.Close()
}

// ReadBundle parses the archive into the typed model and validates it. The
// classes.dex name sanitizer is applied to every affected module.
func (r *Reader) ReadBundle() (*Bundle, error) {
	b, err := readBundle(&r.zr.Reader)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func readBundle(zr *zip.Reader) (*Bundle, error) {
	files := make(map[string]*zip.File)
	var order []string
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			// Directory entries are dropped.
			continue
		}
		if _, dup := files[f.Name]; dup {
			return nil, bterror.InvalidBundlef("duplicate entry %q", f.Name)
		}
		files[f.Name] = f
		order = append(order, f.Name)
	}

	cf, ok := files[BundleConfigFileName]
	if !ok {
		return nil, bterror.InvalidBundlef("bundle is missing %s", BundleConfigFileName)
	}
	config := new(bundleproto.BundleConfig)
	if err := unmarshalZipEntry(cf, config.Unmarshal); err != nil {
		return nil, bterror.InvalidBundlef("malformed %s", BundleConfigFileName).
			WithInternal("%v", err)
	}

	b := NewBundle(config)
	moduleFiles := make(map[string][]*zip.File)
	var moduleOrder []string
	for _, name := range order {
		f := files[name]
		slash := strings.IndexByte(name, '/')
		if slash < 0 {
			// Root files other than the config are ignored.
			continue
		}
		top := name[:slash]
		if top == MetadataDirectory {
			rel := name[slash+1:]
			b.Metadata.Set(rel, NewZipEntrySource(f))
			continue
		}
		if topLevelNonModuleDirs[top] {
			continue
		}
		if _, seen := moduleFiles[top]; !seen {
			moduleOrder = append(moduleOrder, top)
		}
		moduleFiles[top] = append(moduleFiles[top], f)
	}

	for _, name := range moduleOrder {
		if !ValidModuleName(name) {
			return nil, bterror.InvalidBundlef("invalid module name %q", name)
		}
		m, err := readModule(name, moduleFiles[name])
		if err != nil {
			return nil, err
		}
		sanitizeDexNames(m)
		if err := b.AddModule(m); err != nil {
			return nil, err
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func readModule(name string, files []*zip.File) (*Module, error) {
	m := &Module{Name: name, entries: make(map[string]*ModuleEntry)}
	for _, f := range files {
		rel := f.Name[len(name)+1:]
		path, err := NewZipPath(rel)
		if err != nil {
			return nil, bterror.InvalidBundlef("module %q contains an invalid path", name).
				WithInternal("%v", err)
		}
		var perr error
		switch path {
		case ManifestPath:
			perr = unmarshalZipEntry(f, func(data []byte) error {
				var err error
				m.Manifest, err = manifest.Parse(data)
				return err
			})
		case ResourceTablePath:
			m.ResourceTable = new(bundleproto.ResourceTable)
			perr = unmarshalZipEntry(f, m.ResourceTable.Unmarshal)
		case AssetsConfigPath:
			m.Assets = new(bundleproto.Assets)
			perr = unmarshalZipEntry(f, m.Assets.Unmarshal)
		case NativeConfigPath:
			m.NativeLibraries = new(bundleproto.NativeLibraries)
			perr = unmarshalZipEntry(f, m.NativeLibraries.Unmarshal)
		case ApexConfigPath:
			m.ApexImages = new(bundleproto.ApexImages)
			perr = unmarshalZipEntry(f, m.ApexImages.Unmarshal)
		case RuntimeSdkConfigPath:
			m.RuntimeSdkConfig = new(bundleproto.RuntimeEnabledSdkConfig)
			perr = unmarshalZipEntry(f, m.RuntimeSdkConfig.Unmarshal)
		default:
			m.SetEntry(NewEntry(path, NewZipEntrySource(f)))
		}
		if perr != nil {
			return nil, bterror.InvalidBundlef("module %q: malformed %s", name, rel).
				WithInternal("%v", perr)
		}
	}
	if m.Manifest == nil {
		return nil, bterror.InvalidBundlef("module %q has no AndroidManifest.xml", name)
	}
	return m, nil
}

func unmarshalZipEntry(f *zip.File, unmarshal func([]byte) error) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return unmarshal(data)
}

// DexDirectory is the module directory holding dex files.
var DexDirectory = MustZipPath("dex")

// sanitizeDexNames works around a historical packager bug that numbered dex
// files from classes1.dex: every classesN.dex moves to classes(N+1).dex,
// classes.dex stays.
func sanitizeDexNames(m *Module) {
	if _, affected := m.Entry(DexDirectory.Resolve("classes1.dex")); !affected {
		return
	}
	type rename struct {
		from ZipPath
		to   ZipPath
		e    *ModuleEntry
	}
	var renames []rename
	for _, e := range m.EntriesUnder(DexDirectory) {
		name := e.Path.FileName()
		var n int
		if _, err := fmt.Sscanf(name, "classes%d.dex", &n); err != nil || n < 1 {
			continue
		}
		if fmt.Sprintf("classes%d.dex", n) != name {
			continue
		}
		renames = append(renames, rename{
			from: e.Path,
			to:   e.Path.ResolveSibling(fmt.Sprintf("classes%d.dex", n+1)),
			e:    e,
		})
	}
	// Remove all old paths first so a rename never clobbers a pending one.
	for _, r := range renames {
		m.RemoveEntry(r.from)
	}
	for _, r := range renames {
		m.SetEntry(r.e.WithPath(r.to))
	}
}
