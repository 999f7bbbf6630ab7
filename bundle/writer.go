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
	"io"

	"android/bundletool/zip"
)

// WriteBundle serializes the model back to .aab form. Modules keep bundle
// order; entries within a module are written in sorted path order, special
// files first. Output is deterministic.
func WriteBundle(b *Bundle, w io.Writer) error {
	zw := zip.NewWriter(w)
	if err := zw.Add(BundleConfigFileName, zip.BytesSource(b.Config.Marshal()), false); err != nil {
		return err
	}
	for _, m := range b.Modules() {
		prefix := m.Name + "/"
		add := func(rel string, data []byte) error {
			return zw.Add(prefix+rel, zip.BytesSource(data), false)
		}
		if err := add(ManifestPath.String(), m.Manifest.Marshal()); err != nil {
			return err
		}
		if m.ResourceTable != nil {
			if err := add(ResourceTablePath.String(), m.ResourceTable.Marshal()); err != nil {
				return err
			}
		}
		if m.Assets != nil {
			if err := add(AssetsConfigPath.String(), m.Assets.Marshal()); err != nil {
				return err
			}
		}
		if m.NativeLibraries != nil {
			if err := add(NativeConfigPath.String(), m.NativeLibraries.Marshal()); err != nil {
				return err
			}
		}
		if m.ApexImages != nil {
			if err := add(ApexConfigPath.String(), m.ApexImages.Marshal()); err != nil {
				return err
			}
		}
		if m.RuntimeSdkConfig != nil {
			if err := add(RuntimeSdkConfigPath.String(), m.RuntimeSdkConfig.Marshal()); err != nil {
				return err
			}
		}
		for _, e := range m.Entries() {
			if err := zw.Add(prefix+e.Path.String(), sourceAdapter{e.Source}, e.ForceUncompressed); err != nil {
				return err
			}
		}
	}
	for _, p := range b.Metadata.Paths() {
		src, _ := b.Metadata.Get(p)
		if err := zw.Add(MetadataDirectory+"/"+p, sourceAdapter{src}, false); err != nil {
			return err
		}
	}
	return zw.Close()
}

type sourceAdapter struct {
	src ByteSource
}

func (s sourceAdapter) Open() (io.ReadCloser, error) {
	return s.src.Open()
}
