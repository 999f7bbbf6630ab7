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
	"strings"

	"github.com/google/blueprint/pathtools"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
)

// entryCompression marks entries force-uncompressed per the bundle's
// compression config and each module's manifest: every uncompressed-glob
// match, and all native libraries of modules declaring
// android:extractNativeLibs="false".
type entryCompression struct{}

func (entryCompression) Preprocess(b *bundle.Bundle) (*bundle.Bundle, error) {
	var globs []string
	if b.Config != nil && b.Config.Compression != nil {
		globs = b.Config.Compression.UncompressedGlob
	}

	out := b.ShallowCopy()
	for _, m := range out.Modules() {
		extract, declared := m.Manifest.ExtractNativeLibs()
		uncompressedNativeLibs := declared && !extract

		var changed []*bundle.ModuleEntry
		for _, e := range m.Entries() {
			force := false
			path := e.Path.String()
			if uncompressedNativeLibs && strings.HasPrefix(path, "lib/") && strings.HasSuffix(path, ".so") {
				force = true
			}
			for _, g := range globs {
				match, err := pathtools.Match(g, path)
				if err != nil {
					return nil, bterror.InvalidBundlef("invalid uncompressed glob %q", g)
				}
				if match {
					force = true
					break
				}
			}
			if force && !e.ForceUncompressed {
				changed = append(changed, e.WithForceUncompressed(true))
			}
		}
		if len(changed) == 0 {
			continue
		}
		nm := m.ShallowCopy()
		for _, e := range changed {
			nm.SetEntry(e)
		}
		out.ReplaceModule(nm)
	}
	return out, nil
}
