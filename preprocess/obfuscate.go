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
	"crypto/sha256"
	"encoding/base32"
	"path"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/restable"
)

var obfuscationEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// obfuscator renames res/ files to content-addressed names and rewrites the
// resource table references to the new locations. Modules are visited in
// bundle order and entries in sorted path order so the renaming is
// deterministic. Hash
// collisions re-derive a sibling key by re-hashing the previous digest;
// there is no random retry.
type obfuscator struct{}

var resDirectory = bundle.MustZipPath("res")

func (obfuscator) Preprocess(b *bundle.Bundle) (*bundle.Bundle, error) {
	out := b.ShallowCopy()
	for _, m := range out.Modules() {
		resEntries := m.EntriesUnder(resDirectory)
		if len(resEntries) == 0 || m.ResourceTable == nil {
			continue
		}

		nm := m.ShallowCopy()
		renames := make(map[string]string)
		taken := make(map[string]bool)
		for _, e := range resEntries {
			hash, err := e.SHA256()
			if err != nil {
				return nil, err
			}
			name := obfuscatedName(hash, path.Ext(e.Path.FileName()), taken)
			taken[name] = true
			newPath := resDirectory.Resolve(name)
			renames[e.Path.String()] = newPath.String()
			nm.RemoveEntry(e.Path)
			nm.SetEntry(e.WithPath(newPath))
		}

		table := nm.ResourceTable
		copied := cloneTable(table)
		restable.RewriteFilePaths(copied, func(p string) (string, bool) {
			to, ok := renames[p]
			return to, ok
		})
		nm.ResourceTable = copied
		out.ReplaceModule(nm)
	}
	return out, nil
}

// obfuscatedName derives a short stable name from the content hash. On
// collision the digest itself is re-hashed and the next 6-byte key is taken.
func obfuscatedName(hash [sha256.Size]byte, ext string, taken map[string]bool) string {
	digest := hash
	for {
		name := obfuscationEncoding.EncodeToString(digest[:6]) + ext
		if !taken[name] {
			return name
		}
		digest = sha256.Sum256(digest[:])
	}
}

func cloneTable(t *bundleproto.ResourceTable) *bundleproto.ResourceTable {
	out := new(bundleproto.ResourceTable)
	if err := out.Unmarshal(t.Marshal()); err != nil {
		// The table was just produced by this model; re-reading cannot fail.
		panic(err)
	}
	return out
}
