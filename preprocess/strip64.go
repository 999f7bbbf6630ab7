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

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
)

var sixtyFourBitAbis = map[bundleproto.Abi_AbiAlias]bool{
	bundleproto.Abi_ARM64_V8A: true,
	bundleproto.Abi_X86_64:    true,
	bundleproto.Abi_MIPS64:    true,
	bundleproto.Abi_RISCV64:   true,
}

var abiDirTo64Bit = map[string]bool{
	"arm64-v8a": true,
	"x86_64":    true,
	"mips64":    true,
	"riscv64":   true,
}

// Strip64BitLibraries removes 64-bit native library directories from every
// module. Used when building shards for 32-bit-only devices; the split
// variants are unaffected. When a module ships only 64-bit libraries the
// module is left untouched, since stripping would leave the shard without
// native code at all.
func Strip64BitLibraries(b *bundle.Bundle) *bundle.Bundle {
	out := b.ShallowCopy()
	for _, m := range out.Modules() {
		var strip []*bundle.ModuleEntry
		has32 := false
		for _, e := range m.Entries() {
			if e.Path.NameCount() < 3 || e.Path.Name(0) != "lib" {
				continue
			}
			if abiDirTo64Bit[e.Path.Name(1)] {
				strip = append(strip, e)
			} else {
				has32 = true
			}
		}
		if len(strip) == 0 || !has32 {
			continue
		}
		nm := m.ShallowCopy()
		for _, e := range strip {
			nm.RemoveEntry(e.Path)
		}
		if nm.NativeLibraries != nil {
			nl := new(bundleproto.NativeLibraries)
			for _, d := range nm.NativeLibraries.Directory {
				if !strings.Contains(d.Path, "64") || !is64BitDirectory(d) {
					nl.Directory = append(nl.Directory, d)
				}
			}
			nm.NativeLibraries = nl
		}
		out.ReplaceModule(nm)
	}
	return out
}

func is64BitDirectory(d *bundleproto.TargetedNativeDirectory) bool {
	if d.Targeting == nil || d.Targeting.Abi == nil {
		return false
	}
	return sixtyFourBitAbis[d.Targeting.Abi.Alias]
}
