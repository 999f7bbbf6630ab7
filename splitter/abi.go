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

package splitter

import (
	"sort"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
)

var libDirectory = bundle.MustZipPath("lib")

// AbiDirectoryNames maps lib/ subdirectory names to ABI aliases.
var AbiDirectoryNames = map[string]bundleproto.Abi_AbiAlias{
	"armeabi":     bundleproto.Abi_ARMEABI,
	"armeabi-v7a": bundleproto.Abi_ARMEABI_V7A,
	"arm64-v8a":   bundleproto.Abi_ARM64_V8A,
	"x86":         bundleproto.Abi_X86,
	"x86_64":      bundleproto.Abi_X86_64,
	"mips":        bundleproto.Abi_MIPS,
	"mips64":      bundleproto.Abi_MIPS64,
	"riscv64":     bundleproto.Abi_RISCV64,
}

// AbiToDirectoryName is the inverse of AbiDirectoryNames.
var AbiToDirectoryName = func() map[bundleproto.Abi_AbiAlias]string {
	m := make(map[bundleproto.Abi_AbiAlias]string, len(AbiDirectoryNames))
	for name, alias := range AbiDirectoryNames {
		m[alias] = name
	}
	return m
}()

// abiSplitter partitions lib/<abi>/... entries into one split per ABI.
type abiSplitter struct{}

func (abiSplitter) Split(s *ModuleSplit) ([]*ModuleSplit, error) {
	byAbi := make(map[bundleproto.Abi_AbiAlias][]*bundle.ModuleEntry)
	var abis []bundleproto.Abi_AbiAlias
	var masterEntries []*bundle.ModuleEntry

	for _, e := range s.Entries {
		if !e.Path.StartsWith(libDirectory) || e.Path.NameCount() < 3 {
			masterEntries = append(masterEntries, e)
			continue
		}
		dir := e.Path.Name(1)
		alias, ok := AbiDirectoryNames[dir]
		if !ok {
			return nil, bterror.InvalidBundlef(
				"module %q contains a library directory for an unrecognized ABI %q",
				s.ModuleName, dir)
		}
		if _, seen := byAbi[alias]; !seen {
			abis = append(abis, alias)
		}
		byAbi[alias] = append(byAbi[alias], e)
	}
	if len(byAbi) == 0 {
		return []*ModuleSplit{s}, nil
	}
	sort.Slice(abis, func(i, j int) bool { return abis[i] < abis[j] })

	master := *s
	master.Entries = masterEntries
	out := []*ModuleSplit{&master}

	for _, alias := range abis {
		t := &bundleproto.ApkTargeting{
			AbiTargeting: &bundleproto.AbiTargeting{
				Value:        []*bundleproto.Abi{{Alias: alias}},
				Alternatives: otherAbis(abis, alias),
			},
		}
		out = append(out, s.derive(t, byAbi[alias]))
	}
	return out, nil
}

func otherAbis(all []bundleproto.Abi_AbiAlias, except bundleproto.Abi_AbiAlias) []*bundleproto.Abi {
	var out []*bundleproto.Abi
	for _, a := range all {
		if a != except {
			out = append(out, &bundleproto.Abi{Alias: a})
		}
	}
	return out
}
