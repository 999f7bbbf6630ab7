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

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/restable"
)

// Standard density bucket dpi values.
var densityDpiToAlias = map[uint32]bundleproto.ScreenDensity_DensityAlias{
	120: bundleproto.ScreenDensity_LDPI,
	160: bundleproto.ScreenDensity_MDPI,
	213: bundleproto.ScreenDensity_TVDPI,
	240: bundleproto.ScreenDensity_HDPI,
	320: bundleproto.ScreenDensity_XHDPI,
	480: bundleproto.ScreenDensity_XXHDPI,
	640: bundleproto.ScreenDensity_XXXHDPI,
}

// densitySplitter partitions the resource table and the res/ files it
// references by density bucket. Configs with non-standard dpi values and
// pinned resources stay in the master split.
type densitySplitter struct {
	pinned *restable.Pinned
}

func (d densitySplitter) Split(s *ModuleSplit) ([]*ModuleSplit, error) {
	if s.ResourceTable == nil {
		return []*ModuleSplit{s}, nil
	}

	observed := make(map[bundleproto.ScreenDensity_DensityAlias]bool)
	forEachConfig(s.ResourceTable, func(cfg *bundleproto.Configuration) {
		if alias, ok := densityDpiToAlias[cfg.Density]; ok {
			observed[alias] = true
		}
	})
	if len(observed) == 0 {
		return []*ModuleSplit{s}, nil
	}
	var buckets []bundleproto.ScreenDensity_DensityAlias
	for b := range observed {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	// Per-bucket tables and the file entries they exclusively reference.
	masterTable := restable.FilterTable(s.ResourceTable, d.pinned, true,
		func(cfg *bundleproto.Configuration) bool {
			_, isBucket := densityDpiToAlias[cfg.Density]
			return !isBucket
		})
	masterFiles := restable.ReferencedFiles(masterTable)

	type bucketSplit struct {
		alias bundleproto.ScreenDensity_DensityAlias
		table *bundleproto.ResourceTable
		files map[string]bool
	}
	var perBucket []bucketSplit
	claimed := make(map[string]bundleproto.ScreenDensity_DensityAlias)
	for _, alias := range buckets {
		alias := alias
		table := restable.FilterTable(s.ResourceTable, d.pinned, false,
			func(cfg *bundleproto.Configuration) bool {
				return densityDpiToAlias[cfg.Density] == alias
			})
		files := restable.ReferencedFiles(table)
		for f := range files {
			if masterFiles[f] {
				continue
			}
			if _, taken := claimed[f]; !taken {
				claimed[f] = alias
			} else {
				// Referenced from several buckets; the master carries it.
				delete(claimed, f)
				masterFiles[f] = true
			}
		}
		perBucket = append(perBucket, bucketSplit{alias: alias, table: table, files: files})
	}

	entriesFor := func(want func(path string) bool) []*bundle.ModuleEntry {
		var out []*bundle.ModuleEntry
		for _, e := range s.Entries {
			if want(e.Path.String()) {
				out = append(out, e)
			}
		}
		return out
	}

	master := *s
	master.ResourceTable = masterTable
	master.Entries = entriesFor(func(p string) bool {
		_, taken := claimed[p]
		return !taken
	})
	out := []*ModuleSplit{&master}

	for _, bs := range perBucket {
		bs := bs
		t := &bundleproto.ApkTargeting{
			ScreenDensityTargeting: &bundleproto.ScreenDensityTargeting{
				Value:        []*bundleproto.ScreenDensity{{DensityAlias: bs.alias}},
				Alternatives: otherDensities(buckets, bs.alias),
			},
		}
		split := s.derive(t, entriesFor(func(p string) bool {
			return claimed[p] == bs.alias
		}))
		split.ResourceTable = bs.table
		out = append(out, split)
	}
	return out, nil
}

func otherDensities(all []bundleproto.ScreenDensity_DensityAlias,
	except bundleproto.ScreenDensity_DensityAlias) []*bundleproto.ScreenDensity {
	var out []*bundleproto.ScreenDensity
	for _, a := range all {
		if a != except {
			out = append(out, &bundleproto.ScreenDensity{DensityAlias: a})
		}
	}
	return out
}

func forEachConfig(table *bundleproto.ResourceTable, fn func(*bundleproto.Configuration)) {
	for _, pkg := range table.Package {
		for _, typ := range pkg.Type {
			for _, entry := range typ.Entry {
				for _, cv := range entry.ConfigValue {
					if cv.Config != nil {
						fn(cv.Config)
					}
				}
			}
		}
	}
}
