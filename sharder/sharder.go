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

// Package sharder fuses modules and their splits into standalone archives
// for devices without split-APK support.
package sharder

import (
	"fmt"
	"sort"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/preprocess"
	"android/bundletool/splitter"
	"android/bundletool/targeting"
)

// DexMergingStrategy controls when feature dex files are merged into one.
type DexMergingStrategy int

const (
	MergeIfNeeded DexMergingStrategy = iota
	NeverMerge
)

// DexMerger merges dex files with an external tool.
type DexMerger interface {
	MergeDex(dexes [][]byte) ([][]byte, error)
}

// Configuration selects the sharding dimensions and policies.
type Configuration struct {
	ShardByAbi     bool
	ShardByDensity bool
	// Strip64BitLibraries removes 64-bit native code from the shards.
	Strip64BitLibraries bool
	DexMergingStrategy  DexMergingStrategy
}

// ConfigurationFromBundle derives the sharder configuration from the
// standalone config, defaulting to ABI and density sharding.
func ConfigurationFromBundle(config *bundleproto.BundleConfig) Configuration {
	c := Configuration{ShardByAbi: true, ShardByDensity: true}
	var sc *bundleproto.StandaloneConfig
	if config != nil && config.Optimizations != nil {
		sc = config.Optimizations.StandaloneConfig
	}
	if sc == nil {
		return c
	}
	if len(sc.SplitDimension) > 0 {
		c.ShardByAbi = false
		c.ShardByDensity = false
		for _, d := range sc.SplitDimension {
			switch d.Value {
			case bundleproto.SplitDimension_ABI:
				c.ShardByAbi = !d.Negate
			case bundleproto.SplitDimension_SCREEN_DENSITY:
				c.ShardByDensity = !d.Negate
			}
		}
	}
	c.Strip64BitLibraries = sc.Strip64BitLibraries
	if sc.DexMergingStrategy == bundleproto.StandaloneConfig_NEVER_MERGE {
		c.DexMergingStrategy = NeverMerge
	}
	return c
}

// CreateShards builds the standalone splits for one variant: one shard per
// element of the cross-product of the sharding dimension values observed in
// the bundle.
func CreateShards(b *bundle.Bundle, variant *bundleproto.VariantTargeting,
	cfg Configuration, merger DexMerger) ([]*splitter.ModuleSplit, error) {

	if cfg.Strip64BitLibraries {
		b = preprocess.Strip64BitLibraries(b)
	}

	modules := fusedModules(b)
	if len(modules) == 0 {
		return nil, bterror.InvalidBundlef("no modules eligible for fusing into standalone APKs")
	}

	// Split every module along the shard dimensions only.
	splitCfg := splitter.Config{ForAbi: cfg.ShardByAbi, ForDensity: cfg.ShardByDensity}
	perModule := make([][]*splitter.ModuleSplit, len(modules))
	for i, m := range modules {
		splits, err := splitter.SplitModule(m, variant, splitCfg)
		if err != nil {
			return nil, err
		}
		perModule[i] = splits
	}

	abis := observedAbiValues(perModule)
	densities := observedDensityValues(perModule)

	var shards []*splitter.ModuleSplit
	for _, abi := range abis {
		for _, density := range densities {
			shard, err := buildShard(b, modules, perModule, variant, abi, density, merger, cfg)
			if err != nil {
				return nil, err
			}
			shards = append(shards, shard)
		}
	}
	splitter.SortSplits(shards)
	return shards, nil
}

// fusedModules returns the modules fused into shards: the base plus every
// feature module whose fusing declaration (or install-time delivery, for
// legacy bundles without one) includes it.
func fusedModules(b *bundle.Bundle) []*bundle.Module {
	version, verr := b.Version()
	var out []*bundle.Module
	for _, m := range b.FeatureModules() {
		if m.IsBase() {
			out = append(out, m)
			continue
		}
		if verr == nil {
			if include, declared := m.Manifest.IncludeInFusing(version); declared {
				if include {
					out = append(out, m)
				}
				continue
			}
		}
		if m.Delivery() != manifest.NoInitialInstall {
			out = append(out, m)
		}
	}
	return out
}

// The nil element represents "dimension not observed".
func observedAbiValues(perModule [][]*splitter.ModuleSplit) []*bundleproto.AbiTargeting {
	seen := make(map[string]*bundleproto.AbiTargeting)
	var keys []string
	for _, splits := range perModule {
		for _, s := range splits {
			if s.ApkTargeting == nil || s.ApkTargeting.AbiTargeting == nil {
				continue
			}
			k := targeting.Key(s.ApkTargeting)
			if _, ok := seen[k]; !ok {
				seen[k] = s.ApkTargeting.AbiTargeting
				keys = append(keys, k)
			}
		}
	}
	if len(keys) == 0 {
		return []*bundleproto.AbiTargeting{nil}
	}
	sort.Strings(keys)
	out := make([]*bundleproto.AbiTargeting, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

func observedDensityValues(perModule [][]*splitter.ModuleSplit) []*bundleproto.ScreenDensityTargeting {
	seen := make(map[string]*bundleproto.ScreenDensityTargeting)
	var keys []string
	for _, splits := range perModule {
		for _, s := range splits {
			if s.ApkTargeting == nil || s.ApkTargeting.ScreenDensityTargeting == nil {
				continue
			}
			k := targeting.Key(s.ApkTargeting)
			if _, ok := seen[k]; !ok {
				seen[k] = s.ApkTargeting.ScreenDensityTargeting
				keys = append(keys, k)
			}
		}
	}
	if len(keys) == 0 {
		return []*bundleproto.ScreenDensityTargeting{nil}
	}
	sort.Strings(keys)
	out := make([]*bundleproto.ScreenDensityTargeting, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

func buildShard(b *bundle.Bundle, modules []*bundle.Module, perModule [][]*splitter.ModuleSplit,
	variant *bundleproto.VariantTargeting, abi *bundleproto.AbiTargeting,
	density *bundleproto.ScreenDensityTargeting, merger DexMerger, cfg Configuration) (*splitter.ModuleSplit, error) {

	shardTargeting := new(bundleproto.ApkTargeting)
	var entries []*bundle.ModuleEntry
	seenPaths := make(map[string]string)       // path -> module that contributed it
	assetDirs := make(map[string]string)       // asset dir -> marshaled targeting
	var dexEntries []*bundle.ModuleEntry
	var fusedNames []string
	var resourceTables []*bundleproto.ResourceTable

	base, _ := b.BaseModule()

	for i, m := range modules {
		fusedNames = append(fusedNames, m.Name)
		var hasAbiSplits, selectedAbi, hasDensitySplits, selectedDensity bool
		for _, s := range perModule[i] {
			if t := s.ApkTargeting; t != nil {
				if t.AbiTargeting != nil {
					hasAbiSplits = true
				}
				if t.ScreenDensityTargeting != nil {
					hasDensitySplits = true
				}
			}
			if !shardSelects(s, abi, density) {
				continue
			}
			if t := s.ApkTargeting; t != nil {
				if t.AbiTargeting != nil {
					selectedAbi = true
				}
				if t.ScreenDensityTargeting != nil {
					selectedDensity = true
				}
			}
			merged, err := targeting.Merge(shardTargeting, s.ApkTargeting)
			if err != nil {
				return nil, err
			}
			shardTargeting = merged
			if s.ResourceTable != nil {
				resourceTables = append(resourceTables, s.ResourceTable)
			}
			if s.Assets != nil {
				for _, d := range s.Assets.Directory {
					key := ""
					if d.Targeting != nil {
						key = string(d.Targeting.Marshal())
					}
					if prev, dup := assetDirs[d.Path]; dup && prev != key {
						return nil, bterror.InvalidBundlef(
							"modules declare assets directory %q with conflicting targeting", d.Path)
					}
					assetDirs[d.Path] = key
				}
			}
			for _, e := range s.Entries {
				if e.Path.StartsWith(bundle.DexDirectory) {
					dexEntries = append(dexEntries, e)
					continue
				}
				p := e.Path.String()
				if from, dup := seenPaths[p]; dup {
					return nil, bterror.InvalidBundlef(
						"modules %q and %q both contribute entry %q to a standalone APK",
						from, m.Name, p)
				}
				seenPaths[p] = m.Name
				entries = append(entries, e)
			}
		}
		// A module with dimension splits that match no shard value was split
		// against a different partition of the axis.
		if hasAbiSplits && abi != nil && !selectedAbi {
			return nil, conflictingPartition(m.Name, "ABI")
		}
		if hasDensitySplits && density != nil && !selectedDensity {
			return nil, conflictingPartition(m.Name, "screen density")
		}
	}

	dexOut, err := fuseDexEntries(base, modules, dexEntries, merger, cfg)
	if err != nil {
		return nil, err
	}
	entries = append(entries, dexOut...)

	// Variant targeting of a standalone shard carries the shard dimensions.
	shardVariant := new(bundleproto.VariantTargeting)
	if err := shardVariant.Unmarshal(variant.Marshal()); err != nil {
		panic(err)
	}
	shardVariant.AbiTargeting = shardTargeting.AbiTargeting
	shardVariant.ScreenDensityTargeting = shardTargeting.ScreenDensityTargeting
	targeting.NormalizeVariant(shardVariant)

	sdkTargeting := variant.SdkVersionTargeting
	shardTargeting.SdkVersionTargeting = sdkTargeting
	targeting.Normalize(shardTargeting)

	fusedManifest := base.Manifest.Edit().
		SetFusedModuleNames(fusedNames).
		Save()

	shard := &splitter.ModuleSplit{
		ModuleName:       bundle.BaseModuleName,
		SplitType:        splitter.TypeStandalone,
		IsMaster:         true,
		ApkTargeting:     shardTargeting,
		VariantTargeting: shardVariant,
		Manifest:         fusedManifest,
		ResourceTable:    mergeResourceTables(resourceTables),
		Entries:          entries,
	}
	shard.SortEntries()
	return shard, nil
}

func conflictingPartition(module, dimension string) error {
	return bterror.InvalidBundlef(
		"module %q partitions %s differently from its sibling modules", module, dimension)
}

// shardSelects reports whether a per-module split belongs to the shard with
// the given dimension values: the master always does, dimension splits only
// when their value matches.
func shardSelects(s *splitter.ModuleSplit, abi *bundleproto.AbiTargeting,
	density *bundleproto.ScreenDensityTargeting) bool {
	t := s.ApkTargeting
	if targeting.IsDefault(t) {
		return true
	}
	if t.AbiTargeting != nil {
		return abi != nil && sameTargetingKey(
			&bundleproto.ApkTargeting{AbiTargeting: t.AbiTargeting},
			&bundleproto.ApkTargeting{AbiTargeting: abi})
	}
	if t.ScreenDensityTargeting != nil {
		return density != nil && sameTargetingKey(
			&bundleproto.ApkTargeting{ScreenDensityTargeting: t.ScreenDensityTargeting},
			&bundleproto.ApkTargeting{ScreenDensityTargeting: density})
	}
	return true
}

func sameTargetingKey(a, b *bundleproto.ApkTargeting) bool {
	return targeting.Key(a) == targeting.Key(b)
}

// fuseDexEntries combines the dex files of all fused modules. When the base
// targets pre-L devices and more than one module has dex files, the
// merge-if-needed strategy hands all files to the external merger. Otherwise
// every dex file, taken in path order, is renumbered into consecutive
// classes.dex, classes2.dex, ... names.
func fuseDexEntries(base *bundle.Module, modules []*bundle.Module,
	dexEntries []*bundle.ModuleEntry, merger DexMerger, cfg Configuration) ([]*bundle.ModuleEntry, error) {

	if len(dexEntries) == 0 {
		return nil, nil
	}
	sort.Slice(dexEntries, func(i, j int) bool { return dexEntries[i].Path.Less(dexEntries[j].Path) })

	featureModulesWithDex := 0
	for _, m := range modules {
		if len(m.EntriesUnder(bundle.DexDirectory)) > 0 {
			featureModulesWithDex++
		}
	}
	minSdk := base.Manifest.MinSdkVersion()
	needsMerge := minSdk < splitter.AndroidL && featureModulesWithDex > 1

	if needsMerge && cfg.DexMergingStrategy == MergeIfNeeded {
		if merger == nil {
			return nil, bterror.InvalidCommandf(
				"merging dex files of %d modules requires a dex merger", featureModulesWithDex)
		}
		var dexes [][]byte
		for _, e := range dexEntries {
			data, err := bundle.ReadSource(e.Source)
			if err != nil {
				return nil, bterror.Executionf(err, "reading dex file %s", e.Path)
			}
			dexes = append(dexes, data)
		}
		mergedDexes, err := merger.MergeDex(dexes)
		if err != nil {
			return nil, bterror.Executionf(err, "dex merging failed")
		}
		var out []*bundle.ModuleEntry
		for i, data := range mergedDexes {
			out = append(out, bundle.NewEntry(dexName(i), bundle.NewBytesSource(data)))
		}
		return out, nil
	}

	// Renumber into consecutive classes.dex, classes2.dex, ...
	var out []*bundle.ModuleEntry
	for i, e := range dexEntries {
		out = append(out, e.WithPath(dexName(i)))
	}
	return out, nil
}

func dexName(i int) bundle.ZipPath {
	if i == 0 {
		return bundle.DexDirectory.Resolve("classes.dex")
	}
	return bundle.DexDirectory.Resolve(fmt.Sprintf("classes%d.dex", i+1))
}

// mergeResourceTables concatenates the per-module tables; entries keep their
// original ids since feature resources are namespaced by package id.
func mergeResourceTables(tables []*bundleproto.ResourceTable) *bundleproto.ResourceTable {
	if len(tables) == 0 {
		return nil
	}
	out := &bundleproto.ResourceTable{SourcePool: tables[0].SourcePool}
	for _, t := range tables {
		out.Package = append(out.Package, t.Package...)
	}
	return out
}
