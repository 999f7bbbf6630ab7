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

package apks

import (
	"io"
	"os"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/preprocess"
	"android/bundletool/sharder"
	"android/bundletool/splitter"
	"android/bundletool/targeting"
	"android/bundletool/zip"
)

// Mode selects the APK set flavor.
type Mode int

const (
	ModeDefault Mode = iota
	// ModeUniversal emits one APK fusing every install-time module.
	ModeUniversal
	// ModeSystem emits shards for system-image preloading.
	ModeSystem
)

// BuildCommand is the bundle→APK-set pipeline with its collaborators.
type BuildCommand struct {
	BundlePath string
	OutputPath string

	Aapt2     *Aapt2Command
	Signer    Signer
	DexMerger sharder.DexMerger

	Mode               Mode
	LocalTestingPath   string
	ObfuscateResources bool
}

// Execute runs the pipeline. On any failure nothing is written; the output
// is staged in a temp file and renamed only on success.
func (c *BuildCommand) Execute() error {
	if c.BundlePath == "" {
		return bterror.InvalidCommandf("no bundle path given")
	}
	if c.OutputPath == "" {
		return bterror.InvalidCommandf("no output path given")
	}

	reader, err := bundle.Open(c.BundlePath)
	if err != nil {
		return err
	}
	defer reader.Close()
	b, err := reader.ReadBundle()
	if err != nil {
		return err
	}

	chain := preprocess.DefaultChain(preprocess.Options{
		LocalTestingPath:   c.LocalTestingPath,
		ObfuscateResources: c.ObfuscateResources,
	})
	if b, err = chain.Preprocess(b); err != nil {
		return err
	}

	splits, err := c.generate(b)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "bundletool")
	if err != nil {
		return bterror.Executionf(err, "creating work directory")
	}
	defer os.RemoveAll(tmpDir)

	packageName := ""
	if base, ok := b.BaseModule(); ok {
		packageName = base.Manifest.PackageName()
	}
	setWriter := NewApkSetWriter(packageName, b.Config.Bundletool)
	if c.LocalTestingPath != "" {
		setWriter.SetLocalTesting(c.LocalTestingPath)
	}

	for _, s := range splits {
		if err := c.signEmbeddedApks(s); err != nil {
			return err
		}
		opts := serializeOptionsFor(s)
		data, err := SerializeApk(s, opts, c.Aapt2, c.Signer, tmpDir)
		if err != nil {
			return err
		}
		setWriter.Add(s, data)
	}

	return zip.WriteFileAtomically(c.OutputPath, func(w io.Writer) error {
		return setWriter.WriteTo(w)
	})
}

// generate produces every split of the APK set in deterministic order.
func (c *BuildCommand) generate(b *bundle.Bundle) ([]*splitter.ModuleSplit, error) {
	plan, err := splitter.PlanVariants(b)
	if err != nil {
		return nil, err
	}
	shardCfg := sharder.ConfigurationFromBundle(b.Config)
	splitCfg := splitter.ConfigFromBundle(b.Config)

	if c.Mode == ModeUniversal {
		universal := &bundleproto.VariantTargeting{}
		shards, err := sharder.CreateShards(b, universal,
			sharder.Configuration{DexMergingStrategy: shardCfg.DexMergingStrategy}, c.DexMerger)
		if err != nil {
			return nil, err
		}
		return shards, nil
	}

	var all []*splitter.ModuleSplit

	if c.Mode == ModeSystem {
		system := &bundleproto.VariantTargeting{}
		shards, err := sharder.CreateShards(b, system, shardCfg, c.DexMerger)
		if err != nil {
			return nil, err
		}
		for _, s := range shards {
			s.SplitType = splitter.TypeSystem
			s.Manifest = s.Manifest.Edit().RemoveSplitName().Save()
		}
		return shards, nil
	}

	if plan.Standalone != nil {
		shards, err := sharder.CreateShards(b, plan.Standalone, shardCfg, c.DexMerger)
		if err != nil {
			return nil, err
		}
		all = append(all, shards...)
	}

	knownModules := make(map[string]bool)
	for _, m := range b.Modules() {
		knownModules[m.Name] = true
	}

	for _, variant := range plan.Splits {
		for _, m := range b.FeatureModules() {
			splits, err := splitter.SplitModule(m, variant, splitCfg)
			if err != nil {
				return nil, err
			}
			for _, s := range splits {
				s.Manifest = s.Manifest.Edit().
					RemoveUnknownSplitComponents(knownModules).
					Save()
			}
			all = append(all, splits...)
		}
	}

	// Asset modules slice once, outside the variant space.
	for _, m := range b.Modules() {
		if m.Type() != manifest.AssetModule {
			continue
		}
		slices, err := splitter.SplitModule(m, &bundleproto.VariantTargeting{}, splitCfg)
		if err != nil {
			return nil, err
		}
		for _, s := range slices {
			s.SplitType = splitter.TypeAssetSlice
		}
		all = append(all, slices...)
	}

	splitter.SortSplits(all)
	splitter.AssignSplitIds(all, targeting.NewSuffixAllocator())
	return all, nil
}

// serializeOptionsFor derives the per-variant compression policy: variants
// at or above the boundary that introduced uncompressed native libraries or
// dex exist only when the feature is on, so the boundary check suffices.
func serializeOptionsFor(s *splitter.ModuleSplit) SerializeOptions {
	minSdk := targeting.MinSdk(s.VariantTargeting)
	return SerializeOptions{
		UncompressedNativeLibs: minSdk >= splitter.AndroidM,
		UncompressedDex:        minSdk >= splitter.AndroidS,
	}
}

// signEmbeddedApks re-signs entries flagged by the embedded-APK marker.
func (c *BuildCommand) signEmbeddedApks(s *splitter.ModuleSplit) error {
	if c.Signer == nil {
		return nil
	}
	for i, e := range s.Entries {
		if !e.ShouldSign {
			continue
		}
		data, err := bundle.ReadSource(e.Source)
		if err != nil {
			return bterror.Executionf(err, "reading embedded APK %s", e.Path)
		}
		signed, err := c.Signer.Sign(data)
		if err != nil {
			return bterror.Executionf(err, "signing embedded APK %s", e.Path)
		}
		ne := bundle.NewEntry(e.Path, bundle.NewBytesSource(signed))
		s.Entries[i] = ne.WithForceUncompressed(e.ForceUncompressed)
	}
	return nil
}
