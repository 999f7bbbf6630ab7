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
	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/restable"
	"android/bundletool/targeting"
)

// Splitter carves config splits off a split with default targeting.
// SplitModule hands a splitter only splits with default targeting and passes
// the others through unchanged. The union of output entries always equals the
// input entries.
type Splitter interface {
	Split(s *ModuleSplit) ([]*ModuleSplit, error)
}

// Config selects the enabled dimensions and policies for a module.
type Config struct {
	ForAbi      bool
	ForDensity  bool
	ForLanguage bool
	ForTexture  bool
	ForTier     bool
	ForCountry  bool

	// StripTextureSuffix removes the "#tcf_<format>" directory suffix from
	// emitted texture split paths.
	StripTextureSuffix   bool
	DefaultTextureSuffix string

	Pinned *restable.Pinned
}

// ConfigFromBundle derives the splitter config from the bundle's
// optimization settings.
func ConfigFromBundle(config *bundleproto.BundleConfig) Config {
	c := Config{}
	if config != nil && config.MasterResources != nil {
		c.Pinned = restable.NewPinned(config.MasterResources)
	}
	var dims []*bundleproto.SplitDimension
	if config != nil && config.Optimizations != nil && config.Optimizations.SplitsConfig != nil {
		dims = config.Optimizations.SplitsConfig.SplitDimension
	}
	if len(dims) == 0 {
		// Default optimizations split by ABI, density and language.
		c.ForAbi = true
		c.ForDensity = true
		c.ForLanguage = true
		return c
	}
	for _, d := range dims {
		enabled := !d.Negate
		switch d.Value {
		case bundleproto.SplitDimension_ABI:
			c.ForAbi = enabled
		case bundleproto.SplitDimension_SCREEN_DENSITY:
			c.ForDensity = enabled
		case bundleproto.SplitDimension_LANGUAGE:
			c.ForLanguage = enabled
		case bundleproto.SplitDimension_TEXTURE_COMPRESSION_FORMAT:
			c.ForTexture = enabled
			if ss := d.SuffixStripping; enabled && ss != nil && ss.Enabled {
				c.StripTextureSuffix = true
				c.DefaultTextureSuffix = ss.DefaultSuffix
			}
		case bundleproto.SplitDimension_DEVICE_TIER:
			c.ForTier = enabled
		case bundleproto.SplitDimension_COUNTRY_SET:
			c.ForCountry = enabled
		}
	}
	return c
}

// splitters composes the per-dimension splitters in the fixed pipeline
// order.
func (c Config) splitters() []Splitter {
	var out []Splitter
	if c.ForAbi {
		out = append(out, abiSplitter{})
	}
	if c.ForDensity {
		out = append(out, densitySplitter{pinned: c.Pinned})
	}
	if c.ForLanguage {
		out = append(out, languageSplitter{pinned: c.Pinned})
	}
	if c.ForTexture {
		out = append(out, newTextureSplitter(c.StripTextureSuffix, c.DefaultTextureSuffix))
	}
	if c.ForTier {
		out = append(out, newTierSplitter())
	}
	if c.ForCountry {
		out = append(out, newCountrySplitter())
	}
	return out
}

// SplitModule runs the full pipeline over one module for one variant. The
// result holds exactly one master split; all targetings are normalized and
// the entry multiset is preserved.
func SplitModule(m *bundle.Module, variant *bundleproto.VariantTargeting, c Config) ([]*ModuleSplit, error) {
	current := []*ModuleSplit{FromModule(m, variant)}
	for _, sp := range c.splitters() {
		var next []*ModuleSplit
		for _, s := range current {
			if !targeting.IsDefault(s.ApkTargeting) {
				next = append(next, s)
				continue
			}
			out, err := sp.Split(s)
			if err != nil {
				return nil, err
			}
			next = append(next, out...)
		}
		current = next
	}

	masters := 0
	for _, s := range current {
		targeting.Normalize(s.ApkTargeting)
		s.SortEntries()
		if s.IsMaster {
			masters++
		}
		if err := s.CheckInvariants(); err != nil {
			return nil, bterror.InvalidBundlef("%v", err)
		}
	}
	if masters != 1 {
		return nil, bterror.InvalidBundlef(
			"module %q produced %d master splits", m.Name, masters)
	}
	return current, nil
}
