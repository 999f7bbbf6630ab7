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

// Package splitter partitions module content along targeting dimensions and
// plans the output variants.
package splitter

import (
	"fmt"
	"sort"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/targeting"
)

// SplitType classifies an output APK.
type SplitType int

const (
	TypeSplit SplitType = iota
	TypeStandalone
	TypeInstant
	TypeArchive
	TypeAssetSlice
	TypeSystem
)

func (t SplitType) String() string {
	switch t {
	case TypeStandalone:
		return "standalone"
	case TypeInstant:
		return "instant"
	case TypeArchive:
		return "archive"
	case TypeAssetSlice:
		return "asset-slice"
	case TypeSystem:
		return "system"
	default:
		return "split"
	}
}

// variantRank orders variants: instant < standalone < split < archive <
// system.
func variantRank(t SplitType) int {
	switch t {
	case TypeInstant:
		return 0
	case TypeStandalone:
		return 1
	case TypeSplit, TypeAssetSlice:
		return 2
	case TypeArchive:
		return 3
	default:
		return 4
	}
}

// ModuleSplit is one output unit: a subset of a module with the targeting
// that selects it within its variant.
type ModuleSplit struct {
	ModuleName string
	SplitType  SplitType
	IsMaster   bool

	ApkTargeting     *bundleproto.ApkTargeting
	VariantTargeting *bundleproto.VariantTargeting

	Manifest        *manifest.Manifest
	ResourceTable   *bundleproto.ResourceTable
	Assets          *bundleproto.Assets
	NativeLibraries *bundleproto.NativeLibraries
	ApexImages      *bundleproto.ApexImages

	Entries []*bundle.ModuleEntry

	// SuffixOverride replaces the derived suffix, used by the suffix
	// stripping policy. Empty means derive from targeting.
	SuffixOverride string
	hasSuffixOverride bool
}

// FromModule seeds the split pipeline with the whole module as one master
// split carrying the default targeting.
func FromModule(m *bundle.Module, variant *bundleproto.VariantTargeting) *ModuleSplit {
	return &ModuleSplit{
		ModuleName:       m.Name,
		SplitType:        TypeSplit,
		IsMaster:         true,
		ApkTargeting:     new(bundleproto.ApkTargeting),
		VariantTargeting: variant,
		Manifest:         m.Manifest,
		ResourceTable:    m.ResourceTable,
		Assets:           m.Assets,
		NativeLibraries:  m.NativeLibraries,
		ApexImages:       m.ApexImages,
		Entries:          m.Entries(),
	}
}

// derive copies s with fresh targeting and entries, not a master.
func (s *ModuleSplit) derive(t *bundleproto.ApkTargeting, entries []*bundle.ModuleEntry) *ModuleSplit {
	n := *s
	n.IsMaster = false
	n.ApkTargeting = t
	n.Entries = entries
	n.ResourceTable = nil
	n.Assets = nil
	n.NativeLibraries = nil
	return &n
}

// SetSuffixOverride pins the split-id suffix, e.g. after suffix stripping.
func (s *ModuleSplit) SetSuffixOverride(suffix string) {
	s.SuffixOverride = suffix
	s.hasSuffixOverride = true
}

// Suffix returns the split-id suffix for this split.
func (s *ModuleSplit) Suffix() string {
	if s.hasSuffixOverride {
		return s.SuffixOverride
	}
	return targeting.Suffix(s.ApkTargeting)
}

// SortEntries orders entries by path for deterministic serialization.
func (s *ModuleSplit) SortEntries() {
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].Path.Less(s.Entries[j].Path) })
}

// CheckInvariants verifies the split invariants: unique entry paths, and for
// non-system masters no ABI, multi-ABI, screen density, language, device tier
// or country set targeting. It does not check that targeting is normalized.
func (s *ModuleSplit) CheckInvariants() error {
	seen := make(map[string]bool)
	for _, e := range s.Entries {
		p := e.Path.String()
		if seen[p] {
			return fmt.Errorf("split %s: duplicate entry %s", s.ModuleName, p)
		}
		seen[p] = true
	}
	if s.IsMaster && s.SplitType != TypeSystem {
		t := s.ApkTargeting
		if t != nil && (t.AbiTargeting != nil || t.MultiAbiTargeting != nil ||
			t.ScreenDensityTargeting != nil || t.LanguageTargeting != nil ||
			t.DeviceTierTargeting != nil || t.CountrySetTargeting != nil) {
			return fmt.Errorf("split %s: master split carries config targeting", s.ModuleName)
		}
	}
	return nil
}

// SortSplits orders splits deterministically: variant rank, variant
// targeting, module name, master first, then apk targeting.
func SortSplits(splits []*ModuleSplit) {
	sort.SliceStable(splits, func(i, j int) bool {
		a, b := splits[i], splits[j]
		if ra, rb := variantRank(a.SplitType), variantRank(b.SplitType); ra != rb {
			return ra < rb
		}
		if ka, kb := targeting.VariantKey(a.VariantTargeting), targeting.VariantKey(b.VariantTargeting); ka != kb {
			if ma, mb := targeting.MinSdk(a.VariantTargeting), targeting.MinSdk(b.VariantTargeting); ma != mb {
				return ma < mb
			}
			return ka < kb
		}
		if a.ModuleName != b.ModuleName {
			return a.ModuleName < b.ModuleName
		}
		if a.IsMaster != b.IsMaster {
			return a.IsMaster
		}
		return targeting.Key(a.ApkTargeting) < targeting.Key(b.ApkTargeting)
	})
}
