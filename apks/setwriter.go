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
	"fmt"
	"io"
	"sort"

	"android/bundletool/bundleproto"
	"android/bundletool/manifest"
	"android/bundletool/splitter"
	"android/bundletool/targeting"
	"android/bundletool/zip"
)

// TocEntryName is the table-of-contents entry of an APK set.
const TocEntryName = "toc.pb"

// SerializedApk is one finished APK with its location in the set.
type SerializedApk struct {
	Split *splitter.ModuleSplit
	Path  string
	Data  []byte
}

// ApkSetWriter accumulates serialized APKs and emits the set archive with
// its table of contents.
type ApkSetWriter struct {
	packageName string
	bundletool  *bundleproto.Bundletool
	localTesting *bundleproto.LocalTestingInfo
	apks        []*SerializedApk
	usedPaths   map[string]int
}

func NewApkSetWriter(packageName string, bundletool *bundleproto.Bundletool) *ApkSetWriter {
	return &ApkSetWriter{
		packageName: packageName,
		bundletool:  bundletool,
		usedPaths:   make(map[string]int),
	}
}

func (w *ApkSetWriter) SetLocalTesting(path string) {
	w.localTesting = &bundleproto.LocalTestingInfo{Enabled: true, LocalTestingPath: path}
}

// Add registers one serialized split, assigning it a unique path in the set.
func (w *ApkSetWriter) Add(s *splitter.ModuleSplit, data []byte) *SerializedApk {
	path := w.uniquePath(apkPathFor(s))
	apk := &SerializedApk{Split: s, Path: path, Data: data}
	w.apks = append(w.apks, apk)
	return apk
}

func (w *ApkSetWriter) uniquePath(p string) string {
	n := w.usedPaths[p]
	w.usedPaths[p] = n + 1
	if n == 0 {
		return p
	}
	ext := ".apk"
	base := p[:len(p)-len(ext)]
	return fmt.Sprintf("%s_%d%s", base, n+1, ext)
}

func apkPathFor(s *splitter.ModuleSplit) string {
	suffix := s.Suffix()
	switch s.SplitType {
	case splitter.TypeStandalone:
		if suffix == "" {
			return "standalones/standalone.apk"
		}
		return fmt.Sprintf("standalones/standalone-%s.apk", suffix)
	case splitter.TypeAssetSlice:
		if s.IsMaster {
			return fmt.Sprintf("asset-slices/%s-master.apk", s.ModuleName)
		}
		return fmt.Sprintf("asset-slices/%s-%s.apk", s.ModuleName, suffix)
	default:
		if s.IsMaster {
			return fmt.Sprintf("splits/%s-master.apk", s.ModuleName)
		}
		return fmt.Sprintf("splits/%s-%s.apk", s.ModuleName, suffix)
	}
}

func deliveryTypeOf(m *manifest.Manifest) bundleproto.DeliveryType {
	switch m.DeliveryMode() {
	case manifest.NoInitialInstall:
		return bundleproto.DeliveryType_ON_DEMAND
	default:
		return bundleproto.DeliveryType_INSTALL_TIME
	}
}

// Toc assembles the BuildApksResult for everything added so far.
func (w *ApkSetWriter) Toc() *bundleproto.BuildApksResult {
	result := &bundleproto.BuildApksResult{
		PackageName:      w.packageName,
		Bundletool:       w.bundletool,
		LocalTestingInfo: w.localTesting,
	}

	type variantKey struct {
		rank int
		key  string
	}
	variants := make(map[variantKey]*bundleproto.Variant)
	sliceSets := make(map[string]*bundleproto.AssetSliceSet)
	var variantKeys []variantKey
	var sliceNames []string

	for _, apk := range w.apks {
		s := apk.Split
		desc := &bundleproto.ApkDescription{
			Targeting: s.ApkTargeting,
			Path:      apk.Path,
		}
		switch s.SplitType {
		case splitter.TypeStandalone:
			desc.StandaloneApkMetadata = &bundleproto.StandaloneApkMetadata{
				FusedModuleName: fusedNamesOf(s.Manifest),
			}
		default:
			desc.SplitApkMetadata = &bundleproto.SplitApkMetadata{
				SplitId:       s.Manifest.SplitId(),
				IsMasterSplit: s.IsMaster,
			}
		}

		if s.SplitType == splitter.TypeAssetSlice {
			set, ok := sliceSets[s.ModuleName]
			if !ok {
				set = &bundleproto.AssetSliceSet{
					AssetModuleMetadata: &bundleproto.ModuleMetadata{
						Name:         s.ModuleName,
						DeliveryType: deliveryTypeOf(s.Manifest),
					},
				}
				sliceSets[s.ModuleName] = set
				sliceNames = append(sliceNames, s.ModuleName)
			}
			set.ApkDescription = append(set.ApkDescription, desc)
			continue
		}

		vk := variantKey{rankOf(s.SplitType), targeting.VariantKey(s.VariantTargeting)}
		variant, ok := variants[vk]
		if !ok {
			variant = &bundleproto.Variant{Targeting: s.VariantTargeting}
			variants[vk] = variant
			variantKeys = append(variantKeys, vk)
		}
		moduleSet := findModuleSet(variant, s.ModuleName)
		if moduleSet == nil {
			moduleSet = &bundleproto.ApkSet{
				ModuleMetadata: &bundleproto.ModuleMetadata{
					Name:         s.ModuleName,
					DeliveryType: deliveryTypeOf(s.Manifest),
					Targeting:    s.Manifest.DeliveryConditions(),
				},
			}
			variant.ApkSet = append(variant.ApkSet, moduleSet)
		}
		moduleSet.ApkDescription = append(moduleSet.ApkDescription, desc)
	}

	sort.Slice(variantKeys, func(i, j int) bool {
		if variantKeys[i].rank != variantKeys[j].rank {
			return variantKeys[i].rank < variantKeys[j].rank
		}
		return variantKeys[i].key < variantKeys[j].key
	})
	for i, vk := range variantKeys {
		v := variants[vk]
		v.VariantNumber = uint32(i)
		result.Variant = append(result.Variant, v)
	}
	sort.Strings(sliceNames)
	for _, n := range sliceNames {
		result.AssetSliceSet = append(result.AssetSliceSet, sliceSets[n])
	}
	return result
}

func rankOf(t splitter.SplitType) int {
	switch t {
	case splitter.TypeInstant:
		return 0
	case splitter.TypeStandalone:
		return 1
	case splitter.TypeSplit:
		return 2
	case splitter.TypeArchive:
		return 3
	default:
		return 4
	}
}

func findModuleSet(v *bundleproto.Variant, module string) *bundleproto.ApkSet {
	for _, s := range v.ApkSet {
		if s.ModuleMetadata != nil && s.ModuleMetadata.Name == module {
			return s
		}
	}
	return nil
}

func fusedNamesOf(m *manifest.Manifest) []string {
	if v, ok := m.MetadataValue(manifest.FusedModulesMetadataName); ok && v != "" {
		return splitCommaList(v)
	}
	return nil
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// WriteTo emits the APK set archive: the table of contents followed by every
// APK, stored without re-compression since APK payloads are already packed.
func (w *ApkSetWriter) WriteTo(out io.Writer) error {
	zw := zip.NewWriter(out)
	if err := zw.Add(TocEntryName, zip.BytesSource(w.Toc().Marshal()), false); err != nil {
		return err
	}
	for _, apk := range w.apks {
		if err := zw.Add(apk.Path, zip.BytesSource(apk.Data), true); err != nil {
			return err
		}
	}
	return zw.Close()
}
