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
	"strings"

	"android/bundletool/bundle"
	"android/bundletool/targeting"
)

// moduleNameForSplitId is the module's contribution to split ids; the base
// module contributes nothing.
func moduleNameForSplitId(moduleName string) string {
	if moduleName == bundle.BaseModuleName {
		return ""
	}
	return moduleName
}

// SplitId computes the manifest split id for a split whose suffix was
// already allocated.
func SplitId(moduleName, suffix string, isMaster bool) string {
	name := moduleNameForSplitId(moduleName)
	if isMaster {
		return name
	}
	parts := []string{}
	if name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, "config", suffix)
	return strings.Join(parts, ".")
}

// AssignSplitIds allocates suffixes for every split in order and writes the
// resulting split ids into the manifests. Splits must already be sorted for
// the allocation to be deterministic.
func AssignSplitIds(splits []*ModuleSplit, alloc *targeting.SuffixAllocator) {
	for _, s := range splits {
		if s.SplitType == TypeStandalone || s.SplitType == TypeSystem {
			continue
		}
		editor := s.Manifest.Edit()
		if s.IsMaster {
			id := SplitId(s.ModuleName, "", true)
			if id == "" {
				editor.SetSplitId("")
			} else {
				editor.SetSplitIdForFeatureSplit(id)
			}
		} else {
			suffix := alloc.CreateSuffix(s.VariantTargeting, s.Suffix())
			editor.SetSplitId(SplitId(s.ModuleName, suffix, false))
			if parent := moduleNameForSplitId(s.ModuleName); parent != "" {
				editor.SetConfigForSplit(parent)
			}
			editor.SetHasCode(false)
		}
		s.Manifest = editor.Save()
	}
}
