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

package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a bundletool release version as recorded in BundleConfig.
type Version struct {
	Major, Minor, Patch int
}

func ParseVersion(s string) (Version, error) {
	// Pre-release and build suffixes are ignored for gating.
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid bundletool version %q", s)
	}
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, fmt.Errorf("invalid bundletool version %q", s)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Version{}, fmt.Errorf("invalid bundletool version %q", s)
	}
	if v.Patch, err = strconv.Atoi(parts[2]); err != nil {
		return Version{}, fmt.Errorf("invalid bundletool version %q", s)
	}
	return v, nil
}

func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor > o.Minor
	}
	return v.Patch >= o.Patch
}

// namespacedFusingSince is the first version whose manifests declare
// <dist:fusing> with a proper namespace; earlier tools emitted the attribute
// by local name only.
var namespacedFusingSince = Version{Major: 0, Minor: 3, Patch: 4}

// IncludeInFusing resolves <dist:fusing dist:include>. The attribute lookup
// is version-gated: for bundles built at or after 0.3.4 only the dist
// namespace is consulted; older bundles match by local name. Absent fusing
// declarations default to ok=false, letting the caller apply its own policy.
func (m *Manifest) IncludeInFusing(builtWith Version) (include, ok bool) {
	fusing := childElement(m.distModule(), DistributionNamespace, "fusing")
	if fusing == nil {
		return false, false
	}
	if a := attribute(fusing, DistributionNamespace, "include"); a != nil {
		return a.Value == "true", true
	}
	if !builtWith.AtLeast(namespacedFusingSince) {
		if a := attribute(fusing, "", "include"); a != nil {
			return a.Value == "true", true
		}
	}
	return false, false
}
