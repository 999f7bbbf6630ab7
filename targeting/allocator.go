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

package targeting

import (
	"fmt"
	"sync"

	"android/bundletool/bundleproto"
)

// SuffixAllocator hands out split-id suffixes that are unique within a
// variant. It is the only shared mutable state of the pipeline and is safe
// for concurrent use; determinism additionally requires each variant's
// splits to be offered in a stable order.
type SuffixAllocator struct {
	mu   sync.Mutex
	used map[string]map[string]bool
}

func NewSuffixAllocator() *SuffixAllocator {
	return &SuffixAllocator{used: make(map[string]map[string]bool)}
}

// CreateSuffix returns the split's natural suffix if it is unused within the
// variant, otherwise the first free "<suffix>_2", "<suffix>_3", ... The
// returned suffix is recorded as used.
func (a *SuffixAllocator) CreateSuffix(variant *bundleproto.VariantTargeting, suffix string) string {
	key := VariantKey(variant)

	a.mu.Lock()
	defer a.mu.Unlock()
	used := a.used[key]
	if used == nil {
		used = make(map[string]bool)
		a.used[key] = used
	}
	candidate := suffix
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", suffix, i)
	}
	used[candidate] = true
	return candidate
}
