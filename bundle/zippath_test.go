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

package bundle

import (
	"testing"
)

func TestNewZipPath(t *testing.T) {
	valid := []string{"", "a", "a/b/c", "lib/arm64-v8a/libfoo.so", "assets/tex#tcf_astc/x"}
	for _, s := range valid {
		if _, err := NewZipPath(s); err != nil {
			t.Errorf("NewZipPath(%q) = %v, want nil", s, err)
		}
	}
	invalid := []string{"/a", "a/", "a//b", "a/./b", "a/../b", ".", ".."}
	for _, s := range invalid {
		if _, err := NewZipPath(s); err == nil {
			t.Errorf("NewZipPath(%q) succeeded, want error", s)
		}
	}
}

func TestZipPathParentResolveIdentity(t *testing.T) {
	paths := []string{"a", "a/b", "a/b/c", "lib/arm64-v8a/libfoo.so", "dex/classes.dex"}
	for _, s := range paths {
		p := MustZipPath(s)
		if got := p.Parent().Resolve(p.FileName()); got != p {
			t.Errorf("%q: Parent().Resolve(FileName()) = %q", p, got)
		}
	}
}

func TestZipPathOperations(t *testing.T) {
	p := MustZipPath("res/drawable-hdpi/icon.png")
	if got := p.NameCount(); got != 3 {
		t.Errorf("NameCount = %d, want 3", got)
	}
	if got := p.Name(1); got != "drawable-hdpi" {
		t.Errorf("Name(1) = %q", got)
	}
	if !p.StartsWith(MustZipPath("res")) || !p.StartsWith(MustZipPath("res/drawable-hdpi")) {
		t.Error("StartsWith prefix failed")
	}
	if p.StartsWith(MustZipPath("res/drawable")) {
		t.Error("StartsWith matched a partial name")
	}
	if !p.EndsWith(MustZipPath("icon.png")) || !p.EndsWith(MustZipPath("drawable-hdpi/icon.png")) {
		t.Error("EndsWith suffix failed")
	}
	if got := p.Subpath(1, 3).String(); got != "drawable-hdpi/icon.png" {
		t.Errorf("Subpath(1,3) = %q", got)
	}
	if got := p.ResolveSibling("other.png").String(); got != "res/drawable-hdpi/other.png" {
		t.Errorf("ResolveSibling = %q", got)
	}
	if !p.StartsWith(ZipPath{}) {
		t.Error("every path starts with the root")
	}
}

func TestZipPathOrder(t *testing.T) {
	a := MustZipPath("a/b")
	b := MustZipPath("a/c")
	if !a.Less(b) || b.Less(a) {
		t.Error("lexicographic order broken")
	}
}
