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
	"fmt"
	"strings"
)

// ZipPath is a normalized, '/'-separated archive path. The zero value is the
// root (empty) path. ZipPath is a value type; == compares structurally.
type ZipPath struct {
	path string
}

// NewZipPath validates and normalizes s. Empty names, ".", ".." and names
// containing '/' are rejected ("a//b", "a/./b", a trailing slash).
func NewZipPath(s string) (ZipPath, error) {
	if s == "" {
		return ZipPath{}, nil
	}
	for _, name := range strings.Split(s, "/") {
		if err := checkName(name); err != nil {
			return ZipPath{}, fmt.Errorf("invalid zip path %q: %w", s, err)
		}
	}
	return ZipPath{path: s}, nil
}

// MustZipPath is NewZipPath for static paths; it panics on invalid input.
func MustZipPath(s string) ZipPath {
	p, err := NewZipPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func checkName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("empty name")
	case ".", "..":
		return fmt.Errorf("name %q is not allowed", name)
	}
	return nil
}

func (p ZipPath) String() string {
	return p.path
}

func (p ZipPath) IsRoot() bool {
	return p.path == ""
}

func (p ZipPath) Names() []string {
	if p.path == "" {
		return nil
	}
	return strings.Split(p.path, "/")
}

func (p ZipPath) NameCount() int {
	if p.path == "" {
		return 0
	}
	return strings.Count(p.path, "/") + 1
}

// Resolve appends other (a valid relative path) to p.
func (p ZipPath) Resolve(other string) ZipPath {
	o := MustZipPath(other)
	if p.path == "" {
		return o
	}
	if o.path == "" {
		return p
	}
	return ZipPath{path: p.path + "/" + o.path}
}

// ResolveSibling replaces the last name of p with other.
func (p ZipPath) ResolveSibling(other string) ZipPath {
	if p.path == "" {
		panic("cannot resolve sibling of the root path")
	}
	return p.Parent().Resolve(other)
}

// Parent returns the path without its last name; the parent of a single name
// is the root.
func (p ZipPath) Parent() ZipPath {
	if p.path == "" {
		panic("root path has no parent")
	}
	i := strings.LastIndexByte(p.path, '/')
	if i < 0 {
		return ZipPath{}
	}
	return ZipPath{path: p.path[:i]}
}

// FileName returns the last name of p.
func (p ZipPath) FileName() string {
	if p.path == "" {
		panic("root path has no file name")
	}
	i := strings.LastIndexByte(p.path, '/')
	return p.path[i+1:]
}

// StartsWith reports whether prefix is a name-wise prefix of p.
func (p ZipPath) StartsWith(prefix ZipPath) bool {
	if prefix.path == "" {
		return true
	}
	if p.path == prefix.path {
		return true
	}
	return strings.HasPrefix(p.path, prefix.path+"/")
}

// EndsWith reports whether suffix is a name-wise suffix of p.
func (p ZipPath) EndsWith(suffix ZipPath) bool {
	if suffix.path == "" {
		return true
	}
	if p.path == suffix.path {
		return true
	}
	return strings.HasSuffix(p.path, "/"+suffix.path)
}

// Subpath returns the names in [begin, end).
func (p ZipPath) Subpath(begin, end int) ZipPath {
	names := p.Names()
	if begin < 0 || end > len(names) || begin > end {
		panic(fmt.Sprintf("subpath [%d, %d) out of range for %q", begin, end, p.path))
	}
	return ZipPath{path: strings.Join(names[begin:end], "/")}
}

// Name returns the i-th name of p.
func (p ZipPath) Name(i int) string {
	return p.Names()[i]
}

// Less orders paths by comparing their '/'-joined string forms byte by byte.
// This differs from name-by-name order when a name contains a byte that sorts
// below '/', such as '-' or '.'.
func (p ZipPath) Less(other ZipPath) bool {
	return p.path < other.path
}
