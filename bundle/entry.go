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
	"crypto/sha256"
	"io"
	"sync"
)

// ModuleEntry is one file of a module. The struct is treated as immutable;
// derive changed entries with WithPath and friends so the memoized content
// hash stays coherent.
type ModuleEntry struct {
	Path ZipPath
	// ForceUncompressed stores the entry without compression in every APK
	// that carries it.
	ForceUncompressed bool
	// ShouldSign marks embedded APKs that must be re-signed.
	ShouldSign bool
	Source     ByteSource

	hashOnce sync.Once
	hash     [sha256.Size]byte
	hashErr  error
}

func NewEntry(path ZipPath, src ByteSource) *ModuleEntry {
	return &ModuleEntry{Path: path, Source: src}
}

// SHA256 returns the content hash, computed once.
func (e *ModuleEntry) SHA256() ([sha256.Size]byte, error) {
	e.hashOnce.Do(func() {
		r, err := e.Source.Open()
		if err != nil {
			e.hashErr = err
			return
		}
		defer r.Close()
		h := sha256.New()
		if _, err := io.Copy(h, r); err != nil {
			e.hashErr = err
			return
		}
		copy(e.hash[:], h.Sum(nil))
	})
	return e.hash, e.hashErr
}

// Equal reports path, flag and content equality. Content is compared by
// SHA-256; hash errors compare unequal.
func (e *ModuleEntry) Equal(other *ModuleEntry) bool {
	if e.Path != other.Path ||
		e.ForceUncompressed != other.ForceUncompressed ||
		e.ShouldSign != other.ShouldSign {
		return false
	}
	h1, err1 := e.SHA256()
	h2, err2 := other.SHA256()
	return err1 == nil && err2 == nil && h1 == h2
}

// WithPath returns a copy of e under a different path, sharing the source.
func (e *ModuleEntry) WithPath(path ZipPath) *ModuleEntry {
	n := &ModuleEntry{
		Path:              path,
		ForceUncompressed: e.ForceUncompressed,
		ShouldSign:        e.ShouldSign,
		Source:            e.Source,
	}
	return n
}

// WithForceUncompressed returns a copy of e with the compression flag set.
func (e *ModuleEntry) WithForceUncompressed(v bool) *ModuleEntry {
	n := e.WithPath(e.Path)
	n.ForceUncompressed = v
	return n
}

// WithShouldSign returns a copy of e with the signing flag set.
func (e *ModuleEntry) WithShouldSign(v bool) *ModuleEntry {
	n := e.WithPath(e.Path)
	n.ShouldSign = v
	return n
}
