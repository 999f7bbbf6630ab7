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
	"archive/zip"
	"bytes"
	"io"
	"os"
)

// ByteSource supplies entry contents. Sources may be opened any number of
// times and must return the same bytes each time.
type ByteSource interface {
	Open() (io.ReadCloser, error)
	// SizeIfKnown returns the uncompressed size when it is knowable without
	// reading the contents.
	SizeIfKnown() (int64, bool)
}

type bytesSource struct {
	data []byte
}

// NewBytesSource wraps an in-memory buffer. The buffer must not be mutated
// afterwards.
func NewBytesSource(data []byte) ByteSource {
	return bytesSource{data: data}
}

func (s bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s bytesSource) SizeIfKnown() (int64, bool) {
	return int64(len(s.data)), true
}

type fileSource struct {
	path string
}

// NewFileSource reads contents from a file on each Open.
func NewFileSource(path string) ByteSource {
	return fileSource{path: path}
}

func (s fileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

func (s fileSource) SizeIfKnown() (int64, bool) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return 0, false
	}
	return fi.Size(), true
}

type zipEntrySource struct {
	file *zip.File
}

// NewZipEntrySource reads contents from an entry of an open zip archive. The
// archive must outlive the source.
func NewZipEntrySource(file *zip.File) ByteSource {
	return zipEntrySource{file: file}
}

func (s zipEntrySource) Open() (io.ReadCloser, error) {
	return s.file.Open()
}

func (s zipEntrySource) SizeIfKnown() (int64, bool) {
	return int64(s.file.UncompressedSize64), true
}

// ReadSource reads the full contents of a source.
func ReadSource(src ByteSource) ([]byte, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
