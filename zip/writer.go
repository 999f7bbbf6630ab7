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

// Package zip writes deterministic zip archives. Given the same entries in
// the same order the output bytes are identical: every entry carries the zip
// epoch timestamp, entries appear in submission order, and stored entries
// carry explicit CRC-32 and sizes. Entries above a size threshold are
// deflated on a bounded worker pool; the writer joins the compression
// results in submission order so parallelism never reorders the archive.
package zip

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Entries smaller than this are deflated inline on the caller's goroutine.
const parallelCompressionThreshold = 100 * 1024

// The zip epoch, the earliest date the DOS date and time fields can hold.
var defaultModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Source supplies the contents of one entry. It may be opened any number of
// times.
type Source interface {
	Open() (io.ReadCloser, error)
}

// BytesSource adapts an in-memory buffer to Source.
type BytesSource []byte

func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

type compressed struct {
	data  []byte // deflated payload, or raw payload when method is Store
	crc32 uint32
	size  uint64
	err   error
}

type pendingEntry struct {
	name   string
	method uint16
	result chan compressed
}

// Writer writes one deterministic archive. Not safe for concurrent use; the
// parallelism is internal.
type Writer struct {
	zw      *zip.Writer
	names   map[string]bool
	pending []pendingEntry
	// slots bounds concurrent compressions; acquiring blocks, which is the
	// only backpressure submission has.
	slots chan struct{}
	level int
}

// NewWriter returns a Writer emitting to w at the default compression level.
func NewWriter(w io.Writer) *Writer {
	return NewWriterLevel(w, flate.DefaultCompression)
}

func NewWriterLevel(w io.Writer, level int) *Writer {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return &Writer{
		zw:    zip.NewWriter(w),
		names: make(map[string]bool),
		slots: make(chan struct{}, n),
		level: level,
	}
}

// Add submits one entry. Entries are written to the archive in Add order
// regardless of how compression is scheduled. A duplicate name is an error.
func (w *Writer) Add(name string, src Source, uncompressed bool) error {
	if w.names[name] {
		return fmt.Errorf("duplicate zip entry %q", name)
	}
	w.names[name] = true

	data, err := readAll(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	method := uint16(zip.Deflate)
	if uncompressed {
		method = zip.Store
	}
	p := pendingEntry{name: name, method: method, result: make(chan compressed, 1)}
	w.pending = append(w.pending, p)

	if uncompressed || len(data) < parallelCompressionThreshold {
		p.result <- compressEntry(data, method, w.level)
		return nil
	}
	w.slots <- struct{}{}
	go func() {
		defer func() { <-w.slots }()
		p.result <- compressEntry(data, method, w.level)
	}()
	return nil
}

// AddDir adds a directory entry (trailing slash, empty contents).
func (w *Writer) AddDir(name string) error {
	if name == "" || name[len(name)-1] != '/' {
		name += "/"
	}
	if w.names[name] {
		return fmt.Errorf("duplicate zip entry %q", name)
	}
	w.names[name] = true
	p := pendingEntry{name: name, method: zip.Store, result: make(chan compressed, 1)}
	p.result <- compressed{crc32: crc32.ChecksumIEEE(nil)}
	w.pending = append(w.pending, p)
	return nil
}

// Close flushes every pending entry in submission order and finishes the
// central directory.
func (w *Writer) Close() error {
	for _, p := range w.pending {
		c := <-p.result
		if c.err != nil {
			return fmt.Errorf("%s: %w", p.name, c.err)
		}
		fh := &zip.FileHeader{
			Name:               p.name,
			Method:             p.method,
			CRC32:              c.crc32,
			CompressedSize64:   uint64(len(c.data)),
			UncompressedSize64: c.size,
			Modified:           defaultModTime,
		}
		// CreateRaw writes the header as given and does not derive the DOS
		// date and time fields from Modified.
		fh.SetModTime(defaultModTime)
		ew, err := w.zw.CreateRaw(fh)
		if err != nil {
			return err
		}
		if _, err := ew.Write(c.data); err != nil {
			return err
		}
	}
	w.pending = nil
	return w.zw.Close()
}

func compressEntry(data []byte, method uint16, level int) compressed {
	c := compressed{
		crc32: crc32.ChecksumIEEE(data),
		size:  uint64(len(data)),
	}
	if method == zip.Store {
		c.data = data
		return c
	}
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, level)
	if err != nil {
		c.err = err
		return c
	}
	if _, err := fw.Write(data); err != nil {
		c.err = err
		return c
	}
	if err := fw.Close(); err != nil {
		c.err = err
		return c
	}
	c.data = buf.Bytes()
	return c
}

func readAll(src Source) ([]byte, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFileAtomically stages the archive produced by write in a temp file
// next to dst and renames it into place on success. dst must not already
// exist; the temp file is removed on every failure path.
func WriteFileAtomically(dst string, write func(w io.Writer) error) (err error) {
	if _, serr := os.Lstat(dst); serr == nil {
		return fmt.Errorf("%s: output file already exists", dst)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
