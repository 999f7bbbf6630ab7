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

package zip

import (
	"archive/zip"
	"bytes"
	"errors"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, entries []struct {
	name         string
	data         []byte
	uncompressed bool
}) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, e := range entries {
		if err := w.Add(e.name, BytesSource(e.data), e.uncompressed); err != nil {
			t.Fatalf("Add(%q): %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func TestDeterministicOutput(t *testing.T) {
	entries := []struct {
		name         string
		data         []byte
		uncompressed bool
	}{
		{"AndroidManifest.xml", []byte("manifest bytes"), false},
		{"lib/arm64-v8a/libfoo.so", bytes.Repeat([]byte{0x7f, 'E', 'L', 'F'}, 64*1024), true},
		{"assets/data.bin", bytes.Repeat([]byte("payload"), 40*1024), false},
		{"resources.arsc", []byte("arsc"), true},
	}
	first := writeArchive(t, entries)
	for i := 0; i < 3; i++ {
		if got := writeArchive(t, entries); !bytes.Equal(got, first) {
			t.Fatalf("run %d produced different bytes", i+1)
		}
	}
}

func TestEntryOrderAndMethods(t *testing.T) {
	entries := []struct {
		name         string
		data         []byte
		uncompressed bool
	}{
		{"b.txt", []byte("bbbb"), false},
		{"a.txt", []byte("aaaa"), true},
		{"big.bin", bytes.Repeat([]byte{1, 2, 3}, 80*1024), false},
	}
	out := writeArchive(t, entries)
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("got %d entries, want 3", len(zr.File))
	}
	wantOrder := []string{"b.txt", "a.txt", "big.bin"}
	for i, f := range zr.File {
		if f.Name != wantOrder[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, wantOrder[i])
		}
		if !f.Modified.Equal(defaultModTime) {
			t.Errorf("%s: Modified = %v, want %v", f.Name, f.Modified, defaultModTime)
		}
	}
	if zr.File[0].Method != zip.Deflate {
		t.Errorf("b.txt method = %d, want Deflate", zr.File[0].Method)
	}
	if zr.File[1].Method != zip.Store {
		t.Errorf("a.txt method = %d, want Store", zr.File[1].Method)
	}
	if got, want := zr.File[1].CRC32, crc32.ChecksumIEEE([]byte("aaaa")); got != want {
		t.Errorf("a.txt CRC32 = %08x, want %08x", got, want)
	}
	if got, want := zr.File[1].CompressedSize64, uint64(4); got != want {
		t.Errorf("a.txt CompressedSize64 = %d, want %d", got, want)
	}
}

func TestDuplicateEntryRejected(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Add("x", BytesSource("1"), false); err != nil {
		t.Fatal(err)
	}
	if err := w.Add("x", BytesSource("2"), false); err == nil {
		t.Fatal("expected duplicate entry error")
	}
}

func TestDirEntry(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.AddDir("assets"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if got := zr.File[0].Name; got != "assets/" {
		t.Errorf("dir entry name = %q, want %q", got, "assets/")
	}
	if !zr.File[0].FileInfo().IsDir() {
		t.Error("dir entry is not a directory")
	}
}

func TestWriteFileAtomically(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.apk")
	err := WriteFileAtomically(dst, func(w io.Writer) error {
		_, err := w.Write([]byte("archive"))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "archive" {
		t.Errorf("content = %q, want %q", got, "archive")
	}
}

func TestWriteFileAtomicallyRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.apk")
	if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	err := WriteFileAtomically(dst, func(w io.Writer) error { return nil })
	if err == nil {
		t.Fatal("expected error for existing destination")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "old" {
		t.Errorf("existing file was modified: %q", got)
	}
}

func TestWriteFileAtomicallyCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.apk")
	err := WriteFileAtomically(dst, func(w io.Writer) error {
		return errors.New("stage failed")
	})
	if err == nil {
		t.Fatal("expected write error")
	}
	if _, serr := os.Stat(dst); !os.IsNotExist(serr) {
		t.Error("destination exists after failed write")
	}
	left, _ := os.ReadDir(dir)
	if len(left) != 0 {
		t.Errorf("temp files left behind: %v", left)
	}
}
