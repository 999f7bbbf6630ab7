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

// Package apks serializes module splits into APK files and assembles the
// final APK set with its table of contents.
package apks

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"android/bundletool/bterror"
	"android/bundletool/bundle"
	"android/bundletool/splitter"
	"android/bundletool/zip"
)

// Signer signs serialized APK bytes. Implementations wrap an external
// signing library; the pipeline only routes bytes through it.
type Signer interface {
	Sign(apk []byte) ([]byte, error)
}

// SerializeOptions carries the per-variant compression policy.
type SerializeOptions struct {
	// UncompressedNativeLibs stores lib/**.so entries uncompressed; set for
	// variants at or above the level that reads libraries in place.
	UncompressedNativeLibs bool
	// UncompressedDex stores dex entries uncompressed.
	UncompressedDex bool
}

// apkEntryName maps a module entry path to its location inside the APK:
// dex/ files move to the APK root, root/ contents shed the prefix, and
// everything else keeps its path.
func apkEntryName(p bundle.ZipPath) string {
	s := p.String()
	switch {
	case strings.HasPrefix(s, "dex/"):
		return s[len("dex/"):]
	case strings.HasPrefix(s, "root/"):
		return s[len("root/"):]
	default:
		return s
	}
}

// ManifestEntryName is the manifest location inside an APK.
const ManifestEntryName = "AndroidManifest.xml"

// ResourceTableEntryName is the proto resource table location inside a
// proto-format APK.
const ResourceTableEntryName = "resources.pb"

// SerializeProtoApk writes the split as a proto-format APK archive.
func SerializeProtoApk(s *splitter.ModuleSplit, opts SerializeOptions, w io.Writer) error {
	zw := zip.NewWriter(w)
	if err := zw.Add(ManifestEntryName, zip.BytesSource(s.Manifest.Marshal()), false); err != nil {
		return err
	}
	if s.ResourceTable != nil {
		if err := zw.Add(ResourceTableEntryName, zip.BytesSource(s.ResourceTable.Marshal()), false); err != nil {
			return err
		}
	}
	for _, e := range s.Entries {
		name := apkEntryName(e.Path)
		uncompressed := e.ForceUncompressed
		if opts.UncompressedNativeLibs && strings.HasPrefix(name, "lib/") && strings.HasSuffix(name, ".so") {
			uncompressed = true
		}
		if opts.UncompressedDex && strings.HasSuffix(name, ".dex") && !strings.Contains(name, "/") {
			uncompressed = true
		}
		if err := zw.Add(name, entrySource{e}, uncompressed); err != nil {
			return err
		}
	}
	return zw.Close()
}

type entrySource struct {
	e *bundle.ModuleEntry
}

func (s entrySource) Open() (io.ReadCloser, error) {
	return s.e.Source.Open()
}

// SerializeApk produces the final bytes of one split: proto APK, optional
// aapt2 conversion to binary format, optional signing. aapt2 being nil skips
// the conversion, which keeps the proto form (used by tests and proto-apk
// output modes).
func SerializeApk(s *splitter.ModuleSplit, opts SerializeOptions, aapt2 *Aapt2Command,
	signer Signer, tmpDir string) ([]byte, error) {

	var buf bytes.Buffer
	if err := SerializeProtoApk(s, opts, &buf); err != nil {
		return nil, bterror.Executionf(err, "serializing split %q", s.ModuleName)
	}
	apk := buf.Bytes()

	if aapt2 != nil {
		protoPath := filepath.Join(tmpDir, "proto.apk")
		binaryPath := filepath.Join(tmpDir, "binary.apk")
		if err := os.WriteFile(protoPath, apk, 0644); err != nil {
			return nil, bterror.Executionf(err, "staging proto APK")
		}
		defer os.Remove(protoPath)
		defer os.Remove(binaryPath)
		if err := aapt2.ConvertApkProtoToBinary(protoPath, binaryPath); err != nil {
			return nil, err
		}
		converted, err := os.ReadFile(binaryPath)
		if err != nil {
			return nil, bterror.Executionf(err, "reading converted APK")
		}
		apk = converted
	}

	if signer != nil {
		signed, err := signer.Sign(apk)
		if err != nil {
			return nil, bterror.Executionf(err, "signing split %q", s.ModuleName)
		}
		apk = signed
	}
	return apk, nil
}
