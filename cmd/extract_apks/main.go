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

// Copies the APKs matching a device configuration out of an APK set into a
// directory. Run it without arguments to see usage details.
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"android/bundletool/apks"
	"android/bundletool/bundleproto"
	"android/bundletool/targeting"
)

type apkSet struct {
	reader  *zip.ReadCloser
	entries map[string]*zip.File
}

func openApkSet(path string) (*apkSet, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	set := &apkSet{reader: reader, entries: make(map[string]*zip.File)}
	for _, f := range reader.File {
		set.entries[f.Name] = f
	}
	return set, nil
}

func (s *apkSet) close() {
	s.reader.Close()
}

func (s *apkSet) toc() (*bundleproto.BuildApksResult, error) {
	f, ok := s.entries[apks.TocEntryName]
	if !ok {
		return nil, fmt.Errorf("APK set has no %s entry", apks.TocEntryName)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	result := new(bundleproto.BuildApksResult)
	if err := result.Unmarshal(data); err != nil {
		return nil, err
	}
	return result, nil
}

// selectApks returns the paths of every APK the device selects: the first
// matching variant, then within it one APK per module and dimension.
func selectApks(toc *bundleproto.BuildApksResult, device *targeting.DeviceSpec) []string {
	var out []string
	for _, variant := range toc.Variant {
		if !device.MatchesVariant(variant.Targeting) {
			continue
		}
		for _, set := range variant.ApkSet {
			if md := set.ModuleMetadata; md != nil {
				if md.DeliveryType == bundleproto.DeliveryType_ON_DEMAND ||
					md.DeliveryType == bundleproto.DeliveryType_FAST_FOLLOW {
					continue
				}
				if md.IsInstant {
					continue
				}
			}
			for _, desc := range set.ApkDescription {
				if device.MatchesApk(desc.Targeting) {
					out = append(out, desc.Path)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return out
}

func extract(set *apkSet, paths []string, outDir string) error {
	for _, p := range paths {
		f, ok := set.entries[p]
		if !ok {
			return fmt.Errorf("TOC refers to an entry %s which does not exist", p)
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, filepath.Base(p))
		out, err := os.Create(dst)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var (
	outputDir  = flag.String("o", "", "output directory for the extracted APKs")
	sdkVersion = flag.Uint("sdk-version", 0, "device SDK version")
	deviceTier = flag.Int("device-tier", -1, "device tier, -1 when untiered")
	countrySet = flag.String("country-set", "", "device country set")
)

type listFlag struct {
	values []string
}

func (l *listFlag) String() string {
	return strings.Join(l.values, ",")
}

func (l *listFlag) Set(s string) error {
	for _, v := range strings.Split(s, ",") {
		if v != "" {
			l.values = append(l.values, v)
		}
	}
	return nil
}

var (
	abiFlag      listFlag
	densityFlag  listFlag
	languageFlag listFlag
	textureFlag  listFlag
)

func init() {
	flag.Var(&abiFlag, "abis", "comma-separated ABI list, most preferred first "+
		"(e.g. ARM64_V8A,ARMEABI_V7A)")
	flag.Var(&densityFlag, "screen-densities", "comma-separated density bucket names, "+
		"or 'all' (e.g. XHDPI,XXHDPI)")
	flag.Var(&languageFlag, "languages", "comma-separated device languages (e.g. en,fr)")
	flag.Var(&textureFlag, "texture-formats", "comma-separated texture format names (e.g. ASTC,ETC2)")
}

func deviceFromFlags() (*targeting.DeviceSpec, error) {
	d := &targeting.DeviceSpec{
		SdkVersion:     int32(*sdkVersion),
		Abis:           make(map[bundleproto.Abi_AbiAlias]int),
		ScreenDpi:      make(map[bundleproto.ScreenDensity_DensityAlias]bool),
		Languages:      make(map[string]bool),
		TextureFormats: make(map[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias]bool),
		CountrySet:     *countrySet,
	}
	for i, abi := range abiFlag.values {
		v, ok := bundleproto.Abi_AbiAlias_value[abi]
		if !ok {
			return nil, fmt.Errorf("bad ABI value: %q", abi)
		}
		d.Abis[bundleproto.Abi_AbiAlias(v)] = i
	}
	for _, density := range densityFlag.values {
		if density == "all" {
			d.ScreenDpi[bundleproto.ScreenDensity_DENSITY_UNSPECIFIED] = true
			continue
		}
		v, ok := bundleproto.ScreenDensity_DensityAlias_value[density]
		if !ok {
			return nil, fmt.Errorf("bad screen density value: %q", density)
		}
		d.ScreenDpi[bundleproto.ScreenDensity_DensityAlias(v)] = true
	}
	for _, lang := range languageFlag.values {
		d.Languages[strings.ToLower(lang)] = true
	}
	for _, tf := range textureFlag.values {
		v, ok := bundleproto.TextureCompressionFormat_value[tf]
		if !ok {
			return nil, fmt.Errorf("bad texture format value: %q", tf)
		}
		d.TextureFormats[bundleproto.TextureCompressionFormat_TextureCompressionFormatAlias(v)] = true
	}
	if *deviceTier >= 0 {
		tier := int32(*deviceTier)
		d.DeviceTier = &tier
	}
	return d, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: extract_apks -o <output-dir> -sdk-version value `+
			`-abis value -screen-densities value [-languages value] [-texture-formats value] `+
			`[-device-tier value] [-country-set value] <APK set>`)
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	if *outputDir == "" || len(flag.Args()) != 1 || *sdkVersion == 0 {
		flag.Usage()
	}

	device, err := deviceFromFlags()
	if err != nil {
		log.Fatal(err)
	}
	set, err := openApkSet(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer set.close()
	toc, err := set.toc()
	if err != nil {
		log.Fatal(err)
	}
	selected := selectApks(toc, device)
	if len(selected) == 0 {
		log.Fatalf("there are no entries for the device configuration: %#v", device)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatal(err)
	}
	if err := extract(set, selected, *outputDir); err != nil {
		log.Fatal(err)
	}
}
