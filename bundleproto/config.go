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

package bundleproto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type BundleConfig_BundleType int32

const (
	BundleConfig_REGULAR    BundleConfig_BundleType = 0
	BundleConfig_APEX       BundleConfig_BundleType = 1
	BundleConfig_ASSET_ONLY BundleConfig_BundleType = 2
)

var BundleConfig_BundleType_name = map[int32]string{
	0: "REGULAR",
	1: "APEX",
	2: "ASSET_ONLY",
}

type SplitDimension_Value int32

const (
	SplitDimension_UNSPECIFIED_VALUE          SplitDimension_Value = 0
	SplitDimension_ABI                        SplitDimension_Value = 1
	SplitDimension_SCREEN_DENSITY             SplitDimension_Value = 2
	SplitDimension_LANGUAGE                   SplitDimension_Value = 3
	SplitDimension_TEXTURE_COMPRESSION_FORMAT SplitDimension_Value = 4
	SplitDimension_DEVICE_TIER                SplitDimension_Value = 6
	SplitDimension_COUNTRY_SET                SplitDimension_Value = 7
)

type StandaloneConfig_DexMergingStrategy int32

const (
	StandaloneConfig_MERGE_IF_NEEDED StandaloneConfig_DexMergingStrategy = 0
	StandaloneConfig_NEVER_MERGE     StandaloneConfig_DexMergingStrategy = 1
)

// BundleConfig mirrors BundleConfig.pb at the bundle root.
type BundleConfig struct {
	Bundletool               *Bundletool
	Optimizations            *Optimizations
	Compression              *Compression
	MasterResources          *MasterResources
	ApexConfig               *ApexConfig
	UnsignedEmbeddedApkConfig []*UnsignedEmbeddedApkConfig
	AssetModulesConfig       *AssetModulesConfig
	Type                     BundleConfig_BundleType

	unknown []byte
}

func (m *BundleConfig) marshal(b []byte) []byte {
	if m.Bundletool != nil {
		b = appendMessage(b, 1, m.Bundletool)
	}
	if m.Optimizations != nil {
		b = appendMessage(b, 2, m.Optimizations)
	}
	if m.Compression != nil {
		b = appendMessage(b, 3, m.Compression)
	}
	if m.MasterResources != nil {
		b = appendMessage(b, 4, m.MasterResources)
	}
	if m.ApexConfig != nil {
		b = appendMessage(b, 5, m.ApexConfig)
	}
	for _, c := range m.UnsignedEmbeddedApkConfig {
		b = appendMessage(b, 6, c)
	}
	if m.AssetModulesConfig != nil {
		b = appendMessage(b, 7, m.AssetModulesConfig)
	}
	b = appendEnum(b, 8, int32(m.Type))
	return append(b, m.unknown...)
}

func (m *BundleConfig) Marshal() []byte {
	return m.marshal(nil)
}

func (m *BundleConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Bundletool = new(Bundletool)
			return true, m.Bundletool.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.Optimizations = new(Optimizations)
			return true, m.Optimizations.Unmarshal(v.b)
		case num == 3 && typ == protowire.BytesType:
			m.Compression = new(Compression)
			return true, m.Compression.Unmarshal(v.b)
		case num == 4 && typ == protowire.BytesType:
			m.MasterResources = new(MasterResources)
			return true, m.MasterResources.Unmarshal(v.b)
		case num == 5 && typ == protowire.BytesType:
			m.ApexConfig = new(ApexConfig)
			return true, m.ApexConfig.Unmarshal(v.b)
		case num == 6 && typ == protowire.BytesType:
			c := new(UnsignedEmbeddedApkConfig)
			if err := c.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.UnsignedEmbeddedApkConfig = append(m.UnsignedEmbeddedApkConfig, c)
		case num == 7 && typ == protowire.BytesType:
			m.AssetModulesConfig = new(AssetModulesConfig)
			return true, m.AssetModulesConfig.Unmarshal(v.b)
		case num == 8 && typ == protowire.VarintType:
			m.Type = BundleConfig_BundleType(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

// Bundletool records the tool version a bundle was built with. Field 1 is
// reserved in the original schema.
type Bundletool struct {
	Version string

	unknown []byte
}

func (m *Bundletool) marshal(b []byte) []byte {
	b = appendString(b, 2, m.Version)
	return append(b, m.unknown...)
}

func (m *Bundletool) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 2 && typ == protowire.BytesType {
			m.Version = stringValue(v)
			return true, nil
		}
		return false, nil
	})
}

type Optimizations struct {
	SplitsConfig              *SplitsConfig
	UncompressNativeLibraries *UncompressNativeLibraries
	UncompressDexFiles        *UncompressDexFiles
	StandaloneConfig          *StandaloneConfig
	StoreArchive              *StoreArchive

	unknown []byte
}

func (m *Optimizations) marshal(b []byte) []byte {
	if m.SplitsConfig != nil {
		b = appendMessage(b, 1, m.SplitsConfig)
	}
	if m.UncompressNativeLibraries != nil {
		b = appendMessage(b, 2, m.UncompressNativeLibraries)
	}
	if m.UncompressDexFiles != nil {
		b = appendMessage(b, 3, m.UncompressDexFiles)
	}
	if m.StandaloneConfig != nil {
		b = appendMessage(b, 4, m.StandaloneConfig)
	}
	if m.StoreArchive != nil {
		b = appendMessage(b, 5, m.StoreArchive)
	}
	return append(b, m.unknown...)
}

func (m *Optimizations) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.SplitsConfig = new(SplitsConfig)
			return true, m.SplitsConfig.Unmarshal(v.b)
		case 2:
			m.UncompressNativeLibraries = new(UncompressNativeLibraries)
			return true, m.UncompressNativeLibraries.Unmarshal(v.b)
		case 3:
			m.UncompressDexFiles = new(UncompressDexFiles)
			return true, m.UncompressDexFiles.Unmarshal(v.b)
		case 4:
			m.StandaloneConfig = new(StandaloneConfig)
			return true, m.StandaloneConfig.Unmarshal(v.b)
		case 5:
			m.StoreArchive = new(StoreArchive)
			return true, m.StoreArchive.Unmarshal(v.b)
		}
		return false, nil
	})
}

type SplitsConfig struct {
	SplitDimension []*SplitDimension

	unknown []byte
}

func (m *SplitsConfig) marshal(b []byte) []byte {
	for _, d := range m.SplitDimension {
		b = appendMessage(b, 1, d)
	}
	return append(b, m.unknown...)
}

func (m *SplitsConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			d := new(SplitDimension)
			if err := d.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.SplitDimension = append(m.SplitDimension, d)
			return true, nil
		}
		return false, nil
	})
}

type SplitDimension struct {
	Value           SplitDimension_Value
	Negate          bool
	SuffixStripping *SuffixStripping

	unknown []byte
}

func (m *SplitDimension) marshal(b []byte) []byte {
	b = appendEnum(b, 1, int32(m.Value))
	b = appendBool(b, 2, m.Negate)
	if m.SuffixStripping != nil {
		b = appendMessage(b, 3, m.SuffixStripping)
	}
	return append(b, m.unknown...)
}

func (m *SplitDimension) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.Value = SplitDimension_Value(v.x)
		case num == 2 && typ == protowire.VarintType:
			m.Negate = boolValue(v)
		case num == 3 && typ == protowire.BytesType:
			m.SuffixStripping = new(SuffixStripping)
			return true, m.SuffixStripping.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type SuffixStripping struct {
	Enabled       bool
	DefaultSuffix string

	unknown []byte
}

func (m *SuffixStripping) marshal(b []byte) []byte {
	b = appendBool(b, 1, m.Enabled)
	b = appendString(b, 2, m.DefaultSuffix)
	return append(b, m.unknown...)
}

func (m *SuffixStripping) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.Enabled = boolValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.DefaultSuffix = stringValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

type UncompressNativeLibraries struct {
	Enabled bool

	unknown []byte
}

func (m *UncompressNativeLibraries) marshal(b []byte) []byte {
	b = appendBool(b, 1, m.Enabled)
	return append(b, m.unknown...)
}

func (m *UncompressNativeLibraries) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Enabled = boolValue(v)
			return true, nil
		}
		return false, nil
	})
}

type UncompressDexFiles struct {
	Enabled bool

	unknown []byte
}

func (m *UncompressDexFiles) marshal(b []byte) []byte {
	b = appendBool(b, 1, m.Enabled)
	return append(b, m.unknown...)
}

func (m *UncompressDexFiles) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Enabled = boolValue(v)
			return true, nil
		}
		return false, nil
	})
}

type StandaloneConfig struct {
	SplitDimension     []*SplitDimension
	Strip64BitLibraries bool
	DexMergingStrategy StandaloneConfig_DexMergingStrategy

	unknown []byte
}

func (m *StandaloneConfig) marshal(b []byte) []byte {
	for _, d := range m.SplitDimension {
		b = appendMessage(b, 1, d)
	}
	b = appendBool(b, 2, m.Strip64BitLibraries)
	b = appendEnum(b, 3, int32(m.DexMergingStrategy))
	return append(b, m.unknown...)
}

func (m *StandaloneConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			d := new(SplitDimension)
			if err := d.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.SplitDimension = append(m.SplitDimension, d)
		case num == 2 && typ == protowire.VarintType:
			m.Strip64BitLibraries = boolValue(v)
		case num == 3 && typ == protowire.VarintType:
			m.DexMergingStrategy = StandaloneConfig_DexMergingStrategy(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

type StoreArchive struct {
	Enabled bool

	unknown []byte
}

func (m *StoreArchive) marshal(b []byte) []byte {
	b = appendBool(b, 1, m.Enabled)
	return append(b, m.unknown...)
}

func (m *StoreArchive) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Enabled = boolValue(v)
			return true, nil
		}
		return false, nil
	})
}

// Compression lists globs that must be stored uncompressed in every APK.
type Compression struct {
	UncompressedGlob []string

	unknown []byte
}

func (m *Compression) marshal(b []byte) []byte {
	for _, g := range m.UncompressedGlob {
		b = appendString(b, 1, g)
	}
	return append(b, m.unknown...)
}

func (m *Compression) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.UncompressedGlob = append(m.UncompressedGlob, stringValue(v))
			return true, nil
		}
		return false, nil
	})
}

// MasterResources pins resources to the master split.
type MasterResources struct {
	ResourceIds   []uint32
	ResourceNames []string

	unknown []byte
}

func (m *MasterResources) marshal(b []byte) []byte {
	for _, id := range m.ResourceIds {
		b = appendVarint(b, 1, uint64(id))
	}
	for _, n := range m.ResourceNames {
		b = appendString(b, 2, n)
	}
	return append(b, m.unknown...)
}

func (m *MasterResources) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.ResourceIds = append(m.ResourceIds, uint32(v.x))
		case num == 1 && typ == protowire.BytesType:
			// Packed encoding.
			data := v.b
			for len(data) > 0 {
				x, n := protowire.ConsumeVarint(data)
				if n < 0 {
					return false, protowire.ParseError(n)
				}
				m.ResourceIds = append(m.ResourceIds, uint32(x))
				data = data[n:]
			}
		case num == 2 && typ == protowire.BytesType:
			m.ResourceNames = append(m.ResourceNames, stringValue(v))
		default:
			return false, nil
		}
		return true, nil
	})
}

type ApexConfig struct {
	SupportedAbiSet []*AbiSet

	unknown []byte
}

func (m *ApexConfig) marshal(b []byte) []byte {
	for _, s := range m.SupportedAbiSet {
		b = appendMessage(b, 1, s)
	}
	return append(b, m.unknown...)
}

func (m *ApexConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			s := new(AbiSet)
			if err := s.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.SupportedAbiSet = append(m.SupportedAbiSet, s)
			return true, nil
		}
		return false, nil
	})
}

type AbiSet struct {
	AbiName []string

	unknown []byte
}

func (m *AbiSet) marshal(b []byte) []byte {
	for _, n := range m.AbiName {
		b = appendString(b, 1, n)
	}
	return append(b, m.unknown...)
}

func (m *AbiSet) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.AbiName = append(m.AbiName, stringValue(v))
			return true, nil
		}
		return false, nil
	})
}

type UnsignedEmbeddedApkConfig struct {
	Path string

	unknown []byte
}

func (m *UnsignedEmbeddedApkConfig) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Path)
	return append(b, m.unknown...)
}

func (m *UnsignedEmbeddedApkConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.Path = stringValue(v)
			return true, nil
		}
		return false, nil
	})
}

type AssetModulesConfig struct {
	AppVersion      []int64
	AssetVersionTag string

	unknown []byte
}

func (m *AssetModulesConfig) marshal(b []byte) []byte {
	for _, av := range m.AppVersion {
		b = appendVarint(b, 1, uint64(av))
	}
	b = appendString(b, 2, m.AssetVersionTag)
	return append(b, m.unknown...)
}

func (m *AssetModulesConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.AppVersion = append(m.AppVersion, int64(v.x))
		case num == 1 && typ == protowire.BytesType:
			data := v.b
			for len(data) > 0 {
				x, n := protowire.ConsumeVarint(data)
				if n < 0 {
					return false, protowire.ParseError(n)
				}
				m.AppVersion = append(m.AppVersion, int64(x))
				data = data[n:]
			}
		case num == 2 && typ == protowire.BytesType:
			m.AssetVersionTag = stringValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

// RuntimeEnabledSdkConfig mirrors runtime_enabled_sdk_config.pb in modules
// that depend on runtime-enabled SDKs.
type RuntimeEnabledSdkConfig struct {
	RuntimeEnabledSdk []*RuntimeEnabledSdk

	unknown []byte
}

func (m *RuntimeEnabledSdkConfig) marshal(b []byte) []byte {
	for _, s := range m.RuntimeEnabledSdk {
		b = appendMessage(b, 1, s)
	}
	return append(b, m.unknown...)
}

func (m *RuntimeEnabledSdkConfig) Marshal() []byte {
	return m.marshal(nil)
}

func (m *RuntimeEnabledSdkConfig) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			s := new(RuntimeEnabledSdk)
			if err := s.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.RuntimeEnabledSdk = append(m.RuntimeEnabledSdk, s)
			return true, nil
		}
		return false, nil
	})
}

type RuntimeEnabledSdk struct {
	PackageName        string
	VersionMajor       int32
	VersionMinor       int32
	CertificateDigest  string
	ResourcesPackageId int32

	unknown []byte
}

func (m *RuntimeEnabledSdk) marshal(b []byte) []byte {
	b = appendString(b, 1, m.PackageName)
	b = appendInt32(b, 2, m.VersionMajor)
	b = appendInt32(b, 3, m.VersionMinor)
	b = appendString(b, 4, m.CertificateDigest)
	b = appendInt32(b, 5, m.ResourcesPackageId)
	return append(b, m.unknown...)
}

func (m *RuntimeEnabledSdk) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.PackageName = stringValue(v)
		case num == 2 && typ == protowire.VarintType:
			m.VersionMajor = int32(v.x)
		case num == 3 && typ == protowire.VarintType:
			m.VersionMinor = int32(v.x)
		case num == 4 && typ == protowire.BytesType:
			m.CertificateDigest = stringValue(v)
		case num == 5 && typ == protowire.VarintType:
			m.ResourcesPackageId = int32(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}
