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

// The APK set table of contents (toc.pb).

package bundleproto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type DeliveryType int32

const (
	DeliveryType_UNKNOWN_DELIVERY_TYPE DeliveryType = 0
	DeliveryType_INSTALL_TIME          DeliveryType = 1
	DeliveryType_ON_DEMAND             DeliveryType = 2
	DeliveryType_FAST_FOLLOW           DeliveryType = 3
)

var DeliveryType_name = map[int32]string{
	0: "UNKNOWN_DELIVERY_TYPE",
	1: "INSTALL_TIME",
	2: "ON_DEMAND",
	3: "FAST_FOLLOW",
}

type BuildApksResult struct {
	Variant          []*Variant
	Bundletool       *Bundletool
	PackageName      string
	AssetSliceSet    []*AssetSliceSet
	LocalTestingInfo *LocalTestingInfo

	unknown []byte
}

func (m *BuildApksResult) marshal(b []byte) []byte {
	for _, v := range m.Variant {
		b = appendMessage(b, 1, v)
	}
	if m.Bundletool != nil {
		b = appendMessage(b, 2, m.Bundletool)
	}
	b = appendString(b, 4, m.PackageName)
	for _, s := range m.AssetSliceSet {
		b = appendMessage(b, 5, s)
	}
	if m.LocalTestingInfo != nil {
		b = appendMessage(b, 6, m.LocalTestingInfo)
	}
	return append(b, m.unknown...)
}

func (m *BuildApksResult) Marshal() []byte {
	return m.marshal(nil)
}

func (m *BuildApksResult) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			va := new(Variant)
			if err := va.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Variant = append(m.Variant, va)
		case num == 2 && typ == protowire.BytesType:
			m.Bundletool = new(Bundletool)
			return true, m.Bundletool.Unmarshal(v.b)
		case num == 4 && typ == protowire.BytesType:
			m.PackageName = stringValue(v)
		case num == 5 && typ == protowire.BytesType:
			s := new(AssetSliceSet)
			if err := s.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.AssetSliceSet = append(m.AssetSliceSet, s)
		case num == 6 && typ == protowire.BytesType:
			m.LocalTestingInfo = new(LocalTestingInfo)
			return true, m.LocalTestingInfo.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type Variant struct {
	Targeting     *VariantTargeting
	ApkSet        []*ApkSet
	VariantNumber uint32

	unknown []byte
}

func (m *Variant) marshal(b []byte) []byte {
	if m.Targeting != nil {
		b = appendMessage(b, 1, m.Targeting)
	}
	for _, s := range m.ApkSet {
		b = appendMessage(b, 2, s)
	}
	// variant_number 0 is meaningful, write it unconditionally.
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.VariantNumber))
	return append(b, m.unknown...)
}

func (m *Variant) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Targeting = new(VariantTargeting)
			return true, m.Targeting.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			s := new(ApkSet)
			if err := s.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.ApkSet = append(m.ApkSet, s)
		case num == 3 && typ == protowire.VarintType:
			m.VariantNumber = uint32(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

type ApkSet struct {
	ModuleMetadata *ModuleMetadata
	ApkDescription []*ApkDescription

	unknown []byte
}

func (m *ApkSet) marshal(b []byte) []byte {
	if m.ModuleMetadata != nil {
		b = appendMessage(b, 1, m.ModuleMetadata)
	}
	for _, d := range m.ApkDescription {
		b = appendMessage(b, 2, d)
	}
	return append(b, m.unknown...)
}

func (m *ApkSet) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.ModuleMetadata = new(ModuleMetadata)
			return true, m.ModuleMetadata.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			d := new(ApkDescription)
			if err := d.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.ApkDescription = append(m.ApkDescription, d)
		default:
			return false, nil
		}
		return true, nil
	})
}

type ModuleMetadata struct {
	Name         string
	IsInstant    bool
	Targeting    *ModuleTargeting
	DeliveryType DeliveryType

	unknown []byte
}

func (m *ModuleMetadata) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendBool(b, 3, m.IsInstant)
	if m.Targeting != nil {
		b = appendMessage(b, 4, m.Targeting)
	}
	b = appendEnum(b, 5, int32(m.DeliveryType))
	return append(b, m.unknown...)
}

func (m *ModuleMetadata) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Name = stringValue(v)
		case num == 3 && typ == protowire.VarintType:
			m.IsInstant = boolValue(v)
		case num == 4 && typ == protowire.BytesType:
			m.Targeting = new(ModuleTargeting)
			return true, m.Targeting.Unmarshal(v.b)
		case num == 5 && typ == protowire.VarintType:
			m.DeliveryType = DeliveryType(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

type ApkDescription struct {
	Targeting *ApkTargeting
	Path      string

	// At most one of the metadata fields is set.
	SplitApkMetadata      *SplitApkMetadata
	StandaloneApkMetadata *StandaloneApkMetadata

	unknown []byte
}

func (m *ApkDescription) marshal(b []byte) []byte {
	if m.Targeting != nil {
		b = appendMessage(b, 1, m.Targeting)
	}
	b = appendString(b, 2, m.Path)
	if m.SplitApkMetadata != nil {
		b = appendMessage(b, 3, m.SplitApkMetadata)
	}
	if m.StandaloneApkMetadata != nil {
		b = appendMessage(b, 4, m.StandaloneApkMetadata)
	}
	return append(b, m.unknown...)
}

func (m *ApkDescription) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Targeting = new(ApkTargeting)
			return true, m.Targeting.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.Path = stringValue(v)
		case num == 3 && typ == protowire.BytesType:
			m.SplitApkMetadata = new(SplitApkMetadata)
			return true, m.SplitApkMetadata.Unmarshal(v.b)
		case num == 4 && typ == protowire.BytesType:
			m.StandaloneApkMetadata = new(StandaloneApkMetadata)
			return true, m.StandaloneApkMetadata.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type SplitApkMetadata struct {
	SplitId       string
	IsMasterSplit bool

	unknown []byte
}

func (m *SplitApkMetadata) marshal(b []byte) []byte {
	b = appendString(b, 1, m.SplitId)
	b = appendBool(b, 2, m.IsMasterSplit)
	return append(b, m.unknown...)
}

func (m *SplitApkMetadata) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.SplitId = stringValue(v)
		case num == 2 && typ == protowire.VarintType:
			m.IsMasterSplit = boolValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

type StandaloneApkMetadata struct {
	FusedModuleName []string

	unknown []byte
}

func (m *StandaloneApkMetadata) marshal(b []byte) []byte {
	for _, n := range m.FusedModuleName {
		b = appendString(b, 1, n)
	}
	return append(b, m.unknown...)
}

func (m *StandaloneApkMetadata) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.FusedModuleName = append(m.FusedModuleName, stringValue(v))
			return true, nil
		}
		return false, nil
	})
}

type AssetSliceSet struct {
	AssetModuleMetadata *ModuleMetadata
	ApkDescription      []*ApkDescription

	unknown []byte
}

func (m *AssetSliceSet) marshal(b []byte) []byte {
	if m.AssetModuleMetadata != nil {
		b = appendMessage(b, 1, m.AssetModuleMetadata)
	}
	for _, d := range m.ApkDescription {
		b = appendMessage(b, 2, d)
	}
	return append(b, m.unknown...)
}

func (m *AssetSliceSet) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.AssetModuleMetadata = new(ModuleMetadata)
			return true, m.AssetModuleMetadata.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			d := new(ApkDescription)
			if err := d.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.ApkDescription = append(m.ApkDescription, d)
		default:
			return false, nil
		}
		return true, nil
	})
}

type LocalTestingInfo struct {
	Enabled          bool
	LocalTestingPath string

	unknown []byte
}

func (m *LocalTestingInfo) marshal(b []byte) []byte {
	b = appendBool(b, 1, m.Enabled)
	b = appendString(b, 2, m.LocalTestingPath)
	return append(b, m.unknown...)
}

func (m *LocalTestingInfo) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.Enabled = boolValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.LocalTestingPath = stringValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}
