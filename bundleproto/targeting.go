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

type Abi_AbiAlias int32

const (
	Abi_UNSPECIFIED_CPU_ARCHITECTURE Abi_AbiAlias = 0
	Abi_ARMEABI                      Abi_AbiAlias = 1
	Abi_ARMEABI_V7A                  Abi_AbiAlias = 2
	Abi_ARM64_V8A                    Abi_AbiAlias = 3
	Abi_X86                          Abi_AbiAlias = 4
	Abi_X86_64                       Abi_AbiAlias = 5
	Abi_MIPS                         Abi_AbiAlias = 6
	Abi_MIPS64                       Abi_AbiAlias = 7
	Abi_RISCV64                      Abi_AbiAlias = 8
)

var Abi_AbiAlias_name = map[int32]string{
	0: "UNSPECIFIED_CPU_ARCHITECTURE",
	1: "ARMEABI",
	2: "ARMEABI_V7A",
	3: "ARM64_V8A",
	4: "X86",
	5: "X86_64",
	6: "MIPS",
	7: "MIPS64",
	8: "RISCV64",
}

var Abi_AbiAlias_value = map[string]int32{
	"UNSPECIFIED_CPU_ARCHITECTURE": 0,
	"ARMEABI":                      1,
	"ARMEABI_V7A":                  2,
	"ARM64_V8A":                    3,
	"X86":                          4,
	"X86_64":                       5,
	"MIPS":                         6,
	"MIPS64":                       7,
	"RISCV64":                      8,
}

func (a Abi_AbiAlias) String() string {
	if s, ok := Abi_AbiAlias_name[int32(a)]; ok {
		return s
	}
	return "UNSPECIFIED_CPU_ARCHITECTURE"
}

type ScreenDensity_DensityAlias int32

const (
	ScreenDensity_DENSITY_UNSPECIFIED ScreenDensity_DensityAlias = 0
	ScreenDensity_NODPI               ScreenDensity_DensityAlias = 1
	ScreenDensity_LDPI                ScreenDensity_DensityAlias = 2
	ScreenDensity_MDPI                ScreenDensity_DensityAlias = 3
	ScreenDensity_TVDPI               ScreenDensity_DensityAlias = 4
	ScreenDensity_HDPI                ScreenDensity_DensityAlias = 5
	ScreenDensity_XHDPI               ScreenDensity_DensityAlias = 6
	ScreenDensity_XXHDPI              ScreenDensity_DensityAlias = 7
	ScreenDensity_XXXHDPI             ScreenDensity_DensityAlias = 8
)

var ScreenDensity_DensityAlias_name = map[int32]string{
	0: "DENSITY_UNSPECIFIED",
	1: "NODPI",
	2: "LDPI",
	3: "MDPI",
	4: "TVDPI",
	5: "HDPI",
	6: "XHDPI",
	7: "XXHDPI",
	8: "XXXHDPI",
}

var ScreenDensity_DensityAlias_value = map[string]int32{
	"DENSITY_UNSPECIFIED": 0,
	"NODPI":               1,
	"LDPI":                2,
	"MDPI":                3,
	"TVDPI":               4,
	"HDPI":                5,
	"XHDPI":               6,
	"XXHDPI":              7,
	"XXXHDPI":             8,
}

func (d ScreenDensity_DensityAlias) String() string {
	if s, ok := ScreenDensity_DensityAlias_name[int32(d)]; ok {
		return s
	}
	return "DENSITY_UNSPECIFIED"
}

type TextureCompressionFormat_TextureCompressionFormatAlias int32

const (
	TextureCompressionFormat_UNSPECIFIED_TEXTURE_COMPRESSION_FORMAT TextureCompressionFormat_TextureCompressionFormatAlias = 0
	TextureCompressionFormat_ETC1_RGB8                              TextureCompressionFormat_TextureCompressionFormatAlias = 1
	TextureCompressionFormat_PALETTED                               TextureCompressionFormat_TextureCompressionFormatAlias = 2
	TextureCompressionFormat_THREE_DC                               TextureCompressionFormat_TextureCompressionFormatAlias = 3
	TextureCompressionFormat_ATC                                    TextureCompressionFormat_TextureCompressionFormatAlias = 4
	TextureCompressionFormat_LATC                                   TextureCompressionFormat_TextureCompressionFormatAlias = 5
	TextureCompressionFormat_DXT1                                   TextureCompressionFormat_TextureCompressionFormatAlias = 6
	TextureCompressionFormat_S3TC                                   TextureCompressionFormat_TextureCompressionFormatAlias = 7
	TextureCompressionFormat_PVRTC                                  TextureCompressionFormat_TextureCompressionFormatAlias = 8
	TextureCompressionFormat_ASTC                                   TextureCompressionFormat_TextureCompressionFormatAlias = 9
	TextureCompressionFormat_ETC2                                   TextureCompressionFormat_TextureCompressionFormatAlias = 10
)

var TextureCompressionFormat_name = map[int32]string{
	0:  "UNSPECIFIED_TEXTURE_COMPRESSION_FORMAT",
	1:  "ETC1_RGB8",
	2:  "PALETTED",
	3:  "THREE_DC",
	4:  "ATC",
	5:  "LATC",
	6:  "DXT1",
	7:  "S3TC",
	8:  "PVRTC",
	9:  "ASTC",
	10: "ETC2",
}

var TextureCompressionFormat_value = map[string]int32{
	"UNSPECIFIED_TEXTURE_COMPRESSION_FORMAT": 0,
	"ETC1_RGB8":                              1,
	"PALETTED":                               2,
	"THREE_DC":                               3,
	"ATC":                                    4,
	"LATC":                                   5,
	"DXT1":                                   6,
	"S3TC":                                   7,
	"PVRTC":                                  8,
	"ASTC":                                   9,
	"ETC2":                                   10,
}

func (f TextureCompressionFormat_TextureCompressionFormatAlias) String() string {
	if s, ok := TextureCompressionFormat_name[int32(f)]; ok {
		return s
	}
	return "UNSPECIFIED_TEXTURE_COMPRESSION_FORMAT"
}

type Sanitizer_SanitizerAlias int32

const (
	Sanitizer_NONE      Sanitizer_SanitizerAlias = 0
	Sanitizer_HWADDRESS Sanitizer_SanitizerAlias = 1
)

type Abi struct {
	Alias Abi_AbiAlias

	unknown []byte
}

func (m *Abi) marshal(b []byte) []byte {
	b = appendEnum(b, 1, int32(m.Alias))
	return append(b, m.unknown...)
}

func (m *Abi) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Alias = Abi_AbiAlias(v.x)
			return true, nil
		}
		return false, nil
	})
}

type MultiAbi struct {
	Abi []*Abi

	unknown []byte
}

func (m *MultiAbi) marshal(b []byte) []byte {
	for _, a := range m.Abi {
		b = appendMessage(b, 1, a)
	}
	return append(b, m.unknown...)
}

func (m *MultiAbi) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			a := new(Abi)
			if err := a.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Abi = append(m.Abi, a)
			return true, nil
		}
		return false, nil
	})
}

type ScreenDensity struct {
	// Exactly one of DensityAlias or DensityDpi is set; DensityDpi is
	// distinguished by HasDpi since 0 is not a valid dpi.
	DensityAlias ScreenDensity_DensityAlias
	DensityDpi   uint32
	HasDpi       bool

	unknown []byte
}

func (m *ScreenDensity) marshal(b []byte) []byte {
	if m.HasDpi {
		b = appendVarint(b, 2, uint64(m.DensityDpi))
	} else {
		b = appendEnum(b, 1, int32(m.DensityAlias))
	}
	return append(b, m.unknown...)
}

func (m *ScreenDensity) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.DensityAlias = ScreenDensity_DensityAlias(v.x)
			m.HasDpi = false
		case num == 2 && typ == protowire.VarintType:
			m.DensityDpi = uint32(v.x)
			m.HasDpi = true
		default:
			return false, nil
		}
		return true, nil
	})
}

type Int32Value struct {
	Value int32

	unknown []byte
}

func (m *Int32Value) marshal(b []byte) []byte {
	b = appendInt32(b, 1, m.Value)
	return append(b, m.unknown...)
}

func (m *Int32Value) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Value = int32(v.x)
			return true, nil
		}
		return false, nil
	})
}

type SdkVersion struct {
	Min *Int32Value

	unknown []byte
}

func (m *SdkVersion) marshal(b []byte) []byte {
	if m.Min != nil {
		b = appendMessage(b, 1, m.Min)
	}
	return append(b, m.unknown...)
}

func (m *SdkVersion) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.Min = new(Int32Value)
			return true, m.Min.Unmarshal(v.b)
		}
		return false, nil
	})
}

type TextureCompressionFormat struct {
	Alias TextureCompressionFormat_TextureCompressionFormatAlias

	unknown []byte
}

func (m *TextureCompressionFormat) marshal(b []byte) []byte {
	b = appendEnum(b, 1, int32(m.Alias))
	return append(b, m.unknown...)
}

func (m *TextureCompressionFormat) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Alias = TextureCompressionFormat_TextureCompressionFormatAlias(v.x)
			return true, nil
		}
		return false, nil
	})
}

type Sanitizer struct {
	Alias Sanitizer_SanitizerAlias

	unknown []byte
}

func (m *Sanitizer) marshal(b []byte) []byte {
	b = appendEnum(b, 1, int32(m.Alias))
	return append(b, m.unknown...)
}

func (m *Sanitizer) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Alias = Sanitizer_SanitizerAlias(v.x)
			return true, nil
		}
		return false, nil
	})
}

type AbiTargeting struct {
	Value        []*Abi
	Alternatives []*Abi

	unknown []byte
}

func (m *AbiTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendMessage(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *AbiTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType || (num != 1 && num != 2) {
			return false, nil
		}
		a := new(Abi)
		if err := a.Unmarshal(v.b); err != nil {
			return false, err
		}
		if num == 1 {
			m.Value = append(m.Value, a)
		} else {
			m.Alternatives = append(m.Alternatives, a)
		}
		return true, nil
	})
}

type MultiAbiTargeting struct {
	Value        []*MultiAbi
	Alternatives []*MultiAbi

	unknown []byte
}

func (m *MultiAbiTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendMessage(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *MultiAbiTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType || (num != 1 && num != 2) {
			return false, nil
		}
		a := new(MultiAbi)
		if err := a.Unmarshal(v.b); err != nil {
			return false, err
		}
		if num == 1 {
			m.Value = append(m.Value, a)
		} else {
			m.Alternatives = append(m.Alternatives, a)
		}
		return true, nil
	})
}

type ScreenDensityTargeting struct {
	Value        []*ScreenDensity
	Alternatives []*ScreenDensity

	unknown []byte
}

func (m *ScreenDensityTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendMessage(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *ScreenDensityTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType || (num != 1 && num != 2) {
			return false, nil
		}
		d := new(ScreenDensity)
		if err := d.Unmarshal(v.b); err != nil {
			return false, err
		}
		if num == 1 {
			m.Value = append(m.Value, d)
		} else {
			m.Alternatives = append(m.Alternatives, d)
		}
		return true, nil
	})
}

// LanguageTargeting values are language subtags ("en", "fil"), not full
// locales.
type LanguageTargeting struct {
	Value        []string
	Alternatives []string

	unknown []byte
}

func (m *LanguageTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendString(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendString(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *LanguageTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Value = append(m.Value, stringValue(v))
		case num == 2 && typ == protowire.BytesType:
			m.Alternatives = append(m.Alternatives, stringValue(v))
		default:
			return false, nil
		}
		return true, nil
	})
}

type SdkVersionTargeting struct {
	Value        []*SdkVersion
	Alternatives []*SdkVersion

	unknown []byte
}

func (m *SdkVersionTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendMessage(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *SdkVersionTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType || (num != 1 && num != 2) {
			return false, nil
		}
		s := new(SdkVersion)
		if err := s.Unmarshal(v.b); err != nil {
			return false, err
		}
		if num == 1 {
			m.Value = append(m.Value, s)
		} else {
			m.Alternatives = append(m.Alternatives, s)
		}
		return true, nil
	})
}

type TextureCompressionFormatTargeting struct {
	Value        []*TextureCompressionFormat
	Alternatives []*TextureCompressionFormat

	unknown []byte
}

func (m *TextureCompressionFormatTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendMessage(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *TextureCompressionFormatTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType || (num != 1 && num != 2) {
			return false, nil
		}
		f := new(TextureCompressionFormat)
		if err := f.Unmarshal(v.b); err != nil {
			return false, err
		}
		if num == 1 {
			m.Value = append(m.Value, f)
		} else {
			m.Alternatives = append(m.Alternatives, f)
		}
		return true, nil
	})
}

type SanitizerTargeting struct {
	Value []*Sanitizer

	unknown []byte
}

func (m *SanitizerTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 1, v)
	}
	return append(b, m.unknown...)
}

func (m *SanitizerTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			s := new(Sanitizer)
			if err := s.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Value = append(m.Value, s)
			return true, nil
		}
		return false, nil
	})
}

type DeviceTierTargeting struct {
	Value        []*Int32Value
	Alternatives []*Int32Value

	unknown []byte
}

func (m *DeviceTierTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendMessage(b, 3, v)
	}
	for _, v := range m.Alternatives {
		b = appendMessage(b, 4, v)
	}
	return append(b, m.unknown...)
}

func (m *DeviceTierTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType || (num != 3 && num != 4) {
			return false, nil
		}
		t := new(Int32Value)
		if err := t.Unmarshal(v.b); err != nil {
			return false, err
		}
		if num == 3 {
			m.Value = append(m.Value, t)
		} else {
			m.Alternatives = append(m.Alternatives, t)
		}
		return true, nil
	})
}

type CountrySetTargeting struct {
	Value        []string
	Alternatives []string

	unknown []byte
}

func (m *CountrySetTargeting) marshal(b []byte) []byte {
	for _, v := range m.Value {
		b = appendString(b, 1, v)
	}
	for _, v := range m.Alternatives {
		b = appendString(b, 2, v)
	}
	return append(b, m.unknown...)
}

func (m *CountrySetTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Value = append(m.Value, stringValue(v))
		case num == 2 && typ == protowire.BytesType:
			m.Alternatives = append(m.Alternatives, stringValue(v))
		default:
			return false, nil
		}
		return true, nil
	})
}

type UserCountriesTargeting struct {
	CountryCodes []string
	Exclude      bool

	unknown []byte
}

func (m *UserCountriesTargeting) marshal(b []byte) []byte {
	for _, v := range m.CountryCodes {
		b = appendString(b, 1, v)
	}
	b = appendBool(b, 2, m.Exclude)
	return append(b, m.unknown...)
}

func (m *UserCountriesTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.CountryCodes = append(m.CountryCodes, stringValue(v))
		case num == 2 && typ == protowire.VarintType:
			m.Exclude = boolValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

type DeviceFeature struct {
	FeatureName    string
	FeatureVersion int32

	unknown []byte
}

func (m *DeviceFeature) marshal(b []byte) []byte {
	b = appendString(b, 1, m.FeatureName)
	b = appendInt32(b, 2, m.FeatureVersion)
	return append(b, m.unknown...)
}

func (m *DeviceFeature) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.FeatureName = stringValue(v)
		case num == 2 && typ == protowire.VarintType:
			m.FeatureVersion = int32(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

type DeviceFeatureTargeting struct {
	RequiredFeature *DeviceFeature

	unknown []byte
}

func (m *DeviceFeatureTargeting) marshal(b []byte) []byte {
	if m.RequiredFeature != nil {
		b = appendMessage(b, 1, m.RequiredFeature)
	}
	return append(b, m.unknown...)
}

func (m *DeviceFeatureTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.RequiredFeature = new(DeviceFeature)
			return true, m.RequiredFeature.Unmarshal(v.b)
		}
		return false, nil
	})
}

// ApkTargeting scopes one APK within a variant.
type ApkTargeting struct {
	AbiTargeting                      *AbiTargeting
	MultiAbiTargeting                 *MultiAbiTargeting
	ScreenDensityTargeting            *ScreenDensityTargeting
	LanguageTargeting                 *LanguageTargeting
	SdkVersionTargeting               *SdkVersionTargeting
	TextureCompressionFormatTargeting *TextureCompressionFormatTargeting
	SanitizerTargeting                *SanitizerTargeting
	DeviceTierTargeting               *DeviceTierTargeting
	CountrySetTargeting               *CountrySetTargeting

	unknown []byte
}

func (m *ApkTargeting) marshal(b []byte) []byte {
	if m.AbiTargeting != nil {
		b = appendMessage(b, 1, m.AbiTargeting)
	}
	if m.MultiAbiTargeting != nil {
		b = appendMessage(b, 2, m.MultiAbiTargeting)
	}
	if m.ScreenDensityTargeting != nil {
		b = appendMessage(b, 3, m.ScreenDensityTargeting)
	}
	if m.LanguageTargeting != nil {
		b = appendMessage(b, 4, m.LanguageTargeting)
	}
	if m.SdkVersionTargeting != nil {
		b = appendMessage(b, 5, m.SdkVersionTargeting)
	}
	if m.TextureCompressionFormatTargeting != nil {
		b = appendMessage(b, 6, m.TextureCompressionFormatTargeting)
	}
	if m.SanitizerTargeting != nil {
		b = appendMessage(b, 7, m.SanitizerTargeting)
	}
	if m.DeviceTierTargeting != nil {
		b = appendMessage(b, 8, m.DeviceTierTargeting)
	}
	if m.CountrySetTargeting != nil {
		b = appendMessage(b, 9, m.CountrySetTargeting)
	}
	return append(b, m.unknown...)
}

func (m *ApkTargeting) Marshal() []byte {
	return m.marshal(nil)
}

func (m *ApkTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.AbiTargeting = new(AbiTargeting)
			return true, m.AbiTargeting.Unmarshal(v.b)
		case 2:
			m.MultiAbiTargeting = new(MultiAbiTargeting)
			return true, m.MultiAbiTargeting.Unmarshal(v.b)
		case 3:
			m.ScreenDensityTargeting = new(ScreenDensityTargeting)
			return true, m.ScreenDensityTargeting.Unmarshal(v.b)
		case 4:
			m.LanguageTargeting = new(LanguageTargeting)
			return true, m.LanguageTargeting.Unmarshal(v.b)
		case 5:
			m.SdkVersionTargeting = new(SdkVersionTargeting)
			return true, m.SdkVersionTargeting.Unmarshal(v.b)
		case 6:
			m.TextureCompressionFormatTargeting = new(TextureCompressionFormatTargeting)
			return true, m.TextureCompressionFormatTargeting.Unmarshal(v.b)
		case 7:
			m.SanitizerTargeting = new(SanitizerTargeting)
			return true, m.SanitizerTargeting.Unmarshal(v.b)
		case 8:
			m.DeviceTierTargeting = new(DeviceTierTargeting)
			return true, m.DeviceTierTargeting.Unmarshal(v.b)
		case 9:
			m.CountrySetTargeting = new(CountrySetTargeting)
			return true, m.CountrySetTargeting.Unmarshal(v.b)
		}
		return false, nil
	})
}

// VariantTargeting scopes a whole variant; devices never mix variants.
type VariantTargeting struct {
	SdkVersionTargeting               *SdkVersionTargeting
	AbiTargeting                      *AbiTargeting
	ScreenDensityTargeting            *ScreenDensityTargeting
	MultiAbiTargeting                 *MultiAbiTargeting
	TextureCompressionFormatTargeting *TextureCompressionFormatTargeting

	unknown []byte
}

func (m *VariantTargeting) marshal(b []byte) []byte {
	if m.SdkVersionTargeting != nil {
		b = appendMessage(b, 1, m.SdkVersionTargeting)
	}
	if m.AbiTargeting != nil {
		b = appendMessage(b, 2, m.AbiTargeting)
	}
	if m.ScreenDensityTargeting != nil {
		b = appendMessage(b, 3, m.ScreenDensityTargeting)
	}
	if m.MultiAbiTargeting != nil {
		b = appendMessage(b, 4, m.MultiAbiTargeting)
	}
	if m.TextureCompressionFormatTargeting != nil {
		b = appendMessage(b, 5, m.TextureCompressionFormatTargeting)
	}
	return append(b, m.unknown...)
}

func (m *VariantTargeting) Marshal() []byte {
	return m.marshal(nil)
}

func (m *VariantTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.SdkVersionTargeting = new(SdkVersionTargeting)
			return true, m.SdkVersionTargeting.Unmarshal(v.b)
		case 2:
			m.AbiTargeting = new(AbiTargeting)
			return true, m.AbiTargeting.Unmarshal(v.b)
		case 3:
			m.ScreenDensityTargeting = new(ScreenDensityTargeting)
			return true, m.ScreenDensityTargeting.Unmarshal(v.b)
		case 4:
			m.MultiAbiTargeting = new(MultiAbiTargeting)
			return true, m.MultiAbiTargeting.Unmarshal(v.b)
		case 5:
			m.TextureCompressionFormatTargeting = new(TextureCompressionFormatTargeting)
			return true, m.TextureCompressionFormatTargeting.Unmarshal(v.b)
		}
		return false, nil
	})
}

// ModuleTargeting gates delivery of a whole module on device properties.
type ModuleTargeting struct {
	SdkVersionTargeting    *SdkVersionTargeting
	DeviceFeatureTargeting []*DeviceFeatureTargeting
	UserCountriesTargeting *UserCountriesTargeting

	unknown []byte
}

func (m *ModuleTargeting) marshal(b []byte) []byte {
	if m.SdkVersionTargeting != nil {
		b = appendMessage(b, 1, m.SdkVersionTargeting)
	}
	for _, f := range m.DeviceFeatureTargeting {
		b = appendMessage(b, 2, f)
	}
	if m.UserCountriesTargeting != nil {
		b = appendMessage(b, 3, m.UserCountriesTargeting)
	}
	return append(b, m.unknown...)
}

func (m *ModuleTargeting) Marshal() []byte {
	return m.marshal(nil)
}

func (m *ModuleTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.SdkVersionTargeting = new(SdkVersionTargeting)
			return true, m.SdkVersionTargeting.Unmarshal(v.b)
		case 2:
			f := new(DeviceFeatureTargeting)
			if err := f.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.DeviceFeatureTargeting = append(m.DeviceFeatureTargeting, f)
			return true, nil
		case 3:
			m.UserCountriesTargeting = new(UserCountriesTargeting)
			return true, m.UserCountriesTargeting.Unmarshal(v.b)
		}
		return false, nil
	})
}

// AssetsDirectoryTargeting qualifies one assets directory.
type AssetsDirectoryTargeting struct {
	Abi                      *AbiTargeting
	TextureCompressionFormat *TextureCompressionFormatTargeting
	Language                 *LanguageTargeting
	DeviceTier               *DeviceTierTargeting
	CountrySet               *CountrySetTargeting

	unknown []byte
}

func (m *AssetsDirectoryTargeting) marshal(b []byte) []byte {
	if m.Abi != nil {
		b = appendMessage(b, 1, m.Abi)
	}
	if m.TextureCompressionFormat != nil {
		b = appendMessage(b, 3, m.TextureCompressionFormat)
	}
	if m.Language != nil {
		b = appendMessage(b, 4, m.Language)
	}
	if m.DeviceTier != nil {
		b = appendMessage(b, 5, m.DeviceTier)
	}
	if m.CountrySet != nil {
		b = appendMessage(b, 6, m.CountrySet)
	}
	return append(b, m.unknown...)
}

func (m *AssetsDirectoryTargeting) Marshal() []byte {
	return m.marshal(nil)
}

func (m *AssetsDirectoryTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.Abi = new(AbiTargeting)
			return true, m.Abi.Unmarshal(v.b)
		case 3:
			m.TextureCompressionFormat = new(TextureCompressionFormatTargeting)
			return true, m.TextureCompressionFormat.Unmarshal(v.b)
		case 4:
			m.Language = new(LanguageTargeting)
			return true, m.Language.Unmarshal(v.b)
		case 5:
			m.DeviceTier = new(DeviceTierTargeting)
			return true, m.DeviceTier.Unmarshal(v.b)
		case 6:
			m.CountrySet = new(CountrySetTargeting)
			return true, m.CountrySet.Unmarshal(v.b)
		}
		return false, nil
	})
}

// NativeDirectoryTargeting qualifies one lib/<abi> directory.
type NativeDirectoryTargeting struct {
	Abi                      *Abi
	TextureCompressionFormat *TextureCompressionFormat
	Sanitizer                *Sanitizer

	unknown []byte
}

func (m *NativeDirectoryTargeting) marshal(b []byte) []byte {
	if m.Abi != nil {
		b = appendMessage(b, 1, m.Abi)
	}
	if m.TextureCompressionFormat != nil {
		b = appendMessage(b, 3, m.TextureCompressionFormat)
	}
	if m.Sanitizer != nil {
		b = appendMessage(b, 4, m.Sanitizer)
	}
	return append(b, m.unknown...)
}

func (m *NativeDirectoryTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.Abi = new(Abi)
			return true, m.Abi.Unmarshal(v.b)
		case 3:
			m.TextureCompressionFormat = new(TextureCompressionFormat)
			return true, m.TextureCompressionFormat.Unmarshal(v.b)
		case 4:
			m.Sanitizer = new(Sanitizer)
			return true, m.Sanitizer.Unmarshal(v.b)
		}
		return false, nil
	})
}

type ApexImageTargeting struct {
	MultiAbi *MultiAbiTargeting

	unknown []byte
}

func (m *ApexImageTargeting) marshal(b []byte) []byte {
	if m.MultiAbi != nil {
		b = appendMessage(b, 1, m.MultiAbi)
	}
	return append(b, m.unknown...)
}

func (m *ApexImageTargeting) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			m.MultiAbi = new(MultiAbiTargeting)
			return true, m.MultiAbi.Unmarshal(v.b)
		}
		return false, nil
	})
}
