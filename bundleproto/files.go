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

// Assets mirrors assets.pb: the targeted assets directories of a module.
type Assets struct {
	Directory []*TargetedAssetsDirectory

	unknown []byte
}

func (m *Assets) marshal(b []byte) []byte {
	for _, d := range m.Directory {
		b = appendMessage(b, 1, d)
	}
	return append(b, m.unknown...)
}

func (m *Assets) Marshal() []byte {
	return m.marshal(nil)
}

func (m *Assets) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			d := new(TargetedAssetsDirectory)
			if err := d.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Directory = append(m.Directory, d)
			return true, nil
		}
		return false, nil
	})
}

type TargetedAssetsDirectory struct {
	Path      string
	Targeting *AssetsDirectoryTargeting

	unknown []byte
}

func (m *TargetedAssetsDirectory) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Path)
	if m.Targeting != nil {
		b = appendMessage(b, 2, m.Targeting)
	}
	return append(b, m.unknown...)
}

func (m *TargetedAssetsDirectory) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Path = stringValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.Targeting = new(AssetsDirectoryTargeting)
			return true, m.Targeting.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

// NativeLibraries mirrors native.pb.
type NativeLibraries struct {
	Directory []*TargetedNativeDirectory

	unknown []byte
}

func (m *NativeLibraries) marshal(b []byte) []byte {
	for _, d := range m.Directory {
		b = appendMessage(b, 1, d)
	}
	return append(b, m.unknown...)
}

func (m *NativeLibraries) Marshal() []byte {
	return m.marshal(nil)
}

func (m *NativeLibraries) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			d := new(TargetedNativeDirectory)
			if err := d.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Directory = append(m.Directory, d)
			return true, nil
		}
		return false, nil
	})
}

type TargetedNativeDirectory struct {
	Path      string
	Targeting *NativeDirectoryTargeting

	unknown []byte
}

func (m *TargetedNativeDirectory) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Path)
	if m.Targeting != nil {
		b = appendMessage(b, 2, m.Targeting)
	}
	return append(b, m.unknown...)
}

func (m *TargetedNativeDirectory) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Path = stringValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.Targeting = new(NativeDirectoryTargeting)
			return true, m.Targeting.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

// ApexImages mirrors apex.pb.
type ApexImages struct {
	Image []*TargetedApexImage

	unknown []byte
}

func (m *ApexImages) marshal(b []byte) []byte {
	for _, i := range m.Image {
		b = appendMessage(b, 1, i)
	}
	return append(b, m.unknown...)
}

func (m *ApexImages) Marshal() []byte {
	return m.marshal(nil)
}

func (m *ApexImages) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			i := new(TargetedApexImage)
			if err := i.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Image = append(m.Image, i)
			return true, nil
		}
		return false, nil
	})
}

type TargetedApexImage struct {
	Path          string
	Targeting     *ApexImageTargeting
	BuildInfoPath string

	unknown []byte
}

func (m *TargetedApexImage) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Path)
	if m.Targeting != nil {
		b = appendMessage(b, 2, m.Targeting)
	}
	b = appendString(b, 3, m.BuildInfoPath)
	return append(b, m.unknown...)
}

func (m *TargetedApexImage) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Path = stringValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.Targeting = new(ApexImageTargeting)
			return true, m.Targeting.Unmarshal(v.b)
		case num == 3 && typ == protowire.BytesType:
			m.BuildInfoPath = stringValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}
