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

// aapt2 resource table (resources.pb). Only the parts the pipeline reads or
// rewrites are modeled: the package/type/entry skeleton, the per-value
// configuration axes used for splitting, and every site that can hold a
// resource Reference or FileReference. Everything else rides along unknown.

package bundleproto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type ResourceTable struct {
	// SourcePool is the serialized string pool; treated as opaque.
	SourcePool []byte
	Package    []*Package

	unknown []byte
}

func (m *ResourceTable) marshal(b []byte) []byte {
	b = appendBytes(b, 1, m.SourcePool)
	for _, p := range m.Package {
		b = appendMessage(b, 2, p)
	}
	return append(b, m.unknown...)
}

func (m *ResourceTable) Marshal() []byte {
	return m.marshal(nil)
}

func (m *ResourceTable) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.SourcePool = bytesValue(v)
		case num == 2 && typ == protowire.BytesType:
			p := new(Package)
			if err := p.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Package = append(m.Package, p)
		default:
			return false, nil
		}
		return true, nil
	})
}

type Package struct {
	PackageId   *PackageId
	PackageName string
	Type        []*Type

	unknown []byte
}

func (m *Package) marshal(b []byte) []byte {
	if m.PackageId != nil {
		b = appendMessage(b, 1, m.PackageId)
	}
	b = appendString(b, 2, m.PackageName)
	for _, t := range m.Type {
		b = appendMessage(b, 3, t)
	}
	return append(b, m.unknown...)
}

func (m *Package) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.PackageId = new(PackageId)
			return true, m.PackageId.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.PackageName = stringValue(v)
		case num == 3 && typ == protowire.BytesType:
			t := new(Type)
			if err := t.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Type = append(m.Type, t)
		default:
			return false, nil
		}
		return true, nil
	})
}

type PackageId struct {
	Id uint32

	unknown []byte
}

func (m *PackageId) marshal(b []byte) []byte {
	b = appendUint32(b, 1, m.Id)
	return append(b, m.unknown...)
}

func (m *PackageId) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Id = uint32(v.x)
			return true, nil
		}
		return false, nil
	})
}

type Type struct {
	TypeId *TypeId
	Name   string
	Entry  []*Entry

	unknown []byte
}

func (m *Type) marshal(b []byte) []byte {
	if m.TypeId != nil {
		b = appendMessage(b, 1, m.TypeId)
	}
	b = appendString(b, 2, m.Name)
	for _, e := range m.Entry {
		b = appendMessage(b, 3, e)
	}
	return append(b, m.unknown...)
}

func (m *Type) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.TypeId = new(TypeId)
			return true, m.TypeId.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.Name = stringValue(v)
		case num == 3 && typ == protowire.BytesType:
			e := new(Entry)
			if err := e.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Entry = append(m.Entry, e)
		default:
			return false, nil
		}
		return true, nil
	})
}

type TypeId struct {
	Id uint32

	unknown []byte
}

func (m *TypeId) marshal(b []byte) []byte {
	b = appendUint32(b, 1, m.Id)
	return append(b, m.unknown...)
}

func (m *TypeId) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Id = uint32(v.x)
			return true, nil
		}
		return false, nil
	})
}

type Entry struct {
	EntryId     *EntryId
	Name        string
	ConfigValue []*ConfigValue

	unknown []byte
}

func (m *Entry) marshal(b []byte) []byte {
	if m.EntryId != nil {
		b = appendMessage(b, 1, m.EntryId)
	}
	b = appendString(b, 2, m.Name)
	for _, cv := range m.ConfigValue {
		b = appendMessage(b, 6, cv)
	}
	return append(b, m.unknown...)
}

func (m *Entry) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.EntryId = new(EntryId)
			return true, m.EntryId.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.Name = stringValue(v)
		case num == 6 && typ == protowire.BytesType:
			cv := new(ConfigValue)
			if err := cv.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.ConfigValue = append(m.ConfigValue, cv)
		default:
			return false, nil
		}
		return true, nil
	})
}

type EntryId struct {
	Id uint32

	unknown []byte
}

func (m *EntryId) marshal(b []byte) []byte {
	b = appendUint32(b, 1, m.Id)
	return append(b, m.unknown...)
}

func (m *EntryId) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.VarintType {
			m.Id = uint32(v.x)
			return true, nil
		}
		return false, nil
	})
}

type ConfigValue struct {
	Config *Configuration
	Value  *Value

	unknown []byte
}

func (m *ConfigValue) marshal(b []byte) []byte {
	if m.Config != nil {
		b = appendMessage(b, 1, m.Config)
	}
	if m.Value != nil {
		b = appendMessage(b, 2, m.Value)
	}
	return append(b, m.unknown...)
}

func (m *ConfigValue) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Config = new(Configuration)
			return true, m.Config.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.Value = new(Value)
			return true, m.Value.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

// Configuration models the axes the splitters partition on; every other
// qualifier is preserved but opaque to this tool.
type Configuration struct {
	Locale     string
	Density    uint32
	SdkVersion uint32

	unknown []byte
}

func (m *Configuration) marshal(b []byte) []byte {
	b = appendString(b, 3, m.Locale)
	b = appendUint32(b, 10, m.Density)
	b = appendUint32(b, 19, m.SdkVersion)
	return append(b, m.unknown...)
}

func (m *Configuration) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 3 && typ == protowire.BytesType:
			m.Locale = stringValue(v)
		case num == 10 && typ == protowire.VarintType:
			m.Density = uint32(v.x)
		case num == 19 && typ == protowire.VarintType:
			m.SdkVersion = uint32(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

// HasQualifiers reports whether the configuration carries any qualifier,
// i.e. is not the default (empty) configuration. Unmodeled qualifiers count.
func (m *Configuration) HasQualifiers() bool {
	return m.Locale != "" || m.Density != 0 || m.SdkVersion != 0 || len(m.unknown) > 0
}

type Value struct {
	Item          *Item
	CompoundValue *CompoundValue

	unknown []byte
}

func (m *Value) marshal(b []byte) []byte {
	if m.Item != nil {
		b = appendMessage(b, 1, m.Item)
	}
	if m.CompoundValue != nil {
		b = appendMessage(b, 2, m.CompoundValue)
	}
	return append(b, m.unknown...)
}

func (m *Value) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Item = new(Item)
			return true, m.Item.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.CompoundValue = new(CompoundValue)
			return true, m.CompoundValue.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type Item struct {
	Ref  *Reference
	File *FileReference

	unknown []byte
}

func (m *Item) marshal(b []byte) []byte {
	if m.Ref != nil {
		b = appendMessage(b, 1, m.Ref)
	}
	if m.File != nil {
		b = appendMessage(b, 5, m.File)
	}
	return append(b, m.unknown...)
}

func (m *Item) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Ref = new(Reference)
			return true, m.Ref.Unmarshal(v.b)
		case num == 5 && typ == protowire.BytesType:
			m.File = new(FileReference)
			return true, m.File.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type CompoundValue struct {
	Attr      *Attribute
	Style     *Style
	Styleable *Styleable
	Array     *Array
	Plural    *Plural

	unknown []byte
}

func (m *CompoundValue) marshal(b []byte) []byte {
	if m.Attr != nil {
		b = appendMessage(b, 1, m.Attr)
	}
	if m.Style != nil {
		b = appendMessage(b, 2, m.Style)
	}
	if m.Styleable != nil {
		b = appendMessage(b, 3, m.Styleable)
	}
	if m.Array != nil {
		b = appendMessage(b, 4, m.Array)
	}
	if m.Plural != nil {
		b = appendMessage(b, 5, m.Plural)
	}
	return append(b, m.unknown...)
}

func (m *CompoundValue) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if typ != protowire.BytesType {
			return false, nil
		}
		switch num {
		case 1:
			m.Attr = new(Attribute)
			return true, m.Attr.Unmarshal(v.b)
		case 2:
			m.Style = new(Style)
			return true, m.Style.Unmarshal(v.b)
		case 3:
			m.Styleable = new(Styleable)
			return true, m.Styleable.Unmarshal(v.b)
		case 4:
			m.Array = new(Array)
			return true, m.Array.Unmarshal(v.b)
		case 5:
			m.Plural = new(Plural)
			return true, m.Plural.Unmarshal(v.b)
		}
		return false, nil
	})
}

type Reference struct {
	// Type is RESOURCE (0) or ATTRIBUTE (1).
	Type int32
	Id   uint32
	Name string

	unknown []byte
}

func (m *Reference) marshal(b []byte) []byte {
	b = appendEnum(b, 1, m.Type)
	b = appendUint32(b, 2, m.Id)
	b = appendString(b, 3, m.Name)
	return append(b, m.unknown...)
}

func (m *Reference) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			m.Type = int32(v.x)
		case num == 2 && typ == protowire.VarintType:
			m.Id = uint32(v.x)
		case num == 3 && typ == protowire.BytesType:
			m.Name = stringValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

type FileReference struct {
	Path string
	// Type is the FileReference.Type enum (PNG, BINARY_XML, PROTO_XML, ...).
	Type int32

	unknown []byte
}

func (m *FileReference) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Path)
	b = appendEnum(b, 2, m.Type)
	return append(b, m.unknown...)
}

func (m *FileReference) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Path = stringValue(v)
		case num == 2 && typ == protowire.VarintType:
			m.Type = int32(v.x)
		default:
			return false, nil
		}
		return true, nil
	})
}

type Style struct {
	Parent *Reference
	Entry  []*StyleEntry

	unknown []byte
}

func (m *Style) marshal(b []byte) []byte {
	if m.Parent != nil {
		b = appendMessage(b, 1, m.Parent)
	}
	for _, e := range m.Entry {
		b = appendMessage(b, 3, e)
	}
	return append(b, m.unknown...)
}

func (m *Style) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Parent = new(Reference)
			return true, m.Parent.Unmarshal(v.b)
		case num == 3 && typ == protowire.BytesType:
			e := new(StyleEntry)
			if err := e.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Entry = append(m.Entry, e)
		default:
			return false, nil
		}
		return true, nil
	})
}

type StyleEntry struct {
	Key  *Reference
	Item *Item

	unknown []byte
}

func (m *StyleEntry) marshal(b []byte) []byte {
	if m.Key != nil {
		b = appendMessage(b, 3, m.Key)
	}
	if m.Item != nil {
		b = appendMessage(b, 4, m.Item)
	}
	return append(b, m.unknown...)
}

func (m *StyleEntry) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 3 && typ == protowire.BytesType:
			m.Key = new(Reference)
			return true, m.Key.Unmarshal(v.b)
		case num == 4 && typ == protowire.BytesType:
			m.Item = new(Item)
			return true, m.Item.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type Styleable struct {
	Entry []*StyleableEntry

	unknown []byte
}

func (m *Styleable) marshal(b []byte) []byte {
	for _, e := range m.Entry {
		b = appendMessage(b, 1, e)
	}
	return append(b, m.unknown...)
}

func (m *Styleable) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			e := new(StyleableEntry)
			if err := e.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Entry = append(m.Entry, e)
			return true, nil
		}
		return false, nil
	})
}

type StyleableEntry struct {
	Attr *Reference

	unknown []byte
}

func (m *StyleableEntry) marshal(b []byte) []byte {
	if m.Attr != nil {
		b = appendMessage(b, 3, m.Attr)
	}
	return append(b, m.unknown...)
}

func (m *StyleableEntry) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 3 && typ == protowire.BytesType {
			m.Attr = new(Reference)
			return true, m.Attr.Unmarshal(v.b)
		}
		return false, nil
	})
}

type Array struct {
	Element []*ArrayElement

	unknown []byte
}

func (m *Array) marshal(b []byte) []byte {
	for _, e := range m.Element {
		b = appendMessage(b, 1, e)
	}
	return append(b, m.unknown...)
}

func (m *Array) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			e := new(ArrayElement)
			if err := e.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Element = append(m.Element, e)
			return true, nil
		}
		return false, nil
	})
}

type ArrayElement struct {
	Item *Item

	unknown []byte
}

func (m *ArrayElement) marshal(b []byte) []byte {
	if m.Item != nil {
		b = appendMessage(b, 3, m.Item)
	}
	return append(b, m.unknown...)
}

func (m *ArrayElement) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 3 && typ == protowire.BytesType {
			m.Item = new(Item)
			return true, m.Item.Unmarshal(v.b)
		}
		return false, nil
	})
}

type Plural struct {
	Entry []*PluralEntry

	unknown []byte
}

func (m *Plural) marshal(b []byte) []byte {
	for _, e := range m.Entry {
		b = appendMessage(b, 1, e)
	}
	return append(b, m.unknown...)
}

func (m *Plural) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 1 && typ == protowire.BytesType {
			e := new(PluralEntry)
			if err := e.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Entry = append(m.Entry, e)
			return true, nil
		}
		return false, nil
	})
}

type PluralEntry struct {
	Arity int32
	Item  *Item

	unknown []byte
}

func (m *PluralEntry) marshal(b []byte) []byte {
	b = appendEnum(b, 3, m.Arity)
	if m.Item != nil {
		b = appendMessage(b, 4, m.Item)
	}
	return append(b, m.unknown...)
}

func (m *PluralEntry) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 3 && typ == protowire.VarintType:
			m.Arity = int32(v.x)
		case num == 4 && typ == protowire.BytesType:
			m.Item = new(Item)
			return true, m.Item.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}

type Attribute struct {
	Symbol []*AttributeSymbol

	unknown []byte
}

func (m *Attribute) marshal(b []byte) []byte {
	for _, s := range m.Symbol {
		b = appendMessage(b, 4, s)
	}
	return append(b, m.unknown...)
}

func (m *Attribute) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 4 && typ == protowire.BytesType {
			s := new(AttributeSymbol)
			if err := s.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Symbol = append(m.Symbol, s)
			return true, nil
		}
		return false, nil
	})
}

type AttributeSymbol struct {
	Name *Reference

	unknown []byte
}

func (m *AttributeSymbol) marshal(b []byte) []byte {
	if m.Name != nil {
		b = appendMessage(b, 3, m.Name)
	}
	return append(b, m.unknown...)
}

func (m *AttributeSymbol) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		if num == 3 && typ == protowire.BytesType {
			m.Name = new(Reference)
			return true, m.Name.Unmarshal(v.b)
		}
		return false, nil
	})
}
