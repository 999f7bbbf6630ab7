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

// Proto-XML, the aapt2 encoding of AndroidManifest.xml and compiled XML
// resources inside a bundle.

package bundleproto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type XmlNode struct {
	// One of Element or Text is set.
	Element *XmlElement
	Text    string
	HasText bool

	unknown []byte
}

func (m *XmlNode) marshal(b []byte) []byte {
	if m.Element != nil {
		b = appendMessage(b, 1, m.Element)
	} else if m.HasText {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.Text)
	}
	return append(b, m.unknown...)
}

func (m *XmlNode) Marshal() []byte {
	return m.marshal(nil)
}

func (m *XmlNode) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Element = new(XmlElement)
			return true, m.Element.Unmarshal(v.b)
		case num == 2 && typ == protowire.BytesType:
			m.Text = stringValue(v)
			m.HasText = true
		default:
			return false, nil
		}
		return true, nil
	})
}

type XmlElement struct {
	NamespaceDeclaration []*XmlNamespace
	NamespaceUri         string
	Name                 string
	Attribute            []*XmlAttribute
	Child                []*XmlNode

	unknown []byte
}

func (m *XmlElement) marshal(b []byte) []byte {
	for _, ns := range m.NamespaceDeclaration {
		b = appendMessage(b, 1, ns)
	}
	b = appendString(b, 2, m.NamespaceUri)
	b = appendString(b, 3, m.Name)
	for _, a := range m.Attribute {
		b = appendMessage(b, 4, a)
	}
	for _, c := range m.Child {
		b = appendMessage(b, 5, c)
	}
	return append(b, m.unknown...)
}

func (m *XmlElement) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			ns := new(XmlNamespace)
			if err := ns.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.NamespaceDeclaration = append(m.NamespaceDeclaration, ns)
		case num == 2 && typ == protowire.BytesType:
			m.NamespaceUri = stringValue(v)
		case num == 3 && typ == protowire.BytesType:
			m.Name = stringValue(v)
		case num == 4 && typ == protowire.BytesType:
			a := new(XmlAttribute)
			if err := a.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Attribute = append(m.Attribute, a)
		case num == 5 && typ == protowire.BytesType:
			c := new(XmlNode)
			if err := c.Unmarshal(v.b); err != nil {
				return false, err
			}
			m.Child = append(m.Child, c)
		default:
			return false, nil
		}
		return true, nil
	})
}

type XmlNamespace struct {
	Prefix string
	Uri    string

	unknown []byte
}

func (m *XmlNamespace) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Prefix)
	b = appendString(b, 2, m.Uri)
	return append(b, m.unknown...)
}

func (m *XmlNamespace) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Prefix = stringValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.Uri = stringValue(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

type XmlAttribute struct {
	NamespaceUri string
	Name         string
	Value        string
	ResourceId   uint32
	CompiledItem *Item

	unknown []byte
}

func (m *XmlAttribute) marshal(b []byte) []byte {
	b = appendString(b, 1, m.NamespaceUri)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Value)
	b = appendUint32(b, 5, m.ResourceId)
	if m.CompiledItem != nil {
		b = appendMessage(b, 6, m.CompiledItem)
	}
	return append(b, m.unknown...)
}

func (m *XmlAttribute) Unmarshal(data []byte) error {
	return eachField(data, &m.unknown, func(num protowire.Number, typ protowire.Type, v value) (bool, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.NamespaceUri = stringValue(v)
		case num == 2 && typ == protowire.BytesType:
			m.Name = stringValue(v)
		case num == 3 && typ == protowire.BytesType:
			m.Value = stringValue(v)
		case num == 5 && typ == protowire.VarintType:
			m.ResourceId = uint32(v.x)
		case num == 6 && typ == protowire.BytesType:
			m.CompiledItem = new(Item)
			return true, m.CompiledItem.Unmarshal(v.b)
		default:
			return false, nil
		}
		return true, nil
	})
}
