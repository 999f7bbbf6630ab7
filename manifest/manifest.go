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

// Package manifest reads and rewrites the proto-XML AndroidManifest.xml of a
// bundle module. Known Android attributes are addressed by resource id, not
// by name alone.
package manifest

import (
	"fmt"
	"strconv"

	"android/bundletool/bundleproto"
)

const (
	AndroidNamespace      = "http://schemas.android.com/apk/res/android"
	DistributionNamespace = "http://schemas.android.com/apk/distribution"
	ToolsNamespace        = "http://schemas.android.com/tools"
)

// Android attribute resource ids.
const (
	NameResourceId                 = 0x01010003
	IconResourceId                 = 0x01010002
	ValueResourceId                = 0x01010024
	ResourceResourceId             = 0x01010025
	HasCodeResourceId              = 0x0101000c
	AllowBackupResourceId          = 0x01010280
	VersionCodeResourceId          = 0x0101021b
	VersionNameResourceId          = 0x0101021c
	MinSdkVersionResourceId        = 0x0101020c
	MaxSdkVersionResourceId        = 0x01010271
	TargetSdkVersionResourceId     = 0x01010270
	ExtractNativeLibsResourceId    = 0x010104ea
	TargetSandboxVersionResourceId = 0x0101054c
	SplitNameResourceId            = 0x01010549
	IsFeatureSplitResourceId       = 0x0101055b
	IsSplitRequiredResourceId      = 0x01010591
	RoundIconResourceId            = 0x0101052c
	LocaleConfigResourceId         = 0x010106b2
	CertDigestResourceId           = 0x01010548
	VersionMajorResourceId         = 0x01010577
)

// FusedModulesMetadataName is the meta-data key standalone APKs carry to
// record which modules were fused in.
const FusedModulesMetadataName = "com.android.dynamic.apk.fused.modules"

// ModuleType is the declared type of a bundle module.
type ModuleType int

const (
	FeatureModule ModuleType = iota
	AssetModule
	MlModule
	SdkDependencyModule
)

func (t ModuleType) String() string {
	switch t {
	case AssetModule:
		return "asset-pack"
	case MlModule:
		return "ml-pack"
	case SdkDependencyModule:
		return "sdk-dependency"
	default:
		return "feature"
	}
}

// Manifest is an immutable view over a proto-XML manifest tree. Mutations go
// through Editor, which deep-copies.
type Manifest struct {
	root *bundleproto.XmlNode
}

// Parse decodes a proto-XML manifest.
func Parse(data []byte) (*Manifest, error) {
	node := new(bundleproto.XmlNode)
	if err := node.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parsing AndroidManifest.xml: %w", err)
	}
	if node.Element == nil || node.Element.Name != "manifest" {
		return nil, fmt.Errorf("AndroidManifest.xml has no <manifest> root element")
	}
	return &Manifest{root: node}, nil
}

// FromProto wraps an existing tree without copying.
func FromProto(root *bundleproto.XmlNode) *Manifest {
	return &Manifest{root: root}
}

// New builds a minimal manifest for the given package, declaring the dist
// namespace so later edits can attach delivery elements.
func New(packageName string) *Manifest {
	root := &bundleproto.XmlNode{
		Element: &bundleproto.XmlElement{
			Name: "manifest",
			NamespaceDeclaration: []*bundleproto.XmlNamespace{
				{Prefix: "android", Uri: AndroidNamespace},
				{Prefix: "dist", Uri: DistributionNamespace},
			},
			Attribute: []*bundleproto.XmlAttribute{
				{Name: "package", Value: packageName},
			},
		},
	}
	return &Manifest{root: root}
}

func (m *Manifest) Proto() *bundleproto.XmlNode {
	return m.root
}

func (m *Manifest) Marshal() []byte {
	return m.root.Marshal()
}

// Clone deep-copies the tree by round-tripping the wire form.
func (m *Manifest) Clone() *Manifest {
	node := new(bundleproto.XmlNode)
	if err := node.Unmarshal(m.root.Marshal()); err != nil {
		// The tree was produced by this package; re-reading it cannot fail.
		panic(err)
	}
	return &Manifest{root: node}
}

func (m *Manifest) manifestElement() *bundleproto.XmlElement {
	return m.root.Element
}

// childElement returns the first child element with the given namespace and
// name, or nil.
func childElement(e *bundleproto.XmlElement, namespace, name string) *bundleproto.XmlElement {
	if e == nil {
		return nil
	}
	for _, c := range e.Child {
		if c.Element != nil && c.Element.Name == name && c.Element.NamespaceUri == namespace {
			return c.Element
		}
	}
	return nil
}

func childElements(e *bundleproto.XmlElement, namespace, name string) []*bundleproto.XmlElement {
	var out []*bundleproto.XmlElement
	if e == nil {
		return nil
	}
	for _, c := range e.Child {
		if c.Element != nil && c.Element.Name == name && c.Element.NamespaceUri == namespace {
			out = append(out, c.Element)
		}
	}
	return out
}

// attributeById finds an attribute by resource id, falling back to the
// namespace + name pair for manifests compiled without attribute ids.
func attributeById(e *bundleproto.XmlElement, resourceId uint32, namespace, name string) *bundleproto.XmlAttribute {
	if e == nil {
		return nil
	}
	for _, a := range e.Attribute {
		if a.ResourceId == resourceId && resourceId != 0 {
			return a
		}
	}
	for _, a := range e.Attribute {
		if a.ResourceId == 0 && a.NamespaceUri == namespace && a.Name == name {
			return a
		}
	}
	return nil
}

func attribute(e *bundleproto.XmlElement, namespace, name string) *bundleproto.XmlAttribute {
	if e == nil {
		return nil
	}
	for _, a := range e.Attribute {
		if a.NamespaceUri == namespace && a.Name == name {
			return a
		}
	}
	return nil
}

// PackageName returns the package attribute of <manifest>.
func (m *Manifest) PackageName() string {
	if a := attribute(m.manifestElement(), "", "package"); a != nil {
		return a.Value
	}
	return ""
}

// SplitId returns the split attribute of <manifest>, empty for base.
func (m *Manifest) SplitId() string {
	if a := attribute(m.manifestElement(), "", "split"); a != nil {
		return a.Value
	}
	return ""
}

// VersionCode returns android:versionCode.
func (m *Manifest) VersionCode() (int32, bool) {
	a := attributeById(m.manifestElement(), VersionCodeResourceId, AndroidNamespace, "versionCode")
	if a == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(a.Value, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

func (m *Manifest) usesSdk() *bundleproto.XmlElement {
	return childElement(m.manifestElement(), "", "uses-sdk")
}

// MinSdkVersion returns android:minSdkVersion, defaulting to 1.
func (m *Manifest) MinSdkVersion() int32 {
	a := attributeById(m.usesSdk(), MinSdkVersionResourceId, AndroidNamespace, "minSdkVersion")
	if a == nil {
		return 1
	}
	v, err := strconv.ParseInt(a.Value, 10, 32)
	if err != nil {
		return 1
	}
	return int32(v)
}

// MaxSdkVersion returns android:maxSdkVersion when present.
func (m *Manifest) MaxSdkVersion() (int32, bool) {
	a := attributeById(m.usesSdk(), MaxSdkVersionResourceId, AndroidNamespace, "maxSdkVersion")
	if a == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(a.Value, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// HasCode returns android:hasCode on <application>, defaulting to true.
func (m *Manifest) HasCode() bool {
	app := childElement(m.manifestElement(), "", "application")
	a := attributeById(app, HasCodeResourceId, AndroidNamespace, "hasCode")
	if a == nil {
		return true
	}
	return a.Value != "false"
}

// ExtractNativeLibs returns android:extractNativeLibs when present.
func (m *Manifest) ExtractNativeLibs() (bool, bool) {
	app := childElement(m.manifestElement(), "", "application")
	a := attributeById(app, ExtractNativeLibsResourceId, AndroidNamespace, "extractNativeLibs")
	if a == nil {
		return false, false
	}
	return a.Value == "true", true
}

func (m *Manifest) distModule() *bundleproto.XmlElement {
	return childElement(m.manifestElement(), DistributionNamespace, "module")
}

// ModuleType returns the dist:type of <dist:module>, defaulting to feature.
func (m *Manifest) ModuleType() ModuleType {
	a := attribute(m.distModule(), DistributionNamespace, "type")
	if a == nil {
		return FeatureModule
	}
	switch a.Value {
	case "asset-pack":
		return AssetModule
	case "ml-pack":
		return MlModule
	case "sdk-dependency":
		return SdkDependencyModule
	default:
		return FeatureModule
	}
}

// IsInstantModule returns dist:instant on <dist:module>.
func (m *Manifest) IsInstantModule() bool {
	a := attribute(m.distModule(), DistributionNamespace, "instant")
	return a != nil && a.Value == "true"
}

// UsesSplits lists the module dependencies declared with <uses-split>.
func (m *Manifest) UsesSplits() []string {
	var out []string
	for _, e := range childElements(m.manifestElement(), "", "uses-split") {
		if a := attributeById(e, NameResourceId, AndroidNamespace, "name"); a != nil {
			out = append(out, a.Value)
		}
	}
	return out
}

// MetadataValue returns the android:value of the <meta-data> with the given
// android:name under <application>.
func (m *Manifest) MetadataValue(name string) (string, bool) {
	app := childElement(m.manifestElement(), "", "application")
	for _, e := range childElements(app, "", "meta-data") {
		n := attributeById(e, NameResourceId, AndroidNamespace, "name")
		if n == nil || n.Value != name {
			continue
		}
		if v := attributeById(e, ValueResourceId, AndroidNamespace, "value"); v != nil {
			return v.Value, true
		}
		return "", true
	}
	return "", false
}

// MetadataResource returns the android:resource reference id of the
// <meta-data> with the given android:name under <application>.
func (m *Manifest) MetadataResource(name string) (uint32, bool) {
	app := childElement(m.manifestElement(), "", "application")
	for _, e := range childElements(app, "", "meta-data") {
		n := attributeById(e, NameResourceId, AndroidNamespace, "name")
		if n == nil || n.Value != name {
			continue
		}
		r := attributeById(e, ResourceResourceId, AndroidNamespace, "resource")
		if r == nil {
			return 0, false
		}
		if r.CompiledItem != nil && r.CompiledItem.Ref != nil {
			return r.CompiledItem.Ref.Id, true
		}
		return 0, false
	}
	return 0, false
}
