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

package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"android/bundletool/bundleproto"
)

// Editor mutates a private copy of a manifest. Mutators are declarative and
// order-insensitive except for the additive ones that append children. Save
// returns the edited manifest; saving twice yields byte-identical output.
type Editor struct {
	m *Manifest
}

func (m *Manifest) Edit() *Editor {
	return &Editor{m: m.Clone()}
}

func (e *Editor) Save() *Manifest {
	return e.m.Clone()
}

func setAttribute(el *bundleproto.XmlElement, namespace, name string, resourceId uint32, value string) {
	a := attributeById(el, resourceId, namespace, name)
	if a == nil && resourceId == 0 {
		a = attribute(el, namespace, name)
	}
	if a == nil {
		a = &bundleproto.XmlAttribute{NamespaceUri: namespace, Name: name, ResourceId: resourceId}
		el.Attribute = append(el.Attribute, a)
	}
	a.NamespaceUri = namespace
	a.Name = name
	a.ResourceId = resourceId
	a.Value = value
	a.CompiledItem = nil
}

func removeAttribute(el *bundleproto.XmlElement, resourceId uint32, namespace, name string) {
	if el == nil {
		return
	}
	out := el.Attribute[:0]
	for _, a := range el.Attribute {
		if (resourceId != 0 && a.ResourceId == resourceId) ||
			(a.NamespaceUri == namespace && a.Name == name) {
			continue
		}
		out = append(out, a)
	}
	el.Attribute = out
}

func getOrCreateChild(el *bundleproto.XmlElement, namespace, name string) *bundleproto.XmlElement {
	if c := childElement(el, namespace, name); c != nil {
		return c
	}
	c := &bundleproto.XmlElement{NamespaceUri: namespace, Name: name}
	el.Child = append(el.Child, &bundleproto.XmlNode{Element: c})
	return c
}

func removeChildren(el *bundleproto.XmlElement, keep func(*bundleproto.XmlElement) bool) {
	if el == nil {
		return
	}
	out := el.Child[:0]
	for _, c := range el.Child {
		if c.Element != nil && !keep(c.Element) {
			continue
		}
		out = append(out, c)
	}
	el.Child = out
}

func (e *Editor) manifest() *bundleproto.XmlElement {
	return e.m.manifestElement()
}

func (e *Editor) application() *bundleproto.XmlElement {
	return getOrCreateChild(e.manifest(), "", "application")
}

func (e *Editor) SetPackage(pkg string) *Editor {
	setAttribute(e.manifest(), "", "package", 0, pkg)
	return e
}

func (e *Editor) SetVersionCode(code int32) *Editor {
	setAttribute(e.manifest(), AndroidNamespace, "versionCode", VersionCodeResourceId,
		strconv.FormatInt(int64(code), 10))
	return e
}

func (e *Editor) SetVersionName(name string) *Editor {
	setAttribute(e.manifest(), AndroidNamespace, "versionName", VersionNameResourceId, name)
	return e
}

// SetSplitId sets the split attribute; an empty id removes it (base).
func (e *Editor) SetSplitId(id string) *Editor {
	if id == "" {
		removeAttribute(e.manifest(), 0, "", "split")
		return e
	}
	setAttribute(e.manifest(), "", "split", 0, id)
	return e
}

// SetSplitIdForFeatureSplit marks a feature split and its id.
func (e *Editor) SetSplitIdForFeatureSplit(id string) *Editor {
	e.SetSplitId(id)
	setAttribute(e.manifest(), AndroidNamespace, "isFeatureSplit", IsFeatureSplitResourceId, "true")
	return e
}

// SetConfigForSplit records the parent split of a config split.
func (e *Editor) SetConfigForSplit(parent string) *Editor {
	setAttribute(e.manifest(), "", "configForSplit", 0, parent)
	return e
}

func (e *Editor) SetMinSdkVersion(v int32) *Editor {
	usesSdk := getOrCreateChild(e.manifest(), "", "uses-sdk")
	setAttribute(usesSdk, AndroidNamespace, "minSdkVersion", MinSdkVersionResourceId,
		strconv.FormatInt(int64(v), 10))
	return e
}

func (e *Editor) SetMaxSdkVersion(v int32) *Editor {
	usesSdk := getOrCreateChild(e.manifest(), "", "uses-sdk")
	setAttribute(usesSdk, AndroidNamespace, "maxSdkVersion", MaxSdkVersionResourceId,
		strconv.FormatInt(int64(v), 10))
	return e
}

func (e *Editor) SetTargetSandboxVersion(v int32) *Editor {
	setAttribute(e.manifest(), AndroidNamespace, "targetSandboxVersion", TargetSandboxVersionResourceId,
		strconv.FormatInt(int64(v), 10))
	return e
}

func (e *Editor) SetHasCode(hasCode bool) *Editor {
	setAttribute(e.application(), AndroidNamespace, "hasCode", HasCodeResourceId,
		strconv.FormatBool(hasCode))
	return e
}

func (e *Editor) SetExtractNativeLibs(extract bool) *Editor {
	setAttribute(e.application(), AndroidNamespace, "extractNativeLibs", ExtractNativeLibsResourceId,
		strconv.FormatBool(extract))
	return e
}

func (e *Editor) SetAllowBackup(allow bool) *Editor {
	setAttribute(e.application(), AndroidNamespace, "allowBackup", AllowBackupResourceId,
		strconv.FormatBool(allow))
	return e
}

func (e *Editor) SetIcon(resourceId uint32) *Editor {
	e.setResourceRefAttribute(e.application(), "icon", IconResourceId, resourceId)
	return e
}

func (e *Editor) SetRoundIcon(resourceId uint32) *Editor {
	e.setResourceRefAttribute(e.application(), "roundIcon", RoundIconResourceId, resourceId)
	return e
}

func (e *Editor) SetLocaleConfig(resourceId uint32) *Editor {
	e.setResourceRefAttribute(e.application(), "localeConfig", LocaleConfigResourceId, resourceId)
	return e
}

func (e *Editor) setResourceRefAttribute(el *bundleproto.XmlElement, name string, attrId, refId uint32) {
	setAttribute(el, AndroidNamespace, name, attrId, fmt.Sprintf("@0x%08x", refId))
	a := attributeById(el, attrId, AndroidNamespace, name)
	a.CompiledItem = &bundleproto.Item{Ref: &bundleproto.Reference{Id: refId}}
}

// metaDataElement finds the application <meta-data> with the given
// android:name.
func (e *Editor) metaDataElement(name string) *bundleproto.XmlElement {
	for _, md := range childElements(e.application(), "", "meta-data") {
		if a := attributeById(md, NameResourceId, AndroidNamespace, "name"); a != nil && a.Value == name {
			return md
		}
	}
	return nil
}

func (e *Editor) addMetaData(name string, set func(*bundleproto.XmlElement)) *Editor {
	md := e.metaDataElement(name)
	if md == nil {
		md = &bundleproto.XmlElement{Name: "meta-data"}
		setAttribute(md, AndroidNamespace, "name", NameResourceId, name)
		app := e.application()
		app.Child = append(app.Child, &bundleproto.XmlNode{Element: md})
	}
	set(md)
	return e
}

// AddMetadataString adds or replaces a string <meta-data>; idempotent by key.
func (e *Editor) AddMetadataString(name, value string) *Editor {
	return e.addMetaData(name, func(md *bundleproto.XmlElement) {
		setAttribute(md, AndroidNamespace, "value", ValueResourceId, value)
	})
}

func (e *Editor) AddMetadataInt(name string, value int32) *Editor {
	return e.AddMetadataString(name, strconv.FormatInt(int64(value), 10))
}

func (e *Editor) AddMetadataBool(name string, value bool) *Editor {
	return e.AddMetadataString(name, strconv.FormatBool(value))
}

// AddMetadataResourceRef adds or replaces a resource-reference <meta-data>.
func (e *Editor) AddMetadataResourceRef(name string, resourceId uint32) *Editor {
	return e.addMetaData(name, func(md *bundleproto.XmlElement) {
		setAttribute(md, AndroidNamespace, "resource", ResourceResourceId, fmt.Sprintf("@0x%08x", resourceId))
		a := attributeById(md, ResourceResourceId, AndroidNamespace, "resource")
		a.CompiledItem = &bundleproto.Item{Ref: &bundleproto.Reference{Id: resourceId}}
	})
}

// SetFusedModuleNames records the fused module set as sorted-distinct
// comma-joined metadata and marks the APK split-required.
func (e *Editor) SetFusedModuleNames(names []string) *Editor {
	seen := make(map[string]bool)
	var distinct []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			distinct = append(distinct, n)
		}
	}
	sort.Strings(distinct)
	e.AddMetadataString(FusedModulesMetadataName, strings.Join(distinct, ","))
	setAttribute(e.application(), AndroidNamespace, "isSplitRequired", IsSplitRequiredResourceId, "true")
	return e
}

// RemoveSplitName drops android:splitName from every component, converting
// between install and instant forms.
func (e *Editor) RemoveSplitName() *Editor {
	app := childElement(e.manifest(), "", "application")
	if app == nil {
		return e
	}
	for _, c := range app.Child {
		if c.Element != nil {
			removeAttribute(c.Element, SplitNameResourceId, AndroidNamespace, "splitName")
		}
	}
	return e
}

// RemoveUnknownSplitComponents strips <activity>, <service> and <provider>
// elements whose android:splitName references a module outside knownModules.
func (e *Editor) RemoveUnknownSplitComponents(knownModules map[string]bool) *Editor {
	app := childElement(e.manifest(), "", "application")
	removeChildren(app, func(el *bundleproto.XmlElement) bool {
		switch el.Name {
		case "activity", "service", "provider":
		default:
			return true
		}
		a := attributeById(el, SplitNameResourceId, AndroidNamespace, "splitName")
		return a == nil || knownModules[a.Value]
	})
	return e
}

// AddUsesSdkLibrary declares a dependency on a runtime-enabled SDK;
// idempotent by library name.
func (e *Editor) AddUsesSdkLibrary(name, certDigest string, versionMajor int32) *Editor {
	app := e.application()
	for _, el := range childElements(app, "", "uses-sdk-library") {
		if a := attributeById(el, NameResourceId, AndroidNamespace, "name"); a != nil && a.Value == name {
			return e
		}
	}
	lib := &bundleproto.XmlElement{Name: "uses-sdk-library"}
	setAttribute(lib, AndroidNamespace, "name", NameResourceId, name)
	setAttribute(lib, AndroidNamespace, "certDigest", CertDigestResourceId, certDigest)
	setAttribute(lib, AndroidNamespace, "versionMajor", VersionMajorResourceId,
		strconv.FormatInt(int64(versionMajor), 10))
	app.Child = append(app.Child, &bundleproto.XmlNode{Element: lib})
	return e
}

// SetSdkLibraryElement declares this APK as an SDK library.
func (e *Editor) SetSdkLibraryElement(name string, versionMajor int32) *Editor {
	app := e.application()
	lib := getOrCreateChild(app, "", "sdk-library")
	setAttribute(lib, AndroidNamespace, "name", NameResourceId, name)
	setAttribute(lib, AndroidNamespace, "versionMajor", VersionMajorResourceId,
		strconv.FormatInt(int64(versionMajor), 10))
	return e
}

// SetInstallTimeDelivery builds the <dist:delivery> install-time tree. A
// <dist:removable dist:value="false"> child is added only when removable is
// false. Fusing inclusion is set separately, by SetFusingInclude.
func (e *Editor) SetInstallTimeDelivery(removable bool) *Editor {
	module := getOrCreateChild(e.manifest(), DistributionNamespace, "module")
	delivery := getOrCreateChild(module, DistributionNamespace, "delivery")
	installTime := getOrCreateChild(delivery, DistributionNamespace, "install-time")
	if !removable {
		rem := getOrCreateChild(installTime, DistributionNamespace, "removable")
		setAttribute(rem, DistributionNamespace, "value", 0, "false")
	}
	return e
}

func (e *Editor) SetOnDemandDelivery() *Editor {
	module := getOrCreateChild(e.manifest(), DistributionNamespace, "module")
	delivery := getOrCreateChild(module, DistributionNamespace, "delivery")
	getOrCreateChild(delivery, DistributionNamespace, "on-demand")
	return e
}

func (e *Editor) SetFusingInclude(include bool) *Editor {
	module := getOrCreateChild(e.manifest(), DistributionNamespace, "module")
	fusing := getOrCreateChild(module, DistributionNamespace, "fusing")
	setAttribute(fusing, DistributionNamespace, "include", 0, strconv.FormatBool(include))
	return e
}

// RemovePrivacySandboxSdkElements deletes application subtrees carrying the
// tools:requiredByPrivacySandboxSdk marker.
func (e *Editor) RemovePrivacySandboxSdkElements() *Editor {
	app := childElement(e.manifest(), "", "application")
	removeChildren(app, func(el *bundleproto.XmlElement) bool {
		a := attribute(el, ToolsNamespace, "requiredByPrivacySandboxSdk")
		return a == nil || a.Value != "true"
	})
	return e
}

// StripPrivacySandboxSdkMarkers keeps marked elements but drops the marker
// attribute.
func (e *Editor) StripPrivacySandboxSdkMarkers() *Editor {
	app := childElement(e.manifest(), "", "application")
	if app == nil {
		return e
	}
	for _, c := range app.Child {
		if c.Element != nil {
			removeAttribute(c.Element, 0, ToolsNamespace, "requiredByPrivacySandboxSdk")
		}
	}
	return e
}
