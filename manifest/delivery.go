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
	"strconv"

	"android/bundletool/bundleproto"
)

// DeliveryMode is the resolved install-time behavior of a module.
type DeliveryMode int

const (
	AlwaysInitialInstall DeliveryMode = iota
	ConditionalInitialInstall
	NoInitialInstall
)

func (d DeliveryMode) String() string {
	switch d {
	case ConditionalInitialInstall:
		return "conditional-initial-install"
	case NoInitialInstall:
		return "no-initial-install"
	default:
		return "always-initial-install"
	}
}

// DeliveryMode resolves the module delivery:
//
//	<dist:delivery><dist:install-time> with <dist:conditions> -> conditional
//	<dist:delivery><dist:install-time> without conditions     -> always
//	<dist:delivery> without <dist:install-time>               -> no install
//	legacy dist:onDemand="true"                               -> no install
//	otherwise                                                 -> always
func (m *Manifest) DeliveryMode() DeliveryMode {
	module := m.distModule()
	if delivery := childElement(module, DistributionNamespace, "delivery"); delivery != nil {
		installTime := childElement(delivery, DistributionNamespace, "install-time")
		if installTime == nil {
			return NoInitialInstall
		}
		if childElement(installTime, DistributionNamespace, "conditions") != nil {
			return ConditionalInitialInstall
		}
		return AlwaysInitialInstall
	}
	if a := attribute(module, DistributionNamespace, "onDemand"); a != nil && a.Value == "true" {
		return NoInitialInstall
	}
	return AlwaysInitialInstall
}

// DeliveryConditions returns the module targeting implied by the
// <dist:conditions> block, or nil when the module is unconditional.
func (m *Manifest) DeliveryConditions() *bundleproto.ModuleTargeting {
	module := m.distModule()
	delivery := childElement(module, DistributionNamespace, "delivery")
	installTime := childElement(delivery, DistributionNamespace, "install-time")
	conditions := childElement(installTime, DistributionNamespace, "conditions")
	if conditions == nil {
		return nil
	}
	t := new(bundleproto.ModuleTargeting)
	for _, c := range conditions.Child {
		e := c.Element
		if e == nil || e.NamespaceUri != DistributionNamespace {
			continue
		}
		switch e.Name {
		case "min-sdk-version":
			if a := attribute(e, DistributionNamespace, "value"); a != nil {
				if v, err := strconv.ParseInt(a.Value, 10, 32); err == nil {
					t.SdkVersionTargeting = &bundleproto.SdkVersionTargeting{
						Value: []*bundleproto.SdkVersion{
							{Min: &bundleproto.Int32Value{Value: int32(v)}},
						},
					}
				}
			}
		case "device-feature":
			if a := attribute(e, DistributionNamespace, "name"); a != nil {
				t.DeviceFeatureTargeting = append(t.DeviceFeatureTargeting,
					&bundleproto.DeviceFeatureTargeting{
						RequiredFeature: &bundleproto.DeviceFeature{FeatureName: a.Value},
					})
			}
		case "user-countries":
			uc := new(bundleproto.UserCountriesTargeting)
			if a := attribute(e, DistributionNamespace, "exclude"); a != nil && a.Value == "true" {
				uc.Exclude = true
			}
			for _, cc := range e.Child {
				if cc.Element != nil && cc.Element.Name == "country" {
					if a := attribute(cc.Element, DistributionNamespace, "code"); a != nil {
						uc.CountryCodes = append(uc.CountryCodes, a.Value)
					}
				}
			}
			t.UserCountriesTargeting = uc
		}
	}
	return t
}
