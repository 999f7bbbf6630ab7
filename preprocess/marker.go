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

package preprocess

import (
	"android/bundletool/bundle"
)

// embeddedApkMarker flags embedded APKs declared in the bundle config for
// re-signing after the outer APK is built.
type embeddedApkMarker struct{}

func (embeddedApkMarker) Preprocess(b *bundle.Bundle) (*bundle.Bundle, error) {
	if b.Config == nil || len(b.Config.UnsignedEmbeddedApkConfig) == 0 {
		return b, nil
	}
	out := b.ShallowCopy()
	for _, m := range out.Modules() {
		var changed []*bundle.ModuleEntry
		for _, cfg := range b.Config.UnsignedEmbeddedApkConfig {
			p, err := bundle.NewZipPath(cfg.Path)
			if err != nil {
				continue
			}
			if e, ok := m.Entry(p); ok && !e.ShouldSign {
				changed = append(changed, e.WithShouldSign(true))
			}
		}
		if len(changed) == 0 {
			continue
		}
		nm := m.ShallowCopy()
		for _, e := range changed {
			nm.SetEntry(e)
		}
		out.ReplaceModule(nm)
	}
	return out, nil
}

// LocalTestingMetadataName marks APK sets built for the local testing flow.
const LocalTestingMetadataName = "local_testing_dir"

// localTesting rewrites the base manifest so the play-core library sideloads
// splits from a device-local directory.
type localTesting struct {
	path string
}

func (l localTesting) Preprocess(b *bundle.Bundle) (*bundle.Bundle, error) {
	base, ok := b.BaseModule()
	if !ok {
		return b, nil
	}
	out := b.ShallowCopy()
	nm := base.ShallowCopy()
	nm.Manifest = nm.Manifest.Edit().
		AddMetadataString(LocalTestingMetadataName, l.path).
		Save()
	out.ReplaceModule(nm)
	return out, nil
}
