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

// Package preprocess applies whole-bundle rewrites before splitting. Each
// preprocessor consumes a bundle and produces a new one; the input is never
// mutated.
package preprocess

import (
	"android/bundletool/bundle"
)

// Preprocessor is one whole-bundle rewrite.
type Preprocessor interface {
	Preprocess(*bundle.Bundle) (*bundle.Bundle, error)
}

// Chain composes preprocessors in order.
type Chain []Preprocessor

func (c Chain) Preprocess(b *bundle.Bundle) (*bundle.Bundle, error) {
	var err error
	for _, p := range c {
		if b, err = p.Preprocess(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Options selects the optional preprocessors.
type Options struct {
	// LocalTestingPath enables the local-testing rewrite when non-empty.
	LocalTestingPath string
	// ObfuscateResources enables deterministic asset obfuscation.
	ObfuscateResources bool
}

// DefaultChain is the fixed preprocessor order of the pipeline.
func DefaultChain(opts Options) Chain {
	c := Chain{
		entryCompression{},
		embeddedApkMarker{},
	}
	if opts.LocalTestingPath != "" {
		c = append(c, localTesting{path: opts.LocalTestingPath})
	}
	c = append(c, runtimeSdkFuser{})
	if opts.ObfuscateResources {
		c = append(c, obfuscator{})
	}
	return c
}
