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

package splitter

import (
	"sort"
	"strings"

	"android/bundletool/bundle"
	"android/bundletool/bundleproto"
	"android/bundletool/restable"
)

// languageSplitter partitions locale-qualified resources and language-
// targeted assets directories into one split per language.
type languageSplitter struct {
	pinned *restable.Pinned
}

// localeLanguage extracts the language subtag of an aapt locale qualifier
// ("en", "en-US", "b+sr+Latn").
func localeLanguage(locale string) string {
	if strings.HasPrefix(locale, "b+") {
		parts := strings.Split(locale[2:], "+")
		return strings.ToLower(parts[0])
	}
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		return strings.ToLower(locale[:i])
	}
	return strings.ToLower(locale)
}

func (l languageSplitter) Split(s *ModuleSplit) ([]*ModuleSplit, error) {
	languages := make(map[string]bool)
	if s.ResourceTable != nil {
		forEachConfig(s.ResourceTable, func(cfg *bundleproto.Configuration) {
			if cfg.Locale != "" {
				languages[localeLanguage(cfg.Locale)] = true
			}
		})
	}

	// Language-targeted asset directories contribute their own values.
	assetDirs := make(map[string][]string) // language -> directory paths
	if s.Assets != nil {
		for _, d := range s.Assets.Directory {
			if d.Targeting == nil || d.Targeting.Language == nil {
				continue
			}
			for _, lang := range d.Targeting.Language.Value {
				lang = strings.ToLower(lang)
				languages[lang] = true
				assetDirs[lang] = append(assetDirs[lang], d.Path)
			}
		}
	}
	if len(languages) == 0 {
		return []*ModuleSplit{s}, nil
	}
	var langs []string
	for lang := range languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var masterTable *bundleproto.ResourceTable
	masterFiles := map[string]bool{}
	if s.ResourceTable != nil {
		masterTable = restable.FilterTable(s.ResourceTable, l.pinned, true,
			func(cfg *bundleproto.Configuration) bool { return cfg.Locale == "" })
		masterFiles = restable.ReferencedFiles(masterTable)
	}

	claimed := make(map[string]string) // entry path -> language
	type langSplit struct {
		lang  string
		table *bundleproto.ResourceTable
	}
	var perLang []langSplit
	for _, lang := range langs {
		lang := lang
		var table *bundleproto.ResourceTable
		if s.ResourceTable != nil {
			table = restable.FilterTable(s.ResourceTable, l.pinned, false,
				func(cfg *bundleproto.Configuration) bool {
					return cfg.Locale != "" && localeLanguage(cfg.Locale) == lang
				})
			for f := range restable.ReferencedFiles(table) {
				if masterFiles[f] {
					continue
				}
				if prev, taken := claimed[f]; taken && prev != lang {
					delete(claimed, f)
					masterFiles[f] = true
				} else {
					claimed[f] = lang
				}
			}
		}
		for _, dir := range assetDirs[lang] {
			dirPath := bundle.MustZipPath(dir)
			for _, e := range s.Entries {
				if e.Path.StartsWith(dirPath) {
					claimed[e.Path.String()] = lang
				}
			}
		}
		perLang = append(perLang, langSplit{lang: lang, table: table})
	}

	entriesFor := func(want func(p string) bool) []*bundle.ModuleEntry {
		var out []*bundle.ModuleEntry
		for _, e := range s.Entries {
			if want(e.Path.String()) {
				out = append(out, e)
			}
		}
		return out
	}

	master := *s
	if masterTable != nil {
		master.ResourceTable = masterTable
	}
	master.Entries = entriesFor(func(p string) bool {
		_, taken := claimed[p]
		return !taken
	})
	out := []*ModuleSplit{&master}

	for _, ls := range perLang {
		ls := ls
		t := &bundleproto.ApkTargeting{
			LanguageTargeting: &bundleproto.LanguageTargeting{
				Value:        []string{ls.lang},
				Alternatives: otherStrings(langs, ls.lang),
			},
		}
		split := s.derive(t, entriesFor(func(p string) bool {
			return claimed[p] == ls.lang
		}))
		split.ResourceTable = ls.table
		if s.Assets != nil {
			split.Assets = filterAssets(s.Assets, func(d *bundleproto.TargetedAssetsDirectory) bool {
				if d.Targeting == nil || d.Targeting.Language == nil {
					return false
				}
				for _, lang := range d.Targeting.Language.Value {
					if strings.ToLower(lang) == ls.lang {
						return true
					}
				}
				return false
			})
		}
		out = append(out, split)
	}
	return out, nil
}

func otherStrings(all []string, except string) []string {
	var out []string
	for _, s := range all {
		if s != except {
			out = append(out, s)
		}
	}
	return out
}

func filterAssets(a *bundleproto.Assets, keep func(*bundleproto.TargetedAssetsDirectory) bool) *bundleproto.Assets {
	out := new(bundleproto.Assets)
	for _, d := range a.Directory {
		if keep(d) {
			out.Directory = append(out.Directory, d)
		}
	}
	if len(out.Directory) == 0 {
		return nil
	}
	return out
}
