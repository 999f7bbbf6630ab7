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

// Generates a device-installable APK set from an Android App Bundle.
// Run it without arguments to see usage details.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"android/bundletool/apks"
	"android/bundletool/bterror"
)

var (
	bundlePath = flag.String("bundle", "", "path to the input .aab file")
	outputPath = flag.String("output", "", "path to the output .apks file")
	aapt2Path  = flag.String("aapt2", "", "path to the aapt2 executable; omit to keep proto-format APKs")
	mode       = flag.String("mode", "default", "output mode: default, universal or system")
	localTestingPath = flag.String("local-testing-path", "",
		"enable the local-testing flow, sideloading splits from this on-device directory")
	obfuscate = flag.Bool("obfuscate-resources", false,
		"rename res/ files to content-addressed names")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: build_apks -bundle app.aab -output app.apks `+
			`[-aapt2 path] [-mode default|universal|system] [-local-testing-path dir] `+
			`[-obfuscate-resources]`)
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	if *bundlePath == "" || *outputPath == "" || flag.NArg() != 0 {
		flag.Usage()
	}

	cmd := apks.BuildCommand{
		BundlePath:         *bundlePath,
		OutputPath:         *outputPath,
		LocalTestingPath:   *localTestingPath,
		ObfuscateResources: *obfuscate,
	}
	switch *mode {
	case "default":
	case "universal":
		cmd.Mode = apks.ModeUniversal
	case "system":
		cmd.Mode = apks.ModeSystem
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
	if *aapt2Path != "" {
		cmd.Aapt2 = apks.NewAapt2Command(*aapt2Path)
	}

	if err := cmd.Execute(); err != nil {
		var e *bterror.Error
		if errors.As(err, &e) {
			// The user-facing message goes to stderr; internal detail to the
			// log only.
			log.Printf("internal: %v", err)
			fmt.Fprintln(os.Stderr, e.UserMessage)
			os.Exit(exitCode(e.Kind))
		}
		log.Fatal(err)
	}
}

func exitCode(k bterror.Kind) int {
	switch k {
	case bterror.InvalidCommand:
		return 2
	case bterror.InvalidBundle:
		return 3
	case bterror.ToolTimeout:
		return 4
	default:
		return 1
	}
}
