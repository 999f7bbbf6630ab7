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

package apks

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"android/bundletool/bterror"
)

// aapt2Timeout bounds each aapt2 invocation.
const aapt2Timeout = 5 * time.Minute

// Aapt2Command invokes the aapt2 executable. The zero value is unusable;
// construct with NewAapt2Command.
type Aapt2Command struct {
	path string
}

func NewAapt2Command(path string) *Aapt2Command {
	return &Aapt2Command{path: path}
}

func (a *Aapt2Command) run(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), aapt2Timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, a.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout.Bytes(), bterror.Timeoutf("aapt2", aapt2Timeout)
	}
	if err != nil {
		return stdout.Bytes(), bterror.Executionf(err, "aapt2 %s failed", args[0]).
			WithInternal("%s", strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// ConvertApkProtoToBinary converts a proto-format APK to binary format.
func (a *Aapt2Command) ConvertApkProtoToBinary(protoApk, binaryApk string) error {
	_, err := a.run("convert", "--output-format", "binary", "-o", binaryApk, protoApk)
	return err
}

// DumpBadging returns the badging lines of an APK. aapt2 exits non-zero on
// some valid wear APKs after printing the needed output, so the lines are
// returned alongside the error and the caller decides whether the failure
// matters.
func (a *Aapt2Command) DumpBadging(apk string) ([]string, error) {
	out, err := a.run("dump", "badging", apk)
	var lines []string
	for _, l := range strings.Split(string(out), "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, err
}
