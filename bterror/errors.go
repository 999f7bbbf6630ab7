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

// Package bterror defines the error kinds the pipeline reports. Errors carry
// a user-facing message that is always safe to print and an internal message
// that may contain file paths; the CLI prints the former and logs the latter.
package bterror

import (
	"errors"
	"fmt"
	"time"
)

type Kind int

const (
	// InvalidBundle: the bundle violates its format or invariants.
	InvalidBundle Kind = iota
	// InvalidCommand: the caller passed contradictory or incomplete
	// parameters.
	InvalidCommand
	// CommandExecution: a runtime failure of the pipeline not attributable
	// to bundle content.
	CommandExecution
	// ToolTimeout: a subprocess exceeded its wall clock.
	ToolTimeout
)

var kindNames = map[Kind]string{
	InvalidBundle:    "invalid bundle",
	InvalidCommand:   "invalid command",
	CommandExecution: "command execution failed",
	ToolTimeout:      "tool timeout",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Error is a typed pipeline error.
type Error struct {
	Kind Kind
	// UserMessage is safe to show; never contains local paths.
	UserMessage string
	// Internal augments UserMessage for logs; may contain paths.
	Internal string
	// Cause is the wrapped error, if any.
	Cause error
}

func (e *Error) Error() string {
	msg := e.UserMessage
	if e.Internal != "" {
		msg += ": " + e.Internal
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so callers can recover at named
// boundaries with errors.Is(err, &Error{Kind: ToolTimeout}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// InvalidBundlef reports a bundle format or invariant violation.
func InvalidBundlef(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidBundle, UserMessage: fmt.Sprintf(format, args...)}
}

func InvalidCommandf(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidCommand, UserMessage: fmt.Sprintf(format, args...)}
}

func Executionf(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: CommandExecution, UserMessage: fmt.Sprintf(format, args...), Cause: cause}
}

// Timeoutf reports a subprocess that exceeded its wall clock.
func Timeoutf(tool string, limit time.Duration) *Error {
	return &Error{
		Kind:        ToolTimeout,
		UserMessage: fmt.Sprintf("%s did not finish within %s", tool, limit),
	}
}

// WithInternal attaches internal detail and returns the error.
func (e *Error) WithInternal(format string, args ...interface{}) *Error {
	e.Internal = fmt.Sprintf(format, args...)
	return e
}

// KindOf returns the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
