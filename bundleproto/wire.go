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

// Package bundleproto holds the wire-level messages exchanged with the App
// Bundle toolchain: the bundle configuration, targeting and file metadata,
// the aapt2 resource table and proto-XML manifests, and the APK set table of
// contents. The codecs are written directly against the protobuf wire format;
// fields this tool does not model are retained verbatim so that reading and
// re-writing a message is lossless.
package bundleproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

type marshaler interface {
	marshal([]byte) []byte
}

// value carries one decoded wire field. x is set for varint and fixed types,
// b for length-delimited fields. b aliases the input buffer.
type value struct {
	x uint64
	b []byte
}

// eachField walks every field of a wire-encoded message. The callback returns
// true when it consumed the field; unconsumed fields are appended to unknown
// in their original encoding.
func eachField(data []byte, unknown *[]byte, fn func(num protowire.Number, typ protowire.Type, v value) (bool, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		rest := data[n:]
		var v value
		var m int
		switch typ {
		case protowire.VarintType:
			v.x, m = protowire.ConsumeVarint(rest)
		case protowire.Fixed32Type:
			var x uint32
			x, m = protowire.ConsumeFixed32(rest)
			v.x = uint64(x)
		case protowire.Fixed64Type:
			v.x, m = protowire.ConsumeFixed64(rest)
		case protowire.BytesType:
			v.b, m = protowire.ConsumeBytes(rest)
		default:
			return fmt.Errorf("field %d: unsupported wire type %d", num, typ)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		ok, err := fn(num, typ, v)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if !ok && unknown != nil {
			*unknown = append(*unknown, data[:n+m]...)
		}
		data = rest[m:]
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, x uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, x)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendEnum(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	return appendVarint(b, num, uint64(v))
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	return appendVarint(b, num, uint64(v))
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	return appendVarint(b, num, uint64(uint32(v)))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	return appendVarint(b, num, uint64(v))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendMessage appends m as a length-delimited field. The field is always
// written, so callers skip absent (nil) messages themselves.
func appendMessage(b []byte, num protowire.Number, m marshaler) []byte {
	sub := m.marshal(nil)
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(sub)))
	return append(b, sub...)
}

func boolValue(v value) bool {
	return v.x != 0
}

func stringValue(v value) string {
	return string(v.b)
}

func bytesValue(v value) []byte {
	out := make([]byte, len(v.b))
	copy(out, v.b)
	return out
}
