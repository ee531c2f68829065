// Copyright 2026 Blink Labs Software
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

package ber

// AppendBoolean appends a single octet boolean
func AppendBoolean(dst []byte, v bool) []byte {
	if v {
		return append(dst, 0xff)
	}
	return append(dst, 0x00)
}

// DecodeBoolean decodes a boolean occupying all of data. Any non-zero octet is true.
func DecodeBoolean(data []byte) (bool, error) {
	if len(data) != 1 {
		return false, malformed(0, "boolean has %d octets", len(data))
	}
	return data[0] != 0, nil
}

// AppendString appends the UTF-8 bytes of s unchanged
func AppendString(dst []byte, s string) []byte {
	return append(dst, s...)
}

// DecodeString returns data as a string. No validation is performed.
func DecodeString(data []byte) string {
	return string(data)
}

// DecodeNull checks that data is empty
func DecodeNull(data []byte) error {
	if len(data) != 0 {
		return malformed(0, "null has %d octets", len(data))
	}
	return nil
}
