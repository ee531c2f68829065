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

import "math"

const maxBase128Octets = 10

// Base128Length returns the number of octets needed to encode v in base-128
func Base128Length(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// AppendBase128 appends v as a sequence of 7-bit groups, most significant group
// first, with the high bit set on every octet except the last
func AppendBase128(dst []byte, v uint64) []byte {
	n := Base128Length(v)
	for i := n - 1; i > 0; i-- {
		dst = append(dst, byte(v>>(7*uint(i)))|0x80)
	}
	return append(dst, byte(v&0x7f))
}

// DecodeBase128 decodes a base-128 number from the start of data. It returns the
// number and the count of octets consumed
func DecodeBase128(data []byte) (uint64, int, error) {
	var ret uint64
	for i, b := range data {
		if i == maxBase128Octets {
			return 0, 0, malformed(i, "base-128 number too long")
		}
		if ret > math.MaxUint64>>7 {
			return 0, 0, malformed(i, "base-128 number overflows 64 bits")
		}
		ret = ret<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return ret, i + 1, nil
		}
	}
	return 0, 0, truncated(len(data), "base-128 number")
}
