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

// IntegerLength returns the minimal number of octets needed to encode v in
// two's complement
func IntegerLength(v int64) int {
	n := 8
	for n > 1 {
		// The top 9 bits must all match the sign for the leading octet to be dropped
		top := v >> (8*(n-1) - 1)
		if top != 0 && top != -1 {
			break
		}
		n--
	}
	return n
}

// AppendInteger appends v as a minimal-width big-endian two's complement integer
func AppendInteger(dst []byte, v int64) []byte {
	return appendIntegerN(dst, v, IntegerLength(v))
}

func appendIntegerN(dst []byte, v int64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

// DecodeInteger decodes a two's complement integer occupying all of data. An
// empty input decodes as zero.
func DecodeInteger(data []byte) (int64, error) {
	if len(data) > 8 {
		return 0, malformed(0, "integer has %d octets", len(data))
	}
	if len(data) == 0 {
		return 0, nil
	}
	ret := int64(int8(data[0]))
	for _, b := range data[1:] {
		ret = ret<<8 | int64(b)
	}
	return ret, nil
}

func unsignedLength(v uint64) int {
	n := 1
	for v >>= 8; v != 0; v >>= 8 {
		n++
	}
	return n
}

func appendUnsigned(dst []byte, v uint64) []byte {
	for i := unsignedLength(v) - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

func decodeUnsigned(data []byte) (uint64, error) {
	if len(data) > 8 {
		return 0, malformed(0, "unsigned integer has %d octets", len(data))
	}
	var ret uint64
	for _, b := range data {
		ret = ret<<8 | uint64(b)
	}
	return ret, nil
}
