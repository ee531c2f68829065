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

import (
	"math"
	"strconv"
)

// Length is the length of a TLV value in octets, or LengthIndefinite
type Length int

// LengthIndefinite marks a container whose end is signaled by an end-of-contents marker
const LengthIndefinite Length = -1

// MaxLengthOctets is the largest encoded length accepted, lead octet included
const MaxLengthOctets = 5

func (l Length) IsIndefinite() bool {
	return l == LengthIndefinite
}

func (l Length) String() string {
	if l.IsIndefinite() {
		return "indefinite"
	}
	return strconv.Itoa(int(l))
}

// EncodedLength returns the number of octets Append writes for the length
func (l Length) EncodedLength() int {
	if l <= 0x7f {
		return 1
	}
	return 1 + lengthOctets(l)
}

// Append appends the encoded length to dst. Lengths up to 127 use the short
// form. Larger lengths use the long form with a minimal big-endian count.
func (l Length) Append(dst []byte) []byte {
	if l.IsIndefinite() {
		return append(dst, 0x80)
	}
	if l <= 0x7f {
		return append(dst, byte(l))
	}
	n := lengthOctets(l)
	dst = append(dst, 0x80|byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(l>>(8*uint(i))))
	}
	return dst
}

func lengthOctets(l Length) int {
	n := 1
	for v := uint64(l) >> 8; v != 0; v >>= 8 {
		n++
	}
	return n
}

// LengthOctetCount returns the total number of octets of a length whose first
// octet is lead
func LengthOctetCount(lead byte) int {
	if lead&0x80 == 0 {
		return 1
	}
	return 1 + int(lead&0x7f)
}

// DecodeLength decodes a length from the start of data and returns it with the
// count of octets consumed
func DecodeLength(data []byte) (Length, int, error) {
	if len(data) == 0 {
		return 0, 0, truncated(0, "length")
	}
	lead := data[0]
	if lead&0x80 == 0 {
		return Length(lead), 1, nil
	}
	if lead == 0x80 {
		return LengthIndefinite, 1, nil
	}
	total := LengthOctetCount(lead)
	if total > MaxLengthOctets {
		return 0, 0, malformed(0, "length has %d octets", total)
	}
	if len(data) < total {
		return 0, 0, truncated(len(data), "length")
	}
	var ret uint64
	for _, b := range data[1:total] {
		ret = ret<<8 | uint64(b)
	}
	if ret > math.MaxInt32 {
		return 0, 0, malformed(1, "length %d out of range", ret)
	}
	return Length(ret), total, nil
}
