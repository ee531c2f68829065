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
	"math/bits"
)

// Special real values use single octet preambles
const (
	realPlusInfinity  = 0x40
	realMinusInfinity = 0x41
	realNaN           = 0x42
	realMinusZero     = 0x43

	realBinary     = 0x80
	realNegative   = 0x40
	realBaseMask   = 0x30
	realExpLenMask = 0x03
)

// realParts splits a finite non-zero value into the exponent of its leading bit
// and the significand with all trailing zero bits removed
func realParts(v float64) (int64, uint64) {
	frac, exp := math.Frexp(math.Abs(v))
	mantissa := uint64(math.Ldexp(frac, 53))
	mantissa >>= uint(bits.TrailingZeros64(mantissa))
	return int64(exp - 1), mantissa
}

// RealLength returns the number of octets AppendReal writes for v
func RealLength(v float64) int {
	switch {
	case v == 0 && !math.Signbit(v):
		return 0
	case v == 0, math.IsInf(v, 0), math.IsNaN(v):
		return 1
	}
	exponent, mantissa := realParts(v)
	return 1 + IntegerLength(exponent) + unsignedLength(mantissa)
}

// AppendReal appends v using the binary base-2 form. Positive zero encodes as
// no octets at all.
func AppendReal(dst []byte, v float64) []byte {
	switch {
	case v == 0 && !math.Signbit(v):
		return dst
	case v == 0:
		return append(dst, realMinusZero)
	case math.IsInf(v, 1):
		return append(dst, realPlusInfinity)
	case math.IsInf(v, -1):
		return append(dst, realMinusInfinity)
	case math.IsNaN(v):
		return append(dst, realNaN)
	}
	exponent, mantissa := realParts(v)
	expLen := IntegerLength(exponent)
	preamble := byte(realBinary | (expLen - 1))
	if v < 0 {
		preamble |= realNegative
	}
	dst = append(dst, preamble)
	dst = appendIntegerN(dst, exponent, expLen)
	return appendUnsigned(dst, mantissa)
}

// DecodeReal decodes a real occupying all of data
func DecodeReal(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	preamble := data[0]
	if preamble&realBinary == 0 {
		if len(data) != 1 {
			return 0, malformed(0, "decimal reals are not supported")
		}
		switch preamble {
		case realPlusInfinity:
			return math.Inf(1), nil
		case realMinusInfinity:
			return math.Inf(-1), nil
		case realNaN:
			return math.NaN(), nil
		case realMinusZero:
			return math.Copysign(0, -1), nil
		}
		return 0, malformed(0, "unknown special real %#x", preamble)
	}
	if preamble&realBaseMask != 0 {
		return 0, malformed(0, "unsupported real base in preamble %#x", preamble)
	}
	offset := 1
	expLen := int(preamble&realExpLenMask) + 1
	if preamble&realExpLenMask == realExpLenMask {
		if len(data) < 2 {
			return 0, truncated(len(data), "real exponent length")
		}
		expLen = int(data[1])
		offset = 2
	}
	if expLen == 0 || expLen > 8 {
		return 0, malformed(offset, "real exponent has %d octets", expLen)
	}
	if len(data) < offset+expLen {
		return 0, truncated(len(data), "real exponent")
	}
	exponent, err := DecodeInteger(data[offset : offset+expLen])
	if err != nil {
		return 0, err
	}
	offset += expLen
	if len(data) == offset {
		return 0, malformed(offset, "real without mantissa")
	}
	mantissa, err := decodeUnsigned(data[offset:])
	if err != nil {
		return 0, err
	}
	if mantissa == 0 {
		return 0, malformed(offset, "zero real mantissa")
	}
	if exponent > 1023 {
		return 0, malformed(1, "real exponent %d out of range", exponent)
	}
	if exponent < -2048 {
		exponent = -2048
	}
	// The mantissa is normalized so its leading bit carries the exponent, which
	// makes the scale factor bits irrelevant
	ret := math.Ldexp(float64(mantissa), int(exponent)-(bits.Len64(mantissa)-1))
	if preamble&realNegative != 0 {
		ret = -ret
	}
	return ret, nil
}
