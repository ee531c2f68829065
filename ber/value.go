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
	"fmt"
	"math"
	"strconv"
)

// Value is an immutable tagged value holding one of the supported primitive
// kinds. The zero Value holds nothing and reports UniversalTypeInvalid.
type Value struct {
	kind UniversalType
	b    bool
	i    int64
	f    float64
	s    string
	o    Octets
	oid  Oid
}

func NewBoolean(v bool) Value {
	return Value{kind: UniversalTypeBoolean, b: v}
}

func NewInteger(v int64) Value {
	return Value{kind: UniversalTypeInteger, i: v}
}

func NewReal(v float64) Value {
	return Value{kind: UniversalTypeReal, f: v}
}

func NewString(v string) Value {
	return Value{kind: UniversalTypeUTF8String, s: v}
}

func NewOctetsValue(v Octets) Value {
	return Value{kind: UniversalTypeOctetString, o: v}
}

func NewOidValue(v Oid) Value {
	return Value{kind: UniversalTypeRelativeOid, oid: v}
}

func NewNull() Value {
	return Value{kind: UniversalTypeNull}
}

// Type returns the universal type of the stored kind
func (v Value) Type() UniversalType {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != UniversalTypeInvalid
}

// UniversalTag returns the canonical tag for the stored kind
func (v Value) UniversalTag() Tag {
	return v.kind.Tag()
}

// EncodedLength returns the length of the value octets, excluding tag and length
func (v Value) EncodedLength() int {
	switch v.kind {
	case UniversalTypeBoolean:
		return 1
	case UniversalTypeInteger:
		return IntegerLength(v.i)
	case UniversalTypeReal:
		return RealLength(v.f)
	case UniversalTypeUTF8String:
		return len(v.s)
	case UniversalTypeOctetString:
		return v.o.Len()
	case UniversalTypeRelativeOid:
		return v.oid.EncodedLength()
	}
	return 0
}

// Append appends the value octets, excluding tag and length, to dst
func (v Value) Append(dst []byte) []byte {
	switch v.kind {
	case UniversalTypeBoolean:
		return AppendBoolean(dst, v.b)
	case UniversalTypeInteger:
		return AppendInteger(dst, v.i)
	case UniversalTypeReal:
		return AppendReal(dst, v.f)
	case UniversalTypeUTF8String:
		return AppendString(dst, v.s)
	case UniversalTypeOctetString:
		return v.o.Append(dst)
	case UniversalTypeRelativeOid:
		return v.oid.AppendTo(dst)
	}
	return dst
}

// AppendTLV appends the universal tag, the length and the value octets to dst
func (v Value) AppendTLV(dst []byte) []byte {
	dst = v.UniversalTag().Append(dst)
	dst = Length(v.EncodedLength()).Append(dst)
	return v.Append(dst)
}

// TLVLength returns the number of octets AppendTLV writes
func (v Value) TLVLength() int {
	n := v.EncodedLength()
	return v.UniversalTag().EncodedLength() + Length(n).EncodedLength() + n
}

func (v Value) mismatch(want UniversalType) error {
	return &TypeMismatchError{Want: want, Got: v.kind}
}

func (v Value) AsBool() (bool, error) {
	if v.kind != UniversalTypeBoolean {
		return false, v.mismatch(UniversalTypeBoolean)
	}
	return v.b, nil
}

func (v Value) AsInt() (int64, error) {
	if v.kind != UniversalTypeInteger {
		return 0, v.mismatch(UniversalTypeInteger)
	}
	return v.i, nil
}

func (v Value) AsReal() (float64, error) {
	if v.kind != UniversalTypeReal {
		return 0, v.mismatch(UniversalTypeReal)
	}
	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if v.kind != UniversalTypeUTF8String {
		return "", v.mismatch(UniversalTypeUTF8String)
	}
	return v.s, nil
}

func (v Value) AsOctets() (Octets, error) {
	if v.kind != UniversalTypeOctetString {
		return Octets{}, v.mismatch(UniversalTypeOctetString)
	}
	return v.o, nil
}

func (v Value) AsOid() (Oid, error) {
	if v.kind != UniversalTypeRelativeOid {
		return Oid{}, v.mismatch(UniversalTypeRelativeOid)
	}
	return v.oid, nil
}

// BoolOr returns the stored boolean, or def if the value holds another kind
func (v Value) BoolOr(def bool) bool {
	if ret, err := v.AsBool(); err == nil {
		return ret
	}
	return def
}

// IntOr returns the stored integer, or def if the value holds another kind
func (v Value) IntOr(def int64) int64 {
	if ret, err := v.AsInt(); err == nil {
		return ret
	}
	return def
}

// RealOr returns the stored real, or def if the value holds another kind
func (v Value) RealOr(def float64) float64 {
	if ret, err := v.AsReal(); err == nil {
		return ret
	}
	return def
}

// StringOr returns the stored string, or def if the value holds another kind
func (v Value) StringOr(def string) string {
	if ret, err := v.AsString(); err == nil {
		return ret
	}
	return def
}

// OctetsOr returns the stored octets, or def if the value holds another kind
func (v Value) OctetsOr(def Octets) Octets {
	if ret, err := v.AsOctets(); err == nil {
		return ret
	}
	return def
}

// OidOr returns the stored OID, or def if the value holds another kind
func (v Value) OidOr(def Oid) Oid {
	if ret, err := v.AsOid(); err == nil {
		return ret
	}
	return def
}

// Equal reports whether both values hold the same kind and contents. Reals are
// compared bit for bit, so NaN equals NaN and 0 differs from -0.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case UniversalTypeBoolean:
		return v.b == other.b
	case UniversalTypeInteger:
		return v.i == other.i
	case UniversalTypeReal:
		return math.Float64bits(v.f) == math.Float64bits(other.f)
	case UniversalTypeUTF8String:
		return v.s == other.s
	case UniversalTypeOctetString:
		return v.o.Equal(other.o)
	case UniversalTypeRelativeOid:
		return v.oid.Equal(other.oid)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case UniversalTypeBoolean:
		return strconv.FormatBool(v.b)
	case UniversalTypeInteger:
		return strconv.FormatInt(v.i, 10)
	case UniversalTypeReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case UniversalTypeUTF8String:
		return strconv.Quote(v.s)
	case UniversalTypeOctetString:
		return v.o.String()
	case UniversalTypeRelativeOid:
		return v.oid.String()
	case UniversalTypeNull:
		return "null"
	}
	return fmt.Sprintf("<%s>", v.kind)
}

// DecodeValue decodes the value octets in data as the universal type t. For
// types this package does not support, the second result is false and no error
// is returned so callers can skip the item.
func DecodeValue(t UniversalType, data []byte) (Value, bool, error) {
	switch t {
	case UniversalTypeBoolean:
		b, err := DecodeBoolean(data)
		if err != nil {
			return Value{}, false, err
		}
		return NewBoolean(b), true, nil
	case UniversalTypeInteger:
		i, err := DecodeInteger(data)
		if err != nil {
			return Value{}, false, err
		}
		return NewInteger(i), true, nil
	case UniversalTypeReal:
		f, err := DecodeReal(data)
		if err != nil {
			return Value{}, false, err
		}
		return NewReal(f), true, nil
	case UniversalTypeUTF8String:
		return NewString(DecodeString(data)), true, nil
	case UniversalTypeOctetString:
		return NewOctetsValue(NewOctets(data)), true, nil
	case UniversalTypeRelativeOid:
		oid, err := DecodeOid(data)
		if err != nil {
			return Value{}, false, err
		}
		return NewOidValue(oid), true, nil
	case UniversalTypeNull:
		if err := DecodeNull(data); err != nil {
			return Value{}, false, err
		}
		return NewNull(), true, nil
	}
	return Value{}, false, nil
}
