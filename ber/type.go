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

import "fmt"

// UniversalType enumerates the universal types supported by this package
type UniversalType uint32

const (
	UniversalTypeInvalid     UniversalType = 0
	UniversalTypeBoolean     UniversalType = 1
	UniversalTypeInteger     UniversalType = 2
	UniversalTypeOctetString UniversalType = 4
	UniversalTypeNull        UniversalType = 5
	UniversalTypeReal        UniversalType = 9
	UniversalTypeUTF8String  UniversalType = 12
	UniversalTypeRelativeOid UniversalType = 13
	UniversalTypeSequence    UniversalType = 16
	UniversalTypeSet         UniversalType = 17
)

var universalTypeNames = map[UniversalType]string{
	UniversalTypeBoolean:     "BOOLEAN",
	UniversalTypeInteger:     "INTEGER",
	UniversalTypeOctetString: "OCTET STRING",
	UniversalTypeNull:        "NULL",
	UniversalTypeReal:        "REAL",
	UniversalTypeUTF8String:  "UTF8String",
	UniversalTypeRelativeOid: "RELATIVE-OID",
	UniversalTypeSequence:    "SEQUENCE",
	UniversalTypeSet:         "SET",
}

// UniversalTypeFromNumber maps a universal tag number to its type. Unsupported
// numbers map to UniversalTypeInvalid.
func UniversalTypeFromNumber(number uint32) UniversalType {
	t := UniversalType(number)
	if _, ok := universalTypeNames[t]; ok {
		return t
	}
	return UniversalTypeInvalid
}

func (u UniversalType) String() string {
	if name, ok := universalTypeNames[u]; ok {
		return name
	}
	if u == UniversalTypeInvalid {
		return "INVALID"
	}
	return fmt.Sprintf("UniversalType(%d)", uint32(u))
}

// IsContainer reports whether values of the type are constructed
func (u UniversalType) IsContainer() bool {
	return u == UniversalTypeSequence || u == UniversalTypeSet
}

// Tag returns the canonical universal tag for the type
func (u UniversalType) Tag() Tag {
	t := NewTag(ClassUniversal, uint32(u))
	if u.IsContainer() {
		return t.ToContainer()
	}
	return t
}

// Type identifies the type carried by a type tag. Tags of any class other than
// universal denote application-defined types.
type Type struct {
	number      uint32
	application bool
}

// TypeFromTag returns the type denoted by a type tag
func TypeFromTag(t Tag) Type {
	return Type{
		number:      t.Number(),
		application: t.Class() != ClassUniversal,
	}
}

// NewApplicationType returns the application-defined type with the given number
func NewApplicationType(number uint32) Type {
	return Type{number: number, application: true}
}

// TypeOf returns the Type for a universal type
func TypeOf(u UniversalType) Type {
	return Type{number: uint32(u)}
}

func (t Type) Number() uint32 {
	return t.number
}

func (t Type) IsApplicationDefined() bool {
	return t.application
}

// Universal returns the universal type, or UniversalTypeInvalid for
// application-defined and unsupported types
func (t Type) Universal() UniversalType {
	if t.application {
		return UniversalTypeInvalid
	}
	return UniversalTypeFromNumber(t.number)
}

func (t Type) String() string {
	if t.application {
		return fmt.Sprintf("APPLICATION-%d", t.number)
	}
	return UniversalType(t.number).String()
}
