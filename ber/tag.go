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
)

// Class is the class portion of a tag preamble
type Class uint8

const (
	ClassUniversal   Class = 0x00
	ClassApplication Class = 0x40
	ClassContext     Class = 0x80
	ClassPrivate     Class = 0xc0
)

const (
	classMask       = 0xc0
	containerFlag   = 0x20
	tagNumberMask   = 0x1f
	tagNumberEscape = 0x1f

	// MaxTagOctets is the largest encoded tag accepted by the decoder
	MaxTagOctets = 12
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContext:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	}
	return fmt.Sprintf("Class(%#x)", uint8(c))
}

// Tag is a class, number and container flag triple. The zero Tag (universal
// class, number 0) is used to mean "absent".
type Tag struct {
	preamble uint8
	number   uint32
}

// NewTag returns a primitive tag
func NewTag(class Class, number uint32) Tag {
	return Tag{preamble: uint8(class) & classMask, number: number}
}

// NewContainerTag returns a tag with the container flag set
func NewContainerTag(class Class, number uint32) Tag {
	return NewTag(class, number).ToContainer()
}

// ContextTag is shorthand for NewTag(ClassContext, number)
func ContextTag(number uint32) Tag {
	return NewTag(ClassContext, number)
}

// ApplicationTag is shorthand for NewTag(ClassApplication, number)
func ApplicationTag(number uint32) Tag {
	return NewTag(ClassApplication, number)
}

func (t Tag) Class() Class {
	return Class(t.preamble & classMask)
}

func (t Tag) Number() uint32 {
	return t.number
}

func (t Tag) IsContainer() bool {
	return t.preamble&containerFlag != 0
}

// IsZero reports whether the tag is the universal tag 0, ignoring the container flag
func (t Tag) IsZero() bool {
	return t.preamble&classMask == 0 && t.number == 0
}

// ToContainer returns a copy of the tag with the container flag set
func (t Tag) ToContainer() Tag {
	t.preamble |= containerFlag
	return t
}

// ToPrimitive returns a copy of the tag with the container flag cleared
func (t Tag) ToPrimitive() Tag {
	t.preamble &^= containerFlag
	return t
}

// Compare orders tags by preamble and then by number. It returns -1, 0 or 1.
func (t Tag) Compare(other Tag) int {
	switch {
	case t.preamble < other.preamble:
		return -1
	case t.preamble > other.preamble:
		return 1
	case t.number < other.number:
		return -1
	case t.number > other.number:
		return 1
	}
	return 0
}

func (t Tag) String() string {
	if t.IsContainer() {
		return fmt.Sprintf("%s-%d (container)", t.Class(), t.number)
	}
	return fmt.Sprintf("%s-%d", t.Class(), t.number)
}

// EncodedLength returns the number of octets Append writes for the tag
func (t Tag) EncodedLength() int {
	if t.number < tagNumberEscape {
		return 1
	}
	return 1 + Base128Length(uint64(t.number))
}

// Append appends the encoded tag to dst
func (t Tag) Append(dst []byte) []byte {
	if t.number < tagNumberEscape {
		return append(dst, t.preamble|uint8(t.number))
	}
	dst = append(dst, t.preamble|tagNumberEscape)
	return AppendBase128(dst, uint64(t.number))
}

// IsTagComplete reports whether buf holds a complete encoded tag. It is used by
// streaming readers that accumulate tag octets one at a time.
func IsTagComplete(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if len(buf) == 1 {
		return buf[0]&tagNumberMask != tagNumberEscape
	}
	return buf[len(buf)-1]&0x80 == 0
}

// DecodeTag decodes a tag from the start of data and returns it with the count
// of octets consumed
func DecodeTag(data []byte) (Tag, int, error) {
	if len(data) == 0 {
		return Tag{}, 0, truncated(0, "tag")
	}
	preamble := data[0]
	t := Tag{preamble: preamble &^ tagNumberMask}
	if preamble&tagNumberMask != tagNumberEscape {
		t.number = uint32(preamble & tagNumberMask)
		return t, 1, nil
	}
	number, n, err := DecodeBase128(data[1:])
	if err != nil {
		return Tag{}, 0, err
	}
	if 1+n > MaxTagOctets {
		return Tag{}, 0, malformed(0, "tag has %d octets", 1+n)
	}
	if number > math.MaxUint32 {
		return Tag{}, 0, malformed(1, "tag number %d out of range", number)
	}
	t.number = uint32(number)
	return t, 1 + n, nil
}
