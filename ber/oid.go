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
	"strings"
)

// Oid is an immutable relative object identifier
type Oid struct {
	ids []uint32
}

// NewOid returns an Oid holding a copy of ids
func NewOid(ids ...uint32) Oid {
	if len(ids) == 0 {
		return Oid{}
	}
	return Oid{ids: append([]uint32(nil), ids...)}
}

// ParseOid parses the dotted form produced by String
func ParseOid(s string) (Oid, error) {
	if s == "" {
		return Oid{}, nil
	}
	parts := strings.Split(s, ".")
	ids := make([]uint32, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Oid{}, fmt.Errorf("invalid OID %q: %w", s, err)
		}
		ids = append(ids, uint32(id))
	}
	return Oid{ids: ids}, nil
}

func (o Oid) Len() int {
	return len(o.ids)
}

func (o Oid) IsEmpty() bool {
	return len(o.ids) == 0
}

// At returns the sub-identifier at index i
func (o Oid) At(i int) uint32 {
	return o.ids[i]
}

// SubIdentifiers returns a copy of the sub-identifiers
func (o Oid) SubIdentifiers() []uint32 {
	return append([]uint32(nil), o.ids...)
}

// Append returns a new Oid made of o followed by other
func (o Oid) Append(other Oid) Oid {
	ids := make([]uint32, 0, len(o.ids)+len(other.ids))
	ids = append(ids, o.ids...)
	ids = append(ids, other.ids...)
	return Oid{ids: ids}
}

// AppendSubID returns a new Oid with id added to the end
func (o Oid) AppendSubID(id uint32) Oid {
	return o.Append(Oid{ids: []uint32{id}})
}

// Compare orders Oids by length and then element by element. It returns -1, 0 or 1.
func (o Oid) Compare(other Oid) int {
	switch {
	case len(o.ids) < len(other.ids):
		return -1
	case len(o.ids) > len(other.ids):
		return 1
	}
	for i, id := range o.ids {
		switch {
		case id < other.ids[i]:
			return -1
		case id > other.ids[i]:
			return 1
		}
	}
	return 0
}

func (o Oid) Equal(other Oid) bool {
	return o.Compare(other) == 0
}

func (o Oid) String() string {
	var sb strings.Builder
	for i, id := range o.ids {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}

// EncodedLength returns the number of octets AppendTo writes
func (o Oid) EncodedLength() int {
	ret := 0
	for _, id := range o.ids {
		ret += Base128Length(uint64(id))
	}
	return ret
}

// AppendTo appends every sub-identifier in base-128 form
func (o Oid) AppendTo(dst []byte) []byte {
	for _, id := range o.ids {
		dst = AppendBase128(dst, uint64(id))
	}
	return dst
}

// DecodeOid decodes a relative OID occupying all of data
func DecodeOid(data []byte) (Oid, error) {
	var ids []uint32
	for offset := 0; offset < len(data); {
		id, n, err := DecodeBase128(data[offset:])
		if err != nil {
			return Oid{}, err
		}
		if id > math.MaxUint32 {
			return Oid{}, malformed(offset, "OID sub-identifier %d out of range", id)
		}
		ids = append(ids, uint32(id))
		offset += n
	}
	return Oid{ids: ids}, nil
}
