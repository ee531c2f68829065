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
	"bytes"
	"encoding/hex"
)

// Octets is an immutable byte sequence
type Octets struct {
	data string
}

// NewOctets returns Octets holding a copy of b
func NewOctets(b []byte) Octets {
	return Octets{data: string(b)}
}

func (o Octets) Len() int {
	return len(o.data)
}

func (o Octets) At(i int) byte {
	return o.data[i]
}

// Bytes returns a copy of the octets
func (o Octets) Bytes() []byte {
	return []byte(o.data)
}

func (o Octets) Equal(other Octets) bool {
	return o.data == other.data
}

// Compare orders octets lexicographically
func (o Octets) Compare(other Octets) int {
	return bytes.Compare([]byte(o.data), []byte(other.data))
}

func (o Octets) String() string {
	return hex.EncodeToString([]byte(o.data))
}

// Append appends the raw octets to dst
func (o Octets) Append(dst []byte) []byte {
	return append(dst, o.data...)
}
