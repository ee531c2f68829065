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

package dom

import "github.com/blinklabs-io/goember/ber"

// Leaf is a node holding a single value
type Leaf struct {
	nodeBase
	value ber.Value
}

func NewLeaf(tag ber.Tag, value ber.Value) *Leaf {
	return &Leaf{
		nodeBase: nodeBase{appTag: tag.ToPrimitive()},
		value:    value,
	}
}

func (l *Leaf) leaf() *Leaf {
	return l
}

func (l *Leaf) Value() ber.Value {
	return l.value
}

// SetValue replaces the value and invalidates the memoized lengths up the tree
func (l *Leaf) SetValue(value ber.Value) {
	l.value = value
	l.markDirty()
}

// TypeTag returns the universal tag of the stored value
func (l *Leaf) TypeTag() ber.Tag {
	return l.value.UniversalTag()
}

func (l *Leaf) EncodedLength() int {
	if !l.lengthValid {
		l.cachedLength = wrappedLength(l.appTag, l.value.TLVLength())
		l.lengthValid = true
	}
	return l.cachedLength
}

func (l *Leaf) Encode(dst []byte) []byte {
	return l.encode(dst, false)
}

// Leaves always use definite lengths
func (l *Leaf) encode(dst []byte, _ bool) []byte {
	l.EncodedLength()
	dst = l.appTag.ToContainer().Append(dst)
	dst = ber.Length(l.value.TLVLength()).Append(dst)
	return l.value.AppendTLV(dst)
}

func (l *Leaf) String() string {
	return l.appTag.String() + ": " + l.value.String()
}
