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

// Node is a node of the tree. The interface is sealed: types outside this
// package become nodes by embedding Leaf or Container.
type Node interface {
	// ApplicationTag returns the tag identifying the node within its parent. The
	// container flag is always cleared; it is set when encoding.
	ApplicationTag() ber.Tag
	// TypeTag returns the inner tag describing how the contents are encoded
	TypeTag() ber.Tag
	// Parent returns the owning container, or nil for a detached node
	Parent() *Container
	// IsDirty reports whether the memoized length needs to be recomputed
	IsDirty() bool
	// EncodedLength returns the total encoded length of the node
	EncodedLength() int
	// Encode appends the encoded node to dst
	Encode(dst []byte) []byte

	base() *nodeBase
	encode(dst []byte, indefinite bool) []byte
}

type nodeBase struct {
	appTag       ber.Tag
	parent       *Container
	lengthValid  bool
	cachedLength int
}

func (b *nodeBase) base() *nodeBase {
	return b
}

func (b *nodeBase) ApplicationTag() ber.Tag {
	return b.appTag
}

// SetApplicationTag changes the tag identifying the node within its parent.
// A parent using InsertSorted moves the node to keep its children ordered.
func (b *nodeBase) SetApplicationTag(tag ber.Tag) {
	b.appTag = tag.ToPrimitive()
	if b.parent != nil && b.parent.insertMode == InsertSorted {
		b.parent.resort(b)
	}
	b.markDirty()
}

func (b *nodeBase) Parent() *Container {
	return b.parent
}

func (b *nodeBase) IsDirty() bool {
	return !b.lengthValid
}

// markDirty invalidates the memoized length of the node and all of its ancestors
func (b *nodeBase) markDirty() {
	for n := b; n != nil; {
		n.lengthValid = false
		if n.parent == nil {
			return
		}
		n = &n.parent.nodeBase
	}
}

// wrappedLength returns the length of a node whose inner encoding is inner
// octets long, including the outer tag and length
func wrappedLength(appTag ber.Tag, inner int) int {
	return appTag.ToContainer().EncodedLength() + ber.Length(inner).EncodedLength() + inner
}

// AsContainer returns the container behind n, which may be a type embedding
// Container
func AsContainer(n Node) (*Container, bool) {
	if n == nil {
		return nil, false
	}
	if c, ok := n.(interface{ container() *Container }); ok {
		return c.container(), true
	}
	return nil, false
}

// AsLeaf returns the leaf behind n, which may be a type embedding Leaf
func AsLeaf(n Node) (*Leaf, bool) {
	if n == nil {
		return nil, false
	}
	if l, ok := n.(interface{ leaf() *Leaf }); ok {
		return l.leaf(), true
	}
	return nil, false
}
