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

import (
	"fmt"
	"slices"
	"strings"

	"github.com/blinklabs-io/goember/ber"
)

// InsertMode selects where Insert places new children
type InsertMode int

const (
	// InsertAppend adds new children after the existing ones
	InsertAppend InsertMode = iota
	// InsertSorted keeps children ordered by application tag. A new child goes
	// before the first child whose tag compares greater, so equal tags keep
	// their insertion order.
	InsertSorted
)

// Container is a node holding an ordered list of child nodes. Sequences and
// sets differ only by their type tag.
type Container struct {
	nodeBase
	typeTag       ber.Tag
	insertMode    InsertMode
	children      []Node
	payloadLength int
}

type ContainerOptionFunc func(*Container)

// WithInsertMode sets the insertion policy of the container
func WithInsertMode(mode InsertMode) ContainerOptionFunc {
	return func(c *Container) {
		c.insertMode = mode
	}
}

// NewContainer returns an empty container with the given application and type
// tags. The type tag is stored with its container flag set.
func NewContainer(tag ber.Tag, typeTag ber.Tag, options ...ContainerOptionFunc) *Container {
	c := &Container{
		nodeBase: nodeBase{appTag: tag.ToPrimitive()},
		typeTag:  typeTag.ToContainer(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// NewSequence returns an empty container with a universal SEQUENCE type tag
func NewSequence(tag ber.Tag, options ...ContainerOptionFunc) *Container {
	return NewContainer(tag, ber.UniversalTypeSequence.Tag(), options...)
}

// NewSet returns an empty container with a universal SET type tag
func NewSet(tag ber.Tag, options ...ContainerOptionFunc) *Container {
	return NewContainer(tag, ber.UniversalTypeSet.Tag(), options...)
}

func (c *Container) container() *Container {
	return c
}

func (c *Container) TypeTag() ber.Tag {
	return c.typeTag
}

func (c *Container) InsertMode() InsertMode {
	return c.insertMode
}

func (c *Container) Len() int {
	return len(c.children)
}

// Child returns the child at index i
func (c *Container) Child(i int) (Node, error) {
	if i < 0 || i >= len(c.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.children))
	}
	return c.children[i], nil
}

// Children returns a copy of the child list
func (c *Container) Children() []Node {
	return append([]Node(nil), c.children...)
}

// checkInsertable verifies that node can be adopted by c
func (c *Container) checkInsertable(node Node) error {
	if node == nil {
		return ErrNilNode
	}
	nb := node.base()
	if nb.parent != nil {
		return ErrAlreadyOwned
	}
	for p := c; p != nil; p = p.parent {
		if &p.nodeBase == nb {
			return ErrAlreadyOwned
		}
	}
	return nil
}

func (c *Container) adopt(i int, node Node) {
	c.children = append(c.children, nil)
	copy(c.children[i+1:], c.children[i:])
	c.children[i] = node
	node.base().parent = c
	c.markDirty()
}

// Insert adds node to the container according to its insert mode. It fails with
// ErrAlreadyOwned if the node already has a parent, leaving both trees unchanged.
func (c *Container) Insert(node Node) error {
	if err := c.checkInsertable(node); err != nil {
		return err
	}
	i := len(c.children)
	if c.insertMode == InsertSorted {
		i = c.sortedIndex(node.ApplicationTag())
	}
	c.adopt(i, node)
	return nil
}

func (c *Container) sortedIndex(tag ber.Tag) int {
	for i, child := range c.children {
		if child.ApplicationTag().Compare(tag) > 0 {
			return i
		}
	}
	return len(c.children)
}

// resort moves the child backed by b to where Insert would place it under
// its current tag
func (c *Container) resort(b *nodeBase) {
	i := slices.IndexFunc(c.children, func(n Node) bool {
		return n.base() == b
	})
	if i < 0 {
		return
	}
	node := c.children[i]
	c.children = slices.Delete(c.children, i, i+1)
	c.children = slices.Insert(c.children, c.sortedIndex(node.ApplicationTag()), node)
}

// InsertAt adds node at index i regardless of the insert mode
func (c *Container) InsertAt(i int, node Node) error {
	if i < 0 || i > len(c.children) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.children))
	}
	if err := c.checkInsertable(node); err != nil {
		return err
	}
	c.adopt(i, node)
	return nil
}

// Erase removes and returns the child at index i. The removed node is detached
// and may be inserted elsewhere.
func (c *Container) Erase(i int) (Node, error) {
	if i < 0 || i >= len(c.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.children))
	}
	node := c.children[i]
	c.children = append(c.children[:i], c.children[i+1:]...)
	node.base().parent = nil
	c.markDirty()
	return node, nil
}

// EraseTag removes every child with the given application tag and returns how
// many were removed
func (c *Container) EraseTag(tag ber.Tag) int {
	tag = tag.ToPrimitive()
	kept := c.children[:0]
	removed := 0
	for _, child := range c.children {
		if child.ApplicationTag() == tag {
			child.base().parent = nil
			removed++
			continue
		}
		kept = append(kept, child)
	}
	clear(c.children[len(kept):])
	c.children = kept
	if removed > 0 {
		c.markDirty()
	}
	return removed
}

// Clear removes all children
func (c *Container) Clear() {
	for _, child := range c.children {
		child.base().parent = nil
	}
	c.children = nil
	c.markDirty()
}

// Find returns the first child with the given application tag, or nil
func (c *Container) Find(tag ber.Tag) Node {
	tag = tag.ToPrimitive()
	for _, child := range c.children {
		if child.ApplicationTag() == tag {
			return child
		}
	}
	return nil
}

// Replace removes any children sharing the application tag of node and then
// inserts node
func (c *Container) Replace(node Node) error {
	if err := c.checkInsertable(node); err != nil {
		return err
	}
	c.EraseTag(node.ApplicationTag())
	return c.Insert(node)
}

// ValueOf returns the value of the leaf child with the given tag
func (c *Container) ValueOf(tag ber.Tag) (ber.Value, bool) {
	if leaf, ok := AsLeaf(c.Find(tag)); ok {
		return leaf.Value(), true
	}
	return ber.Value{}, false
}

// SetValueOf stores value in the leaf child with the given tag. A new leaf is
// inserted if there is none, replacing any container child with that tag.
func (c *Container) SetValueOf(tag ber.Tag, value ber.Value) {
	if leaf, ok := AsLeaf(c.Find(tag)); ok {
		leaf.SetValue(value)
		return
	}
	// A fresh leaf is never owned, so this cannot fail
	_ = c.Replace(NewLeaf(tag, value))
}

func (c *Container) EncodedLength() int {
	if !c.lengthValid {
		payload := 0
		for _, child := range c.children {
			payload += child.EncodedLength()
		}
		c.payloadLength = payload
		c.cachedLength = wrappedLength(c.appTag, c.innerLength())
		c.lengthValid = true
	}
	return c.cachedLength
}

func (c *Container) innerLength() int {
	return c.typeTag.EncodedLength() + ber.Length(c.payloadLength).EncodedLength() + c.payloadLength
}

func (c *Container) Encode(dst []byte) []byte {
	return c.encode(dst, false)
}

func (c *Container) encode(dst []byte, indefinite bool) []byte {
	dst = c.appTag.ToContainer().Append(dst)
	if indefinite {
		dst = ber.LengthIndefinite.Append(dst)
		dst = c.typeTag.Append(dst)
		dst = ber.LengthIndefinite.Append(dst)
		for _, child := range c.children {
			dst = child.encode(dst, true)
		}
		// End-of-contents for the inner and then the outer wrapper
		return append(dst, 0, 0, 0, 0)
	}
	c.EncodedLength()
	dst = ber.Length(c.innerLength()).Append(dst)
	dst = c.typeTag.Append(dst)
	dst = ber.Length(c.payloadLength).Append(dst)
	for _, child := range c.children {
		dst = child.encode(dst, false)
	}
	return dst
}

func (c *Container) String() string {
	var sb strings.Builder
	c.writeTo(&sb, 0)
	return sb.String()
}

func (c *Container) writeTo(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s %s {\n", indent, c.appTag, c.typeTag)
	for _, child := range c.children {
		if sub, ok := AsContainer(child); ok {
			sub.writeTo(sb, depth+1)
			continue
		}
		fmt.Fprintf(sb, "%s  %s\n", indent, child)
	}
	fmt.Fprintf(sb, "%s}\n", indent)
}
