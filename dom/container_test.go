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

package dom_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/goember/ber"
	"github.com/blinklabs-io/goember/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafEncode(t *testing.T) {
	leaf := dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5))
	assert.Equal(t, "a003020105", hexOf(leaf))
	assert.Equal(t, 5, leaf.EncodedLength())
	assert.False(t, leaf.IsDirty())
	assert.Equal(t, ber.UniversalTypeInteger.Tag(), leaf.TypeTag())
}

func TestSequenceEncode(t *testing.T) {
	seq := dom.NewSequence(ber.ContextTag(1))
	require.NoError(t, seq.Insert(dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5))))
	require.NoError(t, seq.Insert(dom.NewLeaf(ber.ContextTag(1), ber.NewString("hi"))))
	assert.Equal(t, "a10d300ba003020105a1040c026869", hexOf(seq))
	assert.Equal(t, 15, seq.EncodedLength())
}

func TestNestedContainerEncode(t *testing.T) {
	set := dom.NewSet(ber.ContextTag(0))
	seq := dom.NewSequence(ber.ContextTag(2))
	require.NoError(t, seq.Insert(dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5))))
	require.NoError(t, set.Insert(seq))
	assert.Equal(t, "a00b3109a2073005a003020105", hexOf(set))
	assert.Equal(
		t,
		"a0803180"+"a2803080"+"a003020105"+"00000000"+"00000000",
		hex.EncodeToString(dom.EncodeIndefinite(set)),
	)
}

func TestEmptyContainerEncode(t *testing.T) {
	assert.Equal(t, "a0023000", hexOf(dom.NewSequence(ber.ContextTag(0))))
	assert.Equal(t, "a0023100", hexOf(dom.NewSet(ber.ContextTag(0))))
}

func TestLongLengthEncode(t *testing.T) {
	root := sampleTree()
	encoded := dom.Encode(root)
	assert.Equal(t, len(encoded), root.EncodedLength())
}

func TestDirtyPropagation(t *testing.T) {
	root := dom.NewSequence(ber.ContextTag(0))
	seq := dom.NewSequence(ber.ContextTag(1))
	leaf := dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5))
	require.NoError(t, seq.Insert(leaf))
	require.NoError(t, root.Insert(seq))
	assert.Equal(t, "a00b3009a1073005a003020105", hexOf(root))
	assert.False(t, root.IsDirty())
	assert.False(t, seq.IsDirty())
	assert.False(t, leaf.IsDirty())
	leaf.SetValue(ber.NewInteger(1000))
	assert.True(t, leaf.IsDirty())
	assert.True(t, seq.IsDirty())
	assert.True(t, root.IsDirty())
	assert.Equal(t, 14, root.EncodedLength())
	assert.Equal(t, "a00c300aa1083006a004020203e8", hexOf(root))
	// Erasing also invalidates the ancestors
	_, err := seq.Erase(0)
	require.NoError(t, err)
	assert.True(t, root.IsDirty())
	assert.Equal(t, "a0063004a1023000", hexOf(root))
}

func TestOwnership(t *testing.T) {
	first := dom.NewSequence(ber.ContextTag(0))
	second := dom.NewSequence(ber.ContextTag(1))
	leaf := dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5))
	require.NoError(t, first.Insert(leaf))
	firstBefore := hexOf(first)
	secondBefore := hexOf(second)
	assert.ErrorIs(t, second.Insert(leaf), dom.ErrAlreadyOwned)
	assert.ErrorIs(t, second.InsertAt(0, leaf), dom.ErrAlreadyOwned)
	assert.ErrorIs(t, second.Replace(leaf), dom.ErrAlreadyOwned)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 0, second.Len())
	assert.Same(t, first, leaf.Parent())
	assert.Equal(t, firstBefore, hexOf(first))
	assert.Equal(t, secondBefore, hexOf(second))
	// A node cannot be inserted into itself or below itself
	assert.ErrorIs(t, first.Insert(first), dom.ErrAlreadyOwned)
	require.NoError(t, first.Insert(second))
	assert.ErrorIs(t, second.Insert(first), dom.ErrAlreadyOwned)
	assert.ErrorIs(t, first.Insert(nil), dom.ErrNilNode)
	// Detached nodes can be adopted again
	removed, err := first.Erase(0)
	require.NoError(t, err)
	assert.Nil(t, removed.Parent())
	require.NoError(t, second.Insert(removed))
}

func TestSortedInsert(t *testing.T) {
	c := dom.NewSet(ber.ContextTag(0), dom.WithInsertMode(dom.InsertSorted))
	first := dom.NewLeaf(ber.ContextTag(1), ber.NewInteger(1))
	second := dom.NewLeaf(ber.ContextTag(1), ber.NewInteger(2))
	for _, n := range []dom.Node{
		dom.NewLeaf(ber.ContextTag(3), ber.NewInteger(3)),
		first,
		dom.NewLeaf(ber.ContextTag(2), ber.NewInteger(2)),
		second,
	} {
		require.NoError(t, c.Insert(n))
	}
	var tags []uint32
	for _, child := range c.Children() {
		tags = append(tags, child.ApplicationTag().Number())
	}
	assert.Equal(t, []uint32{1, 1, 2, 3}, tags)
	children := c.Children()
	assert.Same(t, first, children[0])
	assert.Same(t, second, children[1])
	assert.Equal(t, dom.InsertSorted, c.InsertMode())
}

func TestSortedRetag(t *testing.T) {
	c := dom.NewSet(ber.ContextTag(0), dom.WithInsertMode(dom.InsertSorted))
	low := dom.NewLeaf(ber.ContextTag(1), ber.NewInteger(1))
	mid := dom.NewLeaf(ber.ContextTag(2), ber.NewInteger(2))
	high := dom.NewLeaf(ber.ContextTag(3), ber.NewInteger(3))
	for _, n := range []dom.Node{low, mid, high} {
		require.NoError(t, c.Insert(n))
	}
	low.SetApplicationTag(ber.ContextTag(5))
	children := c.Children()
	require.Len(t, children, 3)
	assert.Same(t, mid, children[0])
	assert.Same(t, high, children[1])
	assert.Same(t, low, children[2])
	// Equal tags keep the moved child after the existing ones
	high.SetApplicationTag(ber.ContextTag(2))
	children = c.Children()
	assert.Same(t, mid, children[0])
	assert.Same(t, high, children[1])
	assert.Same(t, low, children[2])
	assert.Equal(t, "a011310fa203020102a203020103a503020101", hexOf(c))

	// Append mode keeps positions
	seq := dom.NewSequence(ber.ContextTag(0))
	first := dom.NewLeaf(ber.ContextTag(1), ber.NewInteger(1))
	require.NoError(t, seq.Insert(first))
	require.NoError(t, seq.Insert(dom.NewLeaf(ber.ContextTag(2), ber.NewInteger(2))))
	first.SetApplicationTag(ber.ContextTag(9))
	head, err := seq.Child(0)
	require.NoError(t, err)
	assert.Same(t, first, head)
}

func TestInsertAt(t *testing.T) {
	c := dom.NewSequence(ber.ContextTag(0))
	require.NoError(t, c.Insert(dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(0))))
	require.NoError(t, c.Insert(dom.NewLeaf(ber.ContextTag(2), ber.NewInteger(2))))
	require.NoError(t, c.InsertAt(1, dom.NewLeaf(ber.ContextTag(1), ber.NewInteger(1))))
	assert.ErrorIs(t, c.InsertAt(4, dom.NewLeaf(ber.ContextTag(9), ber.NewNull())), dom.ErrIndexOutOfRange)
	for i := range c.Len() {
		child, err := c.Child(i)
		require.NoError(t, err)
		assert.Equal(t, uint32(i), child.ApplicationTag().Number())
	}
	_, err := c.Child(3)
	assert.ErrorIs(t, err, dom.ErrIndexOutOfRange)
	_, err = c.Erase(-1)
	assert.ErrorIs(t, err, dom.ErrIndexOutOfRange)
}

func TestTagOperations(t *testing.T) {
	c := dom.NewSet(ber.ContextTag(0))
	c.SetValueOf(ber.ContextTag(1), ber.NewString("one"))
	c.SetValueOf(ber.ContextTag(2), ber.NewInteger(2))
	v, ok := c.ValueOf(ber.ContextTag(1))
	require.True(t, ok)
	assert.Equal(t, "one", v.StringOr(""))
	// Updating keeps the same leaf
	leaf := c.Find(ber.ContextTag(2))
	c.SetValueOf(ber.ContextTag(2), ber.NewInteger(3))
	assert.Same(t, leaf, c.Find(ber.ContextTag(2)))
	v, _ = c.ValueOf(ber.ContextTag(2))
	assert.Equal(t, int64(3), v.IntOr(0))
	_, ok = c.ValueOf(ber.ContextTag(7))
	assert.False(t, ok)
	assert.Nil(t, c.Find(ber.ContextTag(7)))

	// Replace swaps out every child with the same tag
	replacement := dom.NewSequence(ber.ContextTag(1))
	require.NoError(t, c.Replace(replacement))
	assert.Equal(t, 2, c.Len())
	assert.Same(t, replacement, c.Find(ber.ContextTag(1)))
	_, ok = c.ValueOf(ber.ContextTag(1))
	assert.False(t, ok)

	// SetValueOf replaces a container child with a leaf
	c.SetValueOf(ber.ContextTag(1), ber.NewBoolean(true))
	assert.Nil(t, replacement.Parent())
	v, ok = c.ValueOf(ber.ContextTag(1))
	require.True(t, ok)
	assert.True(t, v.BoolOr(false))

	assert.Equal(t, 1, c.EraseTag(ber.ContextTag(2)))
	assert.Equal(t, 0, c.EraseTag(ber.ContextTag(2)))
	assert.Equal(t, 1, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, "a0023100", hexOf(c))
}

func TestApplicationTagChange(t *testing.T) {
	root := dom.NewSequence(ber.ContextTag(0))
	leaf := dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5))
	require.NoError(t, root.Insert(leaf))
	assert.Equal(t, 9, root.EncodedLength())
	leaf.SetApplicationTag(ber.ContextTag(100))
	assert.True(t, root.IsDirty())
	assert.Equal(t, 10, root.EncodedLength())
	assert.Equal(t, ber.ContextTag(100), leaf.ApplicationTag())
}

func TestWalk(t *testing.T) {
	var count, maxDepth int
	dom.Walk(sampleTree(), func(n dom.Node, depth int) bool {
		count++
		maxDepth = max(maxDepth, depth)
		return true
	})
	assert.Equal(t, 14, count)
	assert.Equal(t, 3, maxDepth)
}
