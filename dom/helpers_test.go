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
	"math"
	"testing"

	"github.com/blinklabs-io/goember/ber"
	"github.com/blinklabs-io/goember/dom"
	"github.com/google/go-cmp/cmp"
)

// treeDesc is a plain description of a tree used for diffing
type treeDesc struct {
	Tag      string
	Type     string
	Value    string
	Children []treeDesc
}

func describe(n dom.Node) treeDesc {
	ret := treeDesc{
		Tag:  n.ApplicationTag().String(),
		Type: n.TypeTag().String(),
	}
	if leaf, ok := dom.AsLeaf(n); ok {
		ret.Value = leaf.Value().String()
		return ret
	}
	if c, ok := dom.AsContainer(n); ok {
		for _, child := range c.Children() {
			ret.Children = append(ret.Children, describe(child))
		}
	}
	return ret
}

func assertSameTree(t *testing.T, want, got dom.Node) {
	t.Helper()
	if diff := cmp.Diff(describe(want), describe(got)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if !dom.Equal(want, got) {
		t.Fatalf("trees are not Equal")
	}
}

// sampleTree builds a tree exercising every value kind and nesting level
func sampleTree() *dom.Container {
	root := dom.NewSequence(ber.ApplicationTag(0))
	_ = root.Insert(dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(5)))
	_ = root.Insert(dom.NewLeaf(ber.ContextTag(1), ber.NewString("identity")))
	_ = root.Insert(dom.NewLeaf(ber.ContextTag(2), ber.NewReal(-273.15)))
	_ = root.Insert(dom.NewLeaf(ber.ContextTag(3), ber.NewBoolean(true)))
	set := dom.NewSet(ber.ContextTag(4))
	_ = set.Insert(dom.NewLeaf(ber.ContextTag(0), ber.NewOidValue(ber.NewOid(1, 2, 300))))
	_ = set.Insert(dom.NewLeaf(ber.ContextTag(1), ber.NewOctetsValue(ber.NewOctets([]byte{0xfe, 0xff, 0x00}))))
	_ = set.Insert(dom.NewLeaf(ber.ContextTag(2), ber.NewNull()))
	inner := dom.NewSequence(ber.ContextTag(40))
	_ = inner.Insert(dom.NewLeaf(ber.ContextTag(0), ber.NewInteger(math.MinInt64)))
	_ = inner.Insert(dom.NewLeaf(ber.ContextTag(200), ber.NewReal(math.Inf(1))))
	_ = inner.Insert(dom.NewSequence(ber.ContextTag(5)))
	_ = set.Insert(inner)
	_ = root.Insert(set)
	big := make([]byte, 300)
	for i := range big {
		big[i] = byte(i)
	}
	_ = root.Insert(dom.NewLeaf(ber.ContextTag(5), ber.NewOctetsValue(ber.NewOctets(big))))
	return root
}

func hexOf(n dom.Node) string {
	return hex.EncodeToString(dom.Encode(n))
}
