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

// NodeFactory constructs the node for an application-defined type. It returns
// nil to decline, in which case the decoder skips the item and its contents.
// Returned nodes must not already have a parent.
type NodeFactory func(t ber.Type, tag ber.Tag) Node

// Encode returns the encoding of n using definite lengths throughout
func Encode(n Node) []byte {
	return n.Encode(make([]byte, 0, n.EncodedLength()))
}

// EncodeIndefinite returns the encoding of n with every container using
// indefinite lengths. Each container is closed by two end-of-contents markers,
// one for the type wrapper and one for the application wrapper.
func EncodeIndefinite(n Node) []byte {
	return n.encode(nil, true)
}

// Equal reports whether two trees have the same tags, values and child order
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ApplicationTag() != b.ApplicationTag() || a.TypeTag() != b.TypeTag() {
		return false
	}
	if la, ok := AsLeaf(a); ok {
		lb, ok := AsLeaf(b)
		return ok && la.Value().Equal(lb.Value())
	}
	ca, ok := AsContainer(a)
	if !ok {
		return false
	}
	cb, ok := AsContainer(b)
	if !ok || len(ca.children) != len(cb.children) {
		return false
	}
	for i := range ca.children {
		if !Equal(ca.children[i], cb.children[i]) {
			return false
		}
	}
	return true
}

// Walk calls fn for n and every node below it in depth-first order. Returning
// false from fn skips the children of that node.
func Walk(n Node, fn func(node Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if c, ok := AsContainer(n); ok {
		for _, child := range c.children {
			walk(child, depth+1, fn)
		}
	}
}

