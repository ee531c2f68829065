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

	"github.com/blinklabs-io/goember/ber"
	"github.com/blinklabs-io/goember/cbor"
)

// Snapshots are a CBOR representation of a tree that does not depend on the
// BER wire format. They are used to persist decoded trees and to inspect them
// with generic CBOR tooling.

type snapshotTag struct {
	cbor.StructAsArray
	Class     uint8
	Number    uint32
	Container bool
}

func newSnapshotTag(t ber.Tag) snapshotTag {
	return snapshotTag{
		Class:     uint8(t.Class()),
		Number:    t.Number(),
		Container: t.IsContainer(),
	}
}

func (s snapshotTag) tag() ber.Tag {
	t := ber.NewTag(ber.Class(s.Class), s.Number)
	if s.Container {
		return t.ToContainer()
	}
	return t
}

type snapshotValue struct {
	cbor.StructAsArray
	Type  uint32
	Bool  bool
	Int   int64
	Real  float64
	Text  string
	Bytes []byte
	Oid   []uint32
}

type snapshotNode struct {
	cbor.StructAsArray
	Tag      snapshotTag
	Type     snapshotTag
	Value    *snapshotValue
	Children []*snapshotNode
}

func newSnapshotValue(v ber.Value) *snapshotValue {
	ret := &snapshotValue{Type: uint32(v.Type())}
	switch v.Type() {
	case ber.UniversalTypeBoolean:
		ret.Bool, _ = v.AsBool()
	case ber.UniversalTypeInteger:
		ret.Int, _ = v.AsInt()
	case ber.UniversalTypeReal:
		ret.Real, _ = v.AsReal()
	case ber.UniversalTypeUTF8String:
		ret.Text, _ = v.AsString()
	case ber.UniversalTypeOctetString:
		ret.Bytes = v.OctetsOr(ber.Octets{}).Bytes()
	case ber.UniversalTypeRelativeOid:
		ret.Oid = v.OidOr(ber.Oid{}).SubIdentifiers()
	}
	return ret
}

func (s *snapshotValue) value() (ber.Value, error) {
	switch ber.UniversalType(s.Type) {
	case ber.UniversalTypeInvalid:
		return ber.Value{}, nil
	case ber.UniversalTypeBoolean:
		return ber.NewBoolean(s.Bool), nil
	case ber.UniversalTypeInteger:
		return ber.NewInteger(s.Int), nil
	case ber.UniversalTypeReal:
		return ber.NewReal(s.Real), nil
	case ber.UniversalTypeUTF8String:
		return ber.NewString(s.Text), nil
	case ber.UniversalTypeOctetString:
		return ber.NewOctetsValue(ber.NewOctets(s.Bytes)), nil
	case ber.UniversalTypeRelativeOid:
		return ber.NewOidValue(ber.NewOid(s.Oid...)), nil
	case ber.UniversalTypeNull:
		return ber.NewNull(), nil
	}
	return ber.Value{}, fmt.Errorf("dom: snapshot value has unsupported type %d", s.Type)
}

func newSnapshotNode(n Node) *snapshotNode {
	ret := &snapshotNode{
		Tag:  newSnapshotTag(n.ApplicationTag()),
		Type: newSnapshotTag(n.TypeTag()),
	}
	if leaf, ok := AsLeaf(n); ok {
		ret.Value = newSnapshotValue(leaf.Value())
		return ret
	}
	if c, ok := AsContainer(n); ok {
		ret.Children = make([]*snapshotNode, 0, len(c.children))
		for _, child := range c.children {
			ret.Children = append(ret.Children, newSnapshotNode(child))
		}
	}
	return ret
}

func (s *snapshotNode) node(factory NodeFactory) (Node, error) {
	tag := s.Tag.tag()
	if s.Value != nil {
		v, err := s.Value.value()
		if err != nil {
			return nil, err
		}
		return NewLeaf(tag, v), nil
	}
	typeTag := s.Type.tag()
	var ret Node
	var c *Container
	if typeTag.Class() != ber.ClassUniversal && factory != nil {
		if node := factory(ber.TypeFromTag(typeTag), tag); node != nil {
			if nc, ok := AsContainer(node); ok {
				ret, c = node, nc
			}
		}
	}
	if c == nil {
		c = NewContainer(tag, typeTag)
		ret = c
	}
	c.appTag = tag.ToPrimitive()
	c.lengthValid = false
	for _, child := range s.Children {
		childNode, err := child.node(factory)
		if err != nil {
			return nil, err
		}
		if err := c.Insert(childNode); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// MarshalSnapshot returns a CBOR snapshot of the tree rooted at n
func MarshalSnapshot(n Node) ([]byte, error) {
	return cbor.Encode(newSnapshotNode(n))
}

// UnmarshalSnapshot rebuilds a tree from a CBOR snapshot. Application-defined
// containers are created with factory when one is given and it accepts the
// type. Otherwise they become generic containers with the recorded type tag.
func UnmarshalSnapshot(data []byte, factory NodeFactory) (Node, error) {
	var s snapshotNode
	if _, err := cbor.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("dom: decoding snapshot: %w", err)
	}
	return s.node(factory)
}
