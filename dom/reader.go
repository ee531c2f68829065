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
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/goember/ber"
)

type decodeState int

const (
	stateTag decodeState = iota
	stateLength
	stateValue
	stateTerminator
)

func (s decodeState) String() string {
	switch s {
	case stateTag:
		return "tag"
	case stateLength:
		return "length"
	case stateValue:
		return "value"
	case stateTerminator:
		return "terminator"
	}
	return fmt.Sprintf("decodeState(%d)", int(s))
}

// frame tracks a container whose contents are being decoded
type frame struct {
	appTag    ber.Tag
	typeTag   ber.Tag
	length    ber.Length
	bytesRead int
	node      Node
	container *Container
}

// skipped reports whether children of the frame are being discarded
func (f *frame) skipped() bool {
	return f.container == nil
}

func (f *frame) complete() bool {
	return !f.length.IsIndefinite() && f.bytesRead >= int(f.length)
}

// Reader decodes a tree from a stream of bytes fed one at a time or in chunks
// of any size. A Reader is not safe for concurrent use.
//
// After a decode error every further call fails with the same error until Reset
// is called.
type Reader struct {
	factory            NodeFactory
	logger             *slog.Logger
	terminatorLength   int
	maxDepth           int
	maxValueLength     int
	containerReadyFunc func(Node)
	itemReadyFunc      func(Node)
	rootReadyFunc      func(Node)

	state    decodeState
	buf      []byte
	expected int
	zeros    int
	offset   int
	err      error
	stack    []*frame

	// Per-item state
	appTag          ber.Tag
	haveAppTag      bool
	outerLength     ber.Length
	haveOuterLength bool
	typeTag         ber.Tag
	typeTagOctets   int
	length          ber.Length

	root      Node
	rootReady bool
}

// NewReader returns a Reader configured with the specified options
func NewReader(options ...ReaderOptionFunc) *Reader {
	r := &Reader{
		terminatorLength: DefaultTerminatorLength,
	}
	for _, option := range options {
		option(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.terminatorLength < 1 {
		r.terminatorLength = DefaultTerminatorLength
	}
	return r
}

// Reset discards all decode state including any decoded root and sticky error
func (r *Reader) Reset() {
	r.state = stateTag
	r.buf = r.buf[:0]
	r.expected = 0
	r.zeros = 0
	r.offset = 0
	r.err = nil
	clear(r.stack)
	r.stack = r.stack[:0]
	r.clearItem()
	r.root = nil
	r.rootReady = false
}

// Root returns the most recently completed top-level node
func (r *Reader) Root() (Node, error) {
	if !r.rootReady {
		return nil, ErrRootNotReady
	}
	return r.root, nil
}

func (r *Reader) IsRootReady() bool {
	return r.rootReady
}

// Depth returns the number of containers currently open
func (r *Reader) Depth() int {
	return len(r.stack)
}

// Offset returns the number of bytes consumed since the last Reset
func (r *Reader) Offset() int {
	return r.offset
}

// Write feeds p to the decoder. It allows a Reader to be the destination of io.Copy.
func (r *Reader) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := r.Feed(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Feed decodes a single byte
func (r *Reader) Feed(b byte) error {
	if r.err != nil {
		return r.err
	}
	if err := r.feed(b); err != nil {
		r.err = err
		r.logger.Debug(
			"decode failed",
			"offset",
			r.offset-1,
			"state",
			r.state.String(),
			"depth",
			len(r.stack),
			"error",
			err,
		)
		return err
	}
	return nil
}

func (r *Reader) feed(b byte) error {
	offset := r.offset
	r.offset++
	if top := r.top(); top != nil {
		top.bytesRead++
	}
	var eofOk bool
	var err error
	switch r.state {
	case stateTag:
		eofOk, err = r.readTagByte(offset, b)
	case stateLength:
		eofOk, err = r.readLengthByte(offset, b)
	case stateValue:
		eofOk, err = r.readValueByte(offset, b)
	case stateTerminator:
		eofOk, err = r.readTerminatorByte(offset, b)
	}
	if err != nil {
		return err
	}
	for top := r.top(); top != nil && top.complete(); top = r.top() {
		if !eofOk {
			return ber.NewDecodeError(offset, ber.ErrMalformed, "unexpected end of container %s", top.appTag)
		}
		if err := r.popFrame(offset); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) top() *frame {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Reader) clearItem() {
	r.appTag = ber.Tag{}
	r.haveAppTag = false
	r.outerLength = 0
	r.haveOuterLength = false
	r.typeTag = ber.Tag{}
	r.typeTagOctets = 0
	r.length = 0
}

func (r *Reader) readTagByte(offset int, b byte) (bool, error) {
	if len(r.buf) == 0 && b == 0 {
		if r.haveAppTag {
			return false, ber.NewDecodeError(offset, ber.ErrMalformed, "zero octet in place of a type tag")
		}
		if top := r.top(); top == nil || !top.length.IsIndefinite() {
			return false, ber.NewDecodeError(offset, ber.ErrMalformed, "unexpected terminator")
		}
		r.state = stateTerminator
		r.zeros = 0
		return r.readTerminatorByte(offset, b)
	}
	r.buf = append(r.buf, b)
	if len(r.buf) > ber.MaxTagOctets {
		return false, ber.NewDecodeError(offset, ber.ErrMalformed, "tag has more than %d octets", ber.MaxTagOctets)
	}
	if !ber.IsTagComplete(r.buf) {
		return false, nil
	}
	tag, n, err := ber.DecodeTag(r.buf)
	r.buf = r.buf[:0]
	if err != nil {
		return false, ber.NewDecodeError(offset, err, "invalid tag")
	}
	if !r.haveAppTag {
		r.appTag = tag.ToPrimitive()
		r.haveAppTag = true
	} else {
		r.typeTag = tag
		r.typeTagOctets = n
	}
	r.state = stateLength
	return false, nil
}

func (r *Reader) readLengthByte(offset int, b byte) (bool, error) {
	if len(r.buf) == 0 {
		r.expected = ber.LengthOctetCount(b)
		if r.expected > ber.MaxLengthOctets {
			return false, ber.NewDecodeError(offset, ber.ErrMalformed, "length has %d octets", r.expected)
		}
	}
	r.buf = append(r.buf, b)
	if len(r.buf) < r.expected {
		return false, nil
	}
	length, n, err := ber.DecodeLength(r.buf)
	r.buf = r.buf[:0]
	if err != nil {
		return false, ber.NewDecodeError(offset, err, "invalid length")
	}
	if !r.haveOuterLength {
		if length == 0 {
			return false, ber.NewDecodeError(offset, ber.ErrMalformed, "zero outer length for %s", r.appTag)
		}
		r.outerLength = length
		r.haveOuterLength = true
		r.state = stateTag
		return false, nil
	}
	r.length = length
	isContainer := r.typeTag.IsContainer()
	if err := r.checkLengths(offset, isContainer, n); err != nil {
		return false, err
	}
	r.state = stateTag
	eofOk := length == 0
	if isContainer {
		if err := r.pushFrame(offset); err != nil {
			return false, err
		}
		return eofOk, nil
	}
	if length == 0 {
		return true, r.completeLeaf(offset, nil)
	}
	r.expected = int(length)
	r.state = stateValue
	return false, nil
}

// checkLengths validates the inner length against the outer length. n is the
// number of octets of the inner length. Both lengths must be definite or both
// indefinite.
func (r *Reader) checkLengths(offset int, isContainer bool, n int) error {
	outerIndefinite := r.outerLength.IsIndefinite()
	innerIndefinite := r.length.IsIndefinite()
	if !isContainer {
		if outerIndefinite || innerIndefinite {
			return ber.NewDecodeError(offset, ber.ErrMalformed, "indefinite length on primitive %s", r.appTag)
		}
		if r.maxValueLength > 0 && int(r.length) > r.maxValueLength {
			return ber.NewDecodeError(offset, ber.ErrMalformed, "value length %d exceeds limit %d", r.length, r.maxValueLength)
		}
	}
	if outerIndefinite != innerIndefinite {
		return ber.NewDecodeError(offset, ber.ErrMalformed, "mixed definite and indefinite lengths for %s", r.appTag)
	}
	if !outerIndefinite {
		inner := r.typeTagOctets + n + int(r.length)
		if inner != int(r.outerLength) {
			return ber.NewDecodeError(offset, ber.ErrMalformed, "outer length %d does not match inner length %d for %s", r.outerLength, inner, r.appTag)
		}
	}
	return nil
}

func (r *Reader) readValueByte(offset int, b byte) (bool, error) {
	r.buf = append(r.buf, b)
	if len(r.buf) < r.expected {
		return false, nil
	}
	err := r.completeLeaf(offset-len(r.buf)+1, r.buf)
	r.buf = r.buf[:0]
	r.state = stateTag
	return true, err
}

func (r *Reader) readTerminatorByte(offset int, b byte) (bool, error) {
	if b != 0 {
		return false, ber.NewDecodeError(offset, ber.ErrMalformed, "non-zero octet %#x in terminator", b)
	}
	r.zeros++
	if r.zeros < r.terminatorLength {
		return false, nil
	}
	top := r.top()
	top.length = ber.Length(top.bytesRead)
	r.zeros = 0
	r.state = stateTag
	return true, nil
}

// materialize builds the node for the current item. It returns nil for types
// that have no representation.
func (r *Reader) materialize(isContainer bool, value []byte, valueOffset int) (Node, error) {
	t := ber.TypeFromTag(r.typeTag)
	if t.IsApplicationDefined() {
		if r.factory == nil {
			return nil, nil
		}
		node := r.factory(t, r.appTag)
		if node != nil {
			node.base().appTag = r.appTag
			node.base().lengthValid = false
		}
		return node, nil
	}
	if isContainer {
		switch t.Universal() {
		case ber.UniversalTypeSequence:
			return NewSequence(r.appTag), nil
		case ber.UniversalTypeSet:
			return NewSet(r.appTag), nil
		}
		return nil, nil
	}
	v, ok, err := ber.DecodeValue(t.Universal(), value)
	if err != nil {
		return nil, ber.NewDecodeError(valueOffset, err, "invalid %s value for %s", t, r.appTag)
	}
	if !ok {
		return nil, nil
	}
	return NewLeaf(r.appTag, v), nil
}

func (r *Reader) pushFrame(offset int) error {
	defer r.clearItem()
	if r.maxDepth > 0 && len(r.stack) >= r.maxDepth {
		return ber.NewDecodeError(offset, ber.ErrMalformed, "nesting exceeds %d levels", r.maxDepth)
	}
	parent := r.top()
	if parent != nil && !parent.length.IsIndefinite() && !r.length.IsIndefinite() &&
		parent.bytesRead+int(r.length) > int(parent.length) {
		return ber.NewDecodeError(offset, ber.ErrMalformed, "container %s overruns its parent", r.appTag)
	}
	f := &frame{
		appTag:  r.appTag,
		typeTag: r.typeTag,
		length:  r.length,
	}
	if parent == nil || !parent.skipped() {
		node, err := r.materialize(true, nil, offset)
		if err != nil {
			return err
		}
		if c, ok := AsContainer(node); ok {
			f.node = node
			f.container = c
		} else {
			// Children need a container to land in, so anything else
			// declines the subtree
			reason := "unrecognized type"
			if node != nil {
				reason = "factory returned a non-container node"
			}
			r.logger.Debug(
				"skipping container",
				"tag",
				f.appTag.String(),
				"type",
				ber.TypeFromTag(f.typeTag).String(),
				"reason",
				reason,
				"offset",
				offset,
			)
		}
	}
	if parent == nil {
		// A new top-level node replaces any previously completed root
		r.root = nil
		r.rootReady = false
	}
	switch {
	case f.node == nil:
	case parent != nil:
		if err := parent.container.Insert(f.node); err != nil {
			return fmt.Errorf("dom: inserting %s: %w", f.appTag, err)
		}
	default:
		r.root = f.node
	}
	r.stack = append(r.stack, f)
	if f.node != nil && r.containerReadyFunc != nil {
		r.containerReadyFunc(f.node)
	}
	return nil
}

func (r *Reader) popFrame(offset int) error {
	f := r.stack[len(r.stack)-1]
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
	parent := r.top()
	if parent != nil {
		parent.bytesRead += int(f.length)
		if !parent.length.IsIndefinite() && parent.bytesRead > int(parent.length) {
			return ber.NewDecodeError(offset, ber.ErrMalformed, "container %s overruns its parent", f.appTag)
		}
	}
	if f.node == nil {
		return nil
	}
	r.itemReady(f.node)
	if parent == nil {
		r.rootReady = true
		if r.rootReadyFunc != nil {
			r.rootReadyFunc(f.node)
		}
	}
	return nil
}

func (r *Reader) completeLeaf(valueOffset int, value []byte) error {
	defer r.clearItem()
	parent := r.top()
	if parent != nil && parent.skipped() {
		return nil
	}
	node, err := r.materialize(false, value, valueOffset)
	if err != nil {
		return err
	}
	if node == nil {
		r.logger.Debug(
			"skipping unrecognized value",
			"tag",
			r.appTag.String(),
			"type",
			ber.TypeFromTag(r.typeTag).String(),
			"offset",
			valueOffset,
		)
		return nil
	}
	if parent == nil {
		// Top-level leaves become the root on their own
		r.root = node
		r.rootReady = true
		r.itemReady(node)
		if r.rootReadyFunc != nil {
			r.rootReadyFunc(node)
		}
		return nil
	}
	if err := parent.container.Insert(node); err != nil {
		if errors.Is(err, ErrAlreadyOwned) {
			return fmt.Errorf("dom: factory returned an owned node for %s: %w", r.appTag, err)
		}
		return err
	}
	r.itemReady(node)
	return nil
}

func (r *Reader) itemReady(node Node) {
	if r.itemReadyFunc != nil {
		r.itemReadyFunc(node)
	}
}
