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

// Decode decodes a single complete tree from data. It returns ber.ErrTruncated
// if data ends before the root node is complete.
func Decode(data []byte, options ...ReaderOptionFunc) (Node, error) {
	r := NewReader(options...)
	if _, err := r.Write(data); err != nil {
		return nil, err
	}
	if r.Depth() > 0 || r.state != stateTag || len(r.buf) > 0 || r.haveAppTag {
		return nil, ber.NewDecodeError(len(data), ber.ErrTruncated, "input ended inside a node")
	}
	root, err := r.Root()
	if err != nil {
		return nil, ber.NewDecodeError(len(data), ber.ErrTruncated, "input ended before the root node was complete")
	}
	return root, nil
}
