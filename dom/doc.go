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

// Package dom implements the Ember+ tree model and its incremental decoder.
//
// Every node is encoded with two tags: an outer application tag that gives the
// node its identity within its parent, and an inner type tag that tells the
// decoder how to interpret the contents. Leaves wrap a single ber.Value while
// containers wrap an ordered list of child nodes.
//
// Nodes memoize their encoded length. Any mutation invalidates the memo on the
// node and on all of its ancestors, so encoding a tree only recomputes the
// lengths of the parts that changed.
//
// The Reader type reconstructs a tree from a byte stream that may arrive in
// arbitrarily small pieces. Application-defined types are handed to a
// NodeFactory supplied by the caller.
package dom
