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

import "errors"

var (
	// ErrAlreadyOwned is returned when inserting a node that already has a parent,
	// or inserting a container into itself or one of its descendants
	ErrAlreadyOwned = errors.New("dom: node already has a parent")

	// ErrNilNode is returned when inserting a nil node
	ErrNilNode = errors.New("dom: nil node")

	// ErrIndexOutOfRange is returned for child indexes outside the container
	ErrIndexOutOfRange = errors.New("dom: child index out of range")

	// ErrRootNotReady is returned by Reader.Root before a complete root has been decoded
	ErrRootNotReady = errors.New("dom: root node is not ready")
)
