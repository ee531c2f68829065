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

import "log/slog"

// DefaultTerminatorLength is the number of zero octets closing an indefinite
// length node: one end-of-contents marker for the type wrapper followed by one
// for the application wrapper
const DefaultTerminatorLength = 4

type ReaderOptionFunc func(*Reader)

// WithNodeFactory specifies the factory used for application-defined types
func WithNodeFactory(factory NodeFactory) ReaderOptionFunc {
	return func(r *Reader) {
		r.factory = factory
	}
}

// WithLogger specifies the logger. slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) ReaderOptionFunc {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithTerminatorLength specifies how many zero octets close an indefinite length node
func WithTerminatorLength(length int) ReaderOptionFunc {
	return func(r *Reader) {
		r.terminatorLength = length
	}
}

// WithMaxDepth limits container nesting. Zero means no limit
func WithMaxDepth(depth int) ReaderOptionFunc {
	return func(r *Reader) {
		r.maxDepth = depth
	}
}

// WithMaxValueLength limits the length of leaf values. Zero means no limit
func WithMaxValueLength(length int) ReaderOptionFunc {
	return func(r *Reader) {
		r.maxValueLength = length
	}
}

// WithContainerReadyFunc specifies a function called when a container header
// has been decoded, before any of its children
func WithContainerReadyFunc(fn func(Node)) ReaderOptionFunc {
	return func(r *Reader) {
		r.containerReadyFunc = fn
	}
}

// WithItemReadyFunc specifies a function called when a leaf or a whole
// container has been decoded
func WithItemReadyFunc(fn func(Node)) ReaderOptionFunc {
	return func(r *Reader) {
		r.itemReadyFunc = fn
	}
}

// WithRootReadyFunc specifies a function called when a top-level node is complete
func WithRootReadyFunc(fn func(Node)) ReaderOptionFunc {
	return func(r *Reader) {
		r.rootReadyFunc = fn
	}
}
