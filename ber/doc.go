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

// Package ber implements the subset of the ASN.1 Basic Encoding Rules used by
// the Ember+ tree format.
//
// It provides the primitive codecs (base-128 numbers, tags, lengths, integers,
// reals, strings, octets and relative object identifiers) and a closed Value
// type over the supported universal types. Encoders follow the append style:
// each AppendX function appends the encoding to dst and returns the extended
// slice. Decoders take a byte slice and report how many bytes were consumed.
package ber
