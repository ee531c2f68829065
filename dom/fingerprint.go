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
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const FingerprintSize = 32

// Fingerprint is the BLAKE2b-256 digest of the definite length encoding of a tree
type Fingerprint [FingerprintSize]byte

// NewFingerprint returns the fingerprint of n. Trees that are Equal have equal
// fingerprints.
func NewFingerprint(n Node) Fingerprint {
	return Fingerprint(blake2b.Sum256(Encode(n)))
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

func (f Fingerprint) Bytes() []byte {
	return f[:]
}

// IsZero reports whether f is the zero value, which no tree produces in practice
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}
