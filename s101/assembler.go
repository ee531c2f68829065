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

package s101

import "fmt"

// SplitEmber divides payload into EmBER packages of at most maxPackage
// payload bytes each. An empty payload yields a single empty package.
func SplitEmber(slot uint8, payload []byte, maxPackage int) []*Message {
	if maxPackage <= 0 {
		maxPackage = DefaultMaxPackageSize
	}
	if len(payload) <= maxPackage {
		return []*Message{NewEmberMessage(slot, payload)}
	}
	ret := make([]*Message, 0, (len(payload)+maxPackage-1)/maxPackage)
	for start := 0; start < len(payload); start += maxPackage {
		end := min(start+maxPackage, len(payload))
		var flags PackageFlags
		if start == 0 {
			flags |= FlagFirstPackage
		}
		if end == len(payload) {
			flags |= FlagLastPackage
		}
		ret = append(ret, newEmberPackage(slot, flags, payload[start:end]))
	}
	return ret
}

// Assembler joins the packages of multi-package EmBER messages. The zero
// value is ready to use and imposes no size limit.
type Assembler struct {
	// MaxPayloadSize limits the size of an assembled payload when non-zero
	MaxPayloadSize int
	buf            []byte
	active         bool
}

// Add processes the next EmBER package. It returns the complete payload once
// the last package of a message has been added.
func (a *Assembler) Add(msg *Message) ([]byte, bool, error) {
	if !msg.IsEmber() {
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedCommand, msg.Command)
	}
	if msg.Flags.IsSet(FlagFirstPackage) {
		// A new first package abandons any incomplete message
		a.buf = a.buf[:0]
		a.active = true
	} else if !a.active {
		return nil, false, fmt.Errorf(
			"%w: %s package without first package",
			ErrOutOfSequence,
			msg.Flags,
		)
	}
	if !msg.Flags.IsSet(FlagEmptyPackage) {
		if a.MaxPayloadSize > 0 && len(a.buf)+len(msg.Payload) > a.MaxPayloadSize {
			a.Reset()
			return nil, false, ErrPayloadTooLarge
		}
		a.buf = append(a.buf, msg.Payload...)
	}
	if !msg.Flags.IsSet(FlagLastPackage) {
		return nil, false, nil
	}
	ret := make([]byte, len(a.buf))
	copy(ret, a.buf)
	a.Reset()
	return ret, true, nil
}

// Pending reports whether a message is partially assembled
func (a *Assembler) Pending() bool {
	return a.active
}

// Reset discards any partially assembled message
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
	a.active = false
}
