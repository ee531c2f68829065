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

const (
	// BOF marks the beginning of a frame
	BOF byte = 0xFE
	// EOF marks the end of a frame
	EOF byte = 0xFF
	// CE precedes an escaped byte
	CE byte = 0xFD
	// XOR is applied to escaped bytes
	XOR byte = 0x20
	// EscapeThreshold is the lowest byte value that must be escaped
	EscapeThreshold byte = 0xF8
)

const (
	// DefaultMaxFrameSize bounds the unescaped contents of a decoded frame
	DefaultMaxFrameSize = 64 * 1024
	crcLength           = 2
)

// appendEscaped appends b to dst, escaping it when it collides with the
// reserved range
func appendEscaped(dst []byte, b byte) []byte {
	if b >= EscapeThreshold {
		return append(dst, CE, b^XOR)
	}
	return append(dst, b)
}

// Encoder builds a single frame incrementally. The zero value is ready to use.
type Encoder struct {
	buf      []byte
	crc      uint16
	finished bool
}

// NewEncoder returns an encoder with room for a payload of sizeHint bytes
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{
		buf: make([]byte, 0, sizeHint+sizeHint/8+4),
	}
}

func (e *Encoder) begin() {
	if len(e.buf) == 0 {
		e.crc = crcInit
		e.buf = append(e.buf, BOF)
	}
}

// WriteByte adds b to the frame payload
func (e *Encoder) WriteByte(b byte) error {
	if e.finished {
		return ErrFinished
	}
	e.begin()
	e.crc = crcUpdate(e.crc, b)
	e.buf = appendEscaped(e.buf, b)
	return nil
}

// Write adds p to the frame payload
func (e *Encoder) Write(p []byte) (int, error) {
	if e.finished {
		return 0, ErrFinished
	}
	for _, b := range p {
		_ = e.WriteByte(b)
	}
	return len(p), nil
}

// Finish appends the CRC trailer and the end of frame marker. Calling it
// more than once has no further effect.
func (e *Encoder) Finish() {
	if e.finished {
		return
	}
	e.begin()
	e.finished = true
	crc := ^e.crc
	e.buf = appendEscaped(e.buf, byte(crc))
	e.buf = appendEscaped(e.buf, byte(crc>>8))
	e.buf = append(e.buf, EOF)
}

// IsFinished reports whether Finish has been called
func (e *Encoder) IsFinished() bool {
	return e.finished
}

// Len returns the number of encoded bytes so far
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Bytes returns the encoded frame. The frame must have been finished.
func (e *Encoder) Bytes() ([]byte, error) {
	if !e.finished {
		return nil, ErrNotFinished
	}
	return e.buf, nil
}

// Reset discards the frame so the encoder can be reused
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.crc = crcInit
	e.finished = false
}

// EncodeFrame returns payload wrapped in a complete frame
func EncodeFrame(payload []byte) []byte {
	e := NewEncoder(len(payload))
	_, _ = e.Write(payload)
	e.Finish()
	return e.buf
}
