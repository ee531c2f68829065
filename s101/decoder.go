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

import (
	"log/slog"
	"sync/atomic"
)

// FrameHandler receives the payload of each valid frame. The decoder does not
// retain payload after the call returns.
type FrameHandler func(payload []byte)

// DecoderOptionFunc is a type that represents functions that modify the Decoder config
type DecoderOptionFunc func(*Decoder)

// WithLogger specifies the logger used to report dropped frames
func WithLogger(logger *slog.Logger) DecoderOptionFunc {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// WithMaxFrameSize specifies the largest unescaped frame accepted. Longer
// frames are dropped. A value of zero disables the limit.
func WithMaxFrameSize(size int) DecoderOptionFunc {
	return func(d *Decoder) {
		d.maxFrameSize = size
	}
}

// Decoder extracts frames from a byte stream. Frames failing the CRC check
// are dropped without an error; the decoder then waits for the next begin of
// frame marker.
type Decoder struct {
	handler      FrameHandler
	logger       *slog.Logger
	maxFrameSize int
	buf          []byte
	crc          uint16
	escape       bool
	inFrame      bool
	frames       atomic.Uint64
	dropped      atomic.Uint64
}

// NewDecoder returns a decoder delivering frame payloads to handler
func NewDecoder(handler FrameHandler, options ...DecoderOptionFunc) *Decoder {
	d := &Decoder{
		handler:      handler,
		maxFrameSize: DefaultMaxFrameSize,
	}
	for _, option := range options {
		option(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

func (d *Decoder) start() {
	d.buf = d.buf[:0]
	d.crc = crcInit
	d.escape = false
	d.inFrame = true
}

func (d *Decoder) drop(reason error) {
	d.dropped.Add(1)
	d.logger.Debug(
		"dropping frame",
		"component", "s101",
		"reason", reason.Error(),
		"length", len(d.buf),
	)
	d.Reset()
}

// WriteByte processes a single stream byte. It never returns an error.
func (d *Decoder) WriteByte(b byte) error {
	if b == BOF {
		// A begin marker always starts a new frame, discarding any partial one
		d.start()
		return nil
	}
	if !d.inFrame {
		return nil
	}
	if b == EOF {
		d.end()
		return nil
	}
	if d.escape {
		d.escape = false
		b ^= XOR
	} else if b == CE {
		d.escape = true
		return nil
	}
	if d.maxFrameSize > 0 && len(d.buf) >= d.maxFrameSize+crcLength {
		d.drop(ErrFrameTooLarge)
		return nil
	}
	d.buf = append(d.buf, b)
	d.crc = crcUpdate(d.crc, b)
	return nil
}

func (d *Decoder) end() {
	switch {
	case d.escape:
		d.drop(ErrInvalidEscape)
		return
	case len(d.buf) < crcLength || d.crc != crcResidual:
		d.drop(ErrIntegrity)
		return
	}
	payload := d.buf[:len(d.buf)-crcLength]
	d.frames.Add(1)
	d.inFrame = false
	d.escape = false
	d.buf = d.buf[:0]
	if d.handler != nil {
		d.handler(payload)
	}
}

// Write processes p. It always consumes all of p and never returns an error,
// which makes the decoder usable as the destination of io.Copy.
func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		_ = d.WriteByte(b)
	}
	return len(p), nil
}

// Reset discards any partial frame and waits for the next begin marker
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.crc = crcInit
	d.escape = false
	d.inFrame = false
}

// Frames returns the number of frames delivered. It is safe to call while
// another goroutine writes to the decoder
func (d *Decoder) Frames() uint64 {
	return d.frames.Load()
}

// Dropped returns the number of frames discarded. It is safe to call while
// another goroutine writes to the decoder
func (d *Decoder) Dropped() uint64 {
	return d.dropped.Load()
}
