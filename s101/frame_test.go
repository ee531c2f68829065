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

package s101_test

import (
	"bytes"
	"testing"

	"github.com/blinklabs-io/goember/internal/test"
	"github.com/blinklabs-io/goember/s101"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	// CRC-16/X-25 check value
	assert.Equal(t, uint16(0x906E), s101.Checksum([]byte("123456789")))
	assert.Equal(t, uint16(0x0000), s101.Checksum(nil))
}

func TestChecksumResidual(t *testing.T) {
	for _, payload := range [][]byte{
		nil,
		{0x00},
		[]byte("123456789"),
		bytes.Repeat([]byte{0xff}, 100),
	} {
		crc := s101.Checksum(payload)
		frame := append(append([]byte(nil), payload...), byte(crc), byte(crc>>8))
		assert.Equal(t, uint16(0xF0B8), s101.UpdateCRC(0xFFFF, frame))
	}
}

type frameCollector struct {
	frames [][]byte
}

func (c *frameCollector) handle(payload []byte) {
	c.frames = append(c.frames, append([]byte(nil), payload...))
}

func allBytes() []byte {
	ret := make([]byte, 256)
	for i := range ret {
		ret[i] = byte(i)
	}
	return ret
}

func TestEncodeFrame(t *testing.T) {
	testDefs := []struct {
		name    string
		payload []byte
		hexStr  string
	}{
		{name: "empty", payload: nil, hexStr: "fe0000ff"},
		{name: "plain", payload: []byte("123456789"), hexStr: "fe3132333435363738396e90ff"},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			frame := s101.EncodeFrame(testDef.payload)
			assert.Equal(t, test.DecodeHexString(testDef.hexStr), frame)
		})
	}
}

func TestEncoderEscaping(t *testing.T) {
	e := s101.NewEncoder(8)
	_, err := e.Write([]byte{0xf7, 0xf8, 0xfd, 0xfe, 0xff})
	require.NoError(t, err)
	_, err = e.Bytes()
	assert.ErrorIs(t, err, s101.ErrNotFinished)
	e.Finish()
	e.Finish()
	frame, err := e.Bytes()
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("fe f7 fdd8 fddd fdde fddf"), frame[:10])
	assert.Equal(t, s101.EOF, frame[len(frame)-1])
	// Markers never appear inside the frame
	for _, b := range frame[1 : len(frame)-1] {
		assert.NotEqual(t, s101.BOF, b)
		assert.NotEqual(t, s101.EOF, b)
	}
	assert.ErrorIs(t, e.WriteByte(0x00), s101.ErrFinished)
	e.Reset()
	assert.False(t, e.IsFinished())
	assert.Equal(t, 0, e.Len())
	e.Finish()
	frame, err = e.Bytes()
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("fe0000ff"), frame)
}

func TestDecoderRoundTrip(t *testing.T) {
	payloads := [][]byte{
		allBytes(),
		{s101.BOF, s101.EOF, s101.CE, s101.EscapeThreshold},
		[]byte("123456789"),
		{},
	}
	var stream []byte
	for _, payload := range payloads {
		stream = append(stream, s101.EncodeFrame(payload)...)
	}
	for _, size := range []int{1, 2, 3, 7, 64, len(stream)} {
		c := &frameCollector{}
		d := s101.NewDecoder(c.handle)
		for _, chunk := range test.Partitions(stream, size) {
			n, err := d.Write(chunk)
			require.NoError(t, err)
			require.Equal(t, len(chunk), n)
		}
		require.Len(t, c.frames, len(payloads), "chunk size %d", size)
		for i, payload := range payloads {
			assert.Equal(t, len(payload), len(c.frames[i]))
			if len(payload) > 0 {
				assert.Equal(t, payload, c.frames[i])
			}
		}
		assert.Equal(t, uint64(len(payloads)), d.Frames())
		assert.Equal(t, uint64(0), d.Dropped())
	}
}

func TestDecoderCorruption(t *testing.T) {
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	frame := s101.EncodeFrame(payload)
	for i := 1; i <= len(payload); i++ {
		corrupt := append([]byte(nil), frame...)
		corrupt[i] ^= 0x01
		c := &frameCollector{}
		d := s101.NewDecoder(c.handle)
		_, err := d.Write(corrupt)
		require.NoError(t, err)
		assert.Empty(t, c.frames, "flipped byte %d", i)
		assert.Equal(t, uint64(1), d.Dropped())
		// The decoder recovers on the next frame
		_, err = d.Write(frame)
		require.NoError(t, err)
		require.Len(t, c.frames, 1)
		assert.Equal(t, payload, c.frames[0])
	}
}

func TestDecoderFraming(t *testing.T) {
	good := s101.EncodeFrame([]byte{0x01, 0x02, 0x03})
	testDefs := []struct {
		name    string
		stream  []byte
		frames  int
		dropped uint64
	}{
		{
			name:   "leading garbage",
			stream: append(test.DecodeHexString("0102ff0304"), good...),
			frames: 1,
		},
		{
			name:   "begin marker restarts frame",
			stream: append(test.DecodeHexString("fe0102"), good...),
			frames: 1,
		},
		{
			name:    "short frame",
			stream:  test.DecodeHexString("fe01ff"),
			dropped: 1,
		},
		{
			name:    "escape before end marker",
			stream:  test.DecodeHexString("fe0102fdff"),
			dropped: 1,
		},
		{
			name:    "empty frame",
			stream:  test.DecodeHexString("feff"),
			dropped: 1,
		},
		{
			name:   "bytes between frames",
			stream: append(append(append([]byte(nil), good...), 0x42, 0x43), good...),
			frames: 2,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			c := &frameCollector{}
			d := s101.NewDecoder(c.handle)
			_, err := d.Write(testDef.stream)
			require.NoError(t, err)
			assert.Len(t, c.frames, testDef.frames)
			assert.Equal(t, testDef.dropped, d.Dropped())
		})
	}
}

func TestDecoderMaxFrameSize(t *testing.T) {
	c := &frameCollector{}
	d := s101.NewDecoder(c.handle, s101.WithMaxFrameSize(4))
	_, err := d.Write(s101.EncodeFrame([]byte{1, 2, 3, 4, 5}))
	require.NoError(t, err)
	assert.Empty(t, c.frames)
	assert.Equal(t, uint64(1), d.Dropped())
	_, err = d.Write(s101.EncodeFrame([]byte{1, 2, 3, 4}))
	require.NoError(t, err)
	require.Len(t, c.frames, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, c.frames[0])
}

func TestDecoderReset(t *testing.T) {
	c := &frameCollector{}
	d := s101.NewDecoder(c.handle)
	frame := s101.EncodeFrame([]byte("partial"))
	_, _ = d.Write(frame[:5])
	d.Reset()
	// The rest of the frame is ignored until the next begin marker
	_, _ = d.Write(frame[5:])
	assert.Empty(t, c.frames)
	_, _ = d.Write(frame)
	require.Len(t, c.frames, 1)
	assert.Equal(t, []byte("partial"), c.frames[0])
}
