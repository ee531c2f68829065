// Copyright 2024 Blink Labs Software
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

package muxer_test

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/blinklabs-io/goember/muxer"
	"github.com/blinklabs-io/goember/s101"
	"go.uber.org/goleak"
)

const testTimeout = 2 * time.Second

// peer is the far end of a muxer under test
type peer struct {
	t         *testing.T
	conn      net.Conn
	decoder   *s101.Decoder
	messages  []*s101.Message
	assembler s101.Assembler
}

func newTestMuxer(t *testing.T, options ...muxer.OptionFunc) (*muxer.Muxer, *peer) {
	client, server := net.Pipe()
	m := muxer.New(server, options...)
	p := &peer{t: t, conn: client}
	p.decoder = s101.NewDecoder(func(payload []byte) {
		msg, err := s101.DecodeMessage(payload)
		if err != nil {
			t.Errorf("peer received invalid message: %s", err)
			return
		}
		p.messages = append(p.messages, msg)
	})
	return m, p
}

func (p *peer) send(msg *s101.Message) {
	p.t.Helper()
	frame, err := s101.EncodeMessage(msg)
	if err != nil {
		p.t.Fatalf("unexpected error encoding message: %s", err)
	}
	p.write(frame)
}

func (p *peer) write(data []byte) {
	p.t.Helper()
	if err := p.conn.SetWriteDeadline(time.Now().Add(testTimeout)); err != nil {
		p.t.Fatalf("unexpected error: %s", err)
	}
	if _, err := p.conn.Write(data); err != nil {
		p.t.Fatalf("unexpected error writing to muxer: %s", err)
	}
}

// receive reads from the muxer until count messages have been decoded
func (p *peer) receive(count int) []*s101.Message {
	p.t.Helper()
	buf := make([]byte, 512)
	for len(p.messages) < count {
		if err := p.conn.SetReadDeadline(time.Now().Add(testTimeout)); err != nil {
			p.t.Fatalf("unexpected error: %s", err)
		}
		n, err := p.conn.Read(buf)
		if err != nil {
			p.t.Fatalf("unexpected error reading from muxer: %s", err)
		}
		_, _ = p.decoder.Write(buf[:n])
	}
	ret := p.messages[:count]
	p.messages = p.messages[count:]
	return ret
}

func receivePayload(t *testing.T, m *muxer.Muxer) []byte {
	t.Helper()
	select {
	case payload, ok := <-m.EmberChan():
		if !ok {
			t.Fatalf("EmBER channel closed unexpectedly")
		}
		return payload
	case err := <-m.ErrorChan():
		t.Fatalf("unexpected muxer error: %s", err)
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for EmBER payload")
	}
	return nil
}

func testPayload(size int) []byte {
	ret := make([]byte, size)
	for i := range ret {
		ret[i] = byte(i * 7)
	}
	return ret
}

func TestMuxerInitialization(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, p := newTestMuxer(t)
	defer p.conn.Close()
	if m.ErrorChan() == nil {
		t.Error("expected non-nil error channel")
	}
	if m.EmberChan() == nil {
		t.Error("expected non-nil EmBER channel")
	}
	// Stopping before Start must not block
	m.Stop()
	// Should be able to stop multiple times without panic
	m.Stop()
	if _, ok := <-m.ErrorChan(); ok {
		t.Error("expected error channel to be closed")
	}
	if _, ok := <-m.EmberChan(); ok {
		t.Error("expected EmBER channel to be closed")
	}
	if err := m.SendKeepAlive(); !errors.Is(err, muxer.ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestMuxerReceiveEmber(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, p := newTestMuxer(t)
	defer p.conn.Close()
	defer m.Stop()
	m.Start()

	payload := testPayload(2500)
	// A corrupted frame ahead of the real data is dropped
	corrupt, err := s101.EncodeMessage(s101.NewEmberMessage(0, []byte{0x01, 0x02}))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	corrupt[10] ^= 0x01
	p.write(corrupt)
	for _, msg := range s101.SplitEmber(0, payload, 1000) {
		p.send(msg)
	}
	got := receivePayload(t, m)
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %d bytes, expected %d", len(got), len(payload))
	}
	if dropped := m.DroppedFrames(); dropped != 1 {
		t.Errorf("expected 1 dropped frame, got %d", dropped)
	}
	// Packages without a first package are ignored
	p.send(s101.SplitEmber(0, payload, 1000)[1])
	p.send(s101.NewEmberMessage(0, []byte{0xa0}))
	got = receivePayload(t, m)
	if !bytes.Equal(got, []byte{0xa0}) {
		t.Fatalf("unexpected payload: %x", got)
	}
}

func TestMuxerKeepAlive(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, p := newTestMuxer(t)
	defer p.conn.Close()
	defer m.Stop()
	m.Start()

	p.send(s101.NewKeepAliveRequest(4))
	msgs := p.receive(1)
	if msgs[0].Command != s101.CommandKeepAliveResponse {
		t.Fatalf("expected keep-alive response, got %s", msgs[0])
	}
	if msgs[0].Slot != 4 {
		t.Errorf("expected response on slot 4, got %d", msgs[0].Slot)
	}

	p.send(s101.NewKeepAliveResponse(0))
	select {
	case msg := <-m.KeepAliveChan():
		if msg.Command != s101.CommandKeepAliveResponse {
			t.Errorf("unexpected message: %s", msg)
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for keep-alive response")
	}
}

func TestMuxerSend(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, p := newTestMuxer(t, muxer.WithSlot(2), muxer.WithMaxPackageSize(100))
	defer p.conn.Close()
	defer m.Stop()
	m.Start()

	payload := testPayload(250)
	errChan := make(chan error, 1)
	go func() {
		errChan <- m.SendEmber(payload)
	}()
	msgs := p.receive(3)
	if err := <-errChan; err != nil {
		t.Fatalf("unexpected error sending: %s", err)
	}
	var got []byte
	for i, msg := range msgs {
		if msg.Slot != 2 {
			t.Errorf("expected slot 2, got %d", msg.Slot)
		}
		data, complete, err := p.assembler.Add(msg)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if complete != (i == len(msgs)-1) {
			t.Fatalf("unexpected completion state at package %d", i)
		}
		got = data
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}

	go func() {
		errChan <- m.SendKeepAlive()
	}()
	msgs = p.receive(1)
	if err := <-errChan; err != nil {
		t.Fatalf("unexpected error sending: %s", err)
	}
	if msgs[0].Command != s101.CommandKeepAliveRequest {
		t.Fatalf("expected keep-alive request, got %s", msgs[0])
	}
}

func TestMuxerNoAutoKeepAlive(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, p := newTestMuxer(t, muxer.WithAutoKeepAlive(false))
	defer p.conn.Close()
	defer m.Stop()
	m.Start()

	p.send(s101.NewKeepAliveRequest(0))
	p.send(s101.NewEmberMessage(0, []byte{0x01}))
	// The payload arriving shows the request was processed without a reply
	receivePayload(t, m)
	if err := p.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	buf := make([]byte, 16)
	if n, err := p.conn.Read(buf); err == nil {
		t.Fatalf("unexpected data from muxer: %x", buf[:n])
	}
}

func TestMuxerConnectionClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, p := newTestMuxer(t)
	defer m.Stop()
	m.Start()
	p.conn.Close()
	select {
	case err := <-m.ErrorChan():
		if !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF, got %v", err)
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for error")
	}
	// The read loop exits and closes the EmBER channel
	select {
	case _, ok := <-m.EmberChan():
		if ok {
			t.Fatalf("expected EmBER channel to be closed")
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for EmBER channel to close")
	}
}
