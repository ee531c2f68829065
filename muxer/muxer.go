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

// Package muxer implements the S101 stream muxer, which unframes incoming
// bytes, answers keep-alives and reassembles EmBER payloads
package muxer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/goember/s101"
)

const (
	// DefaultReadBufferSize is the size of the buffer used for stream reads
	DefaultReadBufferSize = 4096
	// DefaultMaxPayloadSize bounds reassembled EmBER payloads
	DefaultMaxPayloadSize = 16 * 1024 * 1024
)

// ErrStopped is returned when sending on a stopped muxer
var ErrStopped = errors.New("muxer: stopped")

// OptionFunc is a type that represents functions that modify the Muxer config
type OptionFunc func(*Muxer)

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(m *Muxer) {
		m.logger = logger
	}
}

// WithSlot specifies the slot written in outgoing message headers
func WithSlot(slot uint8) OptionFunc {
	return func(m *Muxer) {
		m.slot = slot
	}
}

// WithMaxPackageSize specifies the largest payload sent in a single package
func WithMaxPackageSize(size int) OptionFunc {
	return func(m *Muxer) {
		m.maxPackageSize = size
	}
}

// WithMaxFrameSize specifies the largest incoming frame accepted
func WithMaxFrameSize(size int) OptionFunc {
	return func(m *Muxer) {
		m.maxFrameSize = size
	}
}

// WithMaxPayloadSize specifies the largest reassembled EmBER payload accepted
func WithMaxPayloadSize(size int) OptionFunc {
	return func(m *Muxer) {
		m.maxPayloadSize = size
	}
}

// WithAutoKeepAlive specifies whether keep-alive requests are answered
// automatically. This is enabled by default
func WithAutoKeepAlive(autoKeepAlive bool) OptionFunc {
	return func(m *Muxer) {
		m.autoKeepAlive = autoKeepAlive
	}
}

// WithReadBufferSize specifies the size of the buffer used for stream reads
func WithReadBufferSize(size int) OptionFunc {
	return func(m *Muxer) {
		m.readBufferSize = size
	}
}

// Muxer runs the S101 protocol over a byte stream. Reading does not begin
// until Start is called.
type Muxer struct {
	conn           io.ReadWriter
	logger         *slog.Logger
	slot           uint8
	maxPackageSize int
	maxFrameSize   int
	maxPayloadSize int
	autoKeepAlive  bool
	readBufferSize int
	sendMutex      sync.Mutex
	startChan      chan struct{}
	doneChan       chan struct{}
	errorChan      chan error
	emberChan      chan []byte
	keepAliveChan  chan *s101.Message
	onceStart      sync.Once
	onceStop       sync.Once
	waitGroup      sync.WaitGroup
	decoder        *s101.Decoder
	assembler      s101.Assembler
}

// New returns a muxer for conn. If conn implements io.Closer, it is closed
// when the muxer is stopped.
func New(conn io.ReadWriter, options ...OptionFunc) *Muxer {
	m := &Muxer{
		conn:           conn,
		maxPackageSize: s101.DefaultMaxPackageSize,
		maxFrameSize:   s101.DefaultMaxFrameSize,
		maxPayloadSize: DefaultMaxPayloadSize,
		autoKeepAlive:  true,
		readBufferSize: DefaultReadBufferSize,
		startChan:      make(chan struct{}),
		doneChan:       make(chan struct{}),
		errorChan:      make(chan error, 10),
		emberChan:      make(chan []byte, 10),
		keepAliveChan:  make(chan *s101.Message, 1),
	}
	for _, option := range options {
		option(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.readBufferSize <= 0 {
		m.readBufferSize = DefaultReadBufferSize
	}
	m.assembler.MaxPayloadSize = m.maxPayloadSize
	m.decoder = s101.NewDecoder(
		m.handleFrame,
		s101.WithLogger(m.logger),
		s101.WithMaxFrameSize(m.maxFrameSize),
	)
	m.waitGroup.Add(1)
	go m.readLoop()
	return m
}

// ErrorChan returns the channel for asynchronous errors. It is closed when
// the muxer stops
func (m *Muxer) ErrorChan() <-chan error {
	return m.errorChan
}

// EmberChan returns the channel delivering complete EmBER payloads. It is
// closed when the read loop exits
func (m *Muxer) EmberChan() <-chan []byte {
	return m.emberChan
}

// KeepAliveChan returns a channel that is signaled with keep-alive responses
// received from the peer. Responses are dropped when nobody is listening
func (m *Muxer) KeepAliveChan() <-chan *s101.Message {
	return m.keepAliveChan
}

// DroppedFrames returns the number of incoming frames discarded by the decoder
func (m *Muxer) DroppedFrames() uint64 {
	return m.decoder.Dropped()
}

// Start begins processing incoming data
func (m *Muxer) Start() {
	m.onceStart.Do(func() {
		close(m.startChan)
	})
}

// Stop shuts down the muxer and waits for the read loop to exit
func (m *Muxer) Stop() {
	m.onceStop.Do(func() {
		// Close doneChan to signify that we're shutting down
		close(m.doneChan)
		// Unblock a pending read
		if closer, ok := m.conn.(io.Closer); ok {
			_ = closer.Close()
		}
		m.waitGroup.Wait()
		// Close ErrorChan to signify to consumer that we're shutting down
		close(m.errorChan)
	})
}

func (m *Muxer) isDone() bool {
	select {
	case <-m.doneChan:
		return true
	default:
		return false
	}
}

func (m *Muxer) sendError(err error) {
	// Immediately return if we're already shutting down
	if m.isDone() {
		return
	}
	select {
	case m.errorChan <- err:
	default:
		m.logger.Error(
			"dropping muxer error",
			"component", "muxer",
			"error", err,
		)
	}
}

// Send frames msg and writes it to the stream
func (m *Muxer) Send(msg *s101.Message) error {
	frame, err := s101.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return m.write(frame)
}

// SendEmber sends payload as one or more EmBER packages. Packages from
// concurrent calls are never interleaved.
func (m *Muxer) SendEmber(payload []byte) error {
	var frames []byte
	for _, msg := range s101.SplitEmber(m.slot, payload, m.maxPackageSize) {
		frame, err := s101.EncodeMessage(msg)
		if err != nil {
			return err
		}
		frames = append(frames, frame...)
	}
	return m.write(frames)
}

// SendKeepAlive sends a keep-alive request
func (m *Muxer) SendKeepAlive() error {
	return m.Send(s101.NewKeepAliveRequest(m.slot))
}

func (m *Muxer) write(data []byte) error {
	if m.isDone() {
		return ErrStopped
	}
	// We use a mutex to make sure only one sender can write at a time
	m.sendMutex.Lock()
	defer m.sendMutex.Unlock()
	if _, err := m.conn.Write(data); err != nil {
		return fmt.Errorf("muxer: write failed: %w", err)
	}
	return nil
}

func (m *Muxer) readLoop() {
	defer m.waitGroup.Done()
	defer close(m.emberChan)
	// Wait until the muxer is started
	select {
	case <-m.doneChan:
		return
	case <-m.startChan:
	}
	buf := make([]byte, m.readBufferSize)
	for {
		n, err := m.conn.Read(buf)
		if n > 0 {
			_, _ = m.decoder.Write(buf[:n])
		}
		if m.isDone() {
			return
		}
		if err != nil {
			m.sendError(err)
			return
		}
	}
}

// handleFrame runs on the read loop for every valid frame
func (m *Muxer) handleFrame(payload []byte) {
	msg, err := s101.DecodeMessage(payload)
	if err != nil {
		m.logger.Warn(
			"dropping undecodable message",
			"component", "muxer",
			"error", err,
		)
		return
	}
	switch msg.Command {
	case s101.CommandKeepAliveRequest:
		m.logger.Debug(
			"received keep-alive request",
			"component", "muxer",
			"slot", msg.Slot,
		)
		if !m.autoKeepAlive {
			return
		}
		if err := m.Send(s101.NewKeepAliveResponse(msg.Slot)); err != nil {
			m.sendError(err)
		}
	case s101.CommandKeepAliveResponse:
		m.logger.Debug(
			"received keep-alive response",
			"component", "muxer",
			"slot", msg.Slot,
		)
		select {
		case m.keepAliveChan <- msg:
		default:
		}
	case s101.CommandEmber:
		data, complete, err := m.assembler.Add(msg)
		if err != nil {
			m.logger.Warn(
				"dropping EmBER package",
				"component", "muxer",
				"flags", msg.Flags.String(),
				"error", err,
			)
			return
		}
		if !complete {
			return
		}
		select {
		case m.emberChan <- data:
		case <-m.doneChan:
		}
	}
}
