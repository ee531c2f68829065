// Copyright 2023 Blink Labs Software
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

// Package ember implements support for exchanging Ember+ trees with a peer
// over an S101 framed byte stream.
//
// An Ember+ session consists of a muxer, which handles S101 framing,
// keep-alives and multi-package messages, and a BER tree codec. The dom and
// ber packages can be used on their own when no transport is needed.
//
// This package is the main entry point into this library.
package ember

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/goember/dom"
	"github.com/blinklabs-io/goember/muxer"
)

var (
	// ErrNotConnected is returned when sending before a stream is attached
	ErrNotConnected = errors.New("ember: not connected")
	// ErrAlreadyConnected is returned when attaching a second stream
	ErrAlreadyConnected = errors.New("ember: a connection was already established")
)

// The Connection type ties a byte stream to the S101 muxer and an incremental
// tree decoder. Decoded trees are delivered on TreeChan.
type Connection struct {
	conn              io.ReadWriter
	logger            *slog.Logger
	factory           dom.NodeFactory
	muxer             *muxer.Muxer
	reader            *dom.Reader
	errorChan         chan error
	treeChan          chan dom.Node
	doneChan          chan struct{}
	waitGroup         sync.WaitGroup
	onceClose         sync.Once
	sendMutex         sync.Mutex
	lastSent          dom.Fingerprint
	keepAliveInterval time.Duration
	delayMuxerStart   bool
	muxerOptions      []muxer.OptionFunc
	readerOptions     []dom.ReaderOptionFunc
}

// NewConnection returns a new Connection object with the specified options.
// If a stream is provided, it is attached immediately
func NewConnection(options ...ConnectionOptionFunc) (*Connection, error) {
	c := &Connection{
		treeChan: make(chan dom.Node, 10),
		doneChan: make(chan struct{}),
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.errorChan == nil {
		c.errorChan = make(chan error, 10)
	}
	if c.conn != nil {
		if err := c.setupConnection(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// New is an alias to NewConnection
func New(options ...ConnectionOptionFunc) (*Connection, error) {
	return NewConnection(options...)
}

// Muxer returns the muxer object for the connection
func (c *Connection) Muxer() *muxer.Muxer {
	return c.muxer
}

// ErrorChan returns the channel for asynchronous errors
func (c *Connection) ErrorChan() chan error {
	return c.errorChan
}

// TreeChan returns the channel delivering decoded trees. It is closed when
// the connection is closed
func (c *Connection) TreeChan() <-chan dom.Node {
	return c.treeChan
}

// Attach starts the session over conn. An error is returned if a stream was
// already attached
func (c *Connection) Attach(conn io.ReadWriter) error {
	if c.conn != nil {
		return ErrAlreadyConnected
	}
	c.conn = conn
	return c.setupConnection()
}

// Start starts the muxer when it was delayed with WithDelayMuxerStart
func (c *Connection) Start() error {
	if c.muxer == nil {
		return ErrNotConnected
	}
	c.muxer.Start()
	return nil
}

// Close will shutdown the connection
func (c *Connection) Close() error {
	c.onceClose.Do(func() {
		c.logger.Debug(
			"closing connection",
			"component", "ember",
		)
		// Close doneChan to signify that we're shutting down
		close(c.doneChan)
		// Gracefully stop the muxer
		if c.muxer != nil {
			c.muxer.Stop()
		}
		// Wait for other goroutines to finish
		c.waitGroup.Wait()
		// Close channels
		close(c.errorChan)
		close(c.treeChan)
	})
	return nil
}

// Send encodes root and sends it to the peer
func (c *Connection) Send(root dom.Node) error {
	if c.muxer == nil {
		return ErrNotConnected
	}
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.send(root, dom.NewFingerprint(root))
}

// SendIfChanged sends root only when its encoding differs from the last tree
// sent on this connection. It reports whether the tree was sent
func (c *Connection) SendIfChanged(root dom.Node) (bool, error) {
	if c.muxer == nil {
		return false, ErrNotConnected
	}
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	fingerprint := dom.NewFingerprint(root)
	if fingerprint == c.lastSent {
		return false, nil
	}
	if err := c.send(root, fingerprint); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Connection) send(root dom.Node, fingerprint dom.Fingerprint) error {
	if err := c.muxer.SendEmber(dom.Encode(root)); err != nil {
		return err
	}
	c.lastSent = fingerprint
	return nil
}

// SendKeepAlive sends a keep-alive request to the peer
func (c *Connection) SendKeepAlive() error {
	if c.muxer == nil {
		return ErrNotConnected
	}
	return c.muxer.SendKeepAlive()
}

func (c *Connection) sendError(err error) {
	select {
	case <-c.doneChan:
	case c.errorChan <- err:
	}
}

// setupConnection establishes the muxer and decoder and starts the goroutines
// that serve them
func (c *Connection) setupConnection() error {
	c.muxer = muxer.New(
		c.conn,
		append([]muxer.OptionFunc{muxer.WithLogger(c.logger)}, c.muxerOptions...)...,
	)
	readerOptions := []dom.ReaderOptionFunc{
		dom.WithLogger(c.logger),
		dom.WithNodeFactory(c.factory),
	}
	readerOptions = append(readerOptions, c.readerOptions...)
	readerOptions = append(readerOptions, dom.WithRootReadyFunc(c.handleRoot))
	c.reader = dom.NewReader(readerOptions...)
	// Start Goroutine to pass along errors from the muxer
	c.waitGroup.Add(1)
	go func() {
		defer c.waitGroup.Done()
		select {
		case <-c.doneChan:
			return
		case err, ok := <-c.muxer.ErrorChan():
			// Break out of goroutine if muxer's error channel is closed
			if !ok {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// Return a bare io.EOF error if error is EOF/ErrUnexpectedEOF
				c.sendError(io.EOF)
			} else {
				// Wrap error message to denote it comes from the muxer
				c.sendError(fmt.Errorf("muxer error: %w", err))
			}
			// Close connection on muxer errors. Close waits for this
			// goroutine, so it cannot be called inline
			go c.Close()
		}
	}()
	// Start Goroutine to decode incoming payloads
	c.waitGroup.Add(1)
	go c.decodeLoop()
	if c.keepAliveInterval > 0 {
		c.waitGroup.Add(1)
		go c.keepAliveLoop()
	}
	if !c.delayMuxerStart {
		c.muxer.Start()
	}
	return nil
}

func (c *Connection) decodeLoop() {
	defer c.waitGroup.Done()
	for {
		select {
		case <-c.doneChan:
			return
		case payload, ok := <-c.muxer.EmberChan():
			if !ok {
				return
			}
			if _, err := c.reader.Write(payload); err != nil {
				c.logger.Warn(
					"discarding undecodable tree",
					"component", "ember",
					"error", err,
				)
				c.reader.Reset()
				c.sendError(fmt.Errorf("decode error: %w", err))
			}
		}
	}
}

// handleRoot runs on the decode loop whenever a top-level node is complete
func (c *Connection) handleRoot(root dom.Node) {
	select {
	case <-c.doneChan:
	case c.treeChan <- root:
	}
}

func (c *Connection) keepAliveLoop() {
	defer c.waitGroup.Done()
	ticker := time.NewTicker(c.keepAliveInterval)
	defer ticker.Stop()
	var sentAt time.Time
	for {
		select {
		case <-c.doneChan:
			return
		case <-ticker.C:
			if err := c.muxer.SendKeepAlive(); err != nil {
				if errors.Is(err, muxer.ErrStopped) {
					return
				}
				c.sendError(fmt.Errorf("keep-alive error: %w", err))
				continue
			}
			sentAt = time.Now()
		case msg := <-c.muxer.KeepAliveChan():
			c.logger.Debug(
				"keep-alive response received",
				"component", "ember",
				"slot", msg.Slot,
				"rtt", time.Since(sentAt).String(),
			)
		}
	}
}
