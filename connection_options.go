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

package ember

import (
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/goember/dom"
	"github.com/blinklabs-io/goember/muxer"
)

// ConnectionOptionFunc is a type that represents functions that modify the Connection config
type ConnectionOptionFunc func(*Connection)

// WithConnection specifies an existing stream to use. If none is provided, the Attach() function can be
// used to provide one later
func WithConnection(conn io.ReadWriter) ConnectionOptionFunc {
	return func(c *Connection) {
		c.conn = conn
	}
}

// WithNodeFactory specifies the factory used to build application-defined nodes while decoding
func WithNodeFactory(factory dom.NodeFactory) ConnectionOptionFunc {
	return func(c *Connection) {
		c.factory = factory
	}
}

// WithLogger specifies the logger used by the connection and its components
func WithLogger(logger *slog.Logger) ConnectionOptionFunc {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithErrorChan specifies the error channel to use. If none is provided, one will be created
func WithErrorChan(errorChan chan error) ConnectionOptionFunc {
	return func(c *Connection) {
		c.errorChan = errorChan
	}
}

// WithKeepAliveInterval specifies how often keep-alive requests are sent. Keep-alives are not sent
// when the interval is zero, which is the default
func WithKeepAliveInterval(interval time.Duration) ConnectionOptionFunc {
	return func(c *Connection) {
		c.keepAliveInterval = interval
	}
}

// WithDelayMuxerStart specifies whether to delay the muxer start. This is useful if you need to take some
// custom actions before incoming data is processed. Call Start() to start the muxer
func WithDelayMuxerStart(delayMuxerStart bool) ConnectionOptionFunc {
	return func(c *Connection) {
		c.delayMuxerStart = delayMuxerStart
	}
}

// WithSlot specifies the S101 slot used for outgoing messages
func WithSlot(slot uint8) ConnectionOptionFunc {
	return func(c *Connection) {
		c.muxerOptions = append(c.muxerOptions, muxer.WithSlot(slot))
	}
}

// WithMaxPackageSize specifies the largest payload sent in a single S101 package
func WithMaxPackageSize(size int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.muxerOptions = append(c.muxerOptions, muxer.WithMaxPackageSize(size))
	}
}

// WithMaxFrameSize specifies the largest incoming S101 frame accepted
func WithMaxFrameSize(size int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.muxerOptions = append(c.muxerOptions, muxer.WithMaxFrameSize(size))
	}
}

// WithMaxPayloadSize specifies the largest reassembled EmBER payload accepted
func WithMaxPayloadSize(size int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.muxerOptions = append(c.muxerOptions, muxer.WithMaxPayloadSize(size))
	}
}

// WithAutoKeepAlive specifies whether keep-alive requests from the peer are answered automatically
func WithAutoKeepAlive(autoKeepAlive bool) ConnectionOptionFunc {
	return func(c *Connection) {
		c.muxerOptions = append(c.muxerOptions, muxer.WithAutoKeepAlive(autoKeepAlive))
	}
}

// WithTerminatorLength specifies how many zero octets close an indefinite length node
func WithTerminatorLength(length int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.readerOptions = append(c.readerOptions, dom.WithTerminatorLength(length))
	}
}

// WithMaxDepth limits container nesting in decoded trees
func WithMaxDepth(depth int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.readerOptions = append(c.readerOptions, dom.WithMaxDepth(depth))
	}
}

// WithMaxValueLength limits the length of leaf values in decoded trees
func WithMaxValueLength(length int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.readerOptions = append(c.readerOptions, dom.WithMaxValueLength(length))
	}
}
