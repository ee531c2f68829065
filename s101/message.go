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
	"fmt"
	"strings"
)

const (
	// MessageTypeEmber is the only message type defined by S101
	MessageTypeEmber byte = 0x0E
	// Version is the S101 protocol version written in message headers
	Version byte = 0x01
	// DtdGlow identifies the Glow DTD in EmBER message headers
	DtdGlow byte = 0x01
	// DefaultMaxPackageSize is the largest payload sent in a single package
	DefaultMaxPackageSize = 1024

	headerLength      = 4
	emberHeaderLength = 3
)

// GlowDtdVersion holds the application bytes announcing Glow DTD 2.31, minor
// version first
var GlowDtdVersion = []byte{0x1F, 0x02}

// Command identifies the purpose of a message
type Command uint8

const (
	CommandEmber             Command = 0x00
	CommandKeepAliveRequest  Command = 0x01
	CommandKeepAliveResponse Command = 0x02
)

func (c Command) String() string {
	switch c {
	case CommandEmber:
		return "EmBER"
	case CommandKeepAliveRequest:
		return "KeepAliveRequest"
	case CommandKeepAliveResponse:
		return "KeepAliveResponse"
	}
	return fmt.Sprintf("Command(0x%02x)", uint8(c))
}

// PackageFlags describe where a package sits within a multi-package message
type PackageFlags uint8

const (
	FlagFirstPackage PackageFlags = 0x80
	FlagLastPackage  PackageFlags = 0x40
	FlagEmptyPackage PackageFlags = 0x20
	// FlagSinglePackage marks a message that fits in one package
	FlagSinglePackage = FlagFirstPackage | FlagLastPackage
)

// IsSet reports whether all bits of flag are set
func (f PackageFlags) IsSet(flag PackageFlags) bool {
	return f&flag == flag
}

func (f PackageFlags) String() string {
	var items []string
	if f.IsSet(FlagEmptyPackage) {
		items = append(items, "EMPTY")
	}
	if f.IsSet(FlagFirstPackage) {
		items = append(items, "FIRST")
	}
	if f.IsSet(FlagLastPackage) {
		items = append(items, "LAST")
	}
	if len(items) == 0 {
		return "NONE"
	}
	return strings.Join(items, " | ")
}

// Message is the contents of a single S101 frame
type Message struct {
	Slot    uint8
	Command Command
	Version uint8
	// The remaining fields are only present on EmBER messages
	Flags    PackageFlags
	Dtd      uint8
	AppBytes []byte
	Payload  []byte
}

// NewEmberMessage returns a single package EmBER message carrying payload
func NewEmberMessage(slot uint8, payload []byte) *Message {
	flags := FlagSinglePackage
	if len(payload) == 0 {
		flags |= FlagEmptyPackage
	}
	return newEmberPackage(slot, flags, payload)
}

func newEmberPackage(slot uint8, flags PackageFlags, payload []byte) *Message {
	return &Message{
		Slot:     slot,
		Command:  CommandEmber,
		Version:  Version,
		Flags:    flags,
		Dtd:      DtdGlow,
		AppBytes: GlowDtdVersion,
		Payload:  payload,
	}
}

// NewKeepAliveRequest returns a keep-alive request for slot
func NewKeepAliveRequest(slot uint8) *Message {
	return &Message{Slot: slot, Command: CommandKeepAliveRequest, Version: Version}
}

// NewKeepAliveResponse returns a keep-alive response for slot
func NewKeepAliveResponse(slot uint8) *Message {
	return &Message{Slot: slot, Command: CommandKeepAliveResponse, Version: Version}
}

// IsEmber reports whether the message carries EmBER data
func (m *Message) IsEmber() bool {
	return m.Command == CommandEmber
}

// MarshalBinary returns the unframed message bytes
func (m *Message) MarshalBinary() ([]byte, error) {
	if m.Command > CommandKeepAliveResponse {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCommand, m.Command)
	}
	size := headerLength
	if m.IsEmber() {
		if len(m.AppBytes) > 0xFF {
			return nil, fmt.Errorf(
				"s101: too many application bytes: %d",
				len(m.AppBytes),
			)
		}
		size += emberHeaderLength + len(m.AppBytes) + len(m.Payload)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, m.Slot, MessageTypeEmber, byte(m.Command), m.Version)
	if m.IsEmber() {
		buf = append(buf, byte(m.Flags), m.Dtd, byte(len(m.AppBytes)))
		buf = append(buf, m.AppBytes...)
		buf = append(buf, m.Payload...)
	}
	return buf, nil
}

// UnmarshalBinary decodes a message from the payload of a frame. The message
// retains slices of data.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) < headerLength {
		return ErrShortMessage
	}
	if data[1] != MessageTypeEmber {
		return fmt.Errorf("%w: 0x%02x", ErrUnsupportedMessageType, data[1])
	}
	cmd := Command(data[2])
	if cmd > CommandKeepAliveResponse {
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd)
	}
	*m = Message{
		Slot:    data[0],
		Command: cmd,
		Version: data[3],
	}
	if !m.IsEmber() {
		return nil
	}
	data = data[headerLength:]
	if len(data) < emberHeaderLength {
		return ErrShortMessage
	}
	m.Flags = PackageFlags(data[0])
	m.Dtd = data[1]
	appBytesCount := int(data[2])
	data = data[emberHeaderLength:]
	if len(data) < appBytesCount {
		return ErrShortMessage
	}
	m.AppBytes = data[:appBytesCount]
	m.Payload = data[appBytesCount:]
	return nil
}

func (m *Message) String() string {
	if !m.IsEmber() {
		return fmt.Sprintf("%s (slot %d)", m.Command, m.Slot)
	}
	return fmt.Sprintf(
		"%s (slot %d, flags %s, %d bytes)",
		m.Command,
		m.Slot,
		m.Flags,
		len(m.Payload),
	)
}

// EncodeMessage returns msg wrapped in a complete frame
func EncodeMessage(msg *Message) ([]byte, error) {
	data, err := msg.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return EncodeFrame(data), nil
}

// DecodeMessage decodes the payload of a frame into a new message. The
// message does not retain data.
func DecodeMessage(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if m.AppBytes != nil {
		m.AppBytes = append([]byte(nil), m.AppBytes...)
	}
	if m.Payload != nil {
		m.Payload = append([]byte(nil), m.Payload...)
	}
	return m, nil
}
