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

import "errors"

var (
	// ErrNotFinished is returned when the frame bytes are requested before Finish
	ErrNotFinished = errors.New("s101: frame not finished")
	// ErrFinished is returned when writing to a finished frame
	ErrFinished = errors.New("s101: frame already finished")
	// ErrIntegrity is the reason recorded for frames failing the CRC check
	ErrIntegrity = errors.New("s101: frame CRC mismatch")
	// ErrFrameTooLarge is the reason recorded for frames exceeding the size limit
	ErrFrameTooLarge = errors.New("s101: frame too large")
	// ErrInvalidEscape is the reason recorded for frames ending on an escape
	ErrInvalidEscape = errors.New("s101: invalid escape sequence")
	// ErrShortMessage is returned when a message is missing header bytes
	ErrShortMessage = errors.New("s101: message too short")
	// ErrUnsupportedMessageType is returned for message types other than EmBER
	ErrUnsupportedMessageType = errors.New("s101: unsupported message type")
	// ErrUnsupportedCommand is returned for unknown commands
	ErrUnsupportedCommand = errors.New("s101: unsupported command")
	// ErrOutOfSequence is returned when a package arrives without a first package
	ErrOutOfSequence = errors.New("s101: package out of sequence")
	// ErrPayloadTooLarge is returned when a reassembled payload exceeds its limit
	ErrPayloadTooLarge = errors.New("s101: payload too large")
)
