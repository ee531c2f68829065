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

// Package s101 implements the S101 framing protocol used to carry Ember+
// payloads over byte streams.
//
// A frame is a payload surrounded by begin and end of frame markers. Bytes
// that collide with the markers are escaped, and a CRC-16/CCITT trailer
// protects the contents. Inside a frame, an S101 message header identifies
// the slot, the command and, for EmBER messages, the package flags used to
// split large payloads across several frames.
package s101
