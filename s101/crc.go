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

// CRC-16/CCITT as used by S101: reflected polynomial 0x1021, register
// initialized to 0xFFFF. The complement of the register is appended to a
// frame low byte first, so running the CRC over a frame including its
// trailer always leaves crcResidual in the register.
const (
	crcPolynomial = 0x8408
	crcInit       = 0xFFFF
	crcResidual   = 0xF0B8
)

var crcTable [256]uint16

func init() {
	for i := range crcTable {
		crc := uint16(i)
		for range 8 {
			if crc&1 == 1 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
		crcTable[i] = crc
	}
}

func crcUpdate(crc uint16, b byte) uint16 {
	return (crc >> 8) ^ crcTable[byte(crc)^b]
}

// UpdateCRC returns crc updated with the contents of p
func UpdateCRC(crc uint16, p []byte) uint16 {
	for _, b := range p {
		crc = crcUpdate(crc, b)
	}
	return crc
}

// Checksum returns the frame trailer value for p
func Checksum(p []byte) uint16 {
	return ^UpdateCRC(crcInit, p)
}
