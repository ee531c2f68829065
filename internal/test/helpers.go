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

package test

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strings"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline. Embedded whitespace is ignored so that
// long wire vectors can be split into readable groups
func DecodeHexString(hexData string) []byte {
	hexData = strings.Join(strings.Fields(hexData), "")
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Partitions returns data split into consecutive chunks of the given size. The
// final chunk may be shorter
func Partitions(data []byte, size int) [][]byte {
	if size <= 0 {
		panic("partition size must be positive")
	}
	var ret [][]byte
	for len(data) > size {
		ret = append(ret, data[:size])
		data = data[size:]
	}
	if len(data) > 0 {
		ret = append(ret, data)
	}
	return ret
}

// PartitionSizes splits data into consecutive chunks, cycling through sizes
// for the chunk lengths
func PartitionSizes(data []byte, sizes ...int) [][]byte {
	if len(sizes) == 0 {
		panic("no partition sizes")
	}
	var ret [][]byte
	for i := 0; len(data) > 0; i++ {
		size := sizes[i%len(sizes)]
		if size <= 0 {
			panic("partition size must be positive")
		}
		size = min(size, len(data))
		ret = append(ret, data[:size])
		data = data[size:]
	}
	return ret
}

// RandomPartitions splits data into chunks of 1 to maxSize bytes chosen by a
// generator seeded with seed, so failures can be reproduced
func RandomPartitions(data []byte, seed uint64, maxSize int) [][]byte {
	if maxSize <= 0 {
		panic("partition size must be positive")
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	var ret [][]byte
	for len(data) > 0 {
		size := min(1+rng.IntN(maxSize), len(data))
		ret = append(ret, data[:size])
		data = data[size:]
	}
	return ret
}
