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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/goember/cbor"
	"github.com/blinklabs-io/goember/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testArrayStruct struct {
	cbor.StructAsArray
	Number uint32
	Name   string
	Items  []uint8
}

func TestEncodeStructAsArray(t *testing.T) {
	data, err := cbor.Encode(&testArrayStruct{Number: 5, Name: "ab", Items: []uint8{1}})
	require.NoError(t, err)
	// [5, "ab", h'01']
	assert.Equal(t, "83056261624101", hex.EncodeToString(data))
}

func TestEncodeDeterministicMap(t *testing.T) {
	data, err := cbor.Encode(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "a2616101616202", hex.EncodeToString(data))
}

func TestDecodeStructAsArray(t *testing.T) {
	var dest testArrayStruct
	n, err := cbor.Decode(test.DecodeHexString("83056261624101"), &dest)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, uint32(5), dest.Number)
	assert.Equal(t, "ab", dest.Name)
	assert.Equal(t, []uint8{1}, dest.Items)
}

func TestDecodeUnknownField(t *testing.T) {
	type small struct {
		A int `cbor:"a"`
	}
	var dest small
	_, err := cbor.Decode(test.DecodeHexString("a2616101616202"), &dest)
	assert.Error(t, err)
}
