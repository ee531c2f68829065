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

package ber

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the input ends before a complete item has been read
	ErrTruncated = errors.New("ber: truncated input")

	// ErrMalformed is returned when the input violates the encoding rules
	ErrMalformed = errors.New("ber: malformed input")

	// ErrTypeMismatch is returned by the typed Value accessors when the stored kind differs
	ErrTypeMismatch = errors.New("ber: type mismatch")
)

// DecodeError describes a decode failure at a specific offset of the input.
// Err is one of ErrTruncated or ErrMalformed.
type DecodeError struct {
	Offset  int
	Message string
	Err     error
}

// NewDecodeError returns a DecodeError wrapping err
func NewDecodeError(offset int, err error, format string, args ...any) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func truncated(offset int, what string) error {
	return NewDecodeError(offset, ErrTruncated, "incomplete %s", what)
}

func malformed(offset int, format string, args ...any) error {
	return NewDecodeError(offset, ErrMalformed, format, args...)
}

// TypeMismatchError is returned when a Value is read as a kind it does not hold
type TypeMismatchError struct {
	Want UniversalType
	Got  UniversalType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("ber: type mismatch: want %s, got %s", e.Want, e.Got)
}

// Is allows errors.Is(err, ErrTypeMismatch) to match
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
