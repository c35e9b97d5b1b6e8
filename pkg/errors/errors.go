// Copyright 2021 The gVisor Authors.
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

// Package errors holds the standardized error definition for ringq.
package errors

import (
	goerrors "errors"
	"fmt"
)

// Code classifies an Error.
type Code int

// Error codes.
const (
	// InvalidArgument is used when a caller passes an absent queue, an empty
	// value or an out of range parameter. Nothing is mutated.
	InvalidArgument Code = iota + 1

	// NotFound is used when an operation has nothing to act on.
	NotFound

	// Mismatch is used when an observed value differs from the expected one.
	Mismatch
)

// String implements fmt.Stringer.String.
func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "invalid argument"
	case NotFound:
		return "not found"
	case Mismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Error represents a classified error with a descriptive message.
type Error struct {
	code    Code
	message string
}

// New creates a new *Error.
func New(code Code, message string) *Error {
	return &Error{
		code:    code,
		message: message,
	}
}

// Error implements error.Error.
func (e *Error) Error() string { return e.message }

// Code returns the underlying Code value.
func (e *Error) Code() Code { return e.code }

// CodeOf returns the Code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if goerrors.As(err, &e) {
		return e.code, true
	}
	return 0, false
}
