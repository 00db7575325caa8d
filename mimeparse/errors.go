// Copyright 2025 The Rivaas Authors
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


package mimeparse

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedMediaType is matched by every [*MalformedMediaTypeError].
	ErrMalformedMediaType = errors.New("malformed media type")

	// ErrNotAcceptable indicates that none of the supported types is
	// acceptable for an Accept header. The functions in this package never
	// return it; it exists for callers that turn a failed [BestMatch] into
	// an error.
	ErrNotAcceptable = notAcceptableError{}
)

// MalformedMediaTypeError reports a media type or media range that cannot be
// split into a type and a subtype.
//
// It implements HTTPStatus and Code so that error formatters can render it as
// a 400 Bad Request.
type MalformedMediaTypeError struct {
	// Input is the raw string that failed to parse.
	Input string
}

// Error implements the error interface.
func (e *MalformedMediaTypeError) Error() string {
	return fmt.Sprintf("malformed media type %q", e.Input)
}

// Is reports whether target is [ErrMalformedMediaType].
func (e *MalformedMediaTypeError) Is(target error) bool {
	return target == ErrMalformedMediaType
}

// HTTPStatus returns 400 Bad Request.
func (e *MalformedMediaTypeError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns a machine-readable error code.
func (e *MalformedMediaTypeError) Code() string {
	return "malformed_media_type"
}

type notAcceptableError struct{}

func (notAcceptableError) Error() string   { return "no acceptable media type" }
func (notAcceptableError) HTTPStatus() int { return http.StatusNotAcceptable }
func (notAcceptableError) Code() string    { return "not_acceptable" }

func malformed(input string) error {
	return &MalformedMediaTypeError{Input: input}
}
