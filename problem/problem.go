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


package problem

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gnomeria/kateglo/mimeparse"
)

// Formatter converts an error into HTTP response components.
type Formatter interface {
	// Format builds the response for err. instance identifies the resource
	// the error occurred on, usually the request path.
	Format(instance string, err error) Response
}

// Response is a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the value to serialize as the response body.
	Body any
}

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// NotAcceptableError reports that none of the supported types satisfies an
// Accept header. It matches errors.Is(err, mimeparse.ErrNotAcceptable).
type NotAcceptableError struct {
	Supported []string
	Accept    string
}

// NotAcceptable returns a [*NotAcceptableError] for the given offer and header.
func NotAcceptable(supported []string, accept string) error {
	return &NotAcceptableError{Supported: supported, Accept: accept}
}

func (e *NotAcceptableError) Error() string {
	return fmt.Sprintf("none of [%s] is acceptable for %q", strings.Join(e.Supported, ", "), e.Accept)
}

// Is reports whether target is [mimeparse.ErrNotAcceptable].
func (e *NotAcceptableError) Is(target error) bool {
	return target == mimeparse.ErrNotAcceptable
}

// HTTPStatus returns 406 Not Acceptable.
func (e *NotAcceptableError) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// Code returns "not_acceptable".
func (e *NotAcceptableError) Code() string {
	return "not_acceptable"
}

// Details lists what could have been served.
func (e *NotAcceptableError) Details() any {
	return map[string]any{
		"supported": e.Supported,
		"accept":    e.Accept,
	}
}

// Negotiate picks the best supported type for an Accept header and reports a
// failed negotiation as an error.
//
// Errors:
//   - [*mimeparse.MalformedMediaTypeError] if the header or a supported type does not parse
//   - [*NotAcceptableError] if nothing in supported is acceptable
func Negotiate(supported []string, accept string) (string, error) {
	mimeType, ok, err := mimeparse.BestMatch(supported, accept)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", NotAcceptable(supported, accept)
	}
	return mimeType, nil
}

// Status returns the HTTP status declared by err, or 500.
func Status(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Formatter kinds accepted by [New].
const (
	KindRFC9457 = "rfc9457"
	KindSimple  = "simple"
)

// ErrUnknownKind is returned by [New] for an unsupported formatter kind.
var ErrUnknownKind = errors.New("unknown problem formatter")

// New returns the formatter named by kind. baseURL only applies to
// [KindRFC9457].
func New(kind, baseURL string) (Formatter, error) {
	switch kind {
	case KindRFC9457, "":
		return NewRFC9457(baseURL), nil
	case KindSimple:
		return NewSimple(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
