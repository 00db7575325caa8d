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
	"strconv"
	"strings"
)

// defaultQuality replaces any q value that is not usable.
const defaultQuality = "1"

// ParseMediaRange parses a media range, such as one element of an Accept
// header, and guarantees that the result carries a q parameter.
//
// Example:
//
//	r, _ := mimeparse.ParseMediaRange("application/*;q=0.5")
//	// r.Type == "application", r.Subtype == "*", r.Quality() == 0.5
//
// When q is missing, empty, not a number, outside [0,1] or zero, it is set
// to "1". An explicit "q=0" therefore does not rule a range out.
//
// Errors:
//   - [*MalformedMediaTypeError] from [ParseMediaType]
func ParseMediaRange(s string) (MediaType, error) {
	r, err := ParseMediaType(s)
	if err != nil {
		return MediaType{}, err
	}

	if _, ok := parseQuality(r.Params.Get("q")); !ok {
		r.Params.Set("q", defaultQuality)
	}

	return r, nil
}

// ParseAccept splits an Accept header on "," and parses every element as a
// media range. An empty element, including one left by a trailing comma, is
// malformed.
//
// Errors:
//   - [*MalformedMediaTypeError] for the first element that fails to parse
func ParseAccept(header string) ([]MediaType, error) {
	parts := strings.Split(header, ",")
	ranges := make([]MediaType, 0, len(parts))
	for _, part := range parts {
		r, err := ParseMediaRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// parseQuality reports the value of a q parameter and whether it is usable:
// a decimal number greater than zero and at most one. Hexadecimal floats,
// which strconv.ParseFloat would otherwise accept, are not decimal.
func parseQuality(value string, present bool) (float64, bool) {
	if !present || value == "" || hasHexPrefix(value) {
		return 0, false
	}
	q, err := strconv.ParseFloat(value, 64)
	if err != nil || !(q > 0 && q <= 1) {
		return 0, false
	}
	return q, true
}

func hasHexPrefix(value string) bool {
	digits := strings.TrimLeft(value, "+-")
	return strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X")
}
