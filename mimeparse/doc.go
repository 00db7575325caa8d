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


// Package mimeparse implements HTTP content negotiation over media types,
// following the Accept header semantics of RFC 2616 section 14.1.
//
// The package parses media types and media ranges, scores how well a
// concrete type fits a set of ranges, and picks the best representation
// a server can offer for a given Accept header value.
//
// # Quick Start
//
//	supported := []string{"application/xbel+xml", "text/xml"}
//	mimeType, ok, err := mimeparse.BestMatch(supported, "text/*;q=0.5,*/*;q=0.1")
//	if err != nil {
//	    // malformed Accept header (respond 400)
//	}
//	if !ok {
//	    // nothing acceptable (respond 406)
//	}
//	// mimeType == "text/xml"
//
// # Scoring
//
// A candidate type matches a range when the types are equal or either one is
// "*", and likewise for the subtypes. Each match is scored:
//
//	fitness = 100*[type equal] + 10*[subtype equal] + matching parameters
//
// The quality reported for a candidate is the q value of the first range
// that reached the highest fitness. [BestMatch] orders candidates by
// fitness, then quality, then the candidate string itself, and returns the
// greatest one unless its quality is zero.
//
// # Quality Values
//
// Ranges always carry a q parameter. A missing, unparsable, out of range or
// zero q is replaced by "1". Note that this means an explicit "q=0" does not
// exclude a type.
//
// # Errors
//
// The only parse failure is [*MalformedMediaTypeError], reported when a type
// has no "/" separator or an empty type or subtype. Use
// errors.Is(err, [ErrMalformedMediaType]) to detect it. Finding no acceptable
// type is not an error: [BestMatch] reports it through its boolean result.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use.
package mimeparse
