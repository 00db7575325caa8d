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
	"cmp"
	"slices"
	"strings"
)

// Candidate is a supported type together with its score.
type Candidate struct {
	MimeType string
	Match
}

// Acceptable reports whether the candidate may be served.
func (c Candidate) Acceptable() bool {
	return c.Quality != 0
}

// compareCandidates orders by fitness, then quality, then the type string.
func compareCandidates(a, b Candidate) int {
	return cmp.Or(
		cmp.Compare(a.Fitness, b.Fitness),
		cmp.Compare(a.Quality, b.Quality),
		strings.Compare(a.MimeType, b.MimeType),
	)
}

// BestMatch returns the supported type that best fits an Accept header.
//
// Every supported type is scored with [FitnessAndQuality]. Candidates are
// ordered by fitness, then quality, then by plain string comparison of the
// type, and the greatest one wins. If the winner has quality 0, meaning no
// range matched any supported type, ok is false.
//
// Example:
//
//	mimeType, ok, _ := mimeparse.BestMatch(
//	    []string{"application/xbel+xml", "text/xml"},
//	    "text/*;q=0.5,*/*;q=0.1",
//	)
//	// mimeType == "text/xml", ok == true
//
// Errors:
//   - [*MalformedMediaTypeError] if header or a supported type does not parse
func BestMatch(supported []string, header string) (mimeType string, ok bool, err error) {
	ranges, err := ParseAccept(header)
	if err != nil {
		return "", false, err
	}
	return BestMatchParsed(supported, ranges)
}

// BestMatchParsed is [BestMatch] over ranges that were already parsed.
func BestMatchParsed(supported []string, ranges []MediaType) (mimeType string, ok bool, err error) {
	var best Candidate
	for i, s := range supported {
		m, err := FitnessAndQuality(s, ranges)
		if err != nil {
			return "", false, err
		}
		c := Candidate{MimeType: s, Match: m}
		if i == 0 || compareCandidates(c, best) > 0 {
			best = c
		}
	}

	if !best.Acceptable() {
		return "", false, nil
	}
	return best.MimeType, true, nil
}

// Rank scores every supported type and returns them best first, in the order
// [BestMatchParsed] uses to pick a winner.
//
// Errors:
//   - [*MalformedMediaTypeError] if a supported type does not parse
func Rank(supported []string, ranges []MediaType) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(supported))
	for _, s := range supported {
		m, err := FitnessAndQuality(s, ranges)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{MimeType: s, Match: m})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return compareCandidates(b, a)
	})
	return candidates, nil
}
