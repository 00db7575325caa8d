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

// Wildcard matches any type or subtype.
const Wildcard = "*"

// Fitness weights.
const (
	typeFitness    = 100
	subtypeFitness = 10
)

// Match is the score of a candidate type against a set of media ranges.
type Match struct {
	// Fitness is the specificity of the best matching range, or -1.
	Fitness int
	// Quality is the q value of the best matching range, or 0.
	Quality float64
}

// NoMatch is returned when no range matches a candidate.
var NoMatch = Match{Fitness: -1, Quality: 0}

// Matched reports whether m came from an actual range match.
func (m Match) Matched() bool {
	return m.Fitness >= 0
}

// FitnessAndQuality scores candidate against ranges, which should come from
// [ParseMediaRange] or [ParseAccept].
//
// Ranges are visited in order. Only a strictly higher fitness replaces the
// current best, so when several ranges share the top fitness the first one
// decides the quality. The candidate's own q parameter is ignored.
//
// Example:
//
//	ranges, _ := mimeparse.ParseAccept("text/*;q=0.3, text/html;q=0.7")
//	m, _ := mimeparse.FitnessAndQuality("text/html", ranges)
//	// m.Fitness == 110, m.Quality == 0.7
//
// Errors:
//   - [*MalformedMediaTypeError] if candidate does not parse
func FitnessAndQuality(candidate string, ranges []MediaType) (Match, error) {
	target, err := ParseMediaRange(candidate)
	if err != nil {
		return NoMatch, err
	}
	return score(target, ranges), nil
}

// QualityParsed returns the quality component of [FitnessAndQuality], 0 when
// nothing matched.
func QualityParsed(candidate string, ranges []MediaType) (float64, error) {
	m, err := FitnessAndQuality(candidate, ranges)
	if err != nil {
		return 0, err
	}
	return m.Quality, nil
}

// Quality returns the q value of candidate when compared against the media
// ranges of an Accept header.
//
// Example:
//
//	q, _ := mimeparse.Quality("text/html",
//	    "text/*;q=0.3, text/html;q=0.7, text/html;level=1, text/html;level=2;q=0.4, */*;q=0.5")
//	// q == 0.7
//
// Errors:
//   - [*MalformedMediaTypeError] if header or candidate does not parse
func Quality(candidate, header string) (float64, error) {
	ranges, err := ParseAccept(header)
	if err != nil {
		return 0, err
	}
	return QualityParsed(candidate, ranges)
}

func score(target MediaType, ranges []MediaType) Match {
	best := NoMatch
	for _, r := range ranges {
		if !fits(r.Type, target.Type) || !fits(r.Subtype, target.Subtype) {
			continue
		}

		fitness := 0
		if r.Type == target.Type {
			fitness += typeFitness
		}
		if r.Subtype == target.Subtype {
			fitness += subtypeFitness
		}
		for _, p := range target.Params {
			if p.Key == "q" {
				continue
			}
			if v, ok := r.Params.Get(p.Key); ok && v == p.Value {
				fitness++
			}
		}

		if fitness > best.Fitness {
			best = Match{Fitness: fitness, Quality: r.Quality()}
		}
	}
	return best
}

func fits(a, b string) bool {
	return a == b || a == Wildcard || b == Wildcard
}
