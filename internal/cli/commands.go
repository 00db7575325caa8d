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


package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gnomeria/kateglo/internal/config"
	"github.com/gnomeria/kateglo/mimeparse"
	"github.com/gnomeria/kateglo/problem"
)

func addAcceptFlag(fs *pflag.FlagSet, s *state) {
	fs.StringVarP(&s.flags.accept, "accept", "a", "", "Accept header (defaults to the profile's accept)")
}

func newMatchCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [supported...]",
		Short: "Print the best supported media type for an Accept header",
		Example: `  mimeparse match --accept 'text/*;q=0.5, application/json' text/html application/json
  mimeparse match --config negotiation.yaml --accept 'application/xml'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			supported, err := s.supported(args)
			if err != nil {
				return err
			}
			accept := s.accept(cmd)

			mimeType, err := problem.Negotiate(supported, accept)
			if err != nil {
				return s.fail(cmd, err)
			}
			s.logger.Info("negotiated", "accept", accept, "match", mimeType)

			if s.profile.Format == config.OutputJSON {
				return s.writeJSON(matchResult{Accept: accept, Match: mimeType})
			}
			_, err = fmt.Fprintln(s.stdout, mimeType)
			return err
		},
	}
	addAcceptFlag(cmd.Flags(), s)
	return cmd
}

type matchResult struct {
	Accept string `json:"accept"`
	Match  string `json:"match"`
}

func newQualityCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality TYPE",
		Short: "Print the quality an Accept header assigns to a media type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accept := s.accept(cmd)
			ranges, err := mimeparse.ParseAccept(accept)
			if err != nil {
				return s.fail(cmd, err)
			}
			m, err := mimeparse.FitnessAndQuality(args[0], ranges)
			if err != nil {
				return s.fail(cmd, err)
			}
			s.logger.Debug("scored", "type", args[0], "fitness", m.Fitness, "quality", m.Quality)

			if s.profile.Format == config.OutputJSON {
				return s.writeJSON(qualityResult{Type: args[0], Accept: accept, Fitness: m.Fitness, Quality: m.Quality})
			}
			_, err = fmt.Fprintln(s.stdout, formatQuality(m.Quality))
			return err
		},
	}
	addAcceptFlag(cmd.Flags(), s)
	return cmd
}

type qualityResult struct {
	Type    string  `json:"type"`
	Accept  string  `json:"accept"`
	Fitness int     `json:"fitness"`
	Quality float64 `json:"quality"`
}

func newParseCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "parse HEADER...",
		Short: "Parse media ranges and print them normalized",
		Long: `parse splits each argument on commas and prints every media range with
its q parameter normalized.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ranges []mimeparse.MediaType
			for _, arg := range args {
				parsed, err := mimeparse.ParseAccept(arg)
				if err != nil {
					return s.fail(cmd, err)
				}
				ranges = append(ranges, parsed...)
			}

			switch s.profile.Format {
			case config.OutputJSON:
				out := make([]parsedRange, 0, len(ranges))
				for _, r := range ranges {
					out = append(out, newParsedRange(r))
				}
				return s.writeJSON(out)
			case config.OutputTable:
				return s.renderRanges(ranges)
			default:
				for _, r := range ranges {
					if _, err := fmt.Fprintln(s.stdout, r.String()); err != nil {
						return err
					}
				}
				return nil
			}
		},
	}
}

type parsedRange struct {
	Type    string     `json:"type"`
	Subtype string     `json:"subtype"`
	Params  [][]string `json:"params"`
	Quality float64    `json:"quality"`
}

func newParsedRange(m mimeparse.MediaType) parsedRange {
	params := make([][]string, 0, len(m.Params))
	for _, p := range m.Params {
		params = append(params, []string{p.Key, p.Value})
	}
	return parsedRange{Type: m.Type, Subtype: m.Subtype, Params: params, Quality: m.Quality()}
}

func newRankCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank [supported...]",
		Short: "Show every supported media type ranked against an Accept header",
		RunE: func(cmd *cobra.Command, args []string) error {
			supported, err := s.supported(args)
			if err != nil {
				return err
			}
			accept := s.accept(cmd)

			ranges, err := mimeparse.ParseAccept(accept)
			if err != nil {
				return s.fail(cmd, err)
			}
			ranked, err := mimeparse.Rank(supported, ranges)
			if err != nil {
				return s.fail(cmd, err)
			}

			if s.profile.Format == config.OutputJSON {
				out := make([]rankedCandidate, 0, len(ranked))
				for _, c := range ranked {
					out = append(out, rankedCandidate{
						Type:       c.MimeType,
						Fitness:    c.Fitness,
						Quality:    c.Quality,
						Acceptable: c.Acceptable(),
					})
				}
				return s.writeJSON(out)
			}
			return s.renderRanking(ranked)
		},
	}
	addAcceptFlag(cmd.Flags(), s)
	return cmd
}

type rankedCandidate struct {
	Type       string  `json:"type"`
	Fitness    int     `json:"fitness"`
	Quality    float64 `json:"quality"`
	Acceptable bool    `json:"acceptable"`
}

func formatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
