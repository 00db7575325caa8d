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
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gnomeria/kateglo/mimeparse"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("10"))
	rejectStyle = cellStyle.Foreground(lipgloss.Color("243"))
)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle)
}

// render writes t through a colorprofile writer so colors are downsampled
// to the terminal, or stripped when stdout is not one.
func (s *state) render(t *table.Table) error {
	w := colorprofile.NewWriter(s.stdout, os.Environ())
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// renderRanking prints candidates best first. The winning row is highlighted
// and unacceptable rows are dimmed.
//
//	╭───┬──────────────────┬─────────┬─────────╮
//	│ # │ Type             │ Fitness │ Quality │
//	├───┼──────────────────┼─────────┼─────────┤
//	│ 1 │ application/json │ 110     │ 1       │
//	│ 2 │ text/html        │ -       │ 0       │
//	╰───┴──────────────────┴─────────┴─────────╯
func (s *state) renderRanking(ranked []mimeparse.Candidate) error {
	rows := make([][]string, 0, len(ranked))
	for i, c := range ranked {
		fitness := "-"
		if c.Matched() {
			fitness = strconv.Itoa(c.Fitness)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), c.MimeType, fitness, formatQuality(c.Quality)})
	}

	t := newTable().
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case !ranked[row].Acceptable():
				return rejectStyle
			case row == 0:
				return bestStyle
			default:
				return cellStyle
			}
		}).
		Headers("#", "Type", "Fitness", "Quality").
		Rows(rows...)

	return s.render(t)
}

// renderRanges prints parsed media ranges, one row per range.
func (s *state) renderRanges(ranges []mimeparse.MediaType) error {
	rows := make([][]string, 0, len(ranges))
	for _, r := range ranges {
		params := make([]string, 0, len(r.Params))
		for _, p := range r.Params {
			if p.Key == "q" {
				continue
			}
			params = append(params, p.Key+"="+p.Value)
		}
		rows = append(rows, []string{r.Type, r.Subtype, strings.Join(params, "; "), formatQuality(r.Quality())})
	}

	t := newTable().
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Type", "Subtype", "Params", "Q").
		Rows(rows...)

	return s.render(t)
}
