// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report prints digests and their similarities as text tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

const DefaultPrecision = 6

// Options selects what the tables show.
type Options struct {
	// Statistics adds factor, size and block statistics to PrintDigests.
	Statistics bool
	// Hashes adds the canonical string to PrintDigests.
	Hashes bool
	// Color highlights similarities when w is a terminal.
	Color bool
	// Precision is the number of decimals of similarities. 0 means DefaultPrecision.
	Precision int
}

func (o Options) precision() int {
	if o.Precision <= 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// palette holds the similarity styles for one writer.
type palette struct {
	high, medium, low lipgloss.Style
	enabled           bool
}

func newPalette(w io.Writer, enabled bool) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		high:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		medium:  r.NewStyle().Foreground(lipgloss.Color("11")),
		low:     r.NewStyle().Foreground(lipgloss.Color("9")),
		enabled: enabled,
	}
}

func (p palette) similarity(s float64, precision int) cell {
	c := cell{text: strconv.FormatFloat(s, 'f', precision, 64)}
	if !p.enabled {
		return c
	}
	switch {
	case s >= 0.75:
		c.style = &p.high
	case s >= 0.25:
		c.style = &p.medium
	default:
		c.style = &p.low
	}
	return c
}

// PrintDigests prints one row per entry. Without Statistics or Hashes only
// the names are listed.
func PrintDigests(w io.Writer, entries []ufh.NamedDigest, opts Options) error {
	t := &table{header: []string{""}}
	if opts.Statistics {
		t.header = append(t.header, "factor", "data size", "blocks", "block mean", "block stddev")
	}
	if opts.Hashes {
		t.header = append(t.header, "hash")
	}

	for _, e := range entries {
		row := []cell{{text: e.Name}}
		d := e.Digest
		if opts.Statistics {
			if d == nil {
				row = append(row, cell{text: nullValue}, cell{text: nullValue}, cell{text: nullValue}, cell{text: nullValue}, cell{text: nullValue})
			} else {
				row = append(row,
					cell{text: strconv.Itoa(d.Factor())},
					cell{text: humanize.Comma(int64(d.DataSize()))},
					cell{text: humanize.Comma(int64(d.AmountOfBlocks()))},
					cell{text: strconv.FormatFloat(d.BlockSizeMean(), 'f', 2, 64)},
					cell{text: strconv.FormatFloat(d.BlockSizeStdDev(), 'f', 2, 64)},
				)
			}
		}
		if opts.Hashes {
			if d == nil {
				row = append(row, cell{text: nullValue})
			} else {
				row = append(row, cell{text: d.String()})
			}
		}
		t.addRow(row...)
	}

	return t.render(w)
}

// PrintSimilarityTable prints the similarity of every row entry to every
// column entry.
func PrintSimilarityTable(w io.Writer, rows, cols []ufh.NamedDigest, opts Options) error {
	p := newPalette(w, opts.Color)
	t := &table{header: []string{""}}
	for _, c := range cols {
		t.header = append(t.header, c.Name)
	}

	for _, r := range rows {
		row := []cell{{text: r.Name}}
		for _, c := range cols {
			if r.Digest == nil || c.Digest == nil {
				row = append(row, cell{text: nullValue})
				continue
			}
			s, err := r.Digest.Similarity(c.Digest)
			if err != nil {
				return fmt.Errorf("%s to %s: %w", r.Name, c.Name, err)
			}
			row = append(row, p.similarity(s, opts.precision()))
		}
		t.addRow(row...)
	}

	return t.render(w)
}

// PrintSimilarities prints every similarity measure between ref and each
// entry. Entries are sorted by sortBy, or kept in order when it is nil.
func PrintSimilarities(w io.Writer, refName string, ref *ufh.Digest, entries []ufh.NamedDigest, sortBy *ufh.SortCriterion, opts Options) error {
	if ref == nil {
		return ufh.ErrNilInput
	}
	if sortBy != nil {
		sorted, err := ufh.SortNamedBySimilarity(entries, ref, *sortBy)
		if err != nil {
			return err
		}
		entries = sorted
	}

	p := newPalette(w, opts.Color)
	prec := opts.precision()
	t := &table{header: []string{"", refName + " ->", "-> " + refName, "max", "min", "mean", "geo mean"}}
	for _, e := range entries {
		if e.Digest == nil {
			t.addRow(cell{text: e.Name}, cell{text: nullValue}, cell{text: nullValue}, cell{text: nullValue},
				cell{text: nullValue}, cell{text: nullValue}, cell{text: nullValue})
			continue
		}
		scores, err := ref.AllSimilarities(e.Digest)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		t.addRow(cell{text: e.Name},
			p.similarity(scores.Similarity, prec),
			p.similarity(scores.ReverseSimilarity, prec),
			p.similarity(scores.Max, prec),
			p.similarity(scores.Min, prec),
			p.similarity(scores.ArithmeticMean, prec),
			p.similarity(scores.GeometricMean, prec),
		)
	}

	return t.render(w)
}
